package slackexport

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/slack-go/slack"
)

// DayFile is the raw content of one daily export file
type DayFile struct {
	Name string // file name, e.g. "2024-01-31.json"
	Data []byte
}

// NameStyle selects how user display names are derived from users.json
type NameStyle string

const (
	NameStyleDisplay  NameStyle = "display"
	NameStyleInitials NameStyle = "initials"
)

// metaSubtypes are message subtypes that record channel events rather than
// conversation. They are dropped from transcripts.
var metaSubtypes = map[string]bool{
	"channel_join":      true,
	"channel_leave":     true,
	"channel_topic":     true,
	"channel_purpose":   true,
	"channel_name":      true,
	"channel_archive":   true,
	"channel_unarchive": true,
	"group_join":        true,
	"group_leave":       true,
	"group_topic":       true,
	"group_purpose":     true,
	"group_name":        true,
	"group_archive":     true,
	"group_unarchive":   true,
	"pinned_item":       true,
	"unpinned_item":     true,
	"message_changed":   true,
	"message_deleted":   true,
}

// messageRecord is the documented record shape. Native Slack records carry
// "ts" instead of "id" and are decoded through slack.Message.
type messageRecord struct {
	ID           string     `json:"id"`
	ThreadRootID string     `json:"thread_root_id"`
	AuthorID     string     `json:"author_id"`
	Text         string     `json:"text"`
	Reactions    []Reaction `json:"reactions"`
	Files        []FileLink `json:"files"`
	Subtype      string     `json:"subtype"`
	Ts           string     `json:"ts"`
}

// LoadMessages parses the daily files of one channel, in the order given,
// into a single message sequence. Files that cannot be parsed are skipped
// and reported; so are malformed records.
func LoadMessages(days []DayFile, channelID string, report *Report) []Message {
	var messages []Message
	for _, day := range days {
		parsed, err := ParseDay(day, channelID, report)
		if err != nil {
			report.Warn(day.Name, -1, "unparsable day file: %v", err)
			continue
		}
		messages = append(messages, parsed...)
	}
	return messages
}

// ParseDay decodes one daily export file. Records are returned ordered by ID;
// intra-file order in the export is not trusted. An error is returned only
// when the file as a whole is not a JSON array.
func ParseDay(day DayFile, channelID string, report *Report) ([]Message, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(day.Data, &raw); err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(raw))
	for pos, item := range raw {
		msg, ok := decodeMessage(day.Name, pos, item, report)
		if !ok {
			continue
		}
		msg.ChannelID = channelID
		messages = append(messages, msg)
	}

	slices.SortStableFunc(messages, func(a, b Message) int {
		return a.ID.Compare(b.ID)
	})
	return messages, nil
}

func decodeMessage(file string, pos int, item json.RawMessage, report *Report) (Message, bool) {
	var rec messageRecord
	if err := json.Unmarshal(item, &rec); err != nil {
		report.Warn(file, pos, "malformed record: %v", err)
		return Message{}, false
	}

	var msg Message
	if rec.ID == "" && rec.Ts != "" {
		var native slack.Message
		if err := json.Unmarshal(item, &native); err != nil {
			report.Warn(file, pos, "malformed record: %v", err)
			return Message{}, false
		}
		msg = fromSlackMessage(native)
	} else {
		msg = Message{
			ID:           Timestamp(rec.ID),
			ThreadRootID: Timestamp(rec.ThreadRootID),
			AuthorID:     rec.AuthorID,
			Text:         rec.Text,
			Reactions:    rec.Reactions,
			Files:        rec.Files,
			Subtype:      rec.Subtype,
		}
	}

	if metaSubtypes[msg.Subtype] {
		report.Note(file, pos, "skipped %s event", msg.Subtype)
		return Message{}, false
	}
	if msg.ID == "" {
		report.Warn(file, pos, "record has no id")
		return Message{}, false
	}
	if msg.AuthorID == "" {
		report.Warn(file, pos, "record %s has no author", msg.ID.Raw())
		return Message{}, false
	}
	return msg, true
}

// fromSlackMessage converts a native export record. Thread parents carry
// thread_ts equal to their own ts and become roots.
func fromSlackMessage(m slack.Message) Message {
	msg := Message{
		ID:        Timestamp(m.Timestamp),
		AuthorID:  m.User,
		Text:      m.Text,
		Reactions: processReactions(m.Reactions),
		Subtype:   m.SubType,
	}
	if m.ThreadTimestamp != "" && m.ThreadTimestamp != m.Timestamp {
		msg.ThreadRootID = Timestamp(m.ThreadTimestamp)
	}
	if msg.AuthorID == "" {
		msg.AuthorID = m.BotID
	}
	for _, f := range m.Files {
		link := FileLink{Name: firstNonEmpty(f.Title, f.Name, f.ID), URL: firstNonEmpty(f.Permalink, f.URLPrivate)}
		if link.URL == "" {
			continue
		}
		msg.Files = append(msg.Files, link)
	}
	return msg
}

// processReactions converts Slack reactions to export format
func processReactions(reactions []slack.ItemReaction) []Reaction {
	if len(reactions) == 0 {
		return nil
	}
	result := make([]Reaction, len(reactions))
	for i, r := range reactions {
		result[i] = Reaction{Name: r.Name, Count: r.Count}
	}
	return result
}

// directoryRecord is the documented directory shape
type directoryRecord struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// ParseUsers decodes users.json into an ID to display name table. Entries
// without an ID are skipped and reported against file.
func ParseUsers(file string, data []byte, style NameStyle, report *Report) (map[string]string, error) {
	return parseDirectory(file, data, report, func(entry directoryRecord, item json.RawMessage) string {
		var u slack.User
		if err := json.Unmarshal(item, &u); err != nil {
			return firstNonEmpty(entry.DisplayName, entry.ID)
		}
		if style == NameStyleInitials {
			if in := initials(firstNonEmpty(u.Profile.RealNameNormalized, u.Profile.RealName, u.RealName, entry.DisplayName)); in != "" {
				return in
			}
		}
		return firstNonEmpty(entry.DisplayName, u.Profile.DisplayName, u.Profile.RealName, u.RealName, u.Name, entry.ID)
	})
}

// ParseChannels decodes channels.json (or groups.json) into an ID to name table
func ParseChannels(file string, data []byte, report *Report) (map[string]string, error) {
	return parseDirectory(file, data, report, func(entry directoryRecord, item json.RawMessage) string {
		var ch slack.Channel
		if err := json.Unmarshal(item, &ch); err != nil {
			return firstNonEmpty(entry.DisplayName, entry.ID)
		}
		return firstNonEmpty(entry.DisplayName, ch.Name, ch.NameNormalized, entry.ID)
	})
}

func parseDirectory(file string, data []byte, report *Report, name func(directoryRecord, json.RawMessage) string) (map[string]string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}

	table := make(map[string]string, len(raw))
	for pos, item := range raw {
		var entry directoryRecord
		if err := json.Unmarshal(item, &entry); err != nil {
			report.Warn(file, pos, "malformed directory entry: %v", err)
			continue
		}
		if entry.ID == "" {
			report.Warn(file, pos, "directory entry has no id")
			continue
		}
		table[entry.ID] = name(entry, item)
	}
	return table, nil
}

// initials returns the first letter of each word of a real name, skipping
// parenthesised words such as pronouns.
func initials(realName string) string {
	var b strings.Builder
	for _, part := range strings.Fields(realName) {
		if strings.HasPrefix(part, "(") {
			continue
		}
		r := []rune(part)
		b.WriteRune(r[0])
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
