package slackexport

// UnavailableAuthor is the reserved author marker carried by synthesized
// thread roots whose original message is not in the export.
const UnavailableAuthor = "(original message unavailable)"

// Message is one chat event from a channel's daily export files
type Message struct {
	ID           Timestamp
	ThreadRootID Timestamp // empty for thread roots
	AuthorID     string
	Text         string
	Reactions    []Reaction
	ChannelID    string
	Subtype      string
	Files        []FileLink
	Stub         bool // synthesized root standing in for a missing parent
}

// IsReply reports whether the message names a thread root
func (m *Message) IsReply() bool {
	return m.ThreadRootID != ""
}

// Reaction is an emoji reaction with its count
type Reaction struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// FileLink is a reference to a shared file. File contents are never exported.
type FileLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Thread is a root message and its replies in display order
type Thread struct {
	Root    Message
	Replies []Message
}

// Len returns the number of messages in the thread, root included
func (t *Thread) Len() int {
	return len(t.Replies) + 1
}
