package slackexport

import (
	"fmt"
	"strings"
)

// Kind names the directory an opaque ID is resolved against
type Kind string

const (
	KindUser      Kind = "user"
	KindChannel   Kind = "channel"
	KindWorkspace Kind = "workspace"
)

// Directory maps opaque user, channel and workspace IDs to display names.
// It is built once per run and never mutated afterwards, so any number of
// channel workers may read it concurrently.
type Directory struct {
	users      map[string]string
	channels   map[string]string
	workspaces map[string]string
	byName     map[string]string // lowercased channel name -> channel ID
}

// NewDirectory copies the given tables into an immutable Directory. Nil
// tables are treated as empty.
func NewDirectory(users, channels, workspaces map[string]string) *Directory {
	d := &Directory{
		users:      copyTable(users),
		channels:   copyTable(channels),
		workspaces: copyTable(workspaces),
		byName:     make(map[string]string, len(channels)),
	}
	for id, name := range d.channels {
		key := strings.ToLower(name)
		// Keep the smallest ID when two channels share a name so lookups are
		// deterministic regardless of map order.
		if prev, ok := d.byName[key]; ok && prev < id {
			continue
		}
		d.byName[key] = id
	}
	return d
}

func copyTable(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Resolve returns the display name for id. Unknown IDs resolve to
// "unknown-<kind>-<id>"; Resolve never fails.
func (d *Directory) Resolve(kind Kind, id string) string {
	if name, ok := d.lookup(kind, id); ok {
		return name
	}
	return fmt.Sprintf("unknown-%s-%s", kind, id)
}

// Lookup reports the display name for id without falling back to a placeholder
func (d *Directory) Lookup(kind Kind, id string) (string, bool) {
	return d.lookup(kind, id)
}

func (d *Directory) lookup(kind Kind, id string) (string, bool) {
	if d == nil {
		return "", false
	}
	var table map[string]string
	switch kind {
	case KindUser:
		table = d.users
	case KindChannel:
		table = d.channels
	case KindWorkspace:
		table = d.workspaces
	default:
		return "", false
	}
	name, ok := table[id]
	return name, ok
}

// ChannelID finds a channel ID by channel name, ignoring case and a leading '#'
func (d *Directory) ChannelID(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	name = strings.ToLower(strings.TrimPrefix(name, "#"))
	id, ok := d.byName[name]
	return id, ok
}

// Size returns the number of entries per directory kind
func (d *Directory) Size(kind Kind) int {
	if d == nil {
		return 0
	}
	switch kind {
	case KindUser:
		return len(d.users)
	case KindChannel:
		return len(d.channels)
	case KindWorkspace:
		return len(d.workspaces)
	}
	return 0
}
