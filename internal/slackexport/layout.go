package slackexport

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ryanuber/go-glob"
)

const (
	usersFile    = "users.json"
	channelsFile = "channels.json"
	groupsFile   = "groups.json"
)

// ExportLayout locates channels, day files and directory files inside an
// unzipped Slack export
type ExportLayout struct {
	root string
}

// OpenExport checks that root is a readable directory
func OpenExport(root string) (*ExportLayout, error) {
	fi, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, newFatalError(CodeExportRootMissing, err)
	}
	if err != nil {
		return nil, newFatalError(CodeExportRootUnreadable, err)
	}
	if !fi.IsDir() {
		return nil, newFatalError(CodeExportRootUnreadable, &fs.PathError{Op: "open", Path: root, Err: errors.New("not a directory")})
	}
	return &ExportLayout{root: root}, nil
}

// Root returns the export directory
func (l *ExportLayout) Root() string {
	return l.root
}

// Channels lists the channel directories of the export, sorted by name
func (l *ExportLayout) Channels() ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, newFatalError(CodeExportRootUnreadable, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// MatchChannels returns the channels whose name matches pattern, where '*'
// matches any run of characters. An empty pattern matches everything.
// Matching nothing is fatal.
func (l *ExportLayout) MatchChannels(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	all, err := l.Channels()
	if err != nil {
		return nil, err
	}
	var matched []string
	for _, name := range all {
		if glob.Glob(pattern, name) {
			matched = append(matched, name)
		}
	}
	if len(matched) == 0 {
		return nil, newFatalError(CodeNoChannelsMatched, errors.New("pattern "+pattern))
	}
	return matched, nil
}

// HasChannel checks that name is a channel directory of the export. Unlike
// MatchChannels, name is taken literally.
func (l *ExportLayout) HasChannel(name string) error {
	all, err := l.Channels()
	if err != nil {
		return err
	}
	if !slices.Contains(all, name) {
		return newFatalError(CodeNoChannelsMatched, errors.New("channel "+name))
	}
	return nil
}

// DayFiles returns the paths of a channel's daily files in chronological
// order. Daily files are named YYYY-MM-DD.json so name order is date order.
func (l *ExportLayout) DayFiles(channel string) ([]string, error) {
	dir := filepath.Join(l.root, channel)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}

// ReadDays reads a channel's daily files. Unreadable files are reported and
// skipped.
func (l *ExportLayout) ReadDays(channel string, report *Report) []DayFile {
	paths, err := l.DayFiles(channel)
	if err != nil {
		report.Warn(channel, -1, "cannot list day files: %v", err)
		return nil
	}
	days := make([]DayFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			report.Warn(filepath.Base(p), -1, "unreadable day file: %v", err)
			continue
		}
		days = append(days, DayFile{Name: filepath.Base(p), Data: data})
	}
	return days
}

// ReadDirectory loads users.json and channels.json (plus groups.json when
// present) into a Directory. Missing or unparsable files are reported and
// leave the corresponding table empty.
func (l *ExportLayout) ReadDirectory(style NameStyle, workspaces map[string]string, report *Report) *Directory {
	users := l.readTable(usersFile, true, report, func(data []byte) (map[string]string, error) {
		return ParseUsers(usersFile, data, style, report)
	})
	channels := l.readTable(channelsFile, true, report, func(data []byte) (map[string]string, error) {
		return ParseChannels(channelsFile, data, report)
	})
	groups := l.readTable(groupsFile, false, report, func(data []byte) (map[string]string, error) {
		return ParseChannels(groupsFile, data, report)
	})
	for id, name := range groups {
		if _, ok := channels[id]; !ok {
			channels[id] = name
		}
	}
	return NewDirectory(users, channels, workspaces)
}

func (l *ExportLayout) readTable(name string, required bool, report *Report, parse func([]byte) (map[string]string, error)) map[string]string {
	data, err := os.ReadFile(filepath.Join(l.root, name))
	if err != nil {
		if required || !errors.Is(err, fs.ErrNotExist) {
			report.Warn(name, -1, "directory file unavailable: %v", err)
		}
		return map[string]string{}
	}
	table, err := parse(data)
	if err != nil {
		report.Warn(name, -1, "%v", err)
		return map[string]string{}
	}
	return table
}
