package slackexport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func readTranscript(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read transcript: %v", err)
	}
	return string(data)
}

func TestConverter_Run(t *testing.T) {
	root := writeExport(t, generalExport)
	conv, logger, outDir := newTestConverter(t, root, 1)

	run, err := conv.Run(context.Background(), "*")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(run.Channels) != 2 {
		t.Fatalf("Channels: got %d, want 2", len(run.Channels))
	}
	if run.Messages != 3 || run.Threads != 2 || run.Warnings != 0 {
		t.Errorf("totals: got %d messages, %d threads, %d warnings; want 3, 2, 0", run.Messages, run.Threads, run.Warnings)
	}

	general := run.Channels[0]
	if general.Channel != "general" || general.ChannelID != "C1" {
		t.Errorf("first channel: got %s (%s), want general (C1)", general.Channel, general.ChannelID)
	}
	if general.File.Path != filepath.Join(outDir, "general.md") {
		t.Errorf("File.Path: got %q", general.File.Path)
	}

	wantGeneral := "# general\n" +
		"\n" +
		"**alice** *[1970-01-01 00:00:01 UTC]*: hello\n" +
		"\n" +
		"> **bob** *[1970-01-01 00:00:02 UTC]*: hi @alice\n" +
		"\n" +
		"---\n" +
		"\n"
	if got := readTranscript(t, general.File.Path); got != wantGeneral {
		t.Errorf("general.md:\ngot:\n%s\nwant:\n%s", got, wantGeneral)
	}
	if general.File.Lines != 8 {
		t.Errorf("general.md lines: got %d, want 8", general.File.Lines)
	}

	random := run.Channels[1]
	wantRandom := "# random\n" +
		"\n" +
		"**_original message unavailable_** *[1970-01-01 00:00:09 UTC]*:\n" +
		"\n" +
		"> **bob** *[1970-01-01 00:00:10 UTC]*: late reply\n" +
		"\n" +
		"---\n" +
		"\n"
	if got := readTranscript(t, random.File.Path); got != wantRandom {
		t.Errorf("random.md:\ngot:\n%s\nwant:\n%s", got, wantRandom)
	}
	if random.Notes != 1 {
		t.Errorf("random notes: got %d, want 1", random.Notes)
	}
	if !logger.HasMessage("Export note") {
		t.Error("expected the synthesized root to be logged as a note")
	}
	if !logger.HasMessage("Conversion complete") {
		t.Errorf("expected completion log, got %v", logger.AllMessages())
	}
}

func TestConverter_RunPattern(t *testing.T) {
	root := writeExport(t, generalExport)
	conv, _, outDir := newTestConverter(t, root, 1)

	run, err := conv.Run(context.Background(), "gen*")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(run.Channels) != 1 || run.Channels[0].Channel != "general" {
		t.Fatalf("Channels: got %+v, want only general", run.Channels)
	}
	if _, err := os.Stat(filepath.Join(outDir, "random.md")); !os.IsNotExist(err) {
		t.Errorf("random.md should not be written, stat err: %v", err)
	}
}

func TestConverter_RunNoMatch(t *testing.T) {
	root := writeExport(t, generalExport)
	conv, _, _ := newTestConverter(t, root, 1)

	_, err := conv.Run(context.Background(), "ops-*")
	if fe := matchFatalError(err); fe == nil || fe.Code != CodeNoChannelsMatched {
		t.Errorf("Run(ops-*): got %v, want %s", err, CodeNoChannelsMatched)
	}
}

func TestConverter_SkipsBadInput(t *testing.T) {
	files := map[string]string{
		"users.json":              `[{"id":"U1","display_name":"alice"}]`,
		"channels.json":           `[{"id":"C1","display_name":"general"}]`,
		"general/2024-01-01.json": `[{"id":"1.0","author_id":"U1","text":"kept"},{"id":"1.5","text":"no author"}]`,
		"general/2024-01-02.json": `this is not json`,
		"general/2024-01-03.json": `[{"id":"3.0","author_id":"U1","text":"also kept"}]`,
	}
	root := writeExport(t, files)
	conv, logger, _ := newTestConverter(t, root, 1)

	run, err := conv.Run(context.Background(), "general")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	ch := run.Channels[0]
	if ch.Messages != 2 || ch.Threads != 2 {
		t.Errorf("got %d messages in %d threads, want 2 in 2", ch.Messages, ch.Threads)
	}
	if len(ch.Warnings) != 2 || run.Warnings != 2 {
		t.Errorf("warnings: got %v (run total %d), want 2", ch.Warnings, run.Warnings)
	}

	warnLogs := logger.LoggedMessages(zapcore.WarnLevel)
	if len(warnLogs) != 3 {
		t.Errorf("warn logs: got %v, want two skipped inputs and a summary", warnLogs)
	}

	want := "# general\n" +
		"\n" +
		"**alice** *[1970-01-01 00:00:01 UTC]*: kept\n" +
		"\n" +
		"**alice** *[1970-01-01 00:00:03 UTC]*: also kept\n" +
		"\n"
	if got := readTranscript(t, ch.File.Path); got != want {
		t.Errorf("general.md:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestConverter_EmptyChannel(t *testing.T) {
	root := writeExport(t, map[string]string{
		"users.json":            `[]`,
		"channels.json":         `[]`,
		"quiet/2024-01-01.json": `[]`,
	})
	conv, _, _ := newTestConverter(t, root, 1)

	run, err := conv.Run(context.Background(), "quiet")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	ch := run.Channels[0]
	if ch.ChannelID != "quiet" {
		t.Errorf("ChannelID fallback: got %q, want %q", ch.ChannelID, "quiet")
	}
	if got := readTranscript(t, ch.File.Path); got != "# quiet\n\n" {
		t.Errorf("quiet.md: got %q", got)
	}
}

// Channels converted concurrently produce the same transcripts in channel order
func TestConverter_RunConcurrent(t *testing.T) {
	files := map[string]string{
		"users.json":    `[{"id":"U1","display_name":"alice"}]`,
		"channels.json": `[]`,
	}
	const channels = 12
	for i := 0; i < channels; i++ {
		name := fmt.Sprintf("chan-%02d/2024-01-01.json", i)
		files[name] = fmt.Sprintf(`[{"id":"%d.0","author_id":"U1","text":"message %d"}]`, i+1, i)
	}
	root := writeExport(t, files)

	serial, _, _ := newTestConverter(t, root, 1)
	parallel, _, _ := newTestConverter(t, root, 4)

	want, err := serial.Run(context.Background(), "*")
	if err != nil {
		t.Fatalf("serial Run failed: %v", err)
	}
	got, err := parallel.Run(context.Background(), "*")
	if err != nil {
		t.Fatalf("parallel Run failed: %v", err)
	}

	if len(got.Channels) != channels {
		t.Fatalf("Channels: got %d, want %d", len(got.Channels), channels)
	}
	for i := range got.Channels {
		if got.Channels[i].Channel != want.Channels[i].Channel {
			t.Errorf("channel %d: got %s, want %s", i, got.Channels[i].Channel, want.Channels[i].Channel)
			continue
		}
		if a, b := readTranscript(t, got.Channels[i].File.Path), readTranscript(t, want.Channels[i].File.Path); a != b {
			t.Errorf("channel %s transcripts differ:\n%s\n%s", got.Channels[i].Channel, a, b)
		}
	}
}

func TestConverter_RunCancelled(t *testing.T) {
	root := writeExport(t, generalExport)
	conv, _, _ := newTestConverter(t, root, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := conv.Run(ctx, "*"); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestNewConverter_MissingExport(t *testing.T) {
	cfg := Config{ExportDir: filepath.Join(t.TempDir(), "missing")}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	_, err := NewConverter(cfg, nil, NewFileResponseWriter(cfg.OutDir))
	if fe := matchFatalError(err); fe == nil || fe.Code != CodeExportRootMissing {
		t.Errorf("NewConverter: got %v, want %s", err, CodeExportRootMissing)
	}
}

func TestConverter_Threads(t *testing.T) {
	root := writeExport(t, generalExport)
	conv, _, _ := newTestConverter(t, root, 1)

	threads, report := conv.Threads("random")
	if len(threads) != 1 || !threads[0].Root.Stub || threads[0].Root.ID != "9.9" {
		t.Fatalf("Threads(random): got %+v", threads)
	}
	if threads[0].Replies[0].ChannelID != "C2" {
		t.Errorf("ChannelID: got %q, want C2", threads[0].Replies[0].ChannelID)
	}
	if len(report.Notes) != 1 {
		t.Errorf("notes: got %v, want 1", report.Notes)
	}
}
