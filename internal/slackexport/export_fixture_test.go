package slackexport

import (
	"os"
	"path/filepath"
	"testing"
)

// writeExport creates an export tree under a temp dir. Keys are paths
// relative to the export root.
func writeExport(t *testing.T, files map[string]string) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "export")
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("Failed to create export root: %v", err)
	}
	return root
}

// generalExport is the two-day "general" channel plus directories
var generalExport = map[string]string{
	"users.json":              `[{"id":"U1","display_name":"alice"},{"id":"U2","display_name":"bob"}]`,
	"channels.json":           `[{"id":"C1","display_name":"general"},{"id":"C2","display_name":"random"}]`,
	"general/2024-01-01.json": `[{"id":"1.0","author_id":"U1","text":"hello"}]`,
	"general/2024-01-02.json": `[{"id":"2.0","thread_root_id":"1.0","author_id":"U2","text":"hi <@U1>"}]`,
	"random/2024-01-01.json":  `[{"id":"10.0","thread_root_id":"9.9","author_id":"U2","text":"late reply"}]`,
}

// newTestConverter opens root with a file response writer in a temp dir
func newTestConverter(t *testing.T, root string, jobs int) (*Converter, *testLogger, string) {
	t.Helper()

	outDir := t.TempDir()
	logger := newTestLogger()
	cfg := Config{ExportDir: root, OutDir: outDir, Jobs: jobs}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	conv, err := NewConverter(cfg, logger.Logger, NewFileResponseWriter(outDir))
	if err != nil {
		t.Fatalf("NewConverter failed: %v", err)
	}
	return conv, logger, outDir
}
