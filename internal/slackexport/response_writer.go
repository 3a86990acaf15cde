package slackexport

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileRef describes a file written by ResponseWriter
type FileRef struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Bytes int64  `json:"bytes"`
	Lines int    `json:"lines"`
}

// LineWriter provides streaming writes of text lines
type LineWriter interface {
	WriteLine(line string) error
}

// ResponseWriter writes transcripts and tool responses to files
type ResponseWriter interface {
	WriteJSON(name string, data any) (FileRef, error)
	WriteMarkdown(filename string, writeFn func(w LineWriter) error) (FileRef, error)
	Dir() string
}

// FileResponseWriter writes response data to files on disk
type FileResponseWriter struct {
	dir string
}

// NewFileResponseWriter creates a response writer that stores files in the given directory
func NewFileResponseWriter(dir string) *FileResponseWriter {
	return &FileResponseWriter{dir: dir}
}

// PrepareOutputDir creates dir if needed. Failure is fatal for a run.
func PrepareOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newFatalError(CodeOutputUnwritable, err)
	}
	return nil
}

// Dir returns the directory where files are written
func (w *FileResponseWriter) Dir() string {
	return w.dir
}

// WriteJSON marshals data to JSON and writes it to a timestamped file
func (w *FileResponseWriter) WriteJSON(name string, data any) (FileRef, error) {
	filename := fmt.Sprintf("%s-%d.json", name, time.Now().UnixNano())
	filePath := filepath.Join(w.dir, filename)

	file, err := os.Create(filePath)
	if err != nil {
		return FileRef{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return FileRef{}, fmt.Errorf("failed to write data: %w", err)
	}

	fi, err := file.Stat()
	if err != nil {
		return FileRef{}, fmt.Errorf("failed to stat file: %w", err)
	}

	return FileRef{
		Path:  filePath,
		Name:  filename,
		Bytes: fi.Size(),
		Lines: 1,
	}, nil
}

// lineWriter implements LineWriter for streaming writes directly to disk
type lineWriter struct {
	bw    *bufio.Writer
	lines int
}

func (w *lineWriter) WriteLine(line string) error {
	if _, err := w.bw.WriteString(line); err != nil {
		return err
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return err
	}
	w.lines++
	return nil
}

// WriteMarkdown writes a markdown file with the given name, replacing any
// previous file. Lines are streamed through a buffered writer rather than
// accumulated in memory.
func (w *FileResponseWriter) WriteMarkdown(filename string, writeFn func(lw LineWriter) error) (FileRef, error) {
	filePath := filepath.Join(w.dir, filename)

	file, err := os.Create(filePath)
	if err != nil {
		return FileRef{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	lw := &lineWriter{bw: bufio.NewWriter(file)}

	if err := writeFn(lw); err != nil {
		return FileRef{}, err
	}

	if err := lw.bw.Flush(); err != nil {
		return FileRef{}, fmt.Errorf("failed to flush buffer: %w", err)
	}

	fi, err := file.Stat()
	if err != nil {
		return FileRef{}, fmt.Errorf("failed to stat file: %w", err)
	}

	return FileRef{
		Path:  filePath,
		Name:  filename,
		Bytes: fi.Size(),
		Lines: lw.lines,
	}, nil
}
