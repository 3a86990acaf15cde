package slackexport

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Converter turns the channels of one export into markdown transcripts.
// The directory tables are loaded once in NewConverter and shared read-only
// by every channel.
type Converter struct {
	layout    *ExportLayout
	dir       *Directory
	renderer  *Renderer
	logger    *zap.Logger
	responses ResponseWriter
	jobs      int
}

// ChannelResult summarizes the conversion of one channel
type ChannelResult struct {
	Channel   string  `json:"channel"`
	ChannelID string  `json:"channel_id"`
	File      FileRef `json:"file"`
	Messages  int     `json:"message_count"`
	Threads   int     `json:"thread_count"`
	Warnings  []Issue `json:"warnings,omitempty"`
	Notes     int     `json:"note_count"`
}

// RunResult summarizes a conversion run
type RunResult struct {
	Channels []ChannelResult
	Messages int
	Threads  int
	Warnings int
}

// NewConverter opens the export and loads its directory files. cfg must be
// normalized.
func NewConverter(cfg Config, logger *zap.Logger, responses ResponseWriter) (*Converter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	layout, err := OpenExport(cfg.ExportDir)
	if err != nil {
		return nil, err
	}

	report := &Report{Channel: "(directory)"}
	dir := layout.ReadDirectory(cfg.NameStyle, cfg.Workspaces, report)
	report.Log(logger)
	logger.Info("Loaded export directory",
		zap.String("export_dir", layout.Root()),
		zap.Int("users", dir.Size(KindUser)),
		zap.Int("channels", dir.Size(KindChannel)))

	return newConverterWithDirectory(layout, dir, logger, responses, cfg.Jobs), nil
}

// newConverterWithDirectory creates a converter with a given directory (for testing)
func newConverterWithDirectory(layout *ExportLayout, dir *Directory, logger *zap.Logger, responses ResponseWriter, jobs int) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir == nil {
		dir = NewDirectory(nil, nil, nil)
	}
	if jobs < 1 {
		jobs = 1
	}
	return &Converter{
		layout:    layout,
		dir:       dir,
		renderer:  NewRenderer(dir),
		logger:    logger,
		responses: responses,
		jobs:      jobs,
	}
}

// withResponses returns a copy of c writing to responses
func (c *Converter) withResponses(responses ResponseWriter) *Converter {
	cp := *c
	cp.responses = responses
	return &cp
}

// Run converts every channel matching pattern. Channels are independent, so
// up to c.jobs of them are converted at once; results keep channel order.
func (c *Converter) Run(ctx context.Context, pattern string) (RunResult, error) {
	channels, err := c.layout.MatchChannels(pattern)
	if err != nil {
		return RunResult{}, err
	}
	c.logger.Info("Converting channels",
		zap.String("pattern", pattern),
		zap.Int("channels", len(channels)),
		zap.Int("jobs", c.jobs))

	results := make([]ChannelResult, len(channels))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.jobs)
	for i, name := range channels {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := c.ConvertChannel(name)
			if err != nil {
				return fmt.Errorf("channel %s: %w", name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RunResult{}, err
	}

	run := RunResult{Channels: results}
	for _, r := range results {
		run.Messages += r.Messages
		run.Threads += r.Threads
		run.Warnings += len(r.Warnings)
	}
	c.logger.Info("Conversion complete",
		zap.Int("channels", len(results)),
		zap.String("messages", humanize.Comma(int64(run.Messages))),
		zap.String("threads", humanize.Comma(int64(run.Threads))),
		zap.Int("warnings", run.Warnings))
	return run, nil
}

// ConvertChannel converts one channel directory into <channel>.md.
// Unreadable day files and malformed records are skipped and reported; the
// only error is failing to write the transcript.
func (c *Converter) ConvertChannel(channel string) (ChannelResult, error) {
	threads, channelID, messages, report := c.loadThreads(channel)

	t := &transcript{dir: c.dir, renderer: c.renderer}
	ref, err := c.responses.WriteMarkdown(channel+".md", func(w LineWriter) error {
		return t.write(w, channel, threads)
	})
	if err != nil {
		return ChannelResult{}, fmt.Errorf("failed to write transcript: %w", err)
	}

	report.Log(c.logger)
	c.logger.Info("Wrote channel transcript",
		zap.String("channel", channel),
		zap.String("path", ref.Path),
		zap.String("size", humanize.Bytes(uint64(ref.Bytes))),
		zap.Int("messages", messages),
		zap.Int("threads", len(threads)))

	return ChannelResult{
		Channel:   channel,
		ChannelID: channelID,
		File:      ref,
		Messages:  messages,
		Threads:   len(threads),
		Warnings:  report.Warnings,
		Notes:     len(report.Notes),
	}, nil
}

// Threads loads and assembles one channel without writing a transcript
func (c *Converter) Threads(channel string) ([]Thread, *Report) {
	threads, _, _, report := c.loadThreads(channel)
	return threads, report
}

func (c *Converter) loadThreads(channel string) ([]Thread, string, int, *Report) {
	report := &Report{Channel: channel}
	channelID, ok := c.dir.ChannelID(channel)
	if !ok {
		channelID = channel
	}

	days := c.layout.ReadDays(channel, report)
	messages := LoadMessages(days, channelID, report)
	threads := Assemble(messages, report)

	c.logger.Debug("Assembled channel threads",
		zap.String("channel", channel),
		zap.Int("day_files", len(days)),
		zap.Int("messages", len(messages)),
		zap.Int("threads", len(threads)))
	return threads, channelID, len(messages), report
}
