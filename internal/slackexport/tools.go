package slackexport

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListChannelsInput defines input for listing export channels
type ListChannelsInput struct {
	Pattern string `json:"pattern,omitempty" jsonschema:"Channel name glob, '*' matches any characters (default: all channels)"`
}

// ChannelInfo represents a channel directory in the export
type ChannelInfo struct {
	Name     string `json:"name"`
	ID       string `json:"id,omitempty"`
	DayFiles int    `json:"day_files"`
}

// ListChannelsOutput contains a summary and file reference (to save tokens)
type ListChannelsOutput struct {
	File         FileRef      `json:"file"`
	TotalCount   int          `json:"total_count"`
	FirstChannel *ChannelInfo `json:"first_channel,omitempty"`
	LastChannel  *ChannelInfo `json:"last_channel,omitempty"`
}

// ListChannels lists the export's channels matching a pattern.
// Results are written to a response file and a summary is returned to save tokens
func (c *Converter) ListChannels(ctx context.Context, req *mcp.CallToolRequest, input ListChannelsInput) (*mcp.CallToolResult, ListChannelsOutput, error) {
	names, err := c.layout.MatchChannels(input.Pattern)
	if err != nil {
		return nil, ListChannelsOutput{}, err
	}

	infos := make([]ChannelInfo, 0, len(names))
	for _, name := range names {
		info := ChannelInfo{Name: name}
		if id, ok := c.dir.ChannelID(name); ok {
			info.ID = id
		}
		if days, err := c.layout.DayFiles(name); err == nil {
			info.DayFiles = len(days)
		}
		infos = append(infos, info)
	}

	fileRef, err := c.responses.WriteJSON("channels", infos)
	if err != nil {
		return nil, ListChannelsOutput{}, fmt.Errorf("failed to write response: %w", err)
	}

	output := ListChannelsOutput{
		File:       fileRef,
		TotalCount: len(infos),
	}
	if len(infos) > 0 {
		output.FirstChannel = &infos[0]
		output.LastChannel = &infos[len(infos)-1]
	}
	return nil, output, nil
}

// ConvertInput defines input for converting channels to markdown
type ConvertInput struct {
	Pattern string `json:"pattern,omitempty" jsonschema:"Channel name glob, '*' matches any characters (default: all channels)"`
	OutDir  string `json:"out_dir,omitempty" jsonschema:"Directory for the markdown files (default: the server's output directory)"`
}

// ConvertOutput contains per-channel transcript references and totals
type ConvertOutput struct {
	OutDir       string          `json:"out_dir"`
	Channels     []ChannelResult `json:"channels"`
	MessageCount int             `json:"message_count"`
	ThreadCount  int             `json:"thread_count"`
	WarningCount int             `json:"warning_count"`
}

// Convert writes one markdown transcript per matching channel
func (c *Converter) Convert(ctx context.Context, req *mcp.CallToolRequest, input ConvertInput) (*mcp.CallToolResult, ConvertOutput, error) {
	conv := c
	if input.OutDir != "" {
		if err := PrepareOutputDir(input.OutDir); err != nil {
			return nil, ConvertOutput{}, err
		}
		conv = c.withResponses(NewFileResponseWriter(input.OutDir))
	}

	run, err := conv.Run(ctx, input.Pattern)
	if err != nil {
		return nil, ConvertOutput{}, err
	}
	return nil, ConvertOutput{
		OutDir:       conv.responses.Dir(),
		Channels:     run.Channels,
		MessageCount: run.Messages,
		ThreadCount:  run.Threads,
		WarningCount: run.Warnings,
	}, nil
}

// ReadThreadInput defines input for reading one assembled thread
type ReadThreadInput struct {
	Channel string `json:"channel" jsonschema:"Channel directory name (e.g., general)"`
	RootID  string `json:"root_id" jsonschema:"Thread root message timestamp (e.g., 1234567890.123456)"`
}

// ReadThreadOutput contains one thread rendered as markdown
type ReadThreadOutput struct {
	Channel    string `json:"channel"`
	RootID     string `json:"root_id"`
	ReplyCount int    `json:"reply_count"`
	Stub       bool   `json:"stub,omitempty"`
	Markdown   string `json:"markdown"`
}

// ReadThread assembles a channel and renders the thread rooted at RootID
func (c *Converter) ReadThread(ctx context.Context, req *mcp.CallToolRequest, input ReadThreadInput) (*mcp.CallToolResult, ReadThreadOutput, error) {
	if input.Channel == "" || input.RootID == "" {
		return nil, ReadThreadOutput{}, fmt.Errorf("channel and root_id are required")
	}
	if err := c.layout.HasChannel(input.Channel); err != nil {
		return nil, ReadThreadOutput{}, err
	}

	threads, report := c.Threads(input.Channel)
	report.Log(c.logger)

	th, ok := FindThread(threads, Timestamp(input.RootID))
	if !ok {
		return nil, ReadThreadOutput{}, fmt.Errorf("thread %s not found in channel %s", input.RootID, input.Channel)
	}

	t := &transcript{dir: c.dir, renderer: c.renderer}
	return nil, ReadThreadOutput{
		Channel:    input.Channel,
		RootID:     input.RootID,
		ReplyCount: len(th.Replies),
		Stub:       th.Root.Stub,
		Markdown:   t.FormatThread(th),
	}, nil
}
