package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.mcconachie.co/slack-export-md/internal/slackexport"
	"go.uber.org/zap"
)

// errorWrappingHandler wraps a ToolHandler to log fatal errors with guidance
type errorWrappingHandler struct {
	handler ToolHandler
	logger  *zap.Logger
}

func (h *errorWrappingHandler) ListChannels(ctx context.Context, req *mcp.CallToolRequest, input slackexport.ListChannelsInput) (*mcp.CallToolResult, slackexport.ListChannelsOutput, error) {
	result, output, err := h.handler.ListChannels(ctx, req, input)
	return result, output, slackexport.WrapError(h.logger, "list_channels", err)
}

func (h *errorWrappingHandler) Convert(ctx context.Context, req *mcp.CallToolRequest, input slackexport.ConvertInput) (*mcp.CallToolResult, slackexport.ConvertOutput, error) {
	result, output, err := h.handler.Convert(ctx, req, input)
	return result, output, slackexport.WrapError(h.logger, "convert", err)
}

func (h *errorWrappingHandler) ReadThread(ctx context.Context, req *mcp.CallToolRequest, input slackexport.ReadThreadInput) (*mcp.CallToolResult, slackexport.ReadThreadOutput, error) {
	result, output, err := h.handler.ReadThread(ctx, req, input)
	return result, output, slackexport.WrapError(h.logger, "read_thread", err)
}

// ToolHandler defines the interface for export tool operations
//
//go:generate go tool mockgen -source=$GOFILE -destination=mcp_mocks.go -package=mcp
type ToolHandler interface {
	ListChannels(ctx context.Context, req *mcp.CallToolRequest, input slackexport.ListChannelsInput) (*mcp.CallToolResult, slackexport.ListChannelsOutput, error)
	Convert(ctx context.Context, req *mcp.CallToolRequest, input slackexport.ConvertInput) (*mcp.CallToolResult, slackexport.ConvertOutput, error)
	ReadThread(ctx context.Context, req *mcp.CallToolRequest, input slackexport.ReadThreadInput) (*mcp.CallToolResult, slackexport.ReadThreadOutput, error)
}

// CreateServer creates an MCP server with all export tools registered
func CreateServer(logger *zap.Logger, handler ToolHandler, version string) *mcp.Server {
	logger.Info("Starting MCP server")
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "slack-export-md",
			Version: version,
		},
		nil,
	)

	wrappedHandler := &errorWrappingHandler{handler: handler, logger: logger}
	registerTools(server, wrappedHandler)
	logger.Info("Slack export server initialized, starting transport")
	return server
}

// registerTools registers all export tools with the MCP server
func registerTools(server *mcp.Server, handler ToolHandler) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_list_channels",
		Description: "List channels in the Slack export matching a glob pattern. Returns channel names, IDs and the number of daily files.",
	}, handler.ListChannels)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_convert",
		Description: "Convert matching channels of the Slack export into markdown transcripts, one file per channel with messages grouped into threads.",
	}, handler.Convert)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_read_thread",
		Description: "Render one thread of a channel as markdown. Use the root message timestamp; replies whose root is missing from the export appear under a placeholder root.",
	}, handler.ReadThread)
}
