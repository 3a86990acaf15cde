package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	exportmcp "go.mcconachie.co/slack-export-md/internal/mcp"
	"go.mcconachie.co/slack-export-md/internal/slackexport"
	"go.uber.org/zap"
)

type globalFlags struct {
	configPath string
	logLevel   string
	logDir     string
	outDir     string
	jobs       int
	nameStyle  string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "slack-export-md",
		Short: "Convert a Slack export into markdown transcripts",
		Long: `slack-export-md reads an unzipped Slack export (one directory per channel,
one JSON file per day, plus users.json and channels.json) and writes one
markdown file per channel with messages grouped into threads.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "YAML config file")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error (default info)")
	pf.StringVar(&flags.logDir, "log-dir", "", "also write logs to a daily file in this directory")
	pf.StringVarP(&flags.outDir, "out", "o", "", "output directory (default: md/ next to the export directory)")
	pf.IntVarP(&flags.jobs, "jobs", "j", 0, "channels to convert concurrently (default 1)")
	pf.StringVar(&flags.nameStyle, "name-style", "", "author names: display or initials (default display)")

	root.AddCommand(newConvertCmd(flags), newServeCmd(flags))
	return root
}

func newConvertCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <export-dir> [pattern]",
		Short: "Write a markdown transcript for every channel matching pattern",
		Long: `Convert the channels of an export whose directory name matches pattern
('*' matches any characters, default all channels). Output is written to
<out>/<channel>.md.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			cfg.ExportDir = args[0]
			if len(args) == 2 {
				cfg.Pattern = args[1]
			}
			if err := cfg.Normalize(); err != nil {
				return err
			}

			logger := initLogger(cfg.LogLevel, cfg.LogDir)
			defer logger.Sync()

			conv, err := newConverter(logger, cfg)
			if err != nil {
				return err
			}

			run, err := conv.Run(cmd.Context(), cfg.Pattern)
			if err != nil {
				return slackexport.WrapError(logger, "convert", err)
			}

			out := cmd.OutOrStdout()
			for _, ch := range run.Channels {
				fmt.Fprintf(out, "Channel %s: %s messages in %s threads -> %s (%s)\n",
					ch.Channel,
					humanize.Comma(int64(ch.Messages)),
					humanize.Comma(int64(ch.Threads)),
					ch.File.Path,
					humanize.Bytes(uint64(ch.File.Bytes)))
			}
			if run.Warnings > 0 {
				fmt.Fprintf(out, "%d input records or files were skipped; see the log for details\n", run.Warnings)
			}
			return nil
		},
	}
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	var exportDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve export tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			if exportDir != "" {
				cfg.ExportDir = exportDir
			}
			if err := cfg.Normalize(); err != nil {
				return err
			}

			logger := initLogger(cfg.LogLevel, cfg.LogDir)
			defer logger.Sync()

			conv, err := newConverter(logger, cfg)
			if err != nil {
				return err
			}

			server := exportmcp.CreateServer(logger, conv, version)
			if err := server.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
				logger.Error("Server error", zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&exportDir, "export", "e", "", "unzipped Slack export directory")
	return cmd
}

// resolveConfig loads the config file, if any, and applies explicitly set flags on top
func resolveConfig(cmd *cobra.Command, flags *globalFlags) (slackexport.Config, error) {
	var cfg slackexport.Config
	if flags.configPath != "" {
		loaded, err := slackexport.LoadConfig(flags.configPath)
		if err != nil {
			return slackexport.Config{}, err
		}
		cfg = loaded
	}

	set := cmd.Flags().Changed
	if set("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if set("log-dir") {
		cfg.LogDir = flags.logDir
	}
	if set("out") {
		cfg.OutDir = flags.outDir
	}
	if set("jobs") {
		cfg.Jobs = flags.jobs
	}
	if set("name-style") {
		cfg.NameStyle = slackexport.NameStyle(flags.nameStyle)
	}
	return cfg, nil
}

func newConverter(logger *zap.Logger, cfg slackexport.Config) (*slackexport.Converter, error) {
	logger.Info("Opening Slack export", zap.String("export_dir", cfg.ExportDir), zap.String("out_dir", cfg.OutDir))
	conv, err := slackexport.NewConverter(cfg, logger, slackexport.NewFileResponseWriter(cfg.OutDir))
	if err != nil {
		return nil, slackexport.WrapError(logger, "open_export", err)
	}
	if err := slackexport.PrepareOutputDir(cfg.OutDir); err != nil {
		return nil, slackexport.WrapError(logger, "prepare_output", err)
	}
	return conv, nil
}
