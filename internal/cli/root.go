// Package cli wires configuration, logging and the analysis client into the
// taskrank command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/taskrank/internal/analysis"
	"github.com/sandeepkv93/taskrank/internal/config"
)

type globalOptions struct {
	configPath string
	apiURL     string
	verbose    bool
}

// NewRootCommand builds the full command tree. The default action is the
// interactive UI.
func NewRootCommand(version string) *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "taskrank",
		Short: "taskrank - collect tasks and rank them with the analysis service",
		Long: `taskrank collects tasks through a terminal form, quick-add or JSON, sends
them to the task analysis service and shows the ranked result.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&opts.apiURL, "api", "", "analysis service base URL")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newAnalyzeCmd(opts))
	root.AddCommand(newSuggestCmd(opts))
	root.AddCommand(newValidateCmd())
	root.AddCommand(newHealthCmd(opts))
	root.AddCommand(newVersionCmd(version))

	root.Version = version
	return root
}

// Execute runs the root command
func Execute(version string) error {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (o *globalOptions) runtimeConfig() (config.RuntimeConfig, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	if api := strings.TrimSpace(o.apiURL); api != "" {
		cfg.APIBaseURL = api
	}
	return cfg, nil
}

// logger opens the configured log file. Without one, interactive sessions
// discard logs and other commands write to stderr when verbose.
func (o *globalOptions) logger(cfg config.RuntimeConfig, stderr io.Writer, interactive bool) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	noop := func() error { return nil }

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, noop, fmt.Errorf("open log file: %w", err)
		}
		return slog.New(slog.NewTextHandler(f, handlerOpts)), f.Close, nil
	}
	if !interactive && o.verbose {
		return slog.New(slog.NewTextHandler(stderr, handlerOpts)), noop, nil
	}
	return slog.New(slog.NewTextHandler(io.Discard, handlerOpts)), noop, nil
}

func (o *globalOptions) client(cfg config.RuntimeConfig, logger *slog.Logger) *analysis.Client {
	return analysis.NewClient(cfg.APIBaseURL,
		analysis.WithTimeout(cfg.RequestTimeout()),
		analysis.WithLogger(logger),
	)
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the taskrank version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "taskrank %s\n", version)
			return nil
		},
	}
}
