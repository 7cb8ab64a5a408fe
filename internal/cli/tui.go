package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/taskrank/internal/storage"
	"github.com/sandeepkv93/taskrank/internal/update"
)

func newTUICmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive task form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *globalOptions) error {
	cfg, err := opts.runtimeConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := opts.logger(cfg, cmd.ErrOrStderr(), true)
	if err != nil {
		return err
	}
	defer closeLog()

	runs, err := storage.OpenMemory()
	if err != nil {
		return fmt.Errorf("open analysis history: %w", err)
	}
	defer runs.Close()

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}

	logger.Info("starting taskrank", "api", cfg.APIBaseURL, "strategy", cfg.DefaultStrategy)
	m := update.NewModelWithConfig(cfg, update.Deps{
		Analyzer: opts.client(cfg, logger),
		Runs:     runs,
		Notifier: notifier,
		Logger:   logger,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("taskrank failed: %w", err)
	}
	return nil
}
