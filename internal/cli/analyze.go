package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/taskrank/internal/analysis"
	"github.com/sandeepkv93/taskrank/internal/bridge"
	"github.com/sandeepkv93/taskrank/internal/model"
	"github.com/sandeepkv93/taskrank/internal/report"
	"github.com/sandeepkv93/taskrank/internal/views"
)

func newAnalyzeCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Rank the tasks in a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts)
		},
	}
	cmd.Flags().StringP("file", "f", "", "JSON file with an array of tasks")
	cmd.Flags().StringP("strategy", "s", "", "prioritization strategy (default from config)")
	cmd.Flags().Bool("json", false, "print the raw service response")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newSuggestCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask the service which tasks to work on today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd, opts)
		},
	}
	cmd.Flags().StringP("file", "f", "", "JSON file with an array of tasks")
	cmd.Flags().StringP("strategy", "s", "", "prioritization strategy (default from config)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *globalOptions) error {
	tasks, strategy, client, closeLog, err := prepareRequest(cmd, opts)
	if err != nil {
		return err
	}
	defer closeLog()

	resp, err := client.Analyze(cmd.Context(), tasks, strategy)
	if err != nil {
		return requestError(err)
	}
	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(out, resp)
	}
	fmt.Fprintln(out, views.RenderReport(report.Build(resp), nil))
	return nil
}

func runSuggest(cmd *cobra.Command, opts *globalOptions) error {
	tasks, strategy, client, closeLog, err := prepareRequest(cmd, opts)
	if err != nil {
		return err
	}
	defer closeLog()

	resp, err := client.Suggest(cmd.Context(), tasks, strategy)
	if err != nil {
		return requestError(err)
	}
	out := cmd.OutOrStdout()
	if resp.Message != "" {
		fmt.Fprintln(out, resp.Message)
	}
	if len(resp.SuggestedTasks) == 0 {
		fmt.Fprintln(out, "No suggestions.")
		return nil
	}
	for i, t := range resp.SuggestedTasks {
		fmt.Fprintf(out, "  %d. %s  %s  (score %s)\n", i+1, t.TaskID, t.Title, views.FormatScore(t.PriorityScore))
		if t.Explanation != "" {
			fmt.Fprintf(out, "     %s\n", t.Explanation)
		}
	}
	return nil
}

func prepareRequest(cmd *cobra.Command, opts *globalOptions) ([]model.Task, model.Strategy, *analysis.Client, func() error, error) {
	noop := func() error { return nil }
	cfg, err := opts.runtimeConfig()
	if err != nil {
		return nil, "", nil, noop, err
	}
	path, _ := cmd.Flags().GetString("file")
	tasks, err := readTasks(path)
	if err != nil {
		return nil, "", nil, noop, err
	}
	strategy := cfg.DefaultStrategy
	if s, _ := cmd.Flags().GetString("strategy"); s != "" {
		strategy = model.Strategy(s)
	}
	logger, closeLog, err := opts.logger(cfg, cmd.ErrOrStderr(), false)
	if err != nil {
		return nil, "", nil, noop, err
	}
	logger.Debug("request prepared", "file", path, "tasks", len(tasks), "strategy", strategy)
	return tasks, strategy, opts.client(cfg, logger), closeLog, nil
}

func readTasks(path string) ([]model.Task, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	tasks, err := bridge.Decode(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tasks, nil
}

func requestError(err error) error {
	var se *analysis.ServiceError
	if errors.As(err, &se) {
		return fmt.Errorf("analysis service: %s", se.Message)
	}
	if errors.Is(err, analysis.ErrNoTasks) {
		return errors.New("please add at least one task before analyzing")
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
