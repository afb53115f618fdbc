package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/vislens/internal/recommend"
)

// RecommendOptions holds flags for the recommend command.
type RecommendOptions struct {
	*RootOptions
	Intents []string
	RunID   string // fixed run ID, for reproducible output
	Max     int    // per-action quota override; -1 keeps the configured value
}

// NewRecommendCommand creates the recommend command.
func NewRecommendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecommendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "recommend [intent-file]",
		Short: "Recommend visualizations around an intent",
		Long: `Compile an intent and run the recommendation actions around it.

Without an intent, the overview actions run: Correlation, Distribution,
Occurrence and Temporal. With an intent naming at least one column, the
Enhance, Filter and Generalize actions run instead.

Examples:
  vislens recommend --db cars.db --table cars
  vislens recommend --intent milespergal --intent weight --db cars.db --table cars
  vislens recommend intent.yaml --config vislens.yaml --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(opts, args, cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Intents, "intent", "i", nil, "shorthand clause (repeatable)")
	cmd.Flags().StringVar(&opts.RunID, "run-id", "", "fixed run ID (default: a new UUIDv7)")
	cmd.Flags().IntVar(&opts.Max, "max", -1, "visualizations per action (0 = unlimited)")

	return cmd
}

func runRecommend(opts *RecommendOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loaded, err := ResolveIntent(args, opts.Intents, true)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	ctx := commandContext(cmd)
	sess, err := openSession(ctx, opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer sess.Close()

	engineOpts := sess.cfg.RecommendOptions(opts.logger())
	if opts.Max >= 0 {
		engineOpts = append(engineOpts, recommend.WithMaxVisualizations(opts.Max))
	}
	if opts.RunID != "" {
		engineOpts = append(engineOpts, recommend.WithRunIDGenerator(recommend.NewFixedGenerator(opts.RunID)))
	}

	eng, err := recommend.New(sess.compiler, engineOpts...)
	if err != nil {
		return commandError(formatter, ErrCodeConfig, "invalid actions", err)
	}
	formatter.VerboseLog("Running actions %v for %s", eng.Actions(), loaded.Intent)

	report, err := eng.Recommend(ctx, loaded.Intent)
	if err != nil {
		code := ErrCodeRecommendFailed
		if recommend.IsInvalidIntent(err) {
			code = ErrCodeCompileFailed
		}
		return commandError(formatter, code, "recommendation failed", err)
	}

	return outputRecommendSuccess(formatter, report)
}

// outputRecommendSuccess outputs the report.
func outputRecommendSuccess(formatter *OutputFormatter, report *recommend.Report) error {
	if formatter.IsJSON() {
		return formatter.Encode(CLIResponse{
			Status: "ok",
			Data:   report,
			RunID:  report.RunID,
		})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run %s\n\n", report.RunID)

	if len(report.Intent) > 0 {
		fmt.Fprintf(w, "Current %s:\n", report.Intent)
		writeCollection(w, report.Current, "  ")
		fmt.Fprintln(w)
	}

	if len(report.Results) == 0 {
		fmt.Fprintln(w, "No recommendations.")
	}
	for _, res := range report.Results {
		fmt.Fprintf(w, "%s (%d): %s\n", res.Action, len(res.Collection), res.Description)
		writeCollection(w, res.Collection, "  ")
		if res.Truncated > 0 {
			fmt.Fprintf(w, "  ... %d more\n", res.Truncated)
		}
		fmt.Fprintln(w)
	}

	writeWarnings(w, report.Warnings)
	return nil
}
