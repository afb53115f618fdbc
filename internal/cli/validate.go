package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/vislens/internal/compiler"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Intents []string
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                       `json:"valid"`
	Clauses int                        `json:"clauses"`
	Errors  []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [intent-file]",
		Short: "Validate an intent without a data source",
		Long: `Validate an intent statically, without opening a data source.

Reports every problem found: unknown channels, data models, data types
or filter operators, value wildcards on attribute wildcards, columns
used by more than one clause and clauses sharing an explicit channel.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Intents, "intent", "i", nil, "shorthand clause (repeatable)")

	return cmd
}

func runValidate(opts *ValidateOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loaded, err := ResolveIntent(args, opts.Intents, false)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Validating %s intent %s", loaded.Format, loaded.Intent)

	if errs := compiler.Validate(loaded.Intent); len(errs) > 0 {
		return outputValidationErrors(formatter, len(loaded.Intent), errs)
	}

	return outputValidateSuccess(formatter, len(loaded.Intent))
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, clauses int) error {
	if formatter.IsJSON() {
		return formatter.Success(ValidationResult{Valid: true, Clauses: clauses})
	}

	fmt.Fprintf(formatter.Writer, "✓ Intent valid (%d clause(s))\n", clauses)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, clauses int, errs []compiler.ValidationError) error {
	// Validation failures = exit code 1 (test/validation failure)
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.IsJSON() {
		if err := formatter.Encode(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Clauses: clauses, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}); err != nil {
			return err
		}
		return failure
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n", err.Code, err.Field, err.Message)
	}

	return failure
}
