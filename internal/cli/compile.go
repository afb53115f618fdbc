package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/vislens/internal/compiler"
	"github.com/roach88/vislens/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Intents []string // shorthand clauses, instead of an intent file
	Output  string   // output file path
}

// CompilationResult is the compiled intent.
type CompilationResult struct {
	Intent         ir.Intent     `json:"intent"`
	Visualizations ir.Collection `json:"visualizations"`
	Enumerated     bool          `json:"enumerated"`
	Dropped        int           `json:"dropped,omitempty"`
	Warnings       []string      `json:"warnings,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [intent-file]",
		Short: "Compile an intent into visualizations",
		Long: `Compile an intent against a table into visualizations.

A fully specified intent yields one visualization. An intent with
wildcards or lists is enumerated into a collection; candidates that do
not resolve are dropped.

Examples:
  vislens compile intent.cue --driver sqlite3 --db cars.db --table cars
  vislens compile --intent milespergal --intent weight --db cars.db --table cars
  vislens compile --intent "origin=?" --intent milespergal --config vislens.yaml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args, cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Intents, "intent", "i", nil, "shorthand clause (repeatable)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loaded, err := ResolveIntent(args, opts.Intents, false)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Loaded %s intent %s", loaded.Format, loaded.Intent)

	ctx := commandContext(cmd)
	sess, err := openSession(ctx, opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer sess.Close()

	result, err := compileIntent(ctx, sess.compiler, loaded.Intent)
	if err != nil {
		return commandError(formatter, ErrCodeCompileFailed, fmt.Sprintf("cannot compile %s", loaded.Intent), err)
	}
	formatter.VerboseLog("Compiled %d visualization(s), dropped %d", len(result.Visualizations), result.Dropped)

	// Write to file if --output specified
	if opts.Output != "" {
		if err := writeResultToFile(result, opts.Output); err != nil {
			return commandError(formatter, ErrCodeWriteFailed, "writing output file", err)
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

// compileIntent builds intent and wraps the compiler result.
func compileIntent(ctx context.Context, c *compiler.Compiler, intent ir.Intent) (*CompilationResult, error) {
	res, err := c.Build(ctx, intent)
	if err != nil {
		return nil, err
	}
	return &CompilationResult{
		Intent:         intent,
		Visualizations: res.Visualizations(),
		Enumerated:     res.Enumerated,
		Dropped:        res.Dropped,
		Warnings:       res.Warnings,
	}, nil
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %s: %d visualization(s)\n\n", result.Intent, len(result.Visualizations))
	writeCollection(w, result.Visualizations, "  ")

	if result.Dropped > 0 {
		fmt.Fprintf(w, "\n%d candidate(s) dropped\n", result.Dropped)
	}
	writeWarnings(w, result.Warnings)

	if outputFile != "" {
		fmt.Fprintf(w, "\nWrote visualizations to %s\n", outputFile)
	}
	return nil
}

// outputLoadError prints an intent loading error with its position and
// returns it as a command error.
func outputLoadError(formatter *OutputFormatter, err error) error {
	code, message := loadErrorParts(err)
	var le *LoadError
	if errors.As(err, &le) && le.Pos.IsValid() && !formatter.IsJSON() {
		fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", le.Pos.Filename(), le.Pos.Line(), le.Pos.Column())
	}
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), err)
}

// writeCollection prints one line per visualization:
//
//	[1] scatter  milespergal@x, weight@y
//	    title: origin = USA
func writeCollection(w io.Writer, coll ir.Collection, indent string) {
	if len(coll) == 0 {
		fmt.Fprintf(w, "%s(no visualizations)\n", indent)
		return
	}
	for i, v := range coll {
		fmt.Fprintf(w, "%s[%d] %-9s %s\n", indent, i+1, v.Mark, describeClauses(v.Intent))
		if v.Title != "" {
			fmt.Fprintf(w, "%s    title: %s\n", indent, v.Title)
		}
	}
}

func writeWarnings(w io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w, "\nWarnings:")
	for _, warning := range warnings {
		fmt.Fprintf(w, "  %s\n", warning)
	}
}

// describeClauses renders resolved clauses with their aggregation and sort.
func describeClauses(clauses []ir.Clause) string {
	parts := make([]string, len(clauses))
	for i, cl := range clauses {
		s := cl.String()
		if cl.Aggregation != "" {
			s += " agg=" + string(cl.Aggregation)
		}
		if cl.Sort != "" {
			s += " sort=" + string(cl.Sort)
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

// writeResultToFile writes the compilation result to a file as indented JSON.
func writeResultToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
