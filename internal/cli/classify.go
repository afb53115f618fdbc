package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/vislens/internal/compiler"
	"github.com/roach88/vislens/internal/datasource"
)

// ColumnClassification is one row of the classify output.
type ColumnClassification struct {
	Name string `json:"name"`
	datasource.Classification
}

// ClassifyResult lists every column of the table in table order.
type ClassifyResult struct {
	Table   string                 `json:"table"`
	Columns []ColumnClassification `json:"columns"`
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Show how each column of the table is classified",
		Long: `Classify every column of the configured table.

Each column is a measure or a dimension with a data type (quantitative,
nominal or temporal), inferred from its storage kind, its name and its
number of distinct values. Thresholds come from the config file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(rootOpts, cmd)
		},
	}

	return cmd
}

func runClassify(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	ctx := commandContext(cmd)
	sess, err := openSession(ctx, opts, formatter)
	if err != nil {
		return err
	}
	defer sess.Close()

	result, err := classifyColumns(ctx, sess.src, sess.compiler.Classifier())
	if err != nil {
		return commandError(formatter, ErrCodeSourceFailed, "failed to classify columns", err)
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Table %s: %d column(s)\n\n", result.Table, len(result.Columns))
	fmt.Fprintf(w, "  %-16s %-8s %-10s %-13s %s\n", "COLUMN", "KIND", "MODEL", "TYPE", "DISTINCT")
	for _, c := range result.Columns {
		fmt.Fprintf(w, "  %-16s %-8s %-10s %-13s %d\n", c.Name, c.Kind, c.Model, c.Type, c.Cardinality)
	}
	return nil
}

// classifyColumns classifies every column of src in table order.
func classifyColumns(ctx context.Context, src datasource.Source, cl *compiler.Classifier) (*ClassifyResult, error) {
	cols, err := src.Columns(ctx)
	if err != nil {
		return nil, err
	}

	result := &ClassifyResult{
		Table:   src.Name(),
		Columns: make([]ColumnClassification, 0, len(cols)),
	}
	for _, col := range cols {
		c, err := cl.Classify(ctx, col.Name)
		if err != nil {
			return nil, fmt.Errorf("classify %s: %w", col.Name, err)
		}
		result.Columns = append(result.Columns, ColumnClassification{Name: col.Name, Classification: c})
	}
	return result, nil
}
