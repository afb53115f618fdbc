// Package config loads vislens settings from a YAML file.
//
// Every field is optional: Load starts from Default and overwrites only
// the keys present in the file. Command-line flags are applied on top by
// the CLI.
//
//	datasource:
//	  driver: duckdb
//	  db: ./cars.duckdb
//	  table: cars
//	compiler:
//	  nominal_cardinality: 20
//	  sort_cardinality: 5
//	  temporal_names: [year, month, day, date, time]
//	recommend:
//	  max_visualizations: 50
//	  filter_cardinality: 20
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/vislens/internal/compiler"
	"github.com/roach88/vislens/internal/datasource"
	"github.com/roach88/vislens/internal/recommend"
)

// Config is the full settings tree.
type Config struct {
	DataSource DataSource `yaml:"datasource"`
	Compiler   Compiler   `yaml:"compiler"`
	Recommend  Recommend  `yaml:"recommend"`
}

// DataSource selects the table to analyze.
type DataSource struct {
	// Driver is one of datasource.Drivers.
	Driver string `yaml:"driver"`

	// DB is the database path (or Arrow file).
	DB string `yaml:"db,omitempty"`

	// Table is the table name inside DB.
	Table string `yaml:"table,omitempty"`
}

// Compiler holds classification thresholds.
type Compiler struct {
	NominalCardinality int      `yaml:"nominal_cardinality"`
	SortCardinality    int      `yaml:"sort_cardinality"`
	TemporalNames      []string `yaml:"temporal_names"`
}

// Recommend holds action limits.
type Recommend struct {
	MaxVisualizations int `yaml:"max_visualizations"`
	FilterCardinality int `yaml:"filter_cardinality"`
}

// Default returns the built-in settings.
func Default() Config {
	opts := compiler.DefaultOptions()
	return Config{
		DataSource: DataSource{Driver: datasource.DriverSQLite},
		Compiler: Compiler{
			NominalCardinality: opts.NominalCardinality,
			SortCardinality:    opts.SortCardinality,
			TemporalNames:      opts.TemporalNames,
		},
		Recommend: Recommend{
			MaxVisualizations: recommend.DefaultMaxVisualizations,
			FilterCardinality: recommend.DefaultFilterCardinality,
		},
	}
}

// Load reads path over Default.
// Unknown keys are rejected so typos surface instead of being ignored.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks field ranges. DB and Table are not required here; the
// commands that need a data source check them.
func (c Config) Validate() error {
	if !slices.Contains(datasource.Drivers, c.DataSource.Driver) {
		return fmt.Errorf("datasource.driver %q must be one of %v", c.DataSource.Driver, datasource.Drivers)
	}
	if c.Compiler.NominalCardinality < 1 {
		return fmt.Errorf("compiler.nominal_cardinality must be positive")
	}
	if c.Compiler.SortCardinality < 0 {
		return fmt.Errorf("compiler.sort_cardinality must be non-negative")
	}
	for i, n := range c.Compiler.TemporalNames {
		if n == "" {
			return fmt.Errorf("compiler.temporal_names[%d] must be non-empty", i)
		}
	}
	if c.Recommend.MaxVisualizations < 0 {
		return fmt.Errorf("recommend.max_visualizations must be non-negative")
	}
	if c.Recommend.FilterCardinality < 0 {
		return fmt.Errorf("recommend.filter_cardinality must be non-negative")
	}
	return nil
}

// CompilerOptions converts the compiler section.
func (c Config) CompilerOptions(logger *slog.Logger) compiler.Options {
	return compiler.Options{
		NominalCardinality: c.Compiler.NominalCardinality,
		SortCardinality:    c.Compiler.SortCardinality,
		TemporalNames:      slices.Clone(c.Compiler.TemporalNames),
		Logger:             logger,
	}
}

// Actions returns the default actions with the configured Filter
// cardinality.
func (c Config) Actions() []recommend.Action {
	actions := recommend.DefaultActions()
	for i, a := range actions {
		if _, ok := a.(recommend.Filter); ok {
			actions[i] = recommend.Filter{MaxCardinality: c.Recommend.FilterCardinality}
		}
	}
	return actions
}

// RecommendOptions converts the recommend section.
func (c Config) RecommendOptions(logger *slog.Logger) []recommend.Option {
	return []recommend.Option{
		recommend.WithActions(c.Actions()...),
		recommend.WithMaxVisualizations(c.Recommend.MaxVisualizations),
		recommend.WithLogger(logger),
	}
}
