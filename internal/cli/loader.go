package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/vislens/internal/compiler"
	"github.com/roach88/vislens/internal/ir"
)

// Intent formats accepted by LoadIntent.
const (
	FormatCUE       = "cue"
	FormatYAML      = "yaml"
	FormatJSON      = "json"
	FormatShorthand = "shorthand"
)

// LoadedIntent is an intent together with where it came from.
type LoadedIntent struct {
	Intent ir.Intent
	Path   string // empty for shorthand clauses
	Format string
}

// LoadError represents an error that occurred while loading an intent.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Line returns the 1-based line of the error, or 0 when unknown.
func (e *LoadError) Line() int {
	if e.Pos.IsValid() {
		return e.Pos.Line()
	}
	return 0
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric         = "E001" // Generic/unknown error
	ErrCodeUsage           = "E002" // Intent given both as file and clauses, or neither
	ErrCodeNoIntent        = "E003" // File has no intent
	ErrCodeLoadFailed      = "E004" // File read error
	ErrCodeNotFound        = "E005" // Path not found
	ErrCodeBuildFailed     = "E006" // CUE build failed
	ErrCodeWriteFailed     = "E007" // File write error
	ErrCodeParseFailed     = "E008" // YAML/JSON or shorthand parse failed
	ErrCodeUnsupported     = "E009" // Unknown intent file extension
	ErrCodeConfig          = "E010" // Config file or flag error
	ErrCodeSourceFailed    = "E011" // Data source could not be opened or read
	ErrCodeCompileFailed   = "E012" // Intent does not resolve against the data
	ErrCodeRecommendFailed = "E013" // Recommendation run failed

	// Clause errors from CUE intents
	ErrCodeInvalidAttribute = "E101" // attribute is not a string or list of strings
	ErrCodeInvalidValue     = "E102" // value is not concrete
	ErrCodeInvalidField     = "E103" // channel, data_model, data_type or filter_op not a string
	ErrCodeInvalidClause    = "E104" // clause shape or unknown field
	ErrCodeInvalidIntent    = "E105" // intent is not a non-empty list
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "attribute":
		return ErrCodeInvalidAttribute
	case "value":
		return ErrCodeInvalidValue
	case "channel", "data_model", "data_type", "filter_op":
		return ErrCodeInvalidField
	case "intent":
		return ErrCodeInvalidIntent
	case "cue":
		return ErrCodeBuildFailed
	default:
		return ErrCodeInvalidClause
	}
}

// LoadIntent reads an intent file. The format follows the extension:
//
//   - .cue: a CUE file with a top-level intent list
//   - .yaml, .yml, .json: either a bare clause list or a document with an
//     intent key
//
// Clauses are shorthand strings (see ir.ParseClause) or structs with the
// keys attribute, value, filter_op, channel, data_model and data_type.
func LoadIntent(path string) (*LoadedIntent, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("intent file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading intent file: %v", err)}
	}

	var (
		intent ir.Intent
		format string
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		format = FormatCUE
		intent, err = loadCUE(path, data)
	case ".yaml", ".yml":
		format = FormatYAML
		intent, err = loadYAML(data)
	case ".json":
		format = FormatJSON
		intent, err = loadYAML(data)
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported intent file %s (want .cue, .yaml, .yml or .json)", path),
		}
	}
	if err != nil {
		return nil, err
	}

	return &LoadedIntent{Intent: intent, Path: path, Format: format}, nil
}

// loadCUE compiles a single CUE file and extracts its intent list.
func loadCUE(path string, data []byte) (ir.Intent, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		loadErr := &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
		if positions := cueerrors.Positions(err); len(positions) > 0 {
			loadErr.Pos = positions[0]
		}
		return nil, loadErr
	}

	intentVal := value.LookupPath(cue.ParsePath("intent"))
	if !intentVal.Exists() {
		return nil, &LoadError{Code: ErrCodeNoIntent, Message: fmt.Sprintf("no intent found in %s", path)}
	}

	intent, err := compiler.CompileIntent(intentVal)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return intent, nil
}

// intentDocument is the mapping form of a YAML or JSON intent file.
type intentDocument struct {
	Description string `yaml:"description"`
	Intent      []any  `yaml:"intent"`
}

// loadYAML decodes a YAML (or JSON) intent file.
func loadYAML(data []byte) (ir.Intent, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("failed to parse YAML: %v", err)}
	}
	if len(root.Content) == 0 {
		return nil, &LoadError{Code: ErrCodeNoIntent, Message: "intent file is empty"}
	}

	var items []any
	switch root.Content[0].Kind {
	case yaml.SequenceNode:
		if err := root.Content[0].Decode(&items); err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("failed to parse YAML: %v", err)}
		}
	case yaml.MappingNode:
		var doc intentDocument
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true) // Reject unknown fields
		if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("failed to parse YAML: %v", err)}
		}
		items = doc.Intent
	default:
		return nil, &LoadError{Code: ErrCodeInvalidIntent, Message: "intent file must be a list of clauses or a document with an intent key"}
	}

	if len(items) == 0 {
		return nil, &LoadError{Code: ErrCodeNoIntent, Message: "intent has no clauses"}
	}

	intent, err := ir.IntentFromAny(items)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: err.Error()}
	}
	return intent, nil
}

// ResolveIntent picks the intent for a command from its positional file
// argument or its --intent shorthand clauses. Exactly one must be given
// unless allowEmpty is set, in which case neither yields an empty intent.
func ResolveIntent(args, clauses []string, allowEmpty bool) (*LoadedIntent, error) {
	switch {
	case len(args) > 0 && len(clauses) > 0:
		return nil, &LoadError{Code: ErrCodeUsage, Message: "give an intent file or --intent clauses, not both"}
	case len(args) > 0:
		return LoadIntent(args[0])
	case len(clauses) > 0:
		intent, err := ir.ParseIntent(clauses...)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Message: err.Error()}
		}
		return &LoadedIntent{Intent: intent, Format: FormatShorthand}, nil
	case allowEmpty:
		return &LoadedIntent{Intent: ir.Intent{}, Format: FormatShorthand}, nil
	default:
		return nil, &LoadError{Code: ErrCodeUsage, Message: "an intent file or at least one --intent clause is required"}
	}
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{Code: ErrCodeBuildFailed, Message: err.Error()}
}

// loadErrorParts splits any loader error into code and message.
func loadErrorParts(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}
