package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// maxSummaryTimeout caps the single summary request.
const maxSummaryTimeout = 60 * time.Second

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// ValidateYAMLSyntax checks that the file at filePath parses as YAML.
// A missing or empty file is valid; the defaults apply.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	switch {
	case os.IsNotExist(err):
		return nil
	case os.IsPermission(err):
		return &ValidationError{FilePath: filePath, Message: "permission denied"}
	case err != nil:
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}
	return ValidateYAMLSyntaxFromBytes(data, filePath)
}

// ValidateYAMLSyntaxFromBytes checks that data parses as YAML, reporting the
// line and column of the first syntax error when yaml.v3 provides them.
func ValidateYAMLSyntaxFromBytes(data []byte, filePath string) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var node yaml.Node
	err := yaml.Unmarshal(data, &node)
	if err == nil {
		return nil
	}
	var typeError *yaml.TypeError
	if errors.As(err, &typeError) {
		return &ValidationError{FilePath: filePath, Message: strings.Join(typeError.Errors, "; ")}
	}
	line, column := extractLineColumn(err.Error())
	return &ValidationError{
		FilePath: filePath,
		Line:     line,
		Column:   column,
		Message:  cleanYAMLError(err.Error()),
	}
}

// ValidateConfigValues validates configuration values against expected types and constraints.
// Returns nil if valid, or a ValidationError with field information if invalid.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, fieldErr := range validationErrors {
				return &ValidationError{
					FilePath: filePath,
					Field:    fieldPath(fieldErr.Namespace()),
					Message:  formatValidationError(fieldErr),
				}
			}
		}
		return &ValidationError{
			FilePath: filePath,
			Message:  err.Error(),
		}
	}

	for _, check := range semanticChecks {
		if msg := check.fails(cfg); msg != "" {
			return &ValidationError{FilePath: filePath, Field: check.field, Message: msg}
		}
	}
	return nil
}

// semanticChecks cover constraints the struct tags cannot express.
var semanticChecks = []struct {
	field string
	fails func(*Configuration) string
}{
	{"summary.timeout", func(c *Configuration) string {
		if c.Summary.Timeout <= 0 || c.Summary.Timeout > maxSummaryTimeout {
			return "must be greater than 0 and at most 60s"
		}
		return ""
	}},
	{"history.timeout", func(c *Configuration) string {
		if c.History.Timeout < 0 {
			return "must not be negative"
		}
		return ""
	}},
	{"changelog.header", func(c *Configuration) string {
		if strings.Contains(strings.ReplaceAll(c.Changelog.Header, "\r\n", "\n"), "\n\n") {
			return "must not contain a blank line (the first blank line ends the changelog header)"
		}
		return ""
	}},
	{"history.include_paths", func(c *Configuration) string {
		return invalidGlob(c.History.IncludePaths)
	}},
	{"history.exclude_paths", func(c *Configuration) string {
		return invalidGlob(c.History.ExcludePaths)
	}},
}

func invalidGlob(patterns []string) string {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Sprintf("invalid glob pattern %q", p)
		}
	}
	return ""
}

// extractLineColumn attempts to extract line and column numbers from a YAML error message.
// Returns 0, 0 if unable to extract.
func extractLineColumn(errMsg string) (line, column int) {
	// yaml.v3 errors look like: "yaml: line 5: could not find expected ':'"
	var l, c int
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d:", &l); n == 1 {
		return l, 1
	}
	return 0, 0
}

// cleanYAMLError removes the "yaml: line X:" prefix from error messages for cleaner output.
func cleanYAMLError(errMsg string) string {
	// Remove "yaml: line X:" prefix
	if idx := strings.LastIndex(errMsg, ": "); idx > 0 {
		// Check if this looks like a yaml error
		if strings.HasPrefix(errMsg, "yaml:") {
			return errMsg[idx+2:]
		}
	}
	return errMsg
}

// formatValidationError formats a validation error for a specific field.
func formatValidationError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fieldErr.Param(), " ", ", "))
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed validation: %s", fieldErr.Tag())
	}
}

// fieldPath turns a validator namespace ("Configuration.changelog.path")
// into a dotted config key ("changelog.path").
func fieldPath(namespace string) string {
	_, rest, ok := strings.Cut(namespace, ".")
	if !ok {
		return strings.ToLower(namespace)
	}
	return rest
}
