package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeFloat
	TypeDuration
	TypeString
	TypeEnum
	TypeList
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeDuration:
		return "duration"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	case TypeList:
		return "list"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Dotted key path (e.g., "summary.enabled")
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
	Default       interface{}     // Default value
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"changelog.path": {
		Path:        "changelog.path",
		Type:        TypeString,
		Description: "Path of the Markdown changelog to update",
		Default:     "CHANGELOG.md",
	},
	"changelog.other_commits": {
		Path:          "changelog.other_commits",
		Type:          TypeEnum,
		AllowedValues: []string{"include", "drop"},
		Description:   "Whether commits matching no category are rendered under Other",
		Default:       OtherCommitsInclude,
	},
	"changelog.header": {
		Path:        "changelog.header",
		Type:        TypeString,
		Description: "Intro line written under '# Changelog' when the document is created",
		Default:     "",
	},
	"tag.prefix": {
		Path:        "tag.prefix",
		Type:        TypeString,
		Description: "Prefix for release tag names",
		Default:     "v",
	},
	"tag.legacy_prefixes": {
		Path:        "tag.legacy_prefixes",
		Type:        TypeList,
		Description: "Prefixes stripped when reading the last tag",
		Default:     []string{"release-"},
	},
	"tag.remote": {
		Path:        "tag.remote",
		Type:        TypeString,
		Description: "Remote the release tag is pushed to after confirmation",
		Default:     "origin",
	},
	"tag.fail_on_error": {
		Path:        "tag.fail_on_error",
		Type:        TypeBool,
		Description: "Exit non-zero when the release tag cannot be created",
		Default:     false,
	},
	"bump.breaking_footers": {
		Path:        "bump.breaking_footers",
		Type:        TypeBool,
		Description: "Treat a BREAKING CHANGE footer in the commit body as a major change",
		Default:     false,
	},
	"summary.enabled": {
		Path:        "summary.enabled",
		Type:        TypeBool,
		Description: "Request a release summary when an API key is configured",
		Default:     true,
	},
	"summary.api_key": {
		Path:        "summary.api_key",
		Type:        TypeString,
		Description: "API key for the summary service (falls back to OPENAI_API_KEY)",
		Default:     "",
	},
	"summary.base_url": {
		Path:        "summary.base_url",
		Type:        TypeString,
		Description: "Base URL of the OpenAI-compatible API",
		Default:     "https://api.openai.com/v1",
	},
	"summary.model": {
		Path:        "summary.model",
		Type:        TypeString,
		Description: "Model used for the release summary",
		Default:     "gpt-4o-mini",
	},
	"summary.timeout": {
		Path:        "summary.timeout",
		Type:        TypeDuration,
		Description: "Timeout for the single summary request (max 60s)",
		Default:     "1m0s",
	},
	"summary.max_tokens": {
		Path:        "summary.max_tokens",
		Type:        TypeInt,
		Description: "Maximum tokens in the summary reply (0 = service default)",
		Default:     400,
	},
	"summary.temperature": {
		Path:        "summary.temperature",
		Type:        TypeFloat,
		Description: "Sampling temperature for the summary (0.0-2.0)",
		Default:     0.3,
	},
	"history.timeout": {
		Path:        "history.timeout",
		Type:        TypeDuration,
		Description: "Bound on reading tags and commits (0 = no timeout)",
		Default:     "30s",
	},
	"history.include_paths": {
		Path:        "history.include_paths",
		Type:        TypeList,
		Description: "Globs; only commits touching a match are released",
		Default:     []string{},
	},
	"history.exclude_paths": {
		Path:        "history.exclude_paths",
		Type:        TypeList,
		Description: "Globs; commits touching only matches are skipped",
		Default:     []string{},
	},
	"github.enabled": {
		Path:        "github.enabled",
		Type:        TypeBool,
		Description: "Publish a GitHub release after the tag is pushed",
		Default:     false,
	},
	"github.token": {
		Path:        "github.token",
		Type:        TypeString,
		Description: "GitHub token (falls back to GITHUB_TOKEN)",
		Default:     "",
	},
	"github.owner": {
		Path:        "github.owner",
		Type:        TypeString,
		Description: "Repository owner (default: parsed from the remote URL)",
		Default:     "",
	},
	"github.repo": {
		Path:        "github.repo",
		Type:        TypeString,
		Description: "Repository name (default: parsed from the remote URL)",
		Default:     "",
	},
	"github.base_url": {
		Path:        "github.base_url",
		Type:        TypeString,
		Description: "GitHub Enterprise API base URL",
		Default:     "",
	},
	"skip_confirmations": {
		Path:        "skip_confirmations",
		Type:        TypeBool,
		Description: "Push tags without the confirmation prompt",
		Default:     false,
	},
	"state_dir": {
		Path:        "state_dir",
		Type:        TypeString,
		Description: "Directory for the run log",
		Default:     "~/.autorelease/state",
	},
	"max_history_entries": {
		Path:        "max_history_entries",
		Type:        TypeInt,
		Description: "Maximum run log entries to retain",
		Default:     500,
	},
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// SortedKeys returns all known key paths in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParsedValue represents a configuration value after type inference and validation.
type ParsedValue struct {
	Raw    string      // Original string input from user
	Parsed interface{} // Value converted to correct type
	Type   ConfigValueType
}

// ValidateValue validates a value against the schema for a given key.
// Returns the parsed value or an error with details about what's wrong.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	return validateAgainstSchema(schema, value)
}

// validateAgainstSchema validates a value against a specific schema.
func validateAgainstSchema(schema ConfigKeySchema, value string) (ParsedValue, error) {
	switch schema.Type {
	case TypeBool:
		return parseBoolValue(value)
	case TypeInt:
		return parseIntValue(value)
	case TypeFloat:
		return parseFloatValue(value)
	case TypeDuration:
		return parseDurationValue(value)
	case TypeEnum:
		return parseEnumValue(schema, value)
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	case TypeList:
		return parseListValue(value), nil
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", schema.Type)
	}
}

// parseBoolValue parses and validates a boolean value.
func parseBoolValue(value string) (ParsedValue, error) {
	switch strings.ToLower(value) {
	case "true":
		return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
	case "false":
		return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
	default:
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	}
}

// parseIntValue parses and validates an integer value.
func parseIntValue(value string) (ParsedValue, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid integer: %q", value)
	}
	return ParsedValue{Raw: value, Parsed: n, Type: TypeInt}, nil
}

// parseFloatValue parses and validates a float value.
func parseFloatValue(value string) (ParsedValue, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid float: %q", value)
	}
	return ParsedValue{Raw: value, Parsed: f, Type: TypeFloat}, nil
}

// parseDurationValue parses and validates a duration value.
func parseDurationValue(value string) (ParsedValue, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid duration: %q (examples: 5m, 1h30m, 10s)", value)
	}
	return ParsedValue{Raw: value, Parsed: d.String(), Type: TypeDuration}, nil
}

// parseEnumValue validates a value against allowed enum options.
func parseEnumValue(schema ConfigKeySchema, value string) (ParsedValue, error) {
	for _, allowed := range schema.AllowedValues {
		if value == allowed {
			return ParsedValue{Raw: value, Parsed: value, Type: TypeEnum}, nil
		}
	}
	return ParsedValue{}, fmt.Errorf(
		"invalid value: %q (valid options: %s)",
		value,
		strings.Join(schema.AllowedValues, ", "),
	)
}

// parseListValue splits a comma-separated value into trimmed, non-empty items.
func parseListValue(value string) ParsedValue {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return ParsedValue{Raw: value, Parsed: items, Type: TypeList}
}
