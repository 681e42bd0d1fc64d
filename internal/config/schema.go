package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/tasks-go/internal/utils"
)

const schemaURL = "tasks.schema.json"

// Schema is the JSON Schema a config file must satisfy once decoded.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "tasks configuration",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "task_file": {"type": "string", "minLength": 1},
    "menu": {"type": "boolean"},
    "autosave": {"type": "boolean"},
    "log_level": {"enum": ["debug", "info", "warn", "warning", "error"]},
    "log_format": {"enum": ["text", "json", "logfmt"]},
    "log_timestamps": {"type": "boolean"},
    "log_caller": {"type": "boolean"}
  }
}`

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the offending key
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid  bool
	Errors []error
}

// ValidateFile checks a TOML config file against Schema.
// A file that is not valid TOML is reported as a single error.
func ValidateFile(path string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	var raw map[string]interface{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Errorf("parse config file: %w", err))
		return result
	}

	if err := validateDocument(raw); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
	return result
}

// validateDocument validates a decoded TOML document against Schema.
func validateDocument(doc map[string]interface{}) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(Schema)); err != nil {
		return fmt.Errorf("load config schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	// Round-trip through JSON so TOML integers and datetimes become
	// values the validator understands.
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal config for validation: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal config for validation: %w", err)
	}

	return schema.Validate(v)
}

func appendSchemaErrors(result *ValidationResult, err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
