package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
	ErrPayloadMalformed = errors.New("payload is not valid json")
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// PayloadValidationError surfaces validation issues with schema-aware context.
type PayloadValidationError struct {
	Section string
	Issues  []ValidationIssue
	Cause   error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// Registry holds the compiled JSON Schema of each section. Sections without
// a schema accept any JSON object.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*jsonschema.Schema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*jsonschema.Schema)}
}

// Register compiles schema and binds it to section, replacing any previous
// schema. The schema may be a JSON Schema document or the short form
// {"fields": [{"name": "title", "type": "string", "required": true}]}.
func (r *Registry) Register(section string, schema map[string]any) error {
	section = strings.TrimSpace(section)
	if section == "" {
		return fmt.Errorf("%w: section is required", ErrSchemaInvalid)
	}
	normalized := NormalizeSchema(schema)
	if normalized == nil {
		return fmt.Errorf("%w: schema for %s is empty", ErrSchemaInvalid, section)
	}
	compiled, err := compileSchema(section, normalized)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	r.mu.Lock()
	r.schemas[section] = compiled
	r.mu.Unlock()
	return nil
}

// RegisterJSON decodes raw and registers it for section.
func (r *Registry) RegisterJSON(section string, raw []byte) error {
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return r.Register(section, schema)
}

// Has reports whether section carries a schema.
func (r *Registry) Has(section string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.schemas[strings.TrimSpace(section)]
	return ok
}

// decodeDocument keeps numbers as json.Number, which the validator expects.
func decodeDocument(payload []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after json document")
	}
	return doc, nil
}

// Validate checks payload against the schema of section.
func (r *Registry) Validate(section string, payload json.RawMessage) error {
	doc, err := decodeDocument(payload)
	if err != nil {
		return &PayloadValidationError{
			Section: section,
			Issues:  []ValidationIssue{{Message: err.Error()}},
			Cause:   fmt.Errorf("%w: %v", ErrPayloadMalformed, err),
		}
	}
	if _, ok := doc.(map[string]any); !ok {
		return &PayloadValidationError{
			Section: section,
			Issues:  []ValidationIssue{{Message: "payload must be a json object"}},
		}
	}
	if r == nil {
		return nil
	}
	r.mu.RLock()
	compiled, ok := r.schemas[strings.TrimSpace(section)]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	if err := compiled.Validate(doc); err != nil {
		return &PayloadValidationError{
			Section: section,
			Issues:  Issues(err),
			Cause:   err,
		}
	}
	return nil
}

// NormalizeSchema converts a schema definition into a JSON schema.
func NormalizeSchema(schema map[string]any) map[string]any {
	if len(schema) == 0 {
		return nil
	}
	if isJSONSchema(schema) {
		return schema
	}
	fields, ok := schema["fields"].([]any)
	if !ok {
		return nil
	}
	properties := make(map[string]any, len(fields))
	required := make([]any, 0)
	for _, entry := range fields {
		field, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, _ := field["name"].(string)
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		switch {
		case field["schema"] != nil:
			properties[name] = field["schema"]
		case field["type"] == "asset":
			properties[name] = assetSchema
		case normalizeJSONType(field["type"]) != "":
			properties[name] = map[string]any{"type": normalizeJSONType(field["type"])}
		default:
			properties[name] = map[string]any{}
		}
		if flag, _ := field["required"].(bool); flag {
			required = append(required, name)
		}
	}
	if len(properties) == 0 {
		return nil
	}
	normalized := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		normalized["required"] = required
	}
	return normalized
}

// assetSchema describes a persisted asset ref.
var assetSchema = map[string]any{
	"type": []any{"object", "null"},
	"properties": map[string]any{
		"url":         map[string]any{"type": "string"},
		"path":        map[string]any{"type": "string"},
		"contentType": map[string]any{"type": "string"},
		"uploadedAt":  map[string]any{"type": "string"},
	},
	"additionalProperties": false,
}

func isJSONSchema(schema map[string]any) bool {
	for _, key := range []string{"$schema", "type", "properties", "oneOf", "anyOf", "allOf"} {
		if _, ok := schema[key]; ok {
			return true
		}
	}
	return false
}

func normalizeJSONType(value any) string {
	text, _ := value.(string)
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "string", "number", "integer", "boolean", "object", "array", "null":
		return strings.ToLower(strings.TrimSpace(text))
	default:
		return ""
	}
}

func compileSchema(name string, schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	resource := name + ".json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(resource, bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile(resource)
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
