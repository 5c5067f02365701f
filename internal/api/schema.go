package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// sequenceRequestSchema describes the body of POST /api/papers/{id}/sequence.
var sequenceRequestSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"document_id": map[string]any{"type": "string"},
		"enabled_sections": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string", "minLength": 1},
			"uniqueItems": true,
		},
		"include_appendix": map[string]any{"type": "boolean"},
		"include_summary":  map[string]any{"type": "boolean"},
	},
	"additionalProperties": false,
}

func compileSchema(name string, doc map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// validateJSON checks data against schema before it is decoded into a
// typed request.
func validateJSON(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("body does not match schema: %w", err)
	}
	return nil
}
