package bank

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://mathdrill/bank.json"

// bankSchema describes a bank file: a JSON array of question records.
var bankSchema = map[string]any{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type":    "array",
	"items": map[string]any{
		"type":     "object",
		"required": []any{"id", "engine", "answer"},
		"properties": map[string]any{
			"id": map[string]any{
				"type": []any{"string", "integer"},
			},
			"grade": map[string]any{
				"type": "string",
				"enum": gradeEnum(),
			},
			"skillCode":  map[string]any{"type": "string"},
			"prompt":     map[string]any{"type": "string"},
			"question":   map[string]any{"type": "string"},
			"difficulty": map[string]any{"type": "integer", "minimum": 0},
			"engine":     map[string]any{"type": "string", "minLength": 1},
			"data":       map[string]any{"type": "object"},
			"answer": map[string]any{
				"type": []any{"string", "number", "boolean"},
			},
		},
	},
}

func gradeEnum() []any {
	var out []any
	for _, g := range AllGrades() {
		out = append(out, string(g))
	}
	return out
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// schema returns the compiled bank schema.
func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value, not Go maps
		// with typed slices, so round-trip through encoding/json.
		defBytes, err := json.Marshal(bankSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal bank schema: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validate checks raw bank JSON against the bank schema.
func validate(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	s, err := schema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := s.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
