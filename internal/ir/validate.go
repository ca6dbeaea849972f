package ir

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://clausetree.local/schemas/batch_result.json"

//go:embed result.schema.json
var schemaJSON []byte

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// Schema returns the JSON Schema every batch result conforms to.
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}

func loadCompiledSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft7
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			compileErr = err
			return
		}
		compiledSchema, compileErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// ValidateJSON checks raw batch JSON against the schema.
func ValidateJSON(data []byte) error {
	schema, err := loadCompiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// Validate checks a batch result against the schema.
func Validate(b *BatchResult) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return ValidateJSON(data)
}

// Encode validates b and writes it as indented JSON.
func Encode(w io.Writer, b *BatchResult) error {
	if err := Validate(b); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(b)
}

// Decode reads and validates a batch result.
func Decode(r io.Reader) (*BatchResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := ValidateJSON(data); err != nil {
		return nil, err
	}
	var b BatchResult
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// WriteFile saves b to path.
func WriteFile(path string, b *BatchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := Encode(f, b); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}
