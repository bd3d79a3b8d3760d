package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed catalog.schema.json
var catalogSchema string

// LoadFile reads a subject catalog from a JSON file. The document is
// validated against the embedded schema before decoding so malformed
// operator-supplied catalogs fail loudly at startup instead of corrupting
// grade computations later.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse validates and decodes a raw catalog document.
func Parse(data []byte) (*Catalog, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("catalog.schema.json", strings.NewReader(catalogSchema)); err != nil {
		return nil, fmt.Errorf("load catalog schema: %w", err)
	}
	schema, err := compiler.Compile("catalog.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}

	var document interface{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&document); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := schema.Validate(document); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	var subjects []SubjectDefinition
	if err := json.Unmarshal(data, &subjects); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	return New(subjects)
}
