package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

//go:embed schema.json
var schemaSource string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Document is the top-level structure of a catalog file
type Document struct {
	Templates []TemplateDef `yaml:"templates"`
}

// Default returns the built-in catalog
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// DefaultYAML returns the built-in catalog document
func DefaultYAML() []byte {
	return append([]byte(nil), defaultCatalog...)
}

// Load reads and validates a catalog file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// LoadOrDefault loads the catalog at path, or the built-in catalog when
// path is empty
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Parse checks a YAML catalog document against the catalog schema, then
// validates and builds every template
func Parse(data []byte) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	if err := validateDocument(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	return New(doc.Templates)
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("catalog.schema.json", schemaSource)
	})
	return schema, schemaErr
}

// validateDocument round-trips the YAML tree through JSON so the validator
// sees plain JSON types
func validateDocument(raw any) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("failed to compile catalog schema: %w", err)
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("catalog is not representable as JSON: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	return s.Validate(doc)
}
