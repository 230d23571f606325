// Package mapping resolves spreadsheet headers to the canonical inventory
// fields the pipeline consumes. Keyword detection produces suggestions; the
// persisted mapping file and the TUI are the authoritative override layer.
package mapping

import (
	"encoding/json"
	"fmt"
	"os"
)

// Field is a canonical inventory field the pipeline understands.
type Field string

const (
	FieldLocation  Field = "Location"
	FieldSection   Field = "Section"
	FieldStatus    Field = "Status"
	FieldSpace     Field = "Space"
	FieldSalesItem Field = "Sales Item"
	FieldGarden    Field = "Garden"
	FieldRow       Field = "Row"
)

// Fields lists every canonical field, in the order the TUI presents them.
func Fields() []Field {
	return []Field{
		FieldLocation,
		FieldSection,
		FieldStatus,
		FieldSpace,
		FieldSalesItem,
		FieldGarden,
		FieldRow,
	}
}

// FieldMapping binds one spreadsheet header to a canonical field.
type FieldMapping struct {
	Header  string `json:"header"`
	Field   Field  `json:"field"`
	Ignored bool   `json:"is_ignored"`
}

// Schema holds all header mappings for a data source. SchemaVersion guards
// against silently applying a mapping file written for an older layout.
type Schema struct {
	SchemaVersion int            `json:"schema_version"`
	Mappings      []FieldMapping `json:"mappings"`
}

// CurrentSchemaVersion is bumped whenever the canonical field set changes.
const CurrentSchemaVersion = 1

// SaveToFile saves the schema to a JSON file.
func (s *Schema) SaveToFile(filepath string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// LoadFromFile loads a schema from a JSON file and validates its version.
func LoadFromFile(filepath string) (*Schema, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, err
	}
	if schema.SchemaVersion != CurrentSchemaVersion {
		return nil, fmt.Errorf("mapping file %s has schema version %d, this build expects %d",
			filepath, schema.SchemaVersion, CurrentSchemaVersion)
	}
	return &schema, nil
}

// Overrides returns the header -> field assignments, skipping ignored headers.
func (s *Schema) Overrides() map[string]Field {
	out := make(map[string]Field)
	for _, m := range s.Mappings {
		if m.Ignored || m.Field == "" {
			continue
		}
		out[m.Header] = m.Field
	}
	return out
}
