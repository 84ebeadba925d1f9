package logging

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema returns the JSON Schema for the [logging] table.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "toml",
	}

	schema := r.Reflect(&Config{})
	schema.Title = "Preflight Logging Configuration"
	schema.Description = "Schema for the [logging] table in .preflight.toml."

	// Every logging setting is optional.
	schema.Required = nil

	return json.MarshalIndent(schema, "", "  ")
}
