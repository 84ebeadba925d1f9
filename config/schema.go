package config

//go:generate go run ../tools/schema-generator -out ../schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v5"
)

// JSONSchemaExtend restricts run_when to the supported triggers.
func (Profile) JSONSchemaExtend(s *jsonschema.Schema) {
	runWhen, ok := s.Properties.Get("run_when")
	if !ok || runWhen.Items == nil {
		return
	}
	for _, trigger := range Triggers {
		runWhen.Items.Enum = append(runWhen.Items.Enum, trigger)
	}
}

// GenerateSchema returns the JSON Schema for .preflight.toml.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Profiles are strict; the top level admits extension tables such as [logging].
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:               "toml",
		DoNotReference:             true,
	}

	schema := r.Reflect(&File{})
	schema.Title = "Preflight Configuration"
	schema.Description = "Schema for .preflight.toml and the global preflight.toml."

	if preflight, ok := schema.Properties.Get("preflight"); ok && preflight.Items != nil {
		preflight.Items.AdditionalProperties = jsonschema.FalseSchema
	}

	return json.MarshalIndent(schema, "", "  ")
}

// Validator validates raw configuration data against the generated schema.
type Validator struct {
	schema *santhosh.Schema
}

// NewValidator compiles the configuration schema.
func NewValidator() (*Validator, error) {
	data, err := GenerateSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}

	compiler := santhosh.NewCompiler()
	if err := compiler.AddResource("preflight.json", strings.NewReader(string(data))); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile("preflight.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// Validate checks configData, typically the raw map decoded from TOML.
func (v *Validator) Validate(configData interface{}) error {
	// Round-trip through JSON so TOML-native types (int64, time) become
	// the plain JSON values the validator expects.
	jsonData, err := json.Marshal(configData)
	if err != nil {
		return fmt.Errorf("failed to marshal config to JSON for validation: %w", err)
	}

	var dataToValidate interface{}
	if err := json.Unmarshal(jsonData, &dataToValidate); err != nil {
		return fmt.Errorf("failed to unmarshal JSON for validation: %w", err)
	}

	if err := v.schema.Validate(dataToValidate); err != nil {
		if validationErr, ok := err.(*santhosh.ValidationError); ok {
			var errorMessages []string
			collectErrors(validationErr, &errorMessages)
			return fmt.Errorf("schema validation failed:\n%s", strings.Join(errorMessages, "\n"))
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}

func collectErrors(err *santhosh.ValidationError, messages *[]string) {
	if err.InstanceLocation != "" {
		*messages = append(*messages, fmt.Sprintf("- %s: %s", err.InstanceLocation, err.Message))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}
