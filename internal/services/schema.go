package services

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// FieldError is a single schema violation in the model output.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Message)
}

// SchemaValidator checks decoded model output against the schema of the
// profile that produced it. Violations are advisory.
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

func NewSchemaValidator(registry *ProfileRegistry) (*SchemaValidator, error) {
	v := &SchemaValidator{
		schemas: make(map[string]*gojsonschema.Schema),
	}
	for _, p := range registry.List() {
		if p.OutputSchema == "" {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(p.OutputSchema))
		if err != nil {
			return nil, fmt.Errorf("failed to load output schema of profile %s: %w", p.Version, err)
		}
		v.schemas[p.Version] = schema
	}
	return v, nil
}

// Validate returns the violations of document against the profile schema.
// Profiles without a schema accept everything.
func (v *SchemaValidator) Validate(profile *Profile, document map[string]any) ([]FieldError, error) {
	schema, ok := v.schemas[profile.Version]
	if !ok {
		return nil, nil
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to validate output: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	fieldErrors := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		fieldErrors = append(fieldErrors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return fieldErrors, nil
}
