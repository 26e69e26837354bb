package validator

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaValidator validates raw descriptors against the Package
// definition of the PCM schema.
type schemaValidator struct {
	schema *jsonschema.Schema
}

func newSchemaValidator(schemaPath string) (*schemaValidator, error) {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(schemaPath + "#/definitions/Package")
	if err != nil {
		return nil, err
	}
	return &schemaValidator{schema: schema}, nil
}

// Validate checks raw descriptor bytes against the schema
func (sv *schemaValidator) Validate(raw []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := sv.schema.Validate(inst); err != nil {
		return fmt.Errorf("descriptor does not match schema: %w", err)
	}
	return nil
}
