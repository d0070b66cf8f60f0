package utils

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
)

// SchemaVersion is the JSON schema draft every generated schema declares.
const SchemaVersion = "http://json-schema.org/draft-07/schema#"

// SchemaOptions names a generated schema and maps types the reflector cannot describe on its own.
type SchemaOptions struct {
	Title       string
	Description string
	// Mapper may return nil to fall back to reflection.
	Mapper func(reflect.Type) *jsonschema.Schema
}

// ReflectSchema builds the schema of config with its fields expanded at the top level.
// Required fields come from the jsonschema tags and unknown properties are rejected.
func ReflectSchema(config any, opts SchemaOptions) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper:                     opts.Mapper,
	}

	schema := reflector.Reflect(config)
	schema.Title = opts.Title
	schema.Description = opts.Description
	schema.Version = SchemaVersion

	return schema
}

// GetSchemaFromConfig renders ReflectSchema as indented JSON.
func GetSchemaFromConfig(config any, opts SchemaOptions) (string, error) {
	schemaBytes, err := json.MarshalIndent(ReflectSchema(config, opts), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
