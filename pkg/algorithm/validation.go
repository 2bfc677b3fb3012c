package algorithm

import (
	"encoding/json"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaValidateFunc validates data against a JSON schema (bytes) and returns error on failure.
type SchemaValidateFunc func(schema []byte, data any) error

// compiled caches compiled schemas by their source text; descriptors are immutable,
// so a parameter schema compiles once per process.
var compiled sync.Map // string -> *jsonschema.Schema

// JSONSchemaValidator is a SchemaValidateFunc using jsonschema/v6.
func JSONSchemaValidator(schema []byte, data any) error {
	if len(schema) == 0 {
		return nil
	}
	sch, err := compileCached(schema)
	if err != nil {
		return err
	}
	// Marshal/unmarshal to generic for validation
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return sch.Validate(v)
}

// CompileJSONSchema compiles the provided JSON schema and returns error only if the schema is invalid.
// It does not validate any instance data.
func CompileJSONSchema(schema []byte) error {
	if len(schema) == 0 {
		return nil
	}
	_, err := compileCached(schema)
	return err
}

func compileCached(schema []byte) (*jsonschema.Schema, error) {
	key := string(schema)
	if v, ok := compiled.Load(key); ok {
		return v.(*jsonschema.Schema), nil
	}
	c := jsonschema.NewCompiler()
	// anonymous in-memory schema from parsed JSON
	var doc any
	if err := json.Unmarshal(schema, &doc); err != nil {
		return nil, err
	}
	if err := c.AddResource("mem://params.json", doc); err != nil {
		return nil, err
	}
	sch, err := c.Compile("mem://params.json")
	if err != nil {
		return nil, err
	}
	compiled.Store(key, sch)
	return sch, nil
}
