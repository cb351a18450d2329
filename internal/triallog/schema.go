package triallog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const eventSchemaURL = "trial_event.schema.json"

// eventSchemaJSON constrains the fields this package reads from a trial record.
//
//go:embed trial_event.schema.json
var eventSchemaJSON string

var compileEventSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(eventSchemaURL, strings.NewReader(eventSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add trial event schema: %w", err)
	}
	schema, err := compiler.Compile(eventSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile trial event schema: %w", err)
	}
	return schema, nil
})

// ValidateRecord checks a decoded trial record against the trial event schema.
func ValidateRecord(record any) error {
	schema, err := compileEventSchema()
	if err != nil {
		return err
	}
	return schema.Validate(record)
}
