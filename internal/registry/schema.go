package registry

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed data/categories.schema.json
var catalogSchema []byte

const catalogSchemaURL = "categories.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(catalogSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(catalogSchemaURL, schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to add catalog schema: %w", err)
	}

	schema, err := compiler.Compile(catalogSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile catalog schema: %w", err)
	}
	return schema, nil
})

// validateCatalog checks raw catalog JSON against the embedded schema
func validateCatalog(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
	}

	if err := schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("%w: %s", ErrInvalidRegistry, describeValidationError(validationErr))
		}
		return fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
	}

	return nil
}

// describeValidationError renders the first leaf error with its JSON path
func describeValidationError(validationErr *jsonschema.ValidationError) string {
	leaf := validationErr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}

	path := "$"
	if len(leaf.InstanceLocation) > 0 {
		path = "$." + strings.Join(leaf.InstanceLocation, ".")
	}
	return fmt.Sprintf("%s: %s", path, leaf.Error())
}
