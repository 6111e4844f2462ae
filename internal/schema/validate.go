// Package schema validates mimic-exec manifests against the embedded JSON
// schema.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	schemafs "github.com/AndreyAkinshin/mimic/schema"
)

var (
	manifestSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// compileSchemas compiles the embedded schema once.
func compileSchemas() error {
	compileOnce.Do(func() {
		data, err := schemafs.FS.ReadFile(schemafs.Manifest)
		if err != nil {
			compileErr = fmt.Errorf("read manifest schema: %w", err)
			return
		}

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal manifest schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemafs.Manifest, doc); err != nil {
			compileErr = fmt.Errorf("add manifest schema resource: %w", err)
			return
		}

		manifestSchema, err = compiler.Compile(schemafs.Manifest)
		if err != nil {
			compileErr = fmt.Errorf("compile manifest schema: %w", err)
		}
	})

	return compileErr
}

// ValidateManifest validates JSON data against the manifest schema.
// YAML manifests are converted to JSON by the caller.
func ValidateManifest(data []byte) error {
	if err := compileSchemas(); err != nil {
		return err
	}

	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := manifestSchema.Validate(v); err != nil {
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	return nil
}

// ValidateManifestValue validates a decoded document, such as the result of
// unmarshaling YAML into an any, against the manifest schema.
func ValidateManifestValue(doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("manifest is not representable as JSON: %w", err)
	}
	return ValidateManifest(data)
}
