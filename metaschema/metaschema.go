// Package metaschema validates raw ABI document bytes against the published
// JSON Schema of the current schema version.
//
// This complements Document.Validate in the root package: Validate here
// works on bytes before any Go-side parsing, which makes it the right tool
// for registries and CI checks that gate documents produced by other
// toolchains. It accepts exactly what the root package parses, including
// the string-valued metadata extension keys.
package metaschema

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed document.schema.json
var schemaJSON string

// compiled is built at init so a malformed embedded schema fails loudly at
// program start rather than on first use.
var compiled = jsonschema.MustCompileString("document.schema.json", schemaJSON)

// SchemaJSON returns the published JSON Schema as shipped, for tooling that
// wants to serve or re-publish it.
func SchemaJSON() []byte {
	return []byte(schemaJSON)
}

// Validate checks raw document bytes against the published schema. It does
// not parse into document types; use the root package for that.
func Validate(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("document is not valid JSON: %w", err)
	}
	if err := compiled.Validate(v); err != nil {
		return fmt.Errorf("document does not match the current schema: %w", err)
	}
	return nil
}
