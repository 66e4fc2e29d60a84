// Package openabi reads, writes, validates and assembles contract ABI
// documents: machine-readable descriptions of the functions a Wasm contract
// exposes and the types they exchange.
//
// The document format is versioned. This package models the current version
// only; the legacy subpackage parses every supported historical version and
// migrates it forward. Type descriptors inside a document are carried as
// JSON objects (map[string]any) and never interpreted, so the package does
// not couple to any one JSON Schema implementation.
//
// # Quick Start
//
//	var doc openabi.Document
//	if err := json.Unmarshal(data, &doc); err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, fn := range doc.Body.Functions {
//	    fmt.Println(fn.Name, fn.Kind, fn.Modifiers)
//	}
//
//	if err := doc.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Strictness
//
// Document records are closed: unknown fields anywhere in a document are
// rejected at parse time rather than silently dropped, and schema_version
// must name the current version (any patch level). Two deliberate openings
// remain. Metadata accepts arbitrary extra keys with string values, kept in
// Metadata.Other; and the type catalog under body.root_schema is carried
// losslessly whatever fields it holds.
//
// # Historical Versions
//
// Documents tagged with an older supported version do not parse here; use
// the legacy package, which detects the version, parses the matching shape
// and migrates it to the current one. Versions outside the supported range
// fail with UnsupportedVersionError, naming the range.
//
// # Combining Chunks
//
// Toolchains that compile a contract in units emit one ChunkedEntry per
// unit. Combine folds a batch of entries back into one entry: the first
// entry fixes the expected schema version, functions are concatenated and
// sorted by name, and the entries' type catalogs are merged with later
// same-name definitions replacing earlier ones. IntoDocument then attaches
// metadata to produce a whole Document.
//
// # Concurrency
//
// All types in this package are safe for concurrent read access. Concurrent
// writes to the same value require external synchronization. Validate is
// read-only and safe for concurrent use on the same Document value.
//
// # Subpackages
//
//   - legacy: parse any supported document version and migrate it forward
//   - metaschema: validate raw document bytes against the published JSON
//     Schema of the current version
package openabi
