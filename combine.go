package openabi

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrNoEntries is returned by Combine when the batch is empty. A combined
// document takes its schema version from the first entry, so there is no
// meaningful output for zero entries.
var ErrNoEntries = errors.New("no entries to combine")

// VersionConflictError reports a Combine batch whose entries do not all
// carry the schema version of the first entry. Found lists the disagreeing
// versions, sorted and deduplicated.
type VersionConflictError struct {
	Expected string
	Found    []string
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("conflicting schema versions: expected %q, found %s",
		e.Expected, quotedList(e.Found))
}

var knownChunkSet = knownSet(
	"schema_version", "functions", "root_schema",
)

// ChunkedEntry is one per-compilation-unit fragment of a document: a schema
// version tag plus a body, without metadata. Generators emit one entry per
// unit; Combine folds them back into one entry.
//
// Unlike Document, parsing an entry accepts any version tag. Entries from
// different toolchain runs may legitimately disagree, and disagreement is
// Combine's to report, not the parser's.
type ChunkedEntry struct {
	SchemaVersion string
	Body
}

type chunkedEntryWire struct {
	SchemaVersion string     `json:"schema_version"`
	Functions     []Function `json:"functions"`
	RootSchema    RootSchema `json:"root_schema"`
}

// NewChunkedEntry assembles an entry tagged with the current schema version.
func NewChunkedEntry(functions []Function, catalog RootSchema) ChunkedEntry {
	return ChunkedEntry{
		SchemaVersion: SchemaVersion,
		Body:          Body{Functions: functions, RootSchema: catalog},
	}
}

func (e *ChunkedEntry) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if err := rejectUnknown("chunk", raw, knownChunkSet); err != nil {
		return err
	}
	if err := requireFields("chunk", raw, "schema_version", "functions", "root_schema"); err != nil {
		return err
	}

	var version string
	if err := json.Unmarshal(raw["schema_version"], &version); err != nil {
		return &MalformedVersionError{Err: err}
	}

	var w chunkedEntryWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*e = ChunkedEntry{
		SchemaVersion: w.SchemaVersion,
		Body:          Body{Functions: w.Functions, RootSchema: w.RootSchema},
	}
	return nil
}

func (e ChunkedEntry) MarshalJSON() ([]byte, error) {
	w := chunkedEntryWire{
		SchemaVersion: e.SchemaVersion,
		Functions:     e.Functions,
		RootSchema:    e.RootSchema,
	}
	if w.Functions == nil {
		w.Functions = []Function{}
	}
	return json.Marshal(w)
}

// IntoDocument wraps a single entry into a whole document carrying meta.
// The entry's version tag is kept as-is.
func (e ChunkedEntry) IntoDocument(meta Metadata) *Document {
	return &Document{
		SchemaVersion: e.SchemaVersion,
		Metadata:      meta,
		Body:          e.Body,
	}
}

// CatalogBuilder accumulates named type definitions into a catalog. Defining
// a name again replaces the earlier definition.
type CatalogBuilder struct {
	defs map[string]Schema
}

// NewCatalogBuilder returns an empty builder.
func NewCatalogBuilder() *CatalogBuilder {
	return &CatalogBuilder{defs: map[string]Schema{}}
}

// Define records a named definition, replacing any earlier one.
func (b *CatalogBuilder) Define(name string, schema Schema) {
	b.defs[name] = schema
}

// Len returns the number of distinct definitions recorded so far.
func (b *CatalogBuilder) Len() int { return len(b.defs) }

// RootSchema snapshots the accumulated definitions into a catalog. The
// catalog declares the draft-07 meta-schema, matching what generators emit.
func (b *CatalogBuilder) RootSchema() RootSchema {
	out := RootSchema{
		Extra: map[string]json.RawMessage{
			"$schema": json.RawMessage(`"http://json-schema.org/draft-07/schema#"`),
		},
	}
	if len(b.defs) > 0 {
		out.Definitions = make(map[string]Schema, len(b.defs))
		for k, v := range b.defs {
			out.Definitions[k] = v.Clone()
		}
	}
	return out
}

// Combine assembles per-unit entries into a single entry. Attach metadata
// with IntoDocument to turn the result into a whole document.
//
// The first entry fixes the expected schema version. Entries tagged with any
// other version are skipped and their versions collected; the loop still
// runs to the end so the error lists every disagreeing version, then Combine
// fails with VersionConflictError. Otherwise the entries' functions are
// concatenated and sorted by name (stably, so same-name functions keep entry
// order), and their catalogs are merged name-by-name with later entries
// replacing earlier same-name definitions. An empty batch fails with
// ErrNoEntries.
func Combine(entries []ChunkedEntry) (ChunkedEntry, error) {
	if len(entries) == 0 {
		return ChunkedEntry{}, ErrNoEntries
	}

	expected := entries[0].SchemaVersion
	builder := NewCatalogBuilder()
	var functions []Function
	conflicts := map[string]struct{}{}

	for _, e := range entries {
		if e.SchemaVersion != expected {
			conflicts[e.SchemaVersion] = struct{}{}
			continue
		}
		for name, def := range e.RootSchema.Definitions {
			builder.Define(name, def)
		}
		functions = append(functions, e.Functions...)
	}

	if len(conflicts) > 0 {
		found := make([]string, 0, len(conflicts))
		for v := range conflicts {
			found = append(found, v)
		}
		sort.Strings(found)
		return ChunkedEntry{}, &VersionConflictError{Expected: expected, Found: found}
	}

	sort.SliceStable(functions, func(i, j int) bool {
		return functions[i].Name < functions[j].Name
	})

	return ChunkedEntry{
		SchemaVersion: expected,
		Body:          Body{Functions: functions, RootSchema: builder.RootSchema()},
	}, nil
}
