package openabi

import (
	"encoding/json"
	"fmt"
)

// Schema is an opaque JSON-Schema-like type descriptor. It is intentionally
// untyped to avoid coupling to any one JSON Schema library: this package
// stores, compares and moves descriptors, it never interprets them.
type Schema map[string]any

// Clone returns a deep copy of the descriptor.
func (s Schema) Clone() Schema {
	if s == nil {
		return nil
	}
	return cloneJSONMap(s)
}

// Equal reports whether two descriptors hold the same JSON value.
func (s Schema) Equal(other Schema) bool {
	return mapsJSONEqual(s, other)
}

// LayoutSchema is the opaque descriptor of a type's compact binary layout
// (a declaration plus the definitions it references). Like Schema it is
// stored and moved, never interpreted.
type LayoutSchema map[string]any

// Clone returns a deep copy of the descriptor.
func (l LayoutSchema) Clone() LayoutSchema {
	if l == nil {
		return nil
	}
	return cloneJSONMap(l)
}

// Equal reports whether two descriptors hold the same JSON value.
func (l LayoutSchema) Equal(other LayoutSchema) bool {
	return mapsJSONEqual(l, other)
}

// SerializationType tags which serialization class a type or a parameter
// list belongs to.
type SerializationType string

const (
	// SerializationJSON marks values exchanged as JSON, described by a
	// JSON-Schema-like descriptor.
	SerializationJSON SerializationType = "json"
	// SerializationBinary marks values exchanged in the compact binary
	// format, described by a layout descriptor.
	SerializationBinary SerializationType = "binary"
)

// FunctionKind classifies how a function interacts with contract state.
type FunctionKind string

const (
	// FunctionKindView marks a read-only function.
	FunctionKindView FunctionKind = "view"
	// FunctionKindCall marks a function that may mutate contract state.
	FunctionKindCall FunctionKind = "call"
)

// FunctionModifier marks how a function may be invoked.
type FunctionModifier string

const (
	// FunctionModifierInit marks an initialization function.
	FunctionModifierInit FunctionModifier = "init"
	// FunctionModifierPrivate restricts callers to the contract itself.
	FunctionModifierPrivate FunctionModifier = "private"
	// FunctionModifierPayable allows funds to be attached to an invocation.
	FunctionModifierPayable FunctionModifier = "payable"
)

// Pre-computed known field sets for strict JSON unmarshaling. The document
// format is closed: every record rejects fields outside its set, except
// Metadata which accepts free-form string extras.
var (
	knownTypeSchemaSet = knownSet(
		"serialization_type", "type_schema",
	)
	knownParameterSet = knownSet(
		"name", "type_schema",
	)
	knownParametersSet = knownSet(
		"serialization_type", "args",
	)
	knownFunctionSet = knownSet(
		"name", "doc", "kind", "modifiers",
		"params", "callbacks", "callbacks_vec", "result",
	)
	knownBuildInfoSet = knownSet(
		"compiler", "builder", "image",
	)
	knownMetadataSet = knownSet(
		"name", "version", "authors", "build", "wasm_hash",
	)
	knownBodySet = knownSet(
		"functions", "root_schema",
	)
	knownDocumentSet = knownSet(
		"schema_version", "metadata", "body",
	)
)

// TypeSchema is a type descriptor together with the serialization class it
// describes the type under. Exactly one payload is set, matching the class.
type TypeSchema struct {
	Serialization SerializationType

	// JSON holds the descriptor when Serialization is SerializationJSON.
	JSON Schema
	// Binary holds the descriptor when Serialization is SerializationBinary.
	Binary LayoutSchema
}

// JSONType wraps a JSON descriptor into a tagged type.
func JSONType(s Schema) TypeSchema {
	return TypeSchema{Serialization: SerializationJSON, JSON: s}
}

// BinaryType wraps a binary layout descriptor into a tagged type.
func BinaryType(l LayoutSchema) TypeSchema {
	return TypeSchema{Serialization: SerializationBinary, Binary: l}
}

type typeSchemaWire struct {
	Serialization SerializationType `json:"serialization_type"`
	TypeSchema    any               `json:"type_schema"`
}

func (t *TypeSchema) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if err := rejectUnknown("type schema", raw, knownTypeSchemaSet); err != nil {
		return err
	}
	if err := requireFields("type schema", raw, "serialization_type", "type_schema"); err != nil {
		return err
	}

	var tag SerializationType
	if err := json.Unmarshal(raw["serialization_type"], &tag); err != nil {
		return fmt.Errorf("type schema: serialization_type: %w", err)
	}
	switch tag {
	case SerializationJSON:
		var s Schema
		if err := json.Unmarshal(raw["type_schema"], &s); err != nil {
			return fmt.Errorf("type schema: type_schema: %w", err)
		}
		*t = TypeSchema{Serialization: SerializationJSON, JSON: s}
	case SerializationBinary:
		var l LayoutSchema
		if err := json.Unmarshal(raw["type_schema"], &l); err != nil {
			return fmt.Errorf("type schema: type_schema: %w", err)
		}
		*t = TypeSchema{Serialization: SerializationBinary, Binary: l}
	default:
		return fmt.Errorf("type schema: unknown serialization_type %q", tag)
	}
	return nil
}

func (t TypeSchema) MarshalJSON() ([]byte, error) {
	switch t.Serialization {
	case SerializationJSON:
		return json.Marshal(typeSchemaWire{Serialization: t.Serialization, TypeSchema: t.JSON})
	case SerializationBinary:
		return json.Marshal(typeSchemaWire{Serialization: t.Serialization, TypeSchema: t.Binary})
	}
	return nil, fmt.Errorf("type schema: unknown serialization type %q", t.Serialization)
}

// JSONParameter is one member of a JSON-serialized parameter list.
type JSONParameter struct {
	Name       string `json:"name"`
	TypeSchema Schema `json:"type_schema"`
}

func (p *JSONParameter) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if err := rejectUnknown("parameter", raw, knownParameterSet); err != nil {
		return err
	}
	if err := requireFields("parameter", raw, "name", "type_schema"); err != nil {
		return err
	}

	var w struct {
		Name       string `json:"name"`
		TypeSchema Schema `json:"type_schema"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*p = JSONParameter{Name: w.Name, TypeSchema: w.TypeSchema}
	return nil
}

// BinaryParameter is one member of a binary-serialized parameter list.
type BinaryParameter struct {
	Name       string       `json:"name"`
	TypeSchema LayoutSchema `json:"type_schema"`
}

func (p *BinaryParameter) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if err := rejectUnknown("parameter", raw, knownParameterSet); err != nil {
		return err
	}
	if err := requireFields("parameter", raw, "name", "type_schema"); err != nil {
		return err
	}

	var w struct {
		Name       string       `json:"name"`
		TypeSchema LayoutSchema `json:"type_schema"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*p = BinaryParameter{Name: w.Name, TypeSchema: w.TypeSchema}
	return nil
}

// Parameters is a function's parameter list. The whole list belongs to one
// serialization class; the class tag constrains every member, so a list is
// either all JSON or all binary, never mixed. The zero value marshals as an
// empty JSON-class list.
type Parameters struct {
	Serialization SerializationType

	// JSON holds the members when Serialization is SerializationJSON.
	JSON []JSONParameter
	// Binary holds the members when Serialization is SerializationBinary.
	Binary []BinaryParameter
}

// Len returns the number of parameters in the list.
func (p Parameters) Len() int {
	if p.Serialization == SerializationBinary {
		return len(p.Binary)
	}
	return len(p.JSON)
}

// IsEmpty reports whether the list has no parameters.
func (p Parameters) IsEmpty() bool { return p.Len() == 0 }

type parametersWire struct {
	Serialization SerializationType `json:"serialization_type"`
	Args          any               `json:"args"`
}

func (p *Parameters) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if err := rejectUnknown("params", raw, knownParametersSet); err != nil {
		return err
	}
	if err := requireFields("params", raw, "serialization_type", "args"); err != nil {
		return err
	}

	var tag SerializationType
	if err := json.Unmarshal(raw["serialization_type"], &tag); err != nil {
		return fmt.Errorf("params: serialization_type: %w", err)
	}
	switch tag {
	case SerializationJSON:
		var args []JSONParameter
		if err := json.Unmarshal(raw["args"], &args); err != nil {
			return fmt.Errorf("params: args: %w", err)
		}
		*p = Parameters{Serialization: SerializationJSON, JSON: args}
	case SerializationBinary:
		var args []BinaryParameter
		if err := json.Unmarshal(raw["args"], &args); err != nil {
			return fmt.Errorf("params: args: %w", err)
		}
		*p = Parameters{Serialization: SerializationBinary, Binary: args}
	default:
		return fmt.Errorf("params: unknown serialization_type %q", tag)
	}
	return nil
}

func (p Parameters) MarshalJSON() ([]byte, error) {
	switch p.Serialization {
	case SerializationJSON, "":
		args := p.JSON
		if args == nil {
			args = []JSONParameter{}
		}
		return json.Marshal(parametersWire{Serialization: SerializationJSON, Args: args})
	case SerializationBinary:
		args := p.Binary
		if args == nil {
			args = []BinaryParameter{}
		}
		return json.Marshal(parametersWire{Serialization: SerializationBinary, Args: args})
	}
	return nil, fmt.Errorf("params: unknown serialization type %q", p.Serialization)
}

// Parameter is one named parameter together with its tagged type: the
// ungrouped form accepted by NewParameters.
type Parameter struct {
	Name string
	Type TypeSchema
}

// NewParameters groups ungrouped parameters into a single-class list. The
// list's class comes from the first parameter; an empty list defaults to the
// JSON class. A parameter tagged with the other class fails with
// MixedSerializationError: mixed lists indicate corrupt input and are
// rejected rather than coerced.
func NewParameters(params []Parameter) (Parameters, error) {
	if len(params) == 0 {
		return Parameters{Serialization: SerializationJSON}, nil
	}

	want := params[0].Type.Serialization
	switch want {
	case SerializationJSON, SerializationBinary:
	default:
		return Parameters{}, fmt.Errorf("parameter 0: unknown serialization type %q", want)
	}
	for i, p := range params {
		if p.Type.Serialization != want {
			return Parameters{}, &MixedSerializationError{Parameter: i, Expected: want, Got: p.Type.Serialization}
		}
	}

	out := Parameters{Serialization: want}
	switch want {
	case SerializationJSON:
		out.JSON = make([]JSONParameter, len(params))
		for i, p := range params {
			out.JSON[i] = JSONParameter{Name: p.Name, TypeSchema: p.Type.JSON}
		}
	case SerializationBinary:
		out.Binary = make([]BinaryParameter, len(params))
		for i, p := range params {
			out.Binary[i] = BinaryParameter{Name: p.Name, TypeSchema: p.Type.Binary}
		}
	}
	return out, nil
}

// MixedSerializationError reports a parameter list whose members do not all
// share one serialization class.
type MixedSerializationError struct {
	// Function names the owning function when the failing list belongs to
	// one; empty otherwise.
	Function  string
	Parameter int
	Expected  SerializationType
	Got       SerializationType
}

func (e *MixedSerializationError) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("function %q: parameter %d is %s-serialized, expected %s",
			e.Function, e.Parameter, e.Got, e.Expected)
	}
	return fmt.Sprintf("parameter %d is %s-serialized, expected %s", e.Parameter, e.Got, e.Expected)
}

// Function describes one externally callable contract function.
type Function struct {
	Name string `json:"name"`
	Doc  string `json:"doc,omitempty"`

	Kind      FunctionKind       `json:"kind"`
	Modifiers []FunctionModifier `json:"modifiers,omitempty"`

	// Params defaults to an empty JSON-class list when absent from the wire.
	Params Parameters `json:"params"`

	// Callbacks describe the results of promises this function consumes.
	Callbacks []TypeSchema `json:"callbacks,omitempty"`
	// CallbacksVec describes a variadic tail of callback results.
	CallbacksVec *TypeSchema `json:"callbacks_vec,omitempty"`

	Result *TypeSchema `json:"result,omitempty"`
}

type functionWire struct {
	Name string `json:"name"`
	Doc  string `json:"doc,omitempty"`

	Kind      FunctionKind       `json:"kind"`
	Modifiers []FunctionModifier `json:"modifiers,omitempty"`

	Params *Parameters `json:"params,omitempty"`

	Callbacks    []TypeSchema `json:"callbacks,omitempty"`
	CallbacksVec *TypeSchema  `json:"callbacks_vec,omitempty"`
	Result       *TypeSchema  `json:"result,omitempty"`
}

func (f *Function) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if err := rejectUnknown("function", raw, knownFunctionSet); err != nil {
		return err
	}
	if err := requireFields("function", raw, "name", "kind"); err != nil {
		return err
	}

	var w functionWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	switch w.Kind {
	case FunctionKindView, FunctionKindCall:
	default:
		return fmt.Errorf("function %q: unknown kind %q", w.Name, w.Kind)
	}
	for _, m := range w.Modifiers {
		switch m {
		case FunctionModifierInit, FunctionModifierPrivate, FunctionModifierPayable:
		default:
			return fmt.Errorf("function %q: unknown modifier %q", w.Name, m)
		}
	}

	params := Parameters{Serialization: SerializationJSON}
	if w.Params != nil {
		params = *w.Params
	}
	*f = Function{
		Name:         w.Name,
		Doc:          w.Doc,
		Kind:         w.Kind,
		Modifiers:    w.Modifiers,
		Params:       params,
		Callbacks:    w.Callbacks,
		CallbacksVec: w.CallbacksVec,
		Result:       w.Result,
	}
	return nil
}

func (f Function) MarshalJSON() ([]byte, error) {
	w := functionWire{
		Name:         f.Name,
		Doc:          f.Doc,
		Kind:         f.Kind,
		Modifiers:    f.Modifiers,
		Callbacks:    f.Callbacks,
		CallbacksVec: f.CallbacksVec,
		Result:       f.Result,
	}
	if !f.Params.IsEmpty() {
		params := f.Params
		w.Params = &params
	}
	return json.Marshal(w)
}

// BuildInfo records how the contract binary was produced.
type BuildInfo struct {
	Compiler string `json:"compiler"`
	Builder  string `json:"builder"`
	Image    string `json:"image,omitempty"`
}

type buildInfoWire struct {
	Compiler string `json:"compiler"`
	Builder  string `json:"builder"`
	Image    string `json:"image,omitempty"`
}

func (bi *BuildInfo) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if err := rejectUnknown("build", raw, knownBuildInfoSet); err != nil {
		return err
	}
	if err := requireFields("build", raw, "compiler", "builder"); err != nil {
		return err
	}

	var w buildInfoWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*bi = BuildInfo{Compiler: w.Compiler, Builder: w.Builder, Image: w.Image}
	return nil
}

// Metadata is free-form build and authorship information. It is the format's
// extension point: alongside the modeled fields it accepts arbitrary extra
// keys with string values, kept in Other. Migration never alters metadata.
type Metadata struct {
	Name    string
	Version string
	Authors []string
	Build   *BuildInfo

	// WasmHash is the Base58-encoded SHA-256 digest of the contract binary
	// this document describes. See the WasmHash function for the encoding.
	WasmHash string

	// Other holds the extra string-valued keys. Typed fields win on
	// collision during marshaling.
	Other map[string]string
}

// IsEmpty reports whether no metadata is set.
func (m Metadata) IsEmpty() bool {
	return m.Name == "" && m.Version == "" && len(m.Authors) == 0 &&
		m.Build == nil && m.WasmHash == "" && len(m.Other) == 0
}

type metadataWire struct {
	Name     string     `json:"name,omitempty"`
	Version  string     `json:"version,omitempty"`
	Authors  []string   `json:"authors,omitempty"`
	Build    *BuildInfo `json:"build,omitempty"`
	WasmHash string     `json:"wasm_hash,omitempty"`
}

func (m *Metadata) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var w metadataWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	var other map[string]string
	for k, v := range raw {
		if _, ok := knownMetadataSet[k]; ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("metadata: field %q: expected a string value", k)
		}
		if other == nil {
			other = map[string]string{}
		}
		other[k] = s
	}

	*m = Metadata{
		Name:     w.Name,
		Version:  w.Version,
		Authors:  w.Authors,
		Build:    w.Build,
		WasmHash: w.WasmHash,
		Other:    other,
	}
	return nil
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	w := metadataWire{
		Name:     m.Name,
		Version:  m.Version,
		Authors:  m.Authors,
		Build:    m.Build,
		WasmHash: m.WasmHash,
	}
	return marshalWithExtras(w, m.Other, knownMetadataSet)
}

// RootSchema is the document's type catalog: the named type definitions
// referenced by function descriptors, plus whatever other fields the schema
// generator emitted. Only Definitions is modeled; everything else rides in
// Extra untouched. The catalog is an opaque payload, so unlike document
// records it accepts and preserves fields this package does not know.
type RootSchema struct {
	Definitions map[string]Schema
	Extra       map[string]json.RawMessage
}

func (r *RootSchema) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	out := RootSchema{}
	if defs, ok := raw["definitions"]; ok {
		if err := json.Unmarshal(defs, &out.Definitions); err != nil {
			return fmt.Errorf("root_schema: definitions: %w", err)
		}
		delete(raw, "definitions")
	}
	if len(raw) > 0 {
		out.Extra = raw
	}
	*r = out
	return nil
}

func (r RootSchema) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(r.Extra)+1)
	for k, v := range r.Extra {
		out[k] = v
	}
	if len(r.Definitions) > 0 {
		defs, err := json.Marshal(r.Definitions)
		if err != nil {
			return nil, err
		}
		out["definitions"] = defs
	}
	return json.Marshal(out)
}

// Clone returns a deep copy of the catalog.
func (r RootSchema) Clone() RootSchema {
	out := RootSchema{}
	if r.Definitions != nil {
		out.Definitions = make(map[string]Schema, len(r.Definitions))
		for k, v := range r.Definitions {
			out.Definitions[k] = v.Clone()
		}
	}
	if r.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// Equal reports whether two catalogs hold the same definitions and extras.
func (r RootSchema) Equal(other RootSchema) bool {
	if len(r.Definitions) != len(other.Definitions) {
		return false
	}
	for k, v := range r.Definitions {
		ov, ok := other.Definitions[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	if len(r.Extra) != len(other.Extra) {
		return false
	}
	for k, v := range r.Extra {
		ov, ok := other.Extra[k]
		if !ok || !jsonValueEqual(v, ov) {
			return false
		}
	}
	return true
}

// Body carries a document's functions and the type catalog they reference.
type Body struct {
	Functions  []Function `json:"functions"`
	RootSchema RootSchema `json:"root_schema"`
}

type bodyWire struct {
	Functions  []Function `json:"functions"`
	RootSchema RootSchema `json:"root_schema"`
}

func (b *Body) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := rejectUnknown("body", raw, knownBodySet); err != nil {
		return err
	}
	if err := requireFields("body", raw, "functions", "root_schema"); err != nil {
		return err
	}

	var w bodyWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*b = Body{Functions: w.Functions, RootSchema: w.RootSchema}
	return nil
}

func (b Body) MarshalJSON() ([]byte, error) {
	w := bodyWire{Functions: b.Functions, RootSchema: b.RootSchema}
	if w.Functions == nil {
		w.Functions = []Function{}
	}
	return json.Marshal(w)
}

// Document is a complete current-version ABI document.
//
// Parsing is strict: unknown fields anywhere in the document records are
// rejected, and schema_version must name the current version. Historical
// documents go through the legacy package instead.
type Document struct {
	SchemaVersion string   `json:"schema_version"`
	Metadata      Metadata `json:"metadata"`
	Body          Body     `json:"body"`
}

type documentWire struct {
	SchemaVersion string   `json:"schema_version"`
	Metadata      Metadata `json:"metadata"`
	Body          Body     `json:"body"`
}

func (d *Document) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if err := rejectUnknown("document", raw, knownDocumentSet); err != nil {
		return err
	}
	if err := requireFields("document", raw, "schema_version", "metadata", "body"); err != nil {
		return err
	}

	var version string
	if err := json.Unmarshal(raw["schema_version"], &version); err != nil {
		return &MalformedVersionError{Err: err}
	}
	if err := ensureCurrentVersion(version); err != nil {
		return err
	}

	var w documentWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*d = Document{SchemaVersion: w.SchemaVersion, Metadata: w.Metadata, Body: w.Body}
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(documentWire{
		SchemaVersion: d.SchemaVersion,
		Metadata:      d.Metadata,
		Body:          d.Body,
	})
}

// NewDocument assembles a current-version document and validates it.
func NewDocument(meta Metadata, functions []Function, catalog RootSchema) (*Document, error) {
	d := &Document{
		SchemaVersion: SchemaVersion,
		Metadata:      meta,
		Body:          Body{Functions: functions, RootSchema: catalog},
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func mapsJSONEqual(a, b map[string]any) bool {
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return jsonValueEqual(ab, bb)
}
