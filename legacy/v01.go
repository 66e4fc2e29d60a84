package legacy

import (
	"encoding/json"
	"fmt"

	openabi "github.com/openabi/openabi-go"
)

// Known field sets for strict unmarshaling of the 0.1 document shape.
var (
	knownDocumentV01Set = knownSet(
		"schema_version", "metadata", "body",
	)
	knownBodyV01Set = knownSet(
		"functions", "root_schema",
	)
	knownFunctionV01Set = knownSet(
		"name", "doc", "is_view", "is_init", "is_payable", "is_private",
		"params", "callbacks", "callbacks_vec", "result",
	)
	knownParameterV01Set = knownSet(
		"name", "serialization_type", "type_schema",
	)
)

// ParameterV01 is one parameter of a 0.1 function. Each parameter carries
// its own serialization tag; lists were not yet grouped by class. On the
// wire the tagged type is flattened next to the name.
type ParameterV01 struct {
	Name string
	Type openabi.TypeSchema
}

func (p *ParameterV01) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if err := rejectUnknown("parameter", raw, knownParameterV01Set); err != nil {
		return err
	}
	if err := requireFields("parameter", raw, "name", "serialization_type", "type_schema"); err != nil {
		return err
	}

	var name string
	if err := json.Unmarshal(raw["name"], &name); err != nil {
		return fmt.Errorf("parameter: name: %w", err)
	}
	sub, err := json.Marshal(map[string]json.RawMessage{
		"serialization_type": raw["serialization_type"],
		"type_schema":        raw["type_schema"],
	})
	if err != nil {
		return err
	}
	var t openabi.TypeSchema
	if err := json.Unmarshal(sub, &t); err != nil {
		return err
	}
	*p = ParameterV01{Name: name, Type: t}
	return nil
}

func (p ParameterV01) MarshalJSON() ([]byte, error) {
	tb, err := json.Marshal(p.Type)
	if err != nil {
		return nil, err
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(tb, &out); err != nil {
		return nil, err
	}
	nb, err := json.Marshal(p.Name)
	if err != nil {
		return nil, err
	}
	out["name"] = nb
	return json.Marshal(out)
}

// FunctionV01 is a 0.1 function descriptor: invocation properties are four
// independent booleans and parameters are an ungrouped, per-parameter
// tagged list.
type FunctionV01 struct {
	Name string `json:"name"`
	Doc  string `json:"doc,omitempty"`

	IsView    bool `json:"is_view,omitempty"`
	IsInit    bool `json:"is_init,omitempty"`
	IsPayable bool `json:"is_payable,omitempty"`
	IsPrivate bool `json:"is_private,omitempty"`

	Params []ParameterV01 `json:"params,omitempty"`

	Callbacks    []openabi.TypeSchema `json:"callbacks,omitempty"`
	CallbacksVec *openabi.TypeSchema  `json:"callbacks_vec,omitempty"`
	Result       *openabi.TypeSchema  `json:"result,omitempty"`
}

type functionV01Wire struct {
	Name string `json:"name"`
	Doc  string `json:"doc,omitempty"`

	IsView    bool `json:"is_view,omitempty"`
	IsInit    bool `json:"is_init,omitempty"`
	IsPayable bool `json:"is_payable,omitempty"`
	IsPrivate bool `json:"is_private,omitempty"`

	Params []ParameterV01 `json:"params,omitempty"`

	Callbacks    []openabi.TypeSchema `json:"callbacks,omitempty"`
	CallbacksVec *openabi.TypeSchema  `json:"callbacks_vec,omitempty"`
	Result       *openabi.TypeSchema  `json:"result,omitempty"`
}

func (f *FunctionV01) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if err := rejectUnknown("function", raw, knownFunctionV01Set); err != nil {
		return err
	}
	if err := requireFields("function", raw, "name"); err != nil {
		return err
	}

	var w functionV01Wire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*f = FunctionV01(w)
	return nil
}

// BodyV01 carries a 0.1 document's functions and type catalog. The catalog
// shape never changed across versions, so the current type is reused.
type BodyV01 struct {
	Functions  []FunctionV01      `json:"functions"`
	RootSchema openabi.RootSchema `json:"root_schema"`
}

func (b *BodyV01) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := rejectUnknown("body", raw, knownBodyV01Set); err != nil {
		return err
	}
	if err := requireFields("body", raw, "functions", "root_schema"); err != nil {
		return err
	}

	var w struct {
		Functions  []FunctionV01      `json:"functions"`
		RootSchema openabi.RootSchema `json:"root_schema"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*b = BodyV01{Functions: w.Functions, RootSchema: w.RootSchema}
	return nil
}

// DocumentV01 is a whole document in the 0.1 shape. Metadata never changed
// across versions, so the current type is reused.
type DocumentV01 struct {
	SchemaVersion string           `json:"schema_version"`
	Metadata      openabi.Metadata `json:"metadata"`
	Body          BodyV01          `json:"body"`
}

func (d *DocumentV01) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if err := rejectUnknown("document", raw, knownDocumentV01Set); err != nil {
		return err
	}
	if err := requireFields("document", raw, "schema_version", "metadata", "body"); err != nil {
		return err
	}

	var version string
	if err := json.Unmarshal(raw["schema_version"], &version); err != nil {
		return &openabi.MalformedVersionError{Err: err}
	}
	if err := ensureVersionSeries("document", version, 0, 1); err != nil {
		return err
	}

	var w struct {
		SchemaVersion string           `json:"schema_version"`
		Metadata      openabi.Metadata `json:"metadata"`
		Body          BodyV01          `json:"body"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*d = DocumentV01{SchemaVersion: w.SchemaVersion, Metadata: w.Metadata, Body: w.Body}
	return nil
}
