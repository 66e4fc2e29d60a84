package legacy

import (
	"encoding/json"

	openabi "github.com/openabi/openabi-go"
)

// Known field sets for strict unmarshaling of the 0.2 document shape.
var (
	knownDocumentV02Set = knownSet(
		"schema_version", "metadata", "body",
	)
	knownBodyV02Set = knownSet(
		"functions", "root_schema",
	)
	knownFunctionV02Set = knownSet(
		"name", "doc", "is_view", "is_init", "is_payable", "is_private",
		"params", "callbacks", "callbacks_vec", "result",
	)
)

// FunctionV02 is a 0.2 function descriptor. Parameters are grouped into a
// single-class list as in the current shape, but invocation properties are
// still the four independent 0.1 booleans.
type FunctionV02 struct {
	Name string `json:"name"`
	Doc  string `json:"doc,omitempty"`

	IsView    bool `json:"is_view,omitempty"`
	IsInit    bool `json:"is_init,omitempty"`
	IsPayable bool `json:"is_payable,omitempty"`
	IsPrivate bool `json:"is_private,omitempty"`

	Params openabi.Parameters `json:"params"`

	Callbacks    []openabi.TypeSchema `json:"callbacks,omitempty"`
	CallbacksVec *openabi.TypeSchema  `json:"callbacks_vec,omitempty"`
	Result       *openabi.TypeSchema  `json:"result,omitempty"`
}

type functionV02Wire struct {
	Name string `json:"name"`
	Doc  string `json:"doc,omitempty"`

	IsView    bool `json:"is_view,omitempty"`
	IsInit    bool `json:"is_init,omitempty"`
	IsPayable bool `json:"is_payable,omitempty"`
	IsPrivate bool `json:"is_private,omitempty"`

	Params *openabi.Parameters `json:"params,omitempty"`

	Callbacks    []openabi.TypeSchema `json:"callbacks,omitempty"`
	CallbacksVec *openabi.TypeSchema  `json:"callbacks_vec,omitempty"`
	Result       *openabi.TypeSchema  `json:"result,omitempty"`
}

func (f *FunctionV02) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if err := rejectUnknown("function", raw, knownFunctionV02Set); err != nil {
		return err
	}
	if err := requireFields("function", raw, "name"); err != nil {
		return err
	}

	var w functionV02Wire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	params := openabi.Parameters{Serialization: openabi.SerializationJSON}
	if w.Params != nil {
		params = *w.Params
	}
	*f = FunctionV02{
		Name:         w.Name,
		Doc:          w.Doc,
		IsView:       w.IsView,
		IsInit:       w.IsInit,
		IsPayable:    w.IsPayable,
		IsPrivate:    w.IsPrivate,
		Params:       params,
		Callbacks:    w.Callbacks,
		CallbacksVec: w.CallbacksVec,
		Result:       w.Result,
	}
	return nil
}

// BodyV02 carries a 0.2 document's functions and type catalog.
type BodyV02 struct {
	Functions  []FunctionV02      `json:"functions"`
	RootSchema openabi.RootSchema `json:"root_schema"`
}

func (b *BodyV02) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := rejectUnknown("body", raw, knownBodyV02Set); err != nil {
		return err
	}
	if err := requireFields("body", raw, "functions", "root_schema"); err != nil {
		return err
	}

	var w struct {
		Functions  []FunctionV02      `json:"functions"`
		RootSchema openabi.RootSchema `json:"root_schema"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*b = BodyV02{Functions: w.Functions, RootSchema: w.RootSchema}
	return nil
}

// DocumentV02 is a whole document in the 0.2 shape.
type DocumentV02 struct {
	SchemaVersion string           `json:"schema_version"`
	Metadata      openabi.Metadata `json:"metadata"`
	Body          BodyV02          `json:"body"`
}

func (d *DocumentV02) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if err := rejectUnknown("document", raw, knownDocumentV02Set); err != nil {
		return err
	}
	if err := requireFields("document", raw, "schema_version", "metadata", "body"); err != nil {
		return err
	}

	var version string
	if err := json.Unmarshal(raw["schema_version"], &version); err != nil {
		return &openabi.MalformedVersionError{Err: err}
	}
	if err := ensureVersionSeries("document", version, 0, 2); err != nil {
		return err
	}

	var w struct {
		SchemaVersion string           `json:"schema_version"`
		Metadata      openabi.Metadata `json:"metadata"`
		Body          BodyV02          `json:"body"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*d = DocumentV02{SchemaVersion: w.SchemaVersion, Metadata: w.Metadata, Body: w.Body}
	return nil
}
