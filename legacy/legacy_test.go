package legacy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	openabi "github.com/openabi/openabi-go"
)

func minimalDocJSON(version string) []byte {
	return []byte(fmt.Sprintf(`{"schema_version": %q, "metadata": {}, "body": {"functions": [], "root_schema": {}}}`, version))
}

func TestParseTagged_SelectsShapeBySeries(t *testing.T) {
	cases := []struct {
		version string
		want    string
	}{
		{"0.1.0", "v01"},
		{"0.1.7", "v01"},
		{"0.2.0", "v02"},
		{"0.2.9", "v02"},
		{"0.3.0", "current"},
		{"0.3.4", "current"},
	}
	for _, tc := range cases {
		t.Run(tc.version, func(t *testing.T) {
			parsed, err := ParseTagged(minimalDocJSON(tc.version))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			var got string
			switch {
			case parsed.V01 != nil:
				got = "v01"
			case parsed.V02 != nil:
				got = "v02"
			case parsed.Current != nil:
				got = "current"
			}
			if got != tc.want {
				t.Fatalf("expected %s shape, got %s", tc.want, got)
			}
			if parsed.SchemaVersion() != tc.version {
				t.Fatalf("expected tag kept verbatim, got %q", parsed.SchemaVersion())
			}
		})
	}
}

func TestParseTagged_MissingVersionTag(t *testing.T) {
	_, err := ParseTagged([]byte(`{"metadata": {}, "body": {"functions": [], "root_schema": {}}}`))
	if err == nil {
		t.Fatalf("expected error")
	}
	var malformed *openabi.MalformedVersionError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedVersionError, got %T", err)
	}
	if !strings.Contains(err.Error(), "missing schema_version") {
		t.Fatalf("expected missing-tag message, got %q", err.Error())
	}
}

func TestParseTagged_NonStringVersionTag(t *testing.T) {
	_, err := ParseTagged([]byte(`{"schema_version": 3}`))
	if err == nil {
		t.Fatalf("expected error")
	}
	var malformed *openabi.MalformedVersionError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedVersionError, got %T", err)
	}
}

func TestParseTagged_UnparsableVersionTag(t *testing.T) {
	_, err := ParseTagged([]byte(`{"schema_version": "three"}`))
	if err == nil {
		t.Fatalf("expected error")
	}
	var malformed *openabi.MalformedVersionError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedVersionError, got %T", err)
	}
	if malformed.Value != "three" {
		t.Fatalf("expected offending value recorded, got %q", malformed.Value)
	}
}

func TestParseTagged_TooNewVersion(t *testing.T) {
	_, err := ParseTagged(minimalDocJSON("99.99.99"))
	if err == nil {
		t.Fatalf("expected error")
	}
	var unsupported *openabi.UnsupportedVersionError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedVersionError, got %T", err)
	}
	if unsupported.OldestSupported != openabi.MinSupportedVersion || unsupported.NewestSupported != openabi.SchemaVersion {
		t.Fatalf("expected the supported range, got %#v", unsupported)
	}
	if !strings.Contains(err.Error(), `newer than "0.3.0"`) {
		t.Fatalf("expected too-new message, got %q", err.Error())
	}
}

func TestParseTagged_TooOldVersion(t *testing.T) {
	_, err := ParseTagged(minimalDocJSON("0.0.1"))
	if err == nil {
		t.Fatalf("expected error")
	}
	var unsupported *openabi.UnsupportedVersionError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedVersionError, got %T", err)
	}
	want := `schema version "0.0.1" is older than "0.1.0", the oldest version accepted here: re-generate the document with a newer toolchain or migrate it forward first`
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestUnmarshal_CurrentDocumentPassesThrough(t *testing.T) {
	in := []byte(`{
  "schema_version": "0.3.0",
  "metadata": {"name": "token"},
  "body": {
    "functions": [{"name": "total", "kind": "view"}],
    "root_schema": {}
  }
}`)
	doc, err := Unmarshal(in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if doc.SchemaVersion != openabi.SchemaVersion {
		t.Fatalf("expected current version, got %q", doc.SchemaVersion)
	}
	if len(doc.Body.Functions) != 1 || doc.Body.Functions[0].Name != "total" {
		t.Fatalf("expected body carried over, got %#v", doc.Body.Functions)
	}
}

func TestDocumentV01_Unmarshal_ParsesFlattenedParameters(t *testing.T) {
	in := []byte(`{
  "schema_version": "0.1.0",
  "metadata": {},
  "body": {
    "functions": [
      {
        "name": "add",
        "is_view": true,
        "params": [
          {"name": "a", "serialization_type": "json", "type_schema": {"type": "integer"}},
          {"name": "pair", "serialization_type": "borsh", "type_schema": {}}
        ]
      }
    ],
    "root_schema": {}
  }
}`)
	var doc DocumentV01
	err := json.Unmarshal(in, &doc)
	if err == nil {
		t.Fatalf("expected error for unknown serialization tag")
	}
	if !strings.Contains(err.Error(), `unknown serialization_type "borsh"`) {
		t.Fatalf("expected tag error, got %q", err.Error())
	}

	in = bytes.Replace(in, []byte(`"borsh"`), []byte(`"binary"`), 1)
	mustParse(t, in, &doc)
	fn := doc.Body.Functions[0]
	if !fn.IsView {
		t.Fatalf("expected is_view kept, got %#v", fn)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 parameters, got %#v", fn.Params)
	}
	if fn.Params[0].Type.Serialization != openabi.SerializationJSON {
		t.Fatalf("expected json tag on first parameter, got %q", fn.Params[0].Type.Serialization)
	}
	if fn.Params[1].Type.Serialization != openabi.SerializationBinary {
		t.Fatalf("expected binary tag on second parameter, got %q", fn.Params[1].Type.Serialization)
	}
}

func TestDocumentV01_Unmarshal_RejectsCurrentShapeFields(t *testing.T) {
	in := []byte(`{
  "schema_version": "0.1.0",
  "metadata": {},
  "body": {
    "functions": [{"name": "add", "kind": "view"}],
    "root_schema": {}
  }
}`)
	var doc DocumentV01
	err := json.Unmarshal(in, &doc)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), `function: unknown field "kind"`) {
		t.Fatalf("expected unknown field error, got %q", err.Error())
	}
}

func TestDocumentV01_Unmarshal_WrongSeriesRejected(t *testing.T) {
	var doc DocumentV01
	err := json.Unmarshal(minimalDocJSON("0.2.0"), &doc)
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := `document: schema_version "0.2.0" is not a 0.1 document`; err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestDocumentV02_Unmarshal_ParamsDefaultToEmptyJSONList(t *testing.T) {
	in := []byte(`{
  "schema_version": "0.2.0",
  "metadata": {},
  "body": {
    "functions": [{"name": "total", "is_view": true}],
    "root_schema": {}
  }
}`)
	var doc DocumentV02
	mustParse(t, in, &doc)
	params := doc.Body.Functions[0].Params
	if params.Serialization != openabi.SerializationJSON || !params.IsEmpty() {
		t.Fatalf("expected empty json default, got %#v", params)
	}
}

func TestParameterV01_MarshalFlattensTaggedType(t *testing.T) {
	p := ParameterV01{
		Name: "amount",
		Type: openabi.JSONType(openabi.Schema{"type": "string"}),
	}
	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if m["name"] != "amount" || m["serialization_type"] != "json" {
		t.Fatalf("expected flattened wire shape, got %#v", m)
	}
	if _, ok := m["type_schema"]; !ok {
		t.Fatalf("expected type_schema key, got %#v", m)
	}
}

func TestDecode_ReadsFromReader(t *testing.T) {
	doc, err := Decode(bytes.NewReader(minimalDocJSON("0.1.0")))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if doc.SchemaVersion != openabi.SchemaVersion {
		t.Fatalf("expected migrated version, got %q", doc.SchemaVersion)
	}
}

func mustParse[T any](t *testing.T, b []byte, v *T) {
	t.Helper()
	if err := json.Unmarshal(b, v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
}
