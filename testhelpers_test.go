package openabi

import (
	"encoding/json"
	"testing"
)

func mustUnmarshalJSON[T any](t *testing.T, b []byte, v *T) {
	t.Helper()
	if err := json.Unmarshal(b, v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
}

func mustMarshalJSON(t *testing.T, v any) []byte {
	t.Helper()
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return out
}

func mustUnmarshalToMap(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	return m
}

// assertSameJSON fails unless in and out decode to the same JSON value.
func assertSameJSON(t *testing.T, in, out []byte) {
	t.Helper()
	if !jsonValueEqual(in, out) {
		t.Fatalf("JSON values differ\n in: %s\nout: %s", in, out)
	}
}

// sampleCatalog returns a small two-definition type catalog as generators
// emit it.
func sampleCatalog() RootSchema {
	return RootSchema{
		Definitions: map[string]Schema{
			"AccountId": {"type": "string"},
			"Balance":   {"type": "string", "pattern": "^[0-9]+$"},
		},
		Extra: map[string]json.RawMessage{
			"$schema": json.RawMessage(`"http://json-schema.org/draft-07/schema#"`),
		},
	}
}
