package openabi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// knownSet builds a map for constant-time known-field checks in strict unmarshaling.
func knownSet(keys ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		out[k] = struct{}{}
	}
	return out
}

// rejectUnknown reports every field of raw that is not in known. The document
// format is closed: an unrecognised field is a parse error, not a
// forward-compatibility surface, so the error names all offenders at once.
func rejectUnknown(what string, raw map[string]json.RawMessage, known map[string]struct{}) error {
	var unknown []string
	for k := range raw {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	if len(unknown) == 1 {
		return fmt.Errorf("%s: unknown field %q", what, unknown[0])
	}
	return fmt.Errorf("%s: unknown fields %s", what, quotedList(unknown))
}

// requireFields reports every required field missing from raw.
func requireFields(what string, raw map[string]json.RawMessage, names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := raw[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if len(missing) == 1 {
		return fmt.Errorf("%s: missing required field %q", what, missing[0])
	}
	return fmt.Errorf("%s: missing required fields %s", what, quotedList(missing))
}

func quotedList(keys []string) string {
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = fmt.Sprintf("%q", k)
	}
	return strings.Join(quoted, ", ")
}

// marshalWithExtras merges free-form string extras with the typed view such
// that typed fields win on collision.
func marshalWithExtras(typed any, extras map[string]string, known map[string]struct{}) ([]byte, error) {
	out := make(map[string]json.RawMessage, len(extras))
	for k, v := range extras {
		if _, ok := known[k]; ok {
			continue
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out[k] = vb
	}

	knownBytes, err := json.Marshal(typed)
	if err != nil {
		return nil, err
	}
	var typedFields map[string]json.RawMessage
	if err := json.Unmarshal(knownBytes, &typedFields); err != nil {
		return nil, err
	}
	for k, v := range typedFields {
		out[k] = v
	}

	return json.Marshal(out)
}

// jsonValueEqual compares two raw JSON fragments by decoded value, so key
// order and whitespace differences do not matter.
func jsonValueEqual(a, b json.RawMessage) bool {
	var av, bv any
	if err := json.Unmarshal(a, &av); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bv); err != nil {
		return false
	}
	return deepEqualJSON(av, bv)
}

func deepEqualJSON(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !deepEqualJSON(v, bvv) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepEqualJSON(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func cloneJSONMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneJSONValue(v)
	}
	return out
}

func cloneJSONValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneJSONMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneJSONValue(e)
		}
		return out
	default:
		return x
	}
}
