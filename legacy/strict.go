package legacy

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/blang/semver/v4"

	openabi "github.com/openabi/openabi-go"
)

// knownSet builds a map for constant-time known-field checks in strict unmarshaling.
func knownSet(keys ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		out[k] = struct{}{}
	}
	return out
}

// rejectUnknown reports every field of raw that is not in known. Historical
// shapes are as closed as the current one: an unrecognised field is a parse
// error, and the error names all offenders at once.
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

// ensureVersionSeries checks that tag is a well-formed version naming the
// major.minor series a shape belongs to. The patch level is not inspected.
func ensureVersionSeries(what, tag string, major, minor uint64) error {
	v, err := semver.Parse(tag)
	if err != nil {
		return &openabi.MalformedVersionError{Value: tag, Err: err}
	}
	if v.Major != major || v.Minor != minor {
		return fmt.Errorf("%s: schema_version %q is not a %d.%d document", what, tag, major, minor)
	}
	return nil
}
