package openabi

import (
	"fmt"

	"github.com/blang/semver/v4"
)

// Schema versions of the document format itself (distinct from any type
// described inside a document).
//
// SchemaVersion is the current format version: the only version this package
// parses directly and the version every constructor stamps onto new values.
// MinSupportedVersion is the oldest historical format the legacy package can
// still migrate forward.
const (
	SchemaVersion       = "0.3.0"
	MinSupportedVersion = "0.1.0"
)

// SupportedRange returns the oldest and newest schema versions this library understands.
func SupportedRange() (oldest, newest string) {
	return MinSupportedVersion, SchemaVersion
}

var (
	currentSemver      semver.Version
	minSupportedSemver semver.Version
)

func init() {
	var err error
	currentSemver, err = semver.Parse(SchemaVersion)
	if err != nil {
		panic(fmt.Sprintf("openabi: invalid SchemaVersion %q: %v", SchemaVersion, err))
	}
	minSupportedSemver, err = semver.Parse(MinSupportedVersion)
	if err != nil {
		panic(fmt.Sprintf("openabi: invalid MinSupportedVersion %q: %v", MinSupportedVersion, err))
	}
	if minSupportedSemver.GT(currentSemver) {
		panic(fmt.Sprintf("openabi: MinSupportedVersion %q is newer than SchemaVersion %q", MinSupportedVersion, SchemaVersion))
	}
}

// ensureCurrentVersion checks that v names the current schema version.
// Matching is on major.minor only: patch revisions must stay additive and
// backward-readable, so they are accepted here.
func ensureCurrentVersion(v string) error {
	parsed, err := semver.Parse(v)
	if err != nil {
		return &MalformedVersionError{Value: v, Err: err}
	}
	if parsed.Major != currentSemver.Major || parsed.Minor != currentSemver.Minor {
		return &UnsupportedVersionError{
			Requested:       v,
			OldestSupported: SchemaVersion,
			NewestSupported: SchemaVersion,
		}
	}
	return nil
}

// MalformedVersionError reports a schema_version field that is missing, not a
// string, or not valid semver.
type MalformedVersionError struct {
	// Value is the offending version string. Empty when the field was missing
	// or not a string at all.
	Value string
	Err   error
}

func (e *MalformedVersionError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("malformed schema_version: %v", e.Err)
	}
	return fmt.Sprintf("malformed schema_version %q: %v", e.Value, e.Err)
}

func (e *MalformedVersionError) Unwrap() error { return e.Err }

// UnsupportedVersionError reports a well-formed schema_version whose
// major.minor falls outside what the rejecting consumer accepts. The bounds
// name that consumer's range: the current-version parser accepts exactly
// SchemaVersion, the legacy dispatcher accepts everything in SupportedRange.
type UnsupportedVersionError struct {
	Requested       string
	OldestSupported string
	NewestSupported string
}

func (e *UnsupportedVersionError) Error() string {
	if req, err := semver.Parse(e.Requested); err == nil {
		if newest, err := semver.Parse(e.NewestSupported); err == nil && req.GT(newest) {
			return fmt.Sprintf("schema version %q is newer than %q, the newest version this library understands: upgrade the library to read this document",
				e.Requested, e.NewestSupported)
		}
	}
	return fmt.Sprintf("schema version %q is older than %q, the oldest version accepted here: re-generate the document with a newer toolchain or migrate it forward first",
		e.Requested, e.OldestSupported)
}
