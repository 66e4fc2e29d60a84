package legacy

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/blang/semver/v4"

	openabi "github.com/openabi/openabi-go"
)

// Schema versions whose document shapes this package parses, alongside the
// current one. A tag selects a shape by major.minor; the patch level is
// ignored.
const (
	// SchemaVersionV01 is the oldest supported version: flat invocation
	// booleans and ungrouped, per-parameter tagged lists.
	SchemaVersionV01 = "0.1.0"
	// SchemaVersionV02 grouped parameter lists by serialization class but
	// kept the flat invocation booleans.
	SchemaVersionV02 = "0.2.0"
)

var currentVersion = semver.MustParse(openabi.SchemaVersion)

// VersionedDocument is a parsed document in whichever supported shape its
// version tag selected. Exactly one field is set.
type VersionedDocument struct {
	V01     *DocumentV01
	V02     *DocumentV02
	Current *openabi.Document
}

// SchemaVersion returns the parsed document's version tag, or "" for the
// zero value.
func (v VersionedDocument) SchemaVersion() string {
	switch {
	case v.V01 != nil:
		return v.V01.SchemaVersion
	case v.V02 != nil:
		return v.V02.SchemaVersion
	case v.Current != nil:
		return v.Current.SchemaVersion
	}
	return ""
}

// Migrate upgrades the document to the current shape, applying each
// migration step in order. Current-shape documents are returned as-is.
func (v VersionedDocument) Migrate() (*openabi.Document, error) {
	switch {
	case v.Current != nil:
		return v.Current, nil
	case v.V02 != nil:
		return v.V02.Migrate(), nil
	case v.V01 != nil:
		v02, err := v.V01.Migrate()
		if err != nil {
			return nil, err
		}
		return v02.Migrate(), nil
	}
	return nil, errors.New("empty versioned document")
}

// ParseTagged reads the document's schema_version tag and parses the body
// in the shape that version selects, without migrating.
//
// A missing or non-string tag, or one that is not a MAJOR.MINOR.PATCH
// version, fails with openabi.MalformedVersionError. A well-formed tag
// outside the supported range fails with openabi.UnsupportedVersionError
// naming the range.
func ParseTagged(data []byte) (VersionedDocument, error) {
	var probe struct {
		SchemaVersion json.RawMessage `json:"schema_version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return VersionedDocument{}, err
	}
	if probe.SchemaVersion == nil {
		return VersionedDocument{}, &openabi.MalformedVersionError{
			Err: errors.New("missing schema_version field"),
		}
	}
	var tag string
	if err := json.Unmarshal(probe.SchemaVersion, &tag); err != nil {
		return VersionedDocument{}, &openabi.MalformedVersionError{Err: err}
	}
	v, err := semver.Parse(tag)
	if err != nil {
		return VersionedDocument{}, &openabi.MalformedVersionError{Value: tag, Err: err}
	}

	switch {
	case v.Major == 0 && v.Minor == 1:
		var d DocumentV01
		if err := json.Unmarshal(data, &d); err != nil {
			return VersionedDocument{}, err
		}
		return VersionedDocument{V01: &d}, nil
	case v.Major == 0 && v.Minor == 2:
		var d DocumentV02
		if err := json.Unmarshal(data, &d); err != nil {
			return VersionedDocument{}, err
		}
		return VersionedDocument{V02: &d}, nil
	case v.Major == currentVersion.Major && v.Minor == currentVersion.Minor:
		var d openabi.Document
		if err := json.Unmarshal(data, &d); err != nil {
			return VersionedDocument{}, err
		}
		return VersionedDocument{Current: &d}, nil
	}

	oldest, newest := openabi.SupportedRange()
	return VersionedDocument{}, &openabi.UnsupportedVersionError{
		Requested:       tag,
		OldestSupported: oldest,
		NewestSupported: newest,
	}
}

// Unmarshal parses a document in any supported shape and migrates it to the
// current one.
func Unmarshal(data []byte) (*openabi.Document, error) {
	parsed, err := ParseTagged(data)
	if err != nil {
		return nil, err
	}
	return parsed.Migrate()
}

// Decode reads all of r and parses it like Unmarshal.
func Decode(r io.Reader) (*openabi.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}
