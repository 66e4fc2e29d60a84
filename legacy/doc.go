// Package legacy parses ABI documents in every supported schema version and
// migrates them to the current shape.
//
// The root openabi package only accepts current-version documents. Tooling
// that must read whatever a contract registry hands it goes through this
// package instead:
//
//	doc, err := legacy.Unmarshal(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// doc is a current-shape *openabi.Document regardless of the input
//	// version.
//
// # Version Dispatch
//
// The schema_version tag selects the document shape by its major.minor
// pair; the patch level is ignored, so "0.1.7" parses as a 0.1 document.
// A missing, non-string or unparsable tag fails with
// openabi.MalformedVersionError. A well-formed tag outside the supported
// range fails with openabi.UnsupportedVersionError, which says whether the
// document is too new for this library or old enough to need a newer
// toolchain.
//
// # Migration Steps
//
// Migration runs shape-to-shape, one step per version gap:
//
//   - 0.1 to 0.2 groups each function's per-parameter tagged list into a
//     single-class list. A function mixing serialization classes cannot be
//     grouped and fails with openabi.MixedSerializationError.
//   - 0.2 to current folds the four invocation booleans into a kind plus a
//     modifier list.
//
// Steps only reshape function descriptors. Metadata and the type catalog
// pass through every step untouched.
//
// ParseTagged exposes the un-migrated shapes for tooling that needs to
// inspect a document as written, such as version-aware diffing.
package legacy
