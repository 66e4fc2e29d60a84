package openabi

import (
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

type validateOptions struct {
	requireMetadata     bool
	requireFunctionDocs bool
}

// ValidateOption configures Document.Validate.
type ValidateOption func(*validateOptions)

// WithRequireMetadata requires metadata.name and metadata.version to be set.
// By default metadata is optional; generators for bare contracts emit none.
func WithRequireMetadata() ValidateOption {
	return func(o *validateOptions) { o.requireMetadata = true }
}

// WithRequireFunctionDocs requires every function to carry a doc string.
func WithRequireFunctionDocs() ValidateOption {
	return func(o *validateOptions) { o.requireFunctionDocs = true }
}

// Validate performs shape-level checks useful for tooling correctness.
// It is intentionally not full JSON Schema validation; the metaschema
// subpackage covers raw-bytes validation against the published schema.
func (d Document) Validate(opts ...ValidateOption) error {
	o := validateOptions{
		requireMetadata:     false,
		requireFunctionDocs: false,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	var errs []string

	if strings.TrimSpace(d.SchemaVersion) == "" {
		errs = append(errs, "schema_version: required")
	} else if err := ensureCurrentVersion(d.SchemaVersion); err != nil {
		errs = append(errs, fmt.Sprintf("schema_version: %v", err))
	}

	if o.requireMetadata {
		if strings.TrimSpace(d.Metadata.Name) == "" {
			errs = append(errs, "metadata.name: required")
		}
		if strings.TrimSpace(d.Metadata.Version) == "" {
			errs = append(errs, "metadata.version: required")
		}
	}
	if b := d.Metadata.Build; b != nil {
		if strings.TrimSpace(b.Compiler) == "" {
			errs = append(errs, "metadata.build.compiler: required")
		}
		if strings.TrimSpace(b.Builder) == "" {
			errs = append(errs, "metadata.build.builder: required")
		}
	}
	if h := d.Metadata.WasmHash; h != "" {
		if raw, err := base58.Decode(h); err != nil {
			errs = append(errs, fmt.Sprintf("metadata.wasm_hash: not valid Base58: %v", err))
		} else if len(raw) != 32 {
			errs = append(errs, fmt.Sprintf("metadata.wasm_hash: decodes to %d bytes, want 32", len(raw)))
		}
	}

	for idx, fn := range d.Body.Functions {
		validateFunction(&errs, fmt.Sprintf("functions[%d]", idx), fn, o)
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Problems: errs}
}

func validateFunction(errs *[]string, prefix string, fn Function, o validateOptions) {
	if strings.TrimSpace(fn.Name) == "" {
		*errs = append(*errs, prefix+".name: required")
	}
	switch fn.Kind {
	case FunctionKindView, FunctionKindCall:
		// ok
	default:
		*errs = append(*errs, fmt.Sprintf("%s.kind: must be %q or %q", prefix, FunctionKindView, FunctionKindCall))
	}
	if o.requireFunctionDocs && strings.TrimSpace(fn.Doc) == "" {
		*errs = append(*errs, prefix+".doc: required")
	}

	seen := map[FunctionModifier]struct{}{}
	for _, m := range fn.Modifiers {
		switch m {
		case FunctionModifierInit, FunctionModifierPrivate, FunctionModifierPayable:
			// ok
		default:
			*errs = append(*errs, fmt.Sprintf("%s.modifiers: unknown modifier %q", prefix, m))
			continue
		}
		if _, dup := seen[m]; dup {
			*errs = append(*errs, fmt.Sprintf("%s.modifiers: duplicate %q", prefix, m))
		}
		seen[m] = struct{}{}
	}

	validateParameters(errs, prefix+".params", fn.Params)

	for ci, cb := range fn.Callbacks {
		validateTypeSchema(errs, fmt.Sprintf("%s.callbacks[%d]", prefix, ci), cb)
	}
	if fn.CallbacksVec != nil {
		validateTypeSchema(errs, prefix+".callbacks_vec", *fn.CallbacksVec)
	}
	if fn.Result != nil {
		validateTypeSchema(errs, prefix+".result", *fn.Result)
	}
}

func validateParameters(errs *[]string, prefix string, p Parameters) {
	switch p.Serialization {
	case SerializationJSON, "":
		if len(p.Binary) > 0 {
			*errs = append(*errs, fmt.Sprintf("%s: binary members on a %s-serialized list", prefix, SerializationJSON))
		}
		for i, arg := range p.JSON {
			if strings.TrimSpace(arg.Name) == "" {
				*errs = append(*errs, fmt.Sprintf("%s.args[%d].name: required", prefix, i))
			}
		}
	case SerializationBinary:
		if len(p.JSON) > 0 {
			*errs = append(*errs, fmt.Sprintf("%s: json members on a %s-serialized list", prefix, SerializationBinary))
		}
		for i, arg := range p.Binary {
			if strings.TrimSpace(arg.Name) == "" {
				*errs = append(*errs, fmt.Sprintf("%s.args[%d].name: required", prefix, i))
			}
		}
	default:
		*errs = append(*errs, fmt.Sprintf("%s.serialization_type: must be %q or %q", prefix, SerializationJSON, SerializationBinary))
	}
}

func validateTypeSchema(errs *[]string, prefix string, t TypeSchema) {
	switch t.Serialization {
	case SerializationJSON:
		if t.Binary != nil {
			*errs = append(*errs, fmt.Sprintf("%s: binary descriptor on a %s-serialized type", prefix, SerializationJSON))
		}
	case SerializationBinary:
		if t.JSON != nil {
			*errs = append(*errs, fmt.Sprintf("%s: json descriptor on a %s-serialized type", prefix, SerializationBinary))
		}
	default:
		*errs = append(*errs, fmt.Sprintf("%s.serialization_type: must be %q or %q", prefix, SerializationJSON, SerializationBinary))
	}
}

// ValidationError is a deterministic, multi-problem validation error.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Problems) == 0 {
		return "invalid document"
	}
	return "invalid document: " + strings.Join(e.Problems, "; ")
}
