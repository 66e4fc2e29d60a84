package openabi

import (
	"strings"
	"testing"
)

func validDocument() Document {
	return Document{
		SchemaVersion: SchemaVersion,
		Metadata:      Metadata{Name: "adder", Version: "1.0.0"},
		Body: Body{
			Functions: []Function{
				{
					Name: "add",
					Doc:  "Adds two pairs.",
					Kind: FunctionKindView,
					Params: Parameters{
						Serialization: SerializationJSON,
						JSON: []JSONParameter{
							{Name: "a", TypeSchema: Schema{"$ref": "#/definitions/Pair"}},
						},
					},
					Result: &TypeSchema{Serialization: SerializationJSON, JSON: Schema{"$ref": "#/definitions/Pair"}},
				},
			},
			RootSchema: sampleCatalog(),
		},
	}
}

func TestDocumentValidate_ValidDocumentPasses(t *testing.T) {
	doc := validDocument()
	if err := doc.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestDocumentValidate_ZeroValueFails(t *testing.T) {
	err := (Document{}).Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if !containsProblem(err, "schema_version: required") {
		t.Fatalf("expected version problem, got %v", err)
	}
}

func TestDocumentValidate_VersionMustBeCurrent(t *testing.T) {
	doc := validDocument()
	doc.SchemaVersion = "0.1.0"
	err := doc.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "schema_version: ") {
		t.Fatalf("expected version problem, got %v", err)
	}
}

func TestDocumentValidate_MetadataOptionalByDefault(t *testing.T) {
	doc := validDocument()
	doc.Metadata = Metadata{}
	if err := doc.Validate(); err != nil {
		t.Fatalf("expected no error (metadata optional by default), got %v", err)
	}
}

func TestDocumentValidate_MetadataRequiredWhenOpted(t *testing.T) {
	doc := validDocument()
	doc.Metadata = Metadata{}
	err := doc.Validate(WithRequireMetadata())
	if err == nil {
		t.Fatalf("expected error when requiring metadata")
	}
	if !containsProblem(err, "metadata.name: required") || !containsProblem(err, "metadata.version: required") {
		t.Fatalf("expected metadata problems, got %v", err)
	}
}

func TestDocumentValidate_FunctionDocsRequiredWhenOpted(t *testing.T) {
	doc := validDocument()
	doc.Body.Functions[0].Doc = ""
	if err := doc.Validate(); err != nil {
		t.Fatalf("expected no error (docs optional by default), got %v", err)
	}
	err := doc.Validate(WithRequireFunctionDocs())
	if err == nil {
		t.Fatalf("expected error when requiring docs")
	}
	if !containsProblem(err, "functions[0].doc: required") {
		t.Fatalf("expected doc problem, got %v", err)
	}
}

func TestDocumentValidate_BuildInfoMustBeComplete(t *testing.T) {
	doc := validDocument()
	doc.Metadata.Build = &BuildInfo{Compiler: "rustc 1.76.0"}
	err := doc.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !containsProblem(err, "metadata.build.builder: required") {
		t.Fatalf("expected builder problem, got %v", err)
	}
}

func TestDocumentValidate_WasmHashMustBeBase58(t *testing.T) {
	doc := validDocument()
	doc.Metadata.WasmHash = "0OIl"
	err := doc.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "metadata.wasm_hash: not valid Base58") {
		t.Fatalf("expected base58 problem, got %v", err)
	}
}

func TestDocumentValidate_WasmHashMustBeSHA256Sized(t *testing.T) {
	doc := validDocument()
	doc.Metadata.WasmHash = "abc"
	err := doc.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !containsProblem(err, "metadata.wasm_hash: decodes to 3 bytes, want 32") {
		t.Fatalf("expected length problem, got %v", err)
	}
}

func TestDocumentValidate_AcceptsConventionalWasmHash(t *testing.T) {
	doc := validDocument()
	doc.Metadata.WasmHash = WasmHash([]byte("\x00asm\x01\x00\x00\x00"))
	if err := doc.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestDocumentValidate_FunctionNameRequired(t *testing.T) {
	doc := validDocument()
	doc.Body.Functions[0].Name = ""
	err := doc.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !containsProblem(err, "functions[0].name: required") {
		t.Fatalf("expected name problem, got %v", err)
	}
}

func TestDocumentValidate_KindMustBeKnown(t *testing.T) {
	doc := validDocument()
	doc.Body.Functions[0].Kind = "mutate"
	err := doc.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !containsProblem(err, `functions[0].kind: must be "view" or "call"`) {
		t.Fatalf("expected kind problem, got %v", err)
	}
}

func TestDocumentValidate_ModifiersMustBeKnownAndUnique(t *testing.T) {
	doc := validDocument()
	doc.Body.Functions[0].Modifiers = []FunctionModifier{
		FunctionModifierPayable, "owner", FunctionModifierPayable,
	}
	err := doc.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !containsProblem(err, `functions[0].modifiers: unknown modifier "owner"`) {
		t.Fatalf("expected unknown modifier problem, got %v", err)
	}
	if !containsProblem(err, `functions[0].modifiers: duplicate "payable"`) {
		t.Fatalf("expected duplicate modifier problem, got %v", err)
	}
}

func TestDocumentValidate_ParameterNamesRequired(t *testing.T) {
	doc := validDocument()
	doc.Body.Functions[0].Params.JSON[0].Name = ""
	err := doc.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !containsProblem(err, "functions[0].params.args[0].name: required") {
		t.Fatalf("expected parameter name problem, got %v", err)
	}
}

func TestDocumentValidate_CrossClassMembersFlagged(t *testing.T) {
	doc := validDocument()
	doc.Body.Functions[0].Params = Parameters{
		Serialization: SerializationJSON,
		Binary:        []BinaryParameter{{Name: "pair", TypeSchema: LayoutSchema{"declaration": "Pair"}}},
	}
	err := doc.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !containsProblem(err, "functions[0].params: binary members on a json-serialized list") {
		t.Fatalf("expected cross-class problem, got %v", err)
	}
}

func TestDocumentValidate_TypeSchemaPayloadMustMatchTag(t *testing.T) {
	doc := validDocument()
	doc.Body.Functions[0].Result = &TypeSchema{
		Serialization: SerializationJSON,
		Binary:        LayoutSchema{"declaration": "u32"},
	}
	err := doc.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !containsProblem(err, "functions[0].result: binary descriptor on a json-serialized type") {
		t.Fatalf("expected payload mismatch problem, got %v", err)
	}
}

func TestValidationError_MessageJoinsProblems(t *testing.T) {
	err := &ValidationError{Problems: []string{"a: required", "b: required"}}
	if want := "invalid document: a: required; b: required"; err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
	var empty *ValidationError
	if empty.Error() != "invalid document" {
		t.Fatalf("expected fallback message, got %q", empty.Error())
	}
}

func containsProblem(err error, want string) bool {
	ve, ok := err.(*ValidationError)
	if !ok {
		return false
	}
	for _, p := range ve.Problems {
		if p == want {
			return true
		}
	}
	return false
}
