package openabi

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"
)

// WasmHash returns the conventional digest encoding for Metadata.WasmHash:
// the Base58 encoding of the SHA-256 of the contract binary.
func WasmHash(code []byte) string {
	sum := sha256.Sum256(code)
	return base58.Encode(sum[:])
}
