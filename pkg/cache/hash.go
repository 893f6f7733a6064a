package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex-encoded SHA-256 digest of data. Content digests
// identify documents, DOT sources and archived formulas, so the full
// 64-character form is kept rather than a truncated one.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashString is Hash for string inputs. Documents and diagram sources are
// assembled as strings, so most call sites use this form.
func HashString(s string) string {
	return Hash([]byte(s))
}

// hashKey builds a namespaced key of the form "kind:digest". Parts are
// serialized as JSON before hashing so option structs contribute every
// field to the key.
func hashKey(kind string, parts ...any) string {
	blob, _ := json.Marshal(parts)
	return kind + ":" + Hash(blob)
}
