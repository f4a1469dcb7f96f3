package assetstore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// DeriveKey computes the cache fingerprint for a primitive request.
//
// Params are serialized as compact JSON; encoding/json writes map keys in
// sorted order, so insertion order never affects the result. The three parts
// are joined with newlines, which compact JSON output cannot contain, so
// concatenation cannot collide. The fingerprint is the hex SHA-256 of the
// joined string. Pure function: safe for concurrent use.
func DeriveKey(tag string, params map[string]any, version string) (string, error) {
	canonical := []byte("{}")
	if len(params) > 0 {
		var err error
		canonical, err = json.Marshal(params)
		if err != nil {
			return "", fmt.Errorf("assetstore: canonicalize params: %w", err)
		}
	}

	tag = strings.TrimSpace(tag)
	raw := tag + "\n" + string(canonical) + "\n" + version

	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:]), nil
}
