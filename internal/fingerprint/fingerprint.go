// Package fingerprint derives the opaque unique_id strings attached to users
// and teams. A fingerprint is a non-reversible hash of the entity's key field
// mixed with creation-time entropy; it is regenerated whenever the key field
// changes and is not stable across renames.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// New derives a fingerprint from the given key (a user's email or a team's
// namespace). Two calls with the same key produce different fingerprints.
func New(key string) string {
	salt := strconv.FormatInt(time.Now().UnixNano(), 10)
	sum := sha256.Sum256([]byte(key + salt))
	return hex.EncodeToString(sum[:])
}
