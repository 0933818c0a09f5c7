package markdown

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash returns a short stable fingerprint of text, used only to
// pick apart filename collisions within one run.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:4])
}
