package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// questionIDBytes is how many hash bytes make up an id. 12 bytes of
// SHA-256 keeps ids short while leaving collisions implausible.
const questionIDBytes = 12

// QuestionID derives a deterministic id from question text. The same
// text always yields the same id, which makes re-indexing an
// idempotent upsert.
func QuestionID(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "q" + hex.EncodeToString(sum[:questionIDBytes])
}
