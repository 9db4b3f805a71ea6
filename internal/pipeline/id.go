package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewID returns a short unique job identifier with a readable prefix.
func NewID(prefix string) string {
	var b [4]byte
	rand.Read(b[:])
	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(b[:]))
}
