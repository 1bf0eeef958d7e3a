// Package ident generates random identifiers for the {uuid} variable and
// temporary file names.
package ident

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// NewUUID returns a random version 4 UUID in its canonical 36 character form.
// If the system random source fails it logs a warning and returns FallbackUUID.
func NewUUID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		slog.Warn("secure random source unavailable, using fallback uuid", "error", err)
		return FallbackUUID()
	}
	return id.String()
}

// FallbackUUID returns a version 4 shaped UUID from a time-seeded generator.
// It is NOT cryptographically secure and only guarantees the format.
func FallbackUUID() string {
	seed := uint64(time.Now().UnixNano())
	r := rand.New(rand.NewPCG(seed, seed>>1|1))

	var b [16]byte
	for i := range b {
		b[i] = byte(r.Uint32())
	}
	b[6] = b[6]&0x0f | 0x40 // version 4
	b[8] = b[8]&0x3f | 0x80 // RFC 4122 variant

	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
