package service

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultTokenSize matches the canonical nanoid length (~126 bits of entropy).
const DefaultTokenSize = 21

// IdentifierGenerator produces unguessable webhook tokens. Uniqueness is the
// caller's concern.
type IdentifierGenerator interface {
	Generate() (string, error)
}

// NanoIDGenerator emits URL-safe nanoid tokens from crypto/rand.
type NanoIDGenerator struct {
	Size int
}

// NewNanoIDGenerator returns a generator producing DefaultTokenSize tokens.
func NewNanoIDGenerator() *NanoIDGenerator {
	return &NanoIDGenerator{Size: DefaultTokenSize}
}

// Generate returns a new token such as "Uakgb_J5m9g-0JDMbcJqLJ".
func (g *NanoIDGenerator) Generate() (string, error) {
	size := g.Size
	if size <= 0 {
		size = DefaultTokenSize
	}
	return gonanoid.New(size)
}
