package keygen

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
)

// SaltLength is the number of random bytes drawn for each verification key.
const SaltLength = 32

// Provider produces the raw material for verification keys. GenerateSalt must
// draw from a cryptographically secure source; Hash is a deterministic one-way
// function over the salt.
type Provider interface {
	GenerateSalt() ([]byte, error)
	Hash(data []byte) []byte
}

// DefaultProvider implements Provider using crypto/rand and SHA-256.
type DefaultProvider struct{}

// NewDefaultProvider creates a new default crypto provider.
func NewDefaultProvider() *DefaultProvider {
	return &DefaultProvider{}
}

// GenerateSalt returns a fresh random salt of SaltLength bytes.
func (p *DefaultProvider) GenerateSalt() ([]byte, error) {
	b := make([]byte, SaltLength)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to read random source: %w", err)
	}
	return b, nil
}

// Hash returns the SHA-256 digest of data.
func (p *DefaultProvider) Hash(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}
