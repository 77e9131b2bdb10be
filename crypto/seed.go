package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateServerSeed returns a fresh hex seed and its SHA-256 commitment.
func GenerateServerSeed() (seed string, hash string, err error) {
	bytes := make([]byte, 32)
	if _, err = rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("failed to read random seed: %w", err)
	}

	seed = hex.EncodeToString(bytes)
	hash = HashSeed(seed)

	return
}

// HashSeed returns the hex SHA-256 of seed.
func HashSeed(seed string) string {
	h := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(h[:])
}

func VerifySeed(seed, hash string) bool {
	return HashSeed(seed) == hash
}
