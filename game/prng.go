package game

import (
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"strconv"
	"time"
)

// Source is the randomness a simulator draws from. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSeededRNG derives a deterministic generator from an arbitrary string seed.
func NewSeededRNG(seed string) *rand.Rand {
	hash := sha256.Sum256([]byte(seed))
	seedInt := int64(binary.BigEndian.Uint64(hash[:8]))
	return rand.New(rand.NewSource(seedInt))
}

// NewRNG returns a generator for runs that never need replaying.
func NewRNG() *rand.Rand {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(int64(binary.BigEndian.Uint64(b[:]))))
}

// PlayerSeed is the per-player seed derived from a match's server seed.
func PlayerSeed(serverSeed string, player int) string {
	return serverSeed + "-player-" + strconv.Itoa(player)
}
