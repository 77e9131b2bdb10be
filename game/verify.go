package game

import (
	"errors"

	"coinTossServer/crypto"
)

// ErrSeedMismatch means a revealed server seed does not hash to its commitment.
var ErrSeedMismatch = errors.New("server seed does not match commitment")

// VerifyMatch checks the seed against the hash published before the match
// and replays the match from it. Anyone holding the seed and config can
// reproduce every histogram and the winner.
func VerifyMatch(serverSeed, seedHash string, cfg MatchConfig) (MatchResult, error) {
	if !crypto.VerifySeed(serverSeed, seedHash) {
		return MatchResult{}, ErrSeedMismatch
	}
	return PlayMatch(cfg, serverSeed)
}
