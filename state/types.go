package state

import (
	"sync"
	"time"

	"coinTossServer/game"
)

// ==============================================================================
// MATCH COMMITMENTS
// ==============================================================================
//
// Only the inputs of a match are kept: the revealed seed and the config are
// enough to replay every histogram and the winner. Trial data is never stored.
//
// ==============================================================================

// MatchCommitment records how to reproduce a played match.
type MatchCommitment struct {
	MatchID        string           `json:"matchId"`
	ServerSeed     string           `json:"serverSeed"`
	ServerSeedHash string           `json:"serverSeedHash"`
	Config         game.MatchConfig `json:"config"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// ==============================================================================
// RECENT MATCHES
// ==============================================================================

type MatchHistory struct {
	mu      sync.RWMutex
	matches []MatchCommitment
	maxSize int
}

func NewMatchHistory(maxSize int) *MatchHistory {
	if maxSize < 1 {
		maxSize = 1
	}
	return &MatchHistory{
		matches: make([]MatchCommitment, 0, maxSize),
		maxSize: maxSize,
	}
}

// Add appends a commitment, dropping the oldest once full.
func (h *MatchHistory) Add(m MatchCommitment) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.matches = append(h.matches, m)
	if len(h.matches) > h.maxSize {
		h.matches = h.matches[1:]
	}
}

// Get returns the commitment for matchID, if still held.
func (h *MatchHistory) Get(matchID string) (MatchCommitment, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := len(h.matches) - 1; i >= 0; i-- {
		if h.matches[i].MatchID == matchID {
			return h.matches[i], true
		}
	}
	return MatchCommitment{}, false
}

// Recent returns a copy of the held commitments, oldest first.
func (h *MatchHistory) Recent() []MatchCommitment {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]MatchCommitment, len(h.matches))
	copy(out, h.matches)
	return out
}

func (h *MatchHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.matches)
}
