// Package match plays two-player matches on behalf of the HTTP and
// WebSocket front ends and records the commitment needed to verify them.
package match

import (
	"context"
	"slices"
	"sync"
	"time"

	"coinTossServer/config"
	"coinTossServer/crypto"
	"coinTossServer/db"
	"coinTossServer/game"
	"coinTossServer/state"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Request is a match as submitted by a front end. Zero optional fields
// take the service defaults.
type Request struct {
	TrialCount int    `json:"trialCount"`
	Endgame1   string `json:"endgame1"`
	Endgame2   string `json:"endgame2"`
	BinCount   int    `json:"binCount,omitempty"`
	TieBreak   string `json:"tieBreak,omitempty"`
}

// Defaults are the settings applied to requests that leave them out.
type Defaults struct {
	TieBreak game.TieBreak
	BinCount int
	MaxDraws int
}

// DefaultsFrom extracts match defaults from loaded settings.
func DefaultsFrom(s config.Settings) Defaults {
	return Defaults{TieBreak: s.TieBreak, BinCount: s.BinCount, MaxDraws: s.MaxDraws}
}

// Service plays and records matches. It is safe for concurrent use; every
// call to Play builds its own simulators.
type Service struct {
	defaults Defaults
	history  *state.MatchHistory

	mu        sync.RWMutex
	listeners []func(state.MatchCommitment)

	// storeTimeout bounds the background storage writes
	storeTimeout time.Duration
}

func NewService(defaults Defaults, history *state.MatchHistory) *Service {
	if defaults.BinCount <= 0 {
		defaults.BinCount = game.DefaultBinCount
	}
	if defaults.TieBreak == "" {
		defaults.TieBreak = game.FewerTosses
	}
	if history == nil {
		history = state.NewMatchHistory(config.MaxMatchHistory)
	}
	return &Service{
		defaults:     defaults,
		history:      history,
		storeTimeout: 5 * time.Second,
	}
}

// OnPlayed registers fn to be called after every successful match.
func (s *Service) OnPlayed(fn func(state.MatchCommitment)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// History exposes the in-memory ring of recent commitments.
func (s *Service) History() *state.MatchHistory {
	return s.history
}

// Defaults returns the service defaults.
func (s *Service) Defaults() Defaults {
	return s.defaults
}

// Config validates a request against the dashboard limits and resolves defaults.
func (s *Service) Config(req Request) (game.MatchConfig, error) {
	tieBreak := s.defaults.TieBreak
	if req.TieBreak != "" {
		tb, err := game.ParseTieBreak(req.TieBreak)
		if err != nil {
			return game.MatchConfig{}, err
		}
		tieBreak = tb
	}

	cfg := game.MatchConfig{
		TrialCount: req.TrialCount,
		Endgame1:   req.Endgame1,
		Endgame2:   req.Endgame2,
		BinCount:   req.BinCount,
		TieBreak:   tieBreak,
		MaxDraws:   s.defaults.MaxDraws,
	}
	if err := ValidateConfig(cfg); err != nil {
		return game.MatchConfig{}, err
	}
	if cfg.BinCount == 0 {
		cfg.BinCount = s.defaults.BinCount
	}
	return cfg, nil
}

// Play validates the request, commits to a fresh server seed, plays the
// match and records the commitment. Nothing is recorded when validation
// fails.
func (s *Service) Play(ctx context.Context, req Request) (game.MatchResult, error) {
	cfg, err := s.Config(req)
	if err != nil {
		return game.MatchResult{}, err
	}

	serverSeed, seedHash, err := crypto.GenerateServerSeed()
	if err != nil {
		return game.MatchResult{}, err
	}

	started := time.Now()
	result, err := game.PlayMatch(cfg, serverSeed)
	if err != nil {
		return game.MatchResult{}, err
	}
	result.MatchID = uuid.NewString()

	log.WithFields(log.Fields{
		"matchId":  result.MatchID,
		"games":    cfg.TrialCount,
		"endgame1": cfg.Endgame1,
		"endgame2": cfg.Endgame2,
		"mean1":    result.Player1.Summary.Mean,
		"mean2":    result.Player2.Summary.Mean,
		"winner":   result.Winner,
		"elapsed":  time.Since(started).String(),
	}).Info("🪙 Match played")

	s.record(ctx, state.MatchCommitment{
		MatchID:        result.MatchID,
		ServerSeed:     serverSeed,
		ServerSeedHash: seedHash,
		Config:         result.Config,
		CreatedAt:      time.Now().UTC(),
	})

	return result, nil
}

func (s *Service) record(ctx context.Context, m state.MatchCommitment) {
	s.history.Add(m)

	// Storage failures never fail a match
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.storeTimeout)
		defer cancel()

		if err := db.CacheMatchCommitment(ctx, &m); err != nil {
			log.Warnf("⚠️  Failed to cache match commitment: %v", err)
		}
		if err := db.StoreMatchCommitment(ctx, &m); err != nil {
			log.Warnf("⚠️  Failed to store match commitment in PostgreSQL: %v", err)
		}
	}()

	s.mu.RLock()
	listeners := slices.Clone(s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(m)
	}
}

// Lookup finds a recorded commitment in memory, then Redis, then PostgreSQL.
// It returns nil when the match is unknown.
func (s *Service) Lookup(ctx context.Context, matchID string) (*state.MatchCommitment, error) {
	if m, ok := s.history.Get(matchID); ok {
		return &m, nil
	}

	m, err := db.GetCachedMatchCommitment(ctx, matchID)
	if err != nil {
		log.Warnf("⚠️  Redis lookup failed for match %s: %v", matchID, err)
	} else if m != nil {
		return m, nil
	}

	m, err = db.GetMatchCommitment(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return m, nil
}
