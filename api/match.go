package api

import (
	"errors"
	"net/http"

	"coinTossServer/config"
	"coinTossServer/game"
	"coinTossServer/match"

	log "github.com/sirupsen/logrus"
)

/* =========================
   RESPONSE TYPES
========================= */

// MatchResponse wraps a played match
type MatchResponse struct {
	Success bool             `json:"success"`
	Match   game.MatchResult `json:"match"`
}

// Range describes a numeric input on the dashboard
type Range struct {
	Default int `json:"default"`
	Min     int `json:"min"`
	Max     int `json:"max"`
}

// DefaultsResponse seeds the dashboard widgets
type DefaultsResponse struct {
	Success          bool            `json:"success"`
	TrialCount       Range           `json:"trialCount"`
	BinCount         Range           `json:"binCount"`
	Endgame1         string          `json:"endgame1"`
	Endgame2         string          `json:"endgame2"`
	MaxEndgameLength int             `json:"maxEndgameLength"`
	TieBreak         game.TieBreak   `json:"tieBreak"`
	TieBreaks        []game.TieBreak `json:"tieBreaks"`
}

/* =========================
   HTTP ENDPOINTS
========================= */

// handlePlayMatch runs both players' simulations and returns the summaries
// POST /api/match
func (s *Server) handlePlayMatch(w http.ResponseWriter, r *http.Request) {
	var req match.Request
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.matches.Play(r.Context(), req)
	if errors.Is(err, game.ErrConfiguration) {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Errorf("❌ Failed to play match: %v", err)
		sendError(w, http.StatusInternalServerError, "Failed to play match")
		return
	}

	sendJSON(w, MatchResponse{Success: true, Match: result})
}

// handleDefaults returns widget defaults and limits
// GET /api/match/defaults
func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	defaults := s.matches.Defaults()

	sendJSON(w, DefaultsResponse{
		Success: true,
		TrialCount: Range{
			Default: config.DefaultTrialCount,
			Min:     config.MinTrialCount,
			Max:     config.MaxTrialCount,
		},
		BinCount: Range{
			Default: defaults.BinCount,
			Min:     1,
			Max:     config.MaxBinCount,
		},
		Endgame1:         config.DefaultEndgame1,
		Endgame2:         config.DefaultEndgame2,
		MaxEndgameLength: config.MaxEndgameLength,
		TieBreak:         defaults.TieBreak,
		TieBreaks:        []game.TieBreak{game.FewerTosses, game.MoreTosses, game.Disabled},
	})
}
