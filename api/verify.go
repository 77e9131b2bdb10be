package api

import (
	"errors"
	"net/http"

	"coinTossServer/game"
	"coinTossServer/match"

	log "github.com/sirupsen/logrus"
	"goji.io/pat"
)

// VerifyRequest asks the server to replay a match from its revealed seed
type VerifyRequest struct {
	ServerSeed     string           `json:"serverSeed"`
	ServerSeedHash string           `json:"serverSeedHash"`
	Config         game.MatchConfig `json:"config"`
}

// VerifyResponse reports whether a revealed seed matches its commitment
type VerifyResponse struct {
	Success  bool              `json:"success"`
	Verified bool              `json:"verified"`
	Message  string            `json:"message,omitempty"`
	Match    *game.MatchResult `json:"match,omitempty"`
}

// handleGetCommitment reveals the server seed of a played match
// GET /api/verify/:matchId
func (s *Server) handleGetCommitment(w http.ResponseWriter, r *http.Request) {
	matchID := pat.Param(r, "matchId")

	m, err := s.matches.Lookup(r.Context(), matchID)
	if err != nil {
		log.Errorf("❌ Failed to look up match %s: %v", matchID, err)
		sendError(w, http.StatusInternalServerError, "Failed to look up match")
		return
	}
	if m == nil {
		sendError(w, http.StatusNotFound, "Match not found")
		return
	}

	sendJSON(w, map[string]interface{}{
		"success":        true,
		"matchId":        m.MatchID,
		"serverSeed":     m.ServerSeed,
		"serverSeedHash": m.ServerSeedHash,
		"config":         m.Config,
		"createdAt":      m.CreatedAt,
		"message":        "Verify by hashing the serverSeed and comparing with serverSeedHash. Player N tosses are reproduced from the seed format: serverSeed-player-N",
	})

	log.WithField("matchId", matchID).Info("🔍 Match commitment revealed")
}

// handleVerify replays a match from a revealed seed
// POST /api/verify
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ServerSeed == "" || req.ServerSeedHash == "" {
		sendError(w, http.StatusBadRequest, "serverSeed and serverSeedHash are required")
		return
	}

	if err := match.ValidateConfig(req.Config); err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := game.VerifyMatch(req.ServerSeed, req.ServerSeedHash, req.Config)
	switch {
	case errors.Is(err, game.ErrSeedMismatch):
		sendJSON(w, VerifyResponse{Success: true, Verified: false, Message: err.Error()})
		return
	case errors.Is(err, game.ErrConfiguration):
		sendError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		sendError(w, http.StatusInternalServerError, "Failed to verify match")
		return
	}

	sendJSON(w, VerifyResponse{Success: true, Verified: true, Match: &result})
}
