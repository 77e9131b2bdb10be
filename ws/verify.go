package ws

import (
	"encoding/json"
	"errors"

	"coinTossServer/game"
	"coinTossServer/match"

	log "github.com/sirupsen/logrus"
)

type verifyData struct {
	ServerSeed     string           `json:"serverSeed"`
	ServerSeedHash string           `json:"serverSeedHash"`
	Config         game.MatchConfig `json:"config"`
}

// handleVerify replays a match from a revealed seed for this client
func (c *ClientConnection) handleVerify(raw json.RawMessage) {
	var req verifyData
	if err := json.Unmarshal(raw, &req); err != nil {
		c.sendError("invalid verify request")
		return
	}

	// Validate required fields
	if req.ServerSeed == "" || req.ServerSeedHash == "" {
		c.sendError("missing required fields: serverSeed, serverSeedHash")
		return
	}

	if err := match.ValidateConfig(req.Config); err != nil {
		c.sendError(err.Error())
		return
	}

	result, err := game.VerifyMatch(req.ServerSeed, req.ServerSeedHash, req.Config)
	if errors.Is(err, game.ErrSeedMismatch) {
		c.send(map[string]interface{}{
			"type":  "verify_result",
			"valid": false,
			"error": "server seed hash does not match",
		})
		return
	}
	if err != nil {
		c.sendError(err.Error())
		return
	}

	log.WithField("client", c.ID).Infof("✅ Match verified - %s vs %s: %s", req.Config.Endgame1, req.Config.Endgame2, result.Winner)

	c.send(map[string]interface{}{
		"type":  "verify_result",
		"valid": true,
		"match": result,
	})
}
