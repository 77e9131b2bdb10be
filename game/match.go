package game

import "coinTossServer/crypto"

// MatchConfig is everything needed to replay a two-player match.
type MatchConfig struct {
	TrialCount int      `json:"trialCount"`
	Endgame1   string   `json:"endgame1"`
	Endgame2   string   `json:"endgame2"`
	BinCount   int      `json:"binCount,omitempty"`
	TieBreak   TieBreak `json:"tieBreak,omitempty"`
	MaxDraws   int      `json:"maxDraws,omitempty"`
}

// WithDefaults fills zero-valued optional fields.
func (c MatchConfig) WithDefaults() MatchConfig {
	if c.BinCount <= 0 {
		c.BinCount = DefaultBinCount
	}
	if c.TieBreak == "" {
		c.TieBreak = FewerTosses
	}
	return c
}

// PlayerResult is one side of a match.
type PlayerResult struct {
	Endgame string     `json:"endgame"`
	Summary RunSummary `json:"summary"`
	Outcome string     `json:"outcome,omitempty"`
}

// MatchResult is the pure value handed to whatever renders a match.
type MatchResult struct {
	MatchID        string       `json:"matchId,omitempty"`
	ServerSeedHash string       `json:"serverSeedHash"`
	Config         MatchConfig  `json:"config"`
	Player1        PlayerResult `json:"player1"`
	Player2        PlayerResult `json:"player2"`
	Winner         Winner       `json:"winner"`
}

// PlayMatch validates both endgames, then runs each player's trials from
// a generator derived from serverSeed and compares the two summaries.
// The same seed and config always produce the same result.
func PlayMatch(cfg MatchConfig, serverSeed string) (MatchResult, error) {
	cfg = cfg.WithDefaults()

	if _, err := ParseTieBreak(string(cfg.TieBreak)); err != nil {
		return MatchResult{}, err
	}

	// Both sides are configured before either runs
	sim1, err := Configure(cfg.TrialCount, cfg.Endgame1, WithMaxDraws(cfg.MaxDraws))
	if err != nil {
		return MatchResult{}, err
	}
	sim2, err := Configure(cfg.TrialCount, cfg.Endgame2, WithMaxDraws(cfg.MaxDraws))
	if err != nil {
		return MatchResult{}, err
	}

	summary1 := Summarize(sim1.Run(NewSeededRNG(PlayerSeed(serverSeed, 1))), cfg.BinCount)
	summary2 := Summarize(sim2.Run(NewSeededRNG(PlayerSeed(serverSeed, 2))), cfg.BinCount)

	winner := Compare(summary1, summary2, cfg.TieBreak)
	outcome1, outcome2 := WinLabels(winner)

	return MatchResult{
		ServerSeedHash: crypto.HashSeed(serverSeed),
		Config:         cfg,
		Player1:        PlayerResult{Endgame: cfg.Endgame1, Summary: summary1, Outcome: outcome1},
		Player2:        PlayerResult{Endgame: cfg.Endgame2, Summary: summary2, Outcome: outcome2},
		Winner:         winner,
	}, nil
}
