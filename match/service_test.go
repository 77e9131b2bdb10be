package match

import (
	"context"
	"errors"
	"strings"
	"testing"

	"coinTossServer/config"
	"coinTossServer/game"
	"coinTossServer/state"

	"gotest.tools/assert"
)

func newTestService() *Service {
	return NewService(Defaults{}, state.NewMatchHistory(5))
}

func TestConfig(t *testing.T) {
	svc := newTestService()

	t.Run("defaults applied", func(t *testing.T) {
		cfg, err := svc.Config(Request{TrialCount: 10, Endgame1: "HT", Endgame2: "TT"})
		assert.NilError(t, err)
		assert.Equal(t, cfg.BinCount, game.DefaultBinCount)
		assert.Equal(t, cfg.TieBreak, game.FewerTosses)
	})

	t.Run("explicit tie-break", func(t *testing.T) {
		cfg, err := svc.Config(Request{TrialCount: 10, Endgame1: "HT", Endgame2: "TT", TieBreak: "more-tosses"})
		assert.NilError(t, err)
		assert.Equal(t, cfg.TieBreak, game.MoreTosses)
	})

	bad := []Request{
		{TrialCount: 0, Endgame1: "HT", Endgame2: "TT"},
		{TrialCount: config.MaxTrialCount + 1, Endgame1: "HT", Endgame2: "TT"},
		{TrialCount: 10, Endgame1: strings.Repeat("H", config.MaxEndgameLength+1), Endgame2: "TT"},
		{TrialCount: 10, Endgame1: "HT", Endgame2: "TT", BinCount: -1},
		{TrialCount: 10, Endgame1: "HT", Endgame2: "TT", TieBreak: "nope"},
	}
	for _, req := range bad {
		_, err := svc.Config(req)
		assert.Assert(t, errors.Is(err, game.ErrConfiguration), "request %+v", req)
	}
}

func TestPlay(t *testing.T) {
	svc := newTestService()

	var published []state.MatchCommitment
	svc.OnPlayed(func(m state.MatchCommitment) {
		published = append(published, m)
	})

	result, err := svc.Play(context.Background(), Request{TrialCount: 200, Endgame1: "HTH", Endgame2: "HHH"})
	assert.NilError(t, err)
	assert.Assert(t, result.MatchID != "")
	assert.Equal(t, result.Player1.Summary.Trials, 200)
	assert.Equal(t, result.Player2.Summary.Trials, 200)

	assert.Equal(t, len(published), 1)
	assert.Equal(t, published[0].MatchID, result.MatchID)
	assert.Equal(t, published[0].ServerSeedHash, result.ServerSeedHash)

	t.Run("lookup and replay", func(t *testing.T) {
		m, err := svc.Lookup(context.Background(), result.MatchID)
		assert.NilError(t, err)
		assert.Assert(t, m != nil)

		replayed, err := game.VerifyMatch(m.ServerSeed, m.ServerSeedHash, m.Config)
		assert.NilError(t, err)
		assert.DeepEqual(t, replayed.Player1, result.Player1)
		assert.DeepEqual(t, replayed.Player2, result.Player2)
		assert.Equal(t, replayed.Winner, result.Winner)
	})

	t.Run("unknown match", func(t *testing.T) {
		m, err := svc.Lookup(context.Background(), "missing")
		assert.NilError(t, err)
		assert.Assert(t, m == nil)
	})
}

func TestPlayInvalidRecordsNothing(t *testing.T) {
	svc := newTestService()
	called := false
	svc.OnPlayed(func(state.MatchCommitment) { called = true })

	_, err := svc.Play(context.Background(), Request{TrialCount: 50, Endgame1: "HX", Endgame2: "HH"})
	assert.Assert(t, errors.Is(err, game.ErrConfiguration))
	assert.Equal(t, svc.History().Len(), 0)
	assert.Assert(t, !called)
}

func TestValidateConfig(t *testing.T) {
	assert.NilError(t, ValidateConfig(game.MatchConfig{TrialCount: 10, Endgame1: "HT", Endgame2: "TT"}))
	assert.NilError(t, ValidateConfig(game.MatchConfig{
		TrialCount: config.MaxTrialCount,
		Endgame1:   strings.Repeat("H", config.MaxEndgameLength),
		Endgame2:   "TT",
		BinCount:   config.MaxBinCount,
	}))

	cases := map[string]struct {
		cfg   game.MatchConfig
		field string
	}{
		"too many games":    {game.MatchConfig{TrialCount: 200000, Endgame1: "HT", Endgame2: "TT"}, "trialCount"},
		"no games":          {game.MatchConfig{TrialCount: 0, Endgame1: "HT", Endgame2: "TT"}, "trialCount"},
		"endgame too long":  {game.MatchConfig{TrialCount: 10, Endgame1: strings.Repeat("H", 40), Endgame2: "TT"}, "target"},
		"second too long":   {game.MatchConfig{TrialCount: 10, Endgame1: "HT", Endgame2: strings.Repeat("T", config.MaxEndgameLength+1)}, "target"},
		"too many bins":     {game.MatchConfig{TrialCount: 10, Endgame1: "HT", Endgame2: "TT", BinCount: 1 << 62}, "binCount"},
		"negative bins":     {game.MatchConfig{TrialCount: 10, Endgame1: "HT", Endgame2: "TT", BinCount: -1}, "binCount"},
		"negative toss cap": {game.MatchConfig{TrialCount: 10, Endgame1: "HT", Endgame2: "TT", MaxDraws: -1}, "maxDraws"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateConfig(tc.cfg)
			var cfgErr *game.ConfigurationError
			assert.Assert(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, cfgErr.Field, tc.field)
		})
	}
}

func TestListenerMayRegisterAnother(t *testing.T) {
	svc := newTestService()

	calls := 0
	svc.OnPlayed(func(state.MatchCommitment) {
		calls++
		svc.OnPlayed(func(state.MatchCommitment) { calls++ })
	})

	_, err := svc.Play(context.Background(), Request{TrialCount: 5, Endgame1: "H", Endgame2: "T"})
	assert.NilError(t, err)
	assert.Equal(t, calls, 1)

	_, err = svc.Play(context.Background(), Request{TrialCount: 5, Endgame1: "H", Endgame2: "T"})
	assert.NilError(t, err)
	assert.Equal(t, calls, 3)
}
