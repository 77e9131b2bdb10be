package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"coinTossServer/crypto"
	"coinTossServer/game"
	"coinTossServer/state"

	"gotest.tools/assert"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("COINTOSS_CONFIG", "")
	t.Setenv("COINTOSS_TIE_BREAK", "")
	t.Setenv("COINTOSS_MAX_DRAWS", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSimulate(t *testing.T) {
	out, err := execute(t, "simulate", "--games", "300", "--p1", "HT", "--p2", "HH", "--bins", "10", "--seed", "cli-seed", "--width", "60")
	assert.NilError(t, err)

	assert.Assert(t, strings.Contains(out, "Player 1: HT (300 games)"))
	assert.Assert(t, strings.Contains(out, "Player 2: HH (300 games)"))
	assert.Equal(t, strings.Count(out, "Average games to reach endgame = "), 4)
	assert.Assert(t, strings.Contains(out, "Seed: cli-seed"))
	assert.Assert(t, strings.Contains(out, "Seed hash: "+crypto.HashSeed("cli-seed")))
}

func TestSimulateIsReproducible(t *testing.T) {
	args := []string{"simulate", "--games", "100", "--seed", "same", "--width", "60"}
	first, err := execute(t, args...)
	assert.NilError(t, err)
	second, err := execute(t, args...)
	assert.NilError(t, err)
	assert.Equal(t, first, second)
}

func TestSimulateRejectsBadInput(t *testing.T) {
	cases := map[string][]string{
		"foreign symbol": {"simulate", "--p1", "HX"},
		"empty endgame":  {"simulate", "--p2", ""},
		"zero games":     {"simulate", "--games", "0"},
		"bad tie-break":  {"simulate", "--tie-break", "sideways"},
		"zero bins":      {"simulate", "--bins", "0"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := execute(t, args...)
			assert.Assert(t, errors.Is(err, game.ErrConfiguration), "got %v", err)
			assert.Assert(t, !strings.Contains(out, "Average games"))
		})
	}
}

func TestVerify(t *testing.T) {
	hash := crypto.HashSeed("revealed")

	out, err := execute(t, "verify", "--seed", "revealed", "--hash", hash, "--games", "50", "--width", "60")
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(out, "Seed matches commitment"))

	_, err = execute(t, "verify", "--seed", "revealed", "--hash", "00", "--games", "50")
	assert.Assert(t, errors.Is(err, game.ErrSeedMismatch))
}

func TestVerifyRequiresSeedAndHash(t *testing.T) {
	_, err := execute(t, "verify", "--games", "50")
	assert.ErrorContains(t, err, "required flag")
}

func TestReplayCommitment(t *testing.T) {
	cfg := game.MatchConfig{TrialCount: 30, Endgame1: "HT", Endgame2: "HH"}
	m := state.MatchCommitment{MatchID: "m1", ServerSeed: "stored", ServerSeedHash: crypto.HashSeed("stored"), Config: cfg}

	result, err := replayCommitment(m)
	assert.NilError(t, err)
	assert.Equal(t, result.Player1.Summary.Trials, 30)

	m.Config.Endgame1 = strings.Repeat("H", 40)
	_, err = replayCommitment(m)
	assert.Assert(t, errors.Is(err, game.ErrConfiguration))

	m.Config = cfg
	m.ServerSeedHash = "00"
	_, err = replayCommitment(m)
	assert.Assert(t, errors.Is(err, game.ErrSeedMismatch))
}
