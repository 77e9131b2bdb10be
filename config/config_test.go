package config

import (
	"os"
	"path/filepath"
	"testing"

	"coinTossServer/game"

	"gotest.tools/assert"
)

func TestDefaults(t *testing.T) {
	s := Defaults()
	assert.Equal(t, s.Addr(), "0.0.0.0:8080")
	assert.Equal(t, s.TieBreak, game.FewerTosses)
	assert.Equal(t, s.BinCount, game.DefaultBinCount)
	assert.Equal(t, s.MaxDraws, 0)
}

func TestLoadFile(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
		assert.NilError(t, err)
		assert.Assert(t, cfg.Game.TieBreak == nil)
	})

	t.Run("game and server tables", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cointoss.toml")
		body := `
[server]
port = "9090"
log-level = "debug"

[game]
tie-break = "more-tosses"
max-draws = 10000
bins = 20
`
		assert.NilError(t, os.WriteFile(path, []byte(body), 0o600))

		cfg, err := LoadFile(path)
		assert.NilError(t, err)

		s := Defaults()
		assert.NilError(t, s.applyFile(cfg))
		assert.Equal(t, s.Port, "9090")
		assert.Equal(t, s.LogLevel, "debug")
		assert.Equal(t, s.TieBreak, game.MoreTosses)
		assert.Equal(t, s.MaxDraws, 10000)
		assert.Equal(t, s.BinCount, 20)
	})

	t.Run("bad tie-break", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cointoss.toml")
		assert.NilError(t, os.WriteFile(path, []byte("[game]\ntie-break = \"coin\"\n"), 0o600))

		cfg, err := LoadFile(path)
		assert.NilError(t, err)
		s := Defaults()
		assert.ErrorContains(t, s.applyFile(cfg), "tie-break")
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cointoss.toml")
		assert.NilError(t, os.WriteFile(path, []byte("[game\n"), 0o600))
		_, err := LoadFile(path)
		assert.ErrorContains(t, err, "failed to decode config")
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":               "7000",
		"REDIS_DB":           "3",
		"COINTOSS_TIE_BREAK": "disabled",
		"COINTOSS_MAX_DRAWS": "500",
	}
	s := Defaults()
	assert.NilError(t, s.applyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, s.Port, "7000")
	assert.Equal(t, s.RedisDB, 3)
	assert.Equal(t, s.TieBreak, game.Disabled)
	assert.Equal(t, s.MaxDraws, 500)

	for key, value := range map[string]string{
		"REDIS_DB":           "three",
		"COINTOSS_TIE_BREAK": "whoever",
		"COINTOSS_MAX_DRAWS": "-1",
	} {
		s := Defaults()
		err := s.applyEnv(func(k string) string {
			if k == key {
				return value
			}
			return ""
		})
		assert.Assert(t, err != nil, "expected error for %s=%s", key, value)
	}
}
