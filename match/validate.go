package match

import (
	"fmt"
	"strconv"

	"coinTossServer/config"
	"coinTossServer/game"
)

// ValidateConfig applies the dashboard limits to a match config, whether it
// was built from a request or handed back for verification. A zero BinCount
// is allowed and means the default.
func ValidateConfig(cfg game.MatchConfig) error {
	if cfg.TrialCount < config.MinTrialCount || cfg.TrialCount > config.MaxTrialCount {
		return &game.ConfigurationError{
			Field:  "trialCount",
			Value:  strconv.Itoa(cfg.TrialCount),
			Reason: fmt.Sprintf("number of games must be within [%d, %d]", config.MinTrialCount, config.MaxTrialCount),
		}
	}
	for _, endgame := range []string{cfg.Endgame1, cfg.Endgame2} {
		if len(endgame) > config.MaxEndgameLength {
			return &game.ConfigurationError{
				Field:  "target",
				Value:  endgame,
				Reason: fmt.Sprintf("endgame must be at most %d tosses", config.MaxEndgameLength),
			}
		}
	}
	if cfg.BinCount < 0 || cfg.BinCount > config.MaxBinCount {
		return &game.ConfigurationError{
			Field:  "binCount",
			Value:  strconv.Itoa(cfg.BinCount),
			Reason: fmt.Sprintf("bins must be within [1, %d]", config.MaxBinCount),
		}
	}
	if cfg.MaxDraws < 0 {
		return &game.ConfigurationError{
			Field:  "maxDraws",
			Value:  strconv.Itoa(cfg.MaxDraws),
			Reason: "toss cap must not be negative",
		}
	}
	return nil
}
