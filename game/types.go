package game

import (
	"errors"
	"fmt"
	"strings"
)

// Symbol is a single coin toss outcome.
type Symbol byte

const (
	Heads Symbol = 'H'
	Tails Symbol = 'T'
)

func (s Symbol) String() string {
	return string(s)
}

// Target is the endgame sequence a player waits for.
type Target []Symbol

func (t Target) String() string {
	var b strings.Builder
	b.Grow(len(t))
	for _, s := range t {
		b.WriteByte(byte(s))
	}
	return b.String()
}

// ParseTarget converts an endgame string such as "HTH" into a Target.
// Only upper-case H and T are accepted.
func ParseTarget(endgame string) (Target, error) {
	if endgame == "" {
		return nil, &ConfigurationError{Field: "target", Value: endgame, Reason: "endgame must not be empty"}
	}
	target := make(Target, len(endgame))
	for i := 0; i < len(endgame); i++ {
		switch Symbol(endgame[i]) {
		case Heads, Tails:
			target[i] = Symbol(endgame[i])
		default:
			return nil, &ConfigurationError{Field: "target", Value: endgame, Reason: "endgame can only be a string containing Hs and/or Ts"}
		}
	}
	return target, nil
}

// TrialResult holds the waiting time of every trial of a run.
type TrialResult struct {
	Lengths []int `json:"lengths"`

	// Exhausted counts trials stopped by the draw cap instead of a match.
	Exhausted int `json:"exhausted"`
}

// RunSummary is the render-ready view of a TrialResult.
type RunSummary struct {
	Counts    []int     `json:"counts"`
	Edges     []float64 `json:"edges"`
	Mean      float64   `json:"mean"`
	RawMean   float64   `json:"-"`
	Label     string    `json:"label"`
	Trials    int       `json:"trials"`
	Exhausted int       `json:"exhausted,omitempty"`
}

// ErrConfiguration is matched by every *ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports input that prevents a run from starting.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
