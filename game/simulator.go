package game

import "strconv"

// Simulator runs independent "toss until the endgame appears" trials.
// It holds only configuration, so a single value may be run repeatedly
// and from several goroutines as long as each call gets its own Source.
type Simulator struct {
	trials   int
	target   Target
	maxDraws int
}

// Option adjusts a Simulator at configure time.
type Option func(*Simulator)

// WithMaxDraws caps every trial at n tosses. Zero leaves trials unbounded.
func WithMaxDraws(n int) Option {
	return func(s *Simulator) {
		s.maxDraws = n
	}
}

// Configure validates the trial count and endgame before any toss happens.
func Configure(trialCount int, endgame string, opts ...Option) (*Simulator, error) {
	target, err := ParseTarget(endgame)
	if err != nil {
		return nil, err
	}
	if trialCount < 1 {
		return nil, &ConfigurationError{Field: "trialCount", Value: strconv.Itoa(trialCount), Reason: "number of games must be a positive integer"}
	}

	s := &Simulator{trials: trialCount, target: target}
	for _, opt := range opts {
		opt(s)
	}

	if s.maxDraws < 0 {
		return nil, &ConfigurationError{Field: "maxDraws", Value: strconv.Itoa(s.maxDraws), Reason: "draw cap must not be negative"}
	}
	if s.maxDraws > 0 && s.maxDraws < len(target) {
		return nil, &ConfigurationError{Field: "maxDraws", Value: strconv.Itoa(s.maxDraws), Reason: "draw cap is shorter than the endgame"}
	}
	return s, nil
}

// TrialCount returns the number of trials per run.
func (s *Simulator) TrialCount() int { return s.trials }

// Target returns a copy of the endgame sequence.
func (s *Simulator) Target() Target {
	return append(Target(nil), s.target...)
}

// Run plays every trial and returns the toss count of each one.
func (s *Simulator) Run(rng Source) TrialResult {
	result := TrialResult{Lengths: make([]int, s.trials)}

	size := len(s.target)
	window := make([]Symbol, size)

	for i := range result.Lengths {
		// Window starts empty for every trial
		filled, next := 0, 0
		draws := 0

		for {
			draws++

			toss := Tails
			if rng.Float64() < 0.5 {
				toss = Heads
			}

			window[next] = toss
			next = (next + 1) % size
			if filled < size {
				filled++
			}

			if filled == size && s.windowMatches(window, next) {
				break
			}
			if s.maxDraws > 0 && draws >= s.maxDraws {
				result.Exhausted++
				break
			}
		}

		result.Lengths[i] = draws
	}

	return result
}

// windowMatches compares a full ring buffer, oldest toss first, against the target.
func (s *Simulator) windowMatches(window []Symbol, oldest int) bool {
	size := len(window)
	for j := 0; j < size; j++ {
		if window[(oldest+j)%size] != s.target[j] {
			return false
		}
	}
	return true
}
