package game

import "fmt"

// TieBreak selects how two run summaries are turned into a winner.
//
// Both ranking policies award a tie to the second player.
type TieBreak string

const (
	// FewerTosses: the player whose endgame shows up sooner on average wins.
	FewerTosses TieBreak = "fewer-tosses"
	// MoreTosses: the player with the higher average toss count wins.
	MoreTosses TieBreak = "more-tosses"
	// Disabled: no winner is declared.
	Disabled TieBreak = "disabled"
)

// ParseTieBreak accepts a policy name; empty selects FewerTosses.
func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(s) {
	case "":
		return FewerTosses, nil
	case FewerTosses, MoreTosses, Disabled:
		return TieBreak(s), nil
	}
	return "", &ConfigurationError{
		Field:  "tieBreak",
		Value:  s,
		Reason: fmt.Sprintf("must be one of %s, %s, %s", FewerTosses, MoreTosses, Disabled),
	}
}

// Winner names the side a comparison favoured.
type Winner string

const (
	NoWinner  Winner = "none"
	PlayerOne Winner = "player1"
	PlayerTwo Winner = "player2"
)

// Compare decides a winner from the unrounded means of two runs.
func Compare(a, b RunSummary, policy TieBreak) Winner {
	switch policy {
	case Disabled:
		return NoWinner
	case MoreTosses:
		if a.RawMean > b.RawMean {
			return PlayerOne
		}
		return PlayerTwo
	default:
		if a.RawMean < b.RawMean {
			return PlayerOne
		}
		return PlayerTwo
	}
}

// WinLabels returns the captions for player one and player two.
func WinLabels(w Winner) (string, string) {
	switch w {
	case PlayerOne:
		return "You Win!", "You Lose!"
	case PlayerTwo:
		return "You Lose!", "You Win!"
	}
	return "", ""
}
