package report

import (
	"fmt"
	"io"

	"coinTossServer/game"

	"github.com/charmbracelet/lipgloss"
)

var (
	endgameStyle = lipgloss.NewStyle().Bold(true)
	winStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#52C41A"))
	loseStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4D4F"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// RenderOutcome prints each player's mean label and, when the match has a
// winner, a win or lose caption.
func RenderOutcome(w io.Writer, m game.MatchResult) error {
	players := []struct {
		name   string
		result game.PlayerResult
	}{
		{"Player 1", m.Player1},
		{"Player 2", m.Player2},
	}

	for _, p := range players {
		line := fmt.Sprintf("%s %s  %s", p.name, endgameStyle.Render(p.result.Endgame), p.result.Summary.Label)
		switch p.result.Outcome {
		case "You Win!":
			line += "  " + winStyle.Render(p.result.Outcome)
		case "":
		default:
			line += "  " + loseStyle.Render(p.result.Outcome)
		}
		if p.result.Summary.Exhausted > 0 {
			line += mutedStyle.Render(fmt.Sprintf(" (%d games hit the toss cap)", p.result.Summary.Exhausted))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if m.Winner == game.NoWinner {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No winner declared"))
		return err
	}
	return nil
}
