// Package report renders match summaries for a terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"coinTossServer/game"

	"golang.org/x/term"
)

const (
	minBarWidth         = 10
	terminalWidthBackup = 80
	barRune             = "█"
	axisSeparator       = " │ "
)

// RenderHistogram prints one horizontal bar per bin: the bin's lower edge,
// a bar scaled to the fullest bin and the bin count. A width of zero or
// less is taken from the terminal behind w.
func RenderHistogram(w io.Writer, title string, s game.RunSummary, width int) error {
	if width <= 0 {
		width = writerWidth(w)
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if len(s.Counts) == 0 {
		_, err := fmt.Fprintln(w, "No games played.")
		return err
	}

	edgeLabels := make([]string, len(s.Counts))
	labelWidth := 0
	maxCount := 0
	for i, c := range s.Counts {
		edgeLabels[i] = fmt.Sprintf("%.1f", s.Edges[i])
		if len(edgeLabels[i]) > labelWidth {
			labelWidth = len(edgeLabels[i])
		}
		if c > maxCount {
			maxCount = c
		}
	}
	countWidth := len(fmt.Sprint(maxCount))

	barWidth := width - labelWidth - len([]rune(axisSeparator)) - countWidth - 1
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	for i, c := range s.Counts {
		bar := 0
		if maxCount > 0 {
			bar = c * barWidth / maxCount
		}
		if c > 0 && bar == 0 {
			bar = 1
		}
		// Widths count runes, so the multi-byte bar pads correctly
		line := fmt.Sprintf("%*s%s%-*s %*d",
			labelWidth, edgeLabels[i],
			axisSeparator,
			barWidth, strings.Repeat(barRune, bar),
			countWidth, c)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, s.Label)
	return err
}

func writerWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
