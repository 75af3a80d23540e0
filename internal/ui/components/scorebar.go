package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/radnus321/learning-by-teaching/internal/ui/theme"
)

// ScoreBar displays a labeled horizontal bar for a score in [0,1].
type ScoreBar struct {
	Label string
	Score float64
	Width int
}

// NewScoreBar creates a score bar.
func NewScoreBar(label string, score float64, width int) ScoreBar {
	return ScoreBar{Label: label, Score: score, Width: width}
}

// View renders the bar with the score as a percentage.
func (s ScoreBar) View() string {
	label := lipgloss.NewStyle().Foreground(theme.Text).Width(24).Render(s.Label)

	barWidth := s.Width - 24 - 7 // label + "  100%" tail
	if barWidth < 4 {
		barWidth = 4
	}

	score := s.Score
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	filled := int(float64(barWidth) * score)
	if filled > barWidth {
		filled = barWidth
	}
	empty := barWidth - filled

	bar := lipgloss.NewStyle().
		Background(theme.Secondary).
		Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().
			Background(theme.Border).
			Render(strings.Repeat(" ", empty))

	pct := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %3d%%", int(score*100)))

	return label + bar + pct
}
