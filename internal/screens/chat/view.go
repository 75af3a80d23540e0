package chat

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/radnus321/learning-by-teaching/internal/ui/components"
	"github.com/radnus321/learning-by-teaching/internal/ui/theme"
)

const thinkingFramesLen = 4

func (c *ChatScreen) View(width, height int) string {
	textWidth := width - 6
	if textWidth < 20 {
		textWidth = 20
	}
	wrap := lipgloss.NewStyle().Width(textWidth)

	var lines []string
	for _, e := range c.transcript {
		switch e.role {
		case roleTeacher:
			lines = append(lines, theme.TeacherLabel.Render("You:"))
		case roleStudent:
			lines = append(lines, theme.StudentLabel.Render("Student:"))
		case roleFeedback:
			lines = append(lines, theme.FeedbackLabel.Render("Feedback:"))
		}
		lines = append(lines, wrap.Render(e.text), "")
	}

	if c.lastScores != nil {
		barWidth := textWidth
		if barWidth > 60 {
			barWidth = 60
		}
		lines = append(lines,
			components.NewScoreBar("Overall", c.lastScores.OverallScore, barWidth).View(),
			components.NewScoreBar("Clarity", c.lastScores.TeacherClarity, barWidth).View(),
			components.NewScoreBar("Completeness", c.lastScores.TeacherCompleteness, barWidth).View(),
			components.NewScoreBar("Student understanding", c.lastScores.StudentUnderstanding, barWidth).View(),
			components.NewScoreBar("Student engagement", c.lastScores.StudentEngagement, barWidth).View(),
			"",
		)
	}

	if c.summary != nil {
		s := c.summary
		barWidth := textWidth
		if barWidth > 60 {
			barWidth = 60
		}
		lines = append(lines,
			theme.Subtitle.Render(fmt.Sprintf("Session summary (%d scored turns)", s.turns)),
			components.NewScoreBar("Avg overall", s.overall, barWidth).View(),
			components.NewScoreBar("Avg clarity", s.clarity, barWidth).View(),
			components.NewScoreBar("Avg completeness", s.completeness, barWidth).View(),
			components.NewScoreBar("Avg understanding", s.understanding, barWidth).View(),
			components.NewScoreBar("Avg engagement", s.engagement, barWidth).View(),
			"",
		)
	}

	if c.errMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Error).Render(wrap.Render(c.errMsg)), "")
	}

	switch {
	case c.thinking:
		dots := strings.Repeat(".", c.tickCount%thinkingFramesLen)
		lines = append(lines, theme.Hint.Render("student is thinking"+dots))
	case c.done:
		lines = append(lines, theme.Hint.Render("Session complete. Press Ctrl+C to exit."))
	default:
		lines = append(lines, "  "+c.input.View())
	}

	// Keep the tail of the transcript in view.
	body := strings.Join(lines, "\n")
	rendered := strings.Split(body, "\n")
	if len(rendered) > height && height > 0 {
		rendered = rendered[len(rendered)-height:]
	}

	return lipgloss.NewStyle().
		Padding(0, 2).
		Render(strings.Join(rendered, "\n"))
}
