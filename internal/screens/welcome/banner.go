package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/radnus321/learning-by-teaching/internal/ui/theme"
)

const bannerArt = `
 ████████╗███████╗ █████╗  ██████╗██╗  ██╗██████╗  █████╗  ██████╗██╗  ██╗
 ╚══██╔══╝██╔════╝██╔══██╗██╔════╝██║  ██║██╔══██╗██╔══██╗██╔════╝██║ ██╔╝
    ██║   █████╗  ███████║██║     ███████║██████╔╝███████║██║     █████╔╝
    ██║   ██╔══╝  ██╔══██║██║     ██╔══██║██╔══██╗██╔══██║██║     ██╔═██╗
    ██║   ███████╗██║  ██║╚██████╗██║  ██║██████╔╝██║  ██║╚██████╗██║  ██╗
    ╚═╝   ╚══════╝╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝╚═════╝ ╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝`

const bannerCompact = "T E A C H B A C K"

// RenderBanner returns the TEACHBACK banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 78 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 78 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
