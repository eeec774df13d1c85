package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

// Badge colours.
var (
	colourOld     = lipgloss.Color("#F9E2AF") // Yellow
	colourNew     = lipgloss.Color("#A6E3A1") // Green
	colourMuted   = lipgloss.Color("#6C7086") // Medium gray
	colourActive  = lipgloss.Color("#06B6D4") // Cyan
	colourDone    = lipgloss.Color("#7C3AED") // Purple
	colourProblem = lipgloss.Color("#F38BA8") // Red
)

// styled reports whether output should carry terminal colours.
var styled = term.IsTerminal(int(os.Stdout.Fd()))

var badgeStyle = lipgloss.NewStyle().Bold(true)

// badge renders text in the given colour, or plain when output is not a terminal.
func badge(text string, colour lipgloss.Color) string {
	if !styled {
		return text
	}
	return badgeStyle.Foreground(colour).Render(text)
}

func categoryBadge(c domain.Category) string {
	switch c {
	case domain.CategoryOld:
		return badge(string(c), colourOld)
	case domain.CategoryNew:
		return badge(string(c), colourNew)
	default:
		return badge(string(domain.CategoryUncategorized), colourMuted)
	}
}

func statusBadge(s domain.MigrationStatus) string {
	switch s {
	case domain.StatusInProgress, domain.StatusMigrated:
		return badge(string(s), colourActive)
	case domain.StatusVerified:
		return badge(string(s), colourDone)
	case domain.StatusRollback:
		return badge(string(s), colourProblem)
	default:
		return badge(string(s), colourMuted)
	}
}
