package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
)

var (
	diagnosticStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	bannerStyle     = lipgloss.NewStyle().Bold(true)
)

// BellListener implements readline.Listener to ring a bell on TAB press
type BellListener struct{}

// OnChange is called on every keypress
func (l *BellListener) OnChange(line []rune, pos int, key rune) ([]rune, int, bool) {
	if key == readline.CharTab {
		fmt.Print("\x07")
	}
	return line, pos, false
}

func styleDiagnostic(msg string) string { return diagnosticStyle.Render(msg) }

func styleBanner(msg string) string { return bannerStyle.Render(msg) }
