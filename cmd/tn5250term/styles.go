package main

import "github.com/charmbracelet/lipgloss"

// Cell rendering styles, grounded on the teacher's internal/configtool/
// tui/colors.go palette (ANSI 16-color indices, not truecolor, so the
// harness renders correctly over a plain telnet-to-terminal pipe).
var (
	colorNormal      = lipgloss.Color("7")  // white
	colorIntensified = lipgloss.Color("11") // bright yellow
	colorProtected   = lipgloss.Color("8")  // dark gray
	colorStatusBar   = lipgloss.Color("6")  // cyan
	colorStatusText  = lipgloss.Color("0")  // black
	colorStatusAlert = lipgloss.Color("9")  // bright red

	styleNormal      = lipgloss.NewStyle().Foreground(colorNormal)
	styleIntensified = lipgloss.NewStyle().Foreground(colorIntensified).Bold(true)
	styleProtected   = lipgloss.NewStyle().Foreground(colorProtected)

	styleStatusBar = lipgloss.NewStyle().
			Background(colorStatusBar).
			Foreground(colorStatusText).
			Bold(true)

	styleStatusAlert = lipgloss.NewStyle().
				Background(colorStatusBar).
				Foreground(colorStatusAlert).
				Bold(true)
)
