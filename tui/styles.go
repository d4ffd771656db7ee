package tui

import "github.com/charmbracelet/lipgloss"

var (
	green   = lipgloss.Color("#00ff00")
	cyan    = lipgloss.Color("#00ffff")
	magenta = lipgloss.Color("#ff00ff")
	pink    = lipgloss.Color("#ff0066")
	yellow  = lipgloss.Color("#ffff00")
	dim     = lipgloss.Color("#1f5f1f")

	appStyle = lipgloss.NewStyle().Padding(1, 2)

	terminalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(green).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(green).
			Padding(0, 1)

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(cyan)
	marqueeStyle = lipgloss.NewStyle().Foreground(yellow)
	textStyle    = lipgloss.NewStyle().Foreground(green)
	faintStyle   = lipgloss.NewStyle().Foreground(green).Faint(true)
	noticeStyle  = lipgloss.NewStyle().Bold(true).Foreground(pink)
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(green)
	idStyle      = lipgloss.NewStyle().Foreground(magenta)

	snakeCellStyle = lipgloss.NewStyle().Foreground(green)
	foodCellStyle  = lipgloss.NewStyle().Foreground(pink)
	emptyCellStyle = lipgloss.NewStyle().Foreground(dim)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(green).
			Padding(0, 1).
			Width(cardWidth)

	selectedCardStyle = cardStyle.BorderForeground(yellow)

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(green).
			Padding(0, 1)
)

const cardWidth = 48
