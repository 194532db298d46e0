package styles

import "github.com/charmbracelet/lipgloss"

// Monokai Pro palette
const (
	Foreground = "#FCFCFA"

	Red    = "#FF6188" // errors, removed files
	Orange = "#FC9867" // warnings
	Yellow = "#FFD866" // updated files
	Green  = "#A9DC76" // success, created files
	Cyan   = "#78DCE8" // info
	Purple = "#AB9DF2" // titles

	Comment = "#727072"
	Border  = "#5B595C"
)

var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	InfoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Cyan))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Purple))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)).Bold(true)
	SpinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Purple))
	ValueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Foreground))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Purple)).
			Padding(0, 1)

	CellStyle = lipgloss.NewStyle().Padding(0, 1)

	BorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Border))
)

// ChangeStyle picks the color for a manifest change kind
func ChangeStyle(kind string) lipgloss.Style {
	switch kind {
	case "created":
		return SuccessStyle
	case "updated":
		return HighlightStyle
	case "removed":
		return ErrorStyle
	default:
		return DimStyle
	}
}
