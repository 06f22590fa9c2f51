package theme

import "github.com/charmbracelet/lipgloss"

// Theme holds the semantic color palette for the entire TUI.
type Theme struct {
	Bg        lipgloss.Color
	Card      lipgloss.Color
	Border    lipgloss.Color
	Text      lipgloss.Color
	Dim       lipgloss.Color
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Danger    lipgloss.Color
	Neutral   lipgloss.Color
}

// Default is the Deep Space palette.
var Default = Theme{
	Bg:        lipgloss.Color("#050505"),
	Card:      lipgloss.Color("#0A0A0A"),
	Border:    lipgloss.Color("#222222"),
	Text:      lipgloss.Color("#E0E0E0"),
	Dim:       lipgloss.Color("#888888"),
	Primary:   lipgloss.Color("#FF9900"), // Amber
	Secondary: lipgloss.Color("#00F0FF"), // Cyber Cyan
	Success:   lipgloss.Color("#33FF57"), // Terminal Green
	Danger:    lipgloss.Color("#FF3333"), // Alert Red
	Neutral:   lipgloss.Color("#DDDDDD"),
}

// Node hues for the risk map. Selected takes precedence over at-risk,
// at-risk over the return classification.
var (
	NodeSelected = Default.Primary
	NodeAtRisk   = Default.Secondary
	NodePositive = Default.Success
	NodeNegative = Default.Danger
	NodeNeutral  = Default.Neutral
	EdgeColor    = Default.Dim
)
