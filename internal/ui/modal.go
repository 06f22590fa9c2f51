package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/cgpo-terminal/internal/theme"
)

var modalStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(theme.Default.Primary).
	Padding(1, 3)

// viewTickerModal is the full-screen universe editor. The current universe
// is pre-filled; presets 1-3 populate an empty input.
func (m Model) viewTickerModal() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("CONFIGURE ASSET UNIVERSE"))
	b.WriteString("\n\n")
	b.WriteString(m.tickerInput.View())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("presets (empty input): 1 tech · 2 banks · 3 energy"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter apply · esc cancel"))
	return m.centered(modalStyle.Render(b.String()))
}

// viewTrainingConfirm asks before kicking off a backend training job, since
// the job monopolizes the backend for minutes.
func (m Model) viewTrainingConfirm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("START TRAINING SESSION"))
	b.WriteString("\n\n")
	b.WriteString(textStyle.Render(fmt.Sprintf("Run %d training episodes on the backend?", m.cfg.TrainingEpisodes)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Inference refreshes pause until the session ends."))
	b.WriteString("\n\n")
	b.WriteString(accentStyle.Render("y/enter confirm") + dimStyle.Render(" · any other key cancel"))
	return m.centered(modalStyle.Render(b.String()))
}

func (m Model) centered(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
