package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"marsphotos/pkg/fetcher"
)

var (
	marsRed   = lipgloss.Color("#C1440E")
	dustTan   = lipgloss.Color("#E8C39E")
	okGreen   = lipgloss.Color("#39FF14")
	warnAmber = lipgloss.Color("#FF6700")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(marsRed).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(marsRed).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(dustTan).
			Width(14)

	valueStyle = lipgloss.NewStyle().Bold(true)

	goodStyle = lipgloss.NewStyle().Foreground(okGreen).Bold(true)
	badStyle  = lipgloss.NewStyle().Foreground(warnAmber).Bold(true)
)

// RenderSummary draws the end of run tally as a bordered panel
func RenderSummary(s fetcher.Summary) string {
	rows := []struct {
		label string
		value string
		style lipgloss.Style
	}{
		{"Dates", fmt.Sprintf("%d", s.Dates), valueStyle},
		{"Dates failed", fmt.Sprintf("%d", s.DatesFailed), countStyle(s.DatesFailed)},
		{"Photos found", fmt.Sprintf("%d", s.PhotosFound), valueStyle},
		{"Downloaded", fmt.Sprintf("%d", s.Downloaded), goodStyle},
		{"Skipped", fmt.Sprintf("%d", s.Skipped), valueStyle},
		{"Failed", fmt.Sprintf("%d", s.Failed), countStyle(s.Failed)},
		{"Transferred", FormatBytes(s.Bytes), valueStyle},
		{"Elapsed", s.Elapsed.Round(time.Millisecond).String(), valueStyle},
	}

	lines := []string{titleStyle.Render("Mars photo run")}
	if s.Cancelled {
		lines[0] += " " + badStyle.Render("(cancelled)")
	}
	lines = append(lines, "")
	for _, row := range rows {
		lines = append(lines, labelStyle.Render(row.label)+row.style.Render(row.value))
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

// SummaryMessage is the one-line form used for notifications
func SummaryMessage(s fetcher.Summary) string {
	return fmt.Sprintf("%d downloaded, %d skipped, %d failed across %d dates",
		s.Downloaded, s.Skipped, s.Failed+s.DatesFailed, s.Dates)
}

func countStyle(n int) lipgloss.Style {
	if n > 0 {
		return badStyle
	}
	return valueStyle
}

// FormatBytes renders a byte count with a binary unit
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
