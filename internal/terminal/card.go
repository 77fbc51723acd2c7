// Package terminal renders replies for the command line.
package terminal

import (
	"strings"

	"tickerbot/pkg/reply"
	"tickerbot/pkg/ticker"

	"github.com/charmbracelet/lipgloss"
)

var (
	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true).
			MarginTop(1)

	positiveColor = lipgloss.Color("#10B981")
	negativeColor = lipgloss.Color("#EF4444")
	neutralColor  = lipgloss.Color("#3B82F6")
)

func accent(c reply.Color) lipgloss.Color {
	switch c {
	case reply.Positive:
		return positiveColor
	case reply.Negative:
		return negativeColor
	default:
		return neutralColor
	}
}

// RenderCard draws r as a bordered card tinted by its color.
func RenderCard(r reply.Reply) string {
	color := accent(r.Color)

	var rows []string
	rows = append(rows, titleStyle.Foreground(color).Render(r.Title))

	for _, f := range r.Fields {
		// markdown bold has no meaning in a terminal
		value := strings.ReplaceAll(f.Value, "**", "")
		value = strings.ReplaceAll(value, "\n", "  ")
		rows = append(rows, labelStyle.Render(f.Label+":")+" "+value)
	}

	if r.Extra != "" {
		rows = append(rows, "", strings.ReplaceAll(r.Extra, "**", ""))
	}

	if len(r.ChartLinks) > 0 {
		rows = append(rows, "")
		for _, l := range r.ChartLinks {
			rows = append(rows, labelStyle.Render(l.Label)+" "+l.URL)
		}
	}

	if r.Footer != "" {
		rows = append(rows, footerStyle.Render(r.Footer))
	}

	return cardStyle.BorderForeground(color).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// RenderRequests lists parsed requests one per line, e.g. "$MSFT 4h EMA, RSI".
func RenderRequests(reqs []ticker.Request) string {
	if len(reqs) == 0 {
		return labelStyle.Render("no ticker mentions")
	}
	lines := make([]string, 0, len(reqs))
	for _, req := range reqs {
		tf := req.Timeframe
		if tf == "" {
			tf = ticker.DefaultTimeframe
		}
		line := "$" + req.Symbol + " " + tf.Label()
		if len(req.Indicators) > 0 {
			line += " " + labelStyle.Render(strings.Join(req.Indicators, ", "))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
