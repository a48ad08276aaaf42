// Package panel renders a result as a titled, framed block of text.
package panel

import (
	"strings"

	"openai_helper/pkg/ui/styles"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const (
	// MinWidth is the narrowest frame Render will draw.
	MinWidth = 20
	// DefaultWidth is used when the terminal size is unknown.
	DefaultWidth = 80

	tabWidth = 4
	// border + padding on each side
	chrome = 4
)

// Render frames content under title at the given total width. Content is
// soft-wrapped to fit and never cut; only the title is truncated.
func Render(title, content string, width int) string {
	if width < MinWidth {
		width = MinWidth
	}
	inner := width - chrome
	border := lipgloss.RoundedBorder()

	var sb strings.Builder
	sb.WriteString(topBorder(border, title, width))
	sb.WriteByte('\n')

	side := styles.PanelBorderStyle.Render(border.Left)
	rside := styles.PanelBorderStyle.Render(border.Right)
	for _, line := range WrapLines(content, inner) {
		pad := inner - ansi.StringWidth(line)
		sb.WriteString(side)
		sb.WriteByte(' ')
		if line != "" {
			sb.WriteString(styles.TextStyle.Render(line))
		}
		sb.WriteString(strings.Repeat(" ", pad))
		sb.WriteByte(' ')
		sb.WriteString(rside)
		sb.WriteByte('\n')
	}

	sb.WriteString(styles.PanelBorderStyle.Render(
		border.BottomLeft + strings.Repeat(border.Bottom, width-2) + border.BottomRight,
	))
	return sb.String()
}

func topBorder(border lipgloss.Border, title string, width int) string {
	title = strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	if title == "" {
		return styles.PanelBorderStyle.Render(
			border.TopLeft + strings.Repeat(border.Top, width-2) + border.TopRight,
		)
	}

	// ╭─ title ─...─╮ keeps at least one fill cell
	label := runewidth.Truncate(title, width-6, "...")
	fill := width - 5 - runewidth.StringWidth(label)

	return styles.PanelBorderStyle.Render(border.TopLeft+border.Top+" ") +
		styles.PanelTitleStyle.Render(label) +
		styles.PanelBorderStyle.Render(" "+strings.Repeat(border.Top, fill)+border.TopRight)
}

// WrapLines soft-wraps text to width cells. Words longer than width are
// broken. Every input character except line-end whitespace survives.
func WrapLines(text string, width int) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))

	wrapped := ansi.Wrap(text, width, "")

	lines := make([]string, 0, strings.Count(wrapped, "\n")+1)
	for _, line := range strings.Split(wrapped, "\n") {
		line = strings.TrimRight(line, " ")
		if ansi.StringWidth(line) <= width {
			lines = append(lines, line)
			continue
		}
		for _, part := range strings.Split(ansi.Hardwrap(line, width, true), "\n") {
			lines = append(lines, strings.TrimRight(part, " "))
		}
	}
	return lines
}
