package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"github.com/canscope/canscope/engine"
)

// renderDetailModal shows the full decode of the selected frame: every
// signal with raw and scaled values, not just the condensed row summary.
func (m *MessageViewModel) renderDetailModal() string {
	modalWidth := 56

	modalStyle := lipgloss.NewStyle().
		Width(modalWidth).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(RGBBlue).
		Padding(1)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(RGBBlue)

	labelStyle := lipgloss.NewStyle().
		Foreground(RGBGrey)

	frame := m.session.FrameAt(m.table.Cursor())
	if frame == nil {
		return modalStyle.Render("No frame selected")
	}

	logical := m.session.WindowStart() + m.table.Cursor()

	var content strings.Builder
	content.WriteString(titleStyle.Render(fmt.Sprintf("Frame %d", logical+1)))
	content.WriteString("\n\n")

	field := func(label, value string) {
		content.WriteString(labelStyle.Render(fmt.Sprintf("%-11s", label)))
		content.WriteString(value)
		content.WriteString("\n")
	}

	field("Timestamp", fmt.Sprintf("%.6f (%s)",
		frame.Timestamp, m.session.Formatter().FormatValue(frame.Timestamp)))
	field("Channel", fmt.Sprintf("%d", frame.Channel))
	field("ID", engine.FormatID(frame.ID))
	field("Direction", frame.Dir.String())
	field("Length", fmt.Sprintf("%d", frame.Length()))
	field("Data", engine.FormatData(frame.Data))

	if m.decoder != nil {
		if decoded := m.decoder.Decode(frame); decoded != nil {
			content.WriteString("\n")
			content.WriteString(titleStyle.Render(decoded.Name))
			content.WriteString("\n")
			for _, sig := range decoded.Signals {
				content.WriteString(fmt.Sprintf("  %s", sig.String()))
				content.WriteString(labelStyle.Render(fmt.Sprintf("  (raw 0x%X)", sig.Raw)))
				content.WriteString("\n")
			}
		}
	}

	content.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(RGBGrey).Faint(true)
	content.WriteString(helpStyle.Render("Esc: Close"))

	return modalStyle.Render(content.String())
}
