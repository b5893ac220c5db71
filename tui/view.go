package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
)

func (m *MessageViewModel) render() string {
	if m.err != nil {
		return m.renderError()
	}

	if m.activeModal == ModalFilter {
		return m.renderModalScreen(m.renderFilterModal())
	}
	if m.activeModal == ModalDetail {
		return m.renderModalScreen(m.renderDetailModal())
	}

	return m.renderTableView()
}

func (m *MessageViewModel) renderTableView() string {
	var builder strings.Builder

	builder.WriteString(m.renderTitle())
	builder.WriteString("\n")

	tableView := m.table.View()
	builder.WriteString(ColorizeTableOutput(tableView, m.table.Cursor(), m.rows))

	builder.WriteString("\n")
	if m.searchActive {
		builder.WriteString(m.renderSearchBar())
		builder.WriteString("\n")
	}
	builder.WriteString(m.renderStatusBar())

	return builder.String()
}

func (m *MessageViewModel) renderModalScreen(modal string) string {
	var builder strings.Builder

	builder.WriteString(m.renderTitle())
	builder.WriteString("\n")

	centered := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - tableVerticalPadding).
		Align(lipgloss.Center, lipgloss.Center).
		Render(modal)
	builder.WriteString(centered)

	builder.WriteString("\n")
	builder.WriteString(m.renderStatusBar())

	return builder.String()
}

func (m *MessageViewModel) renderTitle() string {
	title := fmt.Sprintf("canscope: %s | ", m.fileName)
	titleStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		Padding(0, 1).
		Width(m.width).BorderForeground(RGBBlue).BorderTop(false).BorderLeft(false).BorderRight(false).BorderBottom(true)

	titleTextStyle := lipgloss.NewStyle().
		Bold(true)

	titleText := titleTextStyle.Render(title)

	stats := m.session.Stats()
	frameCount := fmt.Sprintf("(%d frames", stats.TotalFrames)
	if m.session.DisplayCount() != stats.TotalFrames {
		frameCount += fmt.Sprintf(", %d shown", m.session.DisplayCount())
	}
	if stats.SkippedLines > 0 {
		frameCount += fmt.Sprintf(", %d skipped", stats.SkippedLines)
	}
	if m.loadTime > 0 {
		frameCount += fmt.Sprintf(", loaded in %v", m.loadTime.Round(time.Millisecond))
	}
	frameCount += ")"

	countStyle := lipgloss.NewStyle().
		Faint(true)

	return titleStyle.Render(titleText + countStyle.Render(frameCount))
}

func (m *MessageViewModel) renderStatusBar() string {
	var parts []string

	switch {
	case m.searchActive:
		parts = append(parts, "Enter: Find")
		parts = append(parts, "Esc: Cancel")
	case m.activeModal == ModalFilter:
		parts = append(parts, "↑/↓: Navigate")
		parts = append(parts, "Space: Toggle")
		parts = append(parts, "Enter: Apply")
		parts = append(parts, "Esc: Close")
	case m.activeModal == ModalDetail:
		parts = append(parts, "Esc: Close Details")
	default:
		parts = append(parts, "↑/↓: Navigate")
		parts = append(parts, "Enter: Details")
		parts = append(parts, "f: Filter")
		parts = append(parts, "/: Search")
		parts = append(parts, "t: Time Format")
		if m.viewMode == ViewModeTableFiltered {
			parts = append(parts, "Esc: Clear Filter")
		}
	}

	parts = append(parts, "q: Quit")

	if m.session != nil && m.session.RowCount() > 0 {
		logical := m.session.WindowStart() + m.table.Cursor()
		parts = append(parts, fmt.Sprintf("Frame %d/%d", logical+1, m.session.DisplayCount()))
	}

	if m.viewMode == ViewModeTableFiltered {
		parts = append(parts, m.session.Filter().Describe())
	}

	if m.statusNote != "" {
		parts = append(parts, m.statusNote)
	}

	statusStyle := lipgloss.NewStyle().Faint(true)
	return statusStyle.Render(strings.Join(parts, " | "))
}

func (m *MessageViewModel) renderSearchBar() string {
	searchStyle := lipgloss.NewStyle().
		Width(m.width).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(RGBPink).
		Padding(0, 1)

	labelStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(RGBPink)

	return searchStyle.Render(labelStyle.Render("Search: ") + m.searchInput.View())
}

func (m *MessageViewModel) renderError() string {
	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
}
