package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/canscope/canscope/engine"
)

func (m *MessageViewModel) openFilterModal() {
	m.activeModal = ModalFilter
	m.filterCursor = 0
	m.filterDraft = m.session.Filter()
	m.idSkipped = 0
	m.idInput.SetValue(formatIDList(m.filterDraft.IDs))
	m.idInput.Blur()

	if m.filterDraft.FilterByTime {
		m.timeInput.SetValue(fmt.Sprintf("%g - %g", m.filterDraft.TimeStart, m.filterDraft.TimeEnd))
	} else {
		m.timeInput.SetValue("")
	}
	m.timeInput.Blur()

	if m.filterDraft.FilterByLength {
		m.lenInput.SetValue(fmt.Sprintf("%d - %d", m.filterDraft.LengthMin, m.filterDraft.LengthMax))
	} else {
		m.lenInput.SetValue("")
	}
	m.lenInput.Blur()
}

func (m *MessageViewModel) renderFilterModal() string {
	modalWidth := 44

	modalStyle := lipgloss.NewStyle().
		Width(modalWidth).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(RGBBlue).
		Padding(1)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(RGBBlue)

	highlightStyle := lipgloss.NewStyle().
		Background(RGBSubtlePink).
		Foreground(RGBPink).
		Bold(true)

	var content strings.Builder

	content.WriteString(titleStyle.Render("Message Filters"))
	content.WriteString("\n\n")

	checkbox := func(on bool) string {
		if on {
			return "[x]"
		}
		return "[ ]"
	}

	lines := []struct {
		index int
		text  string
	}{
		{filterCursorRx, fmt.Sprintf("%s Show Rx", checkbox(m.filterDraft.ShowRx))},
		{filterCursorTx, fmt.Sprintf("%s Show Tx", checkbox(m.filterDraft.ShowTx))},
		{filterCursorIDOn, fmt.Sprintf("%s Filter by ID", checkbox(m.filterDraft.FilterByID))},
		{filterCursorIDMode, fmt.Sprintf("    Mode: %s", m.filterDraft.IDMode)},
	}

	for _, l := range lines {
		cursor := " "
		line := fmt.Sprintf("%s %s", cursor, l.text)
		if m.filterCursor == l.index {
			line = highlightStyle.Render("> " + l.text)
		}
		content.WriteString(line)
		content.WriteString("\n")
	}

	idLabel := "  IDs: "
	if m.filterCursor == filterCursorIDInput {
		idLabel = highlightStyle.Render("> IDs:") + " "
	}
	content.WriteString(idLabel + m.idInput.View())
	content.WriteString("\n")
	if m.idSkipped > 0 {
		warnStyle := lipgloss.NewStyle().Foreground(RGBYellow)
		content.WriteString(warnStyle.Render(fmt.Sprintf("  %d invalid entries ignored", m.idSkipped)))
		content.WriteString("\n")
	}

	timeLabel := "  Time (s): "
	if m.filterCursor == filterCursorTimeInput {
		timeLabel = highlightStyle.Render("> Time (s):") + " "
	}
	content.WriteString(timeLabel + m.timeInput.View())
	content.WriteString("\n")

	lenLabel := "  Length: "
	if m.filterCursor == filterCursorLenInput {
		lenLabel = highlightStyle.Render("> Length:") + " "
	}
	content.WriteString(lenLabel + m.lenInput.View())
	content.WriteString("\n")

	content.WriteString("\n")
	resetLine := "  [ ] Reset All Filters"
	if m.filterCursor == filterCursorReset {
		resetLine = highlightStyle.Render("> [*] Reset All Filters")
	}
	content.WriteString(resetLine)

	content.WriteString("\n\n")
	helpStyle := lipgloss.NewStyle().Foreground(RGBGrey).Faint(true)
	content.WriteString(helpStyle.Render("↑/↓: Navigate | Space: Toggle | Enter: Apply | Esc: Close"))

	return modalStyle.Render(content.String())
}

func (m *MessageViewModel) handleFilterModalKeys(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	key := msg.String()

	// a focused text input owns most keys
	if input := m.focusedFilterInput(); input != nil {
		switch key {
		case "esc":
			input.Blur()
			return true, nil
		case "enter", "return", "up", "down":
			input.Blur()
			if key == "enter" || key == "return" {
				m.applyFilterDraft()
			}
			return true, nil
		}
		var cmd tea.Cmd
		*input, cmd = input.Update(msg)
		return true, cmd
	}

	switch key {
	case "esc", "f":
		m.activeModal = ModalNone
		return true, nil

	case "up":
		m.filterCursor--
		if m.filterCursor < 0 {
			m.filterCursor = filterCursorCount - 1
		}
		return true, nil

	case "down":
		m.filterCursor++
		if m.filterCursor >= filterCursorCount {
			m.filterCursor = 0
		}
		return true, nil

	case " ", "space":
		m.toggleFilterField()
		return true, nil

	case "enter", "return":
		switch m.filterCursor {
		case filterCursorIDInput:
			m.idInput.Focus()
		case filterCursorTimeInput:
			m.timeInput.Focus()
		case filterCursorLenInput:
			m.lenInput.Focus()
		case filterCursorReset:
			m.resetFilters()
		default:
			m.applyFilterDraft()
		}
		return true, nil

	case "r":
		m.resetFilters()
		return true, nil
	}

	return true, nil
}

func (m *MessageViewModel) toggleFilterField() {
	switch m.filterCursor {
	case filterCursorRx:
		m.filterDraft.ShowRx = !m.filterDraft.ShowRx
		m.filterDraft.FilterByDirection = !(m.filterDraft.ShowRx && m.filterDraft.ShowTx)
	case filterCursorTx:
		m.filterDraft.ShowTx = !m.filterDraft.ShowTx
		m.filterDraft.FilterByDirection = !(m.filterDraft.ShowRx && m.filterDraft.ShowTx)
	case filterCursorIDOn:
		m.filterDraft.FilterByID = !m.filterDraft.FilterByID
	case filterCursorIDMode:
		if m.filterDraft.IDMode == engine.IncludeIDs {
			m.filterDraft.IDMode = engine.ExcludeIDs
		} else {
			m.filterDraft.IDMode = engine.IncludeIDs
		}
	case filterCursorIDInput:
		m.idInput.Focus()
	case filterCursorTimeInput:
		m.timeInput.Focus()
	case filterCursorLenInput:
		m.lenInput.Focus()
	case filterCursorReset:
		m.resetFilters()
	}
}

// focusedFilterInput returns the text input currently capturing keys, or
// nil when none is focused.
func (m *MessageViewModel) focusedFilterInput() *textinput.Model {
	switch {
	case m.filterCursor == filterCursorIDInput && m.idInput.Focused():
		return &m.idInput
	case m.filterCursor == filterCursorTimeInput && m.timeInput.Focused():
		return &m.timeInput
	case m.filterCursor == filterCursorLenInput && m.lenInput.Focused():
		return &m.lenInput
	}
	return nil
}

// applyFilterDraft parses the text inputs, pushes the draft into the
// session and rebuilds the table from row zero.
func (m *MessageViewModel) applyFilterDraft() {
	ids, skipped := engine.ParseIDList(m.idInput.Value())
	m.idSkipped = skipped
	m.filterDraft.IDs = ids
	if m.filterDraft.FilterByID && len(ids) == 0 && m.filterDraft.IDMode == engine.IncludeIDs {
		// an empty include set would blank the table; treat as disabled
		m.filterDraft.FilterByID = false
	}

	// a blank or unparseable range disables that criterion
	if start, end, ok := parseFloatRange(m.timeInput.Value()); ok {
		m.filterDraft.FilterByTime = true
		m.filterDraft.TimeStart = start
		m.filterDraft.TimeEnd = end
	} else {
		m.filterDraft.FilterByTime = false
	}

	if min, max, ok := parseIntRange(m.lenInput.Value()); ok {
		m.filterDraft.FilterByLength = true
		m.filterDraft.LengthMin = min
		m.filterDraft.LengthMax = max
	} else {
		m.filterDraft.FilterByLength = false
	}

	m.session.SetFilter(m.filterDraft)
	m.activeModal = ModalNone

	if m.session.Filter().IsActive() {
		m.viewMode = ViewModeTableFiltered
	} else {
		m.viewMode = ViewModeTable
	}

	m.refreshRows()
	m.table.SetCursor(0)
}

func (m *MessageViewModel) resetFilters() {
	m.filterDraft = engine.NewFilterConfig()
	m.idInput.SetValue("")
	m.timeInput.SetValue("")
	m.lenInput.SetValue("")
	m.idSkipped = 0
	m.applyFilterDraft()
}

func (m *MessageViewModel) clearFilter() {
	m.filterDraft = engine.NewFilterConfig()
	m.idInput.SetValue("")
	m.timeInput.SetValue("")
	m.lenInput.SetValue("")
	m.session.SetFilter(m.filterDraft)
	m.viewMode = ViewModeTable
	m.refreshRows()
	m.table.SetCursor(0)
}

// parseFloatRange parses "a - b" (also "a,b" or "a b") into an inclusive
// range. A single value means an exact match range.
func parseFloatRange(text string) (float64, float64, bool) {
	lo, hi, ok := splitRange(text)
	if !ok {
		return 0, 0, false
	}
	start, err1 := strconv.ParseFloat(lo, 64)
	end, err2 := strconv.ParseFloat(hi, 64)
	if err1 != nil || err2 != nil || start > end {
		return 0, 0, false
	}
	return start, end, true
}

func parseIntRange(text string) (int, int, bool) {
	lo, hi, ok := splitRange(text)
	if !ok {
		return 0, 0, false
	}
	min, err1 := strconv.Atoi(lo)
	max, err2 := strconv.Atoi(hi)
	if err1 != nil || err2 != nil || min > max {
		return 0, 0, false
	}
	return min, max, true
}

func splitRange(text string) (string, string, bool) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '-' || r == ',' || r == ' ' || r == '\t'
	})
	switch len(fields) {
	case 1:
		return fields[0], fields[0], true
	case 2:
		return fields[0], fields[1], true
	}
	return "", "", false
}

func formatIDList(ids map[uint32]struct{}) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, 0, len(ids))
	for id := range ids {
		parts = append(parts, engine.FormatID(id))
	}
	return strings.Join(parts, ", ")
}
