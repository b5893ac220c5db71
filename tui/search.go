package tui

import (
	tea "github.com/charmbracelet/bubbletea/v2"
)

// handleSearchKey owns all input while the search bar is open.
func (m *MessageViewModel) handleSearchKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.searchActive = false
		m.searchInput.Blur()
		return nil

	case "enter", "return":
		m.searchQuery = m.searchInput.Value()
		m.searchActive = false
		m.searchInput.Blur()
		m.executeSearch(true)
		return nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return cmd
}

// executeSearch finds the next match relative to the cursor and recenters
// the table on it.
func (m *MessageViewModel) executeSearch(forward bool) {
	if m.session == nil || m.searchQuery == "" {
		return
	}

	from := m.session.WindowStart() + m.table.Cursor()
	logical, found := m.session.FindNext(m.searchQuery, from, forward)
	if !found {
		m.statusNote = "no match: " + m.searchQuery
		return
	}

	m.statusNote = "match: " + m.searchQuery
	m.jumpTo(logical)
}

// repeatSearch handles n/N after an initial search.
func (m *MessageViewModel) repeatSearch(forward bool) {
	if m.searchQuery == "" {
		return
	}
	m.executeSearch(forward)
}
