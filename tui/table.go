package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/v2/table"

	"github.com/canscope/canscope/engine"
)

// refreshRows rebuilds the visible row set from the session. Rows whose
// chunk has not been materialized yet render as placeholders; the
// delivery that fills them triggers another refresh.
func (m *MessageViewModel) refreshRows() {
	count := m.session.RowCount()
	rows := make([]table.Row, 0, count)

	for i := 0; i < count; i++ {
		rows = append(rows, formatMessageRow(m.session.RowAt(i)))
	}

	m.rows = rows
	if m.ready {
		m.table.SetRows(m.rows)
	}
}

func formatMessageRow(r engine.Row) table.Row {
	if !r.Valid() {
		return table.Row{
			pendingCell, pendingCell, pendingCell, pendingCell,
			pendingCell, pendingCell, pendingCell, pendingCell,
		}
	}

	return table.Row{
		strconv.Itoa(r.Seq),
		r.Timestamp,
		r.Channel,
		r.ID,
		r.Dir.String(),
		strconv.Itoa(r.Length),
		r.Data,
		r.Signals,
	}
}
