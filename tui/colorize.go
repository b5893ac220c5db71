package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/table"
)

// pre-rendered tokens to avoid repeated style.Render() calls in the hot path
var (
	renderedRx      string
	renderedTx      string
	renderedPending string
)

func init() {
	renderedRx = StyleDirRx.Render("Rx")
	renderedTx = StyleDirTx.Render("Tx")
	renderedPending = StylePendingFaint.Render(pendingCell)
}

// ColorizeTableOutput post-processes the rendered table, coloring the
// direction column and fading placeholder rows. The selected row is
// skipped so its background highlight stays intact.
func ColorizeTableOutput(tableView string, cursor int, rows []table.Row) string {
	lines := strings.Split(tableView, "\n")

	// unique identifier of the selected row; the background marker alone
	// is unreliable once the table has scrolled
	var selectedIdentifier string
	if cursor >= 0 && cursor < len(rows) && len(rows[cursor]) >= 4 {
		selectedIdentifier = rows[cursor][0] + rows[cursor][1] + rows[cursor][2] + rows[cursor][3]
	}

	// ANSI sequence of the selected style from styles.go
	selectedLineMarker := "\x1b[1;38;5;201;48;2;42;26;42m"

	var result strings.Builder
	result.Grow(len(tableView) + len(lines)*32)

	for i, line := range lines {
		isSelectedLine := strings.Contains(line, selectedLineMarker) ||
			(selectedIdentifier != "" && strings.Contains(line, selectedIdentifier))

		// skip the header row (i=0) and the selected row
		if i >= 1 && !isSelectedLine {
			line = colorizeDirections(line)
			line = colorizePendingRows(line)
		}

		result.WriteString(line)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}

	return result.String()
}

func colorizeDirections(line string) string {
	if strings.Contains(line, " Rx ") {
		return strings.Replace(line, " Rx ", " "+renderedRx+" ", 1)
	}
	if strings.Contains(line, " Tx ") {
		return strings.Replace(line, " Tx ", " "+renderedTx+" ", 1)
	}
	return line
}

func colorizePendingRows(line string) string {
	if !strings.Contains(line, pendingCell) {
		return line
	}
	return strings.ReplaceAll(line, pendingCell, renderedPending)
}
