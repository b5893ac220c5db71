package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/canscope/canscope/engine"
)

// ViewMode represents the different view states
type ViewMode int

const (
	ViewModeTable ViewMode = iota
	ViewModeTableFiltered
)

// ModalKind identifies the overlay currently capturing input.
type ModalKind int

const (
	ModalNone ModalKind = iota
	ModalFilter
	ModalDetail
)

type MessageViewModel struct {
	table   table.Model
	rows    []table.Row
	columns []table.Column

	session *engine.TableSession
	decoder engine.SignalDecoder

	viewMode ViewMode
	width    int
	height   int
	ready    bool
	quitting bool

	fileName string

	activeModal ModalKind

	// filter modal
	filterCursor int
	filterDraft  *engine.FilterConfig
	idInput      textinput.Model
	timeInput    textinput.Model
	lenInput     textinput.Model
	idSkipped    int

	// search bar
	searchActive bool
	searchInput  textinput.Model
	searchQuery  string

	loadState      LoadState
	loadingSpinner spinner.Model
	loadingMessage string
	loadTime       time.Duration

	statusNote string

	err error
}

func NewMessageViewModel(fileName string, decoder engine.SignalDecoder) (*MessageViewModel, error) {
	columns := []table.Column{
		{Title: "#", Width: seqColumnWidth},
		{Title: "Time", Width: timeColumnWidth},
		{Title: "Ch", Width: channelColumnWidth},
		{Title: "ID", Width: idColumnWidth},
		{Title: "Dir", Width: dirColumnWidth},
		{Title: "Len", Width: lengthColumnWidth},
		{Title: "Data", Width: dataColumnWidth},
		{Title: "Signals", Width: minSignalsWidth},
	}

	idInput := textinput.New()
	idInput.Placeholder = "0x100, 0x2A0, 3FF"
	idInput.CharLimit = 256

	timeInput := textinput.New()
	timeInput.Placeholder = "0.0 - 10.0"
	timeInput.CharLimit = 64

	lenInput := textinput.New()
	lenInput.Placeholder = "0 - 8"
	lenInput.CharLimit = 16

	searchInput := textinput.New()
	searchInput.Placeholder = "ID, data bytes or direction"
	searchInput.CharLimit = 128

	m := &MessageViewModel{
		fileName:       fileName,
		decoder:        decoder,
		columns:        columns,
		viewMode:       ViewModeTable,
		filterDraft:    engine.NewFilterConfig(),
		idInput:        idInput,
		timeInput:      timeInput,
		lenInput:       lenInput,
		searchInput:    searchInput,
		loadState:      LoadStateLoading,
		loadingSpinner: createLoadingSpinner(),
		loadingMessage: "Parsing frames...",
	}

	return m, nil
}

func (m *MessageViewModel) Init() tea.Cmd {
	return tea.Batch(
		m.loadingSpinner.Tick,
		m.startLoading(),
	)
}

func (m *MessageViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	if m.loadState == LoadStateLoading {
		m.loadingSpinner, cmd = m.loadingSpinner.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	switch msg := msg.(type) {
	case loadCompleteMsg:
		m.loadState = LoadStateLoaded
		m.session = msg.session
		m.loadTime = msg.duration

		if m.width > 0 && m.height > 0 {
			m.initializeTable()
			m.ready = true
		}
		return m, m.waitForBatch()

	case loadErrorMsg:
		m.loadState = LoadStateError
		m.err = msg.err
		return m, nil

	case rowBatchMsg:
		if m.session != nil && m.session.ApplyBatch(engine.RowBatch(msg)) && m.ready {
			m.refreshRows()
		}
		return m, m.waitForBatch()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if m.loadState == LoadStateLoaded && !m.ready && m.session != nil {
			m.initializeTable()
			m.ready = true
		} else if m.ready {
			m.updateTableDimensions()
		}

	case tea.KeyPressMsg:
		if handled, keyCmd := m.handleKey(msg); handled {
			return m, keyCmd
		}
	}

	if m.loadState == LoadStateLoaded && m.ready &&
		m.activeModal == ModalNone && !m.searchActive {
		before := m.table.Cursor()
		m.table, cmd = m.table.Update(msg)
		cmds = append(cmds, cmd)

		if m.table.Cursor() != before {
			m.handleScroll()
		}
	}

	return m, tea.Batch(cmds...)
}

// handleKey routes a keypress to the active input capture (search bar or
// modal) or to the global key map. It reports whether the key was
// consumed so table navigation only sees what is left.
func (m *MessageViewModel) handleKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return true, m.quit()
	}

	if m.searchActive {
		return true, m.handleSearchKey(msg)
	}

	if m.activeModal == ModalFilter {
		return m.handleFilterModalKeys(msg)
	}

	if m.activeModal == ModalDetail {
		switch key {
		case "esc", "enter", "q":
			m.activeModal = ModalNone
			return true, nil
		}
		return true, nil
	}

	switch key {
	case "q":
		return true, m.quit()

	case "t":
		if m.loadState == LoadStateLoaded {
			m.cycleTimestampFormat()
		}
		return true, nil

	case "f":
		if m.loadState == LoadStateLoaded {
			m.openFilterModal()
		}
		return true, nil

	case "/":
		if m.loadState == LoadStateLoaded {
			m.searchActive = true
			m.searchInput.SetValue("")
			m.searchInput.Focus()
		}
		return true, nil

	case "n":
		m.repeatSearch(true)
		return true, nil

	case "N":
		m.repeatSearch(false)
		return true, nil

	case "enter", "return":
		if m.loadState == LoadStateLoaded && m.session.RowCount() > 0 {
			m.activeModal = ModalDetail
		}
		return true, nil

	case "g", "home":
		m.jumpTo(0)
		return true, nil

	case "G", "end":
		if m.session != nil {
			m.jumpTo(m.session.DisplayCount() - 1)
		}
		return true, nil

	case "esc":
		if m.viewMode == ViewModeTableFiltered {
			m.clearFilter()
		}
		return true, nil
	}

	return false, nil
}

func (m *MessageViewModel) quit() tea.Cmd {
	m.quitting = true
	return tea.Quit
}

// Cleanup stops the session's background worker. Called by the launcher
// after the program exits.
func (m *MessageViewModel) Cleanup() error {
	if m.session == nil {
		return nil
	}
	return m.session.Close()
}

func (m *MessageViewModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.loadState {
	case LoadStateLoading:
		return m.renderLoadingView()
	case LoadStateError:
		return m.renderErrorView()
	case LoadStateLoaded:
		if !m.ready {
			return "Initializing..."
		}
		return m.render()
	default:
		return "Unknown state"
	}
}

// handleScroll feeds the cursor position into the session as a scroll
// fraction. A slide rebuilds the visible rows and repositions the cursor
// on the preserved anchor so the selected frame stays under the cursor.
func (m *MessageViewModel) handleScroll() {
	count := m.session.RowCount()
	if count == 0 {
		return
	}

	fraction := engine.ScrollFraction(m.table.Cursor(), count)
	res := m.session.OnScroll(fraction)
	if res.Slid {
		m.refreshRows()
		if res.AnchorPos >= 0 {
			m.table.SetCursor(res.AnchorPos)
		}
	}
}

// jumpTo recenters the table on a logical display index.
func (m *MessageViewModel) jumpTo(logical int) {
	if m.session == nil || m.session.DisplayCount() == 0 {
		return
	}
	pos := m.session.ScrollTo(logical)
	m.refreshRows()
	m.table.SetCursor(pos)
}

func (m *MessageViewModel) cycleTimestampFormat() {
	anchor := m.session.WindowStart() + m.table.Cursor()
	next := m.session.Formatter().Format().Next()
	m.session.SetTimestampFormat(next)
	m.statusNote = "time: " + next.String()
	m.jumpTo(anchor)
}

func (m *MessageViewModel) initializeTable() {
	m.refreshRows()

	m.table = table.New(
		table.WithColumns(m.columns),
		table.WithRows(m.rows),
		table.WithFocused(true),
		table.WithHeight(m.height-tableVerticalPadding),
		table.WithWidth(m.width),
	)

	m.table = ApplyTableStyles(m.table)
	m.adjustColumnWidths()
}

func (m *MessageViewModel) updateTableDimensions() {
	m.table.SetHeight(m.height - tableVerticalPadding)
	m.table.SetWidth(m.width)
	m.adjustColumnWidths()
}

func (m *MessageViewModel) adjustColumnWidths() {
	fixed := seqColumnWidth + timeColumnWidth + channelColumnWidth +
		idColumnWidth + dirColumnWidth + lengthColumnWidth +
		dataColumnWidth + borderPadding

	signalsWidth := m.width - fixed
	if signalsWidth < minSignalsWidth {
		signalsWidth = minSignalsWidth
	}
	if signalsWidth > maxSignalsWidth {
		signalsWidth = maxSignalsWidth
	}

	m.columns[len(m.columns)-1].Width = signalsWidth
	m.table.SetColumns(m.columns)
}
