package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/v2/spinner"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/canscope/canscope/engine"
)

type LoadState int

const (
	LoadStateLoading LoadState = iota
	LoadStateLoaded
	LoadStateError
)

type loadCompleteMsg struct {
	session  *engine.TableSession
	duration time.Duration
}

type loadErrorMsg struct {
	err error
}

// rowBatchMsg carries a background materialization delivery into the
// event loop.
type rowBatchMsg engine.RowBatch

func (m *MessageViewModel) startLoading() tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		store, err := engine.LoadFile(m.fileName)
		if err != nil {
			return loadErrorMsg{err: err}
		}

		session := engine.NewTableSession(
			engine.WithDecoder(m.decoder),
			engine.WithTimestampFormat(engine.FormatRaw),
		)
		session.SetMessages(store)

		return loadCompleteMsg{
			session:  session,
			duration: time.Since(start),
		}
	}
}

// waitForBatch blocks on the session's delivery channel and feeds the
// next batch into Update. It re-arms itself after every rowBatchMsg.
func (m *MessageViewModel) waitForBatch() tea.Cmd {
	deliveries := m.session.Deliveries()
	return func() tea.Msg {
		batch, ok := <-deliveries
		if !ok {
			return nil
		}
		return rowBatchMsg(batch)
	}
}

func (m *MessageViewModel) renderLoadingView() string {
	spinnerStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(RGBPink)

	fileInfoStyle := lipgloss.NewStyle().
		Foreground(RGBGrey)

	title := titleStyle.Render("Loading CAN Log")
	fileInfo := fileInfoStyle.Render(fmt.Sprintf("\n%s", m.fileName))

	spinnerText := fmt.Sprintf("%s %s%s", m.loadingSpinner.View(), title, fileInfo)

	if m.loadingMessage != "" {
		messageStyle := lipgloss.NewStyle().
			Foreground(RGBBlue).
			MarginTop(2)
		spinnerText += "\n\n" + messageStyle.Render(m.loadingMessage)
	}

	return spinnerStyle.Render(spinnerText)
}

func (m *MessageViewModel) renderErrorView() string {
	errorStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(RGBRed).
		Bold(true)

	errorMsg := fmt.Sprintf("❌ Error loading CAN log\n\n%v\n\nPress 'q' to quit", m.err)
	return errorStyle.Render(errorMsg)
}

func createLoadingSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(RGBPink)
	return s
}
