package cmd

import (
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/canscope/canscope/tui"
)

const canscopeASCII = `  ___   __    _  _  ___   ___  _____  ____  ____
 / __) /__\  ( \( )/ __) / __)(  _  )(  _ \( ___)
( (__ /(__)\  )  ( \__ \( (__  )(_)(  )___/ )__)
 \___)(__)(__)(_)\_)(___/ \___)(_____)(__)  (____)`

// RenderBanner returns the styled canscope banner for the version screen
func RenderBanner() string {
	bannerStyle := lipgloss.NewStyle().
		Foreground(tui.RGBPink).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(tui.RGBBlue).
		Italic(true)

	containerStyle := lipgloss.NewStyle().
		Align(lipgloss.Center).
		MarginBottom(1)

	banner := bannerStyle.Render(canscopeASCII)
	subtitle := subtitleStyle.Render("canscope - terminal tooling for CAN bus captures")

	return containerStyle.Render(banner + "\n" + subtitle)
}
