package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/quillchat/quill/internal/composer"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Calculate viewport height: total - input area - separators - help
		fixedHeight := separatorLines + m.composer.Height() + helpLines
		vpHeight := max(msg.Height-fixedHeight, minViewport)

		m.viewport.SetWidth(msg.Width)
		m.viewport.SetHeight(vpHeight)
		m.composer.SetWidth(msg.Width - 4) // Room for "> " prompt
		m.help.SetWidth(msg.Width)
		m.markdown.UpdateWidth(msg.Width)

		// Rebuild viewport content with new dimensions
		m.rebuildViewportContent()
		return m, nil

	case tea.MouseWheelMsg:
		// Forward mouse wheel to viewport for scrolling
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case composer.CommandMsg:
		return m.handleCommand(msg)
	}

	// Everything else (spinner ticks, attach and upload results) belongs
	// to the composer.
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	m.rebuildViewportContent()
	return m, cmd
}
