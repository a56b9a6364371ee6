package composer

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Styles for the composer's own line. The parent owns everything around it.
type Styles struct {
	Prompt     lipgloss.Style
	Attachment lipgloss.Style
	Uploading  lipgloss.Style
}

// DefaultStyles returns the default composer styling.
func DefaultStyles() Styles {
	return Styles{
		Prompt:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Attachment: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("212")),
		Uploading:  lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240")),
	}
}

// View renders the input line with its prompt, plus a one-line attachment
// indicator when an image is pending. While an upload is in flight the
// prompt is swapped for a spinner.
func (m *Model) View() string {
	styles := DefaultStyles()

	var b strings.Builder
	if m.attachedImage != "" {
		b.WriteString(styles.Attachment.Render("[image attached]"))
		b.WriteString("\n")
	}

	if m.uploading {
		b.WriteString(m.spinner.View())
		b.WriteString(styles.Uploading.Render(" uploading... "))
	} else {
		b.WriteString(styles.Prompt.Render("> "))
	}
	b.WriteString(m.input.View())

	return b.String()
}
