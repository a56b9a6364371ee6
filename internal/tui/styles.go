package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Teal accent for QUILL branding
const quillTeal = "#2DD4BF"

// QUILL ASCII art (filled block style)
var quillArt = []string{
	" ██████╗ ██╗   ██╗██╗██╗     ██╗     ",
	"██╔═══██╗██║   ██║██║██║     ██║     ",
	"██║   ██║██║   ██║██║██║     ██║     ",
	"██║▄▄ ██║██║   ██║██║██║     ██║     ",
	"╚██████╔╝╚██████╔╝██║███████╗███████╗",
	" ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝╚══════╝",
}

// Feather ASCII art rendered beside the wordmark
var featherArt = []string{
	"   ▗▆▖",
	"  ▗█▛ ",
	" ▗█▛  ",
	"▗█▛   ",
	"█▛    ",
	"      ",
}

// Styles contains all lipgloss styles for the chat screen.
type Styles struct {
	Banner    lipgloss.Style
	User      lipgloss.Style
	System    lipgloss.Style
	Tips      lipgloss.Style
	Error     lipgloss.Style
	Separator lipgloss.Style // Horizontal line separator
	StatusBar lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		Banner:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(quillTeal)),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		System:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240")),
		Tips:      lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")), // Gray separator line
		StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("250")), // Light gray, no background
	}
}

// RenderBanner returns the QUILL ASCII art banner as a styled string.
func (s Styles) RenderBanner() string {
	var b strings.Builder
	for i := range quillArt {
		_, _ = b.WriteString(s.Banner.Render(featherArt[i]))
		_, _ = b.WriteString(s.Banner.Render(quillArt[i]))
		_, _ = b.WriteString("\n")
	}
	return b.String()
}

// welcomeTips contains getting started tips displayed under the banner.
var welcomeTips = []string{
	"Tips for getting started:",
	"  • Type a message and press Enter to send",
	"  • /image <path> attaches a picture, /upload <path> sends a document",
	"  • Use /help to see available commands",
	"  • Press Ctrl+C to clear, Ctrl+D to exit",
	"  • Up/Down arrows navigate message history",
}

// RenderWelcomeTips returns styled welcome tips.
func (s Styles) RenderWelcomeTips() string {
	var b strings.Builder
	for _, tip := range welcomeTips {
		_, _ = b.WriteString(s.Tips.Render(tip))
		_, _ = b.WriteString("\n")
	}
	return b.String()
}
