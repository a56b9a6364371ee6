// Package tui provides the Bubble Tea terminal interface for quill.
//
// The model owns the scrollable transcript and delegates the input line to
// the composer widget. Composed payloads arrive through the composer's
// send callback and are appended to the transcript.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/quillchat/quill/internal/composer"
	"github.com/quillchat/quill/internal/config"
	"github.com/quillchat/quill/internal/history"
	"github.com/quillchat/quill/internal/log"
	"github.com/quillchat/quill/internal/message"
)

// Memory bounds to prevent unbounded growth.
const (
	maxMessages = 100 // Maximum transcript messages stored
	maxHistory  = 100 // Maximum in-memory input history entries
)

// Message role constants for consistent display.
const (
	roleUser   = "user"
	roleSystem = "system"
	roleError  = "error"
)

// Layout constants for viewport height calculation.
const (
	separatorLines = 2 // Two separator lines (above and below input)
	helpLines      = 1 // Help bar height
	minViewport    = 3 // Minimum viewport height
)

// Message represents a transcript entry for display.
type Message struct {
	Role string // "user", "system", "error"
	Text string
}

// Model is the Bubble Tea model for the quill terminal interface.
type Model struct {
	// Input line (owned by the composer widget)
	composer *composer.Model

	// In-memory history for Up/Down navigation, seeded from the store
	history    []string
	historyIdx int
	histStore  *history.Store

	// Output
	viewBuf  strings.Builder // Reusable buffer for View() to reduce allocations
	messages []Message

	// Scrollable transcript viewport
	viewport viewport.Model

	// Help bar for keyboard shortcuts
	help help.Model
	keys keyMap

	// Dependencies
	conversationID string
	logger         log.Logger
	ctx            context.Context
	ctxCancel      context.CancelFunc

	lastCtrlC time.Time

	// Dimensions
	width  int
	height int

	// Styles
	styles Styles

	// Markdown rendering (nil = graceful degradation to plain text)
	markdown *markdownRenderer
}

// addMessage appends a transcript entry and enforces maxMessages.
func (m *Model) addMessage(msg Message) {
	m.messages = append(m.messages, msg)
	if len(m.messages) > maxMessages {
		m.messages = m.messages[len(m.messages)-maxMessages:]
	}
}

// New creates the chat screen model. The composer is constructed here so
// its send callback can append to this model's transcript.
//
// IMPORTANT: ctx MUST be the same context passed to tea.WithContext()
// to ensure consistent cancellation behavior.
func New(
	ctx context.Context,
	cfg *config.Config,
	resizer composer.Resizer,
	uploader composer.Uploader,
	histStore *history.Store,
	conversationID string,
	logger log.Logger,
) (*Model, error) {
	if ctx == nil {
		return nil, errors.New("tui.New: ctx is required")
	}
	if cfg == nil {
		return nil, errors.New("tui.New: config is required")
	}
	if histStore == nil {
		return nil, errors.New("tui.New: history store is required")
	}
	if logger == nil {
		return nil, errors.New("tui.New: logger is required")
	}

	// Create cancellable context for cleanup on exit
	ctx, cancel := context.WithCancel(ctx)

	// Transcript viewport. Key events never reach it; scrolling is routed
	// explicitly in handleKey and via mouse wheel messages.
	vp := viewport.New(viewport.WithWidth(80), viewport.WithHeight(20))
	vp.MouseWheelEnabled = true
	vp.SoftWrap = true

	stored, err := histStore.Load()
	if err != nil {
		logger.Warn("loading input history", "error", err)
	}

	m := &Model{
		histStore:      histStore,
		history:        stored,
		historyIdx:     len(stored),
		viewport:       vp,
		help:           help.New(),
		keys:           newKeyMap(),
		styles:         DefaultStyles(),
		conversationID: conversationID,
		logger:         logger,
		ctx:            ctx,
		ctxCancel:      cancel,
		markdown:       newMarkdownRenderer(80),
		width:          80, // Default width until WindowSizeMsg arrives
	}

	comp, err := composer.New(ctx, composer.Options{
		OnSend:          m.handleSend,
		Placeholder:     cfg.Placeholder,
		ClearOnSend:     cfg.ClearOnSend,
		ConversationID:  conversationID,
		ShowImageAttach: !cfg.RetrievalMode,
	}, resizer, uploader, logger.With("component", "composer"))
	if err != nil {
		cancel()
		return nil, err
	}
	m.composer = comp

	return m, nil
}

// handleSend is the composer's send callback: it appends the payload to
// the transcript and persists the draft for history navigation.
func (m *Model) handleSend(content message.Content, conversationID string) {
	text := content.Text
	hasImage := false
	if content.IsMultimodal() {
		for _, part := range content.Parts {
			switch part.Type {
			case message.TypeText:
				text = part.Text
			case message.TypeImageURL:
				hasImage = true
			}
		}
	}

	display := text
	if hasImage {
		display += "\n[image attached]"
	}
	m.addMessage(Message{Role: roleUser, Text: display})

	// History keeps the raw draft, not the rendered transcript entry
	m.history = append(m.history, text)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
	m.historyIdx = len(m.history)

	if err := m.histStore.Append(text); err != nil {
		m.logger.Warn("persisting input history", "error", err)
	}

	m.logger.Debug("message dispatched",
		"conversation_id", conversationID,
		"multimodal", hasImage,
	)

	m.rebuildViewportContent()
	m.viewport.GotoBottom()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.composer.Init()
}

// cleanup cancels the model context and returns the quit command.
func (m *Model) cleanup() tea.Cmd {
	if m.ctxCancel != nil {
		m.ctxCancel()
		m.ctxCancel = nil
	}
	return tea.Quit
}
