// Package composer implements the message input widget for the chat
// screen: a text box that composes a draft, optionally attaches a resized
// image or uploads a document to the ingestion endpoint, and hands the
// finished payload to the parent via a send callback.
package composer

import (
	"context"
	"errors"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quillchat/quill/internal/log"
	"github.com/quillchat/quill/internal/message"
	"github.com/quillchat/quill/internal/upload"
)

// Slash commands owned by the composer. Anything else that looks like a
// command bubbles up to the parent as a CommandMsg.
const (
	cmdImage  = "/image"
	cmdUpload = "/upload"
)

// Resizer converts raw image bytes into a bounded, base64 data URI.
type Resizer interface {
	Resize(data []byte) (string, error)
}

// Uploader posts a document file to the ingestion endpoint.
type Uploader interface {
	Upload(ctx context.Context, path string) (*upload.Result, error)
}

// Options is the composer's public contract with its parent.
type Options struct {
	// OnSend receives the composed payload. Required. The conversation ID
	// is forwarded verbatim; empty means no conversation is pinned.
	OnSend func(content message.Content, conversationID string)

	// Disabled suppresses all submission.
	Disabled bool

	// Placeholder is shown while the draft is empty.
	Placeholder string

	// ClearOnSend resets the draft after a dispatched send.
	ClearOnSend bool

	// ConversationID is forwarded unchanged to OnSend when present.
	ConversationID string

	// ShowImageAttach controls the image-attachment affordance. When
	// false (retrieval mode), /image is not recognized at all.
	ShowImageAttach bool
}

// Model is the Bubble Tea model for the composer widget.
type Model struct {
	opts Options

	// Input (textarea for multi-line support, Shift+Enter for newline)
	input textarea.Model

	// Transient attachment state. attachedImage is a data URI, set when
	// the resize completes and cleared after every dispatched send.
	attachedImage string

	// uploading is true only while a document upload is in flight.
	// It disables input and swaps the prompt for a spinner.
	uploading bool
	spinner   spinner.Model

	// Collaborators (direct, no retry, failures logged and dropped)
	resizer  Resizer
	uploader Uploader
	logger   log.Logger
	ctx      context.Context

	width int
}

// New creates a composer widget.
// Returns error if required dependencies are nil.
func New(ctx context.Context, opts Options, resizer Resizer, uploader Uploader, logger log.Logger) (*Model, error) {
	if ctx == nil {
		return nil, errors.New("composer.New: ctx is required")
	}
	if opts.OnSend == nil {
		return nil, errors.New("composer.New: OnSend is required")
	}
	if resizer == nil {
		return nil, errors.New("composer.New: resizer is required")
	}
	if uploader == nil {
		return nil, errors.New("composer.New: uploader is required")
	}
	if logger == nil {
		return nil, errors.New("composer.New: logger is required")
	}

	// Single-line textarea, growing on Shift+Enter
	ta := textarea.New()
	ta.Placeholder = opts.Placeholder
	ta.SetHeight(1)
	ta.SetWidth(120) // Updated by the parent on WindowSizeMsg
	ta.MaxWidth = 0
	ta.ShowLineNumbers = false

	// Plain styling, no backgrounds
	cleanStyle := textarea.StyleState{
		Base:        lipgloss.NewStyle(),
		Text:        lipgloss.NewStyle(),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Prompt:      lipgloss.NewStyle(),
	}
	ta.SetStyles(textarea.Styles{
		Focused: cleanStyle,
		Blurred: cleanStyle,
	})
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		opts:     opts,
		input:    ta,
		spinner:  sp,
		resizer:  resizer,
		uploader: uploader,
		logger:   logger,
		ctx:      ctx,
		width:    80,
	}, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.input.Focus(),
	)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.uploading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case imageAttachedMsg:
		m.attachedImage = msg.dataURI
		return m, nil

	case imageErrorMsg:
		// Resize failures are swallowed: log and keep prior state so a
		// text-only send is never blocked.
		m.logger.Error("image attach failed", "error", msg.err)
		return m, nil

	case uploadFinishedMsg:
		m.uploading = false
		if msg.err != nil {
			m.logger.Error("document upload failed", "error", msg.err)
			return m, nil
		}
		m.logger.Debug("document upload finished", "status", msg.result.StatusCode)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (*Model, tea.Cmd) {
	// Inputs are disabled while an upload is in flight.
	if m.uploading {
		return m, nil
	}

	k := msg.Key()
	if k.Code == tea.KeyEnter && k.Mod == 0 {
		// Enter submits; Shift+Enter falls through to the textarea
		// as a newline.
		return m.handleSubmit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSubmit routes slash commands and dispatches sends.
func (m *Model) handleSubmit() (*Model, tea.Cmd) {
	trimmed := strings.TrimSpace(m.input.Value())
	if strings.HasPrefix(trimmed, "/") {
		return m.handleSlashCommand(trimmed)
	}

	m.Send()
	return m, nil
}

// Send dispatches the current draft to the parent's OnSend callback.
// It is a no-op when the composer is disabled or the trimmed draft is
// empty. Reports whether a payload was dispatched.
//
// The attached image is cleared after every dispatched send; the draft is
// cleared only when ClearOnSend was requested. Trimming is only applied
// to the guard, never to the sent value.
func (m *Model) Send() bool {
	if m.opts.Disabled {
		return false
	}
	draft := m.input.Value()
	if strings.TrimSpace(draft) == "" {
		return false
	}

	var content message.Content
	if m.attachedImage != "" {
		content = message.Multimodal(
			message.TextPart(draft),
			message.ImageURLPart(m.attachedImage),
		)
	} else {
		content = message.Text(draft)
	}

	m.opts.OnSend(content, m.opts.ConversationID)

	m.attachedImage = ""
	if m.opts.ClearOnSend {
		m.input.Reset()
	}
	return true
}

func (m *Model) handleSlashCommand(input string) (*Model, tea.Cmd) {
	name, args, _ := strings.Cut(input, " ")
	args = strings.TrimSpace(args)

	switch {
	case name == cmdImage && m.opts.ShowImageAttach:
		m.input.Reset()
		if args == "" {
			m.logger.Warn("image attach requested without a path")
			return m, nil
		}
		return m, m.attachImage(args)

	case name == cmdUpload:
		m.input.Reset()
		if args == "" {
			m.logger.Warn("upload requested without a path")
			return m, nil
		}
		m.uploading = true
		return m, tea.Batch(m.spinner.Tick, m.uploadDocument(args))
	}

	// Not ours (including /image while the affordance is hidden):
	// bubble to the parent.
	m.input.Reset()
	return m, func() tea.Msg {
		return CommandMsg{Name: name, Args: args}
	}
}

// Value returns the current draft text.
func (m *Model) Value() string { return m.input.Value() }

// SetValue replaces the draft text and moves the cursor to the end.
func (m *Model) SetValue(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}

// Reset clears the draft.
func (m *Model) Reset() { m.input.Reset() }

// Focus focuses the underlying textarea.
func (m *Model) Focus() tea.Cmd { return m.input.Focus() }

// SetWidth resizes the input to the given width.
func (m *Model) SetWidth(w int) {
	m.width = w
	m.input.SetWidth(w)
}

// Height returns the rendered height of the input area.
func (m *Model) Height() int { return m.input.Height() }

// Line returns the cursor's current line index.
func (m *Model) Line() int { return m.input.Line() }

// LineCount returns the number of lines in the draft.
func (m *Model) LineCount() int { return m.input.LineCount() }

// AttachedImage returns the pending image data URI, empty when none.
func (m *Model) AttachedImage() string { return m.attachedImage }

// Uploading reports whether a document upload is in flight.
func (m *Model) Uploading() bool { return m.uploading }
