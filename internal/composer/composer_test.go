package composer

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/goleak"

	"github.com/quillchat/quill/internal/log"
	"github.com/quillchat/quill/internal/message"
	"github.com/quillchat/quill/internal/upload"
)

// fakeResizer returns a canned data URI or error.
type fakeResizer struct {
	uri string
	err error
}

func (f fakeResizer) Resize([]byte) (string, error) { return f.uri, f.err }

// fakeUploader returns a canned result or error and records calls.
type fakeUploader struct {
	result *upload.Result
	err    error
	calls  int
	paths  []string
}

func (f *fakeUploader) Upload(_ context.Context, path string) (*upload.Result, error) {
	f.calls++
	f.paths = append(f.paths, path)
	return f.result, f.err
}

// sendRecord captures an OnSend invocation.
type sendRecord struct {
	content        message.Content
	conversationID string
}

// newTestComposer builds a composer with fake collaborators and returns
// the recorded OnSend invocations.
func newTestComposer(t *testing.T, opts Options) (*Model, *[]sendRecord) {
	t.Helper()

	records := &[]sendRecord{}
	if opts.OnSend == nil {
		opts.OnSend = func(content message.Content, conversationID string) {
			*records = append(*records, sendRecord{content: content, conversationID: conversationID})
		}
	}

	m, err := New(context.Background(), opts,
		fakeResizer{uri: "data:image/jpeg;base64,FAKE"},
		&fakeUploader{result: &upload.Result{StatusCode: 200}},
		log.NewNop(),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return m, records
}

func TestNew_Validation(t *testing.T) {
	onSend := func(message.Content, string) {}
	resizer := fakeResizer{}
	uploader := &fakeUploader{}
	logger := log.NewNop()
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func() (*Model, error)
	}{
		{"nil ctx", func() (*Model, error) {
			//lint:ignore SA1012 intentionally testing nil context handling
			return New(nil, Options{OnSend: onSend}, resizer, uploader, logger) //nolint:staticcheck
		}},
		{"nil OnSend", func() (*Model, error) {
			return New(ctx, Options{}, resizer, uploader, logger)
		}},
		{"nil resizer", func() (*Model, error) {
			return New(ctx, Options{OnSend: onSend}, nil, uploader, logger)
		}},
		{"nil uploader", func() (*Model, error) {
			return New(ctx, Options{OnSend: onSend}, resizer, nil, logger)
		}},
		{"nil logger", func() (*Model, error) {
			return New(ctx, Options{OnSend: onSend}, resizer, uploader, nil)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.fn(); err == nil {
				t.Error("expected constructor error")
			}
		})
	}
}

func TestSend_TextOnly(t *testing.T) {
	defer goleak.VerifyNone(t)

	m, records := newTestComposer(t, Options{ClearOnSend: true})
	m.SetValue("Hello")

	if !m.Send() {
		t.Fatal("Send should dispatch a non-empty draft")
	}

	if len(*records) != 1 {
		t.Fatalf("expected OnSend called once, got %d", len(*records))
	}
	rec := (*records)[0]
	if rec.content.IsMultimodal() || rec.content.Text != "Hello" {
		t.Errorf("expected plain text payload \"Hello\", got %+v", rec.content)
	}
	if rec.conversationID != "" {
		t.Errorf("expected no conversation ID, got %q", rec.conversationID)
	}
	if m.Value() != "" {
		t.Errorf("ClearOnSend should reset the draft, got %q", m.Value())
	}
}

func TestSend_Guards(t *testing.T) {
	tests := []struct {
		name     string
		draft    string
		disabled bool
	}{
		{"disabled", "Hello", true},
		{"empty draft", "", false},
		{"whitespace only", "   ", false},
		{"newlines only", "\n\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, records := newTestComposer(t, Options{Disabled: tt.disabled})
			m.SetValue(tt.draft)
			m.attachedImage = "data:image/png;base64,KEEP"

			if m.Send() {
				t.Error("Send should be a no-op")
			}
			if len(*records) != 0 {
				t.Errorf("OnSend must not be called, got %d calls", len(*records))
			}
			// A guarded-out send leaves the attachment in place.
			if m.AttachedImage() != "data:image/png;base64,KEEP" {
				t.Error("no-op send must not clear the attached image")
			}
			if m.Value() != tt.draft {
				t.Errorf("no-op send must not alter the draft, got %q", m.Value())
			}
		})
	}
}

func TestSend_KeepsDraftWithoutClearOnSend(t *testing.T) {
	m, records := newTestComposer(t, Options{})
	m.SetValue("keep me")

	if !m.Send() {
		t.Fatal("Send should dispatch")
	}
	if len(*records) != 1 {
		t.Fatalf("expected 1 send, got %d", len(*records))
	}
	if m.Value() != "keep me" {
		t.Errorf("draft should be unchanged without ClearOnSend, got %q", m.Value())
	}
}

func TestSend_RawDraftIsNotTrimmed(t *testing.T) {
	m, records := newTestComposer(t, Options{})
	m.SetValue("  padded  ")

	if !m.Send() {
		t.Fatal("Send should dispatch")
	}
	if (*records)[0].content.Text != "  padded  " {
		t.Errorf("sent value must keep surrounding whitespace, got %q", (*records)[0].content.Text)
	}
}

func TestSend_WithAttachedImage(t *testing.T) {
	m, records := newTestComposer(t, Options{})
	m.SetValue("describe this")
	m.attachedImage = "data:image/jpeg;base64,ABCD"

	if !m.Send() {
		t.Fatal("Send should dispatch")
	}

	content := (*records)[0].content
	if !content.IsMultimodal() || len(content.Parts) != 2 {
		t.Fatalf("expected two-part payload, got %+v", content)
	}
	if content.Parts[0].Type != message.TypeText || content.Parts[0].Text != "describe this" {
		t.Errorf("first part must be the draft text, got %+v", content.Parts[0])
	}
	if content.Parts[1].Type != message.TypeImageURL ||
		content.Parts[1].ImageURL == nil ||
		content.Parts[1].ImageURL.URL != "data:image/jpeg;base64,ABCD" {
		t.Errorf("second part must reference the attached image, got %+v", content.Parts[1])
	}

	// Attachment is always cleared after a dispatched send.
	if m.AttachedImage() != "" {
		t.Error("attached image must be cleared after send")
	}
}

func TestSend_ImageClearedEvenWithoutClearOnSend(t *testing.T) {
	m, _ := newTestComposer(t, Options{})
	m.SetValue("text stays")
	m.attachedImage = "data:image/png;base64,XYZ"

	m.Send()

	if m.AttachedImage() != "" {
		t.Error("attached image must be cleared after every dispatched send")
	}
	if m.Value() != "text stays" {
		t.Error("draft must survive when ClearOnSend is off")
	}
}

func TestSend_ForwardsConversationID(t *testing.T) {
	m, records := newTestComposer(t, Options{ConversationID: "7e57d004-2b97-0e7a-b45f-5387367791cd"})
	m.SetValue("Hello")

	m.Send()

	if got := (*records)[0].conversationID; got != "7e57d004-2b97-0e7a-b45f-5387367791cd" {
		t.Errorf("conversation ID not forwarded, got %q", got)
	}
}

func TestHandleKey_EnterSubmits(t *testing.T) {
	defer goleak.VerifyNone(t)

	m, records := newTestComposer(t, Options{ClearOnSend: true})
	m.SetValue("Hello")

	enter := tea.KeyPressMsg(tea.Key{Code: tea.KeyEnter})
	m, _ = m.Update(enter)

	if len(*records) != 1 {
		t.Fatalf("Enter should dispatch exactly one send, got %d", len(*records))
	}
	if m.Value() != "" {
		t.Error("draft should be cleared after Enter send")
	}
}

func TestHandleKey_ShiftEnterInsertsNewline(t *testing.T) {
	m, records := newTestComposer(t, Options{})
	m.SetValue("line one")

	shiftEnter := tea.KeyPressMsg(tea.Key{Code: tea.KeyEnter, Mod: tea.ModShift})
	m, _ = m.Update(shiftEnter)

	if len(*records) != 0 {
		t.Error("Shift+Enter must not dispatch a send")
	}
	if m.LineCount() < 2 {
		t.Errorf("Shift+Enter should add a newline, got %d lines", m.LineCount())
	}
}

func TestHandleKey_IgnoredWhileUploading(t *testing.T) {
	m, records := newTestComposer(t, Options{})
	m.SetValue("Hello")
	m.uploading = true

	enter := tea.KeyPressMsg(tea.Key{Code: tea.KeyEnter})
	m, _ = m.Update(enter)

	if len(*records) != 0 {
		t.Error("input must be disabled while uploading")
	}
}

func TestView_SwapsPromptWhileUploading(t *testing.T) {
	m, _ := newTestComposer(t, Options{})

	idle := m.View()
	m.uploading = true
	busy := m.View()

	if idle == busy {
		t.Error("uploading state should change the rendered prompt")
	}
}

func TestView_ShowsAttachmentIndicator(t *testing.T) {
	m, _ := newTestComposer(t, Options{})

	before := m.View()
	m.attachedImage = "data:image/png;base64,AAA"
	after := m.View()

	if before == after {
		t.Error("pending attachment should be visible in the view")
	}
}
