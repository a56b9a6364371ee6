package composer

import (
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/quillchat/quill/internal/upload"
)

// CommandMsg is emitted for slash commands the composer does not own
// (/help, /clear, ...). The parent model decides what to do with it.
type CommandMsg struct {
	Name string
	Args string
}

// Attachment messages. Exactly one is produced per attach/upload action.
type imageAttachedMsg struct {
	dataURI string
}

type imageErrorMsg struct {
	err error
}

type uploadFinishedMsg struct {
	result *upload.Result
	err    error
}

// attachImage reads and resizes an image file off the Bubble Tea event
// loop. Failure yields imageErrorMsg; prior attachment state is untouched.
func (m *Model) attachImage(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return imageErrorMsg{err: err}
		}
		uri, err := m.resizer.Resize(data)
		if err != nil {
			return imageErrorMsg{err: err}
		}
		return imageAttachedMsg{dataURI: uri}
	}
}

// uploadDocument performs the single multipart POST. Success and failure
// both produce uploadFinishedMsg so the in-progress flag is always reset.
// No cancellation: once started, the upload runs to completion or failure.
func (m *Model) uploadDocument(path string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.uploader.Upload(m.ctx, path)
		return uploadFinishedMsg{result: result, err: err}
	}
}
