package composer

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

// FuzzComposer_KeyPress tests key handling with arbitrary key inputs.
func FuzzComposer_KeyPress(f *testing.F) {
	// Seed corpus: the keys the composer cares about plus regular typing
	f.Add(int32('a'), int(0))
	f.Add(int32(tea.KeyEnter), int(0))
	f.Add(int32(tea.KeyEnter), int(tea.ModShift))
	f.Add(int32(tea.KeyEnter), int(tea.ModCtrl))
	f.Add(int32(tea.KeyTab), int(0))
	f.Add(int32(tea.KeySpace), int(0))
	f.Add(int32(tea.KeyBackspace), int(0))

	f.Fuzz(func(t *testing.T, code int32, mod int) {
		m, _ := newTestComposer(t, Options{ShowImageAttach: true})

		key := tea.Key{Code: rune(code), Mod: tea.KeyMod(mod)}

		// Should never panic
		model, _ := m.Update(tea.KeyPressMsg(key))
		if model == nil {
			t.Error("Model should not be nil")
		}
	})
}

// FuzzComposer_SendGuard verifies the send guard invariant for arbitrary
// drafts: OnSend fires exactly when the trimmed draft is non-empty.
func FuzzComposer_SendGuard(f *testing.F) {
	f.Add("Hello")
	f.Add("")
	f.Add("   ")
	f.Add("\n\t ")
	f.Add("  padded  ")
	f.Add("multi\nline")

	f.Fuzz(func(t *testing.T, draft string) {
		// ClearOnSend off, so the stored draft is stable across Send.
		m, records := newTestComposer(t, Options{})
		m.SetValue(draft)

		// The textarea may normalize the raw fuzz input, so the guard is
		// checked against its view of the draft.
		wantDispatch := strings.TrimSpace(m.Value()) != ""

		dispatched := m.Send()
		if dispatched != wantDispatch {
			t.Errorf("draft %q: dispatched=%v, want %v", draft, dispatched, wantDispatch)
		}

		wantCalls := 0
		if wantDispatch {
			wantCalls = 1
		}
		if len(*records) != wantCalls {
			t.Errorf("draft %q: OnSend called %d times, want %d", draft, len(*records), wantCalls)
		}
	})
}
