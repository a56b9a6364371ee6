// Package history persists composer input history across runs.
//
// Entries live in ~/.quill/history, one quoted entry per line so that
// multi-line drafts survive a round trip. Concurrent quill processes are
// coordinated with an advisory file lock via github.com/gofrs/flock.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
)

const (
	historyDir  = ".quill"
	historyFile = "history"
)

// ErrInvalidMaxEntries indicates a non-positive history bound.
var ErrInvalidMaxEntries = errors.New("history: max entries must be positive")

// DefaultPath returns the history file path, creating ~/.quill if needed.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting user home directory: %w", err)
	}
	dir := filepath.Join(home, historyDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating history directory: %w", err)
	}
	return filepath.Join(dir, historyFile), nil
}

// Store reads and appends input history entries.
type Store struct {
	path       string
	maxEntries int
	lock       *flock.Flock
}

// NewStore creates a history store backed by the file at path.
// maxEntries bounds both loads and the file itself.
func NewStore(path string, maxEntries int) (*Store, error) {
	if path == "" {
		return nil, errors.New("history: path is required")
	}
	if maxEntries < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxEntries, maxEntries)
	}
	return &Store{
		path:       path,
		maxEntries: maxEntries,
		lock:       flock.New(path + ".lock"),
	}, nil
}

// Load returns the stored entries, oldest first, bounded to maxEntries.
// A missing file is not an error; it simply yields no entries.
func (s *Store) Load() ([]string, error) {
	if err := s.lock.Lock(); err != nil {
		return nil, fmt.Errorf("locking history file: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	return s.read()
}

// Append stores a new entry, dropping the oldest entries beyond the bound.
func (s *Store) Append(entry string) error {
	if entry == "" {
		return nil
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("locking history file: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	entries, err := s.read()
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > s.maxEntries {
		entries = entries[len(entries)-s.maxEntries:]
	}

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(strconv.Quote(e))
		b.WriteString("\n")
	}
	if err := os.WriteFile(s.path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("writing history file: %w", err)
	}
	return nil
}

// read parses the history file. Malformed lines are skipped rather than
// failing the whole load; a corrupt line should not lose the rest.
func (s *Store) read() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	entries := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		entry, err := strconv.Unquote(line)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	if len(entries) > s.maxEntries {
		entries = entries[len(entries)-s.maxEntries:]
	}
	return entries, nil
}
