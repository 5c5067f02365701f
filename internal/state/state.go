// Package state remembers where the listener stopped in each document.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const stateFileName = "reading_positions.json"

// Position is the saved place in one document.
type Position struct {
	Sentence  int       `json:"sentence"` // ordinal into the pack's sentences
	Title     string    `json:"title,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StateStore manages persistent reading positions keyed by content hash.
type StateStore struct {
	path string
	data map[string]Position
	mu   sync.RWMutex
	now  func() time.Time
}

// NewStateStore creates or loads state from dir, or from
// $XDG_STATE_HOME/papervox when dir is empty.
func NewStateStore(dir string) (*StateStore, error) {
	if dir == "" {
		dir = defaultStateDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	store := &StateStore{
		path: filepath.Join(dir, stateFileName),
		data: make(map[string]Position),
		now:  time.Now,
	}
	if err := store.load(); err != nil {
		// A corrupt file only loses positions.
		store.data = make(map[string]Position)
	}
	return store, nil
}

// defaultStateDir returns XDG_STATE_HOME/papervox or ~/.local/state/papervox.
func defaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "papervox")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "papervox")
}

// Hash returns the content hash of r: the first 16 bytes of its SHA-256
// as 32 hex characters.
func Hash(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16]), nil
}

// ComputeHash hashes a file's content.
func ComputeHash(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return Hash(f)
}

// GetPosition returns the saved position for hash.
func (s *StateStore) GetPosition(hash string) (Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.data[hash]
	return p, ok
}

// SetPosition saves the sentence ordinal for hash.
func (s *StateStore) SetPosition(hash, title string, sentence int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[hash] = Position{Sentence: sentence, Title: title, UpdatedAt: s.now().UTC()}
	return s.save()
}

// Clear removes the saved position for hash.
func (s *StateStore) Clear(hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, hash)
	return s.save()
}

func (s *StateStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

func (s *StateStore) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return os.Rename(tmp, s.path)
}
