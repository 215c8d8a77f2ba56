// Package history persists the last confirmed position of each person,
// keyed by the normalized full name.
package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/skufinskiy/itnelep-tools/pkg/textnorm"
)

// DefaultFile is the history file name used when none is configured.
const DefaultFile = "positions_history.json"

// Store is a name→position map backed by a JSON file. Reads are concurrent;
// writes are serialized and replace the file atomically.
type Store struct {
	mu      sync.RWMutex
	path    string
	entries map[string]string
	logger  *zap.Logger
}

// Entry is one stored position.
type Entry struct {
	Key      string `json:"key"`
	Position string `json:"position"`
}

// Open loads the store from path. A missing file gives an empty store. An
// unreadable or malformed file also gives an empty store and logs a
// warning; it is overwritten on the next successful Save.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		path = DefaultFile
	}
	s := &Store{path: path, entries: make(map[string]string), logger: logger}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		logger.Warn("history file is unreadable, starting empty",
			zap.String("path", path), zap.Error(err))
		return s, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("history file is malformed, starting empty",
			zap.String("path", path), zap.Error(err))
		return s, nil
	}
	var skipped int
	for k, v := range raw {
		pos, ok := v.(string)
		key := textnorm.Key(k)
		if !ok || key == "" {
			skipped++
			continue
		}
		s.entries[key] = pos
	}
	if skipped > 0 {
		logger.Warn("history entries skipped", zap.String("path", path), zap.Int("skipped", skipped))
	}
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Get returns the stored position for a person's full name.
func (s *Store) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.entries[textnorm.Key(name)]
	return pos, ok
}

// Set stores a position in memory. An empty position removes the entry.
func (s *Store) Set(name, position string) {
	key := textnorm.Key(name)
	if key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if position == "" {
		delete(s.entries, key)
		return
	}
	s.entries[key] = position
}

// Remember stores a position and saves the file.
func (s *Store) Remember(name, position string) error {
	s.Set(name, position)
	return s.Save()
}

// Len returns the number of stored positions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Entries returns all positions sorted by key.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.entries))
	for k, v := range s.entries {
		out = append(out, Entry{Key: k, Position: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Save writes the store to a temporary file in the same directory and
// renames it over the target.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.entries); err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp history: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp history: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp history: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	s.logger.Debug("history saved", zap.String("path", s.path), zap.Int("entries", len(s.entries)))
	return nil
}
