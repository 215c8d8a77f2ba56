// Package lexicon loads the word lists the extractor, organization caser and
// inflector depend on. Built-in lists are embedded; a directory of
// manifest.yaml + data.csv pairs can add to or replace them at runtime.
package lexicon

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
)

//go:embed defaults
var embedded embed.FS

// Defaults returns the embedded built-in lists.
func Defaults() fs.FS {
	sub, err := fs.Sub(embedded, "defaults")
	if err != nil {
		panic(err)
	}
	return sub
}

// Registry holds all loaded word lists.
type Registry struct {
	mu       sync.RWMutex
	lists    map[string]*List
	defaults fs.FS
	dir      string
	logger   *zap.Logger
}

// NewRegistry creates a registry backed by the embedded lists and, when dir
// is non-empty, by the lists found in dir. A list in dir replaces the
// built-in list with the same id.
func NewRegistry(dir string, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		lists:    make(map[string]*List),
		defaults: Defaults(),
		dir:      dir,
		logger:   logger,
	}
}

// Load reads the built-in lists, then the configured directory.
func (r *Registry) Load() error {
	next := make(map[string]*List)
	if err := loadAll(r.defaults, next, r.logger); err != nil {
		return fmt.Errorf("load built-in lists: %w", err)
	}
	if r.dir != "" {
		if _, err := os.Stat(r.dir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("stat lexicon dir %s: %w", r.dir, err)
			}
			r.logger.Warn("lexicon dir missing, using built-in lists", zap.String("dir", r.dir))
		} else if err := loadAll(os.DirFS(r.dir), next, r.logger); err != nil {
			return fmt.Errorf("load lexicon dir %s: %w", r.dir, err)
		}
	}

	r.mu.Lock()
	r.lists = next
	r.mu.Unlock()
	return nil
}

// Reload reloads all lists (hot reload).
func (r *Registry) Reload() error {
	return r.Load()
}

func loadAll(fsys fs.FS, into map[string]*List, logger *zap.Logger) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := fs.Stat(fsys, entry.Name()+"/manifest.yaml"); err != nil {
			continue
		}
		l, err := LoadList(fsys, entry.Name(), logger)
		if err != nil {
			return err
		}
		into[l.Manifest.ID] = l
	}
	return nil
}

// Words returns the sorted union of the normalized words of every list of
// the given kind.
func (r *Registry) Words(kind string) []string {
	set := r.Set(kind)
	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Set returns the union of the normalized words of every list of the given kind.
func (r *Registry) Set(kind string) map[string]struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := make(map[string]struct{})
	for _, l := range r.lists {
		if l.Manifest.Kind != kind {
			continue
		}
		for w := range l.Entries {
			set[w] = struct{}{}
		}
	}
	return set
}

// Lookup returns the first entry for term among lists of the given kind,
// iterating lists in id order.
func (r *Registry) Lookup(kind, term string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.sortedIDs() {
		l := r.lists[id]
		if l.Manifest.Kind != kind {
			continue
		}
		if e, ok := l.Entries[l.normalize(term)]; ok {
			return e, true
		}
	}
	return nil, false
}

// ListInfo is the public metadata for a loaded list.
type ListInfo struct {
	ID       string `json:"id"`
	Version  string `json:"version"`
	Kind     string `json:"kind"`
	Language string `json:"language"`
	Entries  int    `json:"entries"`
}

// Lists returns metadata for all loaded lists, sorted by id.
func (r *Registry) Lists() []ListInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]ListInfo, 0, len(r.lists))
	for _, id := range r.sortedIDs() {
		l := r.lists[id]
		infos = append(infos, ListInfo{
			ID:       l.Manifest.ID,
			Version:  l.Manifest.Version,
			Kind:     l.Manifest.Kind,
			Language: l.Manifest.Language,
			Entries:  len(l.Entries),
		})
	}
	return infos
}

func (r *Registry) sortedIDs() []string {
	ids := make([]string, 0, len(r.lists))
	for id := range r.lists {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
