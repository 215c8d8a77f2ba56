// Package ingest reads one fetch cycle's inputs (notes text and leader
// labels) from a saved page or a plain directory.
package ingest

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Snapshot is the raw input of one fetch cycle. Backups, when set, holds
// the last-backup line of each leader card, index-aligned with Leaders.
type Snapshot struct {
	Source  string   `json:"source"`
	Origin  string   `json:"origin"`
	Notes   string   `json:"notes"`
	Leaders []string `json:"leaders"`
	Backups []string `json:"backups,omitempty"`
}

// Options tune how a Source reads its location.
type Options struct {
	// Encoding is an IANA or WHATWG name; empty means UTF-8.
	Encoding string
	Retries  int
	Timeout  time.Duration
	Backoff  time.Duration
	Client   *http.Client
}

func (o Options) withDefaults() Options {
	if o.Retries <= 0 {
		o.Retries = 3
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Backoff <= 0 {
		o.Backoff = time.Second
	}
	if o.Client == nil {
		o.Client = &http.Client{Timeout: o.Timeout}
	}
	return o
}

// Source reads a Snapshot from a location (a path or URL).
type Source interface {
	// ID returns the name used to select the source ("html", "dir").
	ID() string
	Description() string
	Fetch(ctx context.Context, location string, opts Options) (*Snapshot, error)
}

var (
	registryMu sync.RWMutex
	sources    = make(map[string]Source)
)

// Register adds a source to the global registry.
func Register(s Source) {
	registryMu.Lock()
	defer registryMu.Unlock()
	sources[s.ID()] = s
}

// Get returns a registered source by ID.
func Get(id string) (Source, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := sources[id]
	if !ok {
		return nil, fmt.Errorf("unknown ingest source: %q", id)
	}
	return s, nil
}

// All returns all registered sources sorted by ID.
func All() []Source {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Source, 0, len(sources))
	for _, s := range sources {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Fetch reads location with the source registered under id.
func Fetch(ctx context.Context, id, location string, opts Options) (*Snapshot, error) {
	s, err := Get(id)
	if err != nil {
		return nil, err
	}
	snap, err := s.Fetch(ctx, location, opts)
	if err != nil {
		return nil, fmt.Errorf("%s source: %w", id, err)
	}
	return snap, nil
}
