// Package fio finds personal names (surname, given name, patronymic) in
// free-text notes and matches leader labels against them.
package fio

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/skufinskiy/itnelep-tools/pkg/textnorm"
)

// Candidate is a person name found in the notes.
type Candidate struct {
	DisplayName string   `json:"display_name"`
	Parts       []string `json:"parts"`
	// Line is the zero-based notes line the name was first seen on, -1 if unknown.
	Line int `json:"line"`
}

// NewCandidate builds a candidate from a display name. Parts are the first
// three words of the name in display case.
func NewCandidate(displayName string, line int) Candidate {
	parts := textnorm.Words(displayName)
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return Candidate{DisplayName: displayName, Parts: parts, Line: line}
}

// Key is the normalized identity of the candidate.
func (c Candidate) Key() string {
	return textnorm.Key(c.DisplayName)
}

func (c Candidate) tokens() []string {
	out := make([]string, len(c.Parts))
	for i, p := range c.Parts {
		out[i] = strings.ToLower(p)
	}
	return out
}

// Index is an ordered set of candidates, unique by normalized key.
type Index struct {
	cands []Candidate
	byKey map[string]int
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{byKey: make(map[string]int)}
}

// Add appends c unless a candidate with the same key is already present.
// It reports whether c was added.
func (ix *Index) Add(c Candidate) bool {
	key := c.Key()
	if key == "" {
		return false
	}
	if _, ok := ix.byKey[key]; ok {
		return false
	}
	ix.byKey[key] = len(ix.cands)
	ix.cands = append(ix.cands, c)
	return true
}

// Len returns the number of candidates.
func (ix *Index) Len() int { return len(ix.cands) }

// Candidates returns the candidates in insertion order.
func (ix *Index) Candidates() []Candidate {
	out := make([]Candidate, len(ix.cands))
	copy(out, ix.cands)
	return out
}

// Lookup finds a candidate by name; the argument is normalized first.
func (ix *Index) Lookup(name string) (Candidate, bool) {
	i, ok := ix.byKey[textnorm.Key(name)]
	if !ok {
		return Candidate{}, false
	}
	return ix.cands[i], true
}

// Search ranks candidates by fuzzy similarity of their key to query, best
// first. An empty query returns every candidate in insertion order. limit <= 0
// means no limit.
func (ix *Index) Search(query string, limit int) []Candidate {
	q := textnorm.Key(query)
	var out []Candidate
	if q == "" {
		out = ix.Candidates()
	} else {
		keys := make([]string, len(ix.cands))
		for i, c := range ix.cands {
			keys[i] = c.Key()
		}
		for _, m := range fuzzy.Find(q, keys) {
			out = append(out, ix.cands[m.Index])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DefaultContextWindow is the number of lines shown on each side of a
// candidate's source line.
const DefaultContextWindow = 3

// ContextLine is one numbered notes line.
type ContextLine struct {
	N    int    `json:"n"`
	Text string `json:"text"`
}

// Context returns lines[center-window : center+window], clamped to bounds.
// A negative center yields nothing.
func Context(lines []string, center, window int) []ContextLine {
	if len(lines) == 0 || center < 0 || center >= len(lines) {
		return nil
	}
	lo := max(0, center-window)
	hi := min(len(lines)-1, center+window)
	out := make([]ContextLine, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, ContextLine{N: i, Text: lines[i]})
	}
	return out
}
