package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skufinskiy/itnelep-tools/pkg/fio"
	"github.com/skufinskiy/itnelep-tools/pkg/textnorm"
)

// PositionSource tells where a leader's position came from.
type PositionSource string

const (
	SourceNone     PositionSource = ""
	SourceOverride PositionSource = "override"
	SourceHistory  PositionSource = "history"
)

// LabelPick is the pick value that makes a leader use the name on its own
// label instead of a person from the notes.
const LabelPick = "@label"

// Leader is one leader label and its resolution.
type Leader struct {
	Label      string         `json:"label"`
	Backup     string         `json:"backup,omitempty"`
	LastBackup *time.Time     `json:"last_backup,omitempty"`
	Match      fio.Match      `json:"match"`
	Person     *fio.Candidate `json:"person,omitempty"`
	Picked     bool           `json:"picked,omitempty"`
	// FromLabel is set when Person was built from the label, not the notes.
	FromLabel bool `json:"from_label,omitempty"`
}

// Session is one fetch cycle. It is not safe for concurrent use.
type Session struct {
	deps      Deps
	notes     *fio.Extraction
	leaders   []Leader
	overrides map[string]string
	// pending overrides are written to history by the next successful Compose.
	pending map[string]string
}

// Load extracts people from notes and matches every label against them.
func (e *Engine) Load(notes string, labels []string) *Session {
	return e.LoadCards(notes, labels, nil)
}

// LoadCards is Load for leader cards whose last-backup line is kept apart
// from the label. backups[i] belongs to labels[i] and may be empty or
// missing; only the label is matched.
func (e *Engine) LoadCards(notes string, labels, backups []string) *Session {
	d := e.snapshot()
	s := &Session{
		deps:      d,
		notes:     d.Extractor.Extract(notes),
		leaders:   make([]Leader, 0, len(labels)),
		overrides: make(map[string]string),
		pending:   make(map[string]string),
	}
	cands := s.notes.Index.Candidates()

	var resolved int
	for i, label := range labels {
		l := Leader{Label: label, Match: d.Matcher.Match(label, cands)}
		if i < len(backups) {
			l.Backup = strings.TrimSpace(backups[i])
		}
		if ts, ok := fio.ParseBackupTime(l.Backup); ok {
			l.LastBackup = &ts
		} else if ts, ok := fio.ParseBackupTime(label); ok {
			l.LastBackup = &ts
		}
		if l.Match.Resolved() {
			l.Person = l.Match.Candidate
			resolved++
		}
		s.leaders = append(s.leaders, l)
	}
	d.Logger.Debug("session loaded",
		zap.Int("lines", len(s.notes.Lines)),
		zap.Int("candidates", len(cands)),
		zap.Int("leaders", len(labels)),
		zap.Int("resolved", resolved))
	return s
}

// Leaders returns the leader entries in label order.
func (s *Session) Leaders() []Leader {
	out := make([]Leader, len(s.leaders))
	copy(out, s.leaders)
	return out
}

// Candidates returns the people found in the notes.
func (s *Session) Candidates() []fio.Candidate {
	return s.notes.Index.Candidates()
}

// Lines returns the notes split into lines.
func (s *Session) Lines() []string {
	return s.notes.Lines
}

func (s *Session) leader(i int) (*Leader, error) {
	if i < 0 || i >= len(s.leaders) {
		return nil, fmt.Errorf("%w: %d", ErrLeaderIndex, i)
	}
	return &s.leaders[i], nil
}

// Pick assigns the person with the given name to leader i, replacing any
// automatic match.
func (s *Session) Pick(i int, name string) error {
	l, err := s.leader(i)
	if err != nil {
		return err
	}
	c, ok := s.notes.Index.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCandidate, name)
	}
	l.Person = &c
	l.Picked = true
	return nil
}

// PickQuery assigns the best fuzzy match for query to leader i.
func (s *Session) PickQuery(i int, query string) (fio.Candidate, error) {
	if _, err := s.leader(i); err != nil {
		return fio.Candidate{}, err
	}
	found := s.notes.Index.Search(query, 1)
	if len(found) == 0 {
		return fio.Candidate{}, fmt.Errorf("%w: %q", ErrUnknownCandidate, query)
	}
	return found[0], s.Pick(i, found[0].DisplayName)
}

// UseLabel makes leader i stand for the name written on its own label, for
// people who are not mentioned in the notes.
func (s *Session) UseLabel(i int) error {
	l, err := s.leader(i)
	if err != nil {
		return err
	}
	name := textnorm.TitleCaseFIO(fio.LabelName(l.Label))
	if textnorm.Key(name) == "" {
		return fmt.Errorf("%w: %q", ErrNoLabelName, l.Label)
	}
	c := fio.NewCandidate(name, -1)
	l.Person = &c
	l.Picked = true
	l.FromLabel = true
	return nil
}

// Assign applies one manual pick: LabelPick uses the label's own name, an
// exact name picks that person, anything else the closest fuzzy match.
func (s *Session) Assign(i int, value string) error {
	value = strings.TrimSpace(value)
	switch value {
	case LabelPick:
		return s.UseLabel(i)
	case "":
		return fmt.Errorf("%w: empty pick", ErrUnknownCandidate)
	}
	err := s.Pick(i, value)
	if errors.Is(err, ErrUnknownCandidate) {
		_, err = s.PickQuery(i, value)
	}
	return err
}

// SetPosition records a manual position for leader i. It is written to the
// history store by the next successful Compose.
func (s *Session) SetPosition(i int, pos string) error {
	l, err := s.leader(i)
	if err != nil {
		return err
	}
	if l.Person == nil {
		return fmt.Errorf("%w: %q", ErrNotResolved, l.Label)
	}
	pos = strings.TrimSpace(pos)
	if pos == "" {
		return nil
	}
	key := textnorm.Key(textnorm.TitleCaseFIO(l.Person.DisplayName))
	s.overrides[key] = pos
	s.pending[key] = pos
	return nil
}

// commit writes pending overrides to the history store in one save.
func (s *Session) commit() error {
	if s.deps.History == nil || len(s.pending) == 0 {
		return nil
	}
	for key, pos := range s.pending {
		s.deps.History.Set(key, pos)
	}
	if err := s.deps.History.Save(); err != nil {
		return fmt.Errorf("save positions: %w", err)
	}
	s.pending = make(map[string]string)
	return nil
}

// Position returns leader i's position: a manual override first, then
// the history store.
func (s *Session) Position(i int) (string, PositionSource) {
	l, err := s.leader(i)
	if err != nil || l.Person == nil {
		return "", SourceNone
	}
	key := textnorm.Key(textnorm.TitleCaseFIO(l.Person.DisplayName))
	if pos := s.overrides[key]; pos != "" {
		return pos, SourceOverride
	}
	if s.deps.History != nil {
		if pos, ok := s.deps.History.Get(key); ok && strings.TrimSpace(pos) != "" {
			return strings.TrimSpace(pos), SourceHistory
		}
	}
	return "", SourceNone
}

// Context returns the notes lines around leader i's person.
func (s *Session) Context(i int) []fio.ContextLine {
	l, err := s.leader(i)
	if err != nil || l.Person == nil || l.Person.Line < 0 {
		return nil
	}
	return fio.Context(s.notes.Lines, l.Person.Line, fio.DefaultContextWindow)
}
