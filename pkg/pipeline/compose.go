package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/skufinskiy/itnelep-tools/pkg/greeting"
	"github.com/skufinskiy/itnelep-tools/pkg/morph"
	"github.com/skufinskiy/itnelep-tools/pkg/textnorm"
)

// Status is a leader's outcome after composing.
type Status string

const (
	StatusResolvedWithPosition Status = "resolved-with-position"
	StatusResolvedNoPosition   Status = "resolved-no-position"
	StatusUnresolved           Status = "unresolved-needs-manual-pick"
)

// Options control how greetings are rendered.
type Options struct {
	Organization string
	Case         morph.Case
	Format       textnorm.NameFormat
	// Only limits composing to these leader indexes. Empty means all.
	Only []int
}

// Result is one leader's composed output. Greetings is empty for
// unresolved leaders.
type Result struct {
	Index          int            `json:"index"`
	Label          string         `json:"label"`
	Status         Status         `json:"status"`
	Title          string         `json:"title,omitempty"`
	Name           string         `json:"name,omitempty"`
	Position       string         `json:"position,omitempty"`
	PositionSource PositionSource `json:"position_source,omitempty"`
	Greetings      []string       `json:"greetings,omitempty"`
	Degraded       bool           `json:"degraded,omitempty"`
}

// Block is the copyable text of the result.
func (r Result) Block() string {
	if len(r.Greetings) == 0 {
		return ""
	}
	return greeting.Block(r.Title, r.Greetings)
}

// Compose renders greetings for every resolved leader and then saves the
// session's manual positions to history. A missing organization fails the
// whole call before anything is rendered or saved.
func (s *Session) Compose(opts Options) ([]Result, error) {
	org := s.deps.Orgs.TitleCase(opts.Organization)
	if org == "" {
		return nil, ErrNoOrganization
	}
	idx, err := s.selected(opts.Only)
	if err != nil {
		return nil, err
	}

	degraded := opts.Case != morph.Nominative && !s.deps.Inflector.Available()
	if degraded {
		s.deps.Logger.Warn("inflection backend unavailable, names stay nominative",
			zap.Stringer("case", opts.Case))
	}

	out := make([]Result, 0, len(idx))
	for _, i := range idx {
		r, err := s.composeOne(i, org, opts)
		if err != nil {
			return nil, err
		}
		r.Degraded = degraded && r.Status != StatusUnresolved
		out = append(out, r)
	}
	if err := s.commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) composeOne(i int, org string, opts Options) (Result, error) {
	l := s.leaders[i]
	r := Result{Index: i, Label: l.Label, Status: StatusUnresolved}
	if l.Person == nil {
		return r, nil
	}

	full := textnorm.TitleCaseFIO(l.Person.DisplayName)
	raw, src := s.Position(i)

	name := textnorm.FormatName(s.deps.Inflector.InflectName(full, opts.Case), opts.Format)
	var post string
	if raw != "" {
		post = textnorm.LowerFirst(s.deps.Inflector.InflectPhrase(raw, opts.Case))
		post = s.deps.Abbrev.Abbreviate(post)
	}

	greetings, err := greeting.Compose(name, post, org)
	if err != nil {
		return r, fmt.Errorf("leader %d: %w", i, err)
	}

	r.Title = greeting.Title(full, raw)
	r.Name = name
	r.Position = post
	r.PositionSource = src
	r.Greetings = greetings
	r.Status = StatusResolvedNoPosition
	if post != "" {
		r.Status = StatusResolvedWithPosition
	}
	return r, nil
}

func (s *Session) selected(only []int) ([]int, error) {
	if len(only) == 0 {
		idx := make([]int, len(s.leaders))
		for i := range idx {
			idx[i] = i
		}
		return idx, nil
	}
	for _, i := range only {
		if _, err := s.leader(i); err != nil {
			return nil, err
		}
	}
	return only, nil
}

// CopyAll joins the blocks of every composed result.
func CopyAll(results []Result) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		if b := r.Block(); b != "" {
			blocks = append(blocks, b)
		}
	}
	return greeting.JoinBlocks(blocks)
}
