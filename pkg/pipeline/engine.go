// Package pipeline runs one fetch cycle: it extracts people from notes,
// resolves leader labels to them and composes greetings.
package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/skufinskiy/itnelep-tools/pkg/fio"
	"github.com/skufinskiy/itnelep-tools/pkg/history"
	"github.com/skufinskiy/itnelep-tools/pkg/lexicon"
	"github.com/skufinskiy/itnelep-tools/pkg/morph"
	"github.com/skufinskiy/itnelep-tools/pkg/position"
	"github.com/skufinskiy/itnelep-tools/pkg/textnorm"
)

var (
	ErrNoOrganization   = errors.New("organization is required")
	ErrLeaderIndex      = errors.New("leader index out of range")
	ErrUnknownCandidate = errors.New("no such person in notes")
	ErrNotResolved      = errors.New("leader is not resolved to a person")
	ErrNoLabelName      = errors.New("leader label has no name")
)

// Deps are the components an Engine runs. History may be nil.
type Deps struct {
	Extractor *fio.Extractor
	Matcher   *fio.Matcher
	Inflector morph.Inflector
	Abbrev    *position.Abbreviator
	Orgs      *textnorm.OrgCaser
	History   *history.Store
	Logger    *zap.Logger
}

// Engine holds the configured components. It is safe for concurrent use;
// each Session takes a snapshot of the components at Load time.
type Engine struct {
	mu   sync.RWMutex
	deps Deps
}

// New validates deps and fills optional ones.
func New(d Deps) (*Engine, error) {
	if d.Extractor == nil {
		return nil, fmt.Errorf("pipeline: extractor is required")
	}
	if d.Abbrev == nil {
		return nil, fmt.Errorf("pipeline: abbreviator is required")
	}
	if d.Matcher == nil {
		d.Matcher = fio.NewMatcher()
	}
	if d.Inflector == nil {
		d.Inflector = morph.Identity{}
	}
	if d.Orgs == nil {
		d.Orgs = textnorm.NewOrgCaser(textnorm.DefaultLegalForms)
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Engine{deps: d}, nil
}

func (e *Engine) snapshot() Deps {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.deps
}

// InflectionAvailable reports whether the configured inflector has a backend.
func (e *Engine) InflectionAvailable() bool {
	return e.snapshot().Inflector.Available()
}

// Abbreviate runs the configured position rules.
func (e *Engine) Abbreviate(title string) string {
	return e.snapshot().Abbrev.Abbreviate(title)
}

// ApplyLexicon rebuilds the stoplist, legal forms and (for the rules
// backend) the title nouns from reg.
func (e *Engine) ApplyLexicon(reg *lexicon.Registry, backend string) error {
	ex, orgs, inf, err := LexiconComponents(reg, backend)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.deps.Extractor = ex
	e.deps.Orgs = orgs
	e.deps.Inflector = inf
	e.mu.Unlock()
	return nil
}

// LexiconComponents builds the lexicon-backed components.
func LexiconComponents(reg *lexicon.Registry, backend string) (*fio.Extractor, *textnorm.OrgCaser, morph.Inflector, error) {
	inf, err := morph.New(backend, NounGenders(reg))
	if err != nil {
		return nil, nil, nil, err
	}
	ex := fio.NewExtractor(reg.Words(lexicon.KindStoplist))
	orgs := textnorm.NewOrgCaser(reg.Words(lexicon.KindLegalForms))
	return ex, orgs, inf, nil
}

// NounGenders returns the title nouns with their gender metadata.
func NounGenders(reg *lexicon.Registry) map[string]morph.Gender {
	words := reg.Words(lexicon.KindNouns)
	out := make(map[string]morph.Gender, len(words))
	for _, w := range words {
		g := morph.GenderUnknown
		if e, ok := reg.Lookup(lexicon.KindNouns, w); ok && e.Metadata != nil {
			g = morph.ParseGender(e.Metadata["gender"])
		}
		out[w] = g
	}
	return out
}
