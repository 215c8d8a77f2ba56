package fio

import (
	"strings"
	"unicode/utf8"

	"github.com/skufinskiy/itnelep-tools/pkg/textnorm"
)

// DefaultThreshold is the minimum score for a leader label to resolve.
const DefaultThreshold = 55

// Score weights.
const (
	surnameWeight     = 50
	givenWeight       = 35
	patronymicWeight  = 20
	givenInitialW     = 6
	patronymicInitial = 4
	overlapWeight     = 3
)

// Status describes the outcome of matching one leader label.
type Status string

const (
	StatusResolved       Status = "resolved"
	StatusAmbiguous      Status = "ambiguous"
	StatusBelowThreshold Status = "below-threshold"
	StatusNoCandidates   Status = "no-candidates"
	StatusEmptyLabel     Status = "empty-label"
)

// Match is the result of matching a label against the candidates.
// Candidate is set only when Status is StatusResolved.
type Match struct {
	Candidate *Candidate `json:"candidate,omitempty"`
	Score     int        `json:"score"`
	Status    Status     `json:"status"`
}

// Resolved reports whether the label resolved to a candidate.
func (m Match) Resolved() bool {
	return m.Status == StatusResolved && m.Candidate != nil
}

// Matcher resolves leader labels to extracted candidates.
type Matcher struct {
	Threshold int
}

// NewMatcher returns a Matcher with DefaultThreshold.
func NewMatcher() *Matcher {
	return &Matcher{Threshold: DefaultThreshold}
}

// Match scores every candidate against label and returns the best one if it
// clears the threshold. When several candidates share the winning surname
// and the label carries neither the winner's given name nor its initial,
// the label is reported as ambiguous instead of guessing.
func (mt *Matcher) Match(label string, cands []Candidate) Match {
	if len(cands) == 0 {
		return Match{Status: StatusNoCandidates}
	}
	tokens := textnorm.Tokenize(label)
	if len(tokens) == 0 {
		return Match{Status: StatusEmptyLabel}
	}
	tokenSet := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		tokenSet[t] = struct{}{}
	}
	initials := labelInitials(tokens)

	has := func(w string) bool { _, ok := tokenSet[w]; return ok }
	hasInitial := func(w string) bool {
		r, _ := utf8.DecodeRuneInString(w)
		_, ok := initials[r]
		return w != "" && ok
	}

	best, bestScore := -1, 0
	surnameHits := make(map[string]int)
	for i, c := range cands {
		parts := c.tokens()
		if len(parts) == 0 {
			continue
		}
		score := 0
		if has(parts[0]) {
			score += surnameWeight
			surnameHits[parts[0]]++
		}
		if len(parts) >= 2 {
			if has(parts[1]) {
				score += givenWeight
			}
			if hasInitial(parts[1]) {
				score += givenInitialW
			}
		}
		if len(parts) >= 3 {
			if has(parts[2]) {
				score += patronymicWeight
			}
			if hasInitial(parts[2]) {
				score += patronymicInitial
			}
		}
		for _, p := range parts[:min(3, len(parts))] {
			if has(p) {
				score += overlapWeight
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 {
		return Match{Status: StatusBelowThreshold}
	}
	winner := cands[best]
	parts := winner.tokens()
	if surnameHits[parts[0]] >= 2 {
		if len(parts) < 2 || !(has(parts[1]) || hasInitial(parts[1])) {
			return Match{Score: bestScore, Status: StatusAmbiguous}
		}
	}
	threshold := mt.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if bestScore < threshold {
		return Match{Score: bestScore, Status: StatusBelowThreshold}
	}
	return Match{Candidate: &winner, Score: bestScore, Status: StatusResolved}
}

// labelInitials collects single-letter tokens, including single letters
// joined by hyphens ("п-с").
func labelInitials(tokens []string) map[rune]struct{} {
	out := make(map[rune]struct{})
	for _, t := range tokens {
		for _, seg := range strings.Split(t, "-") {
			if utf8.RuneCountInString(seg) == 1 {
				r, _ := utf8.DecodeRuneInString(seg)
				out[r] = struct{}{}
			}
		}
	}
	return out
}
