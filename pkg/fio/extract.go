package fio

import (
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/skufinskiy/itnelep-tools/pkg/textnorm"
)

// nameWord is a capitalized word, an all-caps word or a lone capital.
const nameWord = `(?:[А-ЯЁA-Z][а-яёa-z\-]{1,}|[А-ЯЁA-Z]{2,}|[А-ЯЁA-Z])`

// regexp2 because \b must respect Cyrillic letters.
var nameSeqRe = regexp2.MustCompile(
	`\b(`+nameWord+`)\s+(`+nameWord+`)(?:\s+(`+nameWord+`))?\b`, regexp2.None)

// Extraction is the result of scanning notes.
type Extraction struct {
	Index *Index
	Lines []string
}

// Extractor finds name candidates in notes.
type Extractor struct {
	stop map[string]struct{}
}

// NewExtractor returns an Extractor that ignores the given stop words
// (job titles and other capitalized non-names). Words are compared by
// normalized key.
func NewExtractor(stoplist []string) *Extractor {
	e := &Extractor{stop: make(map[string]struct{}, len(stoplist))}
	for _, w := range stoplist {
		if k := textnorm.Key(w); k != "" {
			e.stop[k] = struct{}{}
		}
	}
	return e
}

// Extract picks at most one name per line and deduplicates them across the
// notes, keeping the first occurrence.
func (e *Extractor) Extract(notes string) *Extraction {
	lines := SplitLines(notes)
	ix := NewIndex()
	for i, line := range lines {
		raw, ok := e.bestInLine(line)
		if !ok {
			continue
		}
		ix.Add(NewCandidate(textnorm.TitleCaseFIO(raw), i))
	}
	return &Extraction{Index: ix, Lines: lines}
}

func (e *Extractor) bestInLine(line string) (string, bool) {
	best, bestScore := "", -1
	m, err := nameSeqRe.FindStringMatch(line)
	for ; m != nil && err == nil; m, err = nameSeqRe.FindNextMatch(m) {
		w1, w2, w3 := group(m, 1), group(m, 2), group(m, 3)
		if utf8.RuneCountInString(w1) < 2 || utf8.RuneCountInString(w2) < 2 {
			continue
		}
		if isAcronym(w1) && isAcronym(w2) {
			continue
		}
		if e.stopped(w1) || e.stopped(w2) {
			continue
		}
		words := []string{w1, w2}
		if w3 != "" && !e.stopped(w3) {
			words = append(words, w3)
		}

		score := 0
		if len(words) == 3 {
			score += 10
		}
		if !textnorm.IsUpperWord(w1) {
			score += 2
		}
		if !textnorm.IsUpperWord(w2) {
			score += 2
		}
		if len(words) == 3 && !textnorm.IsUpperWord(w3) {
			score++
		}
		if score > bestScore {
			best, bestScore = strings.Join(words, " "), score
		}
	}
	return best, bestScore >= 0
}

func (e *Extractor) stopped(w string) bool {
	_, ok := e.stop[textnorm.Key(w)]
	return ok
}

// isAcronym matches short all-caps tokens such as "ООО" or "АО".
func isAcronym(w string) bool {
	return textnorm.IsUpperWord(w) && utf8.RuneCountInString(w) <= 3
}

func group(m *regexp2.Match, n int) string {
	g := m.GroupByNumber(n)
	if g == nil || len(g.Captures) == 0 {
		return ""
	}
	return g.String()
}

// SplitLines splits notes on any line break. A trailing newline does not
// produce an empty last line; empty notes produce no lines.
func SplitLines(notes string) []string {
	if notes == "" {
		return nil
	}
	notes = strings.ReplaceAll(notes, "\r\n", "\n")
	notes = strings.ReplaceAll(notes, "\r", "\n")
	notes = strings.TrimSuffix(notes, "\n")
	return strings.Split(notes, "\n")
}
