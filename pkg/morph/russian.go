package morph

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kljensen/snowball"
)

// Gender is the grammatical gender of a name or noun.
type Gender int

const (
	GenderUnknown Gender = iota
	Male
	Female
)

// ParseGender reads "m"/"f" style lexicon metadata.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male", "м", "муж":
		return Male
	case "f", "female", "ж", "жен":
		return Female
	}
	return GenderUnknown
}

var wordRe = regexp.MustCompile(`^([«"(]*)([А-ЯЁа-яёA-Za-z\-]+)([»")]*[.,:]*)$`)

var prepositions = set("по", "в", "во", "на", "с", "со", "для", "при", "от", "к", "ко", "из", "за", "об", "о", "у", "и")

// Endings of adjectives and nouns already in an oblique case.
var obliqueEndings = []string{
	"ого", "его", "ому", "ему", "ыми", "ими", "ами", "ями",
	"ым", "им", "ом", "ем", "ам", "ям", "ах", "ях", "ов", "ей",
	"ью", "ою", "ею", "ую", "юю",
}

// Russian is a suffix-rule Inflector for Russian names and job titles.
type Russian struct {
	nouns map[string]Gender
	stems map[string]string
}

// NewRussian builds the rules backend. nouns maps known job-title head nouns
// in the nominative singular to their gender; oblique forms of these nouns
// (recognised by their snowball stem) are never re-inflected.
func NewRussian(nouns map[string]Gender) *Russian {
	r := &Russian{
		nouns: make(map[string]Gender, len(nouns)),
		stems: make(map[string]string, len(nouns)),
	}
	for n, g := range nouns {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		r.nouns[n] = g
		r.stems[stem(n)] = n
	}
	return r
}

func (r *Russian) Available() bool { return true }

// InflectName inflects surname, given name and patronymic independently.
// Initials and non-Cyrillic parts are left as they are.
func (r *Russian) InflectName(fio string, c Case) string {
	if c == Nominative {
		return fio
	}
	parts := strings.Fields(fio)
	g := nameGender(parts)
	for i := 0; i < len(parts) && i < 3; i++ {
		if skipWord(parts[i]) {
			continue
		}
		role := nameRole(i)
		parts[i] = mapSegments(parts[i], func(seg string) string {
			return withCase(seg, inflectNamePart(strings.ToLower(seg), role, g, c))
		})
	}
	return strings.Join(parts, " ")
}

// InflectPhrase inflects a job title word by word up to and including its
// head noun. Words after the head, after a preposition, abbreviations and
// words already in an oblique case are kept.
func (r *Russian) InflectPhrase(text string, c Case) string {
	if c == Nominative {
		return text
	}
	words := strings.Fields(text)
	for i, w := range words {
		m := wordRe.FindStringSubmatch(w)
		if m == nil {
			continue
		}
		pre, core, post := m[1], m[2], m[3]
		lw := strings.ToLower(core)
		if _, ok := prepositions[lw]; ok {
			break
		}
		if strings.Contains(post, ".") || skipWord(core) {
			continue
		}
		out, head := r.phraseWord(lw, c)
		if out != lw {
			words[i] = pre + withCase(core, out) + post
		}
		if head {
			break
		}
	}
	return strings.Join(words, " ")
}

// phraseWord inflects one lowercase title word and reports whether it is
// the head noun.
func (r *Russian) phraseWord(w string, c Case) (string, bool) {
	if g, ok := r.nouns[w]; ok {
		return inflectNoun(w, g, c), true
	}
	if out, ok := inflectAdjective(w, c); ok {
		return out, false
	}
	if _, ok := r.stems[stem(w)]; ok {
		return w, true
	}
	if hasAnySuffix(w, obliqueEndings...) {
		return w, false
	}
	return inflectNoun(w, GenderUnknown, c), true
}

func inflectAdjective(w string, c Case) (string, bool) {
	if utf8.RuneCountInString(w) < 4 {
		return w, false
	}
	switch {
	case hasAnySuffix(w, "ый", "ой", "ий"):
		return adjMasc(w, c), true
	case strings.HasSuffix(w, "яя"):
		return trim(w, 2) + "ей", true
	case strings.HasSuffix(w, "ая"):
		if sibilant(penult(w, 2)) {
			return trim(w, 2) + "ей", true
		}
		return trim(w, 2) + "ой", true
	}
	return w, false
}

// adjMasc declines a masculine adjective (or adjectival surname) ending in
// -ый, -ой or -ий.
func adjMasc(w string, c Case) string {
	base := trim(w, 2)
	soft := strings.HasSuffix(w, "ий") && !velar(penult(w, 2))
	switch {
	case c == Dative && soft:
		return base + "ему"
	case c == Dative:
		return base + "ому"
	case soft:
		return base + "его"
	default:
		return base + "ого"
	}
}

func inflectNoun(n string, g Gender, c Case) string {
	if i := strings.LastIndex(n, "-"); i >= 0 {
		return n[:i+1] + inflectNoun(n[i+1:], g, c)
	}
	switch last(n) {
	case 'ь':
		if g == Female {
			return trim(n, 1) + "и"
		}
		return trim(n, 1) + pick(c, "ю", "я")
	case 'й':
		return trim(n, 1) + pick(c, "ю", "я")
	case 'а', 'я':
		return firstDeclension(n, c)
	case 'о':
		return trim(n, 1) + pick(c, "у", "а")
	case 'е':
		return trim(n, 1) + pick(c, "ю", "я")
	}
	if consonant(last(n)) {
		return n + pick(c, "у", "а")
	}
	return n
}

// firstDeclension handles nouns and names in -а/-я.
func firstDeclension(w string, c Case) string {
	switch {
	case strings.HasSuffix(w, "ия"):
		return trim(w, 1) + "и"
	case strings.HasSuffix(w, "а"):
		if c == Dative {
			return trim(w, 1) + "е"
		}
		if velar(penult(w, 1)) || sibilant(penult(w, 1)) {
			return trim(w, 1) + "и"
		}
		return trim(w, 1) + "ы"
	case strings.HasSuffix(w, "я"):
		return trim(w, 1) + pick(c, "е", "и")
	}
	return w
}

func stem(w string) string {
	s, err := snowball.Stem(w, "russian", true)
	if err != nil || s == "" {
		return w
	}
	return s
}

// skipWord reports words that are never inflected: initials, abbreviations
// and anything not written in Cyrillic.
func skipWord(w string) bool {
	if strings.Contains(w, ".") || utf8.RuneCountInString(w) < 2 {
		return true
	}
	for _, r := range w {
		if unicode.IsLetter(r) && !unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}

// mapSegments applies f to every hyphen-separated segment of w.
func mapSegments(w string, f func(string) string) string {
	segs := strings.Split(w, "-")
	for i, s := range segs {
		if s != "" {
			segs[i] = f(s)
		}
	}
	return strings.Join(segs, "-")
}

// withCase copies the capitalization of orig onto the lowercase word out.
func withCase(orig, out string) string {
	if utf8.RuneCountInString(orig) > 1 && strings.ToUpper(orig) == orig {
		return strings.ToUpper(out)
	}
	r, _ := utf8.DecodeRuneInString(orig)
	if unicode.IsUpper(r) {
		o, size := utf8.DecodeRuneInString(out)
		return string(unicode.ToUpper(o)) + out[size:]
	}
	return out
}

func pick(c Case, dative, genitive string) string {
	if c == Dative {
		return dative
	}
	return genitive
}

func trim(w string, n int) string {
	rs := []rune(w)
	if n > len(rs) {
		return ""
	}
	return string(rs[:len(rs)-n])
}

func last(w string) rune {
	r, _ := utf8.DecodeLastRuneInString(w)
	return r
}

// penult returns the rune just before the last n runes.
func penult(w string, n int) rune {
	rs := []rune(w)
	if len(rs) <= n {
		return 0
	}
	return rs[len(rs)-n-1]
}

func hasAnySuffix(w string, suffixes ...string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(w, s) {
			return true
		}
	}
	return false
}

func consonant(r rune) bool { return strings.ContainsRune("бвгджзклмнпрстфхцчшщ", r) }
func velar(r rune) bool     { return strings.ContainsRune("гкх", r) }
func sibilant(r rune) bool  { return strings.ContainsRune("жшчщ", r) }

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
