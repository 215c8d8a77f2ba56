package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// capsRatio is the share of uppercase letters above which a name is
// considered shouted and gets recased.
const capsRatio = 0.65

var (
	fioTokenRe  = regexp.MustCompile(`^([«"(]*)([A-Za-zА-Яа-яЁё.\-]+)([»")]*[.,:]*)$`)
	orgTokenRe  = regexp.MustCompile(`^([«(]*)([A-Za-zА-Яа-яЁё\-]+)([»)]*[.,:]*)$`)
	initialRe   = regexp.MustCompile(`^(?:[А-ЯЁA-Z]\.?|(?:[А-ЯЁA-Z]\.){1,3})$`)
	acronymRe   = regexp.MustCompile(`^[A-ZА-ЯЁ]{2,}$`)
	quotedRe    = regexp.MustCompile(`"[^"]*"|«[^»]*»`)
	wordSplitRe = regexp.MustCompile(`\S+`)
)

// DefaultLegalForms are Russian legal-form abbreviations kept uppercase in
// organization names.
var DefaultLegalForms = []string{
	"ооо", "ао", "пао", "зао", "оао", "ип", "нко",
	"огбу", "дпо", "гбу", "гуп", "муп", "фгбу", "фгуп", "му", "мо",
}

// TitleCaseFIO recases a mostly-uppercase personal name token by token
// ("ИВАНОВ П.С." -> "Иванов П.С."). Initials stay uppercase, surrounding
// quotes and brackets are preserved. Names that are not mostly uppercase
// are only normalized.
func TitleCaseFIO(raw string) string {
	s := Normalize(raw)
	if !shouted(s) {
		return s
	}
	words := strings.Split(s, " ")
	for i, w := range words {
		m := fioTokenRe.FindStringSubmatch(w)
		if m == nil {
			continue
		}
		pre, core, post := m[1], m[2], m[3]
		if initialRe.MatchString(core) {
			words[i] = pre + strings.ToUpper(core) + post
			continue
		}
		words[i] = pre + titleHyphenated(core) + post
	}
	return strings.Join(words, " ")
}

// OrgCaser repairs capitalization of organization names.
type OrgCaser struct {
	legal map[string]struct{}
}

// NewOrgCaser returns an OrgCaser that forces the given legal forms to
// uppercase. Forms are matched case-insensitively.
func NewOrgCaser(legalForms []string) *OrgCaser {
	oc := &OrgCaser{legal: make(map[string]struct{}, len(legalForms))}
	for _, f := range legalForms {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			oc.legal[f] = struct{}{}
		}
	}
	return oc
}

// TitleCase recases an organization name. Quoted parts ("..." or «...»)
// are kept verbatim, legal forms are uppercased, existing acronyms are
// left alone and every other word is title-cased.
func (oc *OrgCaser) TitleCase(raw string) string {
	s := Normalize(raw)
	if s == "" {
		return ""
	}
	var b strings.Builder
	last := 0
	for _, loc := range quotedRe.FindAllStringIndex(s, -1) {
		b.WriteString(oc.fixChunk(s[last:loc[0]]))
		b.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(oc.fixChunk(s[last:]))
	return collapse(b.String())
}

func (oc *OrgCaser) fixChunk(chunk string) string {
	return wordSplitRe.ReplaceAllStringFunc(chunk, func(w string) string {
		m := orgTokenRe.FindStringSubmatch(w)
		if m == nil {
			return w
		}
		pre, core, post := m[1], m[2], m[3]
		if _, ok := oc.legal[strings.ToLower(core)]; ok {
			return pre + strings.ToUpper(core) + post
		}
		if acronymRe.MatchString(core) {
			return w
		}
		return pre + titleWord(core) + post
	})
}

func shouted(s string) bool {
	var letters, upper int
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if letters == 0 {
		return false
	}
	return float64(upper)/float64(letters) > capsRatio
}

func titleHyphenated(core string) string {
	parts := strings.Split(core, "-")
	for i, p := range parts {
		parts[i] = titleWord(p)
	}
	return strings.Join(parts, "-")
}

// titleWord uppercases the first letter and lowercases the rest.
func titleWord(w string) string {
	if w == "" {
		return w
	}
	rs := []rune(cases.Lower(language.Russian).String(w))
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}
