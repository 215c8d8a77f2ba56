package position

import (
	"fmt"
	"sort"
)

var builtin = map[string][]Rule{
	"ru": {
		{
			Name:      "assistant-general-director",
			Pattern:   `\bпомощник[а-яё]*\s+генеральн[а-яё]*\s+директор[а-яё]*\b`,
			Replace:   "помощник гендиректора",
			Rationale: "must run before general-director, which would leave a dangling помощник",
		},
		{
			Name:    "deputy-director",
			Pattern: `\bзаместител[ьяюем]*\s+директор[а-яё]*\b`,
			Replace: "зам. гендиректора",
		},
		{
			Name:    "general-director",
			Pattern: `\bгенеральн[а-яё]*\s+директор[а-яё]*\b`,
			Replace: "гендиректор",
		},
		{
			Name:      "director",
			Pattern:   `(?<!ген)\bдиректор\b`,
			Replace:   "руководитель",
			Rationale: "bare nominative директор only; гендиректор is left alone",
		},
		{
			Name:    "deputy",
			Pattern: `\bзаместител[ьяюем]*\b`,
			Replace: "зам",
		},
		{
			Name:    "chief",
			Pattern: `\bглавн[а-яё]*\b`,
			Replace: "глав",
		},
		{
			Name:      "deputy-general-director-genitive",
			Pattern:   `\bзам\s+гендиректор\b`,
			Replace:   "зам гендиректора",
			Rationale: "deputy and general-director outputs meet here and need the genitive",
		},
		{
			Name:    "first-deputy-general-director",
			Pattern: `\b(перв(?:ый|ого|ому|ым|ом)\s+зам)\s+гендиректор\b`,
			Replace: "$1 гендиректора",
		},
	},
	"en": {
		{
			Name:      "assistant-general-director",
			Pattern:   `\bassistant\s+(?:to\s+)?(?:the\s+)?general\s+director\b`,
			Replace:   "assistant to CEO",
			Rationale: "must run before the generic director rule",
		},
		{
			Name:    "deputy-general-director",
			Pattern: `\b(deputy|vice)\s+general\s+director\b`,
			Replace: "$1 CEO",
		},
		{
			Name:    "general-director",
			Pattern: `\bgeneral\s+director\b`,
			Replace: "CEO",
		},
		{
			Name:    "chief-executive-officer",
			Pattern: `\bchief\s+executive\s+officer\b`,
			Replace: "CEO",
		},
		{
			Name:    "director",
			Pattern: `(?<!general\s)\bdirector\b`,
			Replace: "head",
		},
	},
}

// Locales lists the built-in rule sets.
func Locales() []string {
	out := make([]string, 0, len(builtin))
	for l := range builtin {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Builtin returns the Abbreviator for a built-in locale.
func Builtin(locale string) (*Abbreviator, error) {
	rules, ok := builtin[locale]
	if !ok {
		return nil, fmt.Errorf("no built-in rules for locale %q", locale)
	}
	return Compile(locale, rules)
}
