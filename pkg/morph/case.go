// Package morph puts Russian names and job titles into the dative or
// genitive case. Inflection is word by word: agreement across a phrase is
// approximated, not guaranteed.
package morph

import (
	"fmt"
	"strings"
)

// Case is a grammatical case.
type Case int

const (
	Nominative Case = iota // кто
	Dative                 // кому
	Genitive               // от кого
)

func (c Case) String() string {
	switch c {
	case Dative:
		return "dative"
	case Genitive:
		return "genitive"
	default:
		return "nominative"
	}
}

// ParseCase accepts English names, OpenCorpora tags (nomn, datv, gent) and
// Russian labels such as "КОМУ (дательный)".
func ParseCase(s string) (Case, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "" || v == "nominative" || v == "nomn" || strings.Contains(v, "именит") || strings.HasPrefix(v, "кто"):
		return Nominative, nil
	case v == "dative" || v == "datv" || strings.Contains(v, "датель") || strings.HasPrefix(v, "кому"):
		return Dative, nil
	case v == "genitive" || v == "gent" || strings.Contains(v, "родит") || strings.HasPrefix(v, "от кого"):
		return Genitive, nil
	}
	return Nominative, fmt.Errorf("unknown case %q", s)
}

// Inflector puts names and phrases into a grammatical case.
type Inflector interface {
	// Available reports whether a morphological backend is present.
	// Without one every method returns its input unchanged.
	Available() bool
	InflectName(fio string, c Case) string
	InflectPhrase(text string, c Case) string
}

// Identity is the Inflector used when no backend is configured.
type Identity struct{}

func (Identity) Available() bool                       { return false }
func (Identity) InflectName(fio string, _ Case) string { return fio }
func (Identity) InflectPhrase(s string, _ Case) string { return s }

// Backend names accepted by New.
const (
	BackendRules = "rules"
	BackendNone  = "none"
)

// New selects an Inflector by backend name. nouns are the known job-title
// head nouns (nominative singular) used by the rules backend.
func New(backend string, nouns map[string]Gender) (Inflector, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendRules:
		return NewRussian(nouns), nil
	case BackendNone, "identity":
		return Identity{}, nil
	}
	return nil, fmt.Errorf("unknown inflection backend %q", backend)
}
