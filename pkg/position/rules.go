// Package position shortens job titles with an ordered list of
// case-insensitive substitution rules. Each rule rewrites the whole string
// before the next one runs, so narrow compound rules must precede the
// generic ones they would otherwise be shadowed by.
package position

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Rule is one substitution step. Pattern uses .NET/Perl syntax (look-behind
// and Unicode-aware \b are supported); Replace may reference groups as $1.
type Rule struct {
	Name      string `yaml:"name" json:"name"`
	Pattern   string `yaml:"pattern" json:"pattern"`
	Replace   string `yaml:"replace" json:"replace"`
	Rationale string `yaml:"rationale,omitempty" json:"rationale,omitempty"`
}

type compiledRule struct {
	Rule
	re *regexp2.Regexp
}

// Abbreviator applies a rule list in order.
type Abbreviator struct {
	locale string
	rules  []compiledRule
}

const matchTimeout = 200 * time.Millisecond

var spaceRe = regexp.MustCompile(`\s+`)

// Compile builds an Abbreviator from rules, keeping their order.
func Compile(locale string, rules []Rule) (*Abbreviator, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("no rules defined")
	}
	a := &Abbreviator{locale: locale, rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		if r.Name == "" {
			r.Name = fmt.Sprintf("rule-%d", i+1)
		}
		re, err := regexp2.Compile(r.Pattern, regexp2.IgnoreCase)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		re.MatchTimeout = matchTimeout
		a.rules = append(a.rules, compiledRule{Rule: r, re: re})
	}
	return a, nil
}

// Locale returns the locale the rules were built for.
func (a *Abbreviator) Locale() string { return a.locale }

// Rules returns the rule list in application order.
func (a *Abbreviator) Rules() []Rule {
	out := make([]Rule, len(a.rules))
	for i, r := range a.rules {
		out[i] = r.Rule
	}
	return out
}

// Abbreviate collapses whitespace, runs every rule and collapses again.
func (a *Abbreviator) Abbreviate(title string) string {
	s := collapse(title)
	if s == "" {
		return ""
	}
	for _, r := range a.rules {
		out, err := r.re.Replace(s, r.Replace, -1, -1)
		if err != nil {
			// Only a match timeout ends up here; keep the input of this step.
			continue
		}
		s = out
	}
	return collapse(s)
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
