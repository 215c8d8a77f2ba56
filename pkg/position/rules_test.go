package position

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBuiltin(t *testing.T, locale string) *Abbreviator {
	t.Helper()
	a, err := Builtin(locale)
	require.NoError(t, err)
	return a
}

func TestAbbreviateRU(t *testing.T) {
	a := mustBuiltin(t, "ru")
	tests := []struct {
		in, want string
	}{
		{"Генеральный директор", "гендиректор"},
		{"Помощник генерального директора", "помощник гендиректора"},
		{"Заместитель директора", "зам. гендиректора"},
		{"Заместитель генерального директора", "зам гендиректора"},
		{"заместителю генерального директора", "зам гендиректора"},
		{"Первый заместитель генерального директора", "Первый зам гендиректора"},
		{"Директор", "руководитель"},
		{"директору", "директору"},
		{"Главный инженер", "глав инженер"},
		{"  Главный\tбухгалтер  ", "глав бухгалтер"},
		{"Менеджер по продажам", "Менеджер по продажам"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, a.Abbreviate(tt.in), tt.in)
	}
}

func TestAbbreviateEN(t *testing.T) {
	a := mustBuiltin(t, "en")
	tests := []struct {
		in, want string
	}{
		{"Deputy General Director", "Deputy CEO"},
		{"Vice General Director", "Vice CEO"},
		{"Assistant to the General Director", "assistant to CEO"},
		{"General Director", "CEO"},
		{"Chief Executive Officer", "CEO"},
		{"Director of Sales", "head of Sales"},
		{"Sales Manager", "Sales Manager"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, a.Abbreviate(tt.in), tt.in)
	}
}

// Compound rules must win over the generic director rule.
func TestRuleOrder(t *testing.T) {
	a := mustBuiltin(t, "ru")
	names := make([]string, 0)
	for _, r := range a.Rules() {
		names = append(names, r.Name)
	}
	idx := func(name string) int {
		for i, n := range names {
			if n == name {
				return i
			}
		}
		t.Fatalf("rule %q missing", name)
		return -1
	}
	assert.Less(t, idx("assistant-general-director"), idx("general-director"))
	assert.Less(t, idx("deputy-director"), idx("director"))
	assert.Less(t, idx("general-director"), idx("director"))
	assert.Less(t, idx("deputy"), idx("deputy-general-director-genitive"))
}

var vocab = map[string][]string{
	"ru": {
		"генеральный", "генерального", "директор", "директора", "директору",
		"заместитель", "заместителя", "помощник", "главный", "первый",
		"зам", "гендиректор", "по", "руководитель",
	},
	"en": {
		"assistant", "to", "the", "general", "director", "deputy", "vice",
		"chief", "executive", "officer", "CEO", "head",
	},
}

func phrases(words []string, maxLen int) []string {
	out := []string{""}
	var all []string
	for n := 1; n <= maxLen; n++ {
		var next []string
		for _, p := range out {
			for _, w := range words {
				s := strings.TrimSpace(p + " " + w)
				next = append(next, s)
				all = append(all, s)
			}
		}
		out = next
	}
	return all
}

func TestAbbreviateIdempotent(t *testing.T) {
	for _, locale := range Locales() {
		a := mustBuiltin(t, locale)
		for _, p := range phrases(vocab[locale], 3) {
			once := a.Abbreviate(p)
			twice := a.Abbreviate(once)
			if once != twice {
				t.Errorf("%s: Abbreviate(%q) = %q, again = %q", locale, p, once, twice)
			}
		}
	}
}

func TestBuiltinUnknown(t *testing.T) {
	_, err := Builtin("de")
	assert.Error(t, err)
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile("x", nil)
	assert.Error(t, err)

	_, err = Compile("x", []Rule{{Name: "bad", Pattern: `(unclosed`}})
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	err := os.WriteFile(path, []byte(`locale: ru
rules:
  - name: chief-accountant
    pattern: '\bглавн[а-яё]*\s+бухгалтер[а-яё]*\b'
    replace: главбух
  - pattern: '\bначальник\b'
    replace: нач.
`), 0o644)
	require.NoError(t, err)

	a, err := Load("en", path)
	require.NoError(t, err)
	assert.Equal(t, "ru", a.Locale())
	assert.Equal(t, "главбух", a.Abbreviate("Главный бухгалтер"))
	assert.Equal(t, "нач. цеха", a.Abbreviate("Начальник цеха"))
	assert.Equal(t, "rule-2", a.Rules()[1].Name)

	a, err = Load("en", "")
	require.NoError(t, err)
	assert.Equal(t, "en", a.Locale())
}
