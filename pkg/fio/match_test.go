package fio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cands(names ...string) []Candidate {
	out := make([]Candidate, len(names))
	for i, n := range names {
		out[i] = NewCandidate(n, i)
	}
	return out
}

func TestMatchInitialsDisambiguate(t *testing.T) {
	m := NewMatcher().Match("Ivanov P.S.", cands("Ivanov Petr Sergeevich", "Ivanov Anna Vasilievna"))

	require.True(t, m.Resolved())
	assert.Equal(t, "Ivanov Petr Sergeevich", m.Candidate.DisplayName)
	assert.Equal(t, 63, m.Score)
}

func TestMatch(t *testing.T) {
	people := cands("Иванов Пётр Сергеевич", "Петров Иван Иванович", "Сидорова Мария Ивановна")
	tests := []struct {
		label  string
		status Status
		want   string
		score  int
	}{
		{"Иванов Пётр", StatusResolved, "Иванов Пётр Сергеевич", 91},
		{"Петров И.И.", StatusResolved, "Петров Иван Иванович", 63},
		{"Петров", StatusBelowThreshold, "", 53},
		{"Сидорова Мария Ивановна Последний подкреп 12.03.2024 10:15", StatusResolved, "Сидорова Мария Ивановна", 114},
		{"Кузнецов", StatusBelowThreshold, "", 0},
		{"12.03.2024 10:15", StatusEmptyLabel, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			m := NewMatcher().Match(tt.label, people)
			assert.Equal(t, tt.status, m.Status)
			assert.Equal(t, tt.score, m.Score)
			if tt.want == "" {
				assert.Nil(t, m.Candidate)
				return
			}
			require.NotNil(t, m.Candidate)
			assert.Equal(t, tt.want, m.Candidate.DisplayName)
		})
	}
}

func TestMatchAmbiguousSurname(t *testing.T) {
	people := cands("Иванов Пётр Сергеевич", "Иванов Олег Ильич")

	m := NewMatcher().Match("Иванов Сергеевич", people)
	assert.Equal(t, StatusAmbiguous, m.Status)
	assert.Nil(t, m.Candidate)

	m = NewMatcher().Match("Иванов О.", people)
	require.True(t, m.Resolved())
	assert.Equal(t, "Иванов Олег Ильич", m.Candidate.DisplayName)
}

func TestMatchNoCandidates(t *testing.T) {
	m := NewMatcher().Match("Иванов Пётр", nil)
	assert.Equal(t, StatusNoCandidates, m.Status)
}

func TestMatchTiesKeepFirst(t *testing.T) {
	people := cands("Орлов Денис", "Денис Орлов")
	m := NewMatcher().Match("Орлов Денис", people)
	require.True(t, m.Resolved())
	assert.Equal(t, "Орлов Денис", m.Candidate.DisplayName)
}

func TestMatchDeterministic(t *testing.T) {
	people := cands("Иванов Пётр Сергеевич", "Иванов Анна Васильевна", "Петров Иван")
	first := NewMatcher().Match("Иванов П.С.", people)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, NewMatcher().Match("Иванов П.С.", people))
	}
}

func TestLabelInitials(t *testing.T) {
	got := labelInitials([]string{"иванов", "п-с", "к"})
	assert.Len(t, got, 3)
	for _, r := range []rune{'п', 'с', 'к'} {
		assert.Contains(t, got, r)
	}
}

func TestParseBackupTime(t *testing.T) {
	got, ok := ParseBackupTime("Иванов П.С.\nПоследний подкреп: 05.03.2024  09:41")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 5, 9, 41, 0, 0, time.Local), got)

	_, ok = ParseBackupTime("Иванов П.С.")
	assert.False(t, ok)

	_, ok = ParseBackupTime("31.02.2024 10:00")
	assert.False(t, ok)
}

func TestLabelName(t *testing.T) {
	tests := []struct {
		label, want string
	}{
		{"Кузнецов Олег Ильич", "Кузнецов Олег Ильич"},
		{"Иванов П.С.\nПоследний подкреп: 05.03.2024 09:41", "Иванов П.С."},
		{"\n  Петрова А.В., 05.03.2024 09:41", "Петрова А.В."},
		{"05.03.2024 09:41", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LabelName(tt.label), tt.label)
	}
}
