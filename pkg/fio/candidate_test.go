package fio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexAddUnique(t *testing.T) {
	ix := NewIndex()
	assert.True(t, ix.Add(NewCandidate("Иванов Пётр", 2)))
	assert.False(t, ix.Add(NewCandidate("ИВАНОВ  пётр", 7)))
	assert.False(t, ix.Add(NewCandidate("123", 8)))
	require.Equal(t, 1, ix.Len())

	c, ok := ix.Lookup("иванов пётр")
	require.True(t, ok)
	assert.Equal(t, 2, c.Line)

	_, ok = ix.Lookup("Петров")
	assert.False(t, ok)
}

func TestNewCandidateParts(t *testing.T) {
	c := NewCandidate("Иванов П.С.", -1)
	assert.Equal(t, []string{"Иванов", "П", "С"}, c.Parts)
	assert.Equal(t, "иванов пс", c.Key())

	c = NewCandidate("Римский-Корсаков Николай Андреевич Младший", 0)
	assert.Len(t, c.Parts, 3)
}

func TestIndexSearch(t *testing.T) {
	ix := NewIndex()
	ix.Add(NewCandidate("Иванов Пётр Сергеевич", 0))
	ix.Add(NewCandidate("Петрова Анна Викторовна", 3))

	got := ix.Search("петр", 0)
	require.NotEmpty(t, got)
	assert.Equal(t, "Петрова Анна Викторовна", got[0].DisplayName)

	assert.Len(t, ix.Search("", 0), 2)
	assert.Len(t, ix.Search("", 1), 1)
	assert.Empty(t, ix.Search("щщщ", 0))
}

func TestContext(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	got := Context(lines, 1, DefaultContextWindow)
	require.Len(t, got, 5)
	assert.Equal(t, ContextLine{N: 0, Text: "a"}, got[0])
	assert.Equal(t, ContextLine{N: 4, Text: "e"}, got[4])

	assert.Len(t, Context(lines, 7, 3), 4)
	assert.Nil(t, Context(lines, -1, 3))
	assert.Nil(t, Context(nil, 0, 3))
}
