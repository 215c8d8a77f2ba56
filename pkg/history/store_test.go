package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestOpenMissing(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "absent.json"), nil)
	require.NoError(t, err)
	assert.Zero(t, s.Len())
}

func TestOpenMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	core, logs := observer.New(zapcore.WarnLevel)
	s, err := Open(path, zap.New(core))
	require.NoError(t, err)
	assert.Zero(t, s.Len())
	assert.Equal(t, 1, logs.FilterMessage("history file is malformed, starting empty").Len())
}

func TestOpenUnreadable(t *testing.T) {
	// a directory in place of the file cannot be read
	path := t.TempDir()

	core, logs := observer.New(zapcore.WarnLevel)
	s, err := Open(path, zap.New(core))
	require.NoError(t, err)
	assert.Zero(t, s.Len())
	assert.Equal(t, 1, logs.FilterMessage("history file is unreadable, starting empty").Len())

	_, ok := s.Get("Иванов Пётр")
	assert.False(t, ok)
	assert.Error(t, s.Remember("Иванов Пётр", "Главный инженер"))
}

func TestOpenRenormalizesKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "ИВАНОВ  Пётр Сергеевич": "Генеральный директор",
  "Петрова А.В.": 42,
  "!!!": "skip"
}`), 0o644))

	s, err := Open(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	pos, ok := s.Get("Иванов Пётр Сергеевич")
	require.True(t, ok)
	assert.Equal(t, "Генеральный директор", pos)

	_, ok = s.Get("Петрова А.В.")
	assert.False(t, ok)
}

func TestRememberPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "h.json")
	s, err := Open(path, nil)
	require.NoError(t, err)

	require.NoError(t, s.Remember("Иванов Пётр", "Главный инженер"))
	require.NoError(t, s.Remember("Петрова Анна", "Бухгалтер <ведущий>"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<ведущий>")

	var raw map[string]string
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Главный инженер", raw["иванов пётр"])

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Key: "иванов пётр", Position: "Главный инженер"},
		{Key: "петрова анна", Position: "Бухгалтер <ведущий>"},
	}, reopened.Entries())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestSetEmptyRemoves(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "h.json"), nil)
	require.NoError(t, err)
	s.Set("Иванов Пётр", "Директор")
	s.Set("Иванов Пётр", "")
	assert.Zero(t, s.Len())
}
