package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skufinskiy/itnelep-tools/pkg/morph"
	"github.com/skufinskiy/itnelep-tools/pkg/textnorm"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "rules", cfg.Inflection.Backend)
	assert.Equal(t, "ru", cfg.Rules.Locale)
	assert.Equal(t, "positions_history.json", cfg.History.Path)
	assert.Equal(t, ":8420", cfg.Server.Addr)
	assert.Equal(t, 55, cfg.Defaults.Threshold)
	assert.Equal(t, 30*time.Second, cfg.Ingest.Timeout)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "greeter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: json
defaults:
  organization: ООО Ромашка
  case: dative
  format: short
ingest:
  timeout: 10s
`), 0o600))

	t.Setenv("GREETER_DEFAULTS_ORGANIZATION", "АО Вектор")
	t.Setenv("GREETER_SERVER_ADDR", "127.0.0.1:9000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "АО Вектор", cfg.Defaults.Organization)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Ingest.Timeout)

	c, err := cfg.Case()
	require.NoError(t, err)
	assert.Equal(t, morph.Dative, c)
	f, err := cfg.NameFormat()
	require.NoError(t, err)
	assert.Equal(t, textnorm.FormatShort, f)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "greeter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  format: xml
inflection:
  backend: pymorphy
rules:
  locale: de
defaults:
  case: ablative
`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	for _, field := range []string{"log.format", "inflection.backend", "rules.locale", "defaults.case"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "greeter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "defaults.organization", envKey("GREETER_DEFAULTS_ORGANIZATION"))
	assert.Equal(t, "lexicon.dir", envKey("GREETER_LEXICON_DIR"))
	assert.Equal(t, "archive.path", envKey("GREETER_ARCHIVE_PATH"))
}

func TestRulesFileSkipsLocaleCheck(t *testing.T) {
	cfg := Default()
	cfg.Rules.Locale = ""
	cfg.Rules.File = "rules.yaml"
	assert.NoError(t, cfg.Validate())
}
