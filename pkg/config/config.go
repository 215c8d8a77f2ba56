// Package config loads the greeter configuration: a YAML file overridden
// by GREETER_* environment variables, then defaults and validation.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/skufinskiy/itnelep-tools/pkg/history"
	"github.com/skufinskiy/itnelep-tools/pkg/morph"
	"github.com/skufinskiy/itnelep-tools/pkg/position"
	"github.com/skufinskiy/itnelep-tools/pkg/textnorm"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GREETER_"

const maxFileSize = 1 << 20

// Config is the full tool configuration.
type Config struct {
	Log        LogConfig        `koanf:"log"`
	Lexicon    LexiconConfig    `koanf:"lexicon"`
	Inflection InflectionConfig `koanf:"inflection"`
	Rules      RulesConfig      `koanf:"rules"`
	History    HistoryConfig    `koanf:"history"`
	Archive    ArchiveConfig    `koanf:"archive"`
	Ingest     IngestConfig     `koanf:"ingest"`
	Server     ServerConfig     `koanf:"server"`
	Defaults   DefaultsConfig   `koanf:"defaults"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// LexiconConfig points at a directory of word lists that overlay the
// built-in ones.
type LexiconConfig struct {
	Dir   string `koanf:"dir"`
	Watch bool   `koanf:"watch"`
}

type InflectionConfig struct {
	Backend string `koanf:"backend"`
}

// RulesConfig selects the position abbreviation rules: a built-in locale
// or a YAML rule file.
type RulesConfig struct {
	Locale string `koanf:"locale"`
	File   string `koanf:"file"`
}

type HistoryConfig struct {
	Path string `koanf:"path"`
}

type ArchiveConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

type IngestConfig struct {
	Encoding string        `koanf:"encoding"`
	Retries  int           `koanf:"retries"`
	Timeout  time.Duration `koanf:"timeout"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// DefaultsConfig holds the compose options used when a request or flag
// leaves them out.
type DefaultsConfig struct {
	Organization string `koanf:"organization"`
	Case         string `koanf:"case"`
	Format       string `koanf:"format"`
	Threshold    int    `koanf:"threshold"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads path (if it exists) and then the environment. An empty path
// skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		data, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if data != nil {
			if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config %s is larger than %d bytes", path, maxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return data, nil
}

// envKey maps GREETER_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

func applyDefaults(c *Config) {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Inflection.Backend == "" {
		c.Inflection.Backend = morph.BackendRules
	}
	if c.Rules.Locale == "" && c.Rules.File == "" {
		c.Rules.Locale = "ru"
	}
	if c.History.Path == "" {
		c.History.Path = history.DefaultFile
	}
	if c.Archive.Path == "" {
		c.Archive.Path = "greeter.db"
	}
	if c.Ingest.Encoding == "" {
		c.Ingest.Encoding = "utf-8"
	}
	if c.Ingest.Retries == 0 {
		c.Ingest.Retries = 3
	}
	if c.Ingest.Timeout == 0 {
		c.Ingest.Timeout = 30 * time.Second
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8420"
	}
	if c.Defaults.Case == "" {
		c.Defaults.Case = morph.Nominative.String()
	}
	if c.Defaults.Format == "" {
		c.Defaults.Format = textnorm.FormatFull.String()
	}
	if c.Defaults.Threshold == 0 {
		c.Defaults.Threshold = 55
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if _, err := morph.New(c.Inflection.Backend, nil); err != nil {
		errs = append(errs, fmt.Errorf("inflection.backend: %w", err))
	}
	if c.Rules.File == "" {
		if _, err := position.Builtin(c.Rules.Locale); err != nil {
			errs = append(errs, fmt.Errorf("rules.locale: %w", err))
		}
	}
	if _, err := c.Case(); err != nil {
		errs = append(errs, fmt.Errorf("defaults.case: %w", err))
	}
	if _, err := c.NameFormat(); err != nil {
		errs = append(errs, fmt.Errorf("defaults.format: %w", err))
	}
	if c.Defaults.Threshold < 0 {
		errs = append(errs, fmt.Errorf("defaults.threshold: must not be negative"))
	}
	if c.Ingest.Retries < 0 {
		errs = append(errs, fmt.Errorf("ingest.retries: must not be negative"))
	}
	return errors.Join(errs...)
}

// Case is the parsed defaults.case.
func (c *Config) Case() (morph.Case, error) {
	return morph.ParseCase(c.Defaults.Case)
}

// NameFormat is the parsed defaults.format.
func (c *Config) NameFormat() (textnorm.NameFormat, error) {
	return textnorm.ParseNameFormat(c.Defaults.Format)
}
