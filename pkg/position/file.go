package position

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a custom rule set.
type File struct {
	Locale string `yaml:"locale"`
	Rules  []Rule `yaml:"rules"`
}

// LoadFile reads a rule set from a YAML file.
func LoadFile(path string) (*Abbreviator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", path, err)
	}
	a, err := Compile(f.Locale, f.Rules)
	if err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return a, nil
}

// Load returns the rules from path when set, otherwise the built-in set for locale.
func Load(locale, path string) (*Abbreviator, error) {
	if path != "" {
		return LoadFile(path)
	}
	return Builtin(locale)
}
