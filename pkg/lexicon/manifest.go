package lexicon

import (
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"
)

// Known list kinds.
const (
	KindStoplist   = "stoplist"
	KindLegalForms = "legal_forms"
	KindNouns      = "nouns"
)

// Manifest describes a word list: what it is for and how to read its data file.
type Manifest struct {
	ID           string           `yaml:"id" json:"id"`
	Version      string           `yaml:"version" json:"version"`
	Kind         string           `yaml:"kind" json:"kind"`
	Language     string           `yaml:"language" json:"language"`
	Description  string           `yaml:"description" json:"description,omitempty"`
	DataFile     string           `yaml:"data_file" json:"data_file"`
	Format       FormatSpec       `yaml:"format" json:"-"`
	MetadataCols []MetadataColumn `yaml:"metadata_columns" json:"-"`
}

// FormatSpec describes the CSV layout.
type FormatSpec struct {
	Delimiter string `yaml:"delimiter"`
	Encoding  string `yaml:"encoding"`
	HasHeader bool   `yaml:"has_header"`
	KeyColumn string `yaml:"key_column"`
	Normalize string `yaml:"normalize"`
}

// MetadataColumn maps a logical name to a CSV column.
type MetadataColumn struct {
	Name   string `yaml:"name"`
	Column string `yaml:"column"`
}

// LoadManifest reads and parses dir/manifest.yaml from fsys.
func LoadManifest(fsys fs.FS, dir string) (*Manifest, error) {
	p := path.Join(dir, "manifest.yaml")
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", p, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", p, err)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("manifest %s: missing id", p)
	}
	if m.Kind == "" {
		return nil, fmt.Errorf("manifest %s: missing kind", p)
	}
	if m.DataFile == "" {
		m.DataFile = "data.csv"
	}
	return &m, nil
}
