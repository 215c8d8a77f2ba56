package lexicon

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/skufinskiy/itnelep-tools/pkg/textnorm"
)

// Entry is a single word in a list, with optional metadata.
type Entry struct {
	Metadata map[string]string `json:"metadata,omitempty"`
}

// List is one loaded word list with its manifest.
type List struct {
	Manifest  *Manifest
	Entries   map[string]*Entry
	normalize textnorm.Normalizer
}

// LoadList reads dir/manifest.yaml and its CSV data file from fsys.
func LoadList(fsys fs.FS, dir string, logger *zap.Logger) (*List, error) {
	manifest, err := LoadManifest(fsys, dir)
	if err != nil {
		return nil, err
	}
	l := &List{
		Manifest:  manifest,
		Entries:   make(map[string]*Entry),
		normalize: textnorm.GetNormalizer(manifest.Format.Normalize),
	}
	if err := l.loadCSV(fsys, path.Join(dir, manifest.DataFile), logger); err != nil {
		return nil, fmt.Errorf("list %s: %w", manifest.ID, err)
	}
	return l, nil
}

func (l *List) loadCSV(fsys fs.FS, p string, logger *zap.Logger) error {
	f, err := fsys.Open(p)
	if err != nil {
		return fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if enc := l.Manifest.Format.Encoding; enc != "" && !isUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return fmt.Errorf("unsupported encoding %q: %w", enc, err)
		}
		reader = transform.NewReader(f, e.NewDecoder())
	}

	r := csv.NewReader(reader)
	if delim := l.Manifest.Format.Delimiter; delim != "" {
		r.Comma = []rune(delim)[0]
	}
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var header []string
	if l.Manifest.Format.HasHeader {
		header, err = r.Read()
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
	}

	keyIdx := 0
	if col := l.Manifest.Format.KeyColumn; col != "" && header != nil {
		keyIdx = indexOf(header, col)
		if keyIdx < 0 {
			return fmt.Errorf("key column %q not found in header %v", col, header)
		}
	}

	metaIdx := make(map[string]int)
	for _, mc := range l.Manifest.MetadataCols {
		if i := indexOf(header, mc.Column); i >= 0 {
			metaIdx[mc.Name] = i
		}
	}

	var collisions int
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		if keyIdx >= len(record) {
			continue
		}
		key := l.normalize(strings.TrimSpace(record[keyIdx]))
		if key == "" {
			continue
		}
		entry := &Entry{}
		if len(metaIdx) > 0 {
			entry.Metadata = make(map[string]string, len(metaIdx))
			for name, idx := range metaIdx {
				if idx < len(record) {
					entry.Metadata[name] = strings.TrimSpace(record[idx])
				}
			}
		}
		if _, exists := l.Entries[key]; exists {
			collisions++
		}
		l.Entries[key] = entry
	}

	if collisions > 0 && logger != nil {
		logger.Warn("duplicate words after normalization",
			zap.String("list", l.Manifest.ID),
			zap.Int("collisions", collisions))
	}
	return nil
}

// Contains reports whether term is in the list after normalization.
func (l *List) Contains(term string) bool {
	_, ok := l.Entries[l.normalize(term)]
	return ok
}

func indexOf(header []string, col string) int {
	for i, h := range header {
		if h == col {
			return i
		}
	}
	return -1
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
