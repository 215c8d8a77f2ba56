package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/skufinskiy/itnelep-tools/pkg/fio"
)

func init() {
	Register(&dirSource{})
}

// Files read by the dir source.
const (
	NotesFile   = "notes.txt"
	LeadersFile = "leaders.txt"
)

type dirSource struct{}

func (s *dirSource) ID() string          { return "dir" }
func (s *dirSource) Description() string { return "directory with notes.txt and leaders.txt" }

// Fetch reads notes.txt and leaders.txt (one label per line). A missing
// notes.txt yields empty notes.
func (s *dirSource) Fetch(_ context.Context, location string, opts Options) (*Snapshot, error) {
	notes, err := readText(filepath.Join(location, NotesFile), opts.Encoding, true)
	if err != nil {
		return nil, err
	}
	leaders, err := readText(filepath.Join(location, LeadersFile), opts.Encoding, false)
	if err != nil {
		return nil, err
	}

	var labels []string
	for _, line := range fio.SplitLines(leaders) {
		if line = strings.TrimSpace(line); line != "" {
			labels = append(labels, line)
		}
	}
	return &Snapshot{Source: s.ID(), Origin: location, Notes: notes, Leaders: labels}, nil
}

func readText(path, encoding string, optional bool) (string, error) {
	data, err := os.ReadFile(path)
	if optional && errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return decode(data, encoding)
}
