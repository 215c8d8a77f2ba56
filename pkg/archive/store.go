// Package archive keeps composed greetings in a SQLite database, one run
// per compose call.
package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/skufinskiy/itnelep-tools/pkg/pipeline"
)

// ErrRunNotFound is returned for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one archived compose call.
type Run struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Source       string    `json:"source"`
	Organization string    `json:"organization"`
	Case         string    `json:"case"`
	Format       string    `json:"format"`
	Leaders      int       `json:"leaders"`
	Composed     int       `json:"composed"`
}

// Meta describes a run before it is recorded.
type Meta struct {
	Source       string
	Organization string
	Case         string
	Format       string
}

// Greeting is one archived greeting variant.
type Greeting struct {
	Leader   int    `json:"leader"`
	Label    string `json:"label"`
	Status   string `json:"status"`
	Title    string `json:"title"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Variant  int    `json:"variant"`
	Text     string `json:"text"`
}

// Store manages the runs and greetings tables.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

const ddl = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	created_at   INTEGER NOT NULL,
	source       TEXT NOT NULL DEFAULT '',
	organization TEXT NOT NULL,
	grammar_case TEXT NOT NULL,
	name_format  TEXT NOT NULL,
	leaders      INTEGER NOT NULL,
	composed     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS greetings (
	run_id    TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	leader    INTEGER NOT NULL,
	label     TEXT NOT NULL,
	status    TEXT NOT NULL,
	title     TEXT NOT NULL DEFAULT '',
	name      TEXT NOT NULL DEFAULT '',
	position  TEXT NOT NULL DEFAULT '',
	variant   INTEGER NOT NULL,
	text      TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, leader, variant)
);
CREATE INDEX IF NOT EXISTS runs_created ON runs(created_at);`

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create archive tables: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores results under a new run. Unresolved leaders are kept with
// variant 0 and no text so the run shows who still needs a manual pick.
func (s *Store) Record(meta Meta, results []pipeline.Result) (Run, error) {
	run := Run{
		ID:           uuid.NewString(),
		CreatedAt:    s.now().UTC().Truncate(time.Second),
		Source:       meta.Source,
		Organization: meta.Organization,
		Case:         meta.Case,
		Format:       meta.Format,
		Leaders:      len(results),
	}
	for _, r := range results {
		if len(r.Greetings) > 0 {
			run.Composed++
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Run{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs
		(id, created_at, source, organization, grammar_case, name_format, leaders, composed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Unix(), run.Source, run.Organization, run.Case, run.Format,
		run.Leaders, run.Composed); err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	const q = `INSERT INTO greetings
		(run_id, leader, label, status, title, name, position, variant, text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, r := range results {
		if len(r.Greetings) == 0 {
			if _, err := tx.Exec(q, run.ID, r.Index, r.Label, string(r.Status), r.Title, r.Name, r.Position, 0, ""); err != nil {
				return Run{}, fmt.Errorf("insert leader %d: %w", r.Index, err)
			}
			continue
		}
		for v, text := range r.Greetings {
			if _, err := tx.Exec(q, run.ID, r.Index, r.Label, string(r.Status), r.Title, r.Name, r.Position, v+1, text); err != nil {
				return Run{}, fmt.Errorf("insert leader %d variant %d: %w", r.Index, v+1, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit run: %w", err)
	}
	return run, nil
}

// ListRuns returns the newest runs first. limit <= 0 returns all.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT id, created_at, source, organization, grammar_case, name_format,
		leaders, composed FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Run returns one run by ID.
func (s *Store) Run(id string) (Run, error) {
	row := s.db.QueryRow(`SELECT id, created_at, source, organization, grammar_case, name_format,
		leaders, composed FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// Greetings returns a run's greetings ordered by leader and variant.
func (s *Store) Greetings(runID string) ([]Greeting, error) {
	if _, err := s.Run(runID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`SELECT leader, label, status, title, name, position, variant, text
		FROM greetings WHERE run_id = ? ORDER BY leader, variant`, runID)
	if err != nil {
		return nil, fmt.Errorf("list greetings: %w", err)
	}
	defer rows.Close()

	var out []Greeting
	for rows.Next() {
		var g Greeting
		if err := rows.Scan(&g.Leader, &g.Label, &g.Status, &g.Title, &g.Name, &g.Position,
			&g.Variant, &g.Text); err != nil {
			return nil, fmt.Errorf("scan greeting: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var run Run
	var created int64
	if err := sc.Scan(&run.ID, &created, &run.Source, &run.Organization, &run.Case, &run.Format,
		&run.Leaders, &run.Composed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.CreatedAt = time.Unix(created, 0).UTC()
	return run, nil
}
