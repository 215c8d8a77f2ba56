package archive

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/skufinskiy/itnelep-tools/pkg/pipeline"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "greeter.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResults() []pipeline.Result {
	return []pipeline.Result{
		{
			Index:     0,
			Label:     "Иванов П.С.",
			Status:    pipeline.StatusResolvedWithPosition,
			Title:     "Иванов Пётр Сергеевич — Генеральный директор",
			Name:      "Иванов П.С.",
			Position:  "гендиректор",
			Greetings: []string{"g1", "g2", "g3", "g4", "g5"},
		},
		{Index: 1, Label: "Кузнецов", Status: pipeline.StatusUnresolved},
	}
}

func TestOpenEmpty(t *testing.T) {
	s := tempStore(t)
	runs, err := s.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected 0 runs, got %d", len(runs))
	}
}

func TestRecordAndRead(t *testing.T) {
	s := tempStore(t)
	s.now = func() time.Time { return time.Date(2024, 3, 12, 10, 15, 0, 0, time.UTC) }

	run, err := s.Record(Meta{Source: "html", Organization: "ООО Ромашка", Case: "dative", Format: "short"}, sampleResults())
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected run ID")
	}
	if run.Leaders != 2 || run.Composed != 1 {
		t.Fatalf("leaders/composed = %d/%d, want 2/1", run.Leaders, run.Composed)
	}

	got, err := s.Run(run.ID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got.ID != run.ID || !got.CreatedAt.Equal(run.CreatedAt) || got.Organization != run.Organization || got.Case != "dative" {
		t.Fatalf("Run = %+v, want %+v", got, run)
	}

	gs, err := s.Greetings(run.ID)
	if err != nil {
		t.Fatalf("Greetings: %v", err)
	}
	if len(gs) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(gs))
	}
	if gs[0].Variant != 1 || gs[0].Text != "g1" || gs[0].Position != "гендиректор" {
		t.Errorf("first greeting = %+v", gs[0])
	}
	last := gs[5]
	if last.Leader != 1 || last.Variant != 0 || last.Status != string(pipeline.StatusUnresolved) {
		t.Errorf("unresolved row = %+v", last)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := tempStore(t)
	base := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		s.now = func() time.Time { return at }
		run, err := s.Record(Meta{Organization: "АО Вектор", Case: "nominative", Format: "full"}, nil)
		if err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := s.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Fatalf("unexpected order: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestUnknownRun(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Greetings("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}
