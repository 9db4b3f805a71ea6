package storage

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestJobLifecycle(t *testing.T) {
	s := newTestStore(t)

	rec := JobRecord{ID: "st-1", JobType: "stitch", Status: "queued", InputPath: "/frames", OutputPath: "/out.png"}
	if err := s.RecordJobQueued(rec); err != nil {
		t.Fatalf("queue: %v", err)
	}
	if err := s.RecordJobStart("st-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	meta := map[string]any{"frames": float64(5), "height": float64(3200)}
	if err := s.RecordJobResult("st-1", "completed", meta, ""); err != nil {
		t.Fatalf("result: %v", err)
	}

	jobs, err := s.RecentJobs(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != "st-1" || jobs[0].Status != "completed" {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}
	if jobs[0].CompletedAt == nil {
		t.Fatalf("completed_at not set")
	}

	got, err := s.JobMeta("st-1")
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if got["frames"] != float64(5) {
		t.Fatalf("meta round-trip: %+v", got)
	}
}

func TestJoinRecords(t *testing.T) {
	s := newTestStore(t)

	joins := []JoinRecord{
		{JobID: "st-2", JoinIndex: 0, OffsetPx: 142, Confidence: 0.97},
		{JobID: "st-2", JoinIndex: 1, OffsetPx: 140, Confidence: 0.12, LowConfidence: true},
	}
	for _, j := range joins {
		if err := s.RecordJoin(j); err != nil {
			t.Fatalf("record join: %v", err)
		}
	}

	got, err := s.JobJoins("st-2")
	if err != nil {
		t.Fatalf("job joins: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 joins, got %d", len(got))
	}
	if got[0].OffsetPx != 142 || got[1].OffsetPx != 140 {
		t.Fatalf("join order or values wrong: %+v", got)
	}
	if !got[1].LowConfidence || got[0].LowConfidence {
		t.Fatalf("low confidence flags wrong: %+v", got)
	}
}
