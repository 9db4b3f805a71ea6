package tasks

import (
	"testing"
	"time"
)

func TestSettleTrackerDebounces(t *testing.T) {
	tr := newSettleTracker(2 * time.Second)
	t0 := time.Now()

	tr.Touch("/cap/a", t0)
	if due := tr.Due(t0.Add(1 * time.Second)); len(due) != 0 {
		t.Fatalf("directory became due too early: %v", due)
	}

	// New activity resets the quiet period.
	tr.Touch("/cap/a", t0.Add(1500*time.Millisecond))
	if due := tr.Due(t0.Add(3 * time.Second)); len(due) != 0 {
		t.Fatalf("touch did not reset the settle period: %v", due)
	}

	due := tr.Due(t0.Add(4 * time.Second))
	if len(due) != 1 || due[0] != "/cap/a" {
		t.Fatalf("expected /cap/a due, got %v", due)
	}

	// A dispatched directory is forgotten until touched again.
	if due := tr.Due(t0.Add(10 * time.Second)); len(due) != 0 {
		t.Fatalf("directory reported due twice: %v", due)
	}
}

func TestSettleTrackerTracksDirectoriesIndependently(t *testing.T) {
	tr := newSettleTracker(time.Second)
	t0 := time.Now()

	tr.Touch("/cap/a", t0)
	tr.Touch("/cap/b", t0.Add(500*time.Millisecond))

	due := tr.Due(t0.Add(1100 * time.Millisecond))
	if len(due) != 1 || due[0] != "/cap/a" {
		t.Fatalf("expected only /cap/a due, got %v", due)
	}

	due = tr.Due(t0.Add(2 * time.Second))
	if len(due) != 1 || due[0] != "/cap/b" {
		t.Fatalf("expected /cap/b due, got %v", due)
	}
}
