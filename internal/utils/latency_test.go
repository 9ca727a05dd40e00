package utils

import (
	"testing"
	"time"
)

func TestLatencyTrackerPercentile(t *testing.T) {
	tracker := NewLatencyTracker(10)
	for ms := 10; ms <= 50; ms += 10 {
		tracker.Observe(time.Duration(ms) * time.Millisecond)
	}

	if got := tracker.Count(); got != 5 {
		t.Fatalf("Count() = %d, want 5", got)
	}

	if p95 := tracker.Percentile(95); p95 < 40*time.Millisecond {
		t.Fatalf("Percentile(95) = %v, want >= 40ms", p95)
	}
	if p0 := tracker.Percentile(0); p0 != 10*time.Millisecond {
		t.Fatalf("Percentile(0) = %v, want 10ms", p0)
	}
	if p100 := tracker.Percentile(100); p100 != 50*time.Millisecond {
		t.Fatalf("Percentile(100) = %v, want 50ms", p100)
	}
}

func TestLatencyTrackerEmpty(t *testing.T) {
	tracker := NewLatencyTracker(4)
	if p95 := tracker.Percentile(95); p95 != 0 {
		t.Fatalf("Percentile(95) on empty tracker = %v, want 0", p95)
	}
}

func TestLatencyTrackerEvictsOldest(t *testing.T) {
	tracker := NewLatencyTracker(3)
	for i := 0; i < 10; i++ {
		tracker.Observe(time.Duration(i) * time.Millisecond)
	}

	if got := tracker.Count(); got != 3 {
		t.Fatalf("Count() = %d, want 3", got)
	}
	// Only the three most recent samples (7ms, 8ms, 9ms) survive.
	if min := tracker.Percentile(0); min != 7*time.Millisecond {
		t.Fatalf("Percentile(0) after eviction = %v, want 7ms", min)
	}
}
