package scheduler

import "testing"

func TestSeenSet(t *testing.T) {
	s := newSeenSet()
	k := seenKey{entity: "ИДБ-23-10", date: "2025-03-11", kind: "broadcast", anchor: "23"}

	if s.seen(k) {
		t.Fatalf("fresh set should not contain the key")
	}
	s.mark(k)
	if !s.seen(k) {
		t.Fatalf("marked key should be seen")
	}

	// A different anchor is a different bucket.
	other := k
	other.anchor = "5"
	if s.seen(other) {
		t.Fatalf("different anchor must not collide")
	}
}

func TestSeenSet_Prune(t *testing.T) {
	s := newSeenSet()
	old := seenKey{entity: "1", date: "2025-03-10", kind: "reminder", anchor: "09:00"}
	cur := seenKey{entity: "1", date: "2025-03-11", kind: "reminder", anchor: "09:00"}
	s.mark(old)
	s.mark(cur)

	s.prune("2025-03-11")

	if s.seen(old) {
		t.Fatalf("stale key should be pruned")
	}
	if !s.seen(cur) {
		t.Fatalf("current-day key must survive pruning")
	}
}
