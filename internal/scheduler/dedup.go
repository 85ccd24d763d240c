package scheduler

// seenKey identifies one notification bucket: this entity, on this date, for
// this kind of notice, anchored at this time. Marking a key guarantees
// at-most-once delivery inside the bucket.
type seenKey struct {
	entity string // group name or user ID
	date   string // YYYY-MM-DD
	kind   string // "broadcast", "reminder", "ended"
	anchor string // triggering hour or lesson start time
}

// seenSet is a scheduler-private dedup set. Each scheduler owns one and is
// the only goroutine touching it, so no locking is needed.
type seenSet struct {
	keys map[seenKey]struct{}
}

func newSeenSet() *seenSet {
	return &seenSet{keys: make(map[seenKey]struct{})}
}

func (s *seenSet) seen(k seenKey) bool {
	_, ok := s.keys[k]
	return ok
}

func (s *seenSet) mark(k seenKey) {
	s.keys[k] = struct{}{}
}

// prune drops every key not belonging to the given date, bounding memory to
// one day's worth of buckets.
func (s *seenSet) prune(date string) {
	for k := range s.keys {
		if k.date != date {
			delete(s.keys, k)
		}
	}
}
