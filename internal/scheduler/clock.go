package scheduler

import "time"

// inWindow reports whether hour falls inside [from, to), supporting windows
// that wrap past midnight (from > to), like the 18:00–05:59 broadcast window.
func inWindow(hour, from, to int) bool {
	if from == to {
		return false
	}
	if from < to {
		return hour >= from && hour < to
	}
	return hour >= from || hour < to
}

// broadcastTarget returns the school day a night-window broadcast refers to:
// evening hours (>= window start) announce tomorrow, small hours announce today.
func broadcastTarget(now time.Time, windowFrom int) time.Time {
	if now.Hour() >= windowFrom {
		return now.AddDate(0, 0, 1)
	}
	return now
}

// nextHour returns the top of the next hour after now.
func nextHour(now time.Time) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	return t.Add(time.Hour)
}

// next10Min returns the next :00/:10/:20/… boundary strictly after now.
func next10Min(now time.Time) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute()-now.Minute()%10, 0, 0, now.Location())
	return t.Add(10 * time.Minute)
}

// nextDailyAt returns today's instant at the given hour if still ahead,
// otherwise tomorrow's.
func nextDailyAt(now time.Time, hour int) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// nextMidnight returns the start of the next calendar day.
func nextMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
}

// nextNewYear returns the next January 1st at the given hour strictly after now.
func nextNewYear(now time.Time, hour int) time.Time {
	t := time.Date(now.Year(), time.January, 1, hour, 0, 0, 0, now.Location())
	if !t.After(now) {
		t = t.AddDate(1, 0, 0)
	}
	return t
}

// atMinutes places minutes-since-midnight on day's calendar date.
func atMinutes(day time.Time, m int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), m/60, m%60, 0, 0, day.Location())
}

// dateKey renders the calendar date part of a dedup key.
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
