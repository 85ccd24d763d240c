package scheduler

import (
	"testing"
	"time"
)

func at(t *testing.T, y int, m time.Month, d, hh, mm int) time.Time {
	t.Helper()
	msk, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}
	return time.Date(y, m, d, hh, mm, 0, 0, msk)
}

func TestInWindow_Wrap(t *testing.T) {
	// 18:00–05:59 night window
	for _, h := range []int{18, 20, 23, 0, 3, 5} {
		if !inWindow(h, 18, 6) {
			t.Fatalf("hour %d should be inside the night window", h)
		}
	}
	for _, h := range []int{6, 9, 12, 17} {
		if inWindow(h, 18, 6) {
			t.Fatalf("hour %d should be outside the night window", h)
		}
	}
}

func TestBroadcastTarget(t *testing.T) {
	// 23:00 on March 10 announces March 11.
	target := broadcastTarget(at(t, 2025, time.March, 10, 23, 0), 18)
	if target.Day() != 11 || target.Month() != time.March {
		t.Fatalf("want March 11, got %s", target.Format("2006-01-02"))
	}
	// 02:00 on March 10 announces March 10.
	target = broadcastTarget(at(t, 2025, time.March, 10, 2, 0), 18)
	if target.Day() != 10 {
		t.Fatalf("want March 10, got %s", target.Format("2006-01-02"))
	}
}

func TestNextHour(t *testing.T) {
	got := nextHour(at(t, 2025, time.March, 10, 19, 46))
	if !got.Equal(at(t, 2025, time.March, 10, 20, 0)) {
		t.Fatalf("want 20:00, got %s", got)
	}
	got = nextHour(at(t, 2025, time.March, 10, 23, 30))
	if !got.Equal(at(t, 2025, time.March, 11, 0, 0)) {
		t.Fatalf("want next-day 00:00, got %s", got)
	}
}

func TestNext10Min(t *testing.T) {
	got := next10Min(at(t, 2025, time.March, 10, 9, 4))
	if !got.Equal(at(t, 2025, time.March, 10, 9, 10)) {
		t.Fatalf("want 09:10, got %s", got)
	}
	// Exactly on a boundary advances to the next one.
	got = next10Min(at(t, 2025, time.March, 10, 9, 10))
	if !got.Equal(at(t, 2025, time.March, 10, 9, 20)) {
		t.Fatalf("want 09:20, got %s", got)
	}
	got = next10Min(at(t, 2025, time.March, 10, 23, 55))
	if !got.Equal(at(t, 2025, time.March, 11, 0, 0)) {
		t.Fatalf("want next-day 00:00, got %s", got)
	}
}

func TestNextDailyAt(t *testing.T) {
	got := nextDailyAt(at(t, 2025, time.March, 10, 6, 30), 8)
	if !got.Equal(at(t, 2025, time.March, 10, 8, 0)) {
		t.Fatalf("want today 08:00, got %s", got)
	}
	got = nextDailyAt(at(t, 2025, time.March, 10, 8, 0), 8)
	if !got.Equal(at(t, 2025, time.March, 11, 8, 0)) {
		t.Fatalf("want tomorrow 08:00, got %s", got)
	}
}

func TestNextNewYear(t *testing.T) {
	got := nextNewYear(at(t, 2025, time.June, 15, 12, 0), 9)
	if !got.Equal(at(t, 2026, time.January, 1, 9, 0)) {
		t.Fatalf("mid-year: want Jan 1 2026 09:00, got %s", got)
	}
	got = nextNewYear(at(t, 2025, time.January, 1, 8, 0), 9)
	if !got.Equal(at(t, 2025, time.January, 1, 9, 0)) {
		t.Fatalf("early Jan 1: want same day 09:00, got %s", got)
	}
	// After firing at 09:30, the next occurrence is a year away.
	got = nextNewYear(at(t, 2025, time.January, 1, 9, 30), 9)
	if !got.Equal(at(t, 2026, time.January, 1, 9, 0)) {
		t.Fatalf("post-fire: want Jan 1 2026 09:00, got %s", got)
	}
}

func TestAtMinutes(t *testing.T) {
	day := at(t, 2025, time.March, 10, 14, 37)
	got := atMinutes(day, 9*60+30)
	if !got.Equal(at(t, 2025, time.March, 10, 9, 30)) {
		t.Fatalf("want 09:30 same day, got %s", got)
	}
}
