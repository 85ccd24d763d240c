package domain

import (
	"testing"
	"time"
)

func TestParseHHMM(t *testing.T) {
	m, err := ParseHHMM("09:30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m != 9*60+30 {
		t.Fatalf("want 570, got %d", m)
	}
	for _, bad := range []string{"", "9.30", "24:00", "12:60", "12"} {
		if _, err := ParseHHMM(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	if got := FormatMinutes(8 * 60); got != "08:00" {
		t.Fatalf("want 08:00, got %s", got)
	}
	if got := FormatMinutes(23*60 + 59); got != "23:59" {
		t.Fatalf("want 23:59, got %s", got)
	}
}

func TestParseScheduleDateRange(t *testing.T) {
	from, to, err := ParseScheduleDateRange("2025.02.03-2025.05.26")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !from.Equal(time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("bad from: %s", from)
	}
	if !to.Equal(time.Date(2025, time.May, 26, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("bad to: %s", to)
	}
	if _, _, err := ParseScheduleDateRange("2025.05.26-2025.02.03"); err == nil {
		t.Fatalf("expected error for reversed range")
	}
	if _, _, err := ParseScheduleDateRange("2025.02.03"); err == nil {
		t.Fatalf("expected error for missing end")
	}
}
