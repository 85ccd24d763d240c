package scheduler

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/NikTak777/stankin-multitool-bot/internal/domain"
)

func newTestDaily(repo *fakeRepo, tt *fakeTimetable, sender *fakeSender) *DailyBroadcast {
	return &DailyBroadcast{
		repo:   repo,
		tt:     tt,
		sender: sender,
		log:    zap.NewNop(),
		cfg:    BroadcastConfig{NightFrom: 18, NightTo: 6, DefaultHour: 20},
		seen:   newSeenSet(),
	}
}

func TestDailyBroadcast_FiresOncePerBucket(t *testing.T) {
	repo := newFakeRepo()
	repo.groups = []domain.Group{{Name: "ИДБ-23-10", ChatID: -100, SendHour: 23}}
	tt := newFakeTimetable()
	tt.schedules["ИДБ-23-10"] = nil // schedule on file, empty day
	sender := newFakeSender()
	s := newTestDaily(repo, tt, sender)

	now := at(t, 2025, time.March, 10, 23, 0)
	if err := s.pass(context.Background(), now); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("want 1 broadcast, got %d", len(sender.sent))
	}
	if sender.sent[0].mode != "html" || sender.sent[0].chat != -100 {
		t.Fatalf("unexpected message: %+v", sender.sent[0])
	}
	// Evening broadcast announces tomorrow.
	if !strings.Contains(sender.sent[0].text, "11.03") {
		t.Fatalf("want target date 11.03 in text:\n%s", sender.sent[0].text)
	}

	// Same bucket again: no duplicate.
	if err := s.pass(context.Background(), now); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("dedup failed, got %d messages", len(sender.sent))
	}
}

func TestDailyBroadcast_SkipsOtherHours(t *testing.T) {
	repo := newFakeRepo()
	repo.groups = []domain.Group{{Name: "ИДБ-23-10", ChatID: -100, SendHour: 23}}
	tt := newFakeTimetable()
	tt.schedules["ИДБ-23-10"] = nil
	sender := newFakeSender()
	s := newTestDaily(repo, tt, sender)

	if err := s.pass(context.Background(), at(t, 2025, time.March, 10, 22, 0)); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("nothing should fire at 22:00 for a 23:00 group")
	}
}

func TestDailyBroadcast_HourOutsideWindowIgnored(t *testing.T) {
	repo := newFakeRepo()
	repo.groups = []domain.Group{{Name: "ИДБ-23-10", ChatID: -100, SendHour: 12}}
	tt := newFakeTimetable()
	tt.schedules["ИДБ-23-10"] = nil
	sender := newFakeSender()
	s := newTestDaily(repo, tt, sender)

	// Even if a pass somehow ran at noon, a midday hour never fires.
	if err := s.pass(context.Background(), at(t, 2025, time.March, 10, 12, 0)); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("midday send hour must be ignored")
	}
}

func TestDailyBroadcast_InvalidOrUnsetHourUsesDefault(t *testing.T) {
	repo := newFakeRepo()
	repo.groups = []domain.Group{
		{Name: "ИДБ-23-10", ChatID: -100, SendHour: 37}, // invalid
		{Name: "ИДБ-23-11", ChatID: -101, SendHour: -1}, // unset
	}
	tt := newFakeTimetable()
	tt.schedules["ИДБ-23-10"] = nil
	tt.schedules["ИДБ-23-11"] = nil
	sender := newFakeSender()
	s := newTestDaily(repo, tt, sender)

	if err := s.pass(context.Background(), at(t, 2025, time.March, 10, 20, 0)); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("both groups should fall back to 20:00, got %d sends", len(sender.sent))
	}
}

func TestDailyBroadcast_DefaultHourBucketDedups(t *testing.T) {
	repo := newFakeRepo()
	repo.groups = []domain.Group{{Name: "ИДБ-23-10", ChatID: -100, SendHour: 37}}
	tt := newFakeTimetable()
	tt.schedules["ИДБ-23-10"] = nil
	sender := newFakeSender()
	s := newTestDaily(repo, tt, sender)

	// The bucket is keyed by the effective (defaulted) hour, so a second pass
	// in the same hour stays deduplicated.
	now := at(t, 2025, time.March, 10, 20, 0)
	if err := s.pass(context.Background(), now); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if err := s.pass(context.Background(), now); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("want 1 broadcast for the defaulted hour, got %d", len(sender.sent))
	}
}

func TestDailyBroadcast_MissingScheduleIsSoft(t *testing.T) {
	repo := newFakeRepo()
	repo.groups = []domain.Group{
		{Name: "ИДБ-23-10", ChatID: -100, SendHour: 23}, // no schedule file
		{Name: "ИДБ-23-11", ChatID: -101, SendHour: 23},
	}
	tt := newFakeTimetable()
	tt.schedules["ИДБ-23-11"] = nil
	sender := newFakeSender()
	s := newTestDaily(repo, tt, sender)

	now := at(t, 2025, time.March, 10, 23, 0)
	if err := s.pass(context.Background(), now); err != nil {
		t.Fatalf("pass: %v", err)
	}
	// The group without a schedule is skipped; the other still broadcasts.
	if len(sender.sent) != 1 || sender.sent[0].chat != -101 {
		t.Fatalf("want only -101 notified, got %+v", sender.sent)
	}
	// And it is not re-attempted within the bucket.
	if err := s.pass(context.Background(), now); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if sender.attempts != 1 {
		t.Fatalf("want 1 attempt total, got %d", sender.attempts)
	}
}

func TestDailyBroadcast_SendFailureNotRetriedInBucket(t *testing.T) {
	repo := newFakeRepo()
	repo.groups = []domain.Group{{Name: "ИДБ-23-10", ChatID: -100, SendHour: 23}}
	tt := newFakeTimetable()
	tt.schedules["ИДБ-23-10"] = nil
	sender := newFakeSender()
	sender.failing[-100] = true
	s := newTestDaily(repo, tt, sender)

	now := at(t, 2025, time.March, 10, 23, 0)
	if err := s.pass(context.Background(), now); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if err := s.pass(context.Background(), now); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	// At-most-once: the failed bucket is marked seen, not retried.
	if sender.attempts != 1 {
		t.Fatalf("want 1 attempt, got %d", sender.attempts)
	}
}
