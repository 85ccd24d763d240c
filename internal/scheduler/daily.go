package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/NikTak777/stankin-multitool-bot/internal/domain"
	"github.com/NikTak777/stankin-multitool-bot/internal/message"
	"github.com/NikTak777/stankin-multitool-bot/internal/metrics"
	"github.com/NikTak777/stankin-multitool-bot/internal/store"
)

// BroadcastConfig bounds the nightly broadcast window and supplies the
// fallback send hour for groups without a valid setting.
type BroadcastConfig struct {
	NightFrom   int // window start hour, inclusive
	NightTo     int // window end hour, exclusive
	DefaultHour int
}

// DailyBroadcast sends each registered group its upcoming school-day schedule
// once per night, at the group's configured hour inside the night window.
type DailyBroadcast struct {
	repo   store.Repo
	tt     Timetable
	sender Sender
	log    *zap.Logger
	cfg    BroadcastConfig
	seen   *seenSet
	now    func() time.Time
}

func NewDailyBroadcast(repo store.Repo, tt Timetable, sender Sender, log *zap.Logger, loc *time.Location, cfg BroadcastConfig) *DailyBroadcast {
	return &DailyBroadcast{
		repo:   repo,
		tt:     tt,
		sender: sender,
		log:    log,
		cfg:    cfg,
		seen:   newSeenSet(),
		now:    func() time.Time { return time.Now().In(loc) },
	}
}

// Run executes the broadcast loop until ctx is canceled. Waking happens on
// hour boundaries inside the night window; outside it the loop sleeps until
// the window opens.
func (s *DailyBroadcast) Run(ctx context.Context) {
	s.log.Info("daily broadcast scheduler started",
		zap.Int("window_from", s.cfg.NightFrom), zap.Int("window_to", s.cfg.NightTo))

	for {
		now := s.now()

		if !inWindow(now.Hour(), s.cfg.NightFrom, s.cfg.NightTo) {
			if !waitUntil(ctx, now, nextDailyAt(now, s.cfg.NightFrom)) {
				s.log.Info("daily broadcast scheduler stopping")
				return
			}
			continue
		}

		if now.Minute() != 0 {
			if !waitUntil(ctx, now, nextHour(now)) {
				s.log.Info("daily broadcast scheduler stopping")
				return
			}
			continue
		}

		if taskEnabled(ctx, s.repo, s.log, TaskDailyBroadcast) {
			if err := protect(func() error { return s.pass(ctx, now) }); err != nil {
				s.log.Error("daily broadcast pass failed", zap.Error(err))
				metrics.SchedulerErrors.WithLabelValues(TaskDailyBroadcast).Inc()
				if !wait(ctx, errCooldown) {
					return
				}
				continue
			}
		}

		now = s.now()
		if !waitUntil(ctx, now, nextHour(now)) {
			s.log.Info("daily broadcast scheduler stopping")
			return
		}
	}
}

// pass evaluates every registered group against the current hour.
func (s *DailyBroadcast) pass(ctx context.Context, now time.Time) error {
	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}

	target := broadcastTarget(now, s.cfg.NightFrom)

	for _, g := range groups {
		hour := g.SendHour
		if hour < 0 || hour > 23 {
			if hour != -1 {
				s.log.Warn("group has invalid send hour, using default",
					zap.String("group", g.Name), zap.Int("send_hour", hour),
					zap.Int("default", s.cfg.DefaultHour))
			}
			hour = s.cfg.DefaultHour
		}
		if !inWindow(hour, s.cfg.NightFrom, s.cfg.NightTo) {
			continue
		}
		if hour != now.Hour() {
			continue
		}

		key := seenKey{entity: g.Name, date: dateKey(target), kind: "broadcast", anchor: strconv.Itoa(hour)}
		if s.seen.seen(key) {
			continue
		}

		s.broadcast(g, target)
		// Marked regardless of outcome: a failed send is not retried inside
		// the same bucket.
		s.seen.mark(key)
	}

	// Keys are dated by target day, so pruning by it keeps the whole current
	// night (which crosses midnight) and drops previous nights.
	s.seen.prune(dateKey(target))
	metrics.SchedulerPasses.WithLabelValues(TaskDailyBroadcast).Inc()
	return nil
}

func (s *DailyBroadcast) broadcast(g domain.Group, target time.Time) {
	if !s.tt.Exists(g.Name) {
		s.log.Warn("group has no schedule file", zap.String("group", g.Name))
		return
	}
	lessons, err := s.tt.GroupSchedule(g.Name)
	if err != nil {
		s.log.Error("schedule load failed", zap.String("group", g.Name), zap.Error(err))
		return
	}

	day := domain.LessonsOn(lessons, target, domain.SubgroupCommon)
	text := message.DaySchedule(g.Name, target, day)

	if err := s.sender.SendHTML(g.ChatID, text); err != nil {
		s.log.Error("schedule broadcast failed",
			zap.String("group", g.Name), zap.Int64("chat", g.ChatID), zap.Error(err))
		metrics.NotificationsSent.WithLabelValues(TaskDailyBroadcast, "error").Inc()
		return
	}
	s.log.Info("schedule broadcast sent",
		zap.String("group", g.Name), zap.String("date", dateKey(target)))
	metrics.NotificationsSent.WithLabelValues(TaskDailyBroadcast, "ok").Inc()
}
