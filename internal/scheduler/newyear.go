package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/NikTak777/stankin-multitool-bot/internal/message"
	"github.com/NikTak777/stankin-multitool-bot/internal/metrics"
	"github.com/NikTak777/stankin-multitool-bot/internal/store"
)

const (
	greetingHour = 9  // fire at 09:00 on January 1st
	greetingLast = 11 // past this hour the greeting is skipped for the year
)

// greetingAction is what the greeting loop should do at a given instant.
type greetingAction int

const (
	greetWait greetingAction = iota // sleep until the returned instant, then re-plan
	greetFire                       // inside the fire window, greet now
	greetSkip                       // window missed, sleep to next year's occurrence
)

// greetingPlan decides the loop's next step. The greeting fires any time inside
// [09:00, 11:00) on January 1st, so a restart at 10:30 still greets; a restart
// at 11:00 or later skips the whole year.
func greetingPlan(now time.Time) (greetingAction, time.Time) {
	if now.Month() != time.January || now.Day() != 1 {
		return greetWait, nextNewYear(now, greetingHour)
	}
	fireAt := time.Date(now.Year(), time.January, 1, greetingHour, 0, 0, 0, now.Location())
	if now.Before(fireAt) {
		return greetWait, fireAt
	}
	if now.Hour() >= greetingLast {
		return greetSkip, nextNewYear(now, greetingHour)
	}
	return greetFire, now
}

// AnnualGreeting broadcasts a New Year message to every user and group once
// per year on January 1st morning, then sleeps until the next occurrence.
type AnnualGreeting struct {
	repo   store.Repo
	sender Sender
	log    *zap.Logger
	now    func() time.Time
}

func NewAnnualGreeting(repo store.Repo, sender Sender, log *zap.Logger, loc *time.Location) *AnnualGreeting {
	return &AnnualGreeting{
		repo:   repo,
		sender: sender,
		log:    log,
		now:    func() time.Time { return time.Now().In(loc) },
	}
}

// Run executes the greeting loop until ctx is canceled.
func (s *AnnualGreeting) Run(ctx context.Context) {
	for {
		if !taskEnabled(ctx, s.repo, s.log, TaskAnnualGreeting) {
			// Re-check daily; the disabled branch does not touch any
			// fired-this-year state.
			now := s.now()
			if !waitUntil(ctx, now, nextMidnight(now)) {
				s.log.Info("annual greeting scheduler stopping")
				return
			}
			continue
		}

		now := s.now()
		action, at := greetingPlan(now)
		switch action {
		case greetWait:
			s.log.Info("next new year greeting scheduled", zap.Time("at", at))
			if !waitUntil(ctx, now, at) {
				s.log.Info("annual greeting scheduler stopping")
				return
			}
			continue
		case greetSkip:
			s.log.Warn("new year greeting window missed, skipping this year", zap.Time("next", at))
			if !waitUntil(ctx, now, at) {
				s.log.Info("annual greeting scheduler stopping")
				return
			}
			continue
		}

		// The next occurrence anchors on the fire instant, so a slow fan-out
		// cannot drift the yearly schedule.
		fired := now
		if err := protect(func() error { return s.fanout(ctx) }); err != nil {
			s.log.Error("new year fan-out failed", zap.Error(err))
			metrics.SchedulerErrors.WithLabelValues(TaskAnnualGreeting).Inc()
		}

		next := nextNewYear(fired, greetingHour)
		s.log.Info("new year greetings done", zap.Time("next", next))
		if !waitUntil(ctx, s.now(), next) {
			s.log.Info("annual greeting scheduler stopping")
			return
		}
	}
}

// fanout greets every known user, then every registered group.
func (s *AnnualGreeting) fanout(ctx context.Context) error {
	ids, err := s.repo.ListUserIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		u, err := s.repo.GetUser(ctx, id)
		if err != nil {
			s.log.Warn("user lookup failed", zap.Int64("user", id), zap.Error(err))
			continue
		}
		if !s.sender.Reachable(id) {
			s.log.Warn("user unreachable for new year greeting", zap.Int64("user", id))
			continue
		}
		if err := s.sender.SendWithMenuButton(id, message.NewYearPersonal(u.DisplayName())); err != nil {
			s.log.Error("new year greeting failed", zap.Int64("user", id), zap.Error(err))
			metrics.NotificationsSent.WithLabelValues(TaskAnnualGreeting, "error").Inc()
			continue
		}
		metrics.NotificationsSent.WithLabelValues(TaskAnnualGreeting, "ok").Inc()
	}

	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return err
	}
	for _, g := range groups {
		if err := s.sender.Send(g.ChatID, message.NewYearGroup(g.Name)); err != nil {
			s.log.Error("new year group greeting failed",
				zap.String("group", g.Name), zap.Int64("chat", g.ChatID), zap.Error(err))
			metrics.NotificationsSent.WithLabelValues(TaskAnnualGreeting, "error").Inc()
			continue
		}
		s.log.Info("new year greeting sent to group", zap.String("group", g.Name))
		metrics.NotificationsSent.WithLabelValues(TaskAnnualGreeting, "ok").Inc()
	}

	metrics.SchedulerPasses.WithLabelValues(TaskAnnualGreeting).Inc()
	return nil
}
