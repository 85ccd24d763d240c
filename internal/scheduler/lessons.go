package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/NikTak777/stankin-multitool-bot/internal/domain"
	"github.com/NikTak777/stankin-multitool-bot/internal/message"
	"github.com/NikTak777/stankin-multitool-bot/internal/metrics"
	"github.com/NikTak777/stankin-multitool-bot/internal/store"
	"github.com/NikTak777/stankin-multitool-bot/internal/timetable"
)

// how long before the first lesson the reminder window opens
const reminderLead = time.Hour

// how often the toggle is re-checked while the task is disabled
const toggleRecheck = 10 * time.Minute

// LessonNotify wakes on 10-minute boundaries and, per opted-in user, sends a
// reminder before the first lesson of the day and an "ended" notice after
// each lesson, naming the next one.
type LessonNotify struct {
	repo   store.Repo
	tt     Timetable
	sender Sender
	log    *zap.Logger
	seen   *seenSet
	now    func() time.Time
}

func NewLessonNotify(repo store.Repo, tt Timetable, sender Sender, log *zap.Logger, loc *time.Location) *LessonNotify {
	return &LessonNotify{
		repo:   repo,
		tt:     tt,
		sender: sender,
		log:    log,
		seen:   newSeenSet(),
		now:    func() time.Time { return time.Now().In(loc) },
	}
}

// Run executes the notification loop until ctx is canceled.
func (s *LessonNotify) Run(ctx context.Context) {
	s.log.Info("lesson notification scheduler started")

	for {
		if !taskEnabled(ctx, s.repo, s.log, TaskLessonNotify) {
			if !wait(ctx, toggleRecheck) {
				s.log.Info("lesson notification scheduler stopping")
				return
			}
			continue
		}

		now := s.now()
		if !waitUntil(ctx, now, next10Min(now)) {
			s.log.Info("lesson notification scheduler stopping")
			return
		}

		now = s.now()
		if err := protect(func() error { return s.pass(ctx, now) }); err != nil {
			s.log.Error("lesson notification pass failed", zap.Error(err))
			metrics.SchedulerErrors.WithLabelValues(TaskLessonNotify).Inc()
			if !wait(ctx, errCooldown) {
				return
			}
		}
	}
}

// pass evaluates every subscriber against the current instant.
func (s *LessonNotify) pass(ctx context.Context, now time.Time) error {
	s.seen.prune(dateKey(now))

	users, err := s.repo.ListLessonSubscribers(ctx)
	if err != nil {
		return fmt.Errorf("list subscribers: %w", err)
	}

	for i := range users {
		u := &users[i]
		if err := s.checkUser(u, now); err != nil {
			// One user's bad data must not starve the rest of the pass.
			s.log.Warn("lesson check failed", zap.Int64("user", u.ID), zap.Error(err))
		}
	}

	metrics.SchedulerPasses.WithLabelValues(TaskLessonNotify).Inc()
	return nil
}

func (s *LessonNotify) checkUser(u *domain.User, now time.Time) error {
	lessons, err := s.tt.GroupSchedule(u.Group)
	if errors.Is(err, timetable.ErrNotFound) {
		return nil // no schedule on file: nothing to do this cycle
	}
	if err != nil {
		return err
	}

	day := domain.LessonsOn(lessons, now, u.Subgroup)
	if len(day) == 0 {
		return nil
	}
	date := dateKey(now)
	user := strconv.FormatInt(u.ID, 10)

	// Reminder before the first lesson of the day.
	first := &day[0]
	start := atMinutes(now, first.StartM)
	if now.Before(start) && !now.Before(start.Add(-reminderLead)) {
		key := seenKey{entity: user, date: date, kind: "reminder", anchor: domain.FormatMinutes(first.StartM)}
		if !s.seen.seen(key) {
			s.deliver(u, message.LessonReminder(first), "reminder")
			s.seen.mark(key)
		}
	}

	// "Ended" notices.
	for i := range day {
		l := &day[i]
		if now.Before(atMinutes(now, l.EndM)) {
			continue
		}
		var next *domain.Lesson
		if i+1 < len(day) {
			next = &day[i+1]
			if !now.Before(atMinutes(now, next.StartM)) {
				// The next lesson already started; its own "ended" event will
				// cover what follows.
				continue
			}
		}
		key := seenKey{entity: user, date: date, kind: "ended", anchor: domain.FormatMinutes(l.StartM)}
		if s.seen.seen(key) {
			continue
		}
		s.deliver(u, message.LessonEnded(l, next), "ended")
		s.seen.mark(key)
	}
	return nil
}

func (s *LessonNotify) deliver(u *domain.User, text, what string) {
	if !s.sender.Reachable(u.ID) {
		s.log.Warn("user unreachable for lesson notification", zap.Int64("user", u.ID))
		return
	}
	if err := s.sender.SendWithMenuButton(u.ID, text); err != nil {
		s.log.Error("lesson notification failed",
			zap.Int64("user", u.ID), zap.String("what", what), zap.Error(err))
		metrics.NotificationsSent.WithLabelValues(TaskLessonNotify, "error").Inc()
		return
	}
	s.log.Info("lesson notification sent", zap.Int64("user", u.ID), zap.String("what", what))
	metrics.NotificationsSent.WithLabelValues(TaskLessonNotify, "ok").Inc()
}
