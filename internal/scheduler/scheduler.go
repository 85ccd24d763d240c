package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/NikTak777/stankin-multitool-bot/internal/domain"
	"github.com/NikTak777/stankin-multitool-bot/internal/store"
)

// Task names as persisted in task_settings. Admins flip these; schedulers
// re-read them every wake cycle.
const (
	TaskDailyBroadcast = "daily_broadcast"
	TaskBirthdayNotify = "birthday_notify"
	TaskLessonNotify   = "lesson_notify"
	TaskAnnualGreeting = "annual_greeting"
)

// Tasks lists every scheduler toggle in display order.
var Tasks = []string{TaskDailyBroadcast, TaskBirthdayNotify, TaskLessonNotify, TaskAnnualGreeting}

// cooldown applied after a failed pass so a broken cycle never busy-loops.
const errCooldown = 60 * time.Second

// Sender is the minimal transport interface the schedulers need.
// telegram.Dispatcher implements it.
type Sender interface {
	Send(chatID int64, text string) error
	SendHTML(chatID int64, text string) error
	// SendWithContactButton attaches an inline button opening a chat with userID.
	SendWithContactButton(chatID int64, text, label string, userID int64) error
	// SendWithMenuButton attaches the "back to menu" inline button.
	SendWithMenuButton(chatID int64, text string) error
	// Reachable reports whether the bot can still message the user privately.
	Reachable(userID int64) bool
}

// Timetable provides group lesson schedules. timetable.Source implements it.
type Timetable interface {
	Exists(group string) bool
	GroupSchedule(group string) ([]domain.Lesson, error)
}

// wait sleeps for d or until ctx is done; reports whether the full wait elapsed.
func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// waitUntil sleeps until the wall-clock instant t.
func waitUntil(ctx context.Context, now, t time.Time) bool {
	return wait(ctx, t.Sub(now))
}

// protect runs one pass and converts a panic into an error, so a single bad
// cycle can never kill a scheduler goroutine.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pass panicked: %v", r)
		}
	}()
	return fn()
}

// taskEnabled reads a toggle, treating read errors as enabled (the bot keeps
// notifying rather than going silent on a storage hiccup).
func taskEnabled(ctx context.Context, repo store.Repo, log *zap.Logger, name string) bool {
	enabled, err := repo.TaskEnabled(ctx, name)
	if err != nil {
		log.Warn("task toggle read failed", zap.String("task", name), zap.Error(err))
		return true
	}
	return enabled
}
