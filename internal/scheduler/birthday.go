package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/NikTak777/stankin-multitool-bot/internal/domain"
	"github.com/NikTak777/stankin-multitool-bot/internal/message"
	"github.com/NikTak777/stankin-multitool-bot/internal/metrics"
	"github.com/NikTak777/stankin-multitool-bot/internal/store"
)

// Birthday runs once a day at a fixed hour and notifies three audiences per
// birthday person: the class-group chat, each friend, and the person.
// The "in 7 days" cohort gets the same fanout minus the personal message.
type Birthday struct {
	repo   store.Repo
	sender Sender
	log    *zap.Logger
	hour   int
	now    func() time.Time
}

func NewBirthday(repo store.Repo, sender Sender, log *zap.Logger, loc *time.Location, hour int) *Birthday {
	return &Birthday{
		repo:   repo,
		sender: sender,
		log:    log,
		hour:   hour,
		now:    func() time.Time { return time.Now().In(loc) },
	}
}

// Run executes the daily check loop until ctx is canceled. The loop fires at
// most once per calendar day by construction of the sleep target, so no dedup
// set is needed here.
func (s *Birthday) Run(ctx context.Context) {
	for {
		now := s.now()
		next := nextDailyAt(now, s.hour)
		s.log.Info("next birthday check scheduled", zap.Time("at", next))
		if !waitUntil(ctx, now, next) {
			s.log.Info("birthday scheduler stopping")
			return
		}

		now = s.now()
		if !taskEnabled(ctx, s.repo, s.log, TaskBirthdayNotify) {
			continue
		}
		if err := protect(func() error { return s.pass(ctx, now) }); err != nil {
			s.log.Error("birthday pass failed", zap.Error(err))
			metrics.SchedulerErrors.WithLabelValues(TaskBirthdayNotify).Inc()
			if !wait(ctx, errCooldown) {
				return
			}
		}
	}
}

// pass processes both cohorts for the given day.
func (s *Birthday) pass(ctx context.Context, now time.Time) error {
	groups, err := s.groupIndex(ctx)
	if err != nil {
		return err
	}

	today, err := s.repo.UsersWithBirthdayOn(ctx, now.Day(), int(now.Month()))
	if err != nil {
		return fmt.Errorf("today cohort: %w", err)
	}
	for i := range today {
		s.notifyToday(&today[i], groups)
	}

	inWeek := now.AddDate(0, 0, 7)
	upcoming, err := s.repo.UsersWithBirthdayOn(ctx, inWeek.Day(), int(inWeek.Month()))
	if err != nil {
		return fmt.Errorf("upcoming cohort: %w", err)
	}
	for i := range upcoming {
		s.notifyUpcoming(&upcoming[i], groups)
	}

	metrics.SchedulerPasses.WithLabelValues(TaskBirthdayNotify).Inc()
	return nil
}

func (s *Birthday) groupIndex(ctx context.Context) (map[string]domain.Group, error) {
	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	byName := make(map[string]domain.Group, len(groups))
	for _, g := range groups {
		byName[g.Name] = g
	}
	return byName, nil
}

// notifyToday fans out the "birthday is today" notices for one person.
func (s *Birthday) notifyToday(u *domain.User, groups map[string]domain.Group) {
	mention := u.Mention()
	name := u.DisplayName()

	// Group chat leg: only for public-congratulation opt-ins, and only when
	// the person's chat is reachable (the button links to it).
	if u.Approved {
		if g, ok := groups[u.Group]; ok {
			if s.sender.Reachable(u.ID) {
				err := s.sender.SendWithContactButton(
					g.ChatID, message.BirthdayGroup(mention), message.CongratulateButton(name), u.ID)
				s.report("group congratulation", g.ChatID, u.ID, err)
			} else {
				s.log.Warn("birthday person unreachable, skipping group leg", zap.Int64("user", u.ID))
			}
		}
	}

	// Friends leg.
	for _, fid := range u.FriendIDs {
		err := s.sender.Send(fid, message.BirthdayFriend(mention))
		s.report("friend congratulation", fid, u.ID, err)
	}

	// Personal leg.
	if s.sender.Reachable(u.ID) {
		err := s.sender.Send(u.ID, message.BirthdayPersonal(name))
		s.report("personal congratulation", u.ID, u.ID, err)
	} else {
		s.log.Warn("birthday person unreachable, skipping personal leg", zap.Int64("user", u.ID))
	}
}

// notifyUpcoming fans out the "birthday in a week" notices for one person.
// The person themselves is not reminded about their own birthday.
func (s *Birthday) notifyUpcoming(u *domain.User, groups map[string]domain.Group) {
	mention := u.Mention()

	if u.Approved {
		if g, ok := groups[u.Group]; ok {
			err := s.sender.Send(g.ChatID, message.UpcomingGroup(mention, u.Wishlist))
			s.report("group reminder", g.ChatID, u.ID, err)
		}
	}

	for _, fid := range u.FriendIDs {
		err := s.sender.Send(fid, message.UpcomingFriend(mention, u.Wishlist))
		s.report("friend reminder", fid, u.ID, err)
	}
}

func (s *Birthday) report(what string, chatID, userID int64, err error) {
	if err != nil {
		s.log.Error(what+" failed",
			zap.Int64("chat", chatID), zap.Int64("user", userID), zap.Error(err))
		metrics.NotificationsSent.WithLabelValues(TaskBirthdayNotify, "error").Inc()
		return
	}
	s.log.Info(what+" sent", zap.Int64("chat", chatID), zap.Int64("user", userID))
	metrics.NotificationsSent.WithLabelValues(TaskBirthdayNotify, "ok").Inc()
}
