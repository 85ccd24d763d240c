package scheduler

import (
	"context"
	"fmt"

	"github.com/NikTak777/stankin-multitool-bot/internal/domain"
	"github.com/NikTak777/stankin-multitool-bot/internal/store"
	"github.com/NikTak777/stankin-multitool-bot/internal/timetable"
)

// fakeRepo is an in-memory store.Repo for scheduler tests.
type fakeRepo struct {
	users     map[int64]*domain.User
	birthdays map[[2]int][]domain.User // (day, month) -> cohort
	subs      []domain.User
	groups    []domain.Group
	toggles   map[string]bool
	toggleErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:     make(map[int64]*domain.User),
		birthdays: make(map[[2]int][]domain.User),
		toggles:   make(map[string]bool),
	}
}

func (r *fakeRepo) GetUser(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) UpsertUser(_ context.Context, u *domain.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeRepo) ListUserIDs(context.Context) ([]int64, error) {
	var ids []int64
	for id := range r.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeRepo) ListLessonSubscribers(context.Context) ([]domain.User, error) {
	return r.subs, nil
}

func (r *fakeRepo) UsersWithBirthdayOn(_ context.Context, day, month int) ([]domain.User, error) {
	return r.birthdays[[2]int{day, month}], nil
}

func (r *fakeRepo) ListGroups(context.Context) ([]domain.Group, error) {
	return r.groups, nil
}

func (r *fakeRepo) UpsertGroup(_ context.Context, g domain.Group) error {
	r.groups = append(r.groups, g)
	return nil
}

func (r *fakeRepo) TaskEnabled(_ context.Context, name string) (bool, error) {
	if r.toggleErr != nil {
		return true, r.toggleErr
	}
	enabled, ok := r.toggles[name]
	if !ok {
		return true, nil
	}
	return enabled, nil
}

func (r *fakeRepo) SetTaskEnabled(_ context.Context, name string, enabled bool) error {
	r.toggles[name] = enabled
	return nil
}

func (r *fakeRepo) TaskStatuses(context.Context) (map[string]bool, error) {
	return r.toggles, nil
}

func (r *fakeRepo) Close() error { return nil }

// sentMsg records one dispatched message.
type sentMsg struct {
	chat  int64
	text  string
	mode  string // "plain", "html", "contact", "menu"
	label string // contact button label
	user  int64  // contact button target
}

// fakeSender records sends and can simulate failures and unreachable chats.
type fakeSender struct {
	sent        []sentMsg
	attempts    int // every send try, including failed ones
	failing     map[int64]bool
	unreachable map[int64]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		failing:     make(map[int64]bool),
		unreachable: make(map[int64]bool),
	}
}

func (s *fakeSender) record(m sentMsg) error {
	s.attempts++
	if s.failing[m.chat] {
		return fmt.Errorf("chat %d rejects messages", m.chat)
	}
	s.sent = append(s.sent, m)
	return nil
}

func (s *fakeSender) Send(chatID int64, text string) error {
	return s.record(sentMsg{chat: chatID, text: text, mode: "plain"})
}

func (s *fakeSender) SendHTML(chatID int64, text string) error {
	return s.record(sentMsg{chat: chatID, text: text, mode: "html"})
}

func (s *fakeSender) SendWithContactButton(chatID int64, text, label string, userID int64) error {
	return s.record(sentMsg{chat: chatID, text: text, mode: "contact", label: label, user: userID})
}

func (s *fakeSender) SendWithMenuButton(chatID int64, text string) error {
	return s.record(sentMsg{chat: chatID, text: text, mode: "menu"})
}

func (s *fakeSender) Reachable(userID int64) bool {
	return !s.unreachable[userID]
}

// to returns the messages sent to one chat.
func (s *fakeSender) to(chatID int64) []sentMsg {
	var res []sentMsg
	for _, m := range s.sent {
		if m.chat == chatID {
			res = append(res, m)
		}
	}
	return res
}

// fakeTimetable serves in-memory schedules.
type fakeTimetable struct {
	schedules map[string][]domain.Lesson
}

func newFakeTimetable() *fakeTimetable {
	return &fakeTimetable{schedules: make(map[string][]domain.Lesson)}
}

func (t *fakeTimetable) Exists(group string) bool {
	_, ok := t.schedules[group]
	return ok
}

func (t *fakeTimetable) GroupSchedule(group string) ([]domain.Lesson, error) {
	lessons, ok := t.schedules[group]
	if !ok {
		return nil, fmt.Errorf("%w: group %s", timetable.ErrNotFound, group)
	}
	return lessons, nil
}
