package store

import (
	"context"
	"errors"

	"github.com/NikTak777/stankin-multitool-bot/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Repo defines the storage operations the bot and its schedulers need.
type Repo interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	UpsertUser(ctx context.Context, u *domain.User) error
	ListUserIDs(ctx context.Context) ([]int64, error)
	// ListLessonSubscribers returns users who opted in to lesson notifications
	// and have a registered group.
	ListLessonSubscribers(ctx context.Context) ([]domain.User, error)
	// UsersWithBirthdayOn returns users whose birthday falls on the given
	// day and month, regardless of year.
	UsersWithBirthdayOn(ctx context.Context, day, month int) ([]domain.User, error)

	ListGroups(ctx context.Context) ([]domain.Group, error)
	UpsertGroup(ctx context.Context, g domain.Group) error

	// TaskEnabled reads a scheduler toggle. Missing rows mean enabled.
	TaskEnabled(ctx context.Context, name string) (bool, error)
	SetTaskEnabled(ctx context.Context, name string, enabled bool) error
	TaskStatuses(ctx context.Context) (map[string]bool, error)

	Close() error
}
