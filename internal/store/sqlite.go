package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/NikTak777/stankin-multitool-bot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

const userColumns = `user_id, user_tag, user_name, real_name,
	birth_day, birth_month, birth_year, wishlist,
	group_name, subgroup_name, is_approved, lesson_notify, friends`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u          domain.User
		approved   int
		lessons    int
		friendsCSV string
	)
	if err := row.Scan(
		&u.ID, &u.Tag, &u.Name, &u.RealName,
		&u.BirthDay, &u.BirthMonth, &u.BirthYear, &u.Wishlist,
		&u.Group, &u.Subgroup, &approved, &lessons, &friendsCSV,
	); err != nil {
		return nil, err
	}
	u.Approved = approved != 0
	u.LessonNotify = lessons != 0
	u.FriendIDs = splitIDs(friendsCSV)
	return &u, nil
}

// GetUser returns a user profile by ID or ErrNotFound.
func (r *SQLiteRepo) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpsertUser inserts or updates a user profile keyed by user_id.
func (r *SQLiteRepo) UpsertUser(ctx context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("nil user")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			user_id, user_tag, user_name, real_name,
			birth_day, birth_month, birth_year, wishlist,
			group_name, subgroup_name, is_approved, lesson_notify, friends
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			user_tag      = excluded.user_tag,
			user_name     = excluded.user_name,
			real_name     = excluded.real_name,
			birth_day     = excluded.birth_day,
			birth_month   = excluded.birth_month,
			birth_year    = excluded.birth_year,
			wishlist      = excluded.wishlist,
			group_name    = excluded.group_name,
			subgroup_name = excluded.subgroup_name,
			is_approved   = excluded.is_approved,
			lesson_notify = excluded.lesson_notify,
			friends       = excluded.friends`,
		u.ID, u.Tag, u.Name, u.RealName,
		u.BirthDay, u.BirthMonth, u.BirthYear, u.Wishlist,
		u.Group, u.Subgroup, boolToInt(u.Approved), boolToInt(u.LessonNotify),
		joinIDs(u.FriendIDs),
	)
	return err
}

// ListUserIDs returns every known user ID.
func (r *SQLiteRepo) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM users ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListLessonSubscribers returns users opted in to lesson notifications with a group set.
func (r *SQLiteRepo) ListLessonSubscribers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE lesson_notify = 1 AND group_name != ''
		 ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// UsersWithBirthdayOn returns users whose birthday matches the given day and month.
func (r *SQLiteRepo) UsersWithBirthdayOn(ctx context.Context, day, month int) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE birth_day = ? AND birth_month = ?
		 ORDER BY user_id`, day, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows *sql.Rows) ([]domain.User, error) {
	var res []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *u)
	}
	return res, rows.Err()
}

// ListGroups returns the registered group registry. SendHour is -1 when unset.
func (r *SQLiteRepo) ListGroups(ctx context.Context) ([]domain.Group, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, chat_id, send_hour FROM groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Group
	for rows.Next() {
		var (
			g    domain.Group
			hour sql.NullInt64
		)
		if err := rows.Scan(&g.Name, &g.ChatID, &hour); err != nil {
			return nil, err
		}
		g.SendHour = -1
		if hour.Valid {
			g.SendHour = int(hour.Int64)
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

// UpsertGroup inserts or updates a group registration keyed by name.
func (r *SQLiteRepo) UpsertGroup(ctx context.Context, g domain.Group) error {
	hour := sql.NullInt64{}
	if g.SendHour >= 0 {
		hour = sql.NullInt64{Int64: int64(g.SendHour), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO groups (name, chat_id, send_hour) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			chat_id   = excluded.chat_id,
			send_hour = excluded.send_hour`,
		g.Name, g.ChatID, hour,
	)
	return err
}

// TaskEnabled reads a scheduler toggle; a missing row means enabled.
func (r *SQLiteRepo) TaskEnabled(ctx context.Context, name string) (bool, error) {
	var enabled int
	err := r.db.QueryRowContext(ctx,
		`SELECT enabled FROM task_settings WHERE task_name = ?`, name).Scan(&enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return true, err
	}
	return enabled != 0, nil
}

// SetTaskEnabled flips a scheduler toggle.
func (r *SQLiteRepo) SetTaskEnabled(ctx context.Context, name string, enabled bool) error {
	now := time.Now().UTC().Unix()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO task_settings (task_name, enabled, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(task_name) DO UPDATE SET
			enabled    = excluded.enabled,
			updated_at = excluded.updated_at`,
		name, boolToInt(enabled), now,
	)
	return err
}

// TaskStatuses returns all persisted toggle rows.
func (r *SQLiteRepo) TaskStatuses(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT task_name, enabled FROM task_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[string]bool)
	for rows.Next() {
		var (
			name    string
			enabled int
		)
		if err := rows.Scan(&name, &enabled); err != nil {
			return nil, err
		}
		res[name] = enabled != 0
	}
	return res, rows.Err()
}
