package authgate

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Users is the persistence surface the auth core and the registration
// handler depend on.
type Users interface {
	UserStore
	Register(ctx context.Context, user *User) (*User, error)
}

type users struct {
	db bun.IDB
}

// NewUsersRepository builds the bun backed user store.
func NewUsersRepository(db bun.IDB) Users {
	return &users{db: db}
}

func (r *users) FindByID(ctx context.Context, id int64) (*User, error) {
	record := &User{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUserNotFound(map[string]any{"id": id})
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to select user by id")
	}

	return record, nil
}

func (r *users) FindByUsername(ctx context.Context, username string) (*User, error) {
	record := &User{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.username = ?", strings.TrimSpace(username)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUserNotFound(map[string]any{"username": username})
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to select user by username")
	}

	return record, nil
}

// Save inserts the record when it has no id yet, otherwise updates it in
// place. UpdatedAt is bumped on every write.
func (r *users) Save(ctx context.Context, user *User) (*User, error) {
	if user == nil {
		return nil, errors.New("user must not be nil", errors.CategoryBadInput)
	}

	now := time.Now()
	user.UpdatedAt = &now

	if user.ID == 0 {
		if user.CreatedAt == nil {
			user.CreatedAt = &now
		}

		_, err := r.db.NewInsert().Model(user).Exec(ctx)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, NewUsernameTaken(user.Username)
			}
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to insert user")
		}
		return user, nil
	}

	_, err := r.db.NewUpdate().
		Model(user).
		WherePK().
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, NewUsernameTaken(user.Username)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update user")
	}

	return user, nil
}

// Register stores a new account, applying the registration defaults before
// the insert.
func (r *users) Register(ctx context.Context, user *User) (*User, error) {
	if user == nil {
		return nil, errors.New("user must not be nil", errors.CategoryBadInput)
	}

	prepareUserDefaults(user)
	user.ID = 0

	return r.Save(ctx, user)
}

func prepareUserDefaults(user *User) {
	if user.Role == "" {
		user.Role = RoleUser
	}
	user.Enabled = true
	user.Username = strings.TrimSpace(user.Username)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
