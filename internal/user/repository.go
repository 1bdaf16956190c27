package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/eventhub/internal/db"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("user with this email already exists")
)

type Repository interface {
	GetAll(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, attrs Attributes) (*User, error)
	Update(ctx context.Context, u *User, changes Changes) (bool, error)
	Delete(ctx context.Context, u *User) (bool, error)
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// DB is the subset of *sqlx.DB the repository needs.
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

const (
	userColumns = `id, name, email, email_verified_at, password, phone, gender, date_of_birth, created_at, updated_at`

	queryGetAll  = `SELECT ` + userColumns + ` FROM users ORDER BY id ASC`
	queryGetByID = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	queryInsert  = `
		INSERT INTO users (name, email, password, phone, gender, date_of_birth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	queryUpdate = `
		UPDATE users
		SET name = $1, email = $2, password = $3, phone = $4, gender = $5, date_of_birth = $6, updated_at = $7
		WHERE id = $8`
	queryDelete     = `DELETE FROM users WHERE id = $1`
	queryEmailTaken = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`
	queryExists     = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`
)

type sqlRepository struct {
	db  DB
	now func() time.Time
}

func NewRepository(db DB) Repository {
	return &sqlRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (r *sqlRepository) GetAll(ctx context.Context) ([]User, error) {
	users := make([]User, 0)
	if err := r.db.SelectContext(ctx, &users, queryGetAll); err != nil {
		return nil, fmt.Errorf("repository: failed to select users: %w", err)
	}
	return users, nil
}

func (r *sqlRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := r.db.GetContext(ctx, &u, queryGetByID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select user by id %d: %w", id, err)
	}
	return &u, nil
}

func (r *sqlRepository) Create(ctx context.Context, attrs Attributes) (*User, error) {
	now := r.now()

	u := &User{
		Name:         attrs.Name,
		Email:        attrs.Email,
		PasswordHash: attrs.PasswordHash,
		Phone:        attrs.Phone,
		Gender:       attrs.Gender,
		DateOfBirth:  attrs.DateOfBirth,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := r.db.GetContext(ctx, &u.ID, queryInsert,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Phone,
		u.Gender,
		u.DateOfBirth,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("repository: failed to insert user: %w", err)
	}

	return u, nil
}

// Update applies changes to u and persists every mutable column. u is only
// modified when the write succeeds.
func (r *sqlRepository) Update(ctx context.Context, u *User, changes Changes) (bool, error) {
	updated := *u
	changes.Apply(&updated)

	updated.UpdatedAt = r.now()
	if !updated.UpdatedAt.After(u.UpdatedAt) {
		updated.UpdatedAt = u.UpdatedAt.Add(time.Microsecond)
	}

	res, err := r.db.ExecContext(ctx, queryUpdate,
		updated.Name,
		updated.Email,
		updated.PasswordHash,
		updated.Phone,
		updated.Gender,
		updated.DateOfBirth,
		updated.UpdatedAt,
		updated.ID,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return false, ErrEmailExists
		}
		return false, fmt.Errorf("repository: failed to update user %d: %w", u.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("repository: failed to read affected rows for user %d: %w", u.ID, err)
	}
	if affected == 0 {
		log.Warn().Int64("user_id", u.ID).Msg("repository: user vanished before update")
		return false, nil
	}

	*u = updated
	return true, nil
}

func (r *sqlRepository) Delete(ctx context.Context, u *User) (bool, error) {
	res, err := r.db.ExecContext(ctx, queryDelete, u.ID)
	if err != nil {
		return false, fmt.Errorf("repository: failed to delete user %d: %w", u.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("repository: failed to read affected rows for user %d: %w", u.ID, err)
	}

	return affected > 0, nil
}

func (r *sqlRepository) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	var taken bool
	if err := r.db.GetContext(ctx, &taken, queryEmailTaken, email, exceptID); err != nil {
		return false, fmt.Errorf("repository: failed to check email uniqueness: %w", err)
	}
	return taken, nil
}

func (r *sqlRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, queryExists, id); err != nil {
		return false, fmt.Errorf("repository: failed to check user %d exists: %w", id, err)
	}
	return exists, nil
}
