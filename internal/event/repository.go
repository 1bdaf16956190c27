package event

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
	ErrNotFound     = errors.New("event not found")
	ErrUserNotFound = errors.New("event owner does not exist")
)

type Repository interface {
	GetAll(ctx context.Context) ([]Event, error)
	GetByID(ctx context.Context, id int64) (*Event, error)
	Create(ctx context.Context, attrs Attributes) (*Event, error)
	Update(ctx context.Context, e *Event, changes Changes) (bool, error)
	Delete(ctx context.Context, e *Event) (bool, error)
}

// DB is the subset of *sqlx.DB the repository needs.
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

const (
	eventColumns = `id, title, description, location, start_time, end_time, user_id, created_at, updated_at`

	queryGetAll  = `SELECT ` + eventColumns + ` FROM events ORDER BY id ASC`
	queryGetByID = `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	queryInsert  = `
		INSERT INTO events (title, description, location, start_time, end_time, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	queryUpdate = `
		UPDATE events
		SET title = $1, description = $2, location = $3, start_time = $4, end_time = $5, user_id = $6, updated_at = $7
		WHERE id = $8`
	queryDelete = `DELETE FROM events WHERE id = $1`
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

func (r *sqlRepository) GetAll(ctx context.Context) ([]Event, error) {
	events := make([]Event, 0)
	if err := r.db.SelectContext(ctx, &events, queryGetAll); err != nil {
		return nil, fmt.Errorf("repository: failed to select events: %w", err)
	}
	return events, nil
}

func (r *sqlRepository) GetByID(ctx context.Context, id int64) (*Event, error) {
	var e Event
	if err := r.db.GetContext(ctx, &e, queryGetByID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select event by id %d: %w", id, err)
	}
	return &e, nil
}

func (r *sqlRepository) Create(ctx context.Context, attrs Attributes) (*Event, error) {
	now := r.now()

	e := &Event{
		Title:       attrs.Title,
		Description: attrs.Description,
		Location:    attrs.Location,
		StartTime:   attrs.StartTime,
		EndTime:     attrs.EndTime,
		UserID:      attrs.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.db.GetContext(ctx, &e.ID, queryInsert,
		e.Title,
		e.Description,
		e.Location,
		e.StartTime,
		e.EndTime,
		e.UserID,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("repository: failed to insert event: %w", err)
	}

	return e, nil
}

// Update applies changes to e and persists every mutable column. e is only
// modified when the write succeeds.
func (r *sqlRepository) Update(ctx context.Context, e *Event, changes Changes) (bool, error) {
	updated := *e
	changes.Apply(&updated)

	updated.UpdatedAt = r.now()
	if !updated.UpdatedAt.After(e.UpdatedAt) {
		updated.UpdatedAt = e.UpdatedAt.Add(time.Microsecond)
	}

	res, err := r.db.ExecContext(ctx, queryUpdate,
		updated.Title,
		updated.Description,
		updated.Location,
		updated.StartTime,
		updated.EndTime,
		updated.UserID,
		updated.UpdatedAt,
		updated.ID,
	)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("repository: failed to update event %d: %w", e.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("repository: failed to read affected rows for event %d: %w", e.ID, err)
	}
	if affected == 0 {
		log.Warn().Int64("event_id", e.ID).Msg("repository: event vanished before update")
		return false, nil
	}

	*e = updated
	return true, nil
}

func (r *sqlRepository) Delete(ctx context.Context, e *Event) (bool, error) {
	res, err := r.db.ExecContext(ctx, queryDelete, e.ID)
	if err != nil {
		return false, fmt.Errorf("repository: failed to delete event %d: %w", e.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("repository: failed to read affected rows for event %d: %w", e.ID, err)
	}

	return affected > 0, nil
}
