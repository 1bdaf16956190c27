package event

import "time"

// Event is a row of the events table. UserID is the owner, nil once the
// owner has been deleted.
type Event struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Location    *string   `json:"location" db:"location"`
	StartTime   time.Time `json:"start_time" db:"start_time"`
	EndTime     time.Time `json:"end_time" db:"end_time"`
	UserID      *int64    `json:"user_id" db:"user_id"` // ON DELETE SET NULL
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type Attributes struct {
	Title       string
	Description *string
	Location    *string
	StartTime   time.Time
	EndTime     time.Time
	UserID      *int64
}

// Changes is a partial update; nil fields are left alone. An empty
// Description or Location clears the column.
type Changes struct {
	Title       *string
	Description *string
	Location    *string
	StartTime   *time.Time
	EndTime     *time.Time
	UserID      *int64
}

func (c Changes) Apply(e *Event) {
	if c.Title != nil {
		e.Title = *c.Title
	}
	e.Description = applyOptional(e.Description, c.Description)
	e.Location = applyOptional(e.Location, c.Location)
	if c.StartTime != nil {
		e.StartTime = *c.StartTime
	}
	if c.EndTime != nil {
		e.EndTime = *c.EndTime
	}
	if c.UserID != nil {
		id := *c.UserID
		e.UserID = &id
	}
}

func applyOptional(current, change *string) *string {
	switch {
	case change == nil:
		return current
	case *change == "":
		return nil
	default:
		v := *change
		return &v
	}
}
