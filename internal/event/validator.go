package event

import (
	"context"
	"strings"
	"time"

	"github.com/vasiliy-maslov/eventhub/internal/validation"
)

// CreateInput is the payload of POST /events.
type CreateInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitnil,max=65535"`
	Location    *string `json:"location" validate:"omitnil,max=255"`
	StartTime   string  `json:"start_time" validate:"required,timestamp"`
	EndTime     string  `json:"end_time" validate:"required,timestamp"`
	UserID      *int64  `json:"user_id" validate:"omitnil,gt=0"`
}

// UpdateInput is the payload of PUT /events/{id}. Absent fields are kept.
type UpdateInput struct {
	Title       *string `json:"title" validate:"omitnil,filled,max=255"`
	Description *string `json:"description" validate:"omitnil,max=65535"`
	Location    *string `json:"location" validate:"omitnil,max=255"`
	StartTime   *string `json:"start_time" validate:"omitnil,timestamp"`
	EndTime     *string `json:"end_time" validate:"omitnil,timestamp"`
	UserID      *int64  `json:"user_id" validate:"omitnil,gt=0"`
}

// UserLookup reports whether a user id exists.
type UserLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Validator struct {
	rules *validation.Validator
	users UserLookup
}

func NewValidator(rules *validation.Validator, users UserLookup) *Validator {
	return &Validator{rules: rules, users: users}
}

func (v *Validator) ValidateCreate(ctx context.Context, in CreateInput) (CreateInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = trimOrNil(in.Description)
	in.Location = trimOrNil(in.Location)
	in.StartTime = strings.TrimSpace(in.StartTime)
	in.EndTime = strings.TrimSpace(in.EndTime)

	errs := validation.Errors{}
	if err := v.rules.Struct(in, errs); err != nil {
		return in, err
	}

	if !errs.Has("start_time") && !errs.Has("end_time") {
		start, _ := validation.ParseTimestamp(in.StartTime)
		end, _ := validation.ParseTimestamp(in.EndTime)
		checkOrder(start, end, errs)
	}

	if err := v.checkUser(ctx, in.UserID, errs); err != nil {
		return in, err
	}

	return in, errs.Err()
}

// ValidateUpdate validates in against the stored event. Ordering of the
// times is checked on the merged result.
func (v *Validator) ValidateUpdate(ctx context.Context, current *Event, in UpdateInput) (UpdateInput, error) {
	in.Title = trim(in.Title)
	in.Description = trim(in.Description)
	in.Location = trim(in.Location)
	in.StartTime = trim(in.StartTime)
	in.EndTime = trim(in.EndTime)

	errs := validation.Errors{}
	if err := v.rules.Struct(in, errs); err != nil {
		return in, err
	}

	if (in.StartTime != nil || in.EndTime != nil) && !errs.Has("start_time") && !errs.Has("end_time") {
		start, end := current.StartTime, current.EndTime
		if in.StartTime != nil {
			start, _ = validation.ParseTimestamp(*in.StartTime)
		}
		if in.EndTime != nil {
			end, _ = validation.ParseTimestamp(*in.EndTime)
		}
		checkOrder(start, end, errs)
	}

	if err := v.checkUser(ctx, in.UserID, errs); err != nil {
		return in, err
	}

	return in, errs.Err()
}

func (v *Validator) checkUser(ctx context.Context, userID *int64, errs validation.Errors) error {
	if userID == nil || errs.Has("user_id") {
		return nil
	}

	exists, err := v.users.Exists(ctx, *userID)
	if err != nil {
		return err
	}
	if !exists {
		errs.Add("user_id", validation.Invalid("user_id"))
	}
	return nil
}

func checkOrder(start, end time.Time, errs validation.Errors) {
	if end.Before(start) {
		errs.Add("end_time", validation.AfterOrEqual("end_time", "start_time"))
	}
}

func (in CreateInput) Attributes() Attributes {
	start, _ := validation.ParseTimestamp(in.StartTime)
	end, _ := validation.ParseTimestamp(in.EndTime)
	return Attributes{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		StartTime:   start,
		EndTime:     end,
		UserID:      in.UserID,
	}
}

func (in UpdateInput) Changes() Changes {
	return Changes{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		StartTime:   parseOptional(in.StartTime),
		EndTime:     parseOptional(in.EndTime),
		UserID:      in.UserID,
	}
}

func parseOptional(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := validation.ParseTimestamp(*s)
	if err != nil {
		return nil
	}
	return &t
}

func trim(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func trimOrNil(s *string) *string {
	s = trim(s)
	if s == nil || *s == "" {
		return nil
	}
	return s
}
