package user

import (
	"context"
	"strings"
	"time"

	"github.com/vasiliy-maslov/eventhub/internal/validation"
)

// CreateInput is the payload of POST /users.
type CreateInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Email       string  `json:"email" validate:"required,max=255,email"`
	Password    string  `json:"password" validate:"required,min=6,maxbytes=72"`
	Phone       *string `json:"phone" validate:"omitnil,max=32"`
	Gender      *string `json:"gender" validate:"omitnil,oneof=male female other"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitnil,date"`
}

// UpdateInput is the payload of PUT /users/{id}. Absent fields are kept.
type UpdateInput struct {
	Name        *string `json:"name" validate:"omitnil,filled,max=255"`
	Email       *string `json:"email" validate:"omitnil,filled,max=255,email"`
	Password    *string `json:"password" validate:"omitnil,min=6,maxbytes=72"`
	Phone       *string `json:"phone" validate:"omitnil,max=32"`
	Gender      *string `json:"gender" validate:"omitnil,oneof=male female other"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitnil,date"`
}

// Validator checks user payloads, including the uniqueness of the email.
type Validator struct {
	rules *validation.Validator
	repo  Repository
}

func NewValidator(rules *validation.Validator, repo Repository) *Validator {
	return &Validator{rules: rules, repo: repo}
}

// ValidateCreate returns the normalised input or a *validation.Error.
func (v *Validator) ValidateCreate(ctx context.Context, in CreateInput) (CreateInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = trimOrNil(in.Phone)
	in.Gender = trimOrNil(in.Gender)
	in.DateOfBirth = trimOrNil(in.DateOfBirth)

	errs := validation.Errors{}
	if err := v.rules.Struct(in, errs); err != nil {
		return in, err
	}

	if !errs.Has("email") {
		if err := v.checkEmail(ctx, in.Email, 0, errs); err != nil {
			return in, err
		}
	}

	return in, errs.Err()
}

// ValidateUpdate validates in against the stored user. The email may stay
// the user's own.
func (v *Validator) ValidateUpdate(ctx context.Context, current *User, in UpdateInput) (UpdateInput, error) {
	in.Name = trim(in.Name)
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}
	in.Phone = trim(in.Phone)
	in.Gender = trim(in.Gender)
	in.DateOfBirth = trim(in.DateOfBirth)

	errs := validation.Errors{}
	if err := v.rules.Struct(in, errs); err != nil {
		return in, err
	}

	if in.Email != nil && !errs.Has("email") {
		if err := v.checkEmail(ctx, *in.Email, current.ID, errs); err != nil {
			return in, err
		}
	}

	return in, errs.Err()
}

func (v *Validator) checkEmail(ctx context.Context, email string, exceptID int64, errs validation.Errors) error {
	taken, err := v.repo.EmailTaken(ctx, email, exceptID)
	if err != nil {
		return err
	}
	if taken {
		errs.Add("email", validation.Taken("email"))
	}
	return nil
}

// Attributes converts a validated create payload. The password is replaced by
// its hash.
func (in CreateInput) Attributes(passwordHash string) Attributes {
	return Attributes{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: passwordHash,
		Phone:        in.Phone,
		Gender:       toGender(in.Gender),
		DateOfBirth:  toDate(in.DateOfBirth),
	}
}

// Changes converts a validated update payload. passwordHash is nil when the
// password is not being changed.
func (in UpdateInput) Changes(passwordHash *string) Changes {
	return Changes{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: passwordHash,
		Phone:        in.Phone,
		Gender:       toGender(in.Gender),
		DateOfBirth:  toDate(in.DateOfBirth),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
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

func toGender(s *string) *Gender {
	if s == nil {
		return nil
	}
	g := Gender(*s)
	return &g
}

func toDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	d, err := validation.ParseDate(*s)
	if err != nil {
		return nil
	}
	return &d
}
