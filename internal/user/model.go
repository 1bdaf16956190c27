package user

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// User is a row of the users table. PasswordHash never leaves the service.
type User struct {
	ID              int64      `json:"id" db:"id"`
	Name            string     `json:"name" db:"name"`
	Email           string     `json:"email" db:"email"`
	EmailVerifiedAt *time.Time `json:"email_verified_at" db:"email_verified_at"` // nil, пока почта не подтверждена
	PasswordHash    string     `json:"-" db:"password"`                          // bcrypt-хеш, в ответах не отдаём
	Phone           *string    `json:"phone" db:"phone"`
	Gender          *Gender    `json:"gender" db:"gender"`
	DateOfBirth     *time.Time `json:"date_of_birth" db:"date_of_birth"` // только дата, UTC
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// Attributes are the validated values of a new user.
type Attributes struct {
	Name         string
	Email        string
	PasswordHash string
	Phone        *string
	Gender       *Gender
	DateOfBirth  *time.Time
}

// Changes is a partial update; nil fields are left alone. An empty Phone
// clears the stored number.
type Changes struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Phone        *string
	Gender       *Gender
	DateOfBirth  *time.Time
}

// Apply copies the set fields of c onto u.
func (c Changes) Apply(u *User) {
	if c.Name != nil {
		u.Name = *c.Name
	}
	if c.Email != nil {
		u.Email = *c.Email
	}
	if c.PasswordHash != nil {
		u.PasswordHash = *c.PasswordHash
	}
	if c.Phone != nil {
		if *c.Phone == "" {
			u.Phone = nil
		} else {
			phone := *c.Phone
			u.Phone = &phone
		}
	}
	if c.Gender != nil {
		gender := *c.Gender
		u.Gender = &gender
	}
	if c.DateOfBirth != nil {
		dob := *c.DateOfBirth
		u.DateOfBirth = &dob
	}
}
