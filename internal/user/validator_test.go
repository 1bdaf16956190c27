package user_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/eventhub/internal/user"
	"github.com/vasiliy-maslov/eventhub/internal/validation"
)

func TestValidator_ValidateCreate_Normalises(t *testing.T) {
	mockRepo := new(MockUserRepository)
	v := user.NewValidator(validation.New(), mockRepo)

	mockRepo.On("EmailTaken", mock.Anything, "ann@example.com", int64(0)).Return(false, nil).Once()

	in, err := v.ValidateCreate(context.Background(), user.CreateInput{
		Name:        "  Ann  ",
		Email:       " ANN@Example.com ",
		Password:    " keep spaces ",
		Phone:       strPtr("   "),
		Gender:      strPtr("other"),
		DateOfBirth: strPtr("1990-04-12"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Ann", in.Name)
	assert.Equal(t, "ann@example.com", in.Email)
	assert.Equal(t, " keep spaces ", in.Password)
	assert.Nil(t, in.Phone, "blank optional values are dropped")

	attrs := in.Attributes("hash")
	assert.Equal(t, "hash", attrs.PasswordHash)
	require.NotNil(t, attrs.Gender)
	assert.Equal(t, user.GenderOther, *attrs.Gender)
	require.NotNil(t, attrs.DateOfBirth)
	assert.Equal(t, time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC), *attrs.DateOfBirth)
	mockRepo.AssertExpectations(t)
}

func TestValidator_ValidateUpdate_EmptyPayload(t *testing.T) {
	mockRepo := new(MockUserRepository)
	v := user.NewValidator(validation.New(), mockRepo)

	in, err := v.ValidateUpdate(context.Background(), &user.User{ID: 1}, user.UpdateInput{})
	require.NoError(t, err)

	changes := in.Changes(nil)
	u := user.User{ID: 1, Name: "Ann", Email: "ann@example.com"}
	changes.Apply(&u)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, "ann@example.com", u.Email)
	mockRepo.AssertNotCalled(t, "EmailTaken", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidator_ValidateUpdate_BadValues(t *testing.T) {
	mockRepo := new(MockUserRepository)
	v := user.NewValidator(validation.New(), mockRepo)

	_, err := v.ValidateUpdate(context.Background(), &user.User{ID: 1}, user.UpdateInput{
		Email:       strPtr(""),
		Password:    strPtr("short"),
		DateOfBirth: strPtr("yesterday"),
	})

	vErr, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"The email field is required."}, vErr.Errors["email"])
	assert.Equal(t, []string{"The password must be at least 6 characters."}, vErr.Errors["password"])
	assert.Equal(t, []string{"The date of birth is not a valid date."}, vErr.Errors["date_of_birth"])
}

func TestValidator_PasswordLimitCountsBytes(t *testing.T) {
	mockRepo := new(MockUserRepository)
	v := user.NewValidator(validation.New(), mockRepo)

	// 40 символов, но 80 байт: bcrypt такое не примет
	longPassword := strings.Repeat("é", 40)

	_, err := v.ValidateCreate(context.Background(), user.CreateInput{
		Name:     "Ann",
		Email:    "not-an-email",
		Password: longPassword,
	})
	vErr, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"The password must not be greater than 72 bytes."}, vErr.Errors["password"])

	_, err = v.ValidateUpdate(context.Background(), &user.User{ID: 1}, user.UpdateInput{Password: &longPassword})
	vErr, ok = validation.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"The password must not be greater than 72 bytes."}, vErr.Errors["password"])

	in, err := v.ValidateUpdate(context.Background(), &user.User{ID: 1}, user.UpdateInput{Password: strPtr(strings.Repeat("é", 36))})
	require.NoError(t, err)
	assert.Len(t, *in.Password, 72)
	mockRepo.AssertNotCalled(t, "EmailTaken", mock.Anything, mock.Anything, mock.Anything)
}

func TestChanges_Apply(t *testing.T) {
	phone := "+1 555 0100"
	u := user.User{Name: "Ann", Phone: &phone}

	gender := user.GenderMale
	dob := time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC)
	user.Changes{Phone: strPtr(""), Gender: &gender, DateOfBirth: &dob}.Apply(&u)

	assert.Equal(t, "Ann", u.Name)
	assert.Nil(t, u.Phone)
	require.NotNil(t, u.Gender)
	assert.Equal(t, user.GenderMale, *u.Gender)
	assert.Equal(t, dob, *u.DateOfBirth)
}
