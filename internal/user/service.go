package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/eventhub/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	CreateUser(ctx context.Context, in CreateInput) (*User, error)
	UpdateUser(ctx context.Context, id int64, in UpdateInput) (*User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type service struct {
	repo      Repository
	validator *Validator
	hashCost  int
}

func NewService(repo Repository, validator *Validator) Service {
	return &service{repo: repo, validator: validator, hashCost: bcrypt.DefaultCost}
}

func (s *service) ListUsers(ctx context.Context) ([]User, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list users in repository")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *service) GetUserByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Int64("user_id", id).Msg("failed to get user by id in repository")
		return nil, fmt.Errorf("failed to get user by id %d: %w", id, err)
	}
	return u, nil
}

func (s *service) CreateUser(ctx context.Context, in CreateInput) (*User, error) {
	in, err := s.validator.ValidateCreate(ctx, in)
	if err != nil {
		return nil, wrapValidation(err, "failed to validate user")
	}

	hash, err := s.hashPassword(ctx, in.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, in.Attributes(hash))
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, validation.NewError("email", validation.Taken("email"))
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to create user in repository")
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	log.Ctx(ctx).Info().Int64("user_id", created.ID).Msg("user created")
	return created, nil
}

func (s *service) UpdateUser(ctx context.Context, id int64, in UpdateInput) (*User, error) {
	current, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in, err = s.validator.ValidateUpdate(ctx, current, in)
	if err != nil {
		return nil, wrapValidation(err, "failed to validate user")
	}

	var passwordHash *string
	if in.Password != nil {
		hash, err := s.hashPassword(ctx, *in.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = &hash
	}

	ok, err := s.repo.Update(ctx, current, in.Changes(passwordHash))
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, validation.NewError("email", validation.Taken("email"))
		}
		log.Ctx(ctx).Error().Err(err).Int64("user_id", id).Msg("failed to update user in repository")
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	if !ok {
		return nil, ErrNotFound
	}

	return current, nil
}

func (s *service) DeleteUser(ctx context.Context, id int64) error {
	current, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.repo.Delete(ctx, current)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("user_id", id).Msg("failed to delete user in repository")
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	if !ok {
		return ErrNotFound
	}

	log.Ctx(ctx).Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func (s *service) hashPassword(ctx context.Context, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to generate password hash")
		return "", fmt.Errorf("internal error hashing password: %w", err)
	}
	return string(hash), nil
}

// wrapValidation passes validation failures through untouched and wraps
// anything else.
func wrapValidation(err error, msg string) error {
	if _, ok := validation.As(err); ok {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
