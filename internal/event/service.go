package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/eventhub/internal/validation"
)

type Service interface {
	ListEvents(ctx context.Context) ([]Event, error)
	GetEventByID(ctx context.Context, id int64) (*Event, error)
	CreateEvent(ctx context.Context, in CreateInput) (*Event, error)
	UpdateEvent(ctx context.Context, id int64, in UpdateInput) (*Event, error)
	DeleteEvent(ctx context.Context, id int64) error
}

type service struct {
	repo      Repository
	validator *Validator
}

func NewService(repo Repository, validator *Validator) Service {
	return &service{repo: repo, validator: validator}
}

func (s *service) ListEvents(ctx context.Context) ([]Event, error) {
	events, err := s.repo.GetAll(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list events in repository")
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *service) GetEventByID(ctx context.Context, id int64) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Int64("event_id", id).Msg("failed to get event by id in repository")
		return nil, fmt.Errorf("failed to get event by id %d: %w", id, err)
	}
	return e, nil
}

func (s *service) CreateEvent(ctx context.Context, in CreateInput) (*Event, error) {
	in, err := s.validator.ValidateCreate(ctx, in)
	if err != nil {
		return nil, wrapValidation(err)
	}

	created, err := s.repo.Create(ctx, in.Attributes())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, validation.NewError("user_id", validation.Invalid("user_id"))
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to create event in repository")
		return nil, fmt.Errorf("failed to save event: %w", err)
	}

	log.Ctx(ctx).Info().Int64("event_id", created.ID).Msg("event created")
	return created, nil
}

func (s *service) UpdateEvent(ctx context.Context, id int64, in UpdateInput) (*Event, error) {
	current, err := s.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in, err = s.validator.ValidateUpdate(ctx, current, in)
	if err != nil {
		return nil, wrapValidation(err)
	}

	ok, err := s.repo.Update(ctx, current, in.Changes())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, validation.NewError("user_id", validation.Invalid("user_id"))
		}
		log.Ctx(ctx).Error().Err(err).Int64("event_id", id).Msg("failed to update event in repository")
		return nil, fmt.Errorf("failed to update event %d: %w", id, err)
	}
	if !ok {
		return nil, ErrNotFound
	}

	return current, nil
}

func (s *service) DeleteEvent(ctx context.Context, id int64) error {
	current, err := s.GetEventByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.repo.Delete(ctx, current)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("event_id", id).Msg("failed to delete event in repository")
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	if !ok {
		return ErrNotFound
	}

	log.Ctx(ctx).Info().Int64("event_id", id).Msg("event deleted")
	return nil
}

func wrapValidation(err error) error {
	if _, ok := validation.As(err); ok {
		return err
	}
	return fmt.Errorf("failed to validate event: %w", err)
}
