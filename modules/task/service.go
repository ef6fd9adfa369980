package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/ekoc03/pokedex/domain/task"
	"github.com/ekoc03/pokedex/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Service implements task business rules: validation, ownership and filtering.
type Service struct {
	repo     Repository
	eventBus mono.EventBus
	logger   types.Logger
}

// NewService creates a new Service. eventBus may be nil, in which case no events are published.
func NewService(repo Repository, eventBus mono.EventBus, logger types.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Create validates payload and stores a new task owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID uint, payload TaskPayload) (*domain.Task, error) {
	input, err := ValidateCreate(payload, ownerID)
	if err != nil {
		return nil, err
	}

	t := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		DueDate:     input.DueDate,
		UserID:      input.UserID,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.publish(func(bus mono.EventBus) error {
		return events.TaskCreatedV1.Publish(bus, events.TaskCreatedEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			Status:    string(t.Status),
			DueDate:   t.DueDate,
			UserID:    t.UserID,
			CreatedAt: t.CreatedAt,
		}, nil)
	}, "TaskCreated", t.ID)

	return t, nil
}

// List returns the tasks matching filter ordered by due date, earliest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]domain.Task, error) {
	tasks, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListByOwner returns the tasks owned by ownerID.
func (s *Service) ListByOwner(ctx context.Context, ownerID uint) ([]domain.Task, error) {
	return s.List(ctx, Filter{OwnerID: ownerID})
}

// GetByID returns the task, or nil without error when it does not exist.
func (s *Service) GetByID(ctx context.Context, id uint) (*domain.Task, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// Update applies the fields present in payload to a task owned by ownerID.
func (s *Service) Update(ctx context.Context, id, ownerID uint, payload TaskPayload) (*domain.Task, error) {
	t, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	patch, err := ValidateUpdate(payload)
	if err != nil {
		return nil, err
	}

	fields := patch.Apply(t)
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.publish(func(bus mono.EventBus) error {
		return events.TaskUpdatedV1.Publish(bus, events.TaskUpdatedEvent{
			TaskID:    t.ID,
			UserID:    t.UserID,
			Fields:    fields,
			Status:    string(t.Status),
			UpdatedAt: t.UpdatedAt,
		}, nil)
	}, "TaskUpdated", t.ID)

	return t, nil
}

// Delete removes a task owned by ownerID.
func (s *Service) Delete(ctx context.Context, id, ownerID uint) error {
	t, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.publish(func(bus mono.EventBus) error {
		return events.TaskDeletedV1.Publish(bus, events.TaskDeletedEvent{
			TaskID:    id,
			UserID:    t.UserID,
			DeletedAt: time.Now(),
		}, nil)
	}, "TaskDeleted", id)

	return nil
}

// owned loads a task and checks that ownerID owns it.
func (s *Service) owned(ctx context.Context, id, ownerID uint) (*domain.Task, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if !t.OwnedBy(ownerID) {
		return nil, ErrForbidden
	}
	return t, nil
}

// publish emits an event. Publishing is best-effort and never fails the operation.
func (s *Service) publish(emit func(mono.EventBus) error, name string, taskID uint) {
	if s.eventBus == nil {
		return
	}
	if err := emit(s.eventBus); err != nil {
		s.logger.Warn("Failed to publish task event", "event", name, "taskID", taskID, "error", err)
	}
}
