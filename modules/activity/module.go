package activity

import (
	"context"
	"fmt"
	"strings"

	"github.com/ekoc03/pokedex/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Entry types.
const (
	TypeTaskCreated = "task_created"
	TypeTaskUpdated = "task_updated"
	TypeTaskDeleted = "task_deleted"
)

// Module records task events into a per-user activity feed.
type Module struct {
	feed   *Feed
	logger types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the activity module.
func NewModule(capacity int, logger types.Logger) *Module {
	return &Module{
		feed:   NewFeed(capacity),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "activity"
}

// RegisterEventConsumers subscribes to the task events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", "TaskCreated, TaskUpdated, TaskDeleted")
	return nil
}

func (m *Module) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.logger.Debug("Task created", "taskId", event.TaskID, "userId", event.UserID)
	m.feed.Record(event.UserID, Entry{
		Type:      TypeTaskCreated,
		TaskID:    event.TaskID,
		Message:   fmt.Sprintf("Created task '%s'", event.Title),
		Timestamp: event.CreatedAt,
	})
	return nil
}

func (m *Module) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.logger.Debug("Task updated", "taskId", event.TaskID, "userId", event.UserID)
	m.feed.Record(event.UserID, Entry{
		Type:      TypeTaskUpdated,
		TaskID:    event.TaskID,
		Message:   fmt.Sprintf("Updated %s of task %d", strings.Join(event.Fields, ", "), event.TaskID),
		Timestamp: event.UpdatedAt,
	})
	return nil
}

func (m *Module) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.logger.Debug("Task deleted", "taskId", event.TaskID, "userId", event.UserID)
	m.feed.Record(event.UserID, Entry{
		Type:      TypeTaskDeleted,
		TaskID:    event.TaskID,
		Message:   fmt.Sprintf("Deleted task %d", event.TaskID),
		Timestamp: event.DeletedAt,
	})
	return nil
}

// Recent returns a user's latest activity, newest first.
func (m *Module) Recent(userID uint, limit int) []Entry {
	return m.feed.Recent(userID, limit)
}

// Start starts the module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Activity module started")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Activity module stopped")
	return nil
}

// Health reports the number of tracked users.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"users": m.feed.Users()},
	}
}
