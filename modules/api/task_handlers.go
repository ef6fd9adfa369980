package api

import (
	"encoding/json"
	"errors"
	"strconv"

	domain "github.com/ekoc03/pokedex/domain/task"
	"github.com/ekoc03/pokedex/modules/task"
	"github.com/gofiber/fiber/v2"
)

// CreateTask handles POST /api/tasks. The owner is always the caller.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	payload, ok := h.taskPayload(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	created, err := h.tasks.Create(c.UserContext(), currentUser(c).UserID, payload)
	if err != nil {
		return h.taskError(c, err, "Failed to create task", "")
	}

	return c.Status(fiber.StatusCreated).JSON(TaskResponse{
		Message: "Task created successfully",
		Task:    created,
	})
}

// ListTasks handles GET /api/tasks?status=&userId=.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	filter := task.Filter{Status: domain.Status(c.Query("status"))}
	if raw := c.Query("userId"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.OwnerID = uint(id)
		}
	}

	tasks, err := h.tasks.List(c.UserContext(), filter)
	if err != nil {
		h.logger.Error("Failed to list tasks", "error", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch tasks")
	}
	return c.JSON(TaskListResponse{Tasks: tasks, Count: len(tasks)})
}

// MyTasks handles GET /api/tasks/my-tasks.
func (h *Handlers) MyTasks(c *fiber.Ctx) error {
	tasks, err := h.tasks.ListByOwner(c.UserContext(), currentUser(c).UserID)
	if err != nil {
		h.logger.Error("Failed to list user tasks", "error", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch your tasks")
	}
	return c.JSON(TaskListResponse{Tasks: tasks, Count: len(tasks)})
}

// GetTask handles GET /api/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	id, ok := taskID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid task ID")
	}

	found, err := h.tasks.GetByID(c.UserContext(), id)
	if err != nil {
		h.logger.Error("Failed to fetch task", "taskID", id, "error", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch task")
	}
	if found == nil {
		return fail(c, fiber.StatusNotFound, "Task not found")
	}
	return c.JSON(found)
}

// UpdateTask handles PUT /api/tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	id, ok := taskID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid task ID")
	}
	payload, ok := h.taskPayload(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	updated, err := h.tasks.Update(c.UserContext(), id, currentUser(c).UserID, payload)
	if err != nil {
		return h.taskError(c, err, "Failed to update task", "You can only update your own tasks")
	}

	return c.JSON(TaskResponse{
		Message: "Task updated successfully",
		Task:    updated,
	})
}

// DeleteTask handles DELETE /api/tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	id, ok := taskID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid task ID")
	}

	if err := h.tasks.Delete(c.UserContext(), id, currentUser(c).UserID); err != nil {
		return h.taskError(c, err, "Failed to delete task", "You can only delete your own tasks")
	}
	return c.JSON(MessageResponse{Message: "Task deleted successfully"})
}

// taskPayload decodes the request body. An empty body is an empty payload.
func (h *Handlers) taskPayload(c *fiber.Ctx) (task.TaskPayload, bool) {
	var payload task.TaskPayload
	body := c.Body()
	if len(body) == 0 {
		return payload, true
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, false
	}
	return payload, true
}

func (h *Handlers) taskError(c *fiber.Ctx, err error, fallback, forbidden string) error {
	var verr *task.ValidationError
	switch {
	case errors.As(err, &verr):
		return fail(c, fiber.StatusBadRequest, verr.Message)
	case errors.Is(err, task.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "Task not found")
	case errors.Is(err, task.ErrForbidden):
		return fail(c, fiber.StatusForbidden, forbidden)
	default:
		h.logger.Error(fallback, "error", err)
		return fail(c, fiber.StatusInternalServerError, fallback)
	}
}

func taskID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
