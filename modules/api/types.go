package api

import (
	"time"

	domain "github.com/ekoc03/pokedex/domain/task"
	"github.com/ekoc03/pokedex/modules/activity"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the reply of a successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// TaskResponse wraps a task with a confirmation message.
type TaskResponse struct {
	Message string       `json:"message"`
	Task    *domain.Task `json:"task"`
}

// TaskListResponse is a list of tasks with its length.
type TaskListResponse struct {
	Tasks []domain.Task `json:"tasks"`
	Count int           `json:"count"`
}

// ActivityResponse is the caller's recent activity.
type ActivityResponse struct {
	Events []activity.Entry `json:"events"`
	Count  int              `json:"count"`
}
