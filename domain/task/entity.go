// Package task holds the Task entity shared by the task store, service and API.
package task

import "time"

// Status represents the state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses lists every allowed status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusDone}

// Valid reports whether s is one of the allowed statuses.
func (s Status) Valid() bool {
	for _, allowed := range Statuses {
		if s == allowed {
			return true
		}
	}
	return false
}

// MaxTitleLength is the longest title accepted.
const MaxTitleLength = 200

// Task is a to-do item owned by a single user.
type Task struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Status      Status    `gorm:"type:text;not null;default:pending;index" json:"status"`
	DueDate     time.Time `gorm:"not null;index" json:"dueDate"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// OwnedBy reports whether userID owns the task.
func (t *Task) OwnedBy(userID uint) bool {
	return t.UserID == userID
}
