package user

import (
	"time"
)

// User represents an account that can log in.
type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;not null;type:text"`
	PasswordHash string `gorm:"not null;type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
}
