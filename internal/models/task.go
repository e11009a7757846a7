package models

import (
	"time"
)

// TaskStatusPending is the default status assigned to new tasks.
// Status is otherwise free-form.
const TaskStatusPending = "pending"

type Task struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	OwnerID     string `gorm:"index;not null" json:"owner_id"` // fixed at creation, never transferred
	Status      string `gorm:"not null;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOwnedBy returns true if the task belongs to the given user ID
func (t *Task) IsOwnedBy(userID string) bool {
	return t.OwnerID == userID
}
