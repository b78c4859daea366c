package domain

import "time"

// Status is the task lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Task belongs to exactly one user. UserID is immutable after creation.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Status      Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
