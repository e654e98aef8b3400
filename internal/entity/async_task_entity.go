package entity

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Terminal reports whether the task can no longer change state.
// Failed tasks are not resumed; a re-attempt is a new task.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

type TaskError struct {
	Message string `json:"message"`
}

type AsyncTask struct {
	Id        uuid.UUID
	Type      string
	Status    TaskStatus
	Progress  int
	Message   string
	Error     *TaskError
	Duration  *float64
	UserId    uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
}
