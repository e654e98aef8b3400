package dto

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatusResponse struct {
	Id        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Status    string     `json:"status"`
	Progress  int        `json:"progress"`
	Message   string     `json:"message,omitempty"`
	Error     *string    `json:"error,omitempty"`
	Duration  *float64   `json:"duration,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
