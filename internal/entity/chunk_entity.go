package entity

import (
	"time"

	"github.com/google/uuid"
)

type Chunk struct {
	Id        uuid.UUID
	Text      string
	Index     int
	Metadata  map[string]interface{}
	UserId    uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
}
