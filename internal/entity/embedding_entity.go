package entity

import (
	"time"

	"github.com/google/uuid"
)

type Embedding struct {
	Id         uuid.UUID
	ChunkId    uuid.UUID
	Embeddings []float32
	Model      string
	UserId     uuid.UUID
	CreatedAt  time.Time
}
