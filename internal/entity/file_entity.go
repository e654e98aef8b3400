package entity

import (
	"time"

	"github.com/google/uuid"
)

type File struct {
	Id          string
	UserId      uuid.UUID
	FileType    string
	Name        string
	Size        int64
	Url         string
	Metadata    map[string]interface{}
	ChunkTaskId *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
