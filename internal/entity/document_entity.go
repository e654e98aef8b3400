package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id         string
	Title      string
	Content    string
	FileType   string
	Filename   string
	Metadata   map[string]interface{}
	SourceType string
	Source     string
	FileId     string
	UserId     uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

type DocumentChunk struct {
	DocumentId string
	ChunkId    uuid.UUID
	PageIndex  *int
	UserId     uuid.UUID
	CreatedAt  time.Time
}
