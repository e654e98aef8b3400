package entity

import (
	"time"

	"github.com/google/uuid"
)

type KnowledgeBase struct {
	Id          string
	Name        string
	Description string
	UserId      uuid.UUID
	Settings    map[string]interface{}
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

type KnowledgeBaseFile struct {
	KnowledgeBaseId string
	FileId          string
	UserId          uuid.UUID
	CreatedAt       time.Time
}
