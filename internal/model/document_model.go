package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Document struct {
	Id         string         `gorm:"type:text;primaryKey"`
	Title      string         `gorm:"type:text"`
	Content    string         `gorm:"type:text"`
	FileType   string         `gorm:"type:varchar(255);not null;index"`
	Filename   string         `gorm:"type:text"`
	Metadata   datatypes.JSON `gorm:"type:jsonb"`
	SourceType string         `gorm:"type:text;not null"` // "file", "web" or "api"
	Source     string         `gorm:"type:text;not null;index"`
	FileId     string         `gorm:"type:text;index"`
	UserId     uuid.UUID      `gorm:"type:uuid;index;not null"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`

	File *File `gorm:"foreignKey:FileId;constraint:OnDelete:CASCADE"`
}

func (Document) TableName() string {
	return "documents"
}

// DocumentChunk associates a chunk with its parent document,
// carrying positional info (page index for paged formats).
type DocumentChunk struct {
	DocumentId string    `gorm:"type:text;primaryKey"`
	ChunkId    uuid.UUID `gorm:"type:uuid;primaryKey"`
	PageIndex  *int
	UserId     uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	Document *Document `gorm:"foreignKey:DocumentId;constraint:OnDelete:CASCADE"`
	Chunk    *Chunk    `gorm:"foreignKey:ChunkId;constraint:OnDelete:CASCADE"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
