package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Chunk struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Text      string         `gorm:"type:text"`
	Index     int            `gorm:"column:index"` // 0-based ordinal within the document
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
	UserId    uuid.UUID      `gorm:"type:uuid;index;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (Chunk) TableName() string {
	return "chunks"
}
