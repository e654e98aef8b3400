package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type KnowledgeBase struct {
	Id          string         `gorm:"type:text;primaryKey"`
	Name        string         `gorm:"type:text;not null"`
	Description string         `gorm:"type:text"`
	UserId      uuid.UUID      `gorm:"type:uuid;index;not null"`
	Settings    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (KnowledgeBase) TableName() string {
	return "knowledge_bases"
}

// KnowledgeBaseFile is the explicit join table between knowledge bases and files.
type KnowledgeBaseFile struct {
	KnowledgeBaseId string    `gorm:"type:text;primaryKey"`
	FileId          string    `gorm:"type:text;primaryKey"`
	UserId          uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`

	KnowledgeBase *KnowledgeBase `gorm:"foreignKey:KnowledgeBaseId;constraint:OnDelete:CASCADE"`
	File          *File          `gorm:"foreignKey:FileId;constraint:OnDelete:CASCADE"`
}

func (KnowledgeBaseFile) TableName() string {
	return "knowledge_base_files"
}
