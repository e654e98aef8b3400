package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type File struct {
	Id          string         `gorm:"type:text;primaryKey"`
	UserId      uuid.UUID      `gorm:"type:uuid;index;not null"`
	FileType    string         `gorm:"type:varchar(255);not null"`
	Name        string         `gorm:"type:text;not null"`
	Size        int64          `gorm:"not null"`
	Url         string         `gorm:"type:text;not null"`
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
	ChunkTaskId *uuid.UUID     `gorm:"type:uuid"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (File) TableName() string {
	return "files"
}
