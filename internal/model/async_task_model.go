package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AsyncTask struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type      string         `gorm:"type:text"`
	Status    string         `gorm:"type:text;index"`
	Progress  int            `gorm:"default:0"`
	Message   string         `gorm:"type:text"`
	Error     datatypes.JSON `gorm:"type:jsonb"`
	Duration  *float64
	UserId    uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (AsyncTask) TableName() string {
	return "async_tasks"
}
