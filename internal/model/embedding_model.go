package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Embedding struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChunkId    uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	Embeddings pgvector.Vector `gorm:"type:vector(1024)"`
	Model      string          `gorm:"type:text"`
	UserId     uuid.UUID       `gorm:"type:uuid;index;not null"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`

	Chunk *Chunk `gorm:"foreignKey:ChunkId;constraint:OnDelete:CASCADE"`
}

func (Embedding) TableName() string {
	return "embeddings"
}
