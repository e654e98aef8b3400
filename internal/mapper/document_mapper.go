package mapper

import (
	"time"

	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.Document{
		Id:         d.Id,
		Title:      d.Title,
		Content:    d.Content,
		FileType:   d.FileType,
		Filename:   d.Filename,
		Metadata:   fromJSONColumn(d.Metadata),
		SourceType: d.SourceType,
		Source:     d.Source,
		FileId:     d.FileId,
		UserId:     d.UserId,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.Document{
		Id:         d.Id,
		Title:      d.Title,
		Content:    d.Content,
		FileType:   d.FileType,
		Filename:   d.Filename,
		Metadata:   toJSONColumn(d.Metadata),
		SourceType: d.SourceType,
		Source:     d.Source,
		FileId:     d.FileId,
		UserId:     d.UserId,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *DocumentMapper) AssociationToEntity(a *model.DocumentChunk) *entity.DocumentChunk {
	if a == nil {
		return nil
	}
	return &entity.DocumentChunk{
		DocumentId: a.DocumentId,
		ChunkId:    a.ChunkId,
		PageIndex:  a.PageIndex,
		UserId:     a.UserId,
		CreatedAt:  a.CreatedAt,
	}
}

func (m *DocumentMapper) AssociationToModel(a *entity.DocumentChunk) *model.DocumentChunk {
	if a == nil {
		return nil
	}
	return &model.DocumentChunk{
		DocumentId: a.DocumentId,
		ChunkId:    a.ChunkId,
		PageIndex:  a.PageIndex,
		UserId:     a.UserId,
		CreatedAt:  a.CreatedAt,
	}
}
