package mapper

import (
	"time"

	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/model"
)

type KnowledgeBaseMapper struct{}

func NewKnowledgeBaseMapper() *KnowledgeBaseMapper {
	return &KnowledgeBaseMapper{}
}

func (m *KnowledgeBaseMapper) ToEntity(kb *model.KnowledgeBase) *entity.KnowledgeBase {
	if kb == nil {
		return nil
	}

	var updatedAt *time.Time
	if !kb.UpdatedAt.IsZero() {
		t := kb.UpdatedAt
		updatedAt = &t
	}

	return &entity.KnowledgeBase{
		Id:          kb.Id,
		Name:        kb.Name,
		Description: kb.Description,
		UserId:      kb.UserId,
		Settings:    fromJSONColumn(kb.Settings),
		CreatedAt:   kb.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *KnowledgeBaseMapper) ToModel(kb *entity.KnowledgeBase) *model.KnowledgeBase {
	if kb == nil {
		return nil
	}

	var updatedAt time.Time
	if kb.UpdatedAt != nil {
		updatedAt = *kb.UpdatedAt
	}

	return &model.KnowledgeBase{
		Id:          kb.Id,
		Name:        kb.Name,
		Description: kb.Description,
		UserId:      kb.UserId,
		Settings:    toJSONColumn(kb.Settings),
		CreatedAt:   kb.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *KnowledgeBaseMapper) AssociationToEntity(a *model.KnowledgeBaseFile) *entity.KnowledgeBaseFile {
	if a == nil {
		return nil
	}
	return &entity.KnowledgeBaseFile{
		KnowledgeBaseId: a.KnowledgeBaseId,
		FileId:          a.FileId,
		UserId:          a.UserId,
		CreatedAt:       a.CreatedAt,
	}
}

func (m *KnowledgeBaseMapper) AssociationToModel(a *entity.KnowledgeBaseFile) *model.KnowledgeBaseFile {
	if a == nil {
		return nil
	}
	return &model.KnowledgeBaseFile{
		KnowledgeBaseId: a.KnowledgeBaseId,
		FileId:          a.FileId,
		UserId:          a.UserId,
		CreatedAt:       a.CreatedAt,
	}
}
