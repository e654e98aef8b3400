package mapper

import (
	"time"

	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/model"
)

type FileMapper struct{}

func NewFileMapper() *FileMapper {
	return &FileMapper{}
}

func (m *FileMapper) ToEntity(f *model.File) *entity.File {
	if f == nil {
		return nil
	}

	var updatedAt *time.Time
	if !f.UpdatedAt.IsZero() {
		t := f.UpdatedAt
		updatedAt = &t
	}

	return &entity.File{
		Id:          f.Id,
		UserId:      f.UserId,
		FileType:    f.FileType,
		Name:        f.Name,
		Size:        f.Size,
		Url:         f.Url,
		Metadata:    fromJSONColumn(f.Metadata),
		ChunkTaskId: f.ChunkTaskId,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *FileMapper) ToModel(f *entity.File) *model.File {
	if f == nil {
		return nil
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.File{
		Id:          f.Id,
		UserId:      f.UserId,
		FileType:    f.FileType,
		Name:        f.Name,
		Size:        f.Size,
		Url:         f.Url,
		Metadata:    toJSONColumn(f.Metadata),
		ChunkTaskId: f.ChunkTaskId,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}
