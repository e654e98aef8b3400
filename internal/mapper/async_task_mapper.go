package mapper

import (
	"encoding/json"
	"time"

	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/model"

	"gorm.io/datatypes"
)

type AsyncTaskMapper struct{}

func NewAsyncTaskMapper() *AsyncTaskMapper {
	return &AsyncTaskMapper{}
}

func (m *AsyncTaskMapper) ToEntity(t *model.AsyncTask) *entity.AsyncTask {
	if t == nil {
		return nil
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		u := t.UpdatedAt
		updatedAt = &u
	}

	var taskErr *entity.TaskError
	if len(t.Error) > 0 {
		var te entity.TaskError
		if err := json.Unmarshal(t.Error, &te); err == nil {
			taskErr = &te
		}
	}

	return &entity.AsyncTask{
		Id:        t.Id,
		Type:      t.Type,
		Status:    entity.TaskStatus(t.Status),
		Progress:  t.Progress,
		Message:   t.Message,
		Error:     taskErr,
		Duration:  t.Duration,
		UserId:    t.UserId,
		CreatedAt: t.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *AsyncTaskMapper) ToModel(t *entity.AsyncTask) *model.AsyncTask {
	if t == nil {
		return nil
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	var errCol datatypes.JSON
	if t.Error != nil {
		if b, err := json.Marshal(t.Error); err == nil {
			errCol = datatypes.JSON(b)
		}
	}

	return &model.AsyncTask{
		Id:        t.Id,
		Type:      t.Type,
		Status:    string(t.Status),
		Progress:  t.Progress,
		Message:   t.Message,
		Error:     errCol,
		Duration:  t.Duration,
		UserId:    t.UserId,
		CreatedAt: t.CreatedAt,
		UpdatedAt: updatedAt,
	}
}
