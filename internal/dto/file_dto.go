package dto

import (
	"time"

	"github.com/google/uuid"
)

// RegisterFileRequest registers an already-uploaded blob with a
// knowledge base and kicks off the ingestion pipeline.
type RegisterFileRequest struct {
	Name     string                 `json:"name" validate:"required,max=512"`
	FileType string                 `json:"file_type" validate:"required"`
	Size     int64                  `json:"size" validate:"gte=0"`
	Url      string                 `json:"url" validate:"required"`
	Metadata map[string]interface{} `json:"metadata"`
}

type RegisterFileResponse struct {
	FileId string    `json:"file_id"`
	TaskId uuid.UUID `json:"task_id"`
}

type FileResponse struct {
	Id          string                 `json:"id"`
	Name        string                 `json:"name"`
	FileType    string                 `json:"file_type"`
	Size        int64                  `json:"size"`
	Url         string                 `json:"url"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	ChunkTaskId *uuid.UUID             `json:"chunk_task_id,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type ListFilesResponse struct {
	Files []*FileResponse `json:"files"`
}

// PublishProcessFileMessage is the pipeline kick-off payload put on
// the queue by the task service and consumed by the pipeline worker.
type PublishProcessFileMessage struct {
	FileId string    `json:"file_id"`
	TaskId uuid.UUID `json:"task_id"`
	UserId uuid.UUID `json:"user_id"`
}
