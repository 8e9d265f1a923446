package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IngestionState is the lifecycle stage of an ingestion job.
type IngestionState string

const (
	StatePending    IngestionState = "Pending"
	StateProcessing IngestionState = "Processing"
	StateCompleted  IngestionState = "Completed"
	StateFailed     IngestionState = "Failed"
)

// Terminal reports whether the state admits no further transitions.
func (s IngestionState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// IngestionStatus is the tracked record for one ingestion job.
// Error is set iff the job failed; EmbeddingsPreview is set iff it
// completed.
type IngestionStatus struct {
	JobID             string         `json:"jobId"`
	DocumentID        string         `json:"documentId"`
	State             IngestionState `json:"state"`
	Progress          int            `json:"progress"` // 0..100
	StartedAt         time.Time      `json:"startedAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	Error             *string        `json:"error"`
	EmbeddingsPreview []float64      `json:"embeddingsPreview"`
}

// TriggerIngestionRequest is the trigger endpoint payload.
type TriggerIngestionRequest struct {
	DocumentID string `json:"documentId" binding:"required"`
}

// EmbeddingsResponse pairs a document id with its feature vector.
type EmbeddingsResponse struct {
	DocumentID string    `json:"documentId"`
	Embedding  []float64 `json:"embedding"`
}

// Document models
type Document struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	CreatedBy   string             `bson:"createdBy" json:"created_by"`
	FilePath    string             `bson:"filePath" json:"file_path"`
	CreatedAt   time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updated_at"`
}

type UpdateDocumentRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}
