package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"ingestion-api/internal/clients"
	"ingestion-api/internal/models"
	"ingestion-api/internal/repositories"
	"ingestion-api/pkg/embeddings"

	fylogger "github.com/FyersDev/trading-logger-go"
	"github.com/google/uuid"
)

// Progress schedule for the simulated backend. Each step takes
// stepDelay; the terminal outcome is decided only after the whole
// schedule has run, so progress never foreshadows failure.
var progressSteps = []int{20, 60, 90, 100}

const (
	defaultStepDelay = 700 * time.Millisecond
	successRate      = 0.85
	previewSize      = 8
	failedMessage    = "Mocked ingestion error"
)

// IngestionService creates ingestion jobs, drives their simulated
// progress in the background and answers status queries.
type IngestionService struct {
	store  repositories.StatusStore
	client clients.IngestionClient

	// Overridable in tests; defaults simulate the real backend.
	stepDelay time.Duration
	randFloat func() float64
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(store repositories.StatusStore, client clients.IngestionClient) *IngestionService {
	return &IngestionService{
		store:     store,
		client:    client,
		stepDelay: defaultStepDelay,
		randFloat: rand.Float64,
	}
}

// Trigger creates and persists a new job for the document, notifies the
// processing backend and starts the detached progress task. It returns
// the freshly persisted record without waiting for any of the
// background work.
func (s *IngestionService) Trigger(ctx context.Context, documentID string) (*models.IngestionStatus, error) {
	jobID := uuid.NewString()
	now := time.Now().UTC()
	status := &models.IngestionStatus{
		JobID:      jobID,
		DocumentID: documentID,
		State:      models.StateProcessing,
		Progress:   0,
		StartedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.Set(ctx, jobID, status, 0); err != nil {
		return nil, err
	}

	// Notify the backend. A rejection or transport failure does not
	// change the job's state today; the simulation proceeds either way.
	// Known limitation, kept for compatibility with existing clients.
	accepted, err := s.client.Start(ctx, documentID)
	if err != nil {
		fylogger.ErrorLog(ctx, fmt.Sprintf("ingestion backend start failed for document %s", documentID), err, nil)
	} else if !accepted {
		fylogger.InfoLog(ctx, fmt.Sprintf("ingestion backend did not accept document %s", documentID), nil)
	}

	go s.simulate(jobID)

	return status, nil
}

// GetStatus returns the current record for the job, or (nil, nil) if it
// is unknown or expired.
func (s *IngestionService) GetStatus(ctx context.Context, jobID string) (*models.IngestionStatus, error) {
	return s.store.Get(ctx, jobID)
}

// Retry starts a fresh job for the same document as an existing one.
// The new job gets its own id; the original record is left untouched.
// Returns (nil, nil) when the original job is unknown or expired.
func (s *IngestionService) Retry(ctx context.Context, jobID string) (*models.IngestionStatus, error) {
	prev, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, nil
	}
	return s.Trigger(ctx, prev.DocumentID)
}

// Embeddings returns the stable placeholder vector for a document. It
// never touches the store.
func (s *IngestionService) Embeddings(documentID string) models.EmbeddingsResponse {
	return models.EmbeddingsResponse{
		DocumentID: documentID,
		Embedding:  embeddings.Vector(documentID),
	}
}

// simulate advances the job through the progress schedule and decides
// the terminal outcome. It runs detached from the call that created the
// job; every failure here ends the task and is logged, never surfaced.
// It aborts silently if the record disappears from the store.
func (s *IngestionService) simulate(jobID string) {
	ctx := context.Background()

	for _, p := range progressSteps {
		time.Sleep(s.stepDelay)

		cur, err := s.store.Get(ctx, jobID)
		if err != nil {
			fylogger.ErrorLog(ctx, fmt.Sprintf("ingestion job %s: progress read failed", jobID), err, nil)
			return
		}
		if cur == nil {
			return
		}

		cur.Progress = p
		cur.UpdatedAt = time.Now().UTC()
		if err := s.store.Set(ctx, jobID, cur, 0); err != nil {
			fylogger.ErrorLog(ctx, fmt.Sprintf("ingestion job %s: progress write failed", jobID), err, nil)
			return
		}
	}

	final, err := s.store.Get(ctx, jobID)
	if err != nil {
		fylogger.ErrorLog(ctx, fmt.Sprintf("ingestion job %s: final read failed", jobID), err, nil)
		return
	}
	if final == nil {
		return
	}

	if s.randFloat() < successRate {
		final.State = models.StateCompleted
		final.Error = nil
		preview := make([]float64, previewSize)
		for i := range preview {
			preview[i] = round4(s.randFloat()*2 - 1)
		}
		final.EmbeddingsPreview = preview
	} else {
		final.State = models.StateFailed
		msg := failedMessage
		final.Error = &msg
		final.EmbeddingsPreview = nil
	}
	final.Progress = 100
	final.UpdatedAt = time.Now().UTC()

	if err := s.store.Set(ctx, jobID, final, 0); err != nil {
		fylogger.ErrorLog(ctx, fmt.Sprintf("ingestion job %s: final write failed", jobID), err, nil)
		return
	}

	fylogger.InfoLog(ctx, fmt.Sprintf("ingestion job %s finished: %s", jobID, final.State), nil)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
