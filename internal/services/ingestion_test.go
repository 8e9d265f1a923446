package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ingestion-api/internal/clients"
	"ingestion-api/internal/models"
	"ingestion-api/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestIngestionService builds a service over the in-memory store
// with a fast progress schedule and a fixed random outcome.
func newTestIngestionService(t *testing.T, outcome float64) (*IngestionService, *repositories.MemoryStatusStore) {
	t.Helper()
	store := repositories.NewMemoryStatusStore()
	svc := NewIngestionService(store, clients.NewMockClient())
	svc.stepDelay = time.Millisecond
	svc.randFloat = func() float64 { return outcome }
	return svc, store
}

// waitForTerminal polls until the job reaches a terminal state.
func waitForTerminal(t *testing.T, svc *IngestionService, jobID string) *models.IngestionStatus {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		status, err := svc.GetStatus(context.Background(), jobID)
		require.NoError(t, err)
		require.NotNil(t, status)
		if status.State.Terminal() {
			return status
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("job %s never reached a terminal state", jobID)
	return nil
}

func TestTriggerReturnsProcessingSnapshot(t *testing.T) {
	svc, _ := newTestIngestionService(t, 0)

	status, err := svc.Trigger(context.Background(), "doc-42")
	require.NoError(t, err)

	assert.NotEmpty(t, status.JobID)
	assert.Equal(t, "doc-42", status.DocumentID)
	assert.Equal(t, models.StateProcessing, status.State)
	assert.Equal(t, 0, status.Progress)
	assert.Nil(t, status.Error)
	assert.Nil(t, status.EmbeddingsPreview)
	assert.Equal(t, status.StartedAt, status.UpdatedAt)
}

func TestTriggerGeneratesUniqueJobIDs(t *testing.T) {
	svc, _ := newTestIngestionService(t, 0)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		status, err := svc.Trigger(ctx, "doc-1")
		require.NoError(t, err)
		assert.False(t, seen[status.JobID], "job id %s reused", status.JobID)
		seen[status.JobID] = true
	}
}

func TestJobCompletesWithPreview(t *testing.T) {
	svc, _ := newTestIngestionService(t, 0.1) // below the success threshold

	status, err := svc.Trigger(context.Background(), "doc-42")
	require.NoError(t, err)

	final := waitForTerminal(t, svc, status.JobID)
	assert.Equal(t, models.StateCompleted, final.State)
	assert.Equal(t, 100, final.Progress)
	assert.Nil(t, final.Error)
	require.Len(t, final.EmbeddingsPreview, 8)
	for i, v := range final.EmbeddingsPreview {
		assert.GreaterOrEqual(t, v, -1.0, "preview element %d", i)
		assert.Less(t, v, 1.0, "preview element %d", i)
	}
}

func TestJobFailsWithError(t *testing.T) {
	svc, _ := newTestIngestionService(t, 0.99) // above the success threshold

	status, err := svc.Trigger(context.Background(), "doc-42")
	require.NoError(t, err)

	final := waitForTerminal(t, svc, status.JobID)
	assert.Equal(t, models.StateFailed, final.State)
	assert.Equal(t, 100, final.Progress)
	require.NotNil(t, final.Error)
	assert.Equal(t, "Mocked ingestion error", *final.Error)
	assert.Nil(t, final.EmbeddingsPreview)
}

func TestProgressIsMonotonic(t *testing.T) {
	svc, _ := newTestIngestionService(t, 0.1)
	svc.stepDelay = 5 * time.Millisecond
	ctx := context.Background()

	status, err := svc.Trigger(ctx, "doc-42")
	require.NoError(t, err)

	last := -1
	for {
		cur, err := svc.GetStatus(ctx, status.JobID)
		require.NoError(t, err)
		require.NotNil(t, cur)
		assert.GreaterOrEqual(t, cur.Progress, last, "progress went backwards")
		last = cur.Progress

		// error iff Failed, preview iff Completed, on every snapshot
		assert.Equal(t, cur.State == models.StateFailed, cur.Error != nil)
		assert.Equal(t, cur.State == models.StateCompleted, cur.EmbeddingsPreview != nil)

		if cur.State.Terminal() {
			assert.Equal(t, 100, cur.Progress)
			return
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRetryCreatesFreshJob(t *testing.T) {
	svc, _ := newTestIngestionService(t, 0.1)
	ctx := context.Background()

	original, err := svc.Trigger(ctx, "doc-7")
	require.NoError(t, err)
	waitForTerminal(t, svc, original.JobID)

	retried, err := svc.Retry(ctx, original.JobID)
	require.NoError(t, err)
	require.NotNil(t, retried)

	assert.NotEqual(t, original.JobID, retried.JobID)
	assert.Equal(t, "doc-7", retried.DocumentID)
	assert.Equal(t, models.StateProcessing, retried.State)
	assert.Equal(t, 0, retried.Progress)

	// The original record is untouched by the retry.
	prev, err := svc.GetStatus(ctx, original.JobID)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, models.StateCompleted, prev.State)
	assert.Equal(t, 100, prev.Progress)
}

func TestRetryUnknownJob(t *testing.T) {
	svc, _ := newTestIngestionService(t, 0)

	status, err := svc.Retry(context.Background(), "nonexistent-job")
	require.NoError(t, err)
	assert.Nil(t, status)
}

func TestGetStatusUnknownJob(t *testing.T) {
	svc, _ := newTestIngestionService(t, 0)

	status, err := svc.GetStatus(context.Background(), "nonexistent-job")
	require.NoError(t, err)
	assert.Nil(t, status)
}

func TestSimulateAbortsWhenRecordEvicted(t *testing.T) {
	svc, store := newTestIngestionService(t, 0.1)
	svc.stepDelay = 5 * time.Millisecond
	ctx := context.Background()

	status, err := svc.Trigger(ctx, "doc-42")
	require.NoError(t, err)

	store.Delete(status.JobID)

	// Give the whole schedule time to run; the task must not resurrect
	// the record.
	time.Sleep(100 * time.Millisecond)
	got, err := svc.GetStatus(ctx, status.JobID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEmbeddingsDeterministic(t *testing.T) {
	svc, _ := newTestIngestionService(t, 0)

	a := svc.Embeddings("doc-1")
	b := svc.Embeddings("doc-1")

	assert.Equal(t, "doc-1", a.DocumentID)
	require.Len(t, a.Embedding, 16)
	assert.Equal(t, a, b)
}

// failingStore errors on every operation, standing in for an
// unreachable medium.
type failingStore struct{}

func (failingStore) Set(ctx context.Context, jobID string, status *models.IngestionStatus, ttl time.Duration) error {
	return errors.New("store unreachable")
}

func (failingStore) Get(ctx context.Context, jobID string) (*models.IngestionStatus, error) {
	return nil, errors.New("store unreachable")
}

func TestTriggerFailsWhenInitialPersistFails(t *testing.T) {
	svc := NewIngestionService(failingStore{}, clients.NewMockClient())
	svc.stepDelay = time.Millisecond

	status, err := svc.Trigger(context.Background(), "doc-42")
	assert.Error(t, err)
	assert.Nil(t, status)
}
