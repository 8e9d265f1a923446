package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ingestion-api/internal/models"
	apperrors "ingestion-api/pkg/errors"
	"ingestion-api/pkg/memorydb"

	"github.com/redis/go-redis/v9"
)

// DefaultStatusTTL is how long a job status record lives in the store
// before it may be evicted.
const DefaultStatusTTL = 24 * time.Hour

// StatusStore persists ingestion job status records with per-entry
// expiry. Get returns (nil, nil) when the record is absent or expired;
// the two cases are indistinguishable to callers. A ttl of zero means
// DefaultStatusTTL.
type StatusStore interface {
	Set(ctx context.Context, jobID string, status *models.IngestionStatus, ttl time.Duration) error
	Get(ctx context.Context, jobID string) (*models.IngestionStatus, error)
}

// RedisStatusStore is the production StatusStore on top of Redis.
type RedisStatusStore struct {
	redis *memorydb.RedisClient
}

func NewRedisStatusStore(redis *memorydb.RedisClient) *RedisStatusStore {
	return &RedisStatusStore{redis: redis}
}

func statusKey(jobID string) string {
	return "ingestion:" + jobID
}

func (s *RedisStatusStore) Set(ctx context.Context, jobID string, status *models.IngestionStatus, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultStatusTTL
	}

	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status for job %s: %w", jobID, err)
	}

	if err := s.redis.Set(ctx, statusKey(jobID), payload, ttl); err != nil {
		return apperrors.WrapError(err, apperrors.ErrStoreUnavailable.Code,
			"failed to write job status", apperrors.ErrStoreUnavailable.Status)
	}
	return nil
}

func (s *RedisStatusStore) Get(ctx context.Context, jobID string) (*models.IngestionStatus, error) {
	payload, err := s.redis.Get(ctx, statusKey(jobID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.WrapError(err, apperrors.ErrStoreUnavailable.Code,
			"failed to read job status", apperrors.ErrStoreUnavailable.Status)
	}

	var status models.IngestionStatus
	if err := json.Unmarshal([]byte(payload), &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status for job %s: %w", jobID, err)
	}
	return &status, nil
}
