package services

import (
	"context"
	"time"

	"ingestion-api/pkg/memorydb"
	"ingestion-api/pkg/mongodb"
)

// HealthStatus represents the status of a dependency
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`
}

// HealthService handles health check operations
type HealthService struct {
	db    *mongodb.DB           // nil when MongoDB is not configured
	redis *memorydb.RedisClient // nil when Redis is not configured
}

// NewHealthService creates a new health service
func NewHealthService(db *mongodb.DB, redis *memorydb.RedisClient) *HealthService {
	return &HealthService{
		db:    db,
		redis: redis,
	}
}

// Check pings every configured dependency and reports per-dependency
// status. Unconfigured dependencies are reported as disabled, not as
// errors.
func (s *HealthService) Check(ctx context.Context) map[string]HealthStatus {
	status := make(map[string]HealthStatus)

	if s.redis == nil {
		status["redis"] = HealthStatus{Status: "disabled", Timestamp: time.Now()}
	} else if err := s.redis.Ping(ctx); err != nil {
		status["redis"] = HealthStatus{Status: "error", Timestamp: time.Now(), Details: err.Error()}
	} else {
		status["redis"] = HealthStatus{Status: "ok", Timestamp: time.Now()}
	}

	if s.db == nil {
		status["mongodb"] = HealthStatus{Status: "disabled", Timestamp: time.Now()}
	} else if err := s.db.Ping(ctx); err != nil {
		status["mongodb"] = HealthStatus{Status: "error", Timestamp: time.Now(), Details: err.Error()}
	} else {
		status["mongodb"] = HealthStatus{Status: "ok", Timestamp: time.Now()}
	}

	return status
}

// Healthy reports whether no configured dependency is failing.
func (s *HealthService) Healthy(ctx context.Context) bool {
	for _, st := range s.Check(ctx) {
		if st.Status == "error" {
			return false
		}
	}
	return true
}
