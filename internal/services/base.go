package services

import (
	"ingestion-api/internal/clients"
	"ingestion-api/internal/repositories"
	"ingestion-api/pkg/memorydb"
)

// BaseService provides common dependencies for all services
type BaseService struct {
	statusStore  repositories.StatusStore
	client       clients.IngestionClient
	redis        *memorydb.RedisClient            // nil when Redis is not configured
	documentRepo *repositories.DocumentRepository // nil when MongoDB is not configured
}

// NewBaseService creates a new base service with the required dependencies
func NewBaseService(
	statusStore repositories.StatusStore,
	client clients.IngestionClient,
	redis *memorydb.RedisClient,
	documentRepo *repositories.DocumentRepository,
) *BaseService {
	return &BaseService{
		statusStore:  statusStore,
		client:       client,
		redis:        redis,
		documentRepo: documentRepo,
	}
}

// GetStatusStore returns the ingestion status store
func (s *BaseService) GetStatusStore() repositories.StatusStore {
	return s.statusStore
}

// GetRedis returns the Redis client
func (s *BaseService) GetRedis() *memorydb.RedisClient {
	return s.redis
}

// Services holds all service instances
type Services struct {
	Ingestion *IngestionService
	Document  *DocumentService
	Health    *HealthService
}

func NewServices(base *BaseService, storagePath string) *Services {
	svcs := &Services{
		Ingestion: NewIngestionService(base.statusStore, base.client),
	}

	// Document service needs MongoDB; skip it when not wired.
	if base.documentRepo != nil {
		svcs.Document = NewDocumentService(base.documentRepo, base.redis, storagePath)
	}

	return svcs
}
