package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ingestion-api/internal/models"
	"ingestion-api/internal/repositories"
	"ingestion-api/pkg/memorydb"
)

const (
	documentCacheTTL  = 60 * time.Second
	documentsListKey  = "documents"
	documentKeyPrefix = "doc_"
)

// DocumentService handles document CRUD with a Redis read cache in
// front of MongoDB. Writes invalidate the list cache; reads populate
// per-document entries.
type DocumentService struct {
	repo        *repositories.DocumentRepository
	redis       *memorydb.RedisClient // nil disables caching
	storagePath string
}

// NewDocumentService creates a new document service
func NewDocumentService(repo *repositories.DocumentRepository, redis *memorydb.RedisClient, storagePath string) *DocumentService {
	return &DocumentService{
		repo:        repo,
		redis:       redis,
		storagePath: storagePath,
	}
}

// CreateDocumentRequest carries the upload form fields.
type CreateDocumentRequest struct {
	Title       string
	Description string
	CreatedBy   string
}

// Create stores the uploaded file on disk, persists the document record
// and invalidates the list cache.
func (s *DocumentService) Create(ctx context.Context, req *CreateDocumentRequest, file *multipart.FileHeader) (*models.Document, error) {
	filename := filepath.Base(filepath.Clean(file.Filename))
	filename = strings.ReplaceAll(filename, " ", "_")
	filePath := filepath.Join(s.storagePath, fmt.Sprintf("%d-%s", time.Now().UnixNano(), filename))

	if err := s.saveFile(file, filePath); err != nil {
		return nil, fmt.Errorf("failed to store uploaded file: %w", err)
	}

	doc, err := s.repo.Create(ctx, &models.Document{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
		FilePath:    filePath,
	})
	if err != nil {
		os.Remove(filePath)
		return nil, err
	}

	s.cacheDel(ctx, documentsListKey)
	return doc, nil
}

// List returns all documents, from cache when fresh.
func (s *DocumentService) List(ctx context.Context) ([]models.Document, error) {
	var cached []models.Document
	if s.cacheGet(ctx, documentsListKey, &cached) {
		return cached, nil
	}

	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, documentsListKey, docs)
	return docs, nil
}

// GetByID returns a single document, from cache when fresh.
func (s *DocumentService) GetByID(ctx context.Context, id string) (*models.Document, error) {
	key := documentKeyPrefix + id

	var cached models.Document
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, doc)
	return doc, nil
}

// Update applies the partial update and drops stale cache entries.
func (s *DocumentService) Update(ctx context.Context, id string, req *models.UpdateDocumentRequest) (*models.Document, error) {
	doc, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.cacheDel(ctx, documentKeyPrefix+id, documentsListKey)
	return doc, nil
}

// Delete removes the record, its file and its cache entries.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if doc.FilePath != "" {
		os.Remove(doc.FilePath)
	}
	s.cacheDel(ctx, documentKeyPrefix+id, documentsListKey)
	return nil
}

func (s *DocumentService) saveFile(file *multipart.FileHeader, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

// Cache failures are never fatal; the database remains the source of
// truth.
func (s *DocumentService) cacheGet(ctx context.Context, key string, out interface{}) bool {
	if s.redis == nil {
		return false
	}
	payload, err := s.redis.Get(ctx, key)
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(payload), out) == nil
}

func (s *DocumentService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	s.redis.Set(ctx, key, payload, documentCacheTTL)
}

func (s *DocumentService) cacheDel(ctx context.Context, keys ...string) {
	if s.redis == nil {
		return
	}
	s.redis.Del(ctx, keys...)
}
