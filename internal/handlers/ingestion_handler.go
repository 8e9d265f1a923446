package handlers

import (
	"net/http"

	"ingestion-api/internal/models"
	"ingestion-api/internal/services"
	apperrors "ingestion-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

type IngestionHandler struct {
	service *services.IngestionService
}

func NewIngestionHandler(service *services.IngestionService) *IngestionHandler {
	return &IngestionHandler{service: service}
}

// Trigger handles POST /api/v1/ingestion/trigger
func (h *IngestionHandler) Trigger() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TriggerIngestionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "documentId is required",
			})
			return
		}

		status, err := h.service.Trigger(c.Request.Context(), req.DocumentID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, status)
	}
}

// GetStatus handles GET /api/v1/ingestion/status/:jobId
func (h *IngestionHandler) GetStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := h.service.GetStatus(c.Request.Context(), c.Param("jobId"))
		if err != nil {
			respondError(c, err)
			return
		}
		if status == nil {
			c.JSON(http.StatusNotFound, apperrors.ErrorResponse{
				Error:   apperrors.ErrNotFound.Code,
				Message: "Job not found",
			})
			return
		}

		c.JSON(http.StatusOK, status)
	}
}

// Retry handles POST /api/v1/ingestion/retry/:jobId
func (h *IngestionHandler) Retry() gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := h.service.Retry(c.Request.Context(), c.Param("jobId"))
		if err != nil {
			respondError(c, err)
			return
		}
		if status == nil {
			c.JSON(http.StatusNotFound, apperrors.ErrorResponse{
				Error:   apperrors.ErrNotFound.Code,
				Message: "Job not found",
			})
			return
		}

		c.JSON(http.StatusCreated, status)
	}
}

// Embeddings handles GET /api/v1/ingestion/embeddings/:documentId
func (h *IngestionHandler) Embeddings() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, h.service.Embeddings(c.Param("documentId")))
	}
}

// respondError maps service errors onto HTTP responses, keeping the
// AppError code/status when one is present.
func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		c.JSON(appErr.Status, apperrors.ErrorResponse{
			Error:   appErr.Code,
			Message: appErr.Message,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, apperrors.ErrorResponse{
		Error:   apperrors.ErrInternalServer.Code,
		Message: "Internal server error",
	})
}
