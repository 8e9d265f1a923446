package handlers

import (
	"net/http"

	"ingestion-api/internal/models"
	"ingestion-api/internal/services"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	service *services.DocumentService
}

func NewDocumentHandler(service *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// Create handles POST /api/v1/documents (multipart upload)
func (h *DocumentHandler) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "file is required",
			})
			return
		}

		title := c.PostForm("title")
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "title is required",
			})
			return
		}

		doc, err := h.service.Create(c.Request.Context(), &services.CreateDocumentRequest{
			Title:       title,
			Description: c.PostForm("description"),
			CreatedBy:   c.PostForm("created_by"),
		}, file)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, doc)
	}
}

// List handles GET /api/v1/documents
func (h *DocumentHandler) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := h.service.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"documents":   docs,
			"total_count": len(docs),
		})
	}
}

// GetByID handles GET /api/v1/documents/:id
func (h *DocumentHandler) GetByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, doc)
	}
}

// Update handles PUT /api/v1/documents/:id
func (h *DocumentHandler) Update() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateDocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "invalid request body",
			})
			return
		}

		doc, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, doc)
	}
}

// Delete handles DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "document deleted",
		})
	}
}
