package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ingestion-api/internal/clients"
	"ingestion-api/internal/models"
	"ingestion-api/internal/repositories"
	"ingestion-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repositories.NewMemoryStatusStore()
	svc := services.NewIngestionService(store, clients.NewMockClient())
	h := NewIngestionHandler(svc)

	router := gin.New()
	v1 := router.Group("/api/v1/ingestion")
	v1.POST("/trigger", h.Trigger())
	v1.GET("/status/:jobId", h.GetStatus())
	v1.POST("/retry/:jobId", h.Retry())
	v1.GET("/embeddings/:documentId", h.Embeddings())
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTriggerEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/ingestion/trigger", `{"documentId":"doc-42"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var status models.IngestionStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.NotEmpty(t, status.JobID)
	assert.Equal(t, "doc-42", status.DocumentID)
	assert.Equal(t, models.StateProcessing, status.State)
	assert.Equal(t, 0, status.Progress)
}

func TestTriggerEndpointRequiresDocumentID(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/ingestion/trigger", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStatusEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/ingestion/trigger", `{"documentId":"doc-1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.IngestionStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doRequest(router, http.MethodGet, "/api/v1/ingestion/status/"+created.JobID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var status models.IngestionStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, created.JobID, status.JobID)
	assert.Equal(t, "doc-1", status.DocumentID)
}

func TestGetStatusEndpointNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/ingestion/status/nonexistent-job", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestRetryEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/ingestion/trigger", `{"documentId":"doc-7"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var original models.IngestionStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &original))

	w = doRequest(router, http.MethodPost, "/api/v1/ingestion/retry/"+original.JobID, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var retried models.IngestionStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &retried))
	assert.NotEqual(t, original.JobID, retried.JobID)
	assert.Equal(t, "doc-7", retried.DocumentID)
	assert.Equal(t, models.StateProcessing, retried.State)
	assert.Equal(t, 0, retried.Progress)
}

func TestRetryEndpointNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/ingestion/retry/nonexistent-job", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmbeddingsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	first := doRequest(router, http.MethodGet, "/api/v1/ingestion/embeddings/doc-1", "")
	require.Equal(t, http.StatusOK, first.Code)

	second := doRequest(router, http.MethodGet, "/api/v1/ingestion/embeddings/doc-1", "")
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, first.Body.String(), second.Body.String(), "embeddings must be stable across calls")

	var resp models.EmbeddingsResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &resp))
	assert.Equal(t, "doc-1", resp.DocumentID)
	assert.Len(t, resp.Embedding, 16)
}
