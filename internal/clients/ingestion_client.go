package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// IngestionClient notifies the processing backend that a document is
// ready for ingestion. The backend only acknowledges the request; it
// never pushes status back, so all progress tracking happens on our
// side of the boundary.
type IngestionClient interface {
	Start(ctx context.Context, documentID string) (accepted bool, err error)
}

// MockClient accepts every request. This is the default wiring until a
// real processing backend is deployed.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) Start(ctx context.Context, documentID string) (bool, error) {
	return true, nil
}

// HTTPClient posts start notifications to the processing backend over
// HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type startRequest struct {
	DocumentID string `json:"documentId"`
}

type startResponse struct {
	Accepted bool `json:"accepted"`
}

func (c *HTTPClient) Start(ctx context.Context, documentID string) (bool, error) {
	body, err := json.Marshal(startRequest{DocumentID: documentID})
	if err != nil {
		return false, fmt.Errorf("failed to marshal start request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ingest/start", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("failed to build start request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to reach ingestion backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("ingestion backend returned status %d", resp.StatusCode)
	}

	var out startResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("failed to decode start response: %w", err)
	}
	return out.Accepted, nil
}
