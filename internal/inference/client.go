package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cephai-backend/internal/models"
)

// The model server owns preprocessing and the network itself; this
// package only speaks its HTTP contract. Landmark coordinates in
// responses are normalized to [0,1] in image space (x right, y down).

// ErrUnavailable marks transport-level failures (connection refused,
// timeout) as opposed to a well-formed error reply from the server.
var ErrUnavailable = errors.New("inference service unavailable")

// Engine is the consumed contract of the landmark detector.
type Engine interface {
	Predict(ctx context.Context, imageBytes []byte) (*Result, error)
	Healthcheck(ctx context.Context) error
}

// Result is one inference run as returned by the model server.
type Result struct {
	ModelVersion string           `json:"model_version"`
	Landmarks    models.Landmarks `json:"landmarks"`
}

type predictResponse struct {
	OK           bool             `json:"ok"`
	ModelVersion string           `json:"model_version"`
	Landmarks    models.Landmarks `json:"landmarks"`
	Error        string           `json:"error,omitempty"`
}

// Client talks to the landmark model server over HTTP. Construct it
// once at startup and share it between request handlers; it holds no
// mutable state beyond the embedded http.Client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a Client against the given base URL with a bounded
// request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict submits raw image bytes and returns the detected landmarks.
func (c *Client) Predict(ctx context.Context, imageBytes []byte) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/v1/landmarks", bytes.NewReader(imageBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var result predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding inference response: %w", err)
	}
	if !result.OK {
		return nil, fmt.Errorf("inference error: %s", result.Error)
	}

	return &Result{ModelVersion: result.ModelVersion, Landmarks: result.Landmarks}, nil
}

// Healthcheck probes the model server. Called once at startup; a
// failure there is fatal so a broken model deployment surfaces
// immediately instead of on the first prediction.
func (c *Client) Healthcheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/v1/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}
