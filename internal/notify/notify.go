// Package notify delivers deployment details to the evaluator endpoint.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	satchelerrors "github.com/satchel-dev/satchel/internal/errors"
)

// Payload is the submission record sent to the evaluator.
type Payload struct {
	SHA      string `json:"sha"`
	PagesURL string `json:"pages_url"`
}

// Record is the notification state persisted after each attempt.
type Record struct {
	Endpoint string `json:"endpoint"`
	SHA      string `json:"sha"`
	PagesURL string `json:"pages_url"`
}

// Client posts notifications to a fixed evaluator endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a notification client for endpoint with the given
// request timeout.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Endpoint returns the configured evaluator endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send posts the payload as JSON. The evaluator's JSON response body is
// returned on success so the CLI can display it.
func (c *Client) Send(ctx context.Context, payload Payload) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger := zerolog.Ctx(ctx).With().Str("component", "notify").Logger()
	logger.Debug().Str("endpoint", c.endpoint).Str("sha", payload.SHA).Msg("sending notification")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", satchelerrors.ErrNotifyFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: endpoint returned status %d", satchelerrors.ErrNotifyFailed, resp.StatusCode)
	}

	var response map[string]any
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", satchelerrors.ErrNotifyFailed, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &response); err != nil {
			// Non-JSON responses still count as delivered.
			logger.Debug().Msg("evaluator response is not JSON")
		}
	}

	logger.Info().Str("endpoint", c.endpoint).Msg("notification delivered")
	return response, nil
}
