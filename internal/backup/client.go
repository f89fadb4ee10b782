// Package backup copies export documents between CalTracker instances over
// the JSON API.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/meltforce/caltracker/internal/storage"
)

const attempts = 3

// Client talks to a remote CalTracker server.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
	// backoff is the wait before the second attempt; it doubles afterwards.
	backoff time.Duration
}

// NewClient creates a client for serverURL, which may include a base path.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoff: time.Second,
	}
}

// statusError is a non-2xx response. 4xx responses are not retried.
type statusError struct {
	op     string
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s failed (status %d): %s", e.op, e.status, e.body)
}

// Push uploads doc to the remote instance's import endpoint.
func (c *Client) Push(ctx context.Context, doc *storage.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	_, err = c.do(ctx, "import", http.MethodPost, "/api/v1/import", data)
	return err
}

// Pull downloads the remote instance's export document.
func (c *Client) Pull(ctx context.Context) (*storage.Document, error) {
	body, err := c.do(ctx, "export", http.MethodGet, "/api/v1/export", nil)
	if err != nil {
		return nil, err
	}
	var doc storage.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decoding export: %w", err)
	}
	return &doc, nil
}

// do sends one request, retrying up to 3 times with exponential backoff on
// transport errors and 5xx responses.
func (c *Client) do(ctx context.Context, op, method, path string, payload []byte) ([]byte, error) {
	var lastErr error
	for attempt := range attempts {
		if attempt > 0 {
			wait := c.backoff * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, body)
		if err != nil {
			return nil, fmt.Errorf("building %s request: %w", op, err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.apiKey != "" {
			req.Header.Set("X-API-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return data, nil
		}
		lastErr = &statusError{op: op, status: resp.StatusCode, body: strings.TrimSpace(string(data))}
		if resp.StatusCode < http.StatusInternalServerError {
			return nil, lastErr
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
