package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fentz26/toyrobot/internal/controlplane"
	"github.com/fentz26/toyrobot/internal/models"
)

// DefaultClientTimeout is the default timeout for API requests.
const DefaultClientTimeout = 10 * time.Second

// Client wraps HTTP calls to a toyrobot daemon and implements Session.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client with timeout
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
		},
	}
}

// APIError is a non-2xx reply from the daemon.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Message)
}

// ExecuteText posts a command to the daemon.
func (c *Client) ExecuteText(text string) (models.HistoryEntry, error) {
	var entry models.HistoryEntry
	err := c.do(http.MethodPost, "/commands", controlplane.CommandRequest{Command: text}, &entry)
	return entry, err
}

// Reset resets the daemon's session.
func (c *Client) Reset() error {
	return c.do(http.MethodPost, "/reset", nil, nil)
}

// State fetches the daemon's session snapshot.
func (c *Client) State() (models.State, error) {
	var st models.State
	err := c.do(http.MethodGet, "/state", nil, &st)
	return st, err
}

// Health fetches /health.
func (c *Client) Health() (*controlplane.HealthResponse, error) {
	var h controlplane.HealthResponse
	if err := c.do(http.MethodGet, "/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Audit fetches the journal records of the daemon's session.
func (c *Client) Audit(limit int) ([]models.AuditRecord, error) {
	var records []models.AuditRecord
	err := c.do(http.MethodGet, fmt.Sprintf("/audit?limit=%d", limit), nil, &records)
	return records, err
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var e controlplane.ErrorResponse
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: e.Error}
		}
		return &APIError{Status: resp.StatusCode, Message: string(bytes.TrimSpace(data))}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
