package explorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// APIError is a non-success response from the analytics service. Message is
// the human-readable text the server sent with the status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("service returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("service returned %d", e.Status)
}

// Client talks to the two endpoints of the remote analytics service. Requests
// carry no client-side timeout; the session keeps the UI responsive while a
// call is outstanding and cancellation happens through the context.
type Client struct {
	base string
	hc   *http.Client
	log  *zap.Logger
}

func NewClient(base string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{},
		log:  log,
	}
}

// Schools returns the entities matching the substring query, or the full
// known list when query is empty.
func (c *Client) Schools(ctx context.Context, query string) ([]School, error) {
	endpoint := c.base + "/schools"
	if query != "" {
		endpoint += "?q=" + url.QueryEscape(query)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build schools request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch schools: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}
	var schools []School
	if err := json.NewDecoder(resp.Body).Decode(&schools); err != nil {
		return nil, fmt.Errorf("decode schools: %w", err)
	}
	return schools, nil
}

// Analyze submits one analysis query and returns the full result.
func (c *Client) Analyze(ctx context.Context, query string) (*AnalysisResult, error) {
	var result AnalysisResult
	if err := c.post(ctx, "/analyze", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Refresh asks the service to drop and re-collect the reviews behind a query.
// The caller re-submits an analysis afterwards to pick up the new data.
func (c *Client) Refresh(ctx context.Context, query string) error {
	return c.post(ctx, "/refresh", query, nil)
}

func (c *Client) post(ctx context.Context, path, query string, out interface{}) error {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug("posting to analytics service", zap.String("path", path), zap.String("query", query))
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// apiError extracts the server's message from an error response. The service
// answers either with a JSON {"message": ...} object or with plain text.
func (c *Client) apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(data))
	var structured struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &structured); err == nil && structured.Message != "" {
		msg = structured.Message
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
