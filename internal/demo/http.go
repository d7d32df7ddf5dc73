package demo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrStatus reports a non-2xx response.
var ErrStatus = errors.New("unexpected status")

// HTTPClient talks to the score board API.
type HTTPClient struct {
	client   *http.Client
	baseURL  string
	password string
}

// NewHTTPClient creates a client with the given timeout. Requests marked as
// jury requests carry password as basic auth password.
func NewHTTPClient(baseURL, password string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:   &http.Client{Timeout: timeout},
		baseURL:  baseURL,
		password: password,
	}
}

// GetJSON decodes the response of GET path into out.
func (c *HTTPClient) GetJSON(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil, false)
	if err != nil {
		return err
	}
	return decode(path, body, out)
}

// GetRaw returns the response body of GET path.
func (c *HTTPClient) GetRaw(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil, false)
}

// Jury sends in as JSON with the jury password and decodes the response
// into out when out is not nil.
func (c *HTTPClient) Jury(ctx context.Context, method, path string, in, out any) error {
	body, err := c.do(ctx, method, path, in, true)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(path, body, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in any, jury bool) ([]byte, error) {
	var payload io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if jury {
		req.SetBasicAuth("jury", c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s %s: %d %s", ErrStatus, method, path, resp.StatusCode, bytes.TrimSpace(body))
	}
	return body, nil
}

func decode(path string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", path, err)
	}
	return nil
}
