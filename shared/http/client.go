package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultClient is a shared HTTP client with sensible defaults
var DefaultClient = &http.Client{
	Timeout: 15 * time.Second,
}

// StatusError is returned by MakeRequest when the upstream answers with a
// non-200 status code.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	return fmt.Sprintf("provider returned status %d", e.StatusCode)
}

// MakeRequest performs an HTTP GET request with context and returns the response
func MakeRequest(ctx context.Context, apiURL string, client *http.Client) (*http.Response, error) {
	if client == nil {
		client = DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch results: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		return nil, &StatusError{URL: apiURL, StatusCode: resp.StatusCode}
	}

	return resp, nil
}

// BuildQueryURL builds a URL with query parameters
func BuildQueryURL(baseURL string, params map[string]string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL // Return original if parsing fails
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// DecodeJSONResponse decodes a JSON response from an HTTP response body
func DecodeJSONResponse(resp *http.Response, v interface{}) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetJSON combines MakeRequest and DecodeJSONResponse.
func GetJSON(ctx context.Context, apiURL string, client *http.Client, v interface{}) error {
	resp, err := MakeRequest(ctx, apiURL, client)
	if err != nil {
		return err
	}
	return DecodeJSONResponse(resp, v)
}
