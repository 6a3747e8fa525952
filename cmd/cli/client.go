package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iho/tripcost/internal/adapter/http/dto"
)

// apiClient talks to the tripcost HTTP API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// apiError is a non-2xx answer from the API.
type apiError struct {
	Status  int
	Message string
	Details string
}

func (e *apiError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("api error (status %d): %s: %s", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// do sends body as JSON, if set, and decodes the response into out, if set.
// The raw response body is returned as well.
func (c *apiClient) do(ctx context.Context, method, path string, body, out any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var errResp dto.ErrorResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
			apiErr.Message, apiErr.Details = errResp.Error, errResp.Message
		}
		return raw, apiErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return raw, fmt.Errorf("decode response: %w", err)
		}
	}
	return raw, nil
}
