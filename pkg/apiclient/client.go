// Package apiclient provides a REST API client for the chisubmit CLI.
package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uchicago-cs/chisubmit-sub001/pkg/auth"
)

// Client is the chisubmit API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	basicUser  string
	basicPass  string
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithAPIKey returns a new client authenticating with the given API key.
func (c *Client) WithAPIKey(apiKey string) *Client {
	return &Client{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		apiKey:     apiKey,
	}
}

// WithBasicAuth returns a new client authenticating with HTTP Basic
// credentials. Used only to obtain an API key; all other calls should
// use WithAPIKey.
func (c *Client) WithBasicAuth(username, password string) *Client {
	return &Client{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		basicUser:  username,
		basicPass:  password,
	}
}

// do performs an HTTP request and decodes the response.
//
// The API key travels in the dedicated header, never in the URL, so it
// cannot leak through proxies or server access logs.
func (c *Client) do(method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	switch {
	case c.basicUser != "":
		req.SetBasicAuth(c.basicUser, c.basicPass)
	case c.apiKey != "":
		req.Header.Set(auth.APIKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr APIError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Title != "" {
			apiErr.StatusCode = resp.StatusCode
			return &apiErr
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Title:      http.StatusText(resp.StatusCode),
			Detail:     string(respBody),
		}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// get performs a GET request.
func (c *Client) get(path string, result any) error {
	return c.do(http.MethodGet, path, nil, result)
}

// post performs a POST request.
func (c *Client) post(path string, body, result any) error {
	return c.do(http.MethodPost, path, body, result)
}

// put performs a PUT request.
func (c *Client) put(path string, body, result any) error {
	return c.do(http.MethodPut, path, body, result)
}

// delete performs a DELETE request.
func (c *Client) delete(path string) error {
	return c.do(http.MethodDelete, path, nil, nil)
}
