// Package api is the HTTP client for the generation backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"
)

// DefaultTimeout bounds one backend call. Generation waits on slow
// external model calls, so it is generous.
const DefaultTimeout = 150 * time.Second

type Client struct {
	httpClient *http.Client
	serverURL  string
	token      string
}

func NewClient(serverURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		serverURL:  serverURL,
		token:      token,
	}
}

// SetToken replaces the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			if resp.StatusCode >= 400 {
				return fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
			}
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// Login authenticates and returns the backend's verdict. Error status
// codes with a parseable body are returned as a LoginResponse with
// OK=false so callers see the backend's message.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	payload := map[string]string{
		"username": username,
		"password": password,
	}
	var resp LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout ends the server-side session. Best effort.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", map[string]string{}, nil)
}

// Usage fetches the generation usage for a username.
func (c *Client) Usage(ctx context.Context, username string) (*UsageResponse, error) {
	var resp UsageResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/usage/"+username, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateInput is one generation submission. Text and the file are
// both optional on the wire; validation that at least one is present
// belongs to the workflow controller.
type GenerateInput struct {
	Text     string
	FileName string
	File     io.Reader
	Settings map[string]string
	Username string
}

// Generate issues the single multipart request behind a submission.
// Backend-reported failures (ok=false) come back as a normal response,
// not an error: the caller ranks error sources itself.
func (c *Client) Generate(ctx context.Context, input GenerateInput) (*GenerateResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if input.File != nil {
		part, err := writer.CreateFormFile("file", filepath.Base(input.FileName))
		if err != nil {
			return nil, fmt.Errorf("creating form file: %w", err)
		}
		if _, err := io.Copy(part, input.File); err != nil {
			return nil, fmt.Errorf("copying file: %w", err)
		}
	}
	if input.Text != "" {
		writer.WriteField("prompt", input.Text)
	}
	if input.Settings != nil {
		settings, err := json.Marshal(input.Settings)
		if err != nil {
			return nil, fmt.Errorf("marshaling settings: %w", err)
		}
		writer.WriteField("settings", string(settings))
	}
	if input.Username != "" {
		writer.WriteField("username", input.Username)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/api/generate", &buf)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var genResp GenerateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}
	return &genResp, nil
}
