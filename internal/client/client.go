// Package client talks to the lucky21 API. A Client keeps its session cookie,
// so one Client plays one game at a time.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/jason-s-yu/lucky21/internal/handlers"
	"github.com/jason-s-yu/lucky21/internal/models"
)

// APIError is returned for any non-2xx answer.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lucky21 api: %d %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the API at baseURL, e.g. "http://localhost:3000".
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Status returns the API's liveness message.
func (c *Client) Status(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/status")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read status: %w", err)
	}
	return string(body), nil
}

func (c *Client) Start(ctx context.Context) (handlers.StateResponse, error) {
	return c.state(ctx, http.MethodPost, "/start")
}

func (c *Client) State(ctx context.Context) (handlers.StateResponse, error) {
	return c.state(ctx, http.MethodGet, "/state")
}

func (c *Client) Guess21OrUnder(ctx context.Context) (handlers.StateResponse, error) {
	return c.state(ctx, http.MethodPost, "/guess21OrUnder")
}

func (c *Client) GuessOver21(ctx context.Context) (handlers.StateResponse, error) {
	return c.state(ctx, http.MethodPost, "/guessOver21")
}

func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	resp, err := c.do(ctx, http.MethodGet, "/stats")
	if err != nil {
		return stats, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return stats, fmt.Errorf("failed to decode stats: %w", err)
	}
	return stats, nil
}

func (c *Client) state(ctx context.Context, method, path string) (handlers.StateResponse, error) {
	var st handlers.StateResponse
	resp, err := c.do(ctx, method, path)
	if err != nil {
		return st, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("failed to decode state: %w", err)
	}
	return st, nil
}

// do sends the request and turns non-2xx answers into an *APIError.
func (c *Client) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	return resp, nil
}
