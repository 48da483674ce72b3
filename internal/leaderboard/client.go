package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Client talks to a remote leaderboard Handler.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

// NewClient creates a client for the API rooted at baseURL (e.g. "http://host:8080").
func NewClient(baseURL string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// Submit posts a score. Validation failures and transport errors are returned.
func (c *Client) Submit(ctx context.Context, name string, score int) (Result, error) {
	body, err := json.Marshal(map[string]any{"name": name, "score": score})
	if err != nil {
		return Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathSubmitScore, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("submit score: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&e)
		switch e.Error {
		case "Name is required":
			return Result{}, ErrNameRequired
		case "Valid score is required":
			return Result{}, ErrInvalidScore
		}
		return Result{}, fmt.Errorf("submit score: status %d", resp.StatusCode)
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Result{}, fmt.Errorf("submit score: decode: %w", err)
	}
	return res, nil
}

// Top fetches the leaderboard. Any failure yields an empty list.
func (c *Client) Top(ctx context.Context, n int) []Entry {
	entries, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("Failed to fetch scores", "error", err)
		return []Entry{}
	}
	return top(entries, n)
}

func (c *Client) fetch(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+PathGetScores, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

var (
	_ Submitter = (*Client)(nil)
	_ Submitter = (*Service)(nil)
)
