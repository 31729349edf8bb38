package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
)

// Client plays one session at a time through the REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

// NewClient returns a client for the server at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// do sends body as JSON and decodes the reply into result. Non-2xx replies
// become errors carrying the server's message.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, errResp.Error)
		}
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, strings.TrimSpace(string(raw)))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("parse %s response: %w", path, err)
		}
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

// CreateSession deals a new game and makes it the client's current session
func (c *Client) CreateSession(ctx context.Context, configID, draw string) (*service.SessionInfo, error) {
	req := map[string]string{}
	if configID != "" {
		req["config_id"] = configID
	}
	if draw != "" {
		req["draw"] = draw
	}

	var info service.SessionInfo
	if err := c.do(ctx, "POST", "/api/sessions", req, &info); err != nil {
		return nil, err
	}
	c.sessionID = info.ID
	return &info, nil
}

// Resume makes an existing session current
func (c *Client) Resume(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	c.sessionID = sessionID
	var info service.SessionInfo
	if err := c.do(ctx, "GET", c.sessionPath(""), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Hint returns the legal moves for the current session
func (c *Client) Hint(ctx context.Context) ([]engine.Move, error) {
	var resp struct {
		Moves []engine.Move `json:"moves"`
	}
	if err := c.do(ctx, "GET", c.sessionPath("/hint"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Moves, nil
}

// Move plays one move in the current session
func (c *Client) Move(ctx context.Context, move engine.Move) (*service.MoveResult, error) {
	var result service.MoveResult
	if err := c.do(ctx, "PUT", c.sessionPath("/move"), move, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Quit ends the current session
func (c *Client) Quit(ctx context.Context) error {
	return c.do(ctx, "PUT", c.sessionPath("/quit"), nil, nil)
}
