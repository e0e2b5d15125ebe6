package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"roster-bot/model"

	"golang.org/x/time/rate"
)

// APIError is a non-2xx answer of the listing API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// GameInput is a manually added game.
type GameInput struct {
	Title       string  `json:"title"`
	ImageURL    string  `json:"image_url"`
	GameURL     string  `json:"game_url"`
	Description string  `json:"description"`
	Platform    string  `json:"platform"`
	Genre       string  `json:"genre"`
	GameType    string  `json:"game_type"`
	FreeUntil   *string `json:"free_until"`
}

// Client talks to the listing API. Requests are rate limited and carry the
// API key in the X-API-Key header.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

func NewClient(baseURL, apiKey string, httpClient *http.Client, perSecond float64) *Client {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
	}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: env.Error}
	}
	if decodeErr != nil {
		return fmt.Errorf("decoding response of %s %s: %w", method, path, decodeErr)
	}
	if env.Error != "" {
		return &APIError{Status: resp.StatusCode, Message: env.Error}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding data of %s %s: %w", method, path, err)
	}
	return nil
}

// CheckExists reports whether a game with this title is already listed.
func (c *Client) CheckExists(ctx context.Context, title string) (bool, error) {
	var data struct {
		Exists bool `json:"exists"`
	}
	err := c.do(ctx, http.MethodGet, "/games/check-exists", url.Values{"title": {title}}, nil, &data)
	return data.Exists, err
}

type created struct {
	ID any `json:"id"`
}

func (c created) id() string {
	if c.ID == nil {
		return "N/A"
	}
	return fmt.Sprint(c.ID)
}

// AutoAdd inserts a parsed listing and returns the new game id.
func (c *Client) AutoAdd(ctx context.Context, l model.Listing) (string, error) {
	var data created
	if err := c.do(ctx, http.MethodPost, "/games/auto-add", nil, l, &data); err != nil {
		return "", err
	}
	return data.id(), nil
}

func (c *Client) AddGame(ctx context.Context, in GameInput) (string, error) {
	var data created
	if err := c.do(ctx, http.MethodPost, "/games", nil, in, &data); err != nil {
		return "", err
	}
	return data.id(), nil
}

func (c *Client) DeleteGame(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/games/"+strconv.Itoa(id), nil, nil, nil)
}

func (c *Client) ListGames(ctx context.Context, limit int) ([]model.GameSummary, error) {
	var games []model.GameSummary
	err := c.do(ctx, http.MethodGet, "/games", url.Values{"limit": {strconv.Itoa(limit)}}, nil, &games)
	return games, err
}

func (c *Client) Rate(ctx context.Context, r model.Rating) error {
	return c.do(ctx, http.MethodPost, "/ratings", nil, r, nil)
}

func (c *Client) Stats(ctx context.Context) (model.PlatformStats, error) {
	var stats model.PlatformStats
	err := c.do(ctx, http.MethodGet, "/stats", nil, nil, &stats)
	return stats, err
}
