package strava

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
	"sync"
)

const (
	DefaultBaseURL = "https://www.strava.com/api/v3"

	maxPerPage = 200
)

// ClientConfig wires a Client to one athlete's tokens. OnTokenRefresh, when
// set, runs after a successful automatic refresh so the caller can persist
// the rotated tokens; an error from it fails the originating request.
type ClientConfig struct {
	ClientID       string
	ClientSecret   string
	AccessToken    string
	RefreshToken   string
	BaseURL        string
	TokenURL       string
	HTTPClient     *http.Client
	OnTokenRefresh func(ctx context.Context, token TokenResponse) error
}

// Client talks to the Strava v3 API on behalf of a single athlete. A 401
// triggers one token refresh and retry; the Client is safe for concurrent
// use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	oauth      *OAuth
	onRefresh  func(ctx context.Context, token TokenResponse) error

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		oauth: &OAuth{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			HTTPClient:   httpClient,
		},
		onRefresh:    cfg.OnTokenRefresh,
		accessToken:  cfg.AccessToken,
		refreshToken: cfg.RefreshToken,
	}
}

// Athlete fetches the authenticated athlete.
func (c *Client) Athlete(ctx context.Context) (*Athlete, error) {
	var athlete Athlete
	if err := c.get(ctx, "/athlete", nil, &athlete); err != nil {
		return nil, err
	}
	return &athlete, nil
}

// ActivityListOptions narrow an activity listing. Before and After are epoch
// seconds; zero values are omitted from the request.
type ActivityListOptions struct {
	Before  int64
	After   int64
	Page    int
	PerPage int
}

// Activities lists the athlete's activities, most recent first. PerPage is
// capped at the API maximum of 200; non-positive values take the default.
func (c *Client) Activities(ctx context.Context, opts ActivityListOptions) ([]Activity, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage < 1 {
		perPage = 30
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))
	if opts.Before > 0 {
		query.Set("before", strconv.FormatInt(opts.Before, 10))
	}
	if opts.After > 0 {
		query.Set("after", strconv.FormatInt(opts.After, 10))
	}

	var activities []Activity
	if err := c.get(ctx, "/athlete/activities", query, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// Activity fetches one activity in detail.
func (c *Client) Activity(ctx context.Context, activityID int64) (*Activity, error) {
	var activity Activity
	if err := c.get(ctx, fmt.Sprintf("/activities/%d", activityID), nil, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// ActivityLaps fetches the recorded laps of an activity in lap order.
func (c *Client) ActivityLaps(ctx context.Context, activityID int64) ([]Lap, error) {
	var laps []Lap
	if err := c.get(ctx, fmt.Sprintf("/activities/%d/laps", activityID), nil, &laps); err != nil {
		return nil, err
	}
	return laps, nil
}

// UpdateActivityDescription replaces the activity's description.
func (c *Client) UpdateActivityDescription(ctx context.Context, activityID int64, description string) (*Activity, error) {
	payload, err := json.Marshal(map[string]string{"description": description})
	if err != nil {
		return nil, err
	}
	var activity Activity
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/activities/%d", activityID), nil, payload, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, out any) error {
	resp, err := c.roundTrip(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		if err := c.refresh(ctx); err != nil {
			return err
		}
		resp, err = c.roundTrip(ctx, method, path, query, body)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		retryAfter, _ := strconv.Atoi(resp.Header.Get("X-RateLimit-Time"))
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
			RetryAfter: retryAfter,
		}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// refresh rotates the tokens once and persists them through the callback.
func (c *Client) refresh(ctx context.Context) error {
	c.mu.Lock()
	refreshToken := c.refreshToken
	c.mu.Unlock()
	if refreshToken == "" {
		return ErrUnauthorized
	}

	token, err := c.oauth.Refresh(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("refresh access token: %w", err)
	}

	c.mu.Lock()
	c.accessToken = token.AccessToken
	if token.RefreshToken != "" {
		c.refreshToken = token.RefreshToken
	}
	c.mu.Unlock()

	if c.onRefresh != nil {
		if err := c.onRefresh(ctx, *token); err != nil {
			return fmt.Errorf("persist refreshed token: %w", err)
		}
	}
	return nil
}

func (c *Client) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
