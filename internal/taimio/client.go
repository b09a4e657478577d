// Package taimio provides a client for the Taimio time tracking API.
package taimio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/bryan-cox/taimio-report/internal/model"
)

// DefaultAPIRoot is the public Taimio API.
const DefaultAPIRoot = "https://api.taim.io"

// DefaultTimeout bounds every request made by the client.
const DefaultTimeout = 30 * time.Second

// TransportError means a request could not be completed or its response body
// could not be read or decoded.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError means the API answered with a non-success status.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: API returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: API returned status %d: %s", e.Op, e.StatusCode, body)
}

// Client talks to the Taimio API.
type Client struct {
	root       string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the base HTTP client. Its transport is wrapped with the
// bearer token when one is given to NewClient.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// NewClient returns a client for apiRoot. An empty token gives an
// unauthenticated client, which is enough for Login.
func NewClient(ctx context.Context, apiRoot, token string, opts ...Option) *Client {
	c := &Client{
		root:       strings.TrimRight(apiRoot, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	if token != "" {
		base := c.httpClient
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
		authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		}))
		authed.Timeout = base.Timeout
		c.httpClient = authed
	}
	return c
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges a username and password for an API token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	const op = "login"

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.root+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", &TransportError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var resp loginResponse
	if err := c.do(req, op, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &TransportError{Op: op, Err: fmt.Errorf("response contained no token")}
	}
	return resp.Token, nil
}

// FetchActivities returns the activities tagged with tag between the range's
// start and end dates, as filtered by the server.
func (c *Client) FetchActivities(ctx context.Context, tag string, r model.DateRange) ([]model.Activity, error) {
	const op = "fetch activities"

	params := url.Values{}
	params.Set("start_date", r.Start.Format(model.DateLayout))
	params.Set("end_date", r.End.Format(model.DateLayout))
	params.Set("tag", tag)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.root+"/activities?"+params.Encode(), nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	var activities []model.Activity
	if err := c.do(req, op, &activities); err != nil {
		return nil, err
	}

	slog.Debug("fetched activities", "count", len(activities), "tag", tag,
		"start_date", params.Get("start_date"), "end_date", params.Get("end_date"))
	return activities, nil
}

func (c *Client) do(req *http.Request, op string, into any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, into); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
