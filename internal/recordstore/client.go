package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cragmatch/cragmatch/internal/climber"
)

// Client talks to the record store's JSON API. All state of record lives
// behind this client; the rest of the core only keeps session caches.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the record store at baseURL (no trailing slash).
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// BaseURL returns the configured endpoint, used for building file URLs.
func (c *Client) BaseURL() string { return c.baseURL }

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("record store: unexpected status %d: %s", e.Code, e.Body)
}

// listEnvelope is the paginated shape the store wraps record lists in.
// The roster is assumed to fit a single page.
type listEnvelope struct {
	Page       int               `json:"page"`
	PerPage    int               `json:"perPage"`
	TotalItems int               `json:"totalItems"`
	Items      []climber.Climber `json:"items"`
}

// List fetches the full user roster.
func (c *Client) List(ctx context.Context, token string) ([]climber.Climber, error) {
	var env listEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/collections/users/records", token, nil, &env); err != nil {
		return nil, err
	}
	return env.Items, nil
}

// Get fetches a single user record by id.
func (c *Client) Get(ctx context.Context, token, id string) (*climber.Climber, error) {
	var rec climber.Climber
	path := "/api/collections/users/records/" + id
	if err := c.do(ctx, http.MethodGet, path, token, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// LikesPatch carries the like-set fields of a PATCH. A nil slice leaves
// that set untouched on the server.
type LikesPatch struct {
	Dating  []string
	Partner []string
}

// PatchLikes overwrites the caller's like sets on their own record. The
// write is unconditional; concurrent sessions race last-writer-wins.
func (c *Client) PatchLikes(ctx context.Context, token, id string, patch LikesPatch) error {
	body := map[string]any{}
	if patch.Dating != nil {
		body["liked_dating"] = patch.Dating
	}
	if patch.Partner != nil {
		body["liked_partner"] = patch.Partner
	}
	path := "/api/collections/users/records/" + id
	return c.do(ctx, http.MethodPatch, path, token, body, nil)
}

// authResponse is the shape of a successful password auth.
type authResponse struct {
	Token  string          `json:"token"`
	Record climber.Climber `json:"record"`
}

// AuthWithPassword exchanges credentials for a bearer token and the
// caller's own record.
func (c *Client) AuthWithPassword(ctx context.Context, identity, password string) (string, *climber.Climber, error) {
	body := map[string]any{"identity": identity, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/collections/users/auth-with-password", "", body, &resp); err != nil {
		return "", nil, err
	}
	return resp.Token, &resp.Record, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("record store: encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("record store: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("record store: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("record store: decode response: %w", err)
	}
	return nil
}
