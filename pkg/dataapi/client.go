// Package dataapi talks to the hosted data API, an alternative canonical
// copy to the direct Postgres mirror.
package dataapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/language-enforcer/internal/auth"
	"github.com/yourusername/language-enforcer/internal/models"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchSnapshot downloads the full remote snapshot.
func (c *Client) FetchSnapshot(ctx context.Context, sess *auth.Session) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := c.get(ctx, sess, "/v1/snapshot", &snap); err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	return &snap, nil
}

type correctionBody struct {
	Text        *string `json:"text,omitempty"`
	Translation *string `json:"translation,omitempty"`
}

// UpdateWord pushes a content correction to the data API.
func (c *Client) UpdateWord(ctx context.Context, sess *auth.Session, wordID uuid.UUID, text, translation models.Field) error {
	if !text.Set && !translation.Set {
		return nil
	}

	body := correctionBody{}
	if text.Set {
		body.Text = &text.Value
	}
	if translation.Set {
		body.Translation = &translation.Value
	}

	if err := c.patch(ctx, sess, "/v1/words/"+wordID.String(), body); err != nil {
		return fmt.Errorf("update word (word_id: %s): %w", wordID, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, sess *auth.Session, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request (path: %s): %w", path, err)
	}

	return c.do(req, sess, result)
}

func (c *Client) patch(ctx context.Context, sess *auth.Session, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body (path: %s): %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request (path: %s): %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, sess, nil)
}

func (c *Client) do(req *http.Request, sess *auth.Session, result any) error {
	if sess != nil {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request (url: %s): %w: %w", req.URL, models.ErrTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("request rejected (url: %s): %w", req.URL, models.ErrAuthRequired)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("request rejected (url: %s): %w", req.URL, models.ErrNotFound)
	case resp.StatusCode >= 500:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error (url: %s, status: %d): %w: %s", req.URL, resp.StatusCode, models.ErrTransient, body)
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status (url: %s, status: %d): %s", req.URL, resp.StatusCode, body)
	}

	if result == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response (url: %s): %w", req.URL, err)
	}
	return nil
}
