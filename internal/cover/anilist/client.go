// Package anilist looks up series cover art through the AniList GraphQL API.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const mediaQuery = `query ($search: String) {
  Media(search: $search, type: MANGA) {
    id
    coverImage { extraLarge large }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type mediaResponse struct {
	Data struct {
		Media *struct {
			CoverImage struct {
				ExtraLarge string `json:"extraLarge"`
				Large      string `json:"large"`
			} `json:"coverImage"`
		} `json:"Media"`
	} `json:"data"`
}

// Client provides access to the AniList API for cover lookups.
type Client struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates an AniList client. endpoint may be empty for the public API.
func New(endpoint, userAgent string, opts ...Option) *Client {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = "https://graphql.anilist.co"
	}
	client := &Client{
		endpoint:   endpoint,
		userAgent:  strings.TrimSpace(userAgent),
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Name implements the cover provider contract.
func (c *Client) Name() string { return "anilist" }

// LookupCoverURL resolves the best cover image URL for the title. AniList
// has no per-volume covers; the series image stands in for volume 1.
func (c *Client) LookupCoverURL(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errors.New("title must not be empty")
	}

	body, err := json.Marshal(graphQLRequest{
		Query:     mediaQuery,
		Variables: map[string]any{"search": title},
	})
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anilist returned %d", resp.StatusCode)
	}

	var payload mediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode anilist response: %w", err)
	}
	media := payload.Data.Media
	if media == nil {
		return "", nil
	}
	if media.CoverImage.ExtraLarge != "" {
		return media.CoverImage.ExtraLarge, nil
	}
	return media.CoverImage.Large, nil
}
