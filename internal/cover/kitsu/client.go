// Package kitsu looks up series cover art through the Kitsu JSON API.
package kitsu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type mangaResponse struct {
	Data []struct {
		Attributes struct {
			CoverImage struct {
				Original string `json:"original"`
				Large    string `json:"large"`
				Small    string `json:"small"`
				Tiny     string `json:"tiny"`
			} `json:"coverImage"`
		} `json:"attributes"`
	} `json:"data"`
}

// Client provides access to the Kitsu API for cover lookups.
type Client struct {
	baseURL    string
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

// New creates a Kitsu client. baseURL may be empty for the public API.
func New(baseURL, userAgent string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://kitsu.io/api/edge"
	}
	client := &Client{
		baseURL:    baseURL,
		userAgent:  strings.TrimSpace(userAgent),
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Name implements the cover provider contract.
func (c *Client) Name() string { return "kitsu" }

// LookupCoverURL returns the largest cover image Kitsu carries for the first
// text-search hit. Results without any cover image are skipped.
func (c *Client) LookupCoverURL(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errors.New("title must not be empty")
	}

	params := url.Values{}
	params.Set("filter[text]", title)
	params.Set("page[limit]", "5")

	endpoint := c.baseURL + "/manga?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.api+json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("kitsu returned %d", resp.StatusCode)
	}

	var payload mangaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode kitsu response: %w", err)
	}

	for _, entry := range payload.Data {
		img := entry.Attributes.CoverImage
		for _, candidate := range []string{img.Original, img.Large, img.Small, img.Tiny} {
			if candidate != "" {
				return candidate, nil
			}
		}
	}
	return "", nil
}
