package mangadex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"tanko/internal/textutil"
)

// Manga is one search result from the MangaDex manga endpoint.
type Manga struct {
	ID         string          `json:"id"`
	Attributes MangaAttributes `json:"attributes"`
}

// MangaAttributes carries the title fields used for match scoring.
type MangaAttributes struct {
	Title     map[string]string   `json:"title"`
	AltTitles []map[string]string `json:"altTitles"`
}

type mangaResponse struct {
	Data []Manga `json:"data"`
}

// CoverEntry is one cover-art record attached to a manga.
type CoverEntry struct {
	ID         string          `json:"id"`
	Attributes CoverAttributes `json:"attributes"`
}

// CoverAttributes identifies the volume a cover belongs to and its file name.
type CoverAttributes struct {
	Volume   string `json:"volume"`
	FileName string `json:"fileName"`
}

type coverResponse struct {
	Data []CoverEntry `json:"data"`
}

// Client provides access to the MangaDex API for volume-1 cover lookups.
type Client struct {
	baseURL    string
	uploadsURL string
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

// WithUploadsURL overrides the cover file host (used in tests).
func WithUploadsURL(uploadsURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(uploadsURL), "/"); trimmed != "" {
			c.uploadsURL = trimmed
		}
	}
}

// New creates a MangaDex client. baseURL may be empty for the public API.
func New(baseURL, userAgent string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.mangadex.org"
	}
	client := &Client{
		baseURL:    baseURL,
		uploadsURL: "https://uploads.mangadex.org",
		userAgent:  strings.TrimSpace(userAgent),
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Name implements the cover provider contract.
func (c *Client) Name() string { return "mangadex" }

// LookupCoverURL finds the best-matching manga for title and returns the URL
// of its explicit volume-1 cover. An empty URL with nil error means no match.
func (c *Client) LookupCoverURL(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errors.New("title must not be empty")
	}

	manga, err := c.searchManga(ctx, title)
	if err != nil {
		return "", err
	}
	if manga == nil {
		return "", nil
	}

	fileName, err := c.volumeOneCover(ctx, manga.ID)
	if err != nil {
		return "", err
	}
	if fileName == "" {
		// No explicit volume-1 cover entry; let the next provider try.
		return "", nil
	}

	return fmt.Sprintf("%s/covers/%s/%s", c.uploadsURL, manga.ID, fileName), nil
}

func (c *Client) searchManga(ctx context.Context, title string) (*Manga, error) {
	params := url.Values{}
	params.Set("title", title)
	params.Set("limit", "5")

	var payload mangaResponse
	if err := c.getJSON(ctx, "/manga", params, &payload); err != nil {
		return nil, err
	}
	if len(payload.Data) == 0 {
		return nil, nil
	}

	ranked := append([]Manga(nil), payload.Data...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scoreMatch(title, ranked[i]) > scoreMatch(title, ranked[j])
	})
	return &ranked[0], nil
}

func (c *Client) volumeOneCover(ctx context.Context, mangaID string) (string, error) {
	params := url.Values{}
	params.Set("manga[]", mangaID)
	params.Set("limit", "100")
	params.Set("order[createdAt]", "asc")

	var payload coverResponse
	if err := c.getJSON(ctx, "/cover", params, &payload); err != nil {
		return "", err
	}
	for _, entry := range payload.Data {
		if parseVolumeNumber(entry.Attributes.Volume) == 1 && entry.Attributes.FileName != "" {
			return entry.Attributes.FileName, nil
		}
	}
	return "", nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse mangadex url: %w", err)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mangadex %s returned %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode mangadex response: %w", err)
	}
	return nil
}

// scoreMatch ranks a search result against the query title. Normalized exact
// matches beat raw exact matches beat substring hits, with the main title
// always outranking alternates at the same tier.
func scoreMatch(query string, manga Manga) int {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	queryNorm := textutil.NormalizeTitle(queryLower)

	main := strings.ToLower(strings.TrimSpace(bestTitle(manga.Attributes.Title)))
	mainNorm := textutil.NormalizeTitle(main)

	var alts, altNorms []string
	for _, alt := range manga.Attributes.AltTitles {
		for _, value := range alt {
			lowered := strings.ToLower(strings.TrimSpace(value))
			alts = append(alts, lowered)
			altNorms = append(altNorms, textutil.NormalizeTitle(lowered))
		}
	}

	switch {
	case mainNorm == queryNorm:
		return 6
	case containsString(altNorms, queryNorm):
		return 5
	case main == queryLower:
		return 4
	case containsString(alts, queryLower):
		return 3
	case strings.Contains(main, queryLower):
		return 2
	default:
		return 1
	}
}

func bestTitle(titles map[string]string) string {
	if len(titles) == 0 {
		return ""
	}
	if en, ok := titles["en"]; ok && en != "" {
		return en
	}
	// Deterministic fallback: lowest language key.
	keys := make([]string, 0, len(titles))
	for key := range titles {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return titles[keys[0]]
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

var volumePattern = regexp.MustCompile(`^\s*0*(\d+)(?:\.0+)?\s*$`)

// parseVolumeNumber interprets MangaDex volume labels like "1", "01", or
// "1.0". Anything else (ranges, letters, empty) yields 0.
func parseVolumeNumber(volume string) int {
	match := volumePattern.FindStringSubmatch(volume)
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return n
}
