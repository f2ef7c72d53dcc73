package modrinth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lodestone/internal/catalog"
)

const searchLimit = 20

// Client provides access to the Modrinth API for searches and version listings.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

var (
	_ catalog.Searcher      = (*Client)(nil)
	_ catalog.VersionLister = (*Client)(nil)
)

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

// New creates a Modrinth client.
func New(baseURL, userAgent string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("modrinth base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  strings.TrimSpace(userAgent),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Platform identifies this client's catalog.
func (c *Client) Platform() catalog.Platform {
	return catalog.PlatformModrinth
}

type searchHit struct {
	ProjectID     string `json:"project_id"`
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	IconURL       string `json:"icon_url"`
	Downloads     int64  `json:"downloads"`
	LatestVersion string `json:"latest_version"`
	ProjectType   string `json:"project_type"`
}

type searchResponse struct {
	Hits []searchHit `json:"hits"`
}

// Search queries Modrinth for projects of the given content type.
func (c *Client) Search(ctx context.Context, query string, contentType catalog.ContentType) ([]catalog.Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("parse modrinth url: %w", err)
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("facets", fmt.Sprintf(`[["project_type:%s"]]`, contentType))
	params.Set("limit", fmt.Sprintf("%d", searchLimit))
	endpoint.RawQuery = params.Encode()

	var payload searchResponse
	if err := c.getJSON(ctx, endpoint.String(), &payload); err != nil {
		return nil, err
	}

	hits := make([]catalog.Hit, 0, len(payload.Hits))
	for _, hit := range payload.Hits {
		if strings.TrimSpace(hit.ProjectID) == "" {
			continue
		}
		projectType := catalog.NormalizeContentType(hit.ProjectType)
		if strings.TrimSpace(hit.ProjectType) == "" {
			projectType = contentType
		}
		hits = append(hits, catalog.Hit{
			ID:            hit.ProjectID,
			Slug:          strings.TrimSpace(hit.Slug),
			Title:         strings.TrimSpace(hit.Title),
			Author:        defaultString(hit.Author, "Unknown"),
			IconURL:       strings.TrimSpace(hit.IconURL),
			Source:        catalog.PlatformModrinth,
			ProjectType:   projectType,
			LatestVersion: strings.TrimSpace(hit.LatestVersion),
			Downloads:     hit.Downloads,
		})
	}
	return hits, nil
}

type versionPayload struct {
	ID            string        `json:"id"`
	VersionNumber string        `json:"version_number"`
	GameVersions  []string      `json:"game_versions"`
	Loaders       []string      `json:"loaders"`
	DatePublished string        `json:"date_published"`
	Files         []filePayload `json:"files"`
}

type filePayload struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Primary  bool   `json:"primary"`
}

// ListVersions returns a project's versions, newest-first per the API,
// optionally narrowed to game versions and loaders.
func (c *Client) ListVersions(ctx context.Context, projectID string, filters catalog.VersionFilters) ([]catalog.Version, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, errors.New("project id must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/project/" + url.PathEscape(projectID) + "/version")
	if err != nil {
		return nil, fmt.Errorf("parse modrinth url: %w", err)
	}
	params := url.Values{}
	if len(filters.GameVersions) > 0 {
		encoded, err := json.Marshal(filters.GameVersions)
		if err != nil {
			return nil, fmt.Errorf("encode game versions filter: %w", err)
		}
		params.Set("game_versions", string(encoded))
	}
	if len(filters.Loaders) > 0 {
		encoded, err := json.Marshal(filters.Loaders)
		if err != nil {
			return nil, fmt.Errorf("encode loaders filter: %w", err)
		}
		params.Set("loaders", string(encoded))
	}
	endpoint.RawQuery = params.Encode()

	var payload []versionPayload
	if err := c.getJSON(ctx, endpoint.String(), &payload); err != nil {
		return nil, err
	}

	versions := make([]catalog.Version, 0, len(payload))
	for _, version := range payload {
		files := make([]catalog.File, 0, len(version.Files))
		for _, file := range version.Files {
			if strings.TrimSpace(file.URL) == "" || strings.TrimSpace(file.Filename) == "" {
				continue
			}
			files = append(files, catalog.File{
				URL:      file.URL,
				Filename: file.Filename,
				Primary:  file.Primary,
			})
		}
		published, _ := time.Parse(time.RFC3339, version.DatePublished)
		versions = append(versions, catalog.Version{
			ID:            version.ID,
			VersionNumber: version.VersionNumber,
			GameVersions:  version.GameVersions,
			Loaders:       version.Loaders,
			DatePublished: published,
			Files:         files,
		})
	}
	return versions, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("modrinth returned %d (latency=%v)", resp.StatusCode, latency)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode modrinth response: %w", err)
	}
	return nil
}

func defaultString(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
