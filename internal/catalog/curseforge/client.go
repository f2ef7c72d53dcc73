package curseforge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lodestone/internal/catalog"
)

const (
	// gameID is CurseForge's identifier for Minecraft.
	gameID     = 432
	pageSize   = 20
	sortField  = 2 // popularity
	sortOrder  = "desc"
	apiKeyName = "x-api-key"
)

// classIDs maps content types to CurseForge class identifiers. Shaders
// live under their own class rather than the generic mod class.
var classIDs = map[catalog.ContentType]int{
	catalog.ContentTypeMod:          6,
	catalog.ContentTypeResourcePack: 12,
	catalog.ContentTypeShader:       6552,
	catalog.ContentTypeModpack:      4471,
}

// Client provides read access to the CurseForge search API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ catalog.Searcher = (*Client)(nil)

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

// New creates a CurseForge client. The API key is required because the
// search endpoint rejects unauthenticated requests.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("curseforge base url required")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("curseforge api key required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Platform identifies this client's catalog.
func (c *Client) Platform() catalog.Platform {
	return catalog.PlatformCurseForge
}

type searchMod struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	DownloadCount int64  `json:"downloadCount"`
	Links         struct {
		WebsiteURL string `json:"websiteUrl"`
	} `json:"links"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Logo struct {
		ThumbnailURL string `json:"thumbnailUrl"`
	} `json:"logo"`
}

type searchResponse struct {
	Data []searchMod `json:"data"`
}

// Search queries CurseForge for projects of the given content type.
func (c *Client) Search(ctx context.Context, query string, contentType catalog.ContentType) ([]catalog.Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	classID, ok := classIDs[contentType]
	if !ok {
		classID = classIDs[catalog.ContentTypeMod]
	}
	endpoint, err := url.Parse(c.baseURL + "/mods/search")
	if err != nil {
		return nil, fmt.Errorf("parse curseforge url: %w", err)
	}
	params := url.Values{}
	params.Set("gameId", strconv.Itoa(gameID))
	params.Set("searchFilter", query)
	params.Set("classId", strconv.Itoa(classID))
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("sortField", strconv.Itoa(sortField))
	params.Set("sortOrder", sortOrder)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(apiKeyName, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("curseforge returned %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode curseforge response: %w", err)
	}

	hits := make([]catalog.Hit, 0, len(payload.Data))
	for _, mod := range payload.Data {
		if mod.ID == 0 {
			continue
		}
		slug := strings.TrimSpace(mod.Slug)
		if slug == "" {
			slug = slugFromWebsiteURL(mod.Links.WebsiteURL)
		}
		author := "Unknown"
		if len(mod.Authors) > 0 && strings.TrimSpace(mod.Authors[0].Name) != "" {
			author = strings.TrimSpace(mod.Authors[0].Name)
		}
		hits = append(hits, catalog.Hit{
			ID:          strconv.FormatInt(mod.ID, 10),
			Slug:        slug,
			Title:       strings.TrimSpace(mod.Name),
			Author:      author,
			IconURL:     strings.TrimSpace(mod.Logo.ThumbnailURL),
			Source:      catalog.PlatformCurseForge,
			ProjectType: contentType,
			Downloads:   mod.DownloadCount,
		})
	}
	return hits, nil
}

// slugFromWebsiteURL recovers a project slug from the public project
// page URL when the API omits the slug field.
func slugFromWebsiteURL(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return ""
	}
	idx := strings.LastIndex(raw, "/")
	if idx < 0 || idx == len(raw)-1 {
		return ""
	}
	return raw[idx+1:]
}
