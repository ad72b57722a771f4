package store

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pack-mod-manager/config"
)

const defaultTimeout = 15 * time.Second

// Client talks to the marketplace metadata service.
type Client struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	HTTPClient *http.Client
}

// Metadata is one marketplace record for a published mod.
type Metadata struct {
	RemoteID    string `json:"remote_id"`
	Title       string `json:"title"`
	Owner       string `json:"owner"`
	OwnerName   string `json:"owner_name"`
	FileName    string `json:"file_name"`
	FileSize    uint64 `json:"file_size"`
	Description string `json:"description"`
	TimeCreated int64  `json:"time_created"`
	TimeUpdated int64  `json:"time_updated"`
}

// NewClient creates a new metadata client using the provided configuration.
func NewClient(cfg config.Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("USERAGENT is not configured")
	}

	return &Client{
		BaseURL:   cfg.StoreAPIURL,
		APIKey:    cfg.StoreAPIKey,
		UserAgent: cfg.UserAgent,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}, nil
}

func (c *Client) makeRequest(method, path string, queryParams url.Values, target interface{}) error {
	req, err := http.NewRequest(method, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if queryParams != nil {
		req.URL.RawQuery = queryParams.Encode()
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api request failed: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode json response: %w", err)
		}
	}

	return nil
}

// FetchMetadata retrieves the metadata records for a batch of platform ids.
func (c *Client) FetchMetadata(ids []string) ([]Metadata, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Add("ids", strings.Join(ids, ","))

	var items []Metadata
	if err := c.makeRequest("GET", "/items", params, &items); err != nil {
		return nil, fmt.Errorf("failed to fetch metadata for %d items: %w", len(ids), err)
	}
	return items, nil
}
