// Package musicbrainz implements the external metadata lookup against the
// MusicBrainz release search and the Cover Art Archive. Callers treat every
// failure as "no result"; nothing here is ever surfaced to API clients.
package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://musicbrainz.org/ws/2"
	defaultCoverArtURL = "https://coverartarchive.org"
	defaultUserAgent   = "tonearm/1.0"
)

// Release is one keyword-search candidate.
type Release struct {
	MBID       string
	Title      string
	ArtistName string
}

// Config configures the lookup client.
type Config struct {
	BaseURL     string
	CoverArtURL string
	UserAgent   string
	HTTPClient  *http.Client
}

// Client talks to MusicBrainz and the Cover Art Archive.
type Client struct {
	baseURL     string
	coverArtURL string
	userAgent   string
	httpClient  *http.Client
}

// New creates a lookup client.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	coverArtURL := strings.TrimRight(strings.TrimSpace(cfg.CoverArtURL), "/")
	if coverArtURL == "" {
		coverArtURL = defaultCoverArtURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:     baseURL,
		coverArtURL: coverArtURL,
		userAgent:   userAgent,
		httpClient:  httpClient,
	}
}

type releaseSearchResponse struct {
	Releases []struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		ArtistCredit []struct {
			Name string `json:"name"`
		} `json:"artist-credit"`
	} `json:"releases"`
}

// SearchReleases returns up to limit releases matching the free-text keyword.
func (c *Client) SearchReleases(ctx context.Context, keyword string, limit int) ([]Release, error) {
	if limit <= 0 {
		limit = 10
	}
	out := releaseSearchResponse{}
	if err := c.searchReleases(ctx, keyword, limit, &out); err != nil {
		return nil, err
	}
	releases := make([]Release, 0, len(out.Releases))
	for _, r := range out.Releases {
		if r.Title == "" || len(r.ArtistCredit) == 0 || r.ArtistCredit[0].Name == "" {
			continue
		}
		releases = append(releases, Release{
			MBID:       r.ID,
			Title:      r.Title,
			ArtistName: r.ArtistCredit[0].Name,
		})
	}
	return releases, nil
}

// CoverArt resolves a front cover URL for the album, or "" when none is
// known. The lookup is two-step: release search for the MBID, then the
// Cover Art Archive for its images.
func (c *Client) CoverArt(ctx context.Context, albumName, artistName string) (string, error) {
	query := fmt.Sprintf("release:%s AND artist:%s", albumName, artistName)
	out := releaseSearchResponse{}
	if err := c.searchReleases(ctx, query, 1, &out); err != nil {
		return "", err
	}
	if len(out.Releases) == 0 {
		return "", nil
	}
	mbid := out.Releases[0].ID
	if mbid == "" {
		return "", nil
	}

	coverURL := fmt.Sprintf("%s/release/%s", c.coverArtURL, url.PathEscape(mbid))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, coverURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch cover art: status %d", resp.StatusCode)
	}

	var payload struct {
		Images []struct {
			Image string `json:"image"`
		} `json:"images"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if len(payload.Images) == 0 {
		return "", nil
	}
	return payload.Images[0].Image, nil
}

func (c *Client) searchReleases(ctx context.Context, query string, limit int, out *releaseSearchResponse) error {
	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", fmt.Sprintf("%d", limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/release/?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("search releases: status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
