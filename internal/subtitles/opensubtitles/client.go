package opensubtitles

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"subfetch/internal/moviehash"
	"subfetch/internal/subtitles"
)

const (
	defaultBaseURL     = "https://api.opensubtitles.com/api/v1"
	defaultUserAgent   = "subfetch/dev"
	defaultHTTPTimeout = 45 * time.Second
)

// Config describes the OpenSubtitles client configuration.
type Config struct {
	APIKey     string
	UserAgent  string
	UserToken  string
	BaseURL    string
	HTTPClient *http.Client
}

// Client wraps the OpenSubtitles REST API.
type Client struct {
	apiKey    string
	userAgent string
	userToken string
	baseURL   *url.URL
	http      *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("opensubtitles: api key is required")
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("opensubtitles: parse base url: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		apiKey:    apiKey,
		userAgent: userAgent,
		userToken: strings.TrimSpace(cfg.UserToken),
		baseURL:   baseURL,
		http:      client,
	}, nil
}

// DownloadResult captures the downloaded subtitle payload.
type DownloadResult struct {
	Data        []byte
	FileName    string
	Language    string
	DownloadURL string
}

// Search queries the API for subtitles matching the file fingerprint.
// Zero results is not an error; the caller receives an empty slice.
func (c *Client) Search(ctx context.Context, fp moviehash.Fingerprint, languages []string) ([]subtitles.Candidate, error) {
	if c == nil {
		return nil, errors.New("opensubtitles: client is nil")
	}
	endpoint := c.baseURL.JoinPath("subtitles")
	params := url.Values{}
	params.Set("moviehash", fp.Hex())
	if len(languages) > 0 {
		params.Set("languages", strings.Join(languages, ","))
	}
	params.Set("order_by", "ratings")
	params.Set("order_direction", "desc")
	endpoint.RawQuery = params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("opensubtitles: build search request: %w", err)
	}
	c.applyHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("opensubtitles: search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("opensubtitles: search failed (%s): %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("opensubtitles: decode search response: %w", err)
	}

	candidates := make([]subtitles.Candidate, 0, len(payload.Data))
	for _, entry := range payload.Data {
		if entry.Attributes.Language == "" {
			continue
		}
		file := entry.Attributes.primaryFile()
		if file.FileID == 0 {
			continue
		}
		fileName := file.FileName
		if fileName == "" {
			fileName = entry.Attributes.Release
		}
		candidates = append(candidates, subtitles.Candidate{
			ID:        entry.ID,
			FileID:    file.FileID,
			Language:  entry.Attributes.Language,
			Score:     entry.Attributes.Ratings,
			FileName:  fileName,
			Release:   entry.Attributes.Release,
			Downloads: entry.Attributes.DownloadCount,
		})
	}
	return candidates, nil
}

// DownloadOptions controls subtitle downloads.
type DownloadOptions struct {
	Format string
}

// Download retrieves the subtitle contents for the specified file id.
// The API negotiates a short-lived link first; the payload is fetched
// from that link in a second request.
func (c *Client) Download(ctx context.Context, fileID int64, opts DownloadOptions) (DownloadResult, error) {
	if c == nil {
		return DownloadResult{}, errors.New("opensubtitles: client is nil")
	}
	if fileID <= 0 {
		return DownloadResult{}, errors.New("opensubtitles: invalid file id")
	}
	format := strings.TrimSpace(opts.Format)
	if format == "" {
		format = "srt"
	}
	payload, err := json.Marshal(map[string]any{
		"file_id":    fileID,
		"sub_format": format,
	})
	if err != nil {
		return DownloadResult{}, fmt.Errorf("opensubtitles: encode download request: %w", err)
	}

	endpoint := c.baseURL.JoinPath("download")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return DownloadResult{}, fmt.Errorf("opensubtitles: build download request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.applyHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return DownloadResult{}, fmt.Errorf("opensubtitles: download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return DownloadResult{}, fmt.Errorf("opensubtitles: download negotiation failed (%s): %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var info downloadResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return DownloadResult{}, fmt.Errorf("opensubtitles: decode download response: %w", err)
	}
	if info.Link == "" {
		return DownloadResult{}, errors.New("opensubtitles: download response missing link")
	}

	downloadURL, err := endpoint.Parse(info.Link)
	if err != nil {
		downloadURL, err = url.Parse(info.Link)
		if err != nil {
			return DownloadResult{}, fmt.Errorf("opensubtitles: parse download url: %w", err)
		}
	}

	dataReq, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL.String(), nil)
	if err != nil {
		return DownloadResult{}, fmt.Errorf("opensubtitles: build link request: %w", err)
	}
	dataReq.Header.Set("User-Agent", c.userAgent)
	dataResp, err := c.http.Do(dataReq)
	if err != nil {
		return DownloadResult{}, fmt.Errorf("opensubtitles: fetch subtitle payload: %w", err)
	}
	defer dataResp.Body.Close()

	if dataResp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(dataResp.Body, 4096))
		return DownloadResult{}, fmt.Errorf("opensubtitles: subtitle download failed (%s): %s", dataResp.Status, strings.TrimSpace(string(body)))
	}
	data, err := io.ReadAll(dataResp.Body)
	if err != nil {
		return DownloadResult{}, fmt.Errorf("opensubtitles: read subtitle data: %w", err)
	}

	return DownloadResult{
		Data:        data,
		FileName:    info.FileName,
		Language:    info.Language,
		DownloadURL: downloadURL.String(),
	}, nil
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.userToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.userToken)
	}
}

type searchResponse struct {
	Data []struct {
		ID         string           `json:"id"`
		Attributes searchAttributes `json:"attributes"`
	} `json:"data"`
	Meta struct {
		Total int `json:"total_count"`
	} `json:"meta"`
}

type searchAttributes struct {
	Language      string       `json:"language"`
	Release       string       `json:"release"`
	Ratings       float64      `json:"ratings"`
	DownloadCount int          `json:"download_count"`
	Files         []searchFile `json:"files"`
}

func (a searchAttributes) primaryFile() searchFile {
	if len(a.Files) == 0 {
		return searchFile{}
	}
	return a.Files[0]
}

type searchFile struct {
	FileID   int64  `json:"file_id"`
	FileName string `json:"file_name"`
}

type downloadResponse struct {
	Link     string `json:"link"`
	FileName string `json:"file_name"`
	Language string `json:"language"`
}
