package payload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/accords-library/search-sync/internal/core/domain"
	"github.com/accords-library/search-sync/internal/core/ports/driven"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Ensure Client implements the interface.
var _ driven.ContentBackend = (*Client)(nil)

// Config holds the connection settings of a Client.
type Config struct {
	// BaseURL is the API root, e.g. "https://cms.example.org/api".
	BaseURL string
	// Email and Password are the credentials of the API user.
	Email    string
	Password string
	// Timeout bounds every HTTP request. Default is DefaultTimeout.
	Timeout time.Duration
	// RateLimit throttles requests. The zero value disables throttling.
	RateLimit RateLimitConfig
}

// Client fetches content records from Payload.
type Client struct {
	baseURL     string
	http        *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a Payload client. No request is made until the first
// call, which also performs the login.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: payload base URL is required", domain.ErrInvalidInput)
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("%w: payload base URL: %w", domain.ErrInvalidInput, err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	login := &http.Client{Timeout: cfg.Timeout}
	source := newLoginTokenSource(context.Background(), login, baseURL, cfg.Email, cfg.Password)

	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.ReuseTokenSource(nil, source),
			},
		},
		rateLimiter: NewRateLimiter(cfg.RateLimit),
	}, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// GetAllIDs returns the content inventory.
func (c *Client) GetAllIDs(ctx context.Context) (*domain.ContentIDs, error) {
	var ids domain.ContentIDs
	if _, err := c.get(ctx, "/all-ids", &ids); err != nil {
		return nil, err
	}
	return &ids, nil
}

// GetPage fetches a page by slug.
func (c *Client) GetPage(ctx context.Context, slug string) (*domain.Page, error) {
	var page domain.Page
	raw, err := c.get(ctx, "/pages/slug/"+url.PathEscape(slug), &page)
	if err != nil {
		return nil, err
	}
	page.Raw = raw
	return &page, nil
}

// GetCollectible fetches a collectible by slug.
func (c *Client) GetCollectible(ctx context.Context, slug string) (*domain.Collectible, error) {
	var collectible domain.Collectible
	raw, err := c.get(ctx, "/collectibles/slug/"+url.PathEscape(slug), &collectible)
	if err != nil {
		return nil, err
	}
	collectible.Raw = raw
	return &collectible, nil
}

// GetFolder fetches a folder by slug.
func (c *Client) GetFolder(ctx context.Context, slug string) (*domain.Folder, error) {
	var folder domain.Folder
	raw, err := c.get(ctx, "/folders/slug/"+url.PathEscape(slug), &folder)
	if err != nil {
		return nil, err
	}
	folder.Raw = raw
	return &folder, nil
}

// GetAudio fetches an audio by ID.
func (c *Client) GetAudio(ctx context.Context, id string) (*domain.Media, error) {
	return c.getMedia(ctx, "/audios/id/", id)
}

// GetImage fetches an image by ID.
func (c *Client) GetImage(ctx context.Context, id string) (*domain.Media, error) {
	return c.getMedia(ctx, "/images/id/", id)
}

// GetVideo fetches a video by ID.
func (c *Client) GetVideo(ctx context.Context, id string) (*domain.Media, error) {
	return c.getMedia(ctx, "/videos/id/", id)
}

// GetFile fetches a file by ID.
func (c *Client) GetFile(ctx context.Context, id string) (*domain.Media, error) {
	return c.getMedia(ctx, "/files/id/", id)
}

// GetRecorder fetches a recorder by ID.
func (c *Client) GetRecorder(ctx context.Context, id string) (*domain.Recorder, error) {
	var recorder domain.Recorder
	raw, err := c.get(ctx, "/recorders/id/"+url.PathEscape(id), &recorder)
	if err != nil {
		return nil, err
	}
	recorder.Raw = raw
	return &recorder, nil
}

// GetChronologyEvent fetches a chronology event by ID.
func (c *Client) GetChronologyEvent(ctx context.Context, id string) (*domain.ChronologyEvent, error) {
	var event domain.ChronologyEvent
	raw, err := c.get(ctx, "/chronology-events/id/"+url.PathEscape(id), &event)
	if err != nil {
		return nil, err
	}
	event.Raw = raw
	return &event, nil
}

func (c *Client) getMedia(ctx context.Context, prefix, id string) (*domain.Media, error) {
	var media domain.Media
	raw, err := c.get(ctx, prefix+url.PathEscape(id), &media)
	if err != nil {
		return nil, err
	}
	media.Raw = raw
	return &media, nil
}

// get performs an authenticated GET and decodes the body into out.
// It returns the raw body.
func (c *Client) get(ctx context.Context, path string, out any) (json.RawMessage, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapTransportError(err, path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrConnectivity, path, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.rateLimiter.RecordRateLimit(resp)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, endpoint, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrRecordTransform, path, err)
	}
	return json.RawMessage(body), nil
}

// wrapTransportError keeps login failures as reported by the token source
// and classifies everything else as a connectivity failure.
func wrapTransportError(err error, path string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) || errors.Is(err, domain.ErrConnectivity) || errors.Is(err, domain.ErrUnauthorized) {
		return fmt.Errorf("login: %w", err)
	}
	return fmt.Errorf("%w: GET %s: %w", domain.ErrConnectivity, path, err)
}
