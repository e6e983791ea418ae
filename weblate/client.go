// Package weblate is a small read-only client for the Weblate REST API.
//
// Every request carries "Authorization: Token <token>" and
// "Accept: application/json". Non-2xx responses become *RemoteError,
// undecodable bodies become *DecodeError. The client never retries; a
// timeout applies only when Config.Timeout is set.
package weblate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DefaultEndpoint is the Milthm Weblate API root.
const DefaultEndpoint = "https://weblate.milthm.com/api"

const userAgent = "milthm-collector"

// Config holds the connection settings of a Client.
type Config struct {
	// Endpoint is the API root, e.g. "https://weblate.milthm.com/api".
	Endpoint string
	// Token is the Weblate API token.
	Token string
	// Timeout is the per-request timeout (0 = none).
	Timeout time.Duration
	// Logger receives request traces at debug level. Nil disables logging.
	Logger *zap.Logger
}

// Client performs authenticated GET requests against one Weblate instance.
// It is safe for concurrent use.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	h := resty.New().
		SetBaseURL(strings.TrimRight(endpoint, "/")).
		SetHeader("Authorization", "Token "+cfg.Token).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)
	if cfg.Timeout > 0 {
		h.SetTimeout(cfg.Timeout)
	}

	return &Client{http: h, log: logger}
}

// Get fetches path (relative to the endpoint, query string included, or an
// absolute URL) and decodes the JSON body into T. Unknown fields are ignored.
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T

	c.log.Debug("GET", zap.String("path", path))
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return out, fmt.Errorf("GET %s: %w", path, err)
	}
	if !resp.IsSuccess() {
		return out, &RemoteError{
			StatusCode: resp.StatusCode(),
			Message:    truncate(strings.TrimSpace(resp.String()), 300),
			Path:       path,
		}
	}

	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return out, &DecodeError{Path: path, Err: err}
	}
	return out, nil
}

// ListLanguages returns the languages of project.
func (c *Client) ListLanguages(ctx context.Context, project string) ([]Language, error) {
	return Get[[]Language](ctx, c, "/projects/"+url.PathEscape(project)+"/languages/")
}

// ListComponents returns every component of project, following pagination.
func (c *Client) ListComponents(ctx context.Context, project string) ([]Component, error) {
	var all []Component
	seen := make(map[string]bool)

	next := "/projects/" + url.PathEscape(project) + "/components/"
	for next != "" && !seen[next] {
		seen[next] = true
		p, err := Get[page[Component]](ctx, c, next)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Results...)
		next = p.Next
	}
	return all, nil
}

// ListComponentChanges returns the first page of the change log of a
// component. Weblate orders it newest first.
func (c *Client) ListComponentChanges(ctx context.Context, project, component string) ([]Change, error) {
	p, err := Get[page[Change]](ctx, c, "/components/"+url.PathEscape(project)+"/"+url.PathEscape(component)+"/changes/")
	if err != nil {
		return nil, err
	}
	return p.Results, nil
}

// FetchTranslations downloads the JSON translation file of one component
// in one language.
func (c *Client) FetchTranslations(ctx context.Context, project, component, lang string) (Translations, error) {
	path := fmt.Sprintf("/translations/%s/%s/%s/file/?format=json",
		url.PathEscape(project), url.PathEscape(component), url.PathEscape(lang))
	return Get[Translations](ctx, c, path)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
