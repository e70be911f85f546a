// Package datasource implements the upstream market-data client. It
// talks to the provider's JSON endpoints and scrapes the public quote
// pages as a fallback, with request pacing and bounded retry so runs
// stay under the provider's throttling limits.
package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/ddihora1604/IITK-ESG/internal/config"
)

const (
	defaultAPIBaseURL  = "https://query2.finance.yahoo.com"
	defaultPageBaseURL = "https://finance.yahoo.com"
	crumbSeedURL       = "https://fc.yahoo.com"
	crumbTTL           = 1 * time.Hour
)

// Client issues paced, retried requests against the market-data
// provider. All exported methods honour the passed context and return
// AppError values from internal/errors on failure.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	retries     int
	backoffBase time.Duration
	userAgent   string
	apiBaseURL  string
	pageBaseURL string
	crumbSeed   string

	crumbMu  sync.Mutex
	crumb    string
	crumbExp time.Time

	browser *Browser
}

// Option customizes a Client, mainly for tests.
type Option func(*Client)

// WithAPIBaseURL overrides the JSON API base URL.
func WithAPIBaseURL(u string) Option {
	return func(c *Client) { c.apiBaseURL = strings.TrimRight(u, "/") }
}

// WithPageBaseURL overrides the scraped-page base URL.
func WithPageBaseURL(u string) Option {
	return func(c *Client) { c.pageBaseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBrowser attaches a rendered-page fallback browser.
func WithBrowser(b *Browser) Option {
	return func(c *Client) { c.browser = b }
}

// WithCrumbSeedURL overrides the session-seed URL visited before
// requesting a crumb.
func WithCrumbSeedURL(u string) Option {
	return func(c *Client) { c.crumbSeed = u }
}

// NewClient creates a client from fetch configuration. The cookie jar
// is shared between API and page requests because the provider's
// session cookies gate both.
func NewClient(cfg config.FetchConfig, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
		limiter:     rate.NewLimiter(rate.Limit(cfg.RateRPS), cfg.RateBurst),
		retries:     cfg.Retries,
		backoffBase: cfg.BackoffBase,
		userAgent:   cfg.UserAgent,
		apiBaseURL:  defaultAPIBaseURL,
		pageBaseURL: defaultPageBaseURL,
		crumbSeed:   crumbSeedURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs one paced, retried GET and returns the response body.
// Transient failures (network errors, 429, 5xx) are retried with
// exponential backoff; terminal statuses surface immediately.
func (c *Client) get(ctx context.Context, rawURL string, referer string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			backoff := c.backoffBase << (attempt - 1)
			slog.Debug("retrying request",
				slog.String("url", rawURL),
				slog.Int("attempt", attempt),
				slog.Duration("backoff", backoff))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, fetchError("request cancelled", ctx.Err())
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fetchError("request cancelled", err)
		}

		body, retryable, err := c.doOnce(ctx, rawURL, referer)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	return nil, lastErr
}

// doOnce executes a single request. The second return value reports
// whether the failure is worth retrying.
func (c *Client) doOnce(ctx context.Context, rawURL, referer string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fetchError("failed to build request", err)
	}
	c.setHeaders(req, referer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fetchError("request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, fetchError("failed to read response body", err)
		}
		return body, false, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, notFoundError(rawURL)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, rateLimitError(rawURL)
	case resp.StatusCode >= 500:
		return nil, true, statusError(rawURL, resp.StatusCode)
	default:
		return nil, false, statusError(rawURL, resp.StatusCode)
	}
}

// setHeaders applies the browser-like headers the provider expects.
// Bare default Go headers get 401/403 responses.
func (c *Client) setHeaders(req *http.Request, referer string) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
}

// getJSON fetches a URL and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, rawURL, referer string, v interface{}) error {
	body, err := c.get(ctx, rawURL, referer)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return parseError(fmt.Sprintf("unexpected JSON payload from %s", rawURL), err)
	}
	return nil
}

// Page fetches a quote page and parses it for scraping. The path is
// joined to the page base URL.
func (c *Client) Page(ctx context.Context, path string) (*goquery.Document, error) {
	pageURL := c.pageBaseURL + path
	body, err := c.get(ctx, pageURL, c.pageBaseURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, parseError(fmt.Sprintf("failed to parse HTML from %s", pageURL), err)
	}
	return doc, nil
}

// RenderedPage fetches a page through the headless browser fallback.
// Returns a fetch error when no browser is configured.
func (c *Client) RenderedPage(ctx context.Context, path string) (*goquery.Document, error) {
	if c.browser == nil {
		return nil, fetchError("browser fallback not enabled", nil)
	}
	html, err := c.browser.RenderedHTML(ctx, c.pageBaseURL+path)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, parseError("failed to parse rendered HTML", err)
	}
	return doc, nil
}

// getCrumb returns a session crumb for the authenticated API
// endpoints, fetching a fresh one when the cached crumb expired. The
// provider requires a cookie-session visit before the crumb endpoint
// responds.
func (c *Client) getCrumb(ctx context.Context) (string, error) {
	c.crumbMu.Lock()
	defer c.crumbMu.Unlock()

	if c.crumb != "" && time.Now().Before(c.crumbExp) {
		return c.crumb, nil
	}

	seedReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.crumbSeed, nil)
	if err != nil {
		return "", fetchError("failed to build seed request", err)
	}
	c.setHeaders(seedReq, "")
	if seedResp, err := c.httpClient.Do(seedReq); err == nil {
		seedResp.Body.Close()
	}
	// Seed status is irrelevant; only the cookies matter.

	body, err := c.get(ctx, c.apiBaseURL+"/v1/test/getcrumb", "")
	if err != nil {
		return "", err
	}
	crumb := strings.TrimSpace(string(body))
	if crumb == "" {
		return "", fetchError("empty crumb returned", nil)
	}

	c.crumb = crumb
	c.crumbExp = time.Now().Add(crumbTTL)
	return crumb, nil
}

// invalidateCrumb drops the cached crumb so the next call refreshes it.
func (c *Client) invalidateCrumb() {
	c.crumbMu.Lock()
	c.crumb = ""
	c.crumbExp = time.Time{}
	c.crumbMu.Unlock()
}

// apiURL builds an API URL with query parameters.
func (c *Client) apiURL(path string, params url.Values) string {
	if len(params) == 0 {
		return c.apiBaseURL + path
	}
	return c.apiBaseURL + path + "?" + params.Encode()
}
