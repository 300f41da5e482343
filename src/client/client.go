// Package client talks to the booking API with response caching, request coalescing and backend fallback.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	DefaultCacheTTL          = 5 * time.Minute
	DefaultSlowThreshold     = time.Second
	DefaultRequestsPerMinute = 100
)

// Options describe a single call. The zero value is a cached GET.
type Options struct {
	Method   string            `json:"method"`
	Body     any               `json:"body,omitempty"`
	NoCache  bool              `json:"noCache,omitempty"`
	CacheTTL time.Duration     `json:"cacheTTL,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
}

type cachedResponse struct {
	url  string
	body []byte
}

type Client struct {
	baseURL       string
	mockURL       string
	http          *http.Client
	cache         *ttlcache.Cache[string, cachedResponse]
	inflight      singleflight.Group
	limiter       *rate.Limiter
	token         func() string
	slowThreshold time.Duration
	retryBase     time.Duration
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTokenSource sets where bearer tokens come from. An empty token sends no Authorization header.
func WithTokenSource(token func() string) Option {
	return func(c *Client) { c.token = token }
}

func WithMockURL(url string) Option {
	return func(c *Client) { c.mockURL = url }
}

func WithRateLimit(perMinute int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60), perMinute)
	}
}

func WithRetryBaseDelay(d time.Duration) Option {
	return func(c *Client) { c.retryBase = d }
}

func WithSlowThreshold(d time.Duration) Option {
	return func(c *Client) { c.slowThreshold = d }
}

func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	c := &Client{
		baseURL: baseURL,
		mockURL: baseURL + "/api/bookings/mock",
		http:    &http.Client{Timeout: 30 * time.Second},
		cache: ttlcache.New[string, cachedResponse](
			ttlcache.WithTTL[string, cachedResponse](DefaultCacheTTL),
			ttlcache.WithDisableTouchOnHit[string, cachedResponse](),
		),
		token:         func() string { return "" },
		slowThreshold: DefaultSlowThreshold,
		retryBase:     time.Second,
	}
	WithRateLimit(DefaultRequestsPerMinute)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// cacheKey scopes entries to the bearer token so callers with different tokens never share a response.
func cacheKey(url, token string, opts Options) string {
	b, _ := json.Marshal(opts)
	return base64.StdEncoding.EncodeToString([]byte(token + "-" + url + "-" + string(b)))
}

// Call issues a request against the API base URL.
func (c *Client) Call(ctx context.Context, endpoint string, opts Options) ([]byte, error) {
	return c.call(ctx, c.baseURL+endpoint, opts)
}

// call serves fresh cache hits without network and shares one request between identical concurrent callers.
// The shared request runs with the first caller's context.
func (c *Client) call(ctx context.Context, url string, opts Options) ([]byte, error) {
	if opts.Method == "" {
		opts.Method = http.MethodGet
	}
	token := c.token()
	key := cacheKey(url, token, opts)
	if !opts.NoCache {
		if item := c.cache.Get(key); item != nil {
			return item.Value().body, nil
		}
	}
	start := time.Now()
	v, err, _ := c.inflight.Do(key, func() (any, error) {
		return c.do(ctx, url, key, token, opts)
	})
	duration := time.Since(start)
	if err != nil {
		log.Printf("API call failed: %s %s after %s: %s\n", opts.Method, url, duration, err.Error())
		return nil, err
	}
	if duration > c.slowThreshold {
		log.Printf("Slow API call: %s %s took %s\n", opts.Method, url, duration)
	}
	return v.([]byte), nil
}

func (c *Client) do(ctx context.Context, url, key, token string, opts Options) ([]byte, error) {
	if !c.limiter.Allow() {
		return nil, ErrRateLimited
	}
	var body io.Reader
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, opts.Method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &HTTPError{
			Status:      res.StatusCode,
			Message:     MessageForStatus(res.StatusCode),
			ServerError: gjson.GetBytes(data, "error").String(),
		}
	}
	if !opts.NoCache && opts.Method == http.MethodGet {
		ttl := opts.CacheTTL
		if ttl <= 0 {
			ttl = DefaultCacheTTL
		}
		c.cache.Set(key, cachedResponse{url: url, body: data}, ttl)
	}
	return data, nil
}

// ClearCache drops cached responses whose URL contains pattern, or everything when pattern is empty.
func (c *Client) ClearCache(pattern string) {
	if pattern == "" {
		c.cache.DeleteAll()
		return
	}
	for key, item := range c.cache.Items() {
		if strings.Contains(item.Value().url, pattern) {
			c.cache.Delete(key)
		}
	}
}

type BatchRequest struct {
	Endpoint string
	Options  Options
}

// Batch runs requests concurrently and fails with the first error.
func (c *Client) Batch(ctx context.Context, reqs []BatchRequest) ([][]byte, error) {
	g, gctx := errgroup.WithContext(ctx)
	out := make([][]byte, len(reqs))
	for i, r := range reqs {
		g.Go(func() error {
			b, err := c.Call(gctx, r.Endpoint, r.Options)
			if err != nil {
				return fmt.Errorf("%s: %w", r.Endpoint, err)
			}
			out[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
