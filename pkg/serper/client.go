// Package serper provides access to the Serper.dev Google search API.
package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://google.serper.dev"

// Client performs web and news searches against the Serper API.
type Client interface {
	Search(ctx context.Context, query string, num int) ([]Result, error)
	SearchNews(ctx context.Context, query string, num int) ([]Result, error)
}

// Result is a single organic search or news result.
type Result struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position,omitempty"`
	Date     string `json:"date,omitempty"`
	Source   string `json:"source,omitempty"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets a per-second transport throttle for API calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Serper API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
	GL  string `json:"gl"`
	HL  string `json:"hl"`
}

func (c *httpClient) Search(ctx context.Context, query string, num int) ([]Result, error) {
	var payload struct {
		Organic []Result `json:"organic"`
	}
	if err := c.post(ctx, "/search", query, num, &payload); err != nil {
		return nil, err
	}
	return payload.Organic, nil
}

func (c *httpClient) SearchNews(ctx context.Context, query string, num int) ([]Result, error) {
	var payload struct {
		News []Result `json:"news"`
	}
	if err := c.post(ctx, "/news", query, num, &payload); err != nil {
		return nil, err
	}
	return payload.News, nil
}

func (c *httpClient) post(ctx context.Context, path, query string, num int, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "serper: rate limit")
		}
	}

	body, err := json.Marshal(searchRequest{Q: query, Num: num, GL: "us", HL: "en"})
	if err != nil {
		return eris.Wrap(err, "serper: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "serper: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "serper: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "serper: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("serper: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "serper: unmarshal response")
	}
	return nil
}
