// Package hunter provides access to the Hunter.io email discovery API.
package hunter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.hunter.io/v2"

// Client discovers and verifies professional email addresses.
type Client interface {
	DomainSearch(ctx context.Context, domain, department string, limit int) ([]Email, error)
	VerifyEmail(ctx context.Context, email string) (*Verification, error)
}

// Email is a single discovered address with its owner details.
type Email struct {
	Value      string `json:"value"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Seniority  string `json:"seniority"`
	Phone      string `json:"phone_number"`
	LinkedIn   string `json:"linkedin"`
	Confidence int    `json:"confidence"`
}

// Verification is the deliverability result for a single address.
type Verification struct {
	Status string `json:"status"`
	Result string `json:"result"`
	Score  int    `json:"score"`
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

// NewClient creates a Hunter.io API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) DomainSearch(ctx context.Context, domain, department string, limit int) ([]Email, error) {
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("domain", domain)
	params.Set("api_key", c.apiKey)
	params.Set("limit", strconv.Itoa(limit))
	if department != "" {
		params.Set("department", department)
	}

	var payload struct {
		Data struct {
			Emails []Email `json:"emails"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/domain-search?"+params.Encode(), &payload); err != nil {
		return nil, err
	}
	return payload.Data.Emails, nil
}

func (c *httpClient) VerifyEmail(ctx context.Context, email string) (*Verification, error) {
	params := url.Values{}
	params.Set("email", email)
	params.Set("api_key", c.apiKey)

	var payload struct {
		Data Verification `json:"data"`
	}
	if err := c.get(ctx, "/email-verifier?"+params.Encode(), &payload); err != nil {
		return nil, err
	}
	return &payload.Data, nil
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "hunter: rate limit")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return eris.Wrap(err, "hunter: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "hunter: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "hunter: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("hunter: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "hunter: unmarshal response")
	}
	return nil
}
