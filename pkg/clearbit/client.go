// Package clearbit provides access to the Clearbit company enrichment API.
package clearbit

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://company.clearbit.com/v2"

// Client looks up firmographic data by company domain.
type Client interface {
	EnrichCompany(ctx context.Context, domain string) (*CompanyData, error)
}

// CompanyData is the firmographic profile Clearbit holds for a domain.
// A nil result with a nil error means Clearbit has no record for the domain.
type CompanyData struct {
	Name           string   `json:"name"`
	LegalName      string   `json:"legalName"`
	Domain         string   `json:"domain"`
	Description    string   `json:"description"`
	FoundedYear    int      `json:"foundedYear"`
	EmployeesRange string   `json:"employeesRange"`
	Tags           []string `json:"tags"`
	Tech           []string `json:"tech"`
	Location       string   `json:"location"`
	Metrics        struct {
		Employees       int    `json:"employees"`
		EstimatedAnnual string `json:"estimatedAnnualRevenue"`
	} `json:"metrics"`
	LinkedIn struct {
		Handle string `json:"handle"`
	} `json:"linkedin"`
	Twitter struct {
		Handle string `json:"handle"`
	} `json:"twitter"`
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

// NewClient creates a Clearbit API client.
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

func (c *httpClient) EnrichCompany(ctx context.Context, domain string) (*CompanyData, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "clearbit: rate limit")
		}
	}

	params := url.Values{}
	params.Set("domain", domain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/companies/find?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "clearbit: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "clearbit: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "clearbit: read response")
	}

	// No record for the domain is an expected outcome, not an error.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("clearbit: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var data CompanyData
	if err := json.Unmarshal(respBody, &data); err != nil {
		return nil, eris.Wrap(err, "clearbit: unmarshal response")
	}
	return &data, nil
}
