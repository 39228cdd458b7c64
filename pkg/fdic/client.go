// Package fdic provides access to the FDIC institution database API.
// The API is free and requires no key.
package fdic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://banks.data.fdic.gov/api"

// Client searches the FDIC institution database.
type Client interface {
	SearchInstitutions(ctx context.Context, filters Filters) ([]Institution, error)
	GetInstitution(ctx context.Context, cert string) (*Institution, error)
}

// Filters narrow an institution search.
type Filters struct {
	AssetMin   int64
	AssetMax   int64
	States     []string
	City       string
	Limit      int
	ActiveOnly bool
}

// Institution is a single FDIC-insured bank.
type Institution struct {
	Name      string `json:"NAME"`
	Cert      int    `json:"CERT"`
	Asset     int64  `json:"ASSET"`
	City      string `json:"CITY"`
	State     string `json:"STNAME"`
	Zip       string `json:"ZIP"`
	Website   string `json:"WEBADDR"`
	Address   string `json:"ADDRESS"`
	Charter   string `json:"CHARTER"`
	Active    int    `json:"ACTIVE"`
	Employees int    `json:"OFFICES"`
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

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates an FDIC API client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
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

func (c *httpClient) SearchInstitutions(ctx context.Context, filters Filters) ([]Institution, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 100
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("format", "json")
	params.Set("sort_by", "ASSET")
	params.Set("sort_order", "DESC")

	var conditions []string
	if filters.AssetMin > 0 {
		conditions = append(conditions, fmt.Sprintf("ASSET>=%d", filters.AssetMin))
	}
	if filters.AssetMax > 0 {
		conditions = append(conditions, fmt.Sprintf("ASSET<=%d", filters.AssetMax))
	}
	if len(filters.States) > 0 {
		states := make([]string, len(filters.States))
		for i, s := range filters.States {
			states[i] = fmt.Sprintf("STNAME:%q", s)
		}
		conditions = append(conditions, "("+strings.Join(states, " OR ")+")")
	}
	if filters.City != "" {
		conditions = append(conditions, fmt.Sprintf("CITY:%q", filters.City))
	}
	if filters.ActiveOnly {
		conditions = append(conditions, "ACTIVE:1")
	}
	if len(conditions) > 0 {
		params.Set("filters", strings.Join(conditions, " AND "))
	}

	var payload struct {
		Data []struct {
			Data Institution `json:"data"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/institutions?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	institutions := make([]Institution, 0, len(payload.Data))
	for _, row := range payload.Data {
		institutions = append(institutions, row.Data)
	}
	return institutions, nil
}

func (c *httpClient) GetInstitution(ctx context.Context, cert string) (*Institution, error) {
	var payload struct {
		Data struct {
			Data Institution `json:"data"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/institutions/"+url.PathEscape(cert), &payload); err != nil {
		return nil, err
	}
	if payload.Data.Data.Cert == 0 {
		return nil, nil
	}
	inst := payload.Data.Data
	return &inst, nil
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return eris.Wrap(err, "fdic: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "fdic: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "fdic: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("fdic: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "fdic: unmarshal response")
	}
	return nil
}
