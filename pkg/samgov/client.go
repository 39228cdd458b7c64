// Package samgov provides access to the SAM.gov contract opportunities API.
package samgov

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.sam.gov"

// Client searches SAM.gov opportunities and entities.
type Client interface {
	SearchOpportunities(ctx context.Context, keyword string, limit int) ([]Opportunity, error)
}

// Opportunity is a published contracting opportunity.
type Opportunity struct {
	NoticeID         string `json:"noticeId"`
	Title            string `json:"title"`
	AgencyPath       string `json:"fullParentPathName"`
	Type             string `json:"type"`
	PostedDate       string `json:"postedDate"`
	ResponseDeadline string `json:"responseDeadLine"`
	NAICSCode        string `json:"naicsCode"`
	Description      string `json:"description"`
	UEI              string `json:"ueiSAM"`
	Link             string `json:"uiLink"`
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

// WithPostedRange sets the posted-date window sent with every search.
func WithPostedRange(from, to string) Option {
	return func(c *httpClient) {
		c.postedFrom, c.postedTo = from, to
	}
}

type httpClient struct {
	apiKey     string
	baseURL    string
	postedFrom string
	postedTo   string
	http       *http.Client
}

// NewClient creates a SAM.gov API client. The posted-date window defaults to
// the current calendar year.
func NewClient(apiKey string, opts ...Option) Client {
	year := time.Now().Year()
	c := &httpClient{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		postedFrom: "01/01/" + strconv.Itoa(year),
		postedTo:   "12/31/" + strconv.Itoa(year),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) SearchOpportunities(ctx context.Context, keyword string, limit int) ([]Opportunity, error) {
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("keyword", keyword)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("postedFrom", c.postedFrom)
	params.Set("postedTo", c.postedTo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/opportunities/v2/search?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "samgov: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "samgov: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "samgov: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("samgov: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var payload struct {
		OpportunitiesData []Opportunity `json:"opportunitiesData"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, eris.Wrap(err, "samgov: unmarshal response")
	}
	return payload.OpportunitiesData, nil
}
