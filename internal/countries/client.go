package countries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"
)

const (
	// DefaultBaseURL is the REST Countries v3.1 API.
	DefaultBaseURL = "https://restcountries.com/v3.1"
	clientTimeout  = 10 * time.Second
	indexFields    = "name,cca2,region,flag"
)

// Client interacts with the REST Countries API.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a client for the API at baseURL. An empty baseURL uses
// DefaultBaseURL and a zero timeout uses ten seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = clientTimeout
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// All fetches the summary of every country.
func (c *Client) All(ctx context.Context) ([]Country, error) {
	return c.get(ctx, "/all?fields="+indexFields, "all")
}

// ByCode fetches a country by its ISO 3166-1 alpha-2 or alpha-3 code.
func (c *Client) ByCode(ctx context.Context, code string) (*Country, error) {
	list, err := c.get(ctx, "/alpha/"+url.PathEscape(code), code)
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// Search fetches the countries whose name contains name.
func (c *Client) Search(ctx context.Context, name string) ([]Country, error) {
	return c.get(ctx, "/name/"+url.PathEscape(name), name)
}

func (c *Client) get(ctx context.Context, path, what string) ([]Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// malformed codes and names are answered with 400
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	var apiResponse []apiCountry
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(apiResponse) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, what)
	}

	out := make([]Country, 0, len(apiResponse))
	for _, ac := range apiResponse {
		if ac.Name.Common == "" || ac.CCA2 == "" {
			continue
		}
		out = append(out, ac.toDomain())
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return out, nil
}

// apiCountry is the subset of the REST Countries response we read.
type apiCountry struct {
	Name struct {
		Common   string `json:"common"`
		Official string `json:"official"`
	} `json:"name"`
	CCA2       string   `json:"cca2"`
	Capital    []string `json:"capital"`
	Region     string   `json:"region"`
	Subregion  string   `json:"subregion"`
	Population int64    `json:"population"`
	Flag       string   `json:"flag"`
	Currencies map[string]struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"currencies"`
}

func (ac apiCountry) toDomain() Country {
	c := Country{
		Name:         ac.Name.Common,
		OfficialName: ac.Name.Official,
		Code:         ac.CCA2,
		Region:       ac.Region,
		Subregion:    ac.Subregion,
		Population:   ac.Population,
		Flag:         ac.Flag,
	}
	if len(ac.Capital) > 0 {
		c.Capital = ac.Capital[0]
	}
	for code, cur := range ac.Currencies {
		label := code
		if cur.Symbol != "" {
			label += " (" + cur.Symbol + ")"
		}
		c.Currencies = append(c.Currencies, label)
	}
	slices.Sort(c.Currencies)
	return c
}
