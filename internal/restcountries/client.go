// Package restcountries is a client for the REST Countries v3.1 API, or any
// server mirroring its paths such as the GlobeGuide API proxy.
package restcountries

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joefazee/globeguide/internal/logger"
	"github.com/joefazee/globeguide/models"
)

const (
	DefaultBaseURL = "https://restcountries.com/v3.1"

	maxBodyBytes = 16 << 20
)

var (
	// DetailFields is requested for a single country page.
	DetailFields = []string{
		"name", "cca2", "cca3", "capital", "region", "subregion", "population", "area",
		"languages", "currencies", "borders", "flags", "coatOfArms", "maps",
	}
	// ListFields is requested for bulk listings. The upstream caps a request
	// at ten fields.
	ListFields = []string{
		"name", "cca2", "cca3", "capital", "region", "subregion", "population", "area", "flags", "currencies",
	}
	// BorderFields is requested when resolving border codes to names.
	BorderFields = []string{"name", "cca3"}
)

// Client fetches country records. NotFound on a name or code lookup is an
// empty result, never an error.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New returns a client for baseURL; an empty baseURL means DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		log:        logger.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one upstream call.
type Request struct {
	Op    string
	Path  string
	Query url.Values

	// EmptyOnNotFound turns a 404 into an empty array.
	EmptyOnNotFound bool
}

// Fetch performs req and returns the body as a JSON array. A single-object
// body is wrapped into a one-element array.
func (c *Client) Fetch(ctx context.Context, req Request) ([]byte, error) {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, &models.NetworkError{Op: req.Op, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error(err, map[string]interface{}{"op": req.Op, "url": u})
		return nil, &models.NetworkError{Op: req.Op, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("country source response", map[string]interface{}{
		"op":       req.Op,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	})

	if resp.StatusCode == http.StatusNotFound && req.EmptyOnNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return []byte("[]"), nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &models.NetworkError{Op: req.Op, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &models.NetworkError{Op: req.Op, Status: resp.StatusCode, Err: err}
	}
	arr, err := asArray(body)
	if err != nil {
		return nil, &models.NetworkError{Op: req.Op, Status: resp.StatusCode, Err: err}
	}
	return arr, nil
}

var errNotJSONList = errors.New("response is neither an array nor an object")

func asArray(body []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errNotJSONList
	}
	switch trimmed[0] {
	case '[':
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("decode: invalid JSON array")
		}
		return trimmed, nil
	case '{':
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("decode: invalid JSON object")
		}
		out := make([]byte, 0, len(trimmed)+2)
		out = append(out, '[')
		out = append(out, trimmed...)
		return append(out, ']'), nil
	default:
		return nil, errNotJSONList
	}
}

func (c *Client) fetchCountries(ctx context.Context, req Request) ([]models.Country, error) {
	body, err := c.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	var countries []models.Country
	if err := json.Unmarshal(body, &countries); err != nil {
		return nil, &models.NetworkError{Op: req.Op, Err: fmt.Errorf("decode: %w", err)}
	}
	return countries, nil
}

func fields(names []string) url.Values {
	return url.Values{"fields": {strings.Join(names, ",")}}
}

// AllRequest lists every country with ListFields.
func AllRequest() Request {
	return Request{Op: "fetch all countries", Path: "/all", Query: fields(ListFields)}
}

// RegionRequest lists the countries of region.
func RegionRequest(region models.Region) Request {
	return Request{
		Op:    "fetch countries in " + string(region),
		Path:  "/region/" + url.PathEscape(strings.ToLower(string(region))),
		Query: fields(ListFields),
	}
}

// NameRequest searches by (partial) name.
func NameRequest(name string) Request {
	return Request{
		Op:              "search countries",
		Path:            "/name/" + url.PathEscape(strings.TrimSpace(name)),
		Query:           fields(ListFields),
		EmptyOnNotFound: true,
	}
}

// CodeRequest fetches one country by alpha-2 or alpha-3 code.
func CodeRequest(code string) Request {
	code = models.NormalizeCode(code)
	return Request{
		Op:              "fetch country " + code,
		Path:            "/alpha/" + url.PathEscape(code),
		Query:           fields(DetailFields),
		EmptyOnNotFound: true,
	}
}

// CodesRequest fetches several countries with only the given fields.
func CodesRequest(codes []string, fieldNames []string) Request {
	q := fields(fieldNames)
	q.Set("codes", strings.Join(codes, ","))
	return Request{Op: "fetch countries by code", Path: "/alpha", Query: q, EmptyOnNotFound: true}
}

// All returns every country.
func (c *Client) All(ctx context.Context) ([]models.Country, error) {
	return c.fetchCountries(ctx, AllRequest())
}

// ByRegion returns the countries of region.
func (c *Client) ByRegion(ctx context.Context, region models.Region) ([]models.Country, error) {
	r, err := models.ParseRegion(string(region))
	if err != nil {
		return nil, models.NewValidationError(map[string]string{"region": err.Error()})
	}
	return c.fetchCountries(ctx, RegionRequest(r))
}

// ByName returns the countries whose name contains name; none is not an error.
func (c *Client) ByName(ctx context.Context, name string) ([]models.Country, error) {
	if strings.TrimSpace(name) == "" {
		return []models.Country{}, nil
	}
	return c.fetchCountries(ctx, NameRequest(name))
}

// ByCode returns the country with code, or nil when there is none.
func (c *Client) ByCode(ctx context.Context, code string) (*models.Country, error) {
	if strings.TrimSpace(code) == "" {
		return nil, models.NewValidationError(map[string]string{"code": "must be provided"})
	}
	countries, err := c.fetchCountries(ctx, CodeRequest(code))
	if err != nil || len(countries) == 0 {
		return nil, err
	}
	return &countries[0], nil
}

// ByCodes returns the countries for codes, carrying only BorderFields. An
// empty codes list returns an empty result without a request.
func (c *Client) ByCodes(ctx context.Context, codes []string) ([]models.Country, error) {
	normalized := make([]string, 0, len(codes))
	for _, code := range codes {
		if code = models.NormalizeCode(code); code != "" {
			normalized = append(normalized, code)
		}
	}
	if len(normalized) == 0 {
		return []models.Country{}, nil
	}
	return c.fetchCountries(ctx, CodesRequest(normalized, BorderFields))
}
