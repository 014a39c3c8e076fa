package omdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelfinder/reelfinder/internal/config"
	"github.com/reelfinder/reelfinder/internal/metrics"
)

// Client is an OMDb API client.
type Client struct {
	httpClient *http.Client
	config     config.OMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new OMDb client.
func NewClient(cfg config.OMDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "omdb").Logger(),
	}
}

// Name returns the client name.
func (c *Client) Name() string {
	return "omdb"
}

// IsConfigured returns true if an API key is set. An unconfigured client
// still sends requests and reports the server's answer.
func (c *Client) IsConfigured() bool {
	return strings.TrimSpace(c.config.APIKey) != ""
}

// TitleSearch runs a title search (?s=) and returns one page of results.
//
// A "no matches" answer is an empty page. Every other failure is an *Error,
// classified in this order: error reported in the body, non-2xx status,
// unparseable body.
func (c *Client) TitleSearch(ctx context.Context, params TitleSearchParams) (*SearchResultPage, error) {
	start := time.Now()

	resp, err := c.get(ctx, c.searchValues(params))
	if err != nil {
		metrics.ObserveOMDbRequest(c.Name(), metrics.OutcomeTransportError, time.Since(start))
		c.logger.Error().Err(err).Str("title", params.Title).Msg("HTTP request failed")
		return nil, NewError(err.Error())
	}

	page, outcome, err := classify(resp)
	metrics.ObserveOMDbRequest(c.Name(), outcome, time.Since(start))
	if err != nil {
		c.logger.Warn().
			Str("title", params.Title).
			Int("status", resp.status).
			Str("outcome", outcome).
			Err(err).
			Msg("OMDb title search failed")
		return nil, err
	}

	c.logger.Debug().
		Str("title", params.Title).
		Int("page", params.Page).
		Int("results", len(page.Results)).
		Int("count", page.Count).
		Msg("OMDb title search")

	return page, nil
}

// RawTitleSearch runs a title search and returns the undecoded body along
// with the HTTP status code.
func (c *Client) RawTitleSearch(ctx context.Context, params TitleSearchParams) ([]byte, int, error) {
	resp, err := c.get(ctx, c.searchValues(params))
	if err != nil {
		return nil, 0, err
	}
	return resp.body, resp.status, nil
}

// GetTitle looks up a single title by name.
func (c *Client) GetTitle(ctx context.Context, params TitleLookupParams) (*Result, error) {
	return nil, fmt.Errorf("%s: title lookup: %w", c.Name(), ErrNotImplemented)
}

// GetID looks up a single title by IMDb id.
func (c *Client) GetID(ctx context.Context, params IDLookupParams) (*Result, error) {
	return nil, fmt.Errorf("%s: id lookup: %w", c.Name(), ErrNotImplemented)
}

type rawResponse struct {
	status     int
	statusText string
	body       []byte
}

func (c *Client) searchValues(p TitleSearchParams) url.Values {
	page := p.Page
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	if p.Title != "" {
		params.Set("s", p.Title)
	}
	if p.Type != "" {
		params.Set("type", string(p.Type))
	}
	if p.Year != "" {
		params.Set("y", p.Year)
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("apikey", c.config.APIKey)
	params.Set("r", "json")
	return params
}

func (c *Client) get(ctx context.Context, params url.Values) (*rawResponse, error) {
	reqURL := fmt.Sprintf("%s?%s", c.config.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error repeats the request URL, which carries the API key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, urlErr.Err
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &rawResponse{
		status:     resp.StatusCode,
		statusText: statusText(resp),
		body:       body,
	}, nil
}

// classify turns a raw response into a page, an outcome label and an error.
// The check order matters: OMDb answers some failures with 2xx and an error
// body, and others with non-2xx and an empty body.
func classify(resp *rawResponse) (*SearchResultPage, string, error) {
	data, decodeErr := DecodeSearchResponse(resp.body)

	if data.Failed() && !data.IsNoResults() {
		text := data.Error
		if text == "" {
			text = resp.statusText
		}
		return nil, metrics.OutcomeServerError, statusError(resp.status, text)
	}

	if resp.status < 200 || resp.status > 299 {
		return nil, metrics.OutcomeHTTPError, statusError(resp.status, resp.statusText)
	}

	if decodeErr != nil {
		return nil, metrics.OutcomeParseError, NewError(decodeErr.Error())
	}

	page := data.Page()
	if len(page.Results) == 0 {
		return page, metrics.OutcomeEmpty, nil
	}
	return page, metrics.OutcomeOK, nil
}

// statusText returns the reason phrase of the response, falling back to the
// standard text for the status code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		return http.StatusText(resp.StatusCode)
	}
	return text
}
