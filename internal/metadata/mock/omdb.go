package mock

import (
	"context"
	"embed"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelfinder/reelfinder/internal/metadata/omdb"
	"github.com/reelfinder/reelfinder/internal/metrics"
)

//go:embed fixtures
var fixtures embed.FS

// Fixture names, relative to the fixtures directory without extension.
const (
	FixtureNoAPIKey       = "no-api-key"
	FixtureInvalidAPIKey  = "invalid-api-key"
	FixtureEmptyTitle     = "titlesearch/empty-route-param"
	FixtureQueryTooLong   = "titlesearch/syntax-error-query-too-long"
	FixtureTooManyResults = "titlesearch/too-many-results"
	FixtureNoResults      = "titlesearch/no-results"
	FixtureOKPageResults  = "titlesearch/ok-page-results"
)

const (
	pageSize       = 10
	maxTitleLength = 250

	// placeholderAPIKey is the key used in docs and examples; it always
	// selects the invalid key fixture.
	placeholderAPIKey = "1234"
)

var whitespace = regexp.MustCompile(`\s`)

// fixtureRule selects a fixture for a request. Rules are evaluated in order
// and the first match wins.
type fixtureRule struct {
	fixture string
	matches func(apiKey, title string) bool
}

var fixtureRules = []fixtureRule{
	{FixtureNoAPIKey, func(apiKey, _ string) bool {
		return strings.TrimSpace(apiKey) == ""
	}},
	{FixtureInvalidAPIKey, func(apiKey, _ string) bool {
		return whitespace.MatchString(apiKey) || apiKey == placeholderAPIKey
	}},
	{FixtureEmptyTitle, func(_, title string) bool {
		return title == ""
	}},
	{FixtureQueryTooLong, func(_, title string) bool {
		return len(title) > maxTitleLength
	}},
	{FixtureTooManyResults, func(_, title string) bool {
		return strings.TrimSpace(title) == ""
	}},
}

// SelectFixture returns the fixture served for the given key and title.
func SelectFixture(apiKey, title string) string {
	for _, rule := range fixtureRules {
		if rule.matches(apiKey, title) {
			return rule.fixture
		}
	}
	return FixtureOKPageResults
}

// OMDBClient serves title searches from embedded JSON fixtures. It behaves
// like the live client from the caller's point of view and needs no network.
type OMDBClient struct {
	apiKey string
	logger zerolog.Logger
}

// NewOMDBClient creates a fixture-backed OMDb client.
func NewOMDBClient(apiKey string, logger zerolog.Logger) *OMDBClient {
	return &OMDBClient{
		apiKey: apiKey,
		logger: logger.With().Str("component", "omdb-static").Logger(),
	}
}

func (c *OMDBClient) Name() string {
	return "omdb-static"
}

func (c *OMDBClient) IsConfigured() bool {
	return true
}

// TitleSearch answers from the fixture chosen by SelectFixture. Results are
// filtered by case-insensitive title containment and paged locally.
func (c *OMDBClient) TitleSearch(ctx context.Context, params omdb.TitleSearchParams) (*omdb.SearchResultPage, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		metrics.ObserveOMDbRequest(c.Name(), metrics.OutcomeTransportError, time.Since(start))
		return nil, omdb.NewError(err.Error())
	}

	name := SelectFixture(c.apiKey, params.Title)

	page, outcome, err := c.load(name, params.Title)
	if err == nil && name == FixtureOKPageResults && len(page.Results) == 0 {
		name = FixtureNoResults
		page, outcome, err = c.load(name, params.Title)
	}
	if err != nil {
		metrics.ObserveOMDbRequest(c.Name(), outcome, time.Since(start))
		c.logger.Debug().Str("fixture", name).Err(err).Msg("Fixture title search failed")
		return nil, err
	}

	paged := paginate(page, params.Page)
	if len(paged.Results) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.ObserveOMDbRequest(c.Name(), outcome, time.Since(start))

	c.logger.Debug().
		Str("fixture", name).
		Str("title", params.Title).
		Int("page", params.Page).
		Int("results", len(paged.Results)).
		Msg("Fixture title search")

	return paged, nil
}

// GetTitle looks up a single title by name.
func (c *OMDBClient) GetTitle(ctx context.Context, params omdb.TitleLookupParams) (*omdb.Result, error) {
	return nil, fmt.Errorf("%s: title lookup: %w", c.Name(), omdb.ErrNotImplemented)
}

// GetID looks up a single title by IMDb id.
func (c *OMDBClient) GetID(ctx context.Context, params omdb.IDLookupParams) (*omdb.Result, error) {
	return nil, fmt.Errorf("%s: id lookup: %w", c.Name(), omdb.ErrNotImplemented)
}

// load reads a fixture and returns every record whose title contains title.
// The fixture's "no matches" answer is an empty page, any other failure is
// an *omdb.Error carrying the fixture's message.
func (c *OMDBClient) load(name, title string) (*omdb.SearchResultPage, string, error) {
	body, err := fixtures.ReadFile("fixtures/" + name + ".json")
	if err != nil {
		return nil, metrics.OutcomeParseError, omdb.Errorf("failed to read fixture %s: %v", name, err)
	}

	data, err := omdb.DecodeSearchResponse(body)
	if err != nil {
		return nil, metrics.OutcomeParseError, omdb.Errorf("failed to parse fixture %s: %v", name, err)
	}

	if data.Failed() && !data.IsNoResults() {
		return nil, metrics.OutcomeServerError, omdb.NewError(data.Error)
	}

	page := data.Page()
	needle := strings.ToLower(title)
	filtered := make([]omdb.Result, 0, len(page.Results))
	for _, r := range page.Results {
		if strings.Contains(strings.ToLower(r.Title), needle) {
			filtered = append(filtered, r)
		}
	}
	page.Results = filtered

	return page, metrics.OutcomeOK, nil
}

// paginate slices one page out of the filtered results. Count is zero when
// the page is empty and the fixture's total otherwise.
func paginate(all *omdb.SearchResultPage, page int) *omdb.SearchResultPage {
	if page < 1 {
		page = 1
	}
	from := (page - 1) * pageSize
	to := page * pageSize
	if from > len(all.Results) {
		from = len(all.Results)
	}
	if to > len(all.Results) {
		to = len(all.Results)
	}

	results := make([]omdb.Result, to-from)
	copy(results, all.Results[from:to])

	count := all.Count
	if len(results) == 0 {
		count = 0
	}
	return &omdb.SearchResultPage{Results: results, Count: count}
}
