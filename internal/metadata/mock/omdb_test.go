package mock

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelfinder/reelfinder/internal/metadata/omdb"
)

func TestSelectFixture(t *testing.T) {
	long := strings.Repeat("a", maxTitleLength+1)

	tests := []struct {
		name   string
		apiKey string
		title  string
		want   string
	}{
		{"empty key", "", "xxx", FixtureNoAPIKey},
		{"blank key", "   ", "xxx", FixtureNoAPIKey},
		{"blank key beats empty title", " \t", "", FixtureNoAPIKey},
		{"key with inner space", "api key", "xxx", FixtureInvalidAPIKey},
		{"placeholder key", "1234", "xxx", FixtureInvalidAPIKey},
		{"invalid key beats empty title", "1234", "", FixtureInvalidAPIKey},
		{"empty title", "apikey", "", FixtureEmptyTitle},
		{"title too long", "apikey", long, FixtureQueryTooLong},
		{"title at limit", "apikey", strings.Repeat("a", maxTitleLength), FixtureOKPageResults},
		{"blank title", "apikey", "   ", FixtureTooManyResults},
		{"normal", "apikey", "xxx", FixtureOKPageResults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectFixture(tt.apiKey, tt.title))
		})
	}
}

func TestOMDBClient_TitleSearch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		title   string
		wantMsg string
	}{
		{"no api key", " ", "xxx", "No API key provided."},
		{"invalid api key", "1234", "xxx", "Invalid API key!"},
		{"empty title", "apikey", "", "Incorrect IMDb ID."},
		{"too many results", "apikey", "  ", "Too many results."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewOMDBClient(tt.apiKey, zerolog.Nop())
			page, err := client.TitleSearch(context.Background(), omdb.TitleSearchParams{Title: tt.title})

			var omdbErr *omdb.Error
			require.ErrorAs(t, err, &omdbErr)
			assert.Equal(t, tt.wantMsg, omdbErr.Error())
			assert.Nil(t, page)
		})
	}
}

func TestOMDBClient_TitleSearch_MalformedFixture(t *testing.T) {
	client := NewOMDBClient("apikey", zerolog.Nop())

	_, err := client.TitleSearch(context.Background(), omdb.TitleSearchParams{
		Title: strings.Repeat("x", maxTitleLength+1),
	})

	var omdbErr *omdb.Error
	require.ErrorAs(t, err, &omdbErr)
	assert.Contains(t, omdbErr.Error(), FixtureQueryTooLong)
}

func TestOMDBClient_TitleSearch_Results(t *testing.T) {
	client := NewOMDBClient("apikey", zerolog.Nop())
	ctx := context.Background()

	page, err := client.TitleSearch(ctx, omdb.TitleSearchParams{Title: "xxx"})
	require.NoError(t, err)
	assert.Equal(t, 9, page.Count)
	assert.Len(t, page.Results, 9)
	for _, r := range page.Results {
		assert.Contains(t, strings.ToLower(r.Title), "xxx")
	}

	page, err = client.TitleSearch(ctx, omdb.TitleSearchParams{Title: "XANDER"})
	require.NoError(t, err)
	assert.Len(t, page.Results, 2)
	assert.Equal(t, 9, page.Count)

	page, err = client.TitleSearch(ctx, omdb.TitleSearchParams{Title: "xxx", Page: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.Equal(t, 0, page.Count)

	page, err = client.TitleSearch(ctx, omdb.TitleSearchParams{Title: "one title that does not exist"})
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.Equal(t, 0, page.Count)
}

func TestOMDBClient_TitleSearch_PageDefaultsToFirst(t *testing.T) {
	client := NewOMDBClient("apikey", zerolog.Nop())

	first, err := client.TitleSearch(context.Background(), omdb.TitleSearchParams{Title: "xxx", Page: 1})
	require.NoError(t, err)
	zero, err := client.TitleSearch(context.Background(), omdb.TitleSearchParams{Title: "xxx"})
	require.NoError(t, err)

	assert.Equal(t, first, zero)
}

func TestOMDBClient_TitleSearch_CanceledContext(t *testing.T) {
	client := NewOMDBClient("apikey", zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.TitleSearch(ctx, omdb.TitleSearchParams{Title: "xxx"})
	var omdbErr *omdb.Error
	assert.ErrorAs(t, err, &omdbErr)
}

func TestNoResultsFixtureMatchesServerMessage(t *testing.T) {
	body, err := fixtures.ReadFile("fixtures/" + FixtureNoResults + ".json")
	require.NoError(t, err)

	data, err := omdb.DecodeSearchResponse(body)
	require.NoError(t, err)
	assert.True(t, data.IsNoResults())
}
