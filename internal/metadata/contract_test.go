package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelfinder/reelfinder/internal/metadata/mock"
	"github.com/reelfinder/reelfinder/internal/metadata/omdb"
	"github.com/reelfinder/reelfinder/internal/testutil"
)

// TestOMDBClientContract checks the behaviour callers rely on, for every
// client implementation.
func TestOMDBClientContract(t *testing.T) {
	fake := testutil.NewFakeOMDb(t, `{"Search":[{"Title":"xXx","Year":"2002","imdbID":"tt0295701","Type":"movie","Poster":"N/A"}],"totalResults":"9","Response":"True"}`)
	fake.Respond("", `{"Response":"False","Error":"Incorrect IMDb ID."}`)
	fake.Respond("one title that does not exist", `{"Response":"False","Error":"Movie not found!"}`)

	clients := map[string]OMDBClient{
		"live":   omdb.NewClient(fake.Config("apikey"), testutil.NewTestLogger(t)),
		"static": mock.NewOMDBClient("apikey", zerolog.Nop()),
	}

	for name, client := range clients {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			page, err := client.TitleSearch(ctx, omdb.TitleSearchParams{Title: "xxx"})
			require.NoError(t, err)
			assert.Equal(t, 9, page.Count)
			assert.NotEmpty(t, page.Results)
			assert.LessOrEqual(t, len(page.Results), 10)

			page, err = client.TitleSearch(ctx, omdb.TitleSearchParams{Title: "one title that does not exist"})
			require.NoError(t, err)
			assert.Empty(t, page.Results)
			assert.Equal(t, 0, page.Count)

			_, err = client.TitleSearch(ctx, omdb.TitleSearchParams{Title: ""})
			var omdbErr *omdb.Error
			require.ErrorAs(t, err, &omdbErr)
			assert.Contains(t, omdbErr.Error(), "Incorrect IMDb ID.")

			_, err = client.GetTitle(ctx, omdb.TitleLookupParams{Title: "xxx"})
			assert.True(t, errors.Is(err, omdb.ErrNotImplemented))
			assert.False(t, errors.As(err, &omdbErr))

			_, err = client.GetID(ctx, omdb.IDLookupParams{IMDbID: "tt0295701"})
			assert.True(t, errors.Is(err, omdb.ErrNotImplemented))
		})
	}
}
