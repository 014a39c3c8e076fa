package omdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPosterURLs(t *testing.T) {
	tests := []struct {
		name   string
		poster string
		want   *PosterSet
	}{
		{name: "empty", poster: "", want: nil},
		{name: "not available", poster: "N/A", want: nil},
		{
			name:   "sized url",
			poster: "https://m.media-amazon.com/images/M/abc._V1_SX300.jpg",
			want: &PosterSet{
				SX150:    "https://m.media-amazon.com/images/M/abc._V1_SX150.jpg",
				SX300:    "https://m.media-amazon.com/images/M/abc._V1_SX300.jpg",
				SX600:    "https://m.media-amazon.com/images/M/abc._V1_SX600.jpg",
				SX1200:   "https://m.media-amazon.com/images/M/abc._V1_SX1200.jpg",
				Fullsize: "https://m.media-amazon.com/images/M/abc._V1_.jpg",
			},
		},
		{
			name:   "every token replaced",
			poster: "a_SX1b_SX22c",
			want: &PosterSet{
				SX150:    "a_SX150b_SX150c",
				SX300:    "a_SX300b_SX300c",
				SX600:    "a_SX600b_SX600c",
				SX1200:   "a_SX1200b_SX1200c",
				Fullsize: "abc",
			},
		},
		{
			name:   "no token",
			poster: "https://example.com/poster.jpg",
			want: &PosterSet{
				SX150:    "https://example.com/poster.jpg",
				SX300:    "https://example.com/poster.jpg",
				SX600:    "https://example.com/poster.jpg",
				SX1200:   "https://example.com/poster.jpg",
				Fullsize: "https://example.com/poster.jpg",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPosterURLs(tt.poster))
		})
	}
}

func TestMapResult(t *testing.T) {
	got := MapResult(SearchRecord{
		Title:  "xXx",
		Year:   "2002",
		ImdbID: "tt0295701",
		Type:   "movie",
		Poster: "N/A",
	})

	assert.Equal(t, Result{ID: "tt0295701", Title: "xXx", Year: "2002", Type: TypeMovie}, got)

	empty := MapResult(SearchRecord{})
	assert.Equal(t, Result{}, empty)
}

func TestDecodeSearchResponse(t *testing.T) {
	resp, err := DecodeSearchResponse([]byte(`{"Search":[{"Title":"A"}],"totalResults":12,"Response":true}`))
	require.NoError(t, err)
	assert.False(t, resp.Failed())
	assert.Equal(t, 12, resp.Page().Count)

	resp, err = DecodeSearchResponse([]byte(`not json`))
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.False(t, resp.Failed())
}

func TestParseResultType(t *testing.T) {
	for _, rt := range ResultTypes {
		got, err := ParseResultType(string(rt))
		require.NoError(t, err)
		assert.Equal(t, rt, got)
	}

	got, err := ParseResultType(" Series ")
	require.NoError(t, err)
	assert.Equal(t, TypeSeries, got)

	got, err = ParseResultType("")
	require.NoError(t, err)
	assert.Equal(t, ResultType(""), got)

	_, err = ParseResultType("podcast")
	assert.ErrorIs(t, err, ErrUnknownResultType)
}
