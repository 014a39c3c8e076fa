package omdb

import (
	"errors"
	"fmt"
	"strings"
)

// ResultType is the kind of title a result represents.
type ResultType string

const (
	TypeMovie   ResultType = "movie"
	TypeSeries  ResultType = "series"
	TypeEpisode ResultType = "episode"
	TypeGame    ResultType = "game"
)

// ResultTypes lists every known result type.
var ResultTypes = []ResultType{TypeMovie, TypeSeries, TypeEpisode, TypeGame}

var ErrUnknownResultType = errors.New("unknown result type")

// Valid reports whether t is one of the known result types.
func (t ResultType) Valid() bool {
	for _, rt := range ResultTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// ParseResultType parses a result type. The empty string means "any type"
// and is returned as is.
func ParseResultType(s string) (ResultType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	if t := ResultType(s); t.Valid() {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownResultType, s)
}

// Result is a normalized search result.
type Result struct {
	ID         string     `json:"imdbID"`
	Title      string     `json:"title"`
	Year       string     `json:"year"`
	Type       ResultType `json:"type"`
	PosterURLs *PosterSet `json:"posterUrls"`
}

// PosterSet holds one poster in several widths.
type PosterSet struct {
	SX150    string `json:"sx150"`
	SX300    string `json:"sx300"`
	SX600    string `json:"sx600"`
	SX1200   string `json:"sx1200"`
	Fullsize string `json:"fullsize"`
}

// SearchResultPage is one page of a title search. Count is the total number
// of matches reported by the server, not the page length.
type SearchResultPage struct {
	Results []Result `json:"results"`
	Count   int      `json:"count"`
}

// TitleSearchParams are the parameters of a title search.
type TitleSearchParams struct {
	Title string
	Year  string
	Type  ResultType
	Page  int
}

// TitleLookupParams are the parameters of a single title lookup (?t=).
type TitleLookupParams struct {
	Title    string
	Type     ResultType
	Year     string
	FullPlot bool
}

// IDLookupParams are the parameters of a lookup by IMDb id (?i=).
type IDLookupParams struct {
	IMDbID   string
	Type     ResultType
	Year     string
	FullPlot bool
}
