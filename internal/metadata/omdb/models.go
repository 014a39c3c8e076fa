package omdb

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SearchResponse is the raw OMDb title search (?s=) response body.
type SearchResponse struct {
	Search       []SearchRecord `json:"Search"`
	TotalResults Count          `json:"totalResults"`
	Response     Flag           `json:"Response"`
	Error        string         `json:"Error"`
}

// SearchRecord is a single entry of a raw search response.
type SearchRecord struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// Failed reports whether the body signals failure, either through the
// Response flag or a non-empty Error field.
func (r *SearchResponse) Failed() bool {
	return r.Response.IsFalse() || r.Error != ""
}

// IsNoResults reports whether the body carries the "no matches" message,
// which callers treat as an empty page rather than an error.
func (r *SearchResponse) IsNoResults() bool {
	return strings.EqualFold(r.Error, NoResultsMessage)
}

// Page maps the raw records into a result page.
func (r *SearchResponse) Page() *SearchResultPage {
	results := make([]Result, 0, len(r.Search))
	for _, rec := range r.Search {
		results = append(results, MapResult(rec))
	}
	return &SearchResultPage{
		Results: results,
		Count:   int(r.TotalResults),
	}
}

// DecodeSearchResponse parses a raw response body. On failure the returned
// response is the zero value, never nil.
func DecodeSearchResponse(body []byte) (*SearchResponse, error) {
	var resp SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return &SearchResponse{}, err
	}
	return &resp, nil
}

// Flag is the OMDb "Response" field. The API sends "True"/"False" strings,
// fixtures sometimes use JSON booleans.
type Flag string

// UnmarshalJSON accepts both strings and booleans.
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch s := string(data); s {
	case "true", "false":
		*f = Flag(s)
		return nil
	case "null":
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = Flag(s)
	return nil
}

// IsFalse reports whether the flag is "false", ignoring case.
func (f Flag) IsFalse() bool {
	return strings.EqualFold(strings.TrimSpace(string(f)), "false")
}

// Count is the "totalResults" field, sent as a numeric string.
// Missing or unparseable values decode to 0.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		*c = 0
		return nil
	}
	*c = Count(n)
	return nil
}
