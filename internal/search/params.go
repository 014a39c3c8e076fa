package search

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/reelfinder/reelfinder/internal/metadata/omdb"
)

// Param keys accepted by Params.With and Session.UpdateParam.
const (
	ParamTitle = "title"
	ParamYear  = "year"
	ParamType  = "type"
)

var ErrUnknownParam = errors.New("unknown search param")

// revisions hands out process-wide unique Params identities.
var revisions atomic.Uint64

func nextRevision() uint64 {
	return revisions.Add(1)
}

// Params are the inputs of a title search.
//
// Params are values with an identity: every constructor and every With call
// yields a new revision, even when the field values are unchanged. Sessions
// compare revisions, not field values, to decide whether a search is new.
type Params struct {
	Title string          `json:"title"`
	Year  string          `json:"year"`
	Type  omdb.ResultType `json:"type"`

	rev uint64
}

// NewParams creates Params with a fresh identity.
func NewParams(title, year string, resultType omdb.ResultType) Params {
	return Params{
		Title: title,
		Year:  year,
		Type:  resultType,
		rev:   nextRevision(),
	}
}

// With returns a copy of p with one field replaced and a fresh identity.
func (p Params) With(key, value string) (Params, error) {
	switch key {
	case ParamTitle:
		p.Title = value
	case ParamYear:
		p.Year = value
	case ParamType:
		p.Type = omdb.ResultType(value)
	default:
		return p, fmt.Errorf("%w: %q", ErrUnknownParam, key)
	}
	p.rev = nextRevision()
	return p, nil
}

// Renew returns a copy of p with a fresh identity, which forces the next
// search with it to be treated as new.
func (p Params) Renew() Params {
	p.rev = nextRevision()
	return p
}

// Revision returns the identity of p.
func (p Params) Revision() uint64 {
	return p.rev
}

func (p Params) titleSearch(page int) omdb.TitleSearchParams {
	return omdb.TitleSearchParams{
		Title: p.Title,
		Year:  p.Year,
		Type:  p.Type,
		Page:  page,
	}
}
