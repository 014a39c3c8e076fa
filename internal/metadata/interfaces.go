package metadata

import (
	"context"

	"github.com/reelfinder/reelfinder/internal/metadata/omdb"
)

// OMDBClient defines the interface for OMDb API operations. Both the live
// HTTP client and the fixture-backed client implement it.
type OMDBClient interface {
	Name() string
	IsConfigured() bool
	TitleSearch(ctx context.Context, params omdb.TitleSearchParams) (*omdb.SearchResultPage, error)
	GetTitle(ctx context.Context, params omdb.TitleLookupParams) (*omdb.Result, error)
	GetID(ctx context.Context, params omdb.IDLookupParams) (*omdb.Result, error)
}
