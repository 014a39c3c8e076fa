package search

import (
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/reelfinder/reelfinder/internal/metadata/omdb"
)

// SortField is the result field to order by.
type SortField string

const (
	SortNone  SortField = ""
	SortTitle SortField = "title"
	SortYear  SortField = "year"
	SortType  SortField = "type"
	SortID    SortField = "imdbID"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortOptions selects the order of a result view.
type SortOptions struct {
	Field     SortField     `json:"sortBy"`
	Direction SortDirection `json:"sortDir"`
}

// ParseSortOptions validates a field and direction. Empty values mean no
// field and ascending order.
func ParseSortOptions(field, direction string) (SortOptions, error) {
	opts := SortOptions{Field: SortField(field), Direction: SortDirection(direction)}

	switch opts.Field {
	case SortNone, SortTitle, SortYear, SortType, SortID:
	default:
		return SortOptions{}, fmt.Errorf("invalid sort field %q", field)
	}

	switch opts.Direction {
	case "":
		opts.Direction = SortAsc
	case SortAsc, SortDesc:
	default:
		return SortOptions{}, fmt.Errorf("invalid sort direction %q", direction)
	}

	return opts, nil
}

// Sort returns a sorted copy of results; the input is never reordered.
//
// Without a field the order is kept, or reversed for descending. With a
// field the sort is stable and compares case- and accent-insensitively,
// treating digit runs as numbers.
func Sort(results []omdb.Result, opts SortOptions) []omdb.Result {
	out := slices.Clone(results)
	if out == nil {
		out = []omdb.Result{}
	}

	if opts.Field == SortNone {
		if opts.Direction == SortDesc {
			slices.Reverse(out)
		}
		return out
	}

	// A Collator is not safe for concurrent use.
	col := collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics, collate.Numeric)
	key := fieldValue(opts.Field)

	slices.SortStableFunc(out, func(a, b omdb.Result) int {
		c := col.CompareString(key(a), key(b))
		if opts.Direction == SortDesc {
			return -c
		}
		return c
	})
	return out
}

func fieldValue(field SortField) func(omdb.Result) string {
	switch field {
	case SortTitle:
		return func(r omdb.Result) string { return r.Title }
	case SortYear:
		return func(r omdb.Result) string { return r.Year }
	case SortType:
		return func(r omdb.Result) string { return string(r.Type) }
	case SortID:
		return func(r omdb.Result) string { return r.ID }
	default:
		return func(omdb.Result) string { return "" }
	}
}
