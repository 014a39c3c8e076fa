package omdb

import "regexp"

// posterNotAvailable is what OMDb sends when a title has no poster.
const posterNotAvailable = "N/A"

var posterSizeToken = regexp.MustCompile(`_SX\d+`)

// MapResult converts a raw search record into a Result.
func MapResult(rec SearchRecord) Result {
	return Result{
		ID:         rec.ImdbID,
		Title:      rec.Title,
		Year:       rec.Year,
		Type:       ResultType(rec.Type),
		PosterURLs: ExtractPosterURLs(rec.Poster),
	}
}

// ExtractPosterURLs derives the sized poster variants from a single poster
// URL. It returns nil when there is no poster.
func ExtractPosterURLs(posterURL string) *PosterSet {
	if posterURL == "" || posterURL == posterNotAvailable {
		return nil
	}
	return &PosterSet{
		SX150:    posterSizeToken.ReplaceAllString(posterURL, "_SX150"),
		SX300:    posterSizeToken.ReplaceAllString(posterURL, "_SX300"),
		SX600:    posterSizeToken.ReplaceAllString(posterURL, "_SX600"),
		SX1200:   posterSizeToken.ReplaceAllString(posterURL, "_SX1200"),
		Fullsize: posterSizeToken.ReplaceAllString(posterURL, ""),
	}
}
