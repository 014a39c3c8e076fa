package metadata

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/reelfinder/reelfinder/internal/metadata/omdb"
)

// Handlers provides stateless HTTP handlers over an OMDb client.
type Handlers struct {
	client OMDBClient
}

// NewHandlers creates new metadata handlers.
func NewHandlers(client OMDBClient) *Handlers {
	return &Handlers{client: client}
}

// RegisterRoutes registers the metadata routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/search", h.TitleSearch)
	g.GET("/title", h.GetTitle)
	g.GET("/title/:imdbId", h.GetID)
	g.GET("/status", h.GetStatus)
}

// TitleSearch runs a single title search and returns one page.
// GET /api/v1/search?title=...&year=...&type=...&page=...
func (h *Handlers) TitleSearch(c echo.Context) error {
	resultType, err := omdb.ParseResultType(c.QueryParam("type"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	page := 1
	if pageStr := c.QueryParam("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid page")
		}
		page = p
	}

	result, err := h.client.TitleSearch(c.Request().Context(), omdb.TitleSearchParams{
		Title: c.QueryParam("title"),
		Year:  c.QueryParam("year"),
		Type:  resultType,
		Page:  page,
	})
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// GetTitle looks up a single title by name.
// GET /api/v1/title?title=...&type=...&year=...&plot=full
func (h *Handlers) GetTitle(c echo.Context) error {
	resultType, err := omdb.ParseResultType(c.QueryParam("type"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.client.GetTitle(c.Request().Context(), omdb.TitleLookupParams{
		Title:    c.QueryParam("title"),
		Type:     resultType,
		Year:     c.QueryParam("year"),
		FullPlot: c.QueryParam("plot") == "full",
	})
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// GetID looks up a single title by IMDb id.
// GET /api/v1/title/:imdbId
func (h *Handlers) GetID(c echo.Context) error {
	resultType, err := omdb.ParseResultType(c.QueryParam("type"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.client.GetID(c.Request().Context(), omdb.IDLookupParams{
		IMDbID:   c.Param("imdbId"),
		Type:     resultType,
		Year:     c.QueryParam("year"),
		FullPlot: c.QueryParam("plot") == "full",
	})
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// GetStatus reports which client serves requests.
// GET /api/v1/status
func (h *Handlers) GetStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"client":     h.client.Name(),
		"configured": h.client.IsConfigured(),
	})
}

// ErrorResponse is the JSON body of client errors.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// RespondError writes err as JSON. OMDb data errors map to 502 and
// unsupported operations to 501; anything else is passed on to echo.
func RespondError(c echo.Context, err error) error {
	var omdbErr *omdb.Error
	switch {
	case errors.As(err, &omdbErr):
		return c.JSON(http.StatusBadGateway, omdbErr)
	case errors.Is(err, omdb.ErrNotImplemented):
		return c.JSON(http.StatusNotImplemented, ErrorResponse{
			Error:   true,
			Name:    "NotImplemented",
			Message: err.Error(),
		})
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
