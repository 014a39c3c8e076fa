package search

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reelfinder/reelfinder/internal/messages"
	"github.com/reelfinder/reelfinder/internal/metadata/omdb"
)

// ParamValidator checks a single search param value.
type ParamValidator interface {
	ValidateParam(key, value string) error
}

// Handlers exposes search sessions over HTTP.
type Handlers struct {
	registry  *Registry
	validator ParamValidator
}

// NewHandlers creates new session handlers.
func NewHandlers(registry *Registry, validator ParamValidator) *Handlers {
	return &Handlers{registry: registry, validator: validator}
}

// RegisterRoutes registers the session routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)
	g.PATCH("/:id/params", h.UpdateParam)
	g.POST("/:id/search", h.Search)
	g.POST("/:id/more", h.LoadMore)
	g.DELETE("/:id/messages", h.ClearMessages)
	g.DELETE("/:id/messages/:key", h.RemoveMessages)
}

// CreateResponse is returned when a session is created.
type CreateResponse struct {
	ID    string `json:"id"`
	State State  `json:"state"`
}

// UpdateParamRequest replaces one search param.
type UpdateParamRequest struct {
	Key   string `json:"key" validate:"required,oneof=title year type"`
	Value string `json:"value"`
}

// SearchRequest runs a search with the session's current params.
type SearchRequest struct {
	Page  int  `json:"page" validate:"omitempty,min=1"`
	Renew bool `json:"renew"`
}

// Create starts a new session.
// POST /api/v1/sessions
func (h *Handlers) Create(c echo.Context) error {
	session := h.registry.Create()
	return c.JSON(http.StatusCreated, CreateResponse{
		ID:    session.ID(),
		State: session.State(SortOptions{Direction: SortAsc}),
	})
}

// Get returns the session state, sorted by the sortBy and sortDir query
// params.
// GET /api/v1/sessions/:id
func (h *Handlers) Get(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}

	opts, err := ParseSortOptions(c.QueryParam("sortBy"), c.QueryParam("sortDir"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, session.State(opts))
}

// Delete removes a session.
// DELETE /api/v1/sessions/:id
func (h *Handlers) Delete(c echo.Context) error {
	if err := h.registry.Delete(c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateParam replaces one search param. An invalid value is kept out of the
// params and reported as a message under the param's key.
// PATCH /api/v1/sessions/:id/params
func (h *Handlers) UpdateParam(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}

	var req UpdateParamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.validator.ValidateParam(req.Key, req.Value); err != nil {
		session.RemoveMessages(req.Key)
		session.AddMessage(req.Key, messages.New(err.Error()))
		return c.JSON(http.StatusUnprocessableEntity, session.State(SortOptions{Direction: SortAsc}))
	}

	session.RemoveMessages(req.Key)
	if _, err := session.UpdateParam(req.Value, req.Key); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, session.State(SortOptions{Direction: SortAsc}))
}

// Search runs the session's current params. Repeating a search with
// unchanged params and page is a no-op unless renew is set.
// POST /api/v1/sessions/:id/search
func (h *Handlers) Search(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}

	req := SearchRequest{Page: 1}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	params := session.Params()
	if req.Renew {
		params = params.Renew()
	}

	err = session.ExecuteSearch(c.Request().Context(), params, req.Page)
	return h.respondState(c, session, err)
}

// LoadMore fetches the next page. A failed page still counts as loaded, so
// the next call moves past it; searching again with renew starts over.
// POST /api/v1/sessions/:id/more
func (h *Handlers) LoadMore(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}

	err = session.LoadMore(c.Request().Context())
	return h.respondState(c, session, err)
}

// ClearMessages drops every message of the session.
// DELETE /api/v1/sessions/:id/messages
func (h *Handlers) ClearMessages(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	session.ClearMessages()
	return c.JSON(http.StatusOK, session.State(SortOptions{Direction: SortAsc}))
}

// RemoveMessages drops the messages under one key.
// DELETE /api/v1/sessions/:id/messages/:key
func (h *Handlers) RemoveMessages(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	session.RemoveMessages(c.Param("key"))
	return c.JSON(http.StatusOK, session.State(SortOptions{Direction: SortAsc}))
}

func (h *Handlers) session(c echo.Context) (*Session, error) {
	session, err := h.registry.Get(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return session, nil
}

// respondState writes the session state. Failed OMDb searches still return
// the state, whose global message carries the error.
func (h *Handlers) respondState(c echo.Context, session *Session, err error) error {
	state := session.State(SortOptions{Direction: SortAsc})

	var omdbErr *omdb.Error
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, state)
	case errors.As(err, &omdbErr):
		return c.JSON(http.StatusBadGateway, state)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
