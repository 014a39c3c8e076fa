package metadata

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelfinder/reelfinder/internal/config"
	"github.com/reelfinder/reelfinder/internal/metadata/mock"
	"github.com/reelfinder/reelfinder/internal/metadata/omdb"
)

func setupTestHandlers(apiKey string) (*echo.Echo, *Handlers) {
	e := echo.New()
	h := NewHandlers(mock.NewOMDBClient(apiKey, zerolog.Nop()))
	h.RegisterRoutes(e.Group("/api/v1"))
	return e, h
}

func TestHandlers_TitleSearch(t *testing.T) {
	e, _ := setupTestHandlers("apikey")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?title=xxx&page=1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var page omdb.SearchResultPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 9, page.Count)
	assert.Len(t, page.Results, 9)
}

func TestHandlers_TitleSearch_OMDbError(t *testing.T) {
	e, _ := setupTestHandlers("1234")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?title=xxx", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":true,"name":"OMDbError","message":"Invalid API key!"}`, rec.Body.String())
}

func TestHandlers_TitleSearch_BadParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown type", "?title=xxx&type=podcast"},
		{"zero page", "?title=xxx&page=0"},
		{"non numeric page", "?title=xxx&page=two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, h := setupTestHandlers("apikey")
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/search"+tt.query, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h.TitleSearch(c)
			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		})
	}
}

func TestHandlers_LookupsNotImplemented(t *testing.T) {
	e, _ := setupTestHandlers("apikey")

	for _, path := range []string{"/api/v1/title?title=xXx", "/api/v1/title/tt0295701"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotImplemented, rec.Code, path)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Error)
		assert.Equal(t, "NotImplemented", body.Name)
	}
}

func TestHandlers_GetStatus(t *testing.T) {
	e, _ := setupTestHandlers("apikey")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"client":"omdb-static","configured":true}`, rec.Body.String())
}

func TestNewOMDBClient(t *testing.T) {
	tests := []struct {
		mode     string
		wantName string
		wantErr  bool
	}{
		{config.OMDbModeLive, "omdb", false},
		{"", "omdb", false},
		{config.OMDbModeStatic, "omdb-static", false},
		{"carrier-pigeon", "", true},
	}

	for _, tt := range tests {
		client, err := NewOMDBClient(config.OMDBConfig{Mode: tt.mode, APIKey: "k"}, zerolog.Nop())
		if tt.wantErr {
			assert.Error(t, err, tt.mode)
			continue
		}
		require.NoError(t, err, tt.mode)
		assert.Equal(t, tt.wantName, client.Name())
	}
}
