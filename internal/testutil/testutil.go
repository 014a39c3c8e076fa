// Package testutil provides helpers shared by package tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reelfinder/reelfinder/internal/config"
)

// NewTestLogger returns a debug logger that writes through t.Log.
func NewTestLogger(t *testing.T) zerolog.Logger {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}

// FakeOMDb is an httptest server answering title searches with canned
// bodies keyed by the "s" query param.
type FakeOMDb struct {
	Server *httptest.Server

	mu        sync.Mutex
	responses map[string]string
	fallback  string
	requests  []url.Values
}

// NewFakeOMDb starts a fake OMDb server that is closed when the test ends.
// Titles without a canned body get fallback.
func NewFakeOMDb(t *testing.T, fallback string) *FakeOMDb {
	t.Helper()

	f := &FakeOMDb{
		responses: make(map[string]string),
		fallback:  fallback,
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// Respond sets the body returned for title.
func (f *FakeOMDb) Respond(title, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[title] = body
}

// Requests returns the query of every request received so far.
func (f *FakeOMDb) Requests() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]url.Values, len(f.requests))
	copy(out, f.requests)
	return out
}

// Config returns a live client config pointing at the fake server.
func (f *FakeOMDb) Config(apiKey string) config.OMDBConfig {
	return config.OMDBConfig{
		APIKey:  apiKey,
		BaseURL: f.Server.URL,
		Timeout: 5,
		Mode:    config.OMDbModeLive,
	}
}

func (f *FakeOMDb) serve(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	f.mu.Lock()
	f.requests = append(f.requests, query)
	body, ok := f.responses[query.Get("s")]
	if !ok {
		body = f.fallback
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}
