package search

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/reelfinder/reelfinder/internal/messages"
	"github.com/reelfinder/reelfinder/internal/metadata"
	"github.com/reelfinder/reelfinder/internal/metadata/omdb"
	"github.com/reelfinder/reelfinder/internal/metrics"
)

// EventState is the broadcast type for session state changes.
const EventState = "search:state"

// Broadcaster is the interface for broadcasting messages.
type Broadcaster interface {
	Broadcast(msgType string, payload any) error
}

// StateEvent is the payload of EventState broadcasts.
type StateEvent struct {
	SessionID string `json:"sessionId"`
	State     State  `json:"state"`
}

// State is a snapshot of a session.
type State struct {
	Params       Params        `json:"params"`
	LoadedPage   int           `json:"loadedPage"`
	Results      []omdb.Result `json:"results"`
	TotalResults int           `json:"totalResults"`
	HasMorePages bool          `json:"hasMorePages"`
	Loading      bool          `json:"loading"`
	Messages     *messages.Map `json:"messages"`
	Sort         SortOptions   `json:"sort"`
}

// requestKey identifies a search invocation for deduplication.
type requestKey struct {
	rev  uint64
	page int
}

// sortedView memoizes the last sorted view of the accumulated results.
type sortedView struct {
	generation uint64
	opts       SortOptions
	results    []omdb.Result
	valid      bool
}

// Session is the state of one paginated title search: current params, the
// results accumulated across pages, loading flag and messages.
//
// The lock is never held while the client is called, so overlapping
// searches both settle and the last one to finish wins.
type Session struct {
	id     string
	client metadata.OMDBClient
	logger zerolog.Logger

	mu           sync.Mutex
	params       Params
	loadedPage   int
	results      []omdb.Result
	generation   uint64
	totalResults int
	loading      bool
	messages     *messages.Map
	last         requestKey
	hasLast      bool
	sorted       sortedView
	broadcaster  Broadcaster
}

// NewSession creates an empty session.
func NewSession(id string, client metadata.OMDBClient, logger zerolog.Logger) *Session {
	return &Session{
		id:         id,
		client:     client,
		logger:     logger.With().Str("session", id).Logger(),
		params:     NewParams("", "", ""),
		loadedPage: 1,
		results:    []omdb.Result{},
		messages:   messages.Empty(),
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// SetBroadcaster sets the broadcaster for state change events.
func (s *Session) SetBroadcaster(b Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcaster = b
}

// Params returns the current search params.
func (s *Session) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// UpdateParam replaces one field of the current params. The new params have
// a fresh identity. No search is run.
func (s *Session) UpdateParam(value, key string) (Params, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.params.With(key, value)
	if err != nil {
		return s.params, err
	}
	s.params = next
	return next, nil
}

// ExecuteSearch fetches one page for params.
//
// It does nothing if params (by identity) and page equal the previous call's.
// New params always start over at page 1 and replace the results; the same
// params with another page append to them. A failed search leaves the
// results untouched, records the error as the only global message and
// returns it. Params built without NewParams or With get a fresh identity.
func (s *Session) ExecuteSearch(ctx context.Context, params Params, page int) error {
	if page < 1 {
		page = 1
	}
	if params.rev == 0 {
		params.rev = nextRevision()
	}
	key := requestKey{rev: params.rev, page: page}

	s.mu.Lock()
	if s.hasLast && s.last == key {
		s.mu.Unlock()
		metrics.DeduplicatedSearchesTotal.Inc()
		s.logger.Debug().Str("title", params.Title).Int("page", page).Msg("Search unchanged, skipped")
		return nil
	}

	paramsChanged := !s.hasLast || s.last.rev != params.rev
	s.last, s.hasLast = key, true
	if paramsChanged {
		page = 1
	}
	s.params = params
	s.loadedPage = page
	s.loading = true
	s.messages = s.messages.Clear()
	s.mu.Unlock()

	s.broadcast()

	result, err := s.client.TitleSearch(ctx, params.titleSearch(page))

	s.mu.Lock()
	if err != nil {
		s.messages = s.messages.AddGlobal(messages.New(err.Error()))
	} else {
		s.totalResults = result.Count
		if page <= 1 || paramsChanged {
			s.results = slices.Clone(result.Results)
		} else {
			merged := make([]omdb.Result, 0, len(s.results)+len(result.Results))
			merged = append(merged, s.results...)
			s.results = append(merged, result.Results...)
		}
		if s.results == nil {
			s.results = []omdb.Result{}
		}
		s.generation++
	}
	s.loading = false
	loaded, total := len(s.results), s.totalResults
	s.mu.Unlock()

	s.broadcast()

	if err != nil {
		s.logger.Warn().Err(err).Str("title", params.Title).Int("page", page).Msg("Search failed")
		return err
	}

	s.logger.Debug().
		Str("title", params.Title).
		Int("page", page).
		Int("loaded", loaded).
		Int("total", total).
		Msg("Search completed")

	return nil
}

// LoadMore fetches the page after the last loaded one for the current
// params.
func (s *Session) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	params, next := s.params, s.loadedPage+1
	s.mu.Unlock()
	return s.ExecuteSearch(ctx, params, next)
}

// HasMorePages reports whether the server has more results than are loaded.
func (s *Session) HasMorePages() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results) < s.totalResults
}

// Loading reports whether a search is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Results returns a copy of the accumulated results in fetch order.
func (s *Session) Results() []omdb.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.results)
}

// Sorted returns the accumulated results ordered by opts. The view is
// memoized until the results or opts change; callers must not modify it.
func (s *Session) Sorted(opts SortOptions) []omdb.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked(opts)
}

func (s *Session) sortedLocked(opts SortOptions) []omdb.Result {
	if s.sorted.valid && s.sorted.generation == s.generation && s.sorted.opts == opts {
		return s.sorted.results
	}
	s.sorted = sortedView{
		generation: s.generation,
		opts:       opts,
		results:    Sort(s.results, opts),
		valid:      true,
	}
	return s.sorted.results
}

// Messages returns the current message map.
func (s *Session) Messages() *messages.Map {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages
}

// AddMessage appends a message under key.
func (s *Session) AddMessage(key string, msg messages.Message) {
	s.mu.Lock()
	s.messages = s.messages.Add(key, msg)
	s.mu.Unlock()
	s.broadcast()
}

// RemoveMessages drops every message under key.
func (s *Session) RemoveMessages(key string) {
	s.mu.Lock()
	s.messages = s.messages.Remove(key)
	s.mu.Unlock()
	s.broadcast()
}

// ClearMessages drops all messages.
func (s *Session) ClearMessages() {
	s.mu.Lock()
	s.messages = s.messages.Clear()
	s.mu.Unlock()
	s.broadcast()
}

// State returns a snapshot with results ordered by opts.
func (s *Session) State(opts SortOptions) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(opts, s.sortedLocked(opts))
}

func (s *Session) stateLocked(opts SortOptions, results []omdb.Result) State {
	return State{
		Params:       s.params,
		LoadedPage:   s.loadedPage,
		Results:      results,
		TotalResults: s.totalResults,
		HasMorePages: len(s.results) < s.totalResults,
		Loading:      s.loading,
		Messages:     s.messages,
		Sort:         opts,
	}
}

func (s *Session) broadcast() {
	s.mu.Lock()
	b := s.broadcaster
	if b == nil {
		s.mu.Unlock()
		return
	}
	// Broadcasts carry fetch order and leave the sorted view memo alone.
	state := s.stateLocked(SortOptions{Direction: SortAsc}, slices.Clone(s.results))
	s.mu.Unlock()

	if err := b.Broadcast(EventState, StateEvent{SessionID: s.id, State: state}); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to broadcast search state")
	}
}

// Topic scopes the event to its session for subscribers.
func (e StateEvent) Topic() string {
	return e.SessionID
}
