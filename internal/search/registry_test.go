package search

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateGetDelete(t *testing.T) {
	r := NewRegistry(&stubClient{}, zerolog.Nop())

	s := r.Create()
	_, err := uuid.Parse(s.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	got, err := r.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, r.Delete(s.ID()))
	_, err = r.Get(s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, r.Delete(s.ID()), ErrSessionNotFound)
}

func TestRegistry_SweepIdle(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(&stubClient{}, zerolog.Nop())
	r.now = func() time.Time { return now }

	stale := r.Create()
	now = now.Add(20 * time.Minute)
	fresh := r.Create()

	now = now.Add(15 * time.Minute)
	removed := r.SweepIdle(30 * time.Minute)

	assert.Equal(t, 1, removed)
	_, err := r.Get(stale.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = r.Get(fresh.ID())
	assert.NoError(t, err)
}

func TestRegistry_GetRefreshesAccess(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(&stubClient{}, zerolog.Nop())
	r.now = func() time.Time { return now }

	s := r.Create()
	now = now.Add(25 * time.Minute)
	_, err := r.Get(s.ID())
	require.NoError(t, err)

	now = now.Add(25 * time.Minute)
	assert.Equal(t, 0, r.SweepIdle(30*time.Minute))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_PassesBroadcaster(t *testing.T) {
	b := &recordingBroadcaster{}
	r := NewRegistry(&stubClient{}, zerolog.Nop())
	r.SetBroadcaster(b)

	s := r.Create()
	s.ClearMessages()

	require.Len(t, b.Events(), 1)
	assert.Equal(t, s.ID(), b.Events()[0].SessionID)
}

func TestRegistry_SessionLogsOneComponent(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry(&stubClient{perPage: 1, total: 1}, zerolog.New(&buf).Level(zerolog.DebugLevel))

	s := r.Create()
	require.NoError(t, s.ExecuteSearch(context.Background(), NewParams("matrix", "", ""), 1))

	var line string
	for _, l := range strings.Split(buf.String(), "\n") {
		if strings.Contains(l, "Search completed") {
			line = l
		}
	}
	require.NotEmpty(t, line)
	assert.Equal(t, 1, strings.Count(line, `"component"`))
	assert.Contains(t, line, `"component":"search"`)
	assert.Contains(t, line, `"session":"`+s.ID()+`"`)
}
