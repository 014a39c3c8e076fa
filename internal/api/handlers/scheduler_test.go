package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelfinder/reelfinder/internal/scheduler"
)

func TestSchedulerHandler(t *testing.T) {
	sched, err := scheduler.New(zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sched.Stop() })

	require.NoError(t, sched.RegisterTask(scheduler.TaskConfig{
		ID:   "noop",
		Name: "Noop",
		Cron: "0 0 1 1 *",
		Func: func(context.Context) error { return nil },
	}))

	e := echo.New()
	NewSchedulerHandler(sched).RegisterRoutes(e.Group("/api/v1/scheduler"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/scheduler/tasks", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var tasks []scheduler.TaskInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "noop", tasks[0].ID)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/scheduler/tasks/noop/run", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/scheduler/tasks/missing/run", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
