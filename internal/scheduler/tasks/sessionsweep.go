package tasks

import (
	"context"

	"github.com/reelfinder/reelfinder/internal/config"
	"github.com/reelfinder/reelfinder/internal/scheduler"
	"github.com/reelfinder/reelfinder/internal/search"
)

const SessionSweepTaskID = "session-sweep"

// RegisterSessionSweepTask registers the task that evicts search sessions
// idle for longer than cfg.IdleTTL.
func RegisterSessionSweepTask(sched *scheduler.Scheduler, registry *search.Registry, cfg config.SessionsConfig) error {
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          SessionSweepTaskID,
		Name:        "Session Sweep",
		Description: "Removes idle search sessions",
		Cron:        cfg.SweepCron,
		Func: func(ctx context.Context) error {
			registry.SweepIdle(cfg.IdleTTL)
			return nil
		},
	})
}
