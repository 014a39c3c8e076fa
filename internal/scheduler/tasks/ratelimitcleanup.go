package tasks

import (
	"context"

	"github.com/reelfinder/reelfinder/internal/api/ratelimit"
	"github.com/reelfinder/reelfinder/internal/scheduler"
)

const RateLimitCleanupTaskID = "ratelimit-cleanup"

// RegisterRateLimitCleanupTask registers the task that forgets idle client
// buckets of the API rate limiter.
func RegisterRateLimitCleanupTask(sched *scheduler.Scheduler, limiter *ratelimit.IPLimiter) error {
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          RateLimitCleanupTaskID,
		Name:        "Rate Limit Cleanup",
		Description: "Drops rate limiter buckets of idle clients",
		Cron:        "*/10 * * * *",
		Func: func(ctx context.Context) error {
			limiter.Cleanup()
			return nil
		},
	})
}
