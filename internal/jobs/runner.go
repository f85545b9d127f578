// internal/jobs/runner.go
package jobs

import (
	"context"
	"log/slog"

	"github.com/crewbase/crewbase/internal/service"
)

// Runner coordinates the scheduled background jobs.
type Runner struct {
	subscriptions *service.SubscriptionService
}

func NewRunner(subscriptions *service.SubscriptionService) *Runner {
	return &Runner{subscriptions: subscriptions}
}

// runWithRecovery wraps job execution with panic recovery so a single
// misbehaving job cannot take the scheduler down.
func (r *Runner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("job panicked", "job", jobName, "panic", rec)
		}
	}()

	slog.Info("starting job", "job", jobName)
	jobFunc()
	slog.Info("job completed", "job", jobName)
}

// SweepExpiredSubscriptions marks active subscriptions whose end date has
// passed as expired. Members of those companies lose access on their next
// login.
func (r *Runner) SweepExpiredSubscriptions() {
	r.runWithRecovery("SweepExpiredSubscriptions", func() {
		ctx := context.Background()

		n, err := r.subscriptions.ExpireLapsed(ctx)
		if err != nil {
			slog.Error("failed to sweep expired subscriptions", "error", err)
			return
		}

		if n > 0 {
			slog.Info("marked subscriptions expired", "count", n)
		}
	})
}
