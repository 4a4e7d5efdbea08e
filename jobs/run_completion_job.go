// File: /jobs/run_completion_job.go
package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Completer credits runs whose start time has passed.
type Completer interface {
	CompleteDueRuns(ctx context.Context) (int, error)
}

// RunCompletionJob periodically closes past runs and updates runner stats.
type RunCompletionJob struct {
	completer Completer
	interval  time.Duration
	log       *zap.Logger

	ticker   *time.Ticker
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

func NewRunCompletionJob(completer Completer, interval time.Duration, log *zap.Logger) *RunCompletionJob {
	return &RunCompletionJob{
		completer: completer,
		interval:  interval,
		log:       log.Named("completion_job"),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

// Start runs one pass immediately and then one per interval.
func (j *RunCompletionJob) Start() {
	j.ticker = time.NewTicker(j.interval)
	j.log.Info("run completion job started", zap.Duration("interval", j.interval))

	go func() {
		defer close(j.stopped)
		j.complete()

		for {
			select {
			case <-j.ticker.C:
				j.complete()
			case <-j.done:
				j.log.Info("run completion job stopped")
				return
			}
		}
	}()
}

// Stop halts the job and waits for an in-flight pass to finish. Safe to call twice.
func (j *RunCompletionJob) Stop() {
	j.stopOnce.Do(func() {
		if j.ticker == nil {
			return
		}
		j.ticker.Stop()
		close(j.done)
		<-j.stopped
	})
}

func (j *RunCompletionJob) complete() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval)
	defer cancel()

	n, err := j.completer.CompleteDueRuns(ctx)
	if err != nil {
		j.log.Error("run completion failed", zap.Error(err))
		return
	}
	if n > 0 {
		j.log.Info("runs completed", zap.Int("count", n))
	}
}
