package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Intervals runs named periodic jobs on a cron scheduler. A job that is
// still running when its next tick fires is skipped.
type Intervals struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID
	logger  *zap.Logger
	started bool
}

// NewIntervals creates a stopped scheduler.
func NewIntervals(logger *zap.Logger) *Intervals {
	adapter := cronLogger{logger: logger.Sugar()}
	return &Intervals{
		cron: cron.New(
			cron.WithLogger(adapter),
			cron.WithChain(cron.Recover(adapter), cron.SkipIfStillRunning(adapter)),
		),
		entries: make(map[string]cron.EntryID),
		logger:  logger,
	}
}

// Every registers fn under name to run every d. Registering the same name
// again replaces the previous job.
func (i *Intervals) Every(name string, d time.Duration, fn func()) error {
	if d < time.Second {
		return fmt.Errorf("interval %q: period %s below one second", name, d)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if id, ok := i.entries[name]; ok {
		i.cron.Remove(id)
	}
	i.entries[name] = i.cron.Schedule(cron.Every(d), cron.FuncJob(fn))
	i.logger.Debug("Interval registered", zap.String("job", name), zap.Duration("every", d))
	return nil
}

// Names returns the registered job names.
func (i *Intervals) Names() []string {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]string, 0, len(i.entries))
	for name := range i.entries {
		out = append(out, name)
	}
	return out
}

// Start begins running jobs. It is a no-op when already started.
func (i *Intervals) Start() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.started {
		return
	}
	i.started = true
	i.cron.Start()
}

// Stop halts the scheduler and waits for running jobs or ctx.
func (i *Intervals) Stop(ctx context.Context) {
	i.mu.Lock()
	if !i.started {
		i.mu.Unlock()
		return
	}
	i.started = false
	done := i.cron.Stop()
	i.mu.Unlock()

	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
