// Package background runs best-effort side effects off the request path.
//
// Tasks may be dropped under load or failure. Errors are logged and counted,
// never returned to the submitter.
package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/phonedex-backend/pkg/logger"
	"github.com/angelmondragon/phonedex-backend/pkg/metrics"
)

const (
	defaultWorkers   = 4
	defaultQueueSize = 1024
	defaultTimeout   = 5 * time.Second
)

// ErrStopped is returned by Shutdown when called twice.
var ErrStopped = errors.New("dispatcher already stopped")

// Task is a named unit of fire-and-forget work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Submitter is the surface handed to services.
type Submitter interface {
	Submit(ctx context.Context, task Task) bool
}

// Options configure a Dispatcher.
type Options struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
	Logger      *logger.Logger
	Metrics     *metrics.BackgroundMetrics
}

type queued struct {
	task   Task
	logCtx context.Context
}

// Dispatcher is a bounded queue drained by a fixed worker pool.
type Dispatcher struct {
	queue   chan queued
	timeout time.Duration
	logg    *logger.Logger
	metrics *metrics.BackgroundMetrics

	wg       sync.WaitGroup
	mu       sync.RWMutex
	stopped  bool
	baseCtx  context.Context
	cancelFn context.CancelFunc
}

// New starts the worker pool.
func New(opts Options) (*Dispatcher, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	size := opts.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	timeout := opts.TaskTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	baseCtx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		queue:    make(chan queued, size),
		timeout:  timeout,
		logg:     opts.Logger,
		metrics:  opts.Metrics,
		baseCtx:  baseCtx,
		cancelFn: cancel,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d, nil
}

// Submit enqueues the task without blocking. It reports false when the task
// was dropped because the queue is full or the dispatcher is stopping.
//
// The task never sees the caller's cancellation; only request-scoped log
// fields are carried over.
func (d *Dispatcher) Submit(ctx context.Context, task Task) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	if task.Run == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		d.drop(ctx, task, "dispatcher stopped")
		return false
	}
	select {
	case d.queue <- queued{task: task, logCtx: context.WithoutCancel(ctx)}:
		d.metrics.SetQueueDepth(len(d.queue))
		return true
	default:
		d.drop(ctx, task, "queue full")
		return false
	}
}

func (d *Dispatcher) drop(ctx context.Context, task Task, reason string) {
	d.metrics.Observe(task.Name, metrics.OutcomeDropped)
	logCtx := d.logg.WithFields(ctx, map[string]any{
		"task":   task.Name,
		"reason": reason,
	})
	d.logg.Warn(logCtx, "background.task.dropped")
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for item := range d.queue {
		d.metrics.SetQueueDepth(len(d.queue))
		if d.baseCtx.Err() != nil {
			d.drop(item.logCtx, item.task, "shutdown deadline exceeded")
			continue
		}
		d.run(item)
	}
}

func (d *Dispatcher) run(item queued) {
	ctx, cancel := context.WithTimeout(d.baseCtx, d.timeout)
	defer cancel()
	ctx = mergeLogFields(ctx, item.logCtx)

	err := safeRun(ctx, item.task.Run)
	if err != nil {
		d.metrics.Observe(item.task.Name, metrics.OutcomeFailed)
		logCtx := d.logg.WithField(ctx, "task", item.task.Name)
		d.logg.Error(logCtx, "background.task.failed", err)
		return
	}
	d.metrics.Observe(item.task.Name, metrics.OutcomeSucceeded)
}

func safeRun(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

// Shutdown stops accepting tasks and waits for the queue to drain. Tasks
// still queued when ctx expires are abandoned and their contexts canceled.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return ErrStopped
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	var errs error
	select {
	case <-done:
	case <-ctx.Done():
		errs = multierr.Append(errs, fmt.Errorf("drain background queue: %w", ctx.Err()))
		d.cancelFn()
		<-done
	}
	d.cancelFn()
	return errs
}

// mergeLogFields copies logger fields from the submitting request onto the
// worker context.
func mergeLogFields(ctx, from context.Context) context.Context {
	return logger.CopyFields(ctx, from)
}
