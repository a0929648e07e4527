// Package jobs runs review pipeline executions asynchronously in-process.
// Enqueuing returns immediately with a job handle; a bounded worker pool
// drains the queue. A job that fails is not requeued: the pipeline records
// the failure on the review itself, so queue-level retry would only mask
// permanent conditions.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/veridia/clauseguard/pkg/lifecycle"
)

// ErrQueueFull is returned when the job queue cannot accept more work.
var ErrQueueFull = errors.New("job queue is full")

// ErrStopped is returned when enqueueing after shutdown has begun.
var ErrStopped = errors.New("job dispatcher is stopped")

// ProcessFunc executes the pipeline for one review.
type ProcessFunc func(ctx context.Context, reviewID uuid.UUID) error

type job struct {
	id       string
	reviewID uuid.UUID
}

// Dispatcher queues review processing jobs and executes them on a worker pool.
type Dispatcher struct {
	process ProcessFunc
	queue   chan job
	logger  *slog.Logger
	workers int

	mu      sync.Mutex
	stopped bool
}

// Options configures a dispatcher.
type Options struct {
	Process   ProcessFunc
	Workers   int
	QueueSize int
	Logger    *slog.Logger
}

// New creates a dispatcher. Workers defaults to 1 and QueueSize to 64.
func New(opts Options) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Dispatcher{
		process: opts.Process,
		queue:   make(chan job, opts.QueueSize),
		logger:  opts.Logger.With("system", "jobs"),
		workers: opts.Workers,
	}
}

// Start launches the worker pool under the lifecycle coordinator. Workers
// drain the queue until the coordinator's context is cancelled, then finish
// any job already picked up.
func (d *Dispatcher) Start(lc *lifecycle.Coordinator) {
	ctx := lc.Context()

	var workerWg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		workerWg.Add(1)
		go func() {
			defer workerWg.Done()
			d.work(ctx)
		}()
	}

	lc.OnShutdown(func() {
		<-ctx.Done()
		d.stop()
		workerWg.Wait()
		d.logger.Info("job workers stopped")
	})

	d.logger.Info("job workers started", "workers", d.workers)
}

// Enqueue schedules pipeline processing for a review and returns the job id.
func (d *Dispatcher) Enqueue(_ context.Context, reviewID uuid.UUID) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return "", ErrStopped
	}

	j := job{id: uuid.NewString(), reviewID: reviewID}
	select {
	case d.queue <- j:
		d.logger.Info("job enqueued", "job_id", j.id, "review_id", reviewID)
		return j.id, nil
	default:
		return "", ErrQueueFull
	}
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// Drain whatever is already queued so accepted work is not lost.
			for {
				select {
				case j := <-d.queue:
					d.execute(context.Background(), j)
				default:
					return
				}
			}
		case j := <-d.queue:
			d.execute(ctx, j)
		}
	}
}

func (d *Dispatcher) execute(ctx context.Context, j job) {
	if err := d.process(ctx, j.reviewID); err != nil {
		d.logger.Error("job failed", "job_id", j.id, "review_id", j.reviewID, "error", err)
		return
	}
	d.logger.Info("job completed", "job_id", j.id, "review_id", j.reviewID)
}

func (d *Dispatcher) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
}
