// Package worker provides an asynchronous worker pool for persisting audit
// events via the provided audit.Driver.
//
// The pool decouples audit storage from the gateway's HTTP hot path: a chat
// request is answered as soon as the pipeline resolves it, and the audit
// entry lands in the store in the background.
package worker

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/papercomputeco/aegis/pkg/audit"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
)

// Job is a unit of work for the worker pool to execute against.
type Job struct {
	Event *audit.Event
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Driver is the storage backend for persisting audit events.
	Driver audit.Driver

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger is the provided zap logger
	Logger *zap.Logger
}

// Pool processes audit storage jobs asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan Job
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	p := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: c.Logger,
	}

	p.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go p.worker(i)
	}

	return p, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the job
// being dropped.
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.queue <- job:
		p.logger.Debug("audit job queued",
			zap.String("outcome", job.Event.Outcome),
		)
		return true
	default:
		p.logger.Error("audit job not queued, queue full, job dropped",
			zap.String("outcome", job.Event.Outcome),
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// Call this during graceful shutdown after the HTTP server has stopped.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

// worker is the inner worker goroutine that continuously pulls jobs off the
// queue.
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("audit worker started", zap.Uint("worker_id", id))

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("audit worker stopped", zap.Uint("worker_id", id))
}

// processJob persists a single audit event. Errors are logged, not
// propagated; audit storage failure never fails a served request.
func (p *Pool) processJob(job Job) {
	if err := p.config.Driver.Append(context.Background(), job.Event); err != nil {
		p.logger.Error("async audit storage failed",
			zap.String("event_id", job.Event.ID),
			zap.Error(err),
		)
		return
	}

	p.logger.Debug("audit event stored",
		zap.String("event_id", job.Event.ID),
		zap.String("outcome", job.Event.Outcome),
	)
}
