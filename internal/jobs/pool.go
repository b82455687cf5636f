package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"vidsqueeze/internal/ffmpeg"
)

// Worker count bounds for the pool.
const (
	DefaultWorkers = 2
	MinWorkers     = 1
	MaxWorkers     = 8
)

// ClampWorkers constrains a requested worker count to the valid range.
func ClampWorkers(n int) int {
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// Processor runs one job to completion, returning the resulting file size.
// Satisfied by compress.Compressor via a small adapter in the caller.
type Processor func(ctx context.Context, job *Job) (sizeMB float64, err error)

// Pool dispatches queued jobs onto a fixed set of background workers. The
// queue is an unbounded FIFO safe for concurrent producers and consumers;
// Submit never blocks the submitter. Each worker processes one job at a time
// to a terminal state before dequeuing the next, so jobs start in submission
// order per worker availability. There are no retries and no per-job
// cancellation; context cancellation stops workers between jobs.
type Pool struct {
	mu        sync.Mutex
	cond      *sync.Cond
	queue     []*Job
	closed    bool
	cancelled bool
	succeeded int
	failed    int

	workers  int
	wg       sync.WaitGroup
	process  Processor
	notifier Notifier
	log      zerolog.Logger
}

// NewPool creates a pool with the given worker count (clamped), processor,
// and notifier. Call Start to launch the workers.
func NewPool(workers int, process Processor, notifier Notifier, log zerolog.Logger) *Pool {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	p := &Pool{
		workers:  ClampWorkers(workers),
		process:  process,
		notifier: notifier,
		log:      log,
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Start launches the worker goroutines. Cancelling ctx wakes idle workers
// and lets busy ones stop after their current job; jobs still queued at
// that point are failed so every submitted job reaches a terminal state.
func (p *Pool) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		p.mu.Lock()
		p.cancelled = true
		abandoned := p.queue
		p.queue = nil
		p.failed += len(abandoned)
		p.cond.Broadcast()
		p.mu.Unlock()

		// No worker can reach these jobs anymore, so they are safe to
		// mutate outside the lock.
		for _, job := range abandoned {
			job.Status = StatusFailed
			job.Error = "cancelled before start"
			p.notifier.JobFailed(job)
		}
	}()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Submit enqueues a job without blocking. Submitting after Close or after
// cancellation does not enqueue; the job is marked failed so it is never
// silently lost.
func (p *Pool) Submit(job *Job) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.cancelled {
		job.Status = StatusFailed
		job.Error = "pool closed"
		p.failed++
		return
	}
	p.queue = append(p.queue, job)
	p.cond.Signal()
}

// Close stops intake. Workers drain the remaining queue and exit.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
}

// Wait blocks until all workers have exited. Call after Close (or after
// context cancellation).
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Counts returns how many jobs reached each terminal state so far.
func (p *Pool) Counts() (succeeded, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.succeeded, p.failed
}

// dequeue blocks until a job is available, the pool is closed with an empty
// queue, or the context is cancelled. Returns nil when the worker should exit.
func (p *Pool) dequeue() *Job {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) == 0 && !p.closed && !p.cancelled {
		p.cond.Wait()
	}
	if p.cancelled || len(p.queue) == 0 {
		return nil
	}
	job := p.queue[0]
	p.queue = p.queue[1:]
	return job
}

// worker is the per-goroutine loop: dequeue, run to a terminal state, repeat.
// All processing errors are converted into a failed job outcome; nothing
// propagates far enough to crash the process.
func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	log := p.log.With().Int("worker", id).Logger()

	for {
		job := p.dequeue()
		if job == nil {
			return
		}
		p.run(ctx, log, job)
	}
}

func (p *Pool) run(ctx context.Context, log zerolog.Logger, job *Job) {
	job.Status = StatusRunning
	job.StartedAt = time.Now()
	p.notifier.JobStarted(job)

	sizeMB, err := p.process(ctx, job)
	job.CompletedAt = time.Now()

	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()

		var encErr *ffmpeg.EncodeError
		if errors.As(err, &encErr) && encErr.Stderr != "" {
			log.Debug().
				Str("job_id", job.ID).
				Str("stderr", tail(encErr.Stderr, 2048)).
				Msg("transcoder output")
		}

		p.mu.Lock()
		p.failed++
		p.mu.Unlock()
		p.notifier.JobFailed(job)
		return
	}

	job.Status = StatusSucceeded
	job.SizeMB = sizeMB
	p.mu.Lock()
	p.succeeded++
	p.mu.Unlock()
	p.notifier.JobSucceeded(job)
}

// tail returns the last n bytes of s; the cut may land mid-line.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
