package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"spine/internal/shared/logger"
)

var (
	jobTracer          = otel.Tracer("spine/worker")
	jobMeter           = otel.Meter("spine/worker")
	jobDuration, _     = jobMeter.Float64Histogram("worker.job.duration", metric.WithDescription("Job execution duration in seconds"), metric.WithUnit("s"))
	jobTotal, _        = jobMeter.Int64Counter("worker.job.total", metric.WithDescription("Total jobs executed by status"))
	jobQueueDropped, _ = jobMeter.Int64Counter("worker.job.queue_dropped", metric.WithDescription("Jobs dropped due to full queue"))
)

var ErrQueueFull = errors.New("job queue full")

// Job is one unit of per-user work.
type Job interface {
	Execute(ctx context.Context) error
	UserID() string
	Description() string
}

// Pool runs jobs on a fixed number of goroutines. Callers must not submit two
// jobs for the same user; the domain services assume one pass per user at a
// time.
type Pool struct {
	workerCount int
	jobTimeout  time.Duration
	jobs        chan Job
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	log         zerolog.Logger

	mu       sync.Mutex
	done     int
	failures map[string]error
}

func NewPool(ctx context.Context, log zerolog.Logger, workerCount, queueSize int, jobTimeout time.Duration) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workerCount: workerCount,
		jobTimeout:  jobTimeout,
		jobs:        make(chan Job, queueSize),
		ctx:         ctx,
		cancel:      cancel,
		log:         log,
		failures:    make(map[string]error),
	}
}

func (p *Pool) Start() {
	p.log.Info().Int("workers", p.workerCount).Msg("starting worker pool")

	for i := 1; i <= p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			if err := p.ctx.Err(); err != nil {
				p.skip(job, err)
				continue
			}
			p.processJob(id, job)
		}
	}
}

func (p *Pool) processJob(workerID int, job Job) {
	l := p.log.With().
		Int("worker_id", workerID).
		Str("user_id", job.UserID()).
		Str("job", job.Description()).
		Logger()

	ctx := logger.WithContext(p.ctx, l)
	if p.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.jobTimeout)
		defer cancel()
	}

	ctx, span := jobTracer.Start(ctx, "job.execute",
		trace.WithAttributes(
			attribute.Int("worker.id", workerID),
			attribute.String("job.description", job.Description()),
			attribute.String("job.user_id", job.UserID()),
		),
	)
	defer span.End()

	start := time.Now()
	err := job.Execute(ctx)
	jobDuration.Record(ctx, time.Since(start).Seconds())

	p.mu.Lock()
	p.done++
	if err != nil {
		p.failures[job.UserID()] = err
	}
	p.mu.Unlock()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		l.Error().Err(err).Msg("job failed")
		return
	}

	jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "success")))
	l.Info().Dur("elapsed", time.Since(start)).Msg("job completed")
}

// skip records a job that never ran because the pool was cancelled.
func (p *Pool) skip(job Job, err error) {
	p.mu.Lock()
	p.failures[job.UserID()] = err
	p.mu.Unlock()

	jobTotal.Add(context.Background(), 1, metric.WithAttributes(attribute.String("status", "skipped")))
	p.log.Warn().Err(err).Str("user_id", job.UserID()).Str("job", job.Description()).Msg("job not run")
}

// Submit queues a job without blocking. It returns ErrQueueFull when the
// buffer is exhausted.
func (p *Pool) Submit(job Job) error {
	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	case p.jobs <- job:
		return nil
	default:
		jobQueueDropped.Add(context.Background(), 1)
		return fmt.Errorf("%w: dropping job for user %s", ErrQueueFull, job.UserID())
	}
}

// SubmitBatch queues jobs and returns how many were accepted.
func (p *Pool) SubmitBatch(jobs []Job) int {
	submitted := 0
	for _, job := range jobs {
		if err := p.Submit(job); err != nil {
			p.log.Warn().Err(err).Str("user_id", job.UserID()).Msg("failed to submit job")
			continue
		}
		submitted++
	}
	p.log.Info().Int("submitted", submitted).Int("total", len(jobs)).Msg("jobs submitted")
	return submitted
}

// Shutdown stops accepting jobs and waits for queued ones to finish. After
// timeout the remaining work is cancelled and jobs still queued are recorded
// as failures with the cancellation error.
func (p *Pool) Shutdown(timeout time.Duration) {
	close(p.jobs)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		p.log.Warn().Dur("timeout", timeout).Msg("worker pool timeout reached, cancelling jobs")
		p.cancel()
		<-done
	}
	p.cancel()

	for job := range p.jobs {
		p.skip(job, p.ctx.Err())
	}
}

// Report is the outcome of every submitted job. Completed counts jobs that
// ran; Failures also holds jobs cancelled before they started.
type Report struct {
	Completed int
	Failures  map[string]error
}

func (p *Pool) Report() Report {
	p.mu.Lock()
	defer p.mu.Unlock()

	failures := make(map[string]error, len(p.failures))
	for k, v := range p.failures {
		failures[k] = v
	}
	return Report{Completed: p.done, Failures: failures}
}
