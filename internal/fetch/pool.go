package fetch

import (
	"log/slog"
	"sync"
	"time"

	"github.com/packview/packview/internal/domain"
)

const (
	// DefaultWorkers is a small pool; thumbnails are the hot path and benefit
	// a lot from parallelism, but the archive is a shared public service.
	DefaultWorkers = 4

	idleSleep = 10 * time.Millisecond
)

// Pool runs a fixed number of workers that pop jobs, perform the blocking
// fetch, and push results. Workers never inspect navigation state; staleness
// is resolved entirely on the drain side so in-flight fetches never race on
// shared UI state.
type Pool struct {
	queue     *Queue
	transport domain.Transport
	logger    *slog.Logger

	workers int
	stop    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewPool creates a pool over the shared queue. workers <= 0 selects
// DefaultWorkers. A nil logger falls back to slog.Default().
func NewPool(queue *Queue, transport domain.Transport, workers int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{
		queue:     queue,
		transport: transport,
		logger:    logger,
		workers:   workers,
	}
}

// Start launches the workers. Calling Start on a running pool is a no-op.
func (p *Pool) Start() {
	if p.running {
		return
	}
	p.running = true
	p.stop = make(chan struct{})

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(i)
	}
	p.logger.Debug("fetch pool started", "workers", p.workers)
}

// Stop signals the workers and waits for them to exit. A worker midway
// through a fetch finishes that fetch first; no request is interrupted.
func (p *Pool) Stop() {
	if !p.running {
		return
	}
	p.running = false
	close(p.stop)
	p.wg.Wait()
	p.logger.Debug("fetch pool stopped")
}

func (p *Pool) run(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stop:
			return
		default:
		}

		job, ok := p.queue.PopJob()
		if !ok {
			select {
			case <-p.stop:
				return
			case <-time.After(idleSleep):
			}
			continue
		}

		p.queue.PushResult(p.fetch(job, id))
	}
}

func (p *Pool) fetch(job domain.Job, worker int) domain.Result {
	res := domain.Result{Job: job}

	resp, err := p.transport.Get(job.URL, job.CacheMode)
	res.Status = resp.Status
	res.Body = resp.Body
	res.FromCache = resp.FromCache
	res.Changed = resp.Changed
	if err != nil {
		res.Err = err.Error()
		p.logger.Debug("fetch failed",
			"worker", worker, "job", job.ID, "kind", job.Kind.String(), "url", job.URL, "error", err)
		return res
	}

	p.logger.Debug("fetch done",
		"worker", worker, "job", job.ID, "kind", job.Kind.String(),
		"status", res.Status, "bytes", len(res.Body), "cached", res.FromCache)
	return res
}
