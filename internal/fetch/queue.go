// Package fetch implements the download pipeline behind the archive browser:
// a priority-ordered job queue, a FIFO of completed results, and a small pool
// of workers that moves jobs from one to the other.
package fetch

import (
	"sync"

	"github.com/packview/packview/internal/domain"
)

// Queue holds pending jobs and completed results. Both lists share one lock;
// they are the only state visible across threads. The consumer side (drain,
// sweeps, pagination) runs on a single goroutine and needs no locking of its
// own.
type Queue struct {
	mu      sync.Mutex
	jobs    []domain.Job
	results []domain.Result
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue inserts a job under the priority policy:
//
//  1. Spider jobs go to the tail, whatever their kind: cache warming never
//     outranks anything the user asked for.
//  2. RawDownload goes to the head: it is a direct user action and preempts
//     all background work.
//  3. Navigation jobs (lists, details, drills) go immediately before the first
//     queued thumbnail or spider job, so fresh pack contents are not starved
//     behind a thumbnail backlog.
//  4. Thumbnails go before the first spider job.
//
// Raw downloads stack newest-first; within the other bands insertion order
// is preserved.
func (q *Queue) Enqueue(job domain.Job) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if job.Spider {
		q.jobs = append(q.jobs, job)
		return
	}

	if job.Kind == domain.RawDownload {
		q.jobs = append([]domain.Job{job}, q.jobs...)
		return
	}

	if job.Kind.IsNavigation() {
		q.insertBefore(job, func(j domain.Job) bool {
			return j.Kind == domain.ThumbnailFetch || j.Spider
		})
		return
	}

	if job.Kind == domain.ThumbnailFetch {
		q.insertBefore(job, func(j domain.Job) bool { return j.Spider })
		return
	}

	q.jobs = append(q.jobs, job)
}

// insertBefore places job in front of the first queued job matching pred,
// or at the tail when none matches. Caller holds the lock.
func (q *Queue) insertBefore(job domain.Job, pred func(domain.Job) bool) {
	for i, j := range q.jobs {
		if pred(j) {
			q.jobs = append(q.jobs[:i], append([]domain.Job{job}, q.jobs[i:]...)...)
			return
		}
	}
	q.jobs = append(q.jobs, job)
}

// PopJob removes and returns the highest-priority pending job.
func (q *Queue) PopJob() (domain.Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return domain.Job{}, false
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job, true
}

// PushResult appends a completed result.
func (q *Queue) PushResult(res domain.Result) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.results = append(q.results, res)
}

// DrainResults removes and returns all currently available results in
// completion order. It never blocks.
func (q *Queue) DrainResults() []domain.Result {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.results) == 0 {
		return nil
	}
	out := q.results
	q.results = nil
	return out
}

// RemoveJobsWhere drops queued jobs matching pred. Jobs already claimed by a
// worker are not affected; cancellation only prevents future work.
func (q *Queue) RemoveJobsWhere(pred func(domain.Job) bool) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.jobs[:0]
	removed := 0
	for _, j := range q.jobs {
		if pred(j) {
			removed++
			continue
		}
		kept = append(kept, j)
	}
	q.jobs = kept
	return removed
}

// RemoveResultsWhere drops undrained results matching pred.
func (q *Queue) RemoveResultsWhere(pred func(domain.Result) bool) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.results[:0]
	removed := 0
	for _, r := range q.results {
		if pred(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	q.results = kept
	return removed
}

// PendingJobs returns the number of queued (not yet claimed) jobs.
func (q *Queue) PendingJobs() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// PendingResults returns the number of undrained results.
func (q *Queue) PendingResults() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.results)
}
