// Package spider implements the opt-in background crawler that walks the
// archive and warms the HTTP cache while the user is idle. Its jobs ride the
// same queue as everything else at the lowest priority, so any interactive
// request starves it automatically.
package spider

import (
	"hash/fnv"
	"log/slog"
	"time"

	"github.com/packview/packview/internal/archive"
	"github.com/packview/packview/internal/domain"
	"github.com/packview/packview/internal/fetch"
)

const (
	// maxInFlight caps how many spider jobs sit in the queue at once, so a
	// burst of discovered links can't crowd the job list.
	maxInFlight = 2

	// idleDelay is how long the queue must be free of interactive work
	// before the spider feeds it again.
	idleDelay = 2 * time.Second

	// failureBackoffBase doubles per consecutive failure, capped below.
	failureBackoffBase = 5 * time.Second
	failureBackoffMax  = 5 * time.Minute

	// inFlightTimeout releases in-flight slots whose jobs were removed by a
	// navigation sweep and will never produce a result.
	inFlightTimeout = 30 * time.Second
)

// Spider crawls the archive breadth-first: the year index seeds per-year
// pack lists, those seed pack details, and details seed thumbnails and raw
// files. Every URL is fetched at most once per run.
type Spider struct {
	queue  *fetch.Queue
	ep     archive.Endpoints
	logger *slog.Logger

	enabled      bool
	frontier     []domain.Job
	seen         map[uint64]struct{}
	inFlight     int
	lastDispatch time.Time

	consecutiveFailures int
	pausedUntil         time.Time
	lastUserActivity    time.Time

	now func() time.Time
}

// New creates a disabled spider; call SetEnabled(true) to start feeding.
func New(queue *fetch.Queue, ep archive.Endpoints, logger *slog.Logger) *Spider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Spider{
		queue:  queue,
		ep:     ep,
		logger: logger,
		seen:   make(map[uint64]struct{}),
		now:    time.Now,
	}
}

// SetEnabled toggles crawling. Enabling seeds the frontier with the year
// index and the latest feed; disabling drops the frontier but keeps the seen
// set, so re-enabling doesn't refetch.
func (s *Spider) SetEnabled(enabled bool) {
	if enabled == s.enabled {
		return
	}
	s.enabled = enabled
	if !enabled {
		s.frontier = nil
		s.queue.RemoveJobsWhere(func(j domain.Job) bool { return j.Spider })
		return
	}
	s.push(s.ep.YearList(), domain.ListPage, "", "")
	s.push(s.ep.Latest(), domain.ListPage, "", "")
	s.logger.Info("spider enabled")
}

// Enabled reports whether the spider is feeding the queue.
func (s *Spider) Enabled() bool { return s.enabled }

// NoteUserActivity postpones crawling; called on every user-initiated fetch.
func (s *Spider) NoteUserActivity() {
	s.lastUserActivity = s.now()
}

// Tick moves frontier entries into the job queue when the user is idle and
// the queue has no interactive work. Called once per UI cycle.
func (s *Spider) Tick() {
	if !s.enabled || len(s.frontier) == 0 {
		return
	}
	now := s.now()
	// A sweep can remove queued spider jobs or their undrained results, so
	// a slot may never see OnResult. Age stale slots out instead of
	// stalling forever.
	if s.inFlight > 0 && now.Sub(s.lastDispatch) > inFlightTimeout {
		s.inFlight = 0
	}
	if now.Before(s.pausedUntil) {
		return
	}
	if now.Sub(s.lastUserActivity) < idleDelay {
		return
	}
	// Yield whenever anything interactive is queued.
	if s.queue.PendingJobs() > s.inFlight {
		return
	}

	for s.inFlight < maxInFlight && len(s.frontier) > 0 {
		job := s.frontier[0]
		s.frontier = s.frontier[1:]
		s.inFlight++
		s.lastDispatch = now
		s.queue.Enqueue(job)
	}
}

// OnResult consumes a drained spider result, expanding the frontier from
// list and detail payloads. Fetch failures back off exponentially.
func (s *Spider) OnResult(res domain.Result) {
	if s.inFlight > 0 {
		s.inFlight--
	}
	if res.Failed() {
		s.consecutiveFailures++
		backoff := failureBackoffBase << min(s.consecutiveFailures-1, 6)
		if backoff > failureBackoffMax {
			backoff = failureBackoffMax
		}
		s.pausedUntil = s.now().Add(backoff)
		s.logger.Debug("spider fetch failed",
			"url", res.Job.URL,
			"error", res.Err,
			"backoff", backoff)
		return
	}
	s.consecutiveFailures = 0

	switch res.Job.Kind {
	case domain.ListPage:
		s.expandList(res)
	case domain.DetailFetch:
		s.expandDetail(res)
	case domain.ThumbnailFetch, domain.RawDownload:
		// Leaf fetches exist only to warm the cache.
	}
}

// Remaining returns the frontier size, for the status line.
func (s *Spider) Remaining() int { return len(s.frontier) }

func (s *Spider) expandList(res domain.Result) {
	// The year index lists years; anything else lists packs.
	if res.Job.URL == s.ep.YearList() {
		years, err := archive.ParseYearIndex(res.Body)
		if err != nil {
			return
		}
		for _, y := range years {
			s.push(s.ep.YearPacks(y.Year, true, ""), domain.ListPage, "", "")
		}
		return
	}

	packs := parseAnyPackList(res.Body)
	for _, p := range packs {
		s.push(s.ep.PackDetail(p.Name), domain.DetailFetch, p.Name, "")
	}
}

func (s *Spider) expandDetail(res domain.Result) {
	detail, err := archive.ParsePackDetail(res.Body, res.Job.ContextKey, s.ep)
	if err != nil {
		return
	}
	for _, f := range detail.Files {
		if f.ThumbnailURL != "" {
			s.push(f.ThumbnailURL, domain.ThumbnailFetch, detail.Name, f.Name)
		}
		s.push(s.ep.Raw(detail.Name, f.Name), domain.RawDownload, detail.Name, f.Name)
	}
}

// parseAnyPackList tries the list shapes a spider URL can return.
func parseAnyPackList(body []byte) []domain.PackRow {
	if rows, err := archive.ParseYearPacks(body); err == nil && len(rows) > 0 {
		return rows
	}
	if rows, _, err := archive.ParsePackList(body); err == nil && len(rows) > 0 {
		return rows
	}
	if rows, err := archive.ParseLatest(body); err == nil {
		return rows
	}
	return nil
}

// push appends a job to the frontier unless its URL was already visited.
func (s *Spider) push(url string, kind domain.JobKind, contextKey, filename string) {
	if url == "" {
		return
	}
	h := fnv.New64a()
	h.Write([]byte(url))
	key := h.Sum64()
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}

	job := domain.NewJob(url, kind, contextKey, filename, 0)
	job.Spider = true
	s.frontier = append(s.frontier, job)
}
