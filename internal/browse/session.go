// Package browse holds the consumer side of the download pipeline: the
// navigation state, the per-URL thumbnail cache, and the drain step that
// applies completed fetch results once per UI cycle.
package browse

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/packview/packview/internal/archive"
	"github.com/packview/packview/internal/domain"
	"github.com/packview/packview/internal/fetch"
	"github.com/packview/packview/internal/imaging"
)

const (
	defaultPackPageSize = 50
	defaultRootPageSize = 80
)

// pagedList accumulates rows for one infinite-scrolling list facet.
type pagedList[T any] struct {
	rows       []T
	pages      int // total pages reported by the server, 0 until known
	nextPage   int // advances only after a page's result drains successfully
	pending    bool
	pendingURL string
}

func (l *pagedList[T]) reset() {
	l.rows = nil
	l.pages = 0
	l.nextPage = 1
	l.pending = false
	l.pendingURL = ""
}

// Session owns all navigation and cache state for one browser window. All of
// it is confined to the consumer goroutine; the only cross-thread state is
// the fetch queue.
type Session struct {
	queue     *fetch.Queue
	ep        archive.Endpoints
	decoder   domain.ImageDecoder
	callbacks domain.Callbacks
	logger    *slog.Logger

	// SpiderResult, when set, receives results from spider jobs instead of
	// the normal dispatch. Spider work never touches session state.
	SpiderResult func(domain.Result)

	mode  domain.BrowseMode
	drill bool // left column shows the drill-down pack list

	filter       string
	pageSize     int
	rootPageSize int

	groupSort  string // "name" | "packs"
	groupOrder string // "asc" | "desc"

	artistSortByReleases bool
	artistDesc           bool

	yearIncludeMags bool

	dirty bool

	packs   pagedList[domain.PackRow]
	groups  pagedList[domain.GroupRow]
	artists pagedList[domain.ArtistRow]

	years        []domain.YearRow
	yearsPending bool

	latest        []domain.PackRow
	latestPending bool

	drillRows    []domain.PackRow
	drillPending bool
	drillKey     string // group/artist/year identifier for staleness checks

	selectedPack   string
	selectedGroup  string
	selectedArtist string
	selectedYear   int

	detail        *domain.PackDetail
	detailPending bool

	thumbs     map[string]*thumbEntry
	rawPending int
	lastError  string

	autoSelectedLatest bool
	autoSelectedDrill  bool
}

// NewSession creates a session in Latest mode, mirroring the archive's
// landing view.
func NewSession(queue *fetch.Queue, ep archive.Endpoints, decoder domain.ImageDecoder, cb domain.Callbacks, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		queue:        queue,
		ep:           ep,
		decoder:      decoder,
		callbacks:    cb,
		logger:       logger,
		mode:         domain.ModeLatest,
		pageSize:     defaultPackPageSize,
		rootPageSize: defaultRootPageSize,
		groupSort:    "packs",
		groupOrder:   "desc",

		artistSortByReleases: true,
		artistDesc:           true,

		dirty:  true,
		thumbs: make(map[string]*thumbEntry),
	}
}

// === Navigation ===

// SetMode switches the top-level browse facet. Queued non-raw work and
// undrained non-raw results are swept; explicit user downloads always
// survive.
func (s *Session) SetMode(mode domain.BrowseMode) {
	if mode == s.mode {
		return
	}
	s.mode = mode
	s.drill = false
	s.selectedGroup = ""
	s.selectedArtist = ""
	s.selectedYear = 0
	s.drillRows = nil
	s.drillKey = ""
	s.dirty = true
	s.autoSelectedDrill = false
	if mode == domain.ModeLatest {
		s.autoSelectedLatest = false
	}
	s.sweepNonRaw()
}

// SetFilter updates the server-side substring filter and marks the current
// list for refetch.
func (s *Session) SetFilter(filter string) {
	if filter == s.filter {
		return
	}
	s.filter = filter
	s.dirty = true
}

// SetGroupSort updates group list ordering ("name"/"packs", "asc"/"desc").
func (s *Session) SetGroupSort(sort, order string) {
	if sort == s.groupSort && order == s.groupOrder {
		return
	}
	s.groupSort = sort
	s.groupOrder = order
	s.dirty = true
}

// SetArtistSort updates the client-side artist ordering.
func (s *Session) SetArtistSort(byReleases, desc bool) {
	s.artistSortByReleases = byReleases
	s.artistDesc = desc
}

// SetPageSizes overrides the pack and group/artist list page sizes.
func (s *Session) SetPageSizes(packPageSize, rootPageSize int) {
	if packPageSize > 0 {
		s.pageSize = packPageSize
	}
	if rootPageSize > 0 {
		s.rootPageSize = rootPageSize
	}
}

// SetYearIncludeMags toggles magazines in year drill-downs.
func (s *Session) SetYearIncludeMags(include bool) {
	if include == s.yearIncludeMags {
		return
	}
	s.yearIncludeMags = include
	s.dirty = true
}

// SelectPack loads a pack's contents into the gallery. The thumbnail cache is
// scoped to the current pack and is dropped wholesale, along with any queued
// thumbnail/detail work for the previous pack.
func (s *Session) SelectPack(name string) {
	if name == "" {
		return
	}
	s.selectedPack = name
	s.detail = nil
	s.thumbs = make(map[string]*thumbEntry)
	if s.mode == domain.ModeLatest {
		s.autoSelectedLatest = true
	}

	// Drop queued thumb/detail work from the previous pack so the workers
	// don't get starved; raw downloads and list pages stay.
	s.queue.RemoveJobsWhere(func(j domain.Job) bool {
		return j.Kind == domain.ThumbnailFetch || j.Kind == domain.DetailFetch
	})
	s.queue.RemoveResultsWhere(func(r domain.Result) bool {
		return r.Job.Kind == domain.ThumbnailFetch || r.Job.Kind == domain.DetailFetch
	})

	s.detailPending = true
	s.queue.Enqueue(domain.NewJob(s.ep.PackDetail(name), domain.DetailFetch, name, "", 0))
}

// SelectGroup drills into a group's packs.
func (s *Session) SelectGroup(name string) {
	if name == "" {
		return
	}
	s.beginDrill(name)
	s.selectedGroup = name
	s.queue.Enqueue(domain.NewJob(s.ep.GroupDetail(name), domain.GroupDrill, name, "", 0))
}

// SelectArtist drills into an artist's packs.
func (s *Session) SelectArtist(name string) {
	if name == "" {
		return
	}
	s.beginDrill(name)
	s.selectedArtist = name
	s.queue.Enqueue(domain.NewJob(s.ep.ArtistPacks(name), domain.ArtistDrill, name, "", 0))
}

// SelectYear drills into one year's packs.
func (s *Session) SelectYear(year int) {
	if year <= 0 {
		return
	}
	key := strconv.Itoa(year)
	s.beginDrill(key)
	s.selectedYear = year
	url := s.ep.YearPacks(year, s.yearIncludeMags, s.filter)
	if s.filter != "" {
		s.enqueueStaleWhileRevalidate(url, domain.YearDrill, key)
	} else {
		s.queue.Enqueue(domain.NewJob(url, domain.YearDrill, key, "", 0))
	}
}

// beginDrill resets drill state for a new target and sweeps work from the
// previous one.
func (s *Session) beginDrill(key string) {
	s.drill = true
	s.selectedGroup = ""
	s.selectedArtist = ""
	s.selectedYear = 0
	s.selectedPack = ""
	s.detail = nil
	s.detailPending = false
	s.drillRows = nil
	s.drillKey = key
	s.lastError = ""
	s.autoSelectedDrill = false
	s.sweepNonRaw()
	s.drillPending = true
}

// Back leaves a drill-down pack list and returns to the root list.
func (s *Session) Back() {
	if !s.drill {
		return
	}
	s.drill = false
	s.drillRows = nil
	s.drillPending = false
	s.drillKey = ""
	s.autoSelectedDrill = false
	s.dirty = true
}

// sweepNonRaw performs the cancellation sweep: every queued job and undrained
// result that is not a user-initiated raw download is dropped, and pending
// flags for swept work are cleared. Spider raw downloads are cache warming,
// not user actions, so they are swept like everything else.
func (s *Session) sweepNonRaw() {
	jobs := s.queue.RemoveJobsWhere(func(j domain.Job) bool {
		return j.Kind != domain.RawDownload || j.Spider
	})
	results := s.queue.RemoveResultsWhere(func(r domain.Result) bool {
		return r.Job.Kind != domain.RawDownload || r.Job.Spider
	})
	if jobs > 0 || results > 0 {
		s.logger.Debug("swept stale work", "jobs", jobs, "results", results)
	}

	s.packs.pending = false
	s.packs.pendingURL = ""
	s.groups.pending = false
	s.groups.pendingURL = ""
	s.artists.pending = false
	s.artists.pendingURL = ""
	s.yearsPending = false
	s.latestPending = false
	s.detailPending = false
	s.drillPending = false
}

// === Per-cycle work ===

// Tick runs the level-triggered checks once per UI cycle: initial list
// fetches, near-bottom pagination, and thumbnail requests for the current
// pack. nearBottom reports whether the left list's scroll position is close
// to its end.
func (s *Session) Tick(nearBottom bool) {
	if !s.drill {
		s.tickRootList()
		if nearBottom {
			s.tickPagination()
		}
	}
	s.tickThumbnails()
}

func (s *Session) tickRootList() {
	switch s.mode {
	case domain.ModePacks:
		if s.dirty {
			s.packs.reset()
		}
		if (len(s.packs.rows) == 0 || s.dirty) && !s.packs.pending {
			url := s.ep.PackList(1, s.pageSize, true, false, s.filter)
			s.packs.pending = true
			s.packs.pendingURL = url
			s.dirty = false
			s.enqueueList(url, 1)
		}

	case domain.ModeGroups:
		if s.dirty {
			s.groups.reset()
		}
		if (len(s.groups.rows) == 0 || s.dirty) && !s.groups.pending {
			url := s.ep.GroupList(1, s.rootPageSize, s.groupSort, s.groupOrder, s.filter)
			s.groups.pending = true
			s.groups.pendingURL = url
			s.dirty = false
			s.enqueueList(url, 1)
		}

	case domain.ModeArtists:
		if s.dirty {
			s.artists.reset()
		}
		if (len(s.artists.rows) == 0 || s.dirty) && !s.artists.pending {
			url := s.ep.ArtistList(1, s.rootPageSize, s.filter)
			s.artists.pending = true
			s.artists.pendingURL = url
			s.dirty = false
			s.enqueueList(url, 1)
		}

	case domain.ModeYears:
		// The year index has no pagination and no filter.
		if (len(s.years) == 0 || s.dirty) && !s.yearsPending {
			s.yearsPending = true
			s.dirty = false
			s.queue.Enqueue(domain.NewJob(s.ep.YearList(), domain.ListPage, "", "", 0))
		}

	case domain.ModeLatest:
		if (len(s.latest) == 0 || s.dirty) && !s.latestPending {
			s.latestPending = true
			s.dirty = false
			// Stale-while-revalidate: show the cached feed immediately,
			// refresh in the background, apply only when changed.
			s.enqueueStaleWhileRevalidate(s.ep.Latest(), domain.ListPage, "")
		}
	}
}

// tickPagination requests the next page of the current paged list. The check
// is level-triggered and idempotent: the pending flag blocks re-triggering
// until the in-flight page's result has drained.
func (s *Session) tickPagination() {
	switch s.mode {
	case domain.ModePacks:
		if !s.packs.pending && s.packs.pages > 0 && s.packs.nextPage > 1 && s.packs.nextPage <= s.packs.pages {
			page := s.packs.nextPage
			url := s.ep.PackList(page, s.pageSize, true, false, s.filter)
			s.packs.pending = true
			s.packs.pendingURL = url
			s.enqueueList(url, page)
		}
	case domain.ModeGroups:
		if !s.groups.pending && s.groups.pages > 0 && s.groups.nextPage > 1 && s.groups.nextPage <= s.groups.pages {
			page := s.groups.nextPage
			url := s.ep.GroupList(page, s.rootPageSize, s.groupSort, s.groupOrder, s.filter)
			s.groups.pending = true
			s.groups.pendingURL = url
			s.enqueueList(url, page)
		}
	case domain.ModeArtists:
		if !s.artists.pending && s.artists.pages > 0 && s.artists.nextPage > 1 && s.artists.nextPage <= s.artists.pages {
			page := s.artists.nextPage
			url := s.ep.ArtistList(page, s.rootPageSize, s.filter)
			s.artists.pending = true
			s.artists.pendingURL = url
			s.enqueueList(url, page)
		}
	}
}

// tickThumbnails enqueues one thumbnail job per file of the current pack the
// first time it is referenced; the requested flag makes this idempotent.
func (s *Session) tickThumbnails() {
	if s.detail == nil || s.selectedPack == "" {
		return
	}
	for _, f := range s.detail.Files {
		if f.ThumbnailURL == "" {
			continue
		}
		entry := s.thumbs[f.ThumbnailURL]
		if entry == nil {
			entry = &thumbEntry{}
			s.thumbs[f.ThumbnailURL] = entry
		}
		if entry.requested || entry.terminal() {
			continue
		}
		entry.requested = true
		s.queue.Enqueue(domain.NewJob(f.ThumbnailURL, domain.ThumbnailFetch, s.selectedPack, f.Name, 0))
	}
}

func (s *Session) enqueueList(url string, page int) {
	if s.filter != "" && page == 1 {
		// Filtered searches are repeated often; serve the cached page
		// immediately and refresh behind it.
		s.enqueueStaleWhileRevalidate(url, domain.ListPage, "")
		return
	}
	s.queue.Enqueue(domain.NewJob(url, domain.ListPage, "", "", page))
}

// enqueueStaleWhileRevalidate queues a cache-only display job paired with a
// network refresh whose result is applied only when the payload changed.
func (s *Session) enqueueStaleWhileRevalidate(url string, kind domain.JobKind, contextKey string) {
	display := domain.NewJob(url, kind, contextKey, "", 1)
	display.CacheMode = domain.CacheOnly
	s.queue.Enqueue(display)

	refresh := domain.NewJob(url, kind, contextKey, "", 1)
	refresh.CacheMode = domain.NetworkOnly
	refresh.BackgroundRefresh = true
	s.queue.Enqueue(refresh)
}

// OpenFile downloads a file's raw bytes for import. Raw downloads preempt
// all queued background work and survive every cancellation sweep.
func (s *Session) OpenFile(filename string) {
	if s.selectedPack == "" || filename == "" {
		return
	}
	s.rawPending++
	s.queue.Enqueue(domain.NewJob(s.ep.Raw(s.selectedPack, filename), domain.RawDownload, s.selectedPack, filename, 0))
}

// === Drain ===

// Drain applies every currently available result. It runs on the consumer
// goroutine once per UI cycle and never blocks.
func (s *Session) Drain() {
	for _, res := range s.queue.DrainResults() {
		if res.Job.Spider {
			if s.SpiderResult != nil {
				s.SpiderResult(res)
			}
			continue
		}

		switch res.Job.Kind {
		case domain.ThumbnailFetch:
			s.applyThumb(res)
		case domain.RawDownload:
			s.applyRaw(res)
		case domain.DetailFetch:
			s.applyDetail(res)
		case domain.GroupDrill, domain.ArtistDrill, domain.YearDrill:
			s.applyDrill(res)
		case domain.ListPage:
			s.applyListPage(res)
		}
	}
}

// applyThumb resolves one thumbnail cache entry. Results that arrive after
// the user navigated to a different pack are discarded without touching any
// state, and a terminal entry is never transitioned twice.
func (s *Session) applyThumb(res domain.Result) {
	if res.Job.ContextKey != "" && res.Job.ContextKey != s.selectedPack {
		return
	}
	entry := s.thumbs[res.Job.URL]
	if entry == nil {
		entry = &thumbEntry{requested: true}
		s.thumbs[res.Job.URL] = entry
	}
	if entry.terminal() {
		return
	}

	if res.Failed() {
		entry.failed = true
		entry.err = res.Err
		return
	}

	img, err := s.decoder.Decode(res.Body)
	if err != nil {
		entry.failed = true
		entry.err = err.Error()
		return
	}
	preview, err := imaging.BuildPreview(img.Pixels, img.Width, img.Height)
	if err != nil {
		entry.failed = true
		entry.err = err.Error()
		return
	}
	entry.ready = true
	entry.preview = preview
	entry.err = ""
}

// applyRaw classifies a completed user download by extension and hands it to
// the editor shell. Failures overwrite the single last-error string.
func (s *Session) applyRaw(res domain.Result) {
	if s.rawPending > 0 {
		s.rawPending--
	}
	if res.Failed() {
		s.logger.Warn("download failed", "url", res.Job.URL, "error", res.Err)
		s.lastError = res.Err
		return
	}

	ext := extLower(res.Job.Filename)
	switch {
	case isImageExt(ext):
		if s.callbacks.CreateImage == nil {
			s.lastError = "no image handler registered"
			return
		}
		img, err := s.decoder.Decode(res.Body)
		if err != nil {
			s.lastError = err.Error()
			return
		}
		s.callbacks.CreateImage(domain.LoadedImage{
			Path:   res.Job.URL,
			Width:  img.Width,
			Height: img.Height,
			Pixels: img.Pixels,
		})
		s.lastError = ""

	case isTextExt(ext):
		if s.callbacks.CreateCanvas == nil {
			s.lastError = "no canvas handler registered"
			return
		}
		// The URL doubles as a stable path identity for window titles.
		s.callbacks.CreateCanvas(res.Body, res.Job.URL)
		s.lastError = ""

	default:
		s.lastError = domain.ErrUnsupportedFile.Error() + ": " + res.Job.Filename
	}
}

func (s *Session) applyDetail(res domain.Result) {
	s.detailPending = false
	if res.Failed() {
		s.lastError = res.Err
		s.detail = nil
		return
	}
	detail, err := archive.ParsePackDetail(res.Body, res.Job.ContextKey, s.ep)
	if err != nil {
		s.lastError = "pack details: " + err.Error()
		s.detail = nil
		return
	}
	s.detail = &detail
}

// applyDrill handles group/artist/year pack lists. Responses for a target
// the user has already navigated away from are dropped.
func (s *Session) applyDrill(res domain.Result) {
	// CacheOnly miss: keep waiting for the paired network refresh.
	if res.Job.CacheMode == domain.CacheOnly && res.Failed() {
		return
	}
	if s.drillKey != "" && res.Job.ContextKey != s.drillKey {
		return
	}

	if res.Job.BackgroundRefresh {
		if res.Failed() || !res.Changed {
			return
		}
	} else if res.Failed() {
		s.drillPending = false
		s.lastError = res.Err
		s.drillRows = nil
		s.autoSelectedDrill = false
		return
	}

	var (
		rows []domain.PackRow
		err  error
	)
	switch res.Job.Kind {
	case domain.GroupDrill:
		rows, err = archive.ParseGroupPacks(res.Body, res.Job.ContextKey)
	case domain.ArtistDrill:
		rows, err = archive.ParseArtistPacks(res.Body, res.Job.ContextKey)
	default:
		rows, err = archive.ParseYearPacks(res.Body)
	}
	s.drillPending = false
	if err != nil {
		s.lastError = "pack list: " + err.Error()
		return
	}
	s.drillRows = rows

	// Auto-select the top pack so the gallery isn't empty after a drill.
	if !s.autoSelectedDrill && s.selectedPack == "" && len(rows) > 0 {
		s.autoSelectedDrill = true
		s.SelectPack(rows[0].Name)
	}
}

// applyListPage dispatches a root list result by the current mode. Sweeps on
// mode change guarantee a draining ListPage result belongs to this mode.
func (s *Session) applyListPage(res domain.Result) {
	switch s.mode {
	case domain.ModePacks:
		applyPagedResult(s, &s.packs, res, func(body []byte) ([]domain.PackRow, int, error) {
			return archive.ParsePackList(body)
		})
	case domain.ModeGroups:
		applyPagedResult(s, &s.groups, res, func(body []byte) ([]domain.GroupRow, int, error) {
			return archive.ParseGroupList(body)
		})
	case domain.ModeArtists:
		applyPagedResult(s, &s.artists, res, func(body []byte) ([]domain.ArtistRow, int, error) {
			return archive.ParseArtistList(body)
		})
	case domain.ModeYears:
		s.yearsPending = false
		if res.Failed() {
			s.lastError = res.Err
			s.years = nil
			return
		}
		rows, err := archive.ParseYearIndex(res.Body)
		if err != nil {
			s.lastError = "year index: " + err.Error()
			return
		}
		s.years = rows
	case domain.ModeLatest:
		s.applyLatest(res)
	}
}

func (s *Session) applyLatest(res domain.Result) {
	if res.Job.BackgroundRefresh {
		if res.Failed() || !res.Changed {
			return
		}
		s.latestPending = false
	} else {
		if res.Job.CacheMode == domain.CacheOnly && res.Failed() {
			// Miss: the network refresh job is still coming.
			return
		}
		s.latestPending = false
		if res.Failed() {
			s.lastError = res.Err
			s.latest = nil
			return
		}
	}

	rows, err := archive.ParseLatest(res.Body)
	if err != nil {
		s.lastError = "latest releases: " + err.Error()
		return
	}
	s.latest = rows

	// Auto-select the most recent pack once so the gallery isn't empty on
	// launch.
	if !s.autoSelectedLatest && s.selectedPack == "" && len(rows) > 0 {
		s.SelectPack(rows[0].Name)
	}
}

// applyPagedResult folds one list page into a paged facet, honoring
// background-refresh and cache-only semantics.
func applyPagedResult[T any](s *Session, lst *pagedList[T], res domain.Result, parse func([]byte) ([]T, int, error)) {
	if res.Job.BackgroundRefresh {
		if res.Failed() || !res.Changed {
			return
		}
		// Only page 1 refreshes apply, and only before the user scrolled
		// deeper; reshuffling mid-infinite-scroll would duplicate rows.
		if res.Job.Page != 1 || lst.nextPage > 2 {
			return
		}
		if lst.pending && lst.pendingURL == res.Job.URL {
			lst.pending = false
			lst.pendingURL = ""
		}
		rows, pages, err := parse(res.Body)
		if err != nil {
			return
		}
		lst.rows = rows
		lst.pages = pages
		lst.nextPage = 2
		return
	}

	if res.Job.CacheMode == domain.CacheOnly && res.Failed() {
		// Miss: keep the pending flag for the paired network job.
		return
	}

	lst.pending = false
	lst.pendingURL = ""
	if res.Failed() {
		s.lastError = res.Err
		lst.reset()
		return
	}

	rows, pages, err := parse(res.Body)
	if err != nil {
		s.lastError = "list page: " + err.Error()
		return
	}
	lst.rows = append(lst.rows, rows...)
	if pages > 0 {
		lst.pages = pages
	}
	lst.nextPage = res.Job.Page + 1
	s.lastError = ""
}

// === Accessors ===

// Mode returns the current browse facet.
func (s *Session) Mode() domain.BrowseMode { return s.mode }

// Drilled reports whether the left column shows a drill-down pack list.
func (s *Session) Drilled() bool { return s.drill }

// Filter returns the current server-side filter string.
func (s *Session) Filter() string { return s.filter }

// PackRows returns the accumulated pack list.
func (s *Session) PackRows() []domain.PackRow { return s.packs.rows }

// GroupRows returns the accumulated group list.
func (s *Session) GroupRows() []domain.GroupRow { return s.groups.rows }

// ArtistRows returns the artist list in the configured client-side order.
// The API sorts by name only, so release ordering happens here.
func (s *Session) ArtistRows() []domain.ArtistRow {
	rows := make([]domain.ArtistRow, len(s.artists.rows))
	copy(rows, s.artists.rows)
	sortArtists(rows, s.artistSortByReleases, s.artistDesc)
	return rows
}

// YearRows returns the year index, newest first.
func (s *Session) YearRows() []domain.YearRow { return s.years }

// LatestRows returns the latest-releases feed.
func (s *Session) LatestRows() []domain.PackRow { return s.latest }

// DrillRows returns the drill-down pack list.
func (s *Session) DrillRows() []domain.PackRow { return s.drillRows }

// SelectedPack returns the pack whose gallery is shown, or "".
func (s *Session) SelectedPack() string { return s.selectedPack }

// SelectedGroup returns the drilled group, or "".
func (s *Session) SelectedGroup() string { return s.selectedGroup }

// SelectedArtist returns the drilled artist, or "".
func (s *Session) SelectedArtist() string { return s.selectedArtist }

// SelectedYear returns the drilled year, or 0.
func (s *Session) SelectedYear() int { return s.selectedYear }

// Detail returns the current pack's parsed contents, or nil while loading.
func (s *Session) Detail() *domain.PackDetail { return s.detail }

// ThumbFor returns the cache state for a thumbnail URL.
func (s *Session) ThumbFor(url string) (Thumb, bool) {
	entry, ok := s.thumbs[url]
	if !ok {
		return Thumb{}, false
	}
	return entry.view(), true
}

// LastError returns the single overwriting error string shown in the status
// line, or "".
func (s *Session) LastError() string { return s.lastError }

// RawPending returns the number of in-flight user downloads.
func (s *Session) RawPending() int { return s.rawPending }

// GroupSort returns the group list sort field and order.
func (s *Session) GroupSort() (sort, order string) { return s.groupSort, s.groupOrder }

// YearIncludeMags reports whether year drill-downs include magazines.
func (s *Session) YearIncludeMags() bool { return s.yearIncludeMags }

// Loading reports whether any foreground fetch is outstanding.
func (s *Session) Loading() bool {
	return s.packs.pending || s.groups.pending || s.artists.pending ||
		s.yearsPending || s.latestPending || s.drillPending || s.detailPending ||
		s.rawPending > 0
}

func sortArtists(rows []domain.ArtistRow, byReleases, desc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if byReleases && a.Releases != b.Releases {
			if desc {
				return a.Releases > b.Releases
			}
			return a.Releases < b.Releases
		}
		if desc && !byReleases {
			return a.Name > b.Name
		}
		return a.Name < b.Name
	})
}

func extLower(filename string) string {
	dot := strings.LastIndexByte(filename, '.')
	if dot < 0 {
		return ""
	}
	return strings.ToLower(filename[dot+1:])
}

func isImageExt(ext string) bool {
	switch ext {
	case "png", "jpg", "jpeg", "gif", "bmp":
		return true
	}
	return false
}

func isTextExt(ext string) bool {
	switch ext {
	case "ans", "asc", "txt", "nfo", "diz", "xb":
		return true
	}
	return false
}
