package browse

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packview/packview/internal/archive"
	"github.com/packview/packview/internal/domain"
	"github.com/packview/packview/internal/fetch"
)

type stubDecoder struct {
	fail bool
}

func (d stubDecoder) Decode(data []byte) (domain.DecodedImage, error) {
	if d.fail {
		return domain.DecodedImage{}, errors.New("bad image")
	}
	return domain.DecodedImage{Width: 4, Height: 4, Pixels: make([]byte, 4*4*4)}, nil
}

func newTestSession(cb domain.Callbacks) (*Session, *fetch.Queue) {
	q := fetch.NewQueue()
	s := NewSession(q, archive.DefaultEndpoints(), stubDecoder{}, cb, nil)
	return s, q
}

// popJob simulates a worker claiming the next job.
func popJob(t *testing.T, q *fetch.Queue) domain.Job {
	t.Helper()
	job, ok := q.PopJob()
	require.True(t, ok, "expected a queued job")
	return job
}

// complete simulates a worker finishing a job successfully.
func complete(q *fetch.Queue, job domain.Job, body string) {
	q.PushResult(domain.Result{Job: job, Status: 200, Body: []byte(body)})
}

// fail simulates a worker reporting a fetch failure.
func fail(q *fetch.Queue, job domain.Job, msg string) {
	q.PushResult(domain.Result{Job: job, Err: msg})
}

const packListPage1 = `{"page": {"pages": 2}, "results": [{"name": "alpha2001"}, {"name": "beta2002"}]}`
const packListPage2 = `{"page": {"pages": 2}, "results": [{"name": "gamma2003"}]}`

const detailBody = `{"results": [{"files": {
	"one.ans": {"file": {"tn": {"uri": "/pack/p/tn/one.ans.png"}}},
	"two.ans": {"file": {"tn": {"uri": "/pack/p/tn/two.ans.png"}}}
}}]}`

func TestTickRequestsFirstPageOnce(t *testing.T) {
	s, q := newTestSession(domain.Callbacks{})
	s.SetMode(domain.ModePacks)

	s.Tick(false)
	assert.Equal(t, 1, q.PendingJobs())

	// Level-triggered and idempotent: repeated ticks don't re-request.
	s.Tick(false)
	s.Tick(true)
	assert.Equal(t, 1, q.PendingJobs())

	job := popJob(t, q)
	assert.Equal(t, domain.ListPage, job.Kind)
	assert.Equal(t, 1, job.Page)
	assert.Contains(t, job.URL, "page=1")
}

func TestPaginationAdvancesOnlyAfterDrain(t *testing.T) {
	s, q := newTestSession(domain.Callbacks{})
	s.SetMode(domain.ModePacks)

	s.Tick(false)
	job := popJob(t, q)
	complete(q, job, packListPage1)

	// Near-bottom before the result drains must not request page 2.
	s.Tick(true)
	assert.Equal(t, 0, q.PendingJobs())

	s.Drain()
	assert.Len(t, s.PackRows(), 2)

	s.Tick(true)
	job = popJob(t, q)
	assert.Equal(t, 2, job.Page)
	assert.Contains(t, job.URL, "page=2")
	complete(q, job, packListPage2)
	s.Drain()

	assert.Len(t, s.PackRows(), 3)

	// Past the last page nothing is requested.
	s.Tick(true)
	assert.Equal(t, 0, q.PendingJobs())
}

func TestSweptPageRequestIsReissued(t *testing.T) {
	s, q := newTestSession(domain.Callbacks{})
	s.SetMode(domain.ModePacks)

	s.Tick(false)
	complete(q, popJob(t, q), packListPage1)
	s.Drain()

	// Page 2 in flight, then the user switches modes: the job and its
	// pending flag are swept together, so nothing stays stuck.
	s.Tick(true)
	popJob(t, q)
	s.SetMode(domain.ModeGroups)
	s.Tick(false)
	job := popJob(t, q)
	assert.Contains(t, job.URL, "/v1/group/")

	// The late page 2 result never arrives; back in packs the list refetches
	// from page 1 instead of waiting on the swept request.
	s.SetMode(domain.ModePacks)
	s.Tick(false)
	job = popJob(t, q)
	assert.Equal(t, 1, job.Page)
	assert.Contains(t, job.URL, "/v1/pack/")
}

func TestModeSwitchSweepsSparesRawDownloads(t *testing.T) {
	s, q := newTestSession(domain.Callbacks{})
	s.SetMode(domain.ModePacks)
	s.Tick(false)
	complete(q, popJob(t, q), packListPage1)
	s.Drain()

	s.SelectPack("alpha2001")
	s.OpenFile("art.ans")

	// Queue now holds the raw download plus the detail fetch; an undrained
	// thumbnail result is also pending.
	q.PushResult(domain.Result{
		Job:  domain.NewJob("tn", domain.ThumbnailFetch, "alpha2001", "x.png", 0),
		Body: []byte("png"),
	})

	s.SetMode(domain.ModeYears)

	var kinds []domain.JobKind
	for {
		job, ok := q.PopJob()
		if !ok {
			break
		}
		kinds = append(kinds, job.Kind)
	}
	assert.Equal(t, []domain.JobKind{domain.RawDownload}, kinds)
	assert.Equal(t, 0, q.PendingResults())
}

func TestModeSwitchSweepsSpiderRawDownloads(t *testing.T) {
	s, q := newTestSession(domain.Callbacks{})
	s.SetMode(domain.ModePacks)
	s.Tick(false)
	complete(q, popJob(t, q), packListPage1)
	s.Drain()

	s.SelectPack("alpha2001")
	s.OpenFile("art.ans")

	// The spider warms raw files too; those are not user actions and must
	// not survive the sweep.
	spiderRaw := domain.NewJob("warm", domain.RawDownload, "beta2002", "y.ans", 0)
	spiderRaw.Spider = true
	q.Enqueue(spiderRaw)
	q.PushResult(domain.Result{Job: spiderRaw, Status: 200, Body: []byte("data")})

	s.SetMode(domain.ModeYears)

	var urls []string
	for {
		job, ok := q.PopJob()
		if !ok {
			break
		}
		urls = append(urls, job.URL)
	}
	assert.NotContains(t, urls, "warm")
	assert.Contains(t, urls, archive.DefaultEndpoints().Raw("alpha2001", "art.ans"))
	assert.Equal(t, 0, q.PendingResults())
}

func TestThumbnailLifecycle(t *testing.T) {
	s, q := newTestSession(domain.Callbacks{})
	s.SetMode(domain.ModePacks)
	s.Tick(false)
	complete(q, popJob(t, q), packListPage1)
	s.Drain()

	s.SelectPack("p")
	complete(q, popJob(t, q), detailBody)
	s.Drain()
	require.NotNil(t, s.Detail())

	s.Tick(false)
	first := popJob(t, q)
	second := popJob(t, q)
	assert.Equal(t, domain.ThumbnailFetch, first.Kind)
	assert.Equal(t, domain.ThumbnailFetch, second.Kind)

	// Requested entries are never re-enqueued.
	s.Tick(false)
	assert.Equal(t, 0, q.PendingJobs())

	thumb, ok := s.ThumbFor(first.URL)
	require.True(t, ok)
	assert.True(t, thumb.Requested)
	assert.False(t, thumb.Ready)

	complete(q, first, "imagebytes")
	s.Drain()

	thumb, _ = s.ThumbFor(first.URL)
	assert.True(t, thumb.Ready)
	assert.False(t, thumb.Failed)
	assert.NotZero(t, thumb.Preview.Width)

	// A terminal entry never transitions again, even on a late failure.
	fail(q, first, "late failure")
	s.Drain()
	thumb, _ = s.ThumbFor(first.URL)
	assert.True(t, thumb.Ready)
	assert.False(t, thumb.Failed)

	fail(q, second, "404")
	s.Drain()
	thumb, _ = s.ThumbFor(second.URL)
	assert.True(t, thumb.Failed)
	assert.Equal(t, "404", thumb.Err)
}

func TestStaleThumbnailResultDropped(t *testing.T) {
	s, q := newTestSession(domain.Callbacks{})
	s.SetMode(domain.ModePacks)
	s.Tick(false)
	complete(q, popJob(t, q), packListPage1)
	s.Drain()

	s.SelectPack("p")
	complete(q, popJob(t, q), detailBody)
	s.Drain()
	s.Tick(false)
	job := popJob(t, q)
	popJob(t, q)

	// User moves on; the old pack's thumbnail completes afterwards.
	s.SelectPack("other")
	complete(q, job, "imagebytes")
	s.Drain()

	_, ok := s.ThumbFor(job.URL)
	assert.False(t, ok, "stale result must not create cache entries")
}

func TestRawDownloadClassification(t *testing.T) {
	var canvases, images []string
	cb := domain.Callbacks{
		CreateCanvas: func(data []byte, sourceURL string) { canvases = append(canvases, sourceURL) },
		CreateImage:  func(img domain.LoadedImage) { images = append(images, img.Path) },
	}
	s, q := newTestSession(cb)
	s.SetMode(domain.ModePacks)
	s.SelectPack("p")
	popJob(t, q) // detail fetch

	s.OpenFile("piece.ans")
	complete(q, popJob(t, q), "ansi bytes")
	s.Drain()
	require.Len(t, canvases, 1)
	assert.Contains(t, canvases[0], "piece.ans")
	assert.Empty(t, s.LastError())

	s.OpenFile("scan.png")
	complete(q, popJob(t, q), "png bytes")
	s.Drain()
	require.Len(t, images, 1)
	assert.Contains(t, images[0], "scan.png")

	s.OpenFile("music.mod")
	complete(q, popJob(t, q), "mod bytes")
	s.Drain()
	assert.Contains(t, s.LastError(), "music.mod")
	assert.Len(t, canvases, 1)
	assert.Len(t, images, 1)
}

func TestRawDownloadFailureSetsLastError(t *testing.T) {
	s, q := newTestSession(domain.Callbacks{})
	s.SetMode(domain.ModePacks)
	s.SelectPack("p")
	popJob(t, q)

	s.OpenFile("a.ans")
	assert.Equal(t, 1, s.RawPending())

	fail(q, popJob(t, q), "connection reset")
	s.Drain()
	assert.Equal(t, 0, s.RawPending())
	assert.Equal(t, "connection reset", s.LastError())
}

func TestDrillStaleResultDropped(t *testing.T) {
	s, q := newTestSession(domain.Callbacks{})
	s.SetMode(domain.ModeGroups)

	s.SelectGroup("acid")
	acidJob := popJob(t, q)
	assert.Equal(t, domain.GroupDrill, acidJob.Kind)

	// Target changes before the first drill completes; the sweep removed the
	// queued job, but a worker may already have claimed it.
	s.SelectGroup("ice")
	iceJob := popJob(t, q)

	complete(q, acidJob, `{"results": {"packs": {"1995": ["acdu0395"]}}}`)
	s.Drain()
	assert.Empty(t, s.DrillRows(), "stale drill result must be dropped")

	complete(q, iceJob, `{"results": {"packs": {"1997": ["ice9703a"]}}}`)
	s.Drain()
	require.Len(t, s.DrillRows(), 1)
	assert.Equal(t, "ice9703a", s.DrillRows()[0].Name)
	assert.Equal(t, "ice", s.SelectedGroup())
}

func TestDrillAutoSelectsTopPack(t *testing.T) {
	s, q := newTestSession(domain.Callbacks{})
	s.SetMode(domain.ModeGroups)
	s.SelectGroup("acid")
	complete(q, popJob(t, q), `{"results": {"packs": {"1995": ["acdu0395"]}}}`)
	s.Drain()

	assert.Equal(t, "acdu0395", s.SelectedPack())
	// The auto-selection queued a detail fetch.
	job := popJob(t, q)
	assert.Equal(t, domain.DetailFetch, job.Kind)
	assert.Equal(t, "acdu0395", job.ContextKey)
}

func TestLatestUsesStaleWhileRevalidate(t *testing.T) {
	s, q := newTestSession(domain.Callbacks{})
	// Latest is the initial mode.
	s.Tick(false)

	display := popJob(t, q)
	refresh := popJob(t, q)
	assert.Equal(t, domain.CacheOnly, display.CacheMode)
	assert.Equal(t, domain.NetworkOnly, refresh.CacheMode)
	assert.True(t, refresh.BackgroundRefresh)

	// Cache miss on the display job keeps waiting for the refresh.
	fail(q, display, domain.ErrCacheMiss.Error())
	s.Drain()
	assert.Empty(t, s.LastError())
	assert.Empty(t, s.LatestRows())

	q.PushResult(domain.Result{
		Job:     refresh,
		Status:  200,
		Body:    []byte(`{"results": [{"pack": "fresh2024"}]}`),
		Changed: true,
	})
	s.Drain()
	require.Len(t, s.LatestRows(), 1)
	assert.Equal(t, "fresh2024", s.LatestRows()[0].Name)
	// The newest pack is auto-selected once.
	assert.Equal(t, "fresh2024", s.SelectedPack())
}

func TestBackgroundRefreshIgnoredWhenUnchanged(t *testing.T) {
	s, q := newTestSession(domain.Callbacks{})
	s.Tick(false)
	display := popJob(t, q)
	refresh := popJob(t, q)

	q.PushResult(domain.Result{Job: display, Status: 200, FromCache: true,
		Body: []byte(`{"results": [{"pack": "cached2020"}]}`)})
	s.Drain()
	require.Len(t, s.LatestRows(), 1)

	q.PushResult(domain.Result{Job: refresh, Status: 200, Changed: false,
		Body: []byte(`{"results": [{"pack": "cached2020"}]}`)})
	s.Drain()
	assert.Len(t, s.LatestRows(), 1)
	assert.Equal(t, "cached2020", s.LatestRows()[0].Name)
}

func TestListFailureSetsErrorAndRecovers(t *testing.T) {
	s, q := newTestSession(domain.Callbacks{})
	s.SetMode(domain.ModePacks)
	s.Tick(false)
	fail(q, popJob(t, q), "archive offline: dial tcp")
	s.Drain()

	assert.Contains(t, s.LastError(), "archive offline")
	assert.Empty(t, s.PackRows())
	assert.False(t, s.Loading())

	// The empty list re-triggers the fetch on the next cycle.
	s.Tick(false)
	complete(q, popJob(t, q), packListPage1)
	s.Drain()
	assert.Len(t, s.PackRows(), 2)
	assert.Empty(t, s.LastError())
}

func TestYearIndexAndDrill(t *testing.T) {
	s, q := newTestSession(domain.Callbacks{})
	s.SetMode(domain.ModeYears)
	s.Tick(false)
	complete(q, popJob(t, q), `{"1996": {"packs": 100, "mags": 7}, "1995": {"packs": 80, "mags": 2}}`)
	s.Drain()

	require.Len(t, s.YearRows(), 2)
	assert.Equal(t, 1996, s.YearRows()[0].Year)

	s.SelectYear(1996)
	job := popJob(t, q)
	assert.Equal(t, domain.YearDrill, job.Kind)
	assert.Equal(t, "1996", job.ContextKey)
	assert.True(t, strings.Contains(job.URL, "/v1/year/1996"))
}

func TestBackReturnsToRootList(t *testing.T) {
	s, q := newTestSession(domain.Callbacks{})
	s.SetMode(domain.ModeGroups)
	s.SelectGroup("acid")
	assert.True(t, s.Drilled())
	popJob(t, q)

	s.Back()
	assert.False(t, s.Drilled())
	assert.Empty(t, s.DrillRows())

	// The root group list reloads on the next cycle.
	s.Tick(false)
	job := popJob(t, q)
	assert.Equal(t, domain.ListPage, job.Kind)
	assert.Contains(t, job.URL, "/v1/group/")
}

func TestSpiderResultsBypassSessionState(t *testing.T) {
	s, q := newTestSession(domain.Callbacks{})
	var got []domain.Result
	s.SpiderResult = func(r domain.Result) { got = append(got, r) }

	job := domain.NewJob("u", domain.ListPage, "", "", 0)
	job.Spider = true
	q.PushResult(domain.Result{Job: job, Status: 200, Body: []byte(packListPage1)})
	s.Drain()

	require.Len(t, got, 1)
	assert.Empty(t, s.PackRows())
	assert.Empty(t, s.LatestRows())
}

func TestSetFilterRefetchesList(t *testing.T) {
	s, q := newTestSession(domain.Callbacks{})
	s.SetMode(domain.ModePacks)
	s.Tick(false)
	complete(q, popJob(t, q), packListPage1)
	s.Drain()

	s.SetFilter("mist")
	s.Tick(false)

	// Filtered searches go out as a stale-while-revalidate pair.
	display := popJob(t, q)
	refresh := popJob(t, q)
	assert.Contains(t, display.URL, "filter=mist")
	assert.Equal(t, domain.CacheOnly, display.CacheMode)
	assert.Equal(t, domain.NetworkOnly, refresh.CacheMode)
	assert.Empty(t, s.PackRows(), "filter change resets accumulated rows")
}
