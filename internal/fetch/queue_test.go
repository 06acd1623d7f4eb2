package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packview/packview/internal/domain"
)

func job(url string, kind domain.JobKind) domain.Job {
	return domain.NewJob(url, kind, "", "", 0)
}

func spiderJob(url string, kind domain.JobKind) domain.Job {
	j := job(url, kind)
	j.Spider = true
	return j
}

func popURLs(q *Queue) []string {
	var urls []string
	for {
		j, ok := q.PopJob()
		if !ok {
			return urls
		}
		urls = append(urls, j.URL)
	}
}

func TestEnqueueRawDownloadPreemptsEverything(t *testing.T) {
	q := NewQueue()
	q.Enqueue(job("list", domain.ListPage))
	q.Enqueue(job("thumb", domain.ThumbnailFetch))
	q.Enqueue(job("raw", domain.RawDownload))

	assert.Equal(t, []string{"raw", "list", "thumb"}, popURLs(q))
}

func TestEnqueueNavigationBeforeThumbnails(t *testing.T) {
	q := NewQueue()
	q.Enqueue(job("thumb1", domain.ThumbnailFetch))
	q.Enqueue(job("thumb2", domain.ThumbnailFetch))
	q.Enqueue(job("detail", domain.DetailFetch))
	q.Enqueue(job("drill", domain.GroupDrill))

	assert.Equal(t, []string{"detail", "drill", "thumb1", "thumb2"}, popURLs(q))
}

func TestEnqueueThumbnailsBeforeSpider(t *testing.T) {
	q := NewQueue()
	q.Enqueue(spiderJob("spider1", domain.ListPage))
	q.Enqueue(spiderJob("spider2", domain.ThumbnailFetch))
	q.Enqueue(job("thumb", domain.ThumbnailFetch))
	q.Enqueue(job("list", domain.ListPage))

	assert.Equal(t, []string{"list", "thumb", "spider1", "spider2"}, popURLs(q))
}

func TestEnqueueSpiderRawDownloadStaysAtTail(t *testing.T) {
	q := NewQueue()
	q.Enqueue(spiderJob("spider-raw", domain.RawDownload))
	q.Enqueue(job("thumb", domain.ThumbnailFetch))
	q.Enqueue(job("list", domain.ListPage))

	// Cache warming never outranks user work, even for raw files.
	assert.Equal(t, []string{"list", "thumb", "spider-raw"}, popURLs(q))
}

func TestEnqueuePreservesOrderWithinBand(t *testing.T) {
	q := NewQueue()
	q.Enqueue(job("a", domain.ThumbnailFetch))
	q.Enqueue(job("b", domain.ThumbnailFetch))
	q.Enqueue(job("c", domain.ThumbnailFetch))
	q.Enqueue(job("raw1", domain.RawDownload))
	q.Enqueue(job("raw2", domain.RawDownload))

	// Raw downloads stack LIFO at the head; the most recent user action runs
	// first. Thumbnails stay FIFO.
	assert.Equal(t, []string{"raw2", "raw1", "a", "b", "c"}, popURLs(q))
}

func TestPopJobEmpty(t *testing.T) {
	q := NewQueue()
	_, ok := q.PopJob()
	assert.False(t, ok)
}

func TestDrainResultsReturnsCompletionOrder(t *testing.T) {
	q := NewQueue()
	q.PushResult(domain.Result{Job: job("a", domain.ListPage)})
	q.PushResult(domain.Result{Job: job("b", domain.ThumbnailFetch)})

	res := q.DrainResults()
	require.Len(t, res, 2)
	assert.Equal(t, "a", res[0].Job.URL)
	assert.Equal(t, "b", res[1].Job.URL)

	assert.Nil(t, q.DrainResults())
}

func TestRemoveJobsWhereSparesRawDownloads(t *testing.T) {
	q := NewQueue()
	q.Enqueue(job("raw", domain.RawDownload))
	q.Enqueue(job("list", domain.ListPage))
	q.Enqueue(job("thumb", domain.ThumbnailFetch))

	removed := q.RemoveJobsWhere(func(j domain.Job) bool {
		return j.Kind != domain.RawDownload
	})
	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"raw"}, popURLs(q))
}

func TestRemoveResultsWhere(t *testing.T) {
	q := NewQueue()
	q.PushResult(domain.Result{Job: job("raw", domain.RawDownload)})
	q.PushResult(domain.Result{Job: job("thumb", domain.ThumbnailFetch)})

	removed := q.RemoveResultsWhere(func(r domain.Result) bool {
		return r.Job.Kind != domain.RawDownload
	})
	assert.Equal(t, 1, removed)

	res := q.DrainResults()
	require.Len(t, res, 1)
	assert.Equal(t, "raw", res[0].Job.URL)
}

func TestPendingCounts(t *testing.T) {
	q := NewQueue()
	assert.Equal(t, 0, q.PendingJobs())
	assert.Equal(t, 0, q.PendingResults())

	q.Enqueue(job("a", domain.ListPage))
	q.PushResult(domain.Result{Job: job("b", domain.ListPage)})
	assert.Equal(t, 1, q.PendingJobs())
	assert.Equal(t, 1, q.PendingResults())
}
