package domain

import "github.com/google/uuid"

// JobKind determines how a job's result is interpreted and which
// priority band it occupies in the fetch queue.
type JobKind int

const (
	RawDownload JobKind = iota
	ThumbnailFetch
	ListPage
	DetailFetch
	GroupDrill
	ArtistDrill
	YearDrill
)

// String returns the kind name used in logs.
func (k JobKind) String() string {
	switch k {
	case RawDownload:
		return "raw"
	case ThumbnailFetch:
		return "thumb"
	case ListPage:
		return "list"
	case DetailFetch:
		return "detail"
	case GroupDrill:
		return "group_packs"
	case ArtistDrill:
		return "artist_packs"
	case YearDrill:
		return "year_packs"
	default:
		return "unknown"
	}
}

// IsNavigation reports whether the kind belongs to the navigation priority
// band: list pages, pack details, and the drill-down variants.
func (k JobKind) IsNavigation() bool {
	switch k {
	case ListPage, DetailFetch, GroupDrill, ArtistDrill, YearDrill:
		return true
	}
	return false
}

// CacheMode selects how the transport consults its response cache.
type CacheMode int

const (
	// CacheDefault serves a cached response when present, otherwise fetches
	// from the network and stores the result.
	CacheDefault CacheMode = iota

	// CacheOnly never touches the network; a miss is an error.
	CacheOnly

	// NetworkOnly always fetches and refreshes the cached copy.
	NetworkOnly
)

// Job is an immutable description of one unit of remote fetch work.
// Jobs are passed by value and never mutated after enqueue.
type Job struct {
	ID         string   // correlation ID for logs
	URL        string   // fully resolved request target
	Kind       JobKind
	ContextKey string // pack/group/artist/year this job belongs to; empty for root lists
	Filename   string // file inside the pack, for thumb/raw jobs
	Page       int    // pagination cursor, list jobs only

	// Cache behavior for this request.
	CacheMode CacheMode

	// BackgroundRefresh jobs never drive loading UI state; their results are
	// applied only when the payload actually changed.
	BackgroundRefresh bool

	// Spider jobs are lowest priority cache fill and never touch UI state.
	Spider bool
}

// NewJob creates a job with a fresh correlation ID.
func NewJob(url string, kind JobKind, contextKey, filename string, page int) Job {
	return Job{
		ID:         uuid.New().String(),
		URL:        url,
		Kind:       kind,
		ContextKey: contextKey,
		Filename:   filename,
		Page:       page,
	}
}

// Result is the completed outcome of a job, success or failure.
type Result struct {
	Job    Job
	Status int
	Body   []byte
	Err    string // non-empty means the fetch failed and Body must be ignored

	FromCache bool
	Changed   bool
}

// Failed reports whether the fetch failed.
func (r Result) Failed() bool {
	return r.Err != ""
}
