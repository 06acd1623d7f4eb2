package browse

import "github.com/packview/packview/internal/imaging"

// Thumb is the externally visible state of one thumbnail cache entry.
type Thumb struct {
	Requested bool
	Ready     bool
	Failed    bool
	Preview   imaging.Preview
	Err       string
}

// thumbEntry tracks one thumbnail URL from first reference to its terminal
// state. Entries live on the consumer goroutine only; no locking.
//
// Lifecycle: created lazily (requested=false), requested=true once a job is
// enqueued, then exactly one of ready/failed when the result drains. A
// terminal entry never transitions again.
type thumbEntry struct {
	requested bool
	ready     bool
	failed    bool
	preview   imaging.Preview
	err       string
}

func (t *thumbEntry) terminal() bool {
	return t.ready || t.failed
}

func (t *thumbEntry) view() Thumb {
	return Thumb{
		Requested: t.requested,
		Ready:     t.ready,
		Failed:    t.failed,
		Preview:   t.preview,
		Err:       t.err,
	}
}
