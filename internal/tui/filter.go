package tui

import "github.com/sahilm/fuzzy"

// listRow is one entry of the left column, whatever facet it came from.
type listRow struct {
	Title    string
	Subtitle string
}

type rowSource []listRow

func (r rowSource) String(i int) string { return r[i].Title }
func (r rowSource) Len() int            { return len(r) }

// filterRows narrows rows by a client-side fuzzy query, best match first.
// Used where the archive API offers no server-side filter (the year index
// and drill-down pack lists).
func filterRows(rows []listRow, query string) []listRow {
	if query == "" {
		return rows
	}
	matches := fuzzy.FindFrom(query, rowSource(rows))
	out := make([]listRow, 0, len(matches))
	for _, m := range matches {
		out = append(out, rows[m.Index])
	}
	return out
}
