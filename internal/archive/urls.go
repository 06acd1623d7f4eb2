// Package archive speaks the 16colo.rs API: it builds request URLs and parses
// the JSON payloads into navigation rows, tolerating the shape variants the
// endpoints have historically produced.
package archive

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultAPIBase is the public archive API.
	DefaultAPIBase = "https://api.16colo.rs"

	// DefaultWebBase serves thumbnails and raw pack files.
	DefaultWebBase = "https://16colo.rs"

	maxPageSize = 500
)

// Endpoints builds request URLs against one API/web host pair.
type Endpoints struct {
	API string
	Web string
}

// DefaultEndpoints targets the public archive.
func DefaultEndpoints() Endpoints {
	return Endpoints{API: DefaultAPIBase, Web: DefaultWebBase}
}

func clampPageSize(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}

func clampPage(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// PackList lists archived packs, optionally expanded with group/artist info.
func (e Endpoints) PackList(page, pagesize int, groups, artists bool, filter string) string {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", clampPage(page)))
	q.Set("pagesize", fmt.Sprintf("%d", clampPageSize(pagesize)))
	q.Set("archive", "true")
	q.Set("groups", fmt.Sprintf("%t", groups))
	q.Set("artists", fmt.Sprintf("%t", artists))
	if filter != "" {
		q.Set("filter", filter)
	}
	return e.API + "/v1/pack/?" + q.Encode()
}

// PackDetail addresses one pack by name, with file contents and dimensions.
func (e Endpoints) PackDetail(pack string) string {
	return e.API + "/v1/pack/" + url.PathEscape(pack) +
		"?sauce=false&dimensions=true&content=true&artists=true"
}

// GroupList lists release groups. sort is "name" or "packs", order "asc" or "desc".
func (e Endpoints) GroupList(page, pagesize int, sort, order, filter string) string {
	if sort != "packs" {
		sort = "name"
	}
	if order != "desc" {
		order = "asc"
	}
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", clampPage(page)))
	q.Set("pagesize", fmt.Sprintf("%d", clampPageSize(pagesize)))
	q.Set("sort", sort)
	q.Set("order", order)
	q.Set("packs", "false")
	q.Set("artists", "false")
	if filter != "" {
		q.Set("filter", filter)
	}
	return e.API + "/v1/group/?" + q.Encode()
}

// GroupDetail addresses one group with its pack lists.
func (e Endpoints) GroupDetail(group string) string {
	return e.API + "/v1/group/" + url.PathEscape(group) + "?packs=true"
}

// ArtistList lists artists with release details.
func (e Endpoints) ArtistList(page, pagesize int, filter string) string {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", clampPage(page)))
	q.Set("pagesize", fmt.Sprintf("%d", clampPageSize(pagesize)))
	q.Set("details", "true")
	q.Set("aliases", "false")
	if filter != "" {
		q.Set("filter", filter)
	}
	return e.API + "/v1/artist/?" + q.Encode()
}

// ArtistPacks resolves an artist's packs. The per-artist detail endpoint is
// undocumented; the list endpoint returns full pack lists with details=true,
// so a large single page with the artist as filter covers it.
func (e Endpoints) ArtistPacks(artist string) string {
	return e.ArtistList(1, maxPageSize, artist)
}

// YearList is the year index; it has no pagination and is not filterable.
func (e Endpoints) YearList() string {
	return e.API + "/v1/year/"
}

// YearPacks lists packs (or mags) released in one year.
func (e Endpoints) YearPacks(year int, includeMags bool, filter string) string {
	typ := "packs"
	if includeMags {
		typ = "mags"
	}
	q := url.Values{}
	q.Set("type", typ)
	q.Set("groups", "true")
	q.Set("sort", "pack")
	q.Set("order", "asc")
	q.Set("pagesize", fmt.Sprintf("%d", maxPageSize))
	q.Set("page", "1")
	if filter != "" {
		q.Set("filter", filter)
	}
	return e.API + "/v1/year/" + fmt.Sprintf("%d", year) + "?" + q.Encode()
}

// Latest lists the most recent releases.
func (e Endpoints) Latest() string {
	return e.API + "/v1/latest/releases"
}

// Thumbnail synthesizes the thumbnail URL for a file inside a pack.
func (e Endpoints) Thumbnail(pack, file string) string {
	return e.Web + "/pack/" + url.PathEscape(pack) + "/tn/" + url.PathEscape(file)
}

// Raw synthesizes the raw download URL for a file inside a pack.
func (e Endpoints) Raw(pack, file string) string {
	return e.Web + "/pack/" + url.PathEscape(pack) + "/raw/" + url.PathEscape(file)
}

// JoinWeb resolves a URI from a detail payload against the web host. Absolute
// URLs pass through verbatim.
func (e Endpoints) JoinWeb(uri string) string {
	if uri == "" {
		return e.Web
	}
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return uri
	}
	base := strings.TrimSuffix(e.Web, "/")
	if !strings.HasPrefix(uri, "/") {
		return base + "/" + uri
	}
	return base + uri
}
