package archive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackListURL(t *testing.T) {
	ep := DefaultEndpoints()
	u := ep.PackList(2, 50, true, false, "")

	assert.True(t, strings.HasPrefix(u, "https://api.16colo.rs/v1/pack/?"))
	assert.Contains(t, u, "page=2")
	assert.Contains(t, u, "pagesize=50")
	assert.Contains(t, u, "archive=true")
	assert.Contains(t, u, "groups=true")
	assert.Contains(t, u, "artists=false")
	assert.NotContains(t, u, "filter=")
}

func TestPackListURLFilterEscaped(t *testing.T) {
	u := DefaultEndpoints().PackList(1, 50, true, false, "acid trip")
	assert.Contains(t, u, "filter=acid+trip")
}

func TestPackListClampsPageAndSize(t *testing.T) {
	u := DefaultEndpoints().PackList(0, 9999, false, false, "")
	assert.Contains(t, u, "page=1")
	assert.Contains(t, u, "pagesize=500")
}

func TestPackDetailURL(t *testing.T) {
	u := DefaultEndpoints().PackDetail("acdu0395")
	assert.Equal(t,
		"https://api.16colo.rs/v1/pack/acdu0395?sauce=false&dimensions=true&content=true&artists=true",
		u)
}

func TestGroupListURLNormalizesSort(t *testing.T) {
	u := DefaultEndpoints().GroupList(1, 80, "bogus", "sideways", "")
	assert.Contains(t, u, "sort=name")
	assert.Contains(t, u, "order=asc")

	u = DefaultEndpoints().GroupList(1, 80, "packs", "desc", "")
	assert.Contains(t, u, "sort=packs")
	assert.Contains(t, u, "order=desc")
}

func TestGroupDetailURL(t *testing.T) {
	u := DefaultEndpoints().GroupDetail("acid")
	assert.Equal(t, "https://api.16colo.rs/v1/group/acid?packs=true", u)
}

func TestYearURLs(t *testing.T) {
	ep := DefaultEndpoints()
	assert.Equal(t, "https://api.16colo.rs/v1/year/", ep.YearList())

	u := ep.YearPacks(1996, false, "")
	assert.True(t, strings.HasPrefix(u, "https://api.16colo.rs/v1/year/1996?"))
	assert.Contains(t, u, "type=packs")

	u = ep.YearPacks(1996, true, "")
	assert.Contains(t, u, "type=mags")
}

func TestThumbnailAndRawURLs(t *testing.T) {
	ep := DefaultEndpoints()
	assert.Equal(t,
		"https://16colo.rs/pack/blocktronics_420/tn/ungenannt-toker.ans.png",
		ep.Thumbnail("blocktronics_420", "ungenannt-toker.ans.png"))
	assert.Equal(t,
		"https://16colo.rs/pack/blocktronics_420/raw/ungenannt-toker.ans",
		ep.Raw("blocktronics_420", "ungenannt-toker.ans"))
}

func TestJoinWeb(t *testing.T) {
	ep := DefaultEndpoints()
	assert.Equal(t, "https://16colo.rs/pack/x/tn/y.png", ep.JoinWeb("/pack/x/tn/y.png"))
	assert.Equal(t, "https://16colo.rs/pack/x", ep.JoinWeb("pack/x"))
	assert.Equal(t, "http://other.host/z", ep.JoinWeb("http://other.host/z"))
	assert.Equal(t, "https://16colo.rs", ep.JoinWeb(""))
}

func TestGuessYearFromPackName(t *testing.T) {
	cases := map[string]int{
		"blocktronics_2023":  2023,
		"mop-9509":           1995,
		"ama-0717":           2007,
		"ice9703a":           1997,
		"acid-54":            0,
		"galza":              0,
		"mistigris_1996_dec": 1996,
		"":                   0,
	}
	for pack, want := range cases {
		assert.Equal(t, want, GuessYearFromPackName(pack), "pack %q", pack)
	}
}
