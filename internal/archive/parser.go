package archive

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/packview/packview/internal/domain"
)

// flexInt unmarshals integers that some endpoints occasionally serialize as
// strings or floats. Unparseable values decode to zero rather than failing
// the record.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	*f = 0
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		if n, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			*f = flexInt(n)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	*f = flexInt(v + 0.5)
	return nil
}

type pageInfo struct {
	Pages flexInt `json:"pages"`
}

// ParsePackList parses a pack list page into rows plus the total page count.
// Unrecognized records are skipped; only invalid JSON fails the page.
func ParsePackList(body []byte) ([]domain.PackRow, int, error) {
	var payload struct {
		Page    pageInfo          `json:"page"`
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, 0, err
	}

	rows := make([]domain.PackRow, 0, len(payload.Results))
	for _, raw := range payload.Results {
		var rec struct {
			Name string  `json:"name"`
			Pack string  `json:"pack"`
			Year flexInt `json:"year"`
		}
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		name := rec.Name
		if name == "" {
			name = rec.Pack
		}
		if name == "" {
			continue
		}
		rows = append(rows, domain.PackRow{Name: name, Year: int(rec.Year)})
	}
	return rows, int(payload.Page.Pages), nil
}

// ParseLatest parses the latest-releases feed. Rows name their pack under
// either "pack" or "name".
func ParseLatest(body []byte) ([]domain.PackRow, error) {
	rows, _, err := ParsePackList(body)
	return rows, err
}

// ParseGroupList parses a group list page. Two row shapes are tolerated:
// a flat {"name": ..., "releases": n} record and an older single-key object
// keyed by the group name.
func ParseGroupList(body []byte) ([]domain.GroupRow, int, error) {
	var payload struct {
		Page    pageInfo          `json:"page"`
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, 0, err
	}

	rows := make([]domain.GroupRow, 0, len(payload.Results))
	for _, raw := range payload.Results {
		var flat struct {
			Name     string  `json:"name"`
			Releases flexInt `json:"releases"`
		}
		if err := json.Unmarshal(raw, &flat); err == nil && flat.Name != "" {
			rows = append(rows, domain.GroupRow{Name: flat.Name, Releases: int(flat.Releases)})
			continue
		}

		var keyed map[string]struct {
			Releases flexInt `json:"releases"`
		}
		if err := json.Unmarshal(raw, &keyed); err != nil || len(keyed) != 1 {
			continue
		}
		for name, rec := range keyed {
			if name != "" {
				rows = append(rows, domain.GroupRow{Name: name, Releases: int(rec.Releases)})
			}
		}
	}
	return rows, int(payload.Page.Pages), nil
}

// artistRecord extracts the artist object from one result entry, tolerating
// the nested {"artist": {...}}, the single-key {"<x>": {...}}, and the flat
// shapes.
func artistRecord(raw json.RawMessage) (json.RawMessage, bool) {
	var nested struct {
		Artist json.RawMessage `json:"artist"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested.Artist) > 0 && nested.Artist[0] == '{' {
		return nested.Artist, true
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, false
	}
	if len(keyed) == 1 {
		for _, v := range keyed {
			if len(v) > 0 && v[0] == '{' {
				return v, true
			}
		}
	}
	return raw, true
}

// ParseArtistList parses an artist list page.
func ParseArtistList(body []byte) ([]domain.ArtistRow, int, error) {
	var payload struct {
		Page    pageInfo          `json:"page"`
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, 0, err
	}

	rows := make([]domain.ArtistRow, 0, len(payload.Results))
	for _, raw := range payload.Results {
		rec, ok := artistRecord(raw)
		if !ok {
			continue
		}
		var a struct {
			Name     string  `json:"name"`
			Releases flexInt `json:"releases"`
		}
		if err := json.Unmarshal(rec, &a); err != nil || a.Name == "" {
			continue
		}
		rows = append(rows, domain.ArtistRow{Name: a.Name, Releases: int(a.Releases)})
	}
	return rows, int(payload.Page.Pages), nil
}

// ParseArtistPacks extracts the pack names credited to one artist from an
// artist list response. Rows whose artist name does not contain the requested
// name are dropped (the endpoint filter is a substring match). Packs are
// sorted newest-first by the year inferred from the pack name.
func ParseArtistPacks(body []byte, artist string) ([]domain.PackRow, error) {
	var payload struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, raw := range payload.Results {
		rec, ok := artistRecord(raw)
		if !ok {
			continue
		}
		var a struct {
			Name  string   `json:"name"`
			Packs []string `json:"packs"`
		}
		if err := json.Unmarshal(rec, &a); err != nil {
			continue
		}
		if !strings.Contains(strings.ToLower(a.Name), strings.ToLower(artist)) {
			continue
		}
		for _, p := range a.Packs {
			if p != "" && !seen[p] {
				seen[p] = true
				names = append(names, p)
			}
		}
	}

	rows := make([]domain.PackRow, 0, len(names))
	for _, n := range names {
		rows = append(rows, domain.PackRow{Name: n, Year: GuessYearFromPackName(n)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year > rows[j].Year
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}

// ParseGroupPacks extracts a group's packs. The current shape nests a
// year-keyed object under results.packs; the legacy shape wraps it inside a
// results array keyed by the group name. Packs are sorted newest-first.
func ParseGroupPacks(body []byte, group string) ([]domain.PackRow, error) {
	var payload struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	packsByYear := groupPacksObject(payload.Results, group)
	var rows []domain.PackRow
	for key, names := range packsByYear {
		year, _ := strconv.Atoi(key)
		for _, n := range names {
			if n != "" {
				rows = append(rows, domain.PackRow{Name: n, Year: year})
			}
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year > rows[j].Year
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}

func groupPacksObject(results json.RawMessage, group string) map[string][]string {
	// Current shape: results.packs = { "1998": ["pack", ...], ... }
	var obj struct {
		Packs map[string][]string `json:"packs"`
	}
	if err := json.Unmarshal(results, &obj); err == nil && len(obj.Packs) > 0 {
		return obj.Packs
	}

	// Legacy shape: results[] entries keyed by group name, each holding a
	// packs object.
	var arr []map[string]json.RawMessage
	if err := json.Unmarshal(results, &arr); err != nil {
		return nil
	}
	for _, entry := range arr {
		raw, ok := entry[group]
		if !ok {
			continue
		}
		var g struct {
			Packs map[string][]string `json:"packs"`
		}
		if err := json.Unmarshal(raw, &g); err == nil && len(g.Packs) > 0 {
			return g.Packs
		}
	}
	return nil
}

// ParseYearIndex parses the year index object, keyed by year, into rows
// sorted newest-first. Keys that are not years are skipped.
func ParseYearIndex(body []byte) ([]domain.YearRow, error) {
	var payload map[string]struct {
		Packs flexInt `json:"packs"`
		Mags  flexInt `json:"mags"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	rows := make([]domain.YearRow, 0, len(payload))
	for key, rec := range payload {
		year, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		rows = append(rows, domain.YearRow{Year: year, Packs: int(rec.Packs), Mags: int(rec.Mags)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Year > rows[j].Year })
	return rows, nil
}

// ParseYearPacks parses a year drill-down, which shares the pack list shape.
func ParseYearPacks(body []byte) ([]domain.PackRow, error) {
	rows, _, err := ParsePackList(body)
	return rows, err
}

// ParsePackDetail parses one pack's file listing. Thumbnail URLs are taken
// verbatim from the payload's uri field when present, otherwise synthesized
// from the tn file name. Files are returned sorted by name.
func ParsePackDetail(body []byte, pack string, ep Endpoints) (domain.PackDetail, error) {
	var payload struct {
		Results []struct {
			Files map[string]json.RawMessage `json:"files"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.PackDetail{}, err
	}

	detail := domain.PackDetail{Name: pack}
	if len(payload.Results) == 0 {
		return detail, nil
	}

	files := payload.Results[0].Files
	names := make([]string, 0, len(files))
	for name := range files {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		pf := domain.PackFile{Name: name}
		var rec struct {
			File struct {
				TN thumbRef `json:"tn"`
			} `json:"file"`
			TN      thumbRef `json:"tn"`
			Content []string `json:"content"`
		}
		if err := json.Unmarshal(files[name], &rec); err == nil {
			pf.ThumbnailURL = rec.File.TN.resolve(ep, pack)
			if pf.ThumbnailURL == "" {
				pf.ThumbnailURL = rec.TN.resolve(ep, pack)
			}
			pf.Tags = rec.Content
		}
		detail.Files = append(detail.Files, pf)
	}
	return detail, nil
}

type thumbRef struct {
	URI  string `json:"uri"`
	File string `json:"file"`
}

func (t thumbRef) resolve(ep Endpoints, pack string) string {
	if t.URI != "" {
		return ep.JoinWeb(t.URI)
	}
	if t.File != "" {
		return ep.Thumbnail(pack, t.File)
	}
	return ""
}
