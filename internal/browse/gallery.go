package browse

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/packview/packview/internal/domain"
)

// FilterFiles narrows a pack's file list by a fuzzy filename query and an
// exact-substring tag query. Empty queries pass everything through. Filename
// matches are returned best-first.
func FilterFiles(files []domain.PackFile, nameQuery, tagQuery string) []domain.PackFile {
	out := files
	if tagQuery != "" {
		tq := strings.ToLower(tagQuery)
		filtered := make([]domain.PackFile, 0, len(out))
		for _, f := range out {
			for _, tag := range f.Tags {
				if strings.Contains(strings.ToLower(tag), tq) {
					filtered = append(filtered, f)
					break
				}
			}
		}
		out = filtered
	}
	if nameQuery == "" {
		return out
	}

	names := make([]string, len(out))
	for i, f := range out {
		names[i] = f.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(nameQuery, names)
	sort.Sort(ranks)

	matched := make([]domain.PackFile, 0, len(ranks))
	for _, r := range ranks {
		matched = append(matched, out[r.OriginalIndex])
	}
	return matched
}
