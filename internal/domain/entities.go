package domain

// BrowseMode is the top-level navigation facet of the archive.
type BrowseMode int

const (
	ModePacks BrowseMode = iota
	ModeGroups
	ModeArtists
	ModeYears
	ModeLatest
)

// String returns the display name for the mode.
func (m BrowseMode) String() string {
	switch m {
	case ModePacks:
		return "Packs"
	case ModeGroups:
		return "Groups"
	case ModeArtists:
		return "Artists"
	case ModeYears:
		return "Years"
	case ModeLatest:
		return "Latest"
	default:
		return "Unknown"
	}
}

// PackRow is one entry in a pack list.
type PackRow struct {
	Name string
	Year int // 0 when unknown
}

// GroupRow is one entry in the group list.
type GroupRow struct {
	Name     string
	Releases int
}

// ArtistRow is one entry in the artist list.
type ArtistRow struct {
	Name     string
	Releases int
}

// YearRow is one entry in the year index.
type YearRow struct {
	Year  int
	Packs int
	Mags  int
}

// PackFile is a single file inside a pack, as listed by the detail endpoint.
type PackFile struct {
	Name         string
	ThumbnailURL string // empty when the archive has no thumbnail for this file
	Tags         []string
}

// PackDetail is the parsed contents of one pack.
type PackDetail struct {
	Name  string
	Files []PackFile
}
