package tui

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/packview/packview/internal/browse"
	"github.com/packview/packview/internal/config"
	"github.com/packview/packview/internal/domain"
	"github.com/packview/packview/internal/spider"
	"github.com/packview/packview/internal/tui/styles"
)

// tickInterval paces the drain/dispatch cycle. Every tick drains completed
// fetches, feeds the spider, and runs the level-triggered list checks.
const tickInterval = 50 * time.Millisecond

// paginationSlack is how close to the list bottom the cursor must be before
// the next page is requested.
const paginationSlack = 10

type pane int

const (
	paneList pane = iota
	paneGallery
)

type inputTarget int

const (
	inputNone inputTarget = iota
	inputArchiveFilter // server-side substring filter
	inputQuickFilter   // client-side fuzzy filter for unfiltered facets
	inputFileFilter    // gallery filename filter
)

// Model is the main Bubble Tea model for the application
type Model struct {
	session *browse.Session
	spider  *spider.Spider
	cfg     *config.Config
	keys    KeyMap
	logger  *slog.Logger

	width  int
	height int
	ready  bool

	focus        pane
	listIndex    int
	galleryIndex int
	gridColumns  int

	quickFilter string
	fileFilter  string
	input       textinput.Model
	target      inputTarget

	spin     spinner.Model
	showHelp bool
	status   string
}

// New creates the application model. The session and spider must share the
// queue the caller's worker pool serves. Toggled settings are written back
// to cfg and persisted.
func New(session *browse.Session, spdr *spider.Spider, cfg *config.Config, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	gridColumns := cfg.UI.GridColumns
	if gridColumns < 1 {
		gridColumns = 4
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.AccentStyle

	return Model{
		session:     session,
		spider:      spdr,
		cfg:         cfg,
		keys:        DefaultKeyMap(),
		logger:      logger,
		gridColumns: gridColumns,
		input:       ti,
		spin:        sp,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.spin.Tick)
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case TickMsg:
		m.session.Drain()
		m.spider.Tick()
		rows := m.visibleRows()
		nearBottom := m.listIndex >= len(rows)-paginationSlack
		m.session.Tick(nearBottom)
		m.clampCursors()
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case FileOpenedMsg:
		m.status = "opened " + msg.Name
		return m, nil

	case tea.KeyMsg:
		if m.target != inputNone {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.target = inputNone
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		value := m.input.Value()
		switch m.target {
		case inputArchiveFilter:
			m.session.SetFilter(value)
			m.listIndex = 0
		case inputQuickFilter:
			m.quickFilter = value
			m.listIndex = 0
		case inputFileFilter:
			m.fileFilter = value
			m.galleryIndex = 0
		}
		m.target = inputNone
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.spider.NoteUserActivity()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.NextPane):
		if m.focus == paneList {
			m.focus = paneGallery
		} else {
			m.focus = paneList
		}
		return m, nil

	case key.Matches(msg, m.keys.ModeLatest):
		return m.switchMode(domain.ModeLatest), nil
	case key.Matches(msg, m.keys.ModePacks):
		return m.switchMode(domain.ModePacks), nil
	case key.Matches(msg, m.keys.ModeGroups):
		return m.switchMode(domain.ModeGroups), nil
	case key.Matches(msg, m.keys.ModeArtists):
		return m.switchMode(domain.ModeArtists), nil
	case key.Matches(msg, m.keys.ModeYears):
		return m.switchMode(domain.ModeYears), nil

	case key.Matches(msg, m.keys.Filter):
		// Facets without a server-side filter get a client-side fuzzy one.
		if m.session.Mode() == domain.ModeYears || m.session.Drilled() {
			return m.openInput(inputQuickFilter, m.quickFilter), nil
		}
		return m.openInput(inputArchiveFilter, m.session.Filter()), nil

	case key.Matches(msg, m.keys.FileFilter):
		return m.openInput(inputFileFilter, m.fileFilter), nil

	case key.Matches(msg, m.keys.ToggleMags):
		m.session.SetYearIncludeMags(!m.session.YearIncludeMags())
		m.saveSettings()
		return m, nil

	case key.Matches(msg, m.keys.ToggleSpider):
		m.spider.SetEnabled(!m.spider.Enabled())
		if m.spider.Enabled() {
			m.status = "spider on"
		} else {
			m.status = "spider off"
		}
		m.saveSettings()
		return m, nil

	case key.Matches(msg, m.keys.CycleSort):
		m.cycleSort()
		return m, nil

	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Escape):
		if m.session.Drilled() {
			m.session.Back()
			m.quickFilter = ""
			m.listIndex = 0
		} else if m.quickFilter != "" || m.session.Filter() != "" {
			m.quickFilter = ""
			m.session.SetFilter("")
			m.listIndex = 0
		}
		return m, nil
	}

	if m.focus == paneList {
		return m.updateListKeys(msg)
	}
	return m.updateGalleryKeys(msg)
}

func (m Model) updateListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.visibleRows()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.listIndex = max(0, m.listIndex-1)
	case key.Matches(msg, m.keys.Down):
		m.listIndex = min(len(rows)-1, m.listIndex+1)
	case key.Matches(msg, m.keys.PageUp):
		m.listIndex = max(0, m.listIndex-m.listHeight()/2)
	case key.Matches(msg, m.keys.PageDown):
		m.listIndex = min(len(rows)-1, m.listIndex+m.listHeight()/2)
	case key.Matches(msg, m.keys.Home):
		m.listIndex = 0
	case key.Matches(msg, m.keys.End):
		m.listIndex = len(rows) - 1
	case key.Matches(msg, m.keys.Right):
		m.focus = paneGallery
	case key.Matches(msg, m.keys.Enter):
		if m.listIndex >= 0 && m.listIndex < len(rows) {
			m.selectRow(rows[m.listIndex])
		}
	}
	if m.listIndex < 0 {
		m.listIndex = 0
	}
	return m, nil
}

// selectRow acts on the left column selection according to the active facet.
func (m *Model) selectRow(row listRow) {
	s := m.session
	if s.Drilled() || s.Mode() == domain.ModeLatest || s.Mode() == domain.ModePacks {
		s.SelectPack(row.Title)
		m.fileFilter = ""
		m.galleryIndex = 0
		m.focus = paneGallery
		return
	}

	m.quickFilter = ""
	m.listIndex = 0
	switch s.Mode() {
	case domain.ModeGroups:
		s.SelectGroup(row.Title)
	case domain.ModeArtists:
		s.SelectArtist(row.Title)
	case domain.ModeYears:
		if year, err := strconv.Atoi(row.Title); err == nil {
			s.SelectYear(year)
		}
	}
}

func (m Model) updateGalleryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	files := m.visibleFiles()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.galleryIndex = max(0, m.galleryIndex-m.gridColumns)
	case key.Matches(msg, m.keys.Down):
		m.galleryIndex = min(len(files)-1, m.galleryIndex+m.gridColumns)
	case key.Matches(msg, m.keys.Left):
		if m.galleryIndex%m.gridColumns == 0 {
			m.focus = paneList
		} else {
			m.galleryIndex--
		}
	case key.Matches(msg, m.keys.Right):
		m.galleryIndex = min(len(files)-1, m.galleryIndex+1)
	case key.Matches(msg, m.keys.Home):
		m.galleryIndex = 0
	case key.Matches(msg, m.keys.End):
		m.galleryIndex = len(files) - 1
	case key.Matches(msg, m.keys.Open):
		if m.galleryIndex >= 0 && m.galleryIndex < len(files) {
			m.session.OpenFile(files[m.galleryIndex].Name)
			m.status = "downloading " + files[m.galleryIndex].Name
		}
	}
	if m.galleryIndex < 0 {
		m.galleryIndex = 0
	}
	return m, nil
}

func (m Model) switchMode(mode domain.BrowseMode) Model {
	m.session.SetMode(mode)
	m.listIndex = 0
	m.quickFilter = ""
	m.focus = paneList
	return m
}

func (m Model) openInput(target inputTarget, current string) Model {
	m.target = target
	m.input.SetValue(current)
	m.input.Focus()
	switch target {
	case inputArchiveFilter:
		m.input.Prompt = "search: "
	case inputQuickFilter:
		m.input.Prompt = "filter: "
	case inputFileFilter:
		m.input.Prompt = "files: "
	}
	return m
}

// cycleSort rotates the group list ordering; other facets have a fixed
// server-side order.
func (m *Model) cycleSort() {
	if m.session.Mode() != domain.ModeGroups {
		return
	}
	sort, order := m.session.GroupSort()
	switch {
	case sort == "packs" && order == "desc":
		m.session.SetGroupSort("packs", "asc")
	case sort == "packs" && order == "asc":
		m.session.SetGroupSort("name", "asc")
	case sort == "name" && order == "asc":
		m.session.SetGroupSort("name", "desc")
	default:
		m.session.SetGroupSort("packs", "desc")
	}
	sort, order = m.session.GroupSort()
	m.status = fmt.Sprintf("groups by %s %s", sort, order)
	m.listIndex = 0
}

// saveSettings persists the toggles that survive restarts.
func (m *Model) saveSettings() {
	m.cfg.Browse.IncludeMags = m.session.YearIncludeMags()
	m.cfg.Spider.Enabled = m.spider.Enabled()
	if err := config.Save(m.cfg); err != nil {
		m.logger.Warn("failed to save settings", "error", err)
	}
}

// visibleRows builds the left column from the active facet, with the
// client-side quick filter applied.
func (m Model) visibleRows() []listRow {
	s := m.session
	var rows []listRow

	if s.Drilled() {
		for _, p := range s.DrillRows() {
			rows = append(rows, listRow{Title: p.Name, Subtitle: yearLabel(p.Year)})
		}
		return filterRows(rows, m.quickFilter)
	}

	switch s.Mode() {
	case domain.ModeLatest:
		for _, p := range s.LatestRows() {
			rows = append(rows, listRow{Title: p.Name, Subtitle: yearLabel(p.Year)})
		}
	case domain.ModePacks:
		for _, p := range s.PackRows() {
			rows = append(rows, listRow{Title: p.Name, Subtitle: yearLabel(p.Year)})
		}
	case domain.ModeGroups:
		for _, g := range s.GroupRows() {
			rows = append(rows, listRow{Title: g.Name, Subtitle: releaseLabel(g.Releases)})
		}
	case domain.ModeArtists:
		for _, a := range s.ArtistRows() {
			rows = append(rows, listRow{Title: a.Name, Subtitle: releaseLabel(a.Releases)})
		}
	case domain.ModeYears:
		for _, y := range s.YearRows() {
			rows = append(rows, listRow{
				Title:    strconv.Itoa(y.Year),
				Subtitle: fmt.Sprintf("%d packs, %d mags", y.Packs, y.Mags),
			})
		}
	}
	return filterRows(rows, m.quickFilter)
}

// visibleFiles returns the gallery files after the filename filter.
func (m Model) visibleFiles() []domain.PackFile {
	detail := m.session.Detail()
	if detail == nil {
		return nil
	}
	return browse.FilterFiles(detail.Files, m.fileFilter, "")
}

func (m *Model) clampCursors() {
	if rows := m.visibleRows(); m.listIndex >= len(rows) {
		m.listIndex = max(0, len(rows)-1)
	}
	if files := m.visibleFiles(); m.galleryIndex >= len(files) {
		m.galleryIndex = max(0, len(files)-1)
	}
}

func yearLabel(year int) string {
	if year <= 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func releaseLabel(n int) string {
	if n == 1 {
		return "1 release"
	}
	return fmt.Sprintf("%d releases", n)
}
