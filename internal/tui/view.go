package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/packview/packview/internal/domain"
	"github.com/packview/packview/internal/imaging"
	"github.com/packview/packview/internal/tui/styles"
)

const (
	listPanelWidth = 30
	chromeHeight   = 2 // tab line + status bar
)

// View implements tea.Model
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	if m.showHelp {
		return m.helpView()
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.listView(), m.galleryView())
	return lipgloss.JoinVertical(lipgloss.Left, m.tabsView(), body, m.statusView())
}

func (m Model) listHeight() int {
	h := m.height - chromeHeight - 2 // border
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) tabsView() string {
	labels := []struct {
		mode domain.BrowseMode
		text string
	}{
		{domain.ModeLatest, "1 latest"},
		{domain.ModePacks, "2 packs"},
		{domain.ModeGroups, "3 groups"},
		{domain.ModeArtists, "4 artists"},
		{domain.ModeYears, "5 years"},
	}

	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		if l.mode == m.session.Mode() {
			parts = append(parts, styles.HighlightStyle.Render(l.text))
		} else {
			parts = append(parts, styles.DimStyle.Render(" "+l.text+" "))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) listView() string {
	rows := m.visibleRows()
	height := m.listHeight()

	top := m.listIndex - height/2
	if top > len(rows)-height {
		top = len(rows) - height
	}
	if top < 0 {
		top = 0
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(m.listTitle()))
	b.WriteByte('\n')
	maxw := listPanelWidth - 2
	for i := top; i < top+height-1 && i < len(rows); i++ {
		title := truncate(rows[i].Title, maxw)
		sub := rows[i].Subtitle
		if len(title)+len(sub)+1 > maxw {
			sub = ""
		}
		if i == m.listIndex && m.focus == paneList {
			b.WriteString(styles.HighlightStyle.Render(title))
		} else {
			b.WriteString(title)
		}
		if sub != "" {
			b.WriteString(" " + styles.DimStyle.Render(sub))
		}
		b.WriteByte('\n')
	}
	if len(rows) == 0 {
		b.WriteString(styles.DimStyle.Render("(empty)"))
	}

	border := styles.InactiveBorder
	if m.focus == paneList {
		border = styles.ActiveBorder
	}
	return border.Width(listPanelWidth).Height(height).Render(b.String())
}

func (m Model) listTitle() string {
	s := m.session
	switch {
	case s.SelectedGroup() != "":
		return "group: " + s.SelectedGroup()
	case s.SelectedArtist() != "":
		return "artist: " + s.SelectedArtist()
	case s.SelectedYear() != 0:
		return fmt.Sprintf("year: %d", s.SelectedYear())
	default:
		return s.Mode().String()
	}
}

func (m Model) galleryView() string {
	width := m.width - listPanelWidth - 4
	if width < imaging.PreviewWidth+4 {
		width = imaging.PreviewWidth + 4
	}
	height := m.listHeight()

	files := m.visibleFiles()
	var b strings.Builder

	header := m.session.SelectedPack()
	if header == "" {
		header = "no pack selected"
	}
	if m.fileFilter != "" {
		header += "  " + styles.TagStyle.Render("files~"+m.fileFilter)
	}
	b.WriteString(styles.TitleStyle.Render(header))
	b.WriteByte('\n')

	if m.session.Detail() == nil && m.session.SelectedPack() != "" {
		b.WriteString(m.spin.View() + " loading pack contents")
	} else {
		b.WriteString(m.gridView(files, width))
	}

	border := styles.InactiveBorder
	if m.focus == paneGallery {
		border = styles.ActiveBorder
	}
	return border.Width(width).Height(height).Render(b.String())
}

// gridView lays thumbnail cells out in fixed columns, scrolled so the
// selected cell stays visible.
func (m Model) gridView(files []domain.PackFile, width int) string {
	if len(files) == 0 {
		return styles.DimStyle.Render("(no files)")
	}

	cols := m.gridColumns
	if max := width / (imaging.PreviewWidth + 2); cols > max && max > 0 {
		cols = max
	}
	if cols < 1 {
		cols = 1
	}

	cellRows := (m.listHeight() - 2) / (imaging.PreviewHeight/2 + 2)
	if cellRows < 1 {
		cellRows = 1
	}
	firstRow := m.galleryIndex/cols - cellRows/2
	if firstRow < 0 {
		firstRow = 0
	}

	var rows []string
	for r := firstRow; r < firstRow+cellRows; r++ {
		var cells []string
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i >= len(files) {
				break
			}
			cells = append(cells, m.cellView(files[i], i == m.galleryIndex && m.focus == paneGallery))
		}
		if len(cells) == 0 {
			break
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (m Model) cellView(file domain.PackFile, selected bool) string {
	var body string
	thumb, ok := m.session.ThumbFor(file.ThumbnailURL)
	switch {
	case file.ThumbnailURL == "":
		body = styles.ThumbPendingStyle.Render(centerInPreview("no preview"))
	case ok && thumb.Ready:
		body = RenderPreview(thumb.Preview)
	case ok && thumb.Failed:
		body = styles.ThumbFailedStyle.Render(centerInPreview("unavailable"))
	default:
		body = styles.ThumbPendingStyle.Render(centerInPreview("..."))
	}

	name := truncate(file.Name, imaging.PreviewWidth)
	if selected {
		name = styles.HighlightStyle.Render(name)
	} else {
		name = styles.SubtitleStyle.Render(name)
	}

	cell := lipgloss.JoinVertical(lipgloss.Left, body, name)
	return lipgloss.NewStyle().Padding(0, 1).Render(cell)
}

// centerInPreview pads a label to the preview cell footprint so text
// placeholders and rendered thumbnails align in the grid.
func centerInPreview(label string) string {
	lines := imaging.PreviewHeight / 2
	mid := lines / 2
	var b strings.Builder
	for i := 0; i < lines; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i == mid {
			pad := (imaging.PreviewWidth - len(label)) / 2
			if pad < 0 {
				pad = 0
			}
			b.WriteString(strings.Repeat(" ", pad) + label)
		}
	}
	return b.String()
}

func (m Model) statusView() string {
	if m.target != inputNone {
		return styles.StatusBarStyle.Width(m.width).Render(m.input.View())
	}

	var parts []string
	if m.session.Loading() {
		parts = append(parts, m.spin.View())
	}
	if n := m.session.RawPending(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d download(s)", n))
	}
	if f := m.session.Filter(); f != "" {
		parts = append(parts, "search: "+f)
	}
	if m.quickFilter != "" {
		parts = append(parts, "filter: "+m.quickFilter)
	}
	if m.spider.Enabled() {
		parts = append(parts, fmt.Sprintf("spider: %d queued", m.spider.Remaining()))
	}
	if err := m.session.LastError(); err != "" {
		parts = append(parts, styles.ErrorStyle.Render(err))
	} else if m.status != "" {
		parts = append(parts, m.status)
	}
	if len(parts) == 0 {
		parts = append(parts, "? help")
	}
	return styles.StatusBarStyle.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m Model) helpView() string {
	rows := [][2]string{
		{"1-5", "switch facet (latest/packs/groups/artists/years)"},
		{"j/k, arrows", "move"},
		{"tab", "switch pane"},
		{"enter", "select pack / drill down / download file"},
		{"backspace", "leave drill-down, clear filters"},
		{"/", "search the archive (fuzzy filter on years/drills)"},
		{"f", "filter files in the gallery"},
		{"s", "cycle group sort"},
		{"m", "toggle magazines in year lists"},
		{"S", "toggle the cache spider"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("packview keys"))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			styles.AccentStyle.Render(fmt.Sprintf("%-12s", r[0])),
			r[1]))
	}
	b.WriteString("\n" + styles.DimStyle.Render("press ? to close"))
	return b.String()
}

func truncate(s string, max int) string {
	if max <= 1 || len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
