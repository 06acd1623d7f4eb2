package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/packview/packview/internal/imaging"
)

// RenderPreview draws an RGBA preview as terminal half-blocks: each "▀" cell
// carries two vertically stacked pixels via foreground and background color.
func RenderPreview(p imaging.Preview) string {
	if p.Width == 0 || p.Height == 0 || len(p.Pixels) < p.Width*p.Height*4 {
		return ""
	}

	var b strings.Builder
	for y := 0; y < p.Height-1; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < p.Width; x++ {
			top := pixelColor(p, x, y)
			bottom := pixelColor(p, x, y+1)
			b.WriteString(lipgloss.NewStyle().
				Foreground(top).
				Background(bottom).
				Render("▀"))
		}
	}
	return b.String()
}

func pixelColor(p imaging.Preview, x, y int) lipgloss.Color {
	i := (y*p.Width + x) * 4
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X",
		p.Pixels[i], p.Pixels[i+1], p.Pixels[i+2]))
}
