package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packview/packview/internal/domain"
)

var galleryFiles = []domain.PackFile{
	{Name: "ungenannt-toker.ans", Tags: []string{"ansi"}},
	{Name: "file_id.diz", Tags: []string{"infofile"}},
	{Name: "luciano-logo.ans", Tags: []string{"ansi", "logo"}},
	{Name: "cover.png", Tags: []string{"raster"}},
}

func TestFilterFilesNoQueryPassesThrough(t *testing.T) {
	out := FilterFiles(galleryFiles, "", "")
	assert.Equal(t, galleryFiles, out)
}

func TestFilterFilesByName(t *testing.T) {
	out := FilterFiles(galleryFiles, "toker", "")
	require.Len(t, out, 1)
	assert.Equal(t, "ungenannt-toker.ans", out[0].Name)
}

func TestFilterFilesFuzzyName(t *testing.T) {
	out := FilterFiles(galleryFiles, "ans", "")
	names := make([]string, len(out))
	for i, f := range out {
		names[i] = f.Name
	}
	assert.Contains(t, names, "ungenannt-toker.ans")
	assert.Contains(t, names, "luciano-logo.ans")
	assert.NotContains(t, names, "cover.png")
}

func TestFilterFilesByTag(t *testing.T) {
	out := FilterFiles(galleryFiles, "", "logo")
	require.Len(t, out, 1)
	assert.Equal(t, "luciano-logo.ans", out[0].Name)
}

func TestFilterFilesCombined(t *testing.T) {
	out := FilterFiles(galleryFiles, "luciano", "ansi")
	require.Len(t, out, 1)
	assert.Equal(t, "luciano-logo.ans", out[0].Name)
}

func TestFilterFilesTagIsCaseInsensitive(t *testing.T) {
	out := FilterFiles(galleryFiles, "", "ANSI")
	assert.Len(t, out, 2)
}
