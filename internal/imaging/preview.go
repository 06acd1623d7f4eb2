package imaging

import (
	"errors"
	"math"
)

// Preview dimensions. 32x20 pixels render as 32 columns of 10 half-block
// rows, close to the gallery cell aspect.
const (
	PreviewWidth  = 32
	PreviewHeight = 20
)

// Preview is a small, aspect-consistent RGBA8 rendition of a thumbnail.
// Precomputing it keeps per-frame draw cost bounded and avoids holding full
// decoded thumbnails in memory.
type Preview struct {
	Width  int
	Height int
	Pixels []byte // Width * Height * 4
}

// BuildPreview center-crops the source to the preview aspect ratio and
// bilinearly resamples it. Cropping keeps very tall ANSI thumbnails from
// being squashed.
func BuildPreview(src []byte, sw, sh int) (Preview, error) {
	return buildPreviewSized(src, sw, sh, PreviewWidth, PreviewHeight)
}

func buildPreviewSized(src []byte, sw, sh, dw, dh int) (Preview, error) {
	if len(src) < sw*sh*4 || sw <= 0 || sh <= 0 || dw <= 0 || dh <= 0 {
		return Preview{}, errors.New("invalid source image")
	}

	out := make([]byte, dw*dh*4)

	srcAspect := float64(sw) / float64(sh)
	dstAspect := float64(dw) / float64(dh)

	// Crop rect in source space matching the destination aspect ratio.
	cropX, cropY := 0.0, 0.0
	cropW, cropH := float64(sw), float64(sh)
	switch {
	case srcAspect > dstAspect: // too wide
		cropW = cropH * dstAspect
		cropX = (float64(sw) - cropW) / 2
	case srcAspect < dstAspect: // too tall
		cropH = cropW / dstAspect
		cropY = (float64(sh) - cropH) / 2
	}

	sample := func(x, y, c int) float64 {
		if x < 0 {
			x = 0
		} else if x >= sw {
			x = sw - 1
		}
		if y < 0 {
			y = 0
		} else if y >= sh {
			y = sh - 1
		}
		return float64(src[(y*sw+x)*4+c])
	}

	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			// Pixel-center mapping.
			u := (float64(x) + 0.5) / float64(dw)
			v := (float64(y) + 0.5) / float64(dh)
			sx := cropX + u*cropW - 0.5
			sy := cropY + v*cropH - 0.5

			x0 := int(math.Floor(sx))
			y0 := int(math.Floor(sy))
			tx := sx - float64(x0)
			ty := sy - float64(y0)

			for c := 0; c < 4; c++ {
				c00 := sample(x0, y0, c)
				c10 := sample(x0+1, y0, c)
				c01 := sample(x0, y0+1, c)
				c11 := sample(x0+1, y0+1, c)
				cx0 := c00 + (c10-c00)*tx
				cx1 := c01 + (c11-c01)*tx
				cv := cx0 + (cx1-cx0)*ty
				out[(y*dw+x)*4+c] = clampByte(int(math.Round(cv)))
			}
		}
	}

	return Preview{Width: dw, Height: dh, Pixels: out}, nil
}

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
