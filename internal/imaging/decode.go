// Package imaging decodes downloaded thumbnails and raster files into RGBA8
// buffers and builds the small fixed-size previews the gallery renders.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	// Register the formats the archive serves thumbnails and art scans in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/packview/packview/internal/domain"
)

// Decoder implements domain.ImageDecoder on the standard image codecs.
type Decoder struct{}

// Decode turns PNG/JPEG/GIF bytes into an RGBA8 pixel buffer.
func (Decoder) Decode(data []byte) (domain.DecodedImage, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return domain.DecodedImage{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return domain.DecodedImage{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: rgba.Pix,
	}, nil
}
