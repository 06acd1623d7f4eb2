package domain

// FetchResponse carries the transport-level outcome of a single request.
type FetchResponse struct {
	Status    int
	Body      []byte
	FromCache bool
	Changed   bool // NetworkOnly refresh produced a payload different from the cached copy
}

// Transport is the blocking "fetch bytes from URL" primitive used by the
// worker pool. Implementations decide their own timeout policy; the pool
// never interrupts an in-flight call.
type Transport interface {
	Get(url string, mode CacheMode) (FetchResponse, error)
}

// DecodedImage is an RGBA8 pixel buffer.
type DecodedImage struct {
	Width  int
	Height int
	Pixels []byte // Width * Height * 4
}

// ImageDecoder turns downloaded image bytes into pixels. Used on thumbnail
// results and on raw downloads classified as images.
type ImageDecoder interface {
	Decode(data []byte) (DecodedImage, error)
}

// LoadedImage is handed to the editor shell when a raw download turns out to
// be an image file.
type LoadedImage struct {
	Path   string // source URL, used as a stable identity for window titles
	Width  int
	Height int
	Pixels []byte // RGBA8
}

// Callbacks are the hooks the browser exposes to the editor shell. The shell
// owns canvas/window creation; the browser only classifies and hands off.
type Callbacks struct {
	// CreateCanvas receives the raw text/markup bytes of a downloaded file
	// (ANS, ASC, XB, ...) together with its source URL.
	CreateCanvas func(data []byte, sourceURL string)

	// CreateImage receives a decoded raster image.
	CreateImage func(img LoadedImage)
}
