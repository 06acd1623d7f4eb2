package domain

import "errors"

// Sentinel errors for browser operations
var (
	// ErrArchiveOffline indicates the archive API is unreachable
	ErrArchiveOffline = errors.New("archive is unreachable")

	// ErrCacheMiss indicates a CacheOnly request found no stored response
	ErrCacheMiss = errors.New("no cached response")

	// ErrUnsupportedFile indicates a raw download has no known import handler
	ErrUnsupportedFile = errors.New("unsupported file type for import")
)
