package viewscan

import (
	"context"
)

// BufferHandle identifies a buffer owned by the scanner. Zero means no
// buffer was allocated.
type BufferHandle uint64

// ScanRequest is one paginated read as sent to the store.
type ScanRequest struct {
	Position        Position
	SkipNavigator   uint16
	SkipCount       uint32
	ReturnNavigator uint16
	ReturnCount     uint32
	FieldMask       FieldMask
}

// ScanResponse is what one scan step produced. Buffer stays valid until the
// handle is released.
type ScanResponse struct {
	Handle   BufferHandle
	Buffer   []byte
	Position Position
	Skipped  uint32
	Returned uint32
	Signals  Signals
}

// SearchResponse carries the raw result of a positional or name search.
// Position holds the wire form of the landing position.
type SearchResponse struct {
	Status     Status
	Position   []byte
	MatchCount uint32
}

// Scanner performs single scan steps against a remote index.
type Scanner interface {
	ScanStep(ctx context.Context, req ScanRequest) (ScanResponse, error)
	ReleaseBuffer(ctx context.Context, handle BufferHandle) error
}

// Searcher locates a starting position in a remote index.
type Searcher interface {
	PositionalSearch(ctx context.Context, keys []byte, flags uint16) (SearchResponse, error)
	NameSearch(ctx context.Context, prefix []byte, flags uint16) (SearchResponse, error)
}
