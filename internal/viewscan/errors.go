package viewscan

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedPosition     = errors.New("viewscan: malformed position")
	ErrInvalidSearchKey      = errors.New("viewscan: invalid search key")
	ErrUnsupportedKeyType    = errors.New("viewscan: unsupported key type")
	ErrBufferCorrupt         = errors.New("viewscan: buffer corrupt")
	ErrUnsupportedColumnType = errors.New("viewscan: unsupported column type")
	ErrCollaborator          = errors.New("viewscan: collaborator error")
)

// Status is a raw status code reported by a collaborator.
type Status uint16

const (
	StatusOK Status = 0
	// StatusNotFound and StatusRemoteNotFound are the two codes a search
	// reports when nothing matched; the second one carries the remote bit.
	StatusNotFound       Status = 1028
	StatusRemoteNotFound Status = 17412
)

// IsNotFound reports whether status is one of the "no match" codes.
func IsNotFound(status Status) bool {
	return status == StatusNotFound || status == StatusRemoteNotFound
}

// UnsupportedColumnTypeError is returned when the decoder meets a type tag it
// has no decoding rule for.
type UnsupportedColumnTypeError struct {
	Tag    ValueType
	Column int
}

func (e *UnsupportedColumnTypeError) Error() string {
	return fmt.Sprintf("viewscan: unsupported column type 0x%04x at column %d", uint16(e.Tag), e.Column)
}

func (e *UnsupportedColumnTypeError) Unwrap() error {
	return ErrUnsupportedColumnType
}

// BufferCorruptError describes where a buffer stopped making sense.
type BufferCorruptError struct {
	Offset int
	Want   int
	Reason string
}

func (e *BufferCorruptError) Error() string {
	return fmt.Sprintf("viewscan: buffer corrupt at offset %d (want %d): %s", e.Offset, e.Want, e.Reason)
}

func (e *BufferCorruptError) Unwrap() error {
	return ErrBufferCorrupt
}

// StatusError carries a collaborator status that is neither success nor a
// recognised "no match" code. The raw status is kept for logging.
type StatusError struct {
	Op     string
	Status Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("viewscan: %s failed with status %d (0x%04x)", e.Op, uint16(e.Status), uint16(e.Status))
}

func (e *StatusError) Unwrap() error {
	return ErrCollaborator
}

// KeyError points at the search key that could not be encoded.
type KeyError struct {
	Index int
	Err   error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("search key %d: %v", e.Index, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err means the buffer cannot be interpreted. Such
// errors must end the scan, retrying will not reinterpret the data.
func IsFatal(err error) bool {
	return errors.Is(err, ErrBufferCorrupt) || errors.Is(err, ErrUnsupportedColumnType)
}

func corrupt(offset, want int, format string, args ...any) error {
	return &BufferCorruptError{
		Offset: offset,
		Want:   want,
		Reason: fmt.Sprintf(format, args...),
	}
}
