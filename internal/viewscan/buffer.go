package viewscan

import (
	"encoding/binary"
	"math"
)

// bufferReader walks a borrowed buffer. Every read checks the remaining
// length first and fails with a BufferCorruptError instead of reading past
// the end.
type bufferReader struct {
	buf []byte
	off int
}

func newBufferReader(buf []byte) *bufferReader {
	return &bufferReader{buf: buf}
}

func (r *bufferReader) remaining() int {
	return len(r.buf) - r.off
}

func (r *bufferReader) need(n int, what string) error {
	if n < 0 || r.remaining() < n {
		return corrupt(r.off, n, "%s needs %d bytes, %d left", what, n, r.remaining())
	}
	return nil
}

func (r *bufferReader) skip(n int, what string) error {
	if err := r.need(n, what); err != nil {
		return err
	}
	r.off += n
	return nil
}

func (r *bufferReader) bytes(n int, what string) ([]byte, error) {
	if err := r.need(n, what); err != nil {
		return nil, err
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *bufferReader) uint8(what string) (uint8, error) {
	if err := r.need(1, what); err != nil {
		return 0, err
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

func (r *bufferReader) uint16(what string) (uint16, error) {
	if err := r.need(2, what); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

func (r *bufferReader) uint32(what string) (uint32, error) {
	if err := r.need(4, what); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

func (r *bufferReader) float64(what string) (float64, error) {
	if err := r.need(8, what); err != nil {
		return 0, err
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(r.buf[r.off:]))
	r.off += 8
	return v, nil
}

func (r *bufferReader) bool16(what string) (bool, error) {
	v, err := r.uint16(what)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (r *bufferReader) timeDate(what string) (TimeDate, error) {
	if err := r.need(timeDateSize, what); err != nil {
		return TimeDate{}, err
	}
	var td TimeDate
	td.Innards[0] = binary.LittleEndian.Uint32(r.buf[r.off:])
	td.Innards[1] = binary.LittleEndian.Uint32(r.buf[r.off+4:])
	r.off += timeDateSize
	return td, nil
}

func putUint16(buf []byte, n uint16, i int) {
	binary.LittleEndian.PutUint16(buf[i:], n)
}

func putUint32(buf []byte, n uint32, i int) {
	binary.LittleEndian.PutUint32(buf[i:], n)
}

func putFloat64(buf []byte, n float64, i int) {
	binary.LittleEndian.PutUint64(buf[i:], math.Float64bits(n))
}

func putTimeDate(buf []byte, td TimeDate, i int) {
	putUint32(buf, td.Innards[0], i)
	putUint32(buf, td.Innards[1], i+4)
}
