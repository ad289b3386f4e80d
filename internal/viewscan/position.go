package viewscan

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxTumblerLevel is the deepest level a position can address; the wire
	// struct has room for MaxTumblerLevel+1 tumblers.
	MaxTumblerLevel = 31

	positionHeaderSize = 4
	tumblerSize        = 4
)

// Position is a hierarchical index address: Tumbler[0] is the top level
// sibling index, every following tumbler the sibling index among the
// children of the previous one. Tumblers are 1-based; the single tumbler 0
// means "before the first entry".
//
// A Position is a cursor. Scan steps overwrite it in place, so concurrent
// scans must each use their own Position.
type Position struct {
	Level    uint16
	MinLevel uint8
	MaxLevel uint8
	Tumbler  [MaxTumblerLevel + 1]uint32
}

// Root returns the position before the first entry, the start of a full
// forward scan.
func Root() *Position {
	return &Position{}
}

// NewPosition builds a position from its tumblers.
func NewPosition(tumblers ...uint32) (*Position, error) {
	if len(tumblers) == 0 {
		return Root(), nil
	}
	if len(tumblers) > MaxTumblerLevel+1 {
		return nil, fmt.Errorf("%w: %d levels, at most %d allowed", ErrMalformedPosition, len(tumblers), MaxTumblerLevel+1)
	}
	p := &Position{Level: uint16(len(tumblers) - 1)}
	copy(p.Tumbler[:], tumblers)
	return p, nil
}

// ParsePosition parses the dotted form, e.g. "1.2.3". An empty string parses
// to the root position.
func ParsePosition(s string) (*Position, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Root(), nil
	}

	parts := strings.Split(s, ".")
	if len(parts) > MaxTumblerLevel+1 {
		return nil, fmt.Errorf("%w: %q has %d levels, at most %d allowed", ErrMalformedPosition, s, len(parts), MaxTumblerLevel+1)
	}

	tumblers := make([]uint32, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedPosition, s, err)
		}
		tumblers = append(tumblers, uint32(n))
	}
	return NewPosition(tumblers...)
}

// MustParsePosition is ParsePosition for constants; it panics on error.
func MustParsePosition(s string) *Position {
	p, err := ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Position) String() string {
	var sb strings.Builder
	for i := 0; i <= int(p.Level); i++ {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.FormatUint(uint64(p.Tumbler[i]), 10))
	}
	return sb.String()
}

// Tumblers returns a copy of the used tumblers.
func (p *Position) Tumblers() []uint32 {
	out := make([]uint32, int(p.Level)+1)
	copy(out, p.Tumbler[:int(p.Level)+1])
	return out
}

// IsRoot reports whether p is the "before the first entry" position.
func (p *Position) IsRoot() bool {
	return p.Level == 0 && p.Tumbler[0] == 0
}

// Depth is the number of tumblers in use.
func (p *Position) Depth() int {
	return int(p.Level) + 1
}

func (p *Position) Clone() *Position {
	aClone := *p
	return &aClone
}

// Set overwrites p with other.
func (p *Position) Set(other *Position) {
	*p = *other
}

// Equal compares the used tumblers and level limits.
func (p *Position) Equal(other *Position) bool {
	if p.Level != other.Level || p.MinLevel != other.MinLevel || p.MaxLevel != other.MaxLevel {
		return false
	}
	for i := 0; i <= int(p.Level); i++ {
		if p.Tumbler[i] != other.Tumbler[i] {
			return false
		}
	}
	return true
}

// Parent returns the position one level up, false for top level positions.
func (p *Position) Parent() (*Position, bool) {
	if p.Level == 0 {
		return nil, false
	}
	parent := &Position{Level: p.Level - 1, MinLevel: p.MinLevel, MaxLevel: p.MaxLevel}
	copy(parent.Tumbler[:], p.Tumbler[:p.Level])
	return parent, true
}

// WireSize is the truncated wire size: a header word plus Level+1 tumblers.
func (p *Position) WireSize() int {
	return positionWireSize(p.Level)
}

func positionWireSize(level uint16) int {
	return (int(level) + 2) * tumblerSize
}

// Marshal writes the truncated wire form into buf at offset i.
func (p *Position) Marshal(buf []byte, i int) {
	putUint32(buf, p.headerWord(), i)
	for t := 0; t <= int(p.Level); t++ {
		putUint32(buf, p.Tumbler[t], i+positionHeaderSize+t*tumblerSize)
	}
}

// MarshalWire returns the truncated wire form.
func (p *Position) MarshalWire() []byte {
	buf := make([]byte, p.WireSize())
	p.Marshal(buf, 0)
	return buf
}

func (p *Position) headerWord() uint32 {
	return uint32(p.Level) | uint32(p.MinLevel)<<16 | uint32(p.MaxLevel)<<24
}

// FromWireWords builds a position from its wire words: words[0] is the header
// word (level, min level, max level) and words[1:] the level+1 tumblers.
func FromWireWords(level uint16, words []uint32) (*Position, error) {
	if level > MaxTumblerLevel {
		return nil, fmt.Errorf("%w: level %d exceeds %d", ErrMalformedPosition, level, MaxTumblerLevel)
	}
	if len(words) != int(level)+2 {
		return nil, fmt.Errorf("%w: level %d needs %d words, got %d", ErrMalformedPosition, level, int(level)+2, len(words))
	}
	if uint16(words[0]) != level {
		return nil, fmt.Errorf("%w: header level %d does not match %d", ErrMalformedPosition, uint16(words[0]), level)
	}
	p := &Position{
		Level:    level,
		MinLevel: uint8(words[0] >> 16),
		MaxLevel: uint8(words[0] >> 24),
	}
	copy(p.Tumbler[:], words[1:])
	return p, nil
}

// UnmarshalPosition decodes a truncated wire position that fills buf.
func UnmarshalPosition(buf []byte) (*Position, error) {
	r := newBufferReader(buf)
	p, err := readPosition(r)
	if err != nil {
		return nil, err
	}
	if r.remaining() != 0 {
		return nil, corrupt(r.off, len(buf), "%d trailing bytes after position", r.remaining())
	}
	return p, nil
}

// readPosition reads the level first; the tumbler count depends on it.
func readPosition(r *bufferReader) (*Position, error) {
	start := r.off
	level, err := r.uint16("position level")
	if err != nil {
		return nil, err
	}
	if level > MaxTumblerLevel {
		return nil, corrupt(start, MaxTumblerLevel, "position level %d exceeds maximum", level)
	}
	r.off = start

	words := make([]uint32, int(level)+2)
	for i := range words {
		words[i], err = r.uint32("position word")
		if err != nil {
			return nil, err
		}
	}
	p, err := FromWireWords(level, words)
	if err != nil {
		return nil, corrupt(start, positionWireSize(level), "%v", err)
	}
	return p, nil
}
