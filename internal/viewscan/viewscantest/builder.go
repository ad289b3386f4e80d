package viewscantest

import (
	"encoding/binary"
	"math"

	"github.com/RichardKnop/viewscan/internal/viewscan"
)

// BufferBuilder writes summary buffers the way the store lays them out.
// The first error sticks and is returned by Bytes.
type BufferBuilder struct {
	codec viewscan.TextCodec
	buf   []byte
	err   error
}

func NewBufferBuilder(codec viewscan.TextCodec) *BufferBuilder {
	if codec == nil {
		codec = viewscan.DefaultTextCodec()
	}
	return &BufferBuilder{codec: codec}
}

func (b *BufferBuilder) Uint16(n uint16) *BufferBuilder {
	b.buf = binary.LittleEndian.AppendUint16(b.buf, n)
	return b
}

func (b *BufferBuilder) Uint32(n uint32) *BufferBuilder {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, n)
	return b
}

func (b *BufferBuilder) Float64(n float64) *BufferBuilder {
	b.buf = binary.LittleEndian.AppendUint64(b.buf, math.Float64bits(n))
	return b
}

func (b *BufferBuilder) TimeDate(td viewscan.TimeDate) *BufferBuilder {
	return b.Uint32(td.Innards[0]).Uint32(td.Innards[1])
}

func (b *BufferBuilder) Raw(data []byte) *BufferBuilder {
	b.buf = append(b.buf, data...)
	return b
}

func (b *BufferBuilder) Bool(v bool) *BufferBuilder {
	if v {
		return b.Uint16(1)
	}
	return b.Uint16(0)
}

// Stats writes the collection stats that lead a buffer.
func (b *BufferBuilder) Stats(stats viewscan.CollectionStats) *BufferBuilder {
	return b.Uint32(stats.TopLevelEntries).TimeDate(stats.LastModified)
}

// Values writes a columnar value table. Values that are not Valid become
// zero length columns.
func (b *BufferBuilder) Values(values ...viewscan.ColumnValue) *BufferBuilder {
	if b.err != nil {
		return b
	}
	data, err := viewscan.EncodeValueTable(b.codec, values...)
	if err != nil {
		b.err = err
		return b
	}
	return b.Raw(data)
}

// Summary writes a named item table.
func (b *BufferBuilder) Summary(items ...viewscan.Item) *BufferBuilder {
	if b.err != nil {
		return b
	}
	data, err := viewscan.EncodeItemTable(b.codec, items...)
	if err != nil {
		b.err = err
		return b
	}
	return b.Raw(data)
}

// Entry writes the fields of entry selected by mask in wire order.
func (b *BufferBuilder) Entry(entry viewscan.Entry, mask viewscan.FieldMask) *BufferBuilder {
	if mask.Has(viewscan.FieldNoteID) {
		b.Uint32(entry.NoteID)
	}
	if mask.Has(viewscan.FieldUNID) {
		b.TimeDate(entry.UNID.File).TimeDate(entry.UNID.Note)
	}
	if mask.Has(viewscan.FieldNoteClass) {
		b.Uint16(entry.NoteClass)
	}
	if mask.Has(viewscan.FieldSiblings) {
		b.Uint32(entry.SiblingCount)
	}
	if mask.Has(viewscan.FieldChildren) {
		b.Uint32(entry.ChildCount)
	}
	if mask.Has(viewscan.FieldDescendants) {
		b.Uint32(entry.DescendantCount)
	}
	if mask.Has(viewscan.FieldAnyUnread) {
		b.Bool(entry.AnyUnread)
	}
	if mask.Has(viewscan.FieldIndentLevels) {
		b.Uint16(entry.IndentLevel)
	}
	if mask.Has(viewscan.FieldScore) {
		b.Uint16(entry.FTScore)
	}
	if mask.Has(viewscan.FieldUnread) {
		b.Bool(entry.Unread)
	}
	if mask.Has(viewscan.FieldPosition) {
		pos := entry.Position
		if pos == nil {
			pos = viewscan.Root()
		}
		b.Raw(pos.MarshalWire())
	}
	if mask.Has(viewscan.FieldSummaryValues) {
		b.Values(entry.Values...)
	}
	if mask.Has(viewscan.FieldSummary) {
		b.Summary(entry.Summary...)
	}
	return b
}

func (b *BufferBuilder) Len() int {
	return len(b.buf)
}

func (b *BufferBuilder) Bytes() ([]byte, error) {
	return b.buf, b.err
}

// MustBytes is Bytes for fixtures that cannot fail.
func (b *BufferBuilder) MustBytes() []byte {
	if b.err != nil {
		panic(b.err)
	}
	return b.buf
}
