package viewscan

import (
	"strings"

	"github.com/RichardKnop/viewscan/pkg/bitwise"
)

// FieldMask selects the per-entry fields a scan step returns.
type FieldMask uint32

const (
	FieldNoteID          FieldMask = 0x00000001
	FieldUNID            FieldMask = 0x00000002
	FieldNoteClass       FieldMask = 0x00000004
	FieldSiblings        FieldMask = 0x00000008
	FieldChildren        FieldMask = 0x00000010
	FieldDescendants     FieldMask = 0x00000020
	FieldAnyUnread       FieldMask = 0x00000040
	FieldIndentLevels    FieldMask = 0x00000080
	FieldCollectionStats FieldMask = 0x00000100
	FieldScore           FieldMask = 0x00000200
	FieldUnread          FieldMask = 0x00000400
	FieldSummaryValues   FieldMask = 0x00002000
	FieldPosition        FieldMask = 0x00004000
	FieldSummary         FieldMask = 0x00008000

	entryFields = FieldNoteID | FieldUNID | FieldNoteClass | FieldSiblings | FieldChildren |
		FieldDescendants | FieldAnyUnread | FieldIndentLevels | FieldScore | FieldUnread |
		FieldSummaryValues | FieldPosition | FieldSummary
)

var fieldNames = []struct {
	field FieldMask
	name  string
}{
	{FieldNoteID, "noteid"},
	{FieldUNID, "unid"},
	{FieldNoteClass, "noteclass"},
	{FieldSiblings, "siblings"},
	{FieldChildren, "children"},
	{FieldDescendants, "descendants"},
	{FieldAnyUnread, "anyunread"},
	{FieldIndentLevels, "indent"},
	{FieldCollectionStats, "stats"},
	{FieldScore, "score"},
	{FieldUnread, "unread"},
	{FieldSummaryValues, "values"},
	{FieldPosition, "position"},
	{FieldSummary, "summary"},
}

// ParseFieldMask ORs field names together, e.g. "noteid", "position".
func ParseFieldMask(names ...string) (FieldMask, bool) {
	var mask FieldMask
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		found := false
		for _, f := range fieldNames {
			if f.name == name {
				mask |= f.field
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return mask, true
}

func (m FieldMask) Has(f FieldMask) bool {
	return bitwise.HasAll(m, f)
}

func (m FieldMask) String() string {
	var parts []string
	for _, f := range fieldNames {
		if m.Has(f.field) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

const (
	// NoteIDCategory is set in the note id of category entries.
	NoteIDCategory uint32 = 0x80000000

	NoteClassDocument uint16 = 0x0001
)

// Entry is one decoded index entry. Only the fields selected by the field
// mask are populated; Has tells a zero value from an absent one.
type Entry struct {
	NoteID          uint32
	UNID            UNID
	NoteClass       uint16
	SiblingCount    uint32
	ChildCount      uint32
	DescendantCount uint32
	AnyUnread       bool
	IndentLevel     uint16
	FTScore         uint16
	Unread          bool
	Position        *Position
	Values          []ColumnValue
	Summary         ItemTable

	fields      FieldMask
	columnNames []string
}

func (e *Entry) Has(f FieldMask) bool {
	return e.fields.Has(f)
}

// IsCategory reports whether the entry is a category row.
func (e *Entry) IsCategory() bool {
	return e.NoteID&NoteIDCategory != 0
}

func (e *Entry) IsDocument() bool {
	if e.Has(FieldNoteClass) {
		return e.NoteClass&NoteClassDocument != 0 && !e.IsCategory()
	}
	return e.NoteID != 0 && !e.IsCategory()
}

// ColumnValue looks a summary value up by programmatic column name. It needs
// the column names the decoder was created with, or a named summary.
func (e *Entry) ColumnValue(name string) (ColumnValue, bool) {
	for i, columnName := range e.columnNames {
		if i < len(e.Values) && strings.EqualFold(columnName, name) {
			return e.Values[i], e.Values[i].Valid
		}
	}
	if e.Summary != nil {
		v, ok := e.Summary.Get(name)
		return v, ok && v.Valid
	}
	return ColumnValue{}, false
}

// CollectionStats lead the buffer when FieldCollectionStats is requested.
type CollectionStats struct {
	TopLevelEntries uint32
	LastModified    TimeDate
}

// ColumnFilter selects the summary value columns to materialise. Filtered
// out columns are still skipped over and show up as empty values. A nil
// filter keeps every column.
type ColumnFilter []uint64

func NewColumnFilter(columns ...int) ColumnFilter {
	var f ColumnFilter
	for _, c := range columns {
		if c < 0 {
			continue
		}
		for len(f) <= c/64 {
			f = append(f, 0)
		}
		f[c/64] = bitwise.Set(f[c/64], c%64)
	}
	if f == nil {
		f = ColumnFilter{}
	}
	return f
}

func (f ColumnFilter) Includes(column int) bool {
	if f == nil {
		return true
	}
	if column < 0 || column/64 >= len(f) {
		return false
	}
	return bitwise.IsSet(f[column/64], column%64)
}

// Decoder turns summary buffers into entries.
type Decoder struct {
	codec       TextCodec
	dtc         DateTimeContext
	columnNames []string
}

func NewDecoder(codec TextCodec, dtc DateTimeContext, columnNames ...string) *Decoder {
	if codec == nil {
		codec = DefaultTextCodec()
	}
	return &Decoder{
		codec:       codec,
		dtc:         dtc,
		columnNames: columnNames,
	}
}

// Decode walks buf, which holds entries records with the fields selected by
// mask in their fixed order. The buffer is only borrowed; nothing in the
// result refers to it.
//
// Any inconsistency fails the whole buffer. Entries decoded before the
// failure are discarded.
func (d *Decoder) Decode(buf []byte, entries uint32, mask FieldMask, filter ColumnFilter) (*CollectionStats, []Entry, error) {
	if len(buf) == 0 && entries == 0 {
		return nil, nil, nil
	}
	if entries == 0 && !mask.Has(FieldCollectionStats) {
		return nil, nil, nil
	}

	r := newBufferReader(buf)

	var stats *CollectionStats
	if mask.Has(FieldCollectionStats) {
		var err error
		stats, err = readStats(r)
		if err != nil {
			return nil, nil, err
		}
	}

	// Every entry with a field takes at least one byte.
	if mask&entryFields != 0 && int64(entries) > int64(r.remaining()) {
		return nil, nil, corrupt(r.off, int(entries), "%d entries cannot fit in %d remaining bytes", entries, r.remaining())
	}

	out := make([]Entry, 0, min(int64(entries), int64(len(buf))))
	for i := uint32(0); i < entries; i++ {
		entry, err := d.readEntry(r, mask&entryFields, filter)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, entry)
	}

	return stats, out, nil
}

func readStats(r *bufferReader) (*CollectionStats, error) {
	topLevel, err := r.uint32("top level entries")
	if err != nil {
		return nil, err
	}
	lastModified, err := r.timeDate("last modified")
	if err != nil {
		return nil, err
	}
	return &CollectionStats{TopLevelEntries: topLevel, LastModified: lastModified}, nil
}

func (d *Decoder) readEntry(r *bufferReader, mask FieldMask, filter ColumnFilter) (Entry, error) {
	entry := Entry{fields: mask, columnNames: d.columnNames}
	var err error

	if mask.Has(FieldNoteID) {
		if entry.NoteID, err = r.uint32("note id"); err != nil {
			return Entry{}, err
		}
	}
	if mask.Has(FieldUNID) {
		if entry.UNID, err = readUNID(r); err != nil {
			return Entry{}, err
		}
	}
	if mask.Has(FieldNoteClass) {
		if entry.NoteClass, err = r.uint16("note class"); err != nil {
			return Entry{}, err
		}
	}
	if mask.Has(FieldSiblings) {
		if entry.SiblingCount, err = r.uint32("sibling count"); err != nil {
			return Entry{}, err
		}
	}
	if mask.Has(FieldChildren) {
		if entry.ChildCount, err = r.uint32("child count"); err != nil {
			return Entry{}, err
		}
	}
	if mask.Has(FieldDescendants) {
		if entry.DescendantCount, err = r.uint32("descendant count"); err != nil {
			return Entry{}, err
		}
	}
	if mask.Has(FieldAnyUnread) {
		if entry.AnyUnread, err = r.bool16("any unread"); err != nil {
			return Entry{}, err
		}
	}
	if mask.Has(FieldIndentLevels) {
		if entry.IndentLevel, err = r.uint16("indent level"); err != nil {
			return Entry{}, err
		}
	}
	if mask.Has(FieldScore) {
		if entry.FTScore, err = r.uint16("score"); err != nil {
			return Entry{}, err
		}
	}
	if mask.Has(FieldUnread) {
		if entry.Unread, err = r.bool16("unread"); err != nil {
			return Entry{}, err
		}
	}
	if mask.Has(FieldPosition) {
		if entry.Position, err = readPosition(r); err != nil {
			return Entry{}, err
		}
	}
	if mask.Has(FieldSummaryValues) {
		if entry.Values, err = d.readValueTable(r, filter); err != nil {
			return Entry{}, err
		}
	}
	if mask.Has(FieldSummary) {
		if entry.Summary, err = readItemTable(r, d.codec, d.dtc); err != nil {
			return Entry{}, err
		}
	}

	return entry, nil
}

// readValueTable decodes the columnar value table. The column lengths come
// first as one block, the typed values follow.
func (d *Decoder) readValueTable(r *bufferReader, filter ColumnFilter) ([]ColumnValue, error) {
	start := r.off
	length, err := r.uint16("value table length")
	if err != nil {
		return nil, err
	}
	count, err := r.uint16("value table count")
	if err != nil {
		return nil, err
	}
	if int(length) < itemTableHeaderSize+2*int(count) {
		return nil, corrupt(start, itemTableHeaderSize+2*int(count), "value table length %d too short for %d columns", length, count)
	}
	if err := r.need(int(length)-itemTableHeaderSize, "value table"); err != nil {
		return nil, err
	}

	lengths := make([]uint16, count)
	for i := range lengths {
		if lengths[i], err = r.uint16("column length"); err != nil {
			return nil, err
		}
	}

	values := make([]ColumnValue, count)
	for i, l := range lengths {
		if !filter.Includes(i) {
			if err := r.skip(int(l), "filtered column"); err != nil {
				return nil, err
			}
			continue
		}
		if values[i], err = readTypedValue(r, d.codec, d.dtc, int(l), i); err != nil {
			return nil, err
		}
	}

	if r.off != start+int(length) {
		return nil, corrupt(r.off, start+int(length), "value table of %d columns ended at offset %d", count, r.off)
	}
	return values, nil
}
