package viewscan

import (
	"fmt"
	"math"
	"strings"
)

// Item is one named value of an item table. Search key tables carry items
// with empty names.
type Item struct {
	Name  string
	Value ColumnValue
}

// ItemTable keeps items in wire order.
type ItemTable []Item

// Get looks an item up by name, ignoring case the way item names are
// compared by the store.
func (t ItemTable) Get(name string) (ColumnValue, bool) {
	for _, item := range t {
		if strings.EqualFold(item.Name, name) {
			return item.Value, true
		}
	}
	return ColumnValue{}, false
}

func (t ItemTable) Names() []string {
	names := make([]string, 0, len(t))
	for _, item := range t {
		names = append(names, item.Name)
	}
	return names
}

// EncodeItemTable serialises named items: header, one descriptor per item
// and then each item's name followed by its typed value. Items without a
// value are written with a zero value length.
func EncodeItemTable(codec TextCodec, items ...Item) ([]byte, error) {
	names := make([][]byte, 0, len(items))
	values := make([][]byte, 0, len(items))
	for i, item := range items {
		name, err := codec.Encode(item.Name)
		if err != nil {
			return nil, fmt.Errorf("encode item %d name: %w", i, err)
		}
		var value []byte
		if item.Value.Valid {
			value, err = EncodeValue(codec, item.Value)
			if err != nil {
				return nil, fmt.Errorf("encode item %q: %w", item.Name, err)
			}
		}
		names = append(names, name)
		values = append(values, value)
	}
	return writeItemTable(names, values)
}

func writeItemTable(names, values [][]byte) ([]byte, error) {
	if len(values) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d items", ErrInvalidSearchKey, len(values))
	}
	size := itemTableHeaderSize + itemDescriptorSize*len(values)
	for i := range values {
		if len(names[i]) > math.MaxUint16 || len(values[i]) > math.MaxUint16 {
			return nil, fmt.Errorf("%w: item %d too large", ErrInvalidSearchKey, i)
		}
		size += len(names[i]) + len(values[i])
	}
	if size > math.MaxUint16 {
		return nil, fmt.Errorf("%w: item table of %d bytes", ErrInvalidSearchKey, size)
	}

	buf := make([]byte, size)
	offset := itemTableHeaderSize
	for i := range values {
		putUint16(buf, uint16(len(names[i])), offset)
		putUint16(buf, uint16(len(values[i])), offset+2)
		offset += itemDescriptorSize
	}
	for i := range values {
		copy(buf[offset:], names[i])
		offset += len(names[i])
		copy(buf[offset:], values[i])
		offset += len(values[i])
	}

	// The header goes in last, once the total length is known.
	putUint16(buf, uint16(offset), 0)
	putUint16(buf, uint16(len(values)), 2)

	return buf, nil
}

// DecodeItemTable parses an item table that fills buf.
func DecodeItemTable(buf []byte, codec TextCodec, dtc DateTimeContext) (ItemTable, error) {
	r := newBufferReader(buf)
	table, err := readItemTable(r, codec, dtc)
	if err != nil {
		return nil, err
	}
	if r.remaining() != 0 {
		return nil, corrupt(r.off, len(buf), "%d trailing bytes after item table", r.remaining())
	}
	return table, nil
}

func readItemTable(r *bufferReader, codec TextCodec, dtc DateTimeContext) (ItemTable, error) {
	start := r.off
	length, err := r.uint16("item table length")
	if err != nil {
		return nil, err
	}
	count, err := r.uint16("item table count")
	if err != nil {
		return nil, err
	}
	if int(length) < itemTableHeaderSize {
		return nil, corrupt(start, itemTableHeaderSize, "item table length %d shorter than its header", length)
	}

	type descriptor struct {
		nameLength  uint16
		valueLength uint16
	}
	descriptors := make([]descriptor, count)
	for i := range descriptors {
		if descriptors[i].nameLength, err = r.uint16("item name length"); err != nil {
			return nil, err
		}
		if descriptors[i].valueLength, err = r.uint16("item value length"); err != nil {
			return nil, err
		}
	}

	table := make(ItemTable, 0, count)
	for i, d := range descriptors {
		nameBytes, err := r.bytes(int(d.nameLength), "item name")
		if err != nil {
			return nil, err
		}
		name, err := codec.Decode(nameBytes)
		if err != nil {
			return nil, fmt.Errorf("decode item %d name: %w", i, err)
		}
		value, err := readTypedValue(r, codec, dtc, int(d.valueLength), i)
		if err != nil {
			return nil, err
		}
		table = append(table, Item{Name: name, Value: value})
	}

	if r.off != start+int(length) {
		return nil, corrupt(r.off, start+int(length), "item table ended at offset %d", r.off)
	}
	return table, nil
}

// readTypedValue reads a type tag and the value after it. A zero length is
// an explicit empty value and consumes nothing.
func readTypedValue(r *bufferReader, codec TextCodec, dtc DateTimeContext, length, column int) (ColumnValue, error) {
	if length == 0 {
		return ColumnValue{}, nil
	}
	if length < typeTagSize {
		return ColumnValue{}, corrupt(r.off, typeTagSize, "column %d length %d cannot hold a type tag", column, length)
	}
	if err := r.need(length, "column value"); err != nil {
		return ColumnValue{}, err
	}
	tag, err := r.uint16("column type")
	if err != nil {
		return ColumnValue{}, err
	}
	data, err := r.bytes(length-typeTagSize, "column data")
	if err != nil {
		return ColumnValue{}, err
	}
	return decodeValue(codec, dtc, ValueType(tag), data, column)
}

// EncodeValueTable serialises values as the columnar value table found in
// summary buffers: header, one length per column and then the typed values.
// Values that are not Valid become zero length columns.
func EncodeValueTable(codec TextCodec, values ...ColumnValue) ([]byte, error) {
	if len(values) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d columns", ErrInvalidSearchKey, len(values))
	}
	encoded := make([][]byte, 0, len(values))
	size := itemTableHeaderSize + 2*len(values)
	for i, v := range values {
		if !v.Valid {
			encoded = append(encoded, nil)
			continue
		}
		data, err := EncodeValue(codec, v)
		if err != nil {
			return nil, fmt.Errorf("encode column %d: %w", i, err)
		}
		encoded = append(encoded, data)
		size += len(data)
	}
	if size > math.MaxUint16 {
		return nil, fmt.Errorf("%w: value table of %d bytes", ErrInvalidSearchKey, size)
	}

	buf := make([]byte, size)
	putUint16(buf, uint16(size), 0)
	putUint16(buf, uint16(len(values)), 2)
	offset := itemTableHeaderSize
	for _, data := range encoded {
		putUint16(buf, uint16(len(data)), offset)
		offset += 2
	}
	for _, data := range encoded {
		copy(buf[offset:], data)
		offset += len(data)
	}
	return buf, nil
}
