package viewscan

import (
	"fmt"
	"time"
)

// ValueType is the 16-bit type tag that precedes every typed value.
type ValueType uint16

const (
	TypeInvalid     ValueType = 0x0000
	TypeError       ValueType = 0x0100
	TypeUnavailable ValueType = 0x0200
	TypeNumber      ValueType = 0x0300
	TypeNumberRange ValueType = 0x0301
	TypeTime        ValueType = 0x0400
	TypeTimeRange   ValueType = 0x0401
	TypeText        ValueType = 0x0500
	TypeTextList    ValueType = 0x0501
)

const (
	typeTagSize     = 2
	rangeHeaderSize = 4
	numberSize      = 8
)

func (t ValueType) String() string {
	switch t {
	case TypeInvalid:
		return "INVALID"
	case TypeError:
		return "ERROR"
	case TypeUnavailable:
		return "UNAVAILABLE"
	case TypeNumber:
		return "NUMBER"
	case TypeNumberRange:
		return "NUMBER_RANGE"
	case TypeTime:
		return "TIME"
	case TypeTimeRange:
		return "TIME_RANGE"
	case TypeText:
		return "TEXT"
	case TypeTextList:
		return "TEXT_LIST"
	default:
		return fmt.Sprintf("ValueType(0x%04x)", uint16(t))
	}
}

// NumberPair is one (lower, upper) entry of a number range.
type NumberPair struct {
	Lower float64
	Upper float64
}

// TimePair is one (lower, upper) entry of a time range.
type TimePair struct {
	Lower time.Time
	Upper time.Time
}

// ColumnValue is one decoded column. Valid is false for "no value": an empty
// column, a column skipped by the filter, or an error/unavailable value.
//
// Value holds a string (Text), []string (TextList), float64 (Number),
// time.Time (Time) or []any (NumberRange, TimeRange). Range lists mix bare
// scalars with NumberPair/TimePair entries so callers can tell them apart.
type ColumnValue struct {
	Type  ValueType
	Value any
	Valid bool
}

func TextValue(s string) ColumnValue {
	return ColumnValue{Type: TypeText, Value: s, Valid: true}
}

func TextListValue(list ...string) ColumnValue {
	return ColumnValue{Type: TypeTextList, Value: list, Valid: true}
}

func NumberValue(n float64) ColumnValue {
	return ColumnValue{Type: TypeNumber, Value: n, Valid: true}
}

func TimeValue(t time.Time) ColumnValue {
	return ColumnValue{Type: TypeTime, Value: t, Valid: true}
}

func NumberRangeValue(items ...any) ColumnValue {
	return ColumnValue{Type: TypeNumberRange, Value: items, Valid: true}
}

func TimeRangeValue(items ...any) ColumnValue {
	return ColumnValue{Type: TypeTimeRange, Value: items, Valid: true}
}

func (v ColumnValue) Text() (string, bool) {
	s, ok := v.Value.(string)
	return s, v.Valid && ok
}

func (v ColumnValue) TextList() ([]string, bool) {
	if !v.Valid {
		return nil, false
	}
	switch x := v.Value.(type) {
	case []string:
		return x, true
	case string:
		return []string{x}, true
	}
	return nil, false
}

func (v ColumnValue) Number() (float64, bool) {
	n, ok := v.Value.(float64)
	return n, v.Valid && ok
}

func (v ColumnValue) Time() (time.Time, bool) {
	t, ok := v.Value.(time.Time)
	return t, v.Valid && ok
}

func (v ColumnValue) Range() ([]any, bool) {
	r, ok := v.Value.([]any)
	return r, v.Valid && ok
}

func (v ColumnValue) String() string {
	if !v.Valid {
		return ""
	}
	return fmt.Sprint(v.Value)
}

// EncodeValue serialises v as type tag followed by its data.
func EncodeValue(codec TextCodec, v ColumnValue) ([]byte, error) {
	if !v.Valid {
		return nil, fmt.Errorf("%w: cannot encode an empty value", ErrInvalidSearchKey)
	}

	switch v.Type {
	case TypeText:
		s, ok := v.Value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: text value holds %T", ErrInvalidSearchKey, v.Value)
		}
		native, err := codec.Encode(s)
		if err != nil {
			return nil, fmt.Errorf("encode text: %w", err)
		}
		buf := make([]byte, typeTagSize+len(native))
		putUint16(buf, uint16(TypeText), 0)
		copy(buf[typeTagSize:], native)
		return buf, nil
	case TypeTextList:
		list, ok := v.TextList()
		if !ok {
			return nil, fmt.Errorf("%w: text list value holds %T", ErrInvalidSearchKey, v.Value)
		}
		return encodeTextList(codec, list)
	case TypeNumber:
		n, ok := v.Value.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: number value holds %T", ErrInvalidSearchKey, v.Value)
		}
		buf := make([]byte, typeTagSize+numberSize)
		putUint16(buf, uint16(TypeNumber), 0)
		putFloat64(buf, n, typeTagSize)
		return buf, nil
	case TypeTime:
		td, err := toTimeDate(v.Value)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, typeTagSize+timeDateSize)
		putUint16(buf, uint16(TypeTime), 0)
		putTimeDate(buf, td, typeTagSize)
		return buf, nil
	case TypeNumberRange, TypeTimeRange:
		items, ok := v.Value.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: range value holds %T", ErrInvalidSearchKey, v.Value)
		}
		return encodeRange(v.Type, items)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKeyType, v.Type)
	}
}

func encodeTextList(codec TextCodec, list []string) ([]byte, error) {
	if len(list) > 0xFFFF {
		return nil, fmt.Errorf("%w: text list of %d entries", ErrInvalidSearchKey, len(list))
	}
	natives := make([][]byte, 0, len(list))
	size := typeTagSize + 2 + 2*len(list)
	for _, s := range list {
		native, err := codec.Encode(s)
		if err != nil {
			return nil, fmt.Errorf("encode text list entry: %w", err)
		}
		if len(native) > 0xFFFF {
			return nil, fmt.Errorf("%w: text list entry of %d bytes", ErrInvalidSearchKey, len(native))
		}
		natives = append(natives, native)
		size += len(native)
	}

	buf := make([]byte, size)
	putUint16(buf, uint16(TypeTextList), 0)
	putUint16(buf, uint16(len(list)), typeTagSize)
	offset := typeTagSize + 2
	for _, native := range natives {
		putUint16(buf, uint16(len(native)), offset)
		offset += 2
	}
	for _, native := range natives {
		copy(buf[offset:], native)
		offset += len(native)
	}
	return buf, nil
}

// encodeRange writes the range header, the bare scalars and then the pairs.
func encodeRange(t ValueType, items []any) ([]byte, error) {
	var (
		scalars []any
		pairs   []any
	)
	for _, item := range items {
		switch item.(type) {
		case NumberPair, TimePair:
			pairs = append(pairs, item)
		default:
			scalars = append(scalars, item)
		}
	}

	elem := numberSize
	if t == TypeTimeRange {
		elem = timeDateSize
	}
	buf := make([]byte, typeTagSize+rangeHeaderSize+len(scalars)*elem+len(pairs)*2*elem)
	putUint16(buf, uint16(t), 0)
	putUint16(buf, uint16(len(scalars)), typeTagSize)
	putUint16(buf, uint16(len(pairs)), typeTagSize+2)

	offset := typeTagSize + rangeHeaderSize
	for _, item := range append(scalars, pairs...) {
		var err error
		offset, err = putRangeItem(buf, t, item, offset)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func putRangeItem(buf []byte, t ValueType, item any, offset int) (int, error) {
	if t == TypeNumberRange {
		switch x := item.(type) {
		case float64:
			putFloat64(buf, x, offset)
			return offset + numberSize, nil
		case NumberPair:
			putFloat64(buf, x.Lower, offset)
			putFloat64(buf, x.Upper, offset+numberSize)
			return offset + 2*numberSize, nil
		}
		return 0, fmt.Errorf("%w: number range entry holds %T", ErrInvalidSearchKey, item)
	}

	if pair, ok := item.(TimePair); ok {
		putTimeDate(buf, TimeDateFromTime(pair.Lower), offset)
		putTimeDate(buf, TimeDateFromTime(pair.Upper), offset+timeDateSize)
		return offset + 2*timeDateSize, nil
	}
	td, err := toTimeDate(item)
	if err != nil {
		return 0, err
	}
	putTimeDate(buf, td, offset)
	return offset + timeDateSize, nil
}

func toTimeDate(v any) (TimeDate, error) {
	switch x := v.(type) {
	case time.Time:
		return TimeDateFromTime(x), nil
	case TimeDate:
		return x, nil
	}
	return TimeDate{}, fmt.Errorf("%w: time value holds %T", ErrInvalidSearchKey, v)
}

// decodeValue decodes the data of one typed value. data excludes the type
// tag and must be consumed exactly.
func decodeValue(codec TextCodec, dtc DateTimeContext, tag ValueType, data []byte, column int) (ColumnValue, error) {
	switch tag {
	case TypeText:
		s, err := codec.Decode(data)
		if err != nil {
			return ColumnValue{}, fmt.Errorf("decode text column %d: %w", column, err)
		}
		return TextValue(s), nil
	case TypeTextList:
		return decodeTextList(codec, data, column)
	case TypeNumber:
		r := newBufferReader(data)
		n, err := r.float64("number")
		if err != nil {
			return ColumnValue{}, err
		}
		if r.remaining() != 0 {
			return ColumnValue{}, corrupt(r.off, numberSize, "number column %d has %d trailing bytes", column, r.remaining())
		}
		return NumberValue(n), nil
	case TypeTime:
		r := newBufferReader(data)
		td, err := r.timeDate("time")
		if err != nil {
			return ColumnValue{}, err
		}
		if r.remaining() != 0 {
			return ColumnValue{}, corrupt(r.off, timeDateSize, "time column %d has %d trailing bytes", column, r.remaining())
		}
		return TimeValue(td.Time(dtc)), nil
	case TypeNumberRange, TypeTimeRange:
		return decodeRange(dtc, tag, data, column)
	case TypeError, TypeUnavailable:
		return ColumnValue{Type: tag}, nil
	default:
		return ColumnValue{}, &UnsupportedColumnTypeError{Tag: tag, Column: column}
	}
}

func decodeTextList(codec TextCodec, data []byte, column int) (ColumnValue, error) {
	r := newBufferReader(data)
	count, err := r.uint16("text list count")
	if err != nil {
		return ColumnValue{}, err
	}
	lengths := make([]uint16, count)
	for i := range lengths {
		lengths[i], err = r.uint16("text list entry length")
		if err != nil {
			return ColumnValue{}, err
		}
	}
	list := make([]string, 0, count)
	for _, l := range lengths {
		native, err := r.bytes(int(l), "text list entry")
		if err != nil {
			return ColumnValue{}, err
		}
		s, err := codec.Decode(native)
		if err != nil {
			return ColumnValue{}, fmt.Errorf("decode text list column %d: %w", column, err)
		}
		list = append(list, s)
	}
	if r.remaining() != 0 {
		return ColumnValue{}, corrupt(r.off, len(data), "text list column %d has %d trailing bytes", column, r.remaining())
	}
	return TextListValue(list...), nil
}

func decodeRange(dtc DateTimeContext, tag ValueType, data []byte, column int) (ColumnValue, error) {
	r := newBufferReader(data)
	listEntries, err := r.uint16("range list entries")
	if err != nil {
		return ColumnValue{}, err
	}
	rangeEntries, err := r.uint16("range pair entries")
	if err != nil {
		return ColumnValue{}, err
	}

	items := make([]any, 0, int(listEntries)+int(rangeEntries))
	for i := 0; i < int(listEntries); i++ {
		item, err := readRangeScalar(r, dtc, tag)
		if err != nil {
			return ColumnValue{}, err
		}
		items = append(items, item)
	}
	for i := 0; i < int(rangeEntries); i++ {
		lower, err := readRangeScalar(r, dtc, tag)
		if err != nil {
			return ColumnValue{}, err
		}
		upper, err := readRangeScalar(r, dtc, tag)
		if err != nil {
			return ColumnValue{}, err
		}
		if tag == TypeNumberRange {
			items = append(items, NumberPair{Lower: lower.(float64), Upper: upper.(float64)})
		} else {
			items = append(items, TimePair{Lower: lower.(time.Time), Upper: upper.(time.Time)})
		}
	}
	if r.remaining() != 0 {
		return ColumnValue{}, corrupt(r.off, len(data), "range column %d has %d trailing bytes", column, r.remaining())
	}
	return ColumnValue{Type: tag, Value: items, Valid: true}, nil
}

func readRangeScalar(r *bufferReader, dtc DateTimeContext, tag ValueType) (any, error) {
	if tag == TypeNumberRange {
		return r.float64("range number")
	}
	td, err := r.timeDate("range time")
	if err != nil {
		return nil, err
	}
	return td.Time(dtc), nil
}
