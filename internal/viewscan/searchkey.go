package viewscan

import (
	"fmt"
	"math"
	"time"
)

const (
	itemTableHeaderSize = 4
	itemDescriptorSize  = 4
)

// SearchKey is one typed lookup value, matched against one sorted column.
type SearchKey struct {
	Type  ValueType
	Value any
}

func TextKey(s string) SearchKey {
	return SearchKey{Type: TypeText, Value: s}
}

func NumberKey(n float64) SearchKey {
	return SearchKey{Type: TypeNumber, Value: n}
}

func NumberRangeKey(lower, upper float64) SearchKey {
	return SearchKey{Type: TypeNumberRange, Value: NumberPair{Lower: lower, Upper: upper}}
}

func TimeKey(t time.Time) SearchKey {
	return SearchKey{Type: TypeTime, Value: t}
}

func TimeRangeKey(lower, upper time.Time) SearchKey {
	return SearchKey{Type: TypeTimeRange, Value: TimePair{Lower: lower, Upper: upper}}
}

// KeyOf maps a plain Go value onto a search key.
func KeyOf(v any) (SearchKey, error) {
	switch x := v.(type) {
	case nil:
		return SearchKey{}, ErrInvalidSearchKey
	case SearchKey:
		return x, nil
	case string:
		return TextKey(x), nil
	case float64:
		return NumberKey(x), nil
	case float32:
		return NumberKey(float64(x)), nil
	case int:
		return NumberKey(float64(x)), nil
	case int32:
		return NumberKey(float64(x)), nil
	case int64:
		return NumberKey(float64(x)), nil
	case uint32:
		return NumberKey(float64(x)), nil
	case time.Time:
		return TimeKey(x), nil
	case NumberPair:
		return NumberRangeKey(x.Lower, x.Upper), nil
	case TimePair:
		return TimeRangeKey(x.Lower, x.Upper), nil
	default:
		return SearchKey{}, fmt.Errorf("%w: %T", ErrUnsupportedKeyType, v)
	}
}

// IsZero reports whether k was never set.
func (k SearchKey) IsZero() bool {
	return k.Type == TypeInvalid && k.Value == nil
}

// value turns the key into the column value it is serialised as. Ranges are
// always sent as a single (lower, upper) pair.
func (k SearchKey) value() (ColumnValue, error) {
	if k.IsZero() || k.Value == nil {
		return ColumnValue{}, ErrInvalidSearchKey
	}

	switch k.Type {
	case TypeText:
		if _, ok := k.Value.(string); !ok {
			return ColumnValue{}, fmt.Errorf("%w: text key holds %T", ErrInvalidSearchKey, k.Value)
		}
		return ColumnValue{Type: k.Type, Value: k.Value, Valid: true}, nil
	case TypeNumber:
		n, ok := k.Value.(float64)
		if !ok {
			return ColumnValue{}, fmt.Errorf("%w: number key holds %T", ErrInvalidSearchKey, k.Value)
		}
		if math.IsNaN(n) {
			return ColumnValue{}, fmt.Errorf("%w: number key is NaN", ErrInvalidSearchKey)
		}
		return NumberValue(n), nil
	case TypeTime:
		if _, ok := k.Value.(time.Time); !ok {
			return ColumnValue{}, fmt.Errorf("%w: time key holds %T", ErrInvalidSearchKey, k.Value)
		}
		return ColumnValue{Type: k.Type, Value: k.Value, Valid: true}, nil
	case TypeNumberRange:
		pair, ok := k.Value.(NumberPair)
		if !ok {
			return ColumnValue{}, fmt.Errorf("%w: number range key holds %T", ErrInvalidSearchKey, k.Value)
		}
		return NumberRangeValue(pair), nil
	case TypeTimeRange:
		pair, ok := k.Value.(TimePair)
		if !ok {
			return ColumnValue{}, fmt.Errorf("%w: time range key holds %T", ErrInvalidSearchKey, k.Value)
		}
		return TimeRangeValue(pair), nil
	default:
		return ColumnValue{}, fmt.Errorf("%w: %s", ErrUnsupportedKeyType, k.Type)
	}
}

// EncodeSearchKeys serialises keys into the item table a positional search
// expects: header, one unnamed item descriptor per key and then the typed
// values in key order.
func EncodeSearchKeys(codec TextCodec, keys ...SearchKey) ([]byte, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no keys", ErrInvalidSearchKey)
	}
	if len(keys) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d keys", ErrInvalidSearchKey, len(keys))
	}

	values := make([][]byte, 0, len(keys))
	for i, key := range keys {
		v, err := key.value()
		if err != nil {
			return nil, &KeyError{Index: i, Err: err}
		}
		encoded, err := EncodeValue(codec, v)
		if err != nil {
			return nil, &KeyError{Index: i, Err: err}
		}
		values = append(values, encoded)
	}

	return writeItemTable(make([][]byte, len(values)), values)
}
