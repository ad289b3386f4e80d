package viewscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemTable_Named(t *testing.T) {
	t.Parallel()

	items := []Item{
		{Name: "Subject", Value: TextValue(gen.Sentence(5))},
		{Name: "$Missing"},
		{Name: "Amount", Value: NumberValue(12.5)},
		{Name: "Tags", Value: TextListValue("a", "b")},
	}

	buf, err := EncodeItemTable(testCodec, items...)
	require.NoError(t, err)

	table, err := DecodeItemTable(buf, testCodec, DateTimeContext{})
	require.NoError(t, err)
	assert.Equal(t, ItemTable(items), table)
	assert.Equal(t, []string{"Subject", "$Missing", "Amount", "Tags"}, table.Names())

	v, ok := table.Get("amount")
	require.True(t, ok)
	assert.Equal(t, NumberValue(12.5), v)

	v, ok = table.Get("$missing")
	require.True(t, ok)
	assert.False(t, v.Valid)

	_, ok = table.Get("nope")
	assert.False(t, ok)
}

func TestDecodeItemTable_Corrupt(t *testing.T) {
	t.Parallel()

	buf, err := EncodeItemTable(testCodec, Item{Name: "a", Value: NumberValue(1)})
	require.NoError(t, err)

	t.Run("truncated", func(t *testing.T) {
		_, err := DecodeItemTable(buf[:len(buf)-1], testCodec, DateTimeContext{})
		assert.ErrorIs(t, err, ErrBufferCorrupt)
	})

	t.Run("length disagrees with items", func(t *testing.T) {
		bad := append([]byte{}, buf...)
		putUint16(bad, uint16(len(bad)+2), 0)
		_, err := DecodeItemTable(append(bad, 0, 0), testCodec, DateTimeContext{})
		assert.ErrorIs(t, err, ErrBufferCorrupt)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		_, err := DecodeItemTable(append(append([]byte{}, buf...), 0), testCodec, DateTimeContext{})
		assert.ErrorIs(t, err, ErrBufferCorrupt)
	})

	t.Run("value too short for a type tag", func(t *testing.T) {
		bad := append([]byte{}, buf...)
		putUint16(bad, 1, 6)
		_, err := DecodeItemTable(bad, testCodec, DateTimeContext{})
		assert.ErrorIs(t, err, ErrBufferCorrupt)
	})
}

func TestEncodeValueTable(t *testing.T) {
	t.Parallel()

	buf, err := EncodeValueTable(testCodec, TextValue("Acme"), ColumnValue{}, NumberValue(42))
	require.NoError(t, err)

	// header, three lengths, text (tag + 4) and number (tag + 8)
	require.Len(t, buf, 4+3*2+6+10)
	assert.Equal(t, []byte{
		26, 0, 3, 0,
		6, 0, 0, 0, 10, 0,
		0x00, 0x05, 'A', 'c', 'm', 'e',
		0x00, 0x03, 0, 0, 0, 0, 0, 0, 0x45, 0x40,
	}, buf)
}
