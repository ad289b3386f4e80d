package viewscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosition(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected []uint32
		err      error
	}{
		{"empty string is root", "", []uint32{0}, nil},
		{"zero is root", "0", []uint32{0}, nil},
		{"single level", "1", []uint32{1}, nil},
		{"nested", "1.2.3", []uint32{1, 2, 3}, nil},
		{"surrounding space", " 4.5 ", []uint32{4, 5}, nil},
		{"non numeric component", "1.a.3", nil, ErrMalformedPosition},
		{"empty component", "1..3", nil, ErrMalformedPosition},
		{"negative component", "-1", nil, ErrMalformedPosition},
		{"component overflow", "4294967296", nil, ErrMalformedPosition},
		{"too deep", "1.2.3.4.5.6.7.8.9.10.11.12.13.14.15.16.17.18.19.20.21.22.23.24.25.26.27.28.29.30.31.32.33", nil, ErrMalformedPosition},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ParsePosition(tc.input)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, p.Tumblers())
			assert.Equal(t, uint16(len(tc.expected)-1), p.Level)
		})
	}
}

func TestParsePosition_MaxDepth(t *testing.T) {
	t.Parallel()

	tumblers := make([]uint32, MaxTumblerLevel+1)
	for i := range tumblers {
		tumblers[i] = uint32(i + 1)
	}
	p, err := NewPosition(tumblers...)
	require.NoError(t, err)

	parsed, err := ParsePosition(p.String())
	require.NoError(t, err)
	assert.Equal(t, uint16(MaxTumblerLevel), parsed.Level)
	assert.True(t, p.Equal(parsed))
}

func TestPosition_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", Root().String())
	assert.Equal(t, "1.2.3", MustParsePosition("1.2.3").String())

	for range 20 {
		p := gen.Position()
		assert.Equal(t, p.String(), MustParsePosition(p.String()).String())
	}
}

func TestPosition_IsRoot(t *testing.T) {
	t.Parallel()

	assert.True(t, Root().IsRoot())
	assert.True(t, MustParsePosition("").IsRoot())
	assert.False(t, MustParsePosition("1").IsRoot())
	assert.False(t, MustParsePosition("0.1").IsRoot())
}

func TestPosition_CloneAndParent(t *testing.T) {
	t.Parallel()

	p := MustParsePosition("3.1.4")
	aClone := p.Clone()
	aClone.Tumbler[2] = 9
	assert.Equal(t, "3.1.4", p.String())
	assert.Equal(t, "3.1.9", aClone.String())
	assert.False(t, p.Equal(aClone))

	parent, ok := p.Parent()
	require.True(t, ok)
	assert.Equal(t, "3.1", parent.String())
	assert.Equal(t, 2, parent.Depth())

	_, ok = MustParsePosition("3").Parent()
	assert.False(t, ok)
}

func TestPosition_Wire(t *testing.T) {
	t.Parallel()

	t.Run("truncated to level plus two words", func(t *testing.T) {
		p := MustParsePosition("1.2")
		p.MinLevel = 1
		p.MaxLevel = 4

		data := p.MarshalWire()
		require.Len(t, data, 12)
		assert.Equal(t, []byte{
			0x01, 0x00, 0x01, 0x04,
			0x01, 0x00, 0x00, 0x00,
			0x02, 0x00, 0x00, 0x00,
		}, data)

		actual, err := UnmarshalPosition(data)
		require.NoError(t, err)
		assert.True(t, p.Equal(actual))
		assert.Equal(t, uint8(1), actual.MinLevel)
		assert.Equal(t, uint8(4), actual.MaxLevel)
	})

	t.Run("random positions", func(t *testing.T) {
		for range 50 {
			p := gen.Position()
			actual, err := UnmarshalPosition(p.MarshalWire())
			require.NoError(t, err)
			assert.True(t, p.Equal(actual))
		}
	})

	t.Run("first entry", func(t *testing.T) {
		p, err := FromWireWords(0, []uint32{0, 1})
		require.NoError(t, err)
		assert.Equal(t, uint16(0), p.Level)
		assert.Equal(t, uint32(1), p.Tumbler[0])
		assert.Equal(t, "1", p.String())
	})

	t.Run("word count must match level", func(t *testing.T) {
		_, err := FromWireWords(2, []uint32{2, 1, 1})
		assert.ErrorIs(t, err, ErrMalformedPosition)

		_, err = FromWireWords(MaxTumblerLevel+1, make([]uint32, MaxTumblerLevel+3))
		assert.ErrorIs(t, err, ErrMalformedPosition)
	})

	t.Run("header level must match", func(t *testing.T) {
		_, err := FromWireWords(1, []uint32{0, 1, 1})
		assert.ErrorIs(t, err, ErrMalformedPosition)
	})

	t.Run("truncated buffer", func(t *testing.T) {
		data := MustParsePosition("1.2.3").MarshalWire()
		_, err := UnmarshalPosition(data[:len(data)-1])
		assert.ErrorIs(t, err, ErrBufferCorrupt)
	})

	t.Run("level beyond maximum", func(t *testing.T) {
		data := make([]byte, 8)
		putUint16(data, MaxTumblerLevel+1, 0)
		_, err := UnmarshalPosition(data)
		assert.ErrorIs(t, err, ErrBufferCorrupt)
	})
}
