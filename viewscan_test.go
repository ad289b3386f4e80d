package viewscan

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RichardKnop/viewscan/internal/pkg/logging"
	"github.com/RichardKnop/viewscan/internal/viewscan"
	"github.com/RichardKnop/viewscan/internal/viewscan/viewscantest"
)

var testLogger *zap.Logger

func init() {
	var err error
	testLogger, err = logging.FromEnv("debug")
	if err != nil {
		panic(err)
	}
}

var (
	monday  = time.Date(2024, time.January, 8, 9, 30, 0, 0, time.UTC)
	tuesday = monday.AddDate(0, 0, 1)
)

func orders() []*viewscantest.Node {
	return []*viewscantest.Node{
		viewscantest.Category(viewscan.TextValue("Acme"),
			viewscantest.Document(10, viewscan.TextValue("Acme"), viewscan.NumberValue(120), viewscan.TimeValue(monday)),
			viewscantest.Document(14, viewscan.TextValue("Acme"), viewscan.NumberValue(80), viewscan.TimeValue(tuesday)),
		),
		viewscantest.Category(viewscan.TextValue("Globex"),
			viewscantest.Document(18, viewscan.TextValue("Globex"), viewscan.NumberValue(15.5), viewscan.TimeValue(monday)),
		),
	}
}

func newCollection(t *testing.T, index *viewscantest.Index, opts ...Option) *Collection {
	opts = append([]Option{WithLogger(testLogger)}, opts...)
	c, err := New(index, index, opts...)
	require.NoError(t, err)
	return c
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	c, err := New(nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, c.logger)
	assert.NotNil(t, c.codec)
	assert.Equal(t, defaultMaxRestarts, c.maxRestarts)
	assert.Equal(t, uint32(0), c.pageSize)

	c, err = New(nil, nil, WithPageSize(0), WithMaxRestarts(-1))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), c.pageSize)
	assert.Equal(t, defaultMaxRestarts, c.maxRestarts)
}

func TestCollection_ReadEntries(t *testing.T) {
	t.Parallel()

	var (
		ctx   = context.Background()
		index = viewscantest.NewIndex(nil, orders()...)
		c     = newCollection(t, index,
			WithColumnNames("customer", "amount", "ordered"),
			WithDateTimeContext(func() DateTimeContext { return DateTimeContext{GMTOffsetMinutes: 60} }),
		)
		pos = Root()
	)

	result, err := c.ReadEntries(ctx, pos, ReadRequest{
		SkipNavigator:   []Direction{NavNextNonCategory},
		SkipCount:       1,
		ReturnNavigator: []Direction{NavNextNonCategory},
		ReturnCount:     2,
		FieldMask:       FieldNoteID | FieldPosition | FieldSummaryValues,
	})
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)
	assert.Equal(t, "1.2", pos.String())

	first := result.Entries[0]
	assert.True(t, first.IsDocument())
	amount, ok := first.ColumnValue("Amount")
	require.True(t, ok)
	n, _ := amount.Number()
	assert.Equal(t, float64(120), n)

	ordered, ok := first.ColumnValue("ordered")
	require.True(t, ok)
	when, _ := ordered.Time()
	assert.True(t, monday.Equal(when))
	_, offset := when.Zone()
	assert.Equal(t, 3600, offset)

	_, ok = first.ColumnValue("missing")
	assert.False(t, ok)

	assert.Equal(t, 0, index.Outstanding())
}

func TestCollection_FindByKey(t *testing.T) {
	t.Parallel()

	var (
		ctx   = context.Background()
		index = viewscantest.NewIndex(nil, orders()...)
		c     = newCollection(t, index)
	)

	t.Run("plain values", func(t *testing.T) {
		found, err := c.FindByKey(ctx, FindOptions{}, "Acme", NumberPair{Lower: 100, Upper: 200})
		require.NoError(t, err)
		assert.Equal(t, "1.1", found.Position.String())
		assert.Equal(t, uint32(1), found.EntriesFound)
		assert.True(t, found.HasExactCount)
	})

	t.Run("search keys and values mixed", func(t *testing.T) {
		found, err := c.FindByKey(ctx, FindOptions{Mode: LastEqual}, TextKey("Acme"))
		require.NoError(t, err)
		assert.Equal(t, "1.2", found.Position.String())
		assert.Equal(t, uint32(2), found.EntriesFound)
	})

	t.Run("unsupported value", func(t *testing.T) {
		_, err := c.FindByKey(ctx, FindOptions{}, "Acme", []byte("raw"))
		require.ErrorIs(t, err, ErrUnsupportedKeyType)

		var keyErr *KeyError
		require.ErrorAs(t, err, &keyErr)
		assert.Equal(t, 1, keyErr.Index)
	})

	t.Run("nil value", func(t *testing.T) {
		_, err := c.FindByKey(ctx, FindOptions{}, nil)
		require.ErrorIs(t, err, ErrInvalidSearchKey)
	})
}

func TestCollection_EntriesByKey(t *testing.T) {
	t.Parallel()

	var (
		ctx   = context.Background()
		index = viewscantest.NewIndex(nil, orders()...)
		c     = newCollection(t, index)
	)

	entries, found, err := c.EntriesByKey(ctx, FindOptions{}, FieldNoteID, 0, "Acme")
	require.NoError(t, err)
	assert.True(t, found.HasExactCount)
	require.Len(t, entries, 2)
	assert.Equal(t, uint32(10), entries[0].NoteID)
	assert.Equal(t, uint32(14), entries[1].NoteID)

	entries, found, err = c.EntriesByKey(ctx, FindOptions{}, FieldNoteID, 0, "Initech")
	require.NoError(t, err)
	assert.False(t, found.Found())
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}

func TestCollection_AllIDsAndEntries(t *testing.T) {
	t.Parallel()

	var (
		ctx   = context.Background()
		index = viewscantest.NewIndex(nil, orders()...)
		c     = newCollection(t, index, WithMaxRestarts(0))
	)
	index.MaxEntriesPerStep = 1

	ids, err := c.AllIDs(ctx, NavNextNonCategory)
	require.NoError(t, err)
	assert.Equal(t, []uint32{10, 14, 18}, ids)

	var categories []string
	err = c.AllEntries(ctx, NavNextCategory, FieldNoteID|FieldSummaryValues, nil, func(entry Entry) error {
		require.True(t, entry.IsCategory())
		name, _ := entry.Values[0].Text()
		categories = append(categories, name)
		if len(categories) == 1 {
			return io.EOF
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme"}, categories)

	assert.Equal(t, 0, index.Outstanding())
}

func TestCollection_NewScan_Independent(t *testing.T) {
	t.Parallel()

	var (
		ctx   = context.Background()
		index = viewscantest.NewIndex(nil, orders()...)
		c     = newCollection(t, index)
	)

	a, b := c.NewScan(), c.NewScan()
	posA, posB := Root(), Root()

	_, err := a.SkipEntries(ctx, posA, 2, NavNext)
	require.NoError(t, err)
	_, err = b.SkipEntries(ctx, posB, 4, NavNext)
	require.NoError(t, err)

	assert.Equal(t, "1.1", posA.String())
	assert.Equal(t, "2", posB.String())
	assert.Equal(t, ScanPositioned, a.State())
}
