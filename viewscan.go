// Package viewscan reads remote sorted, categorized indexes one scan step at
// a time. A Collection binds the scan protocol to the collaborator that
// talks to the store; everything on the wire (positions, search keys and
// summary buffers) is encoded and decoded here.
package viewscan

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/RichardKnop/viewscan/internal/pkg/logging"
	"github.com/RichardKnop/viewscan/internal/viewscan"
)

type (
	Position        = viewscan.Position
	Direction       = viewscan.Direction
	FieldMask       = viewscan.FieldMask
	ColumnFilter    = viewscan.ColumnFilter
	ColumnValue     = viewscan.ColumnValue
	ValueType       = viewscan.ValueType
	Entry           = viewscan.Entry
	CollectionStats = viewscan.CollectionStats
	SearchKey       = viewscan.SearchKey
	MatchMode       = viewscan.MatchMode
	FindOptions     = viewscan.FindOptions
	FindResult      = viewscan.FindResult
	ReadRequest     = viewscan.ReadRequest
	ReadResult      = viewscan.ReadResult
	Signals         = viewscan.Signals
	ScanState       = viewscan.ScanState
	Scan            = viewscan.Scan
	EntryCallback   = viewscan.EntryCallback
	TextCodec       = viewscan.TextCodec
	DateTimeContext = viewscan.DateTimeContext
	TimeDate        = viewscan.TimeDate
	UNID            = viewscan.UNID
	NumberPair      = viewscan.NumberPair
	TimePair        = viewscan.TimePair
	Item            = viewscan.Item
	ItemTable       = viewscan.ItemTable

	// Scanner and Searcher are implemented by the store connection.
	Scanner        = viewscan.Scanner
	Searcher       = viewscan.Searcher
	ScanRequest    = viewscan.ScanRequest
	ScanResponse   = viewscan.ScanResponse
	SearchResponse = viewscan.SearchResponse
	BufferHandle   = viewscan.BufferHandle
	Status         = viewscan.Status

	StatusError                = viewscan.StatusError
	BufferCorruptError         = viewscan.BufferCorruptError
	UnsupportedColumnTypeError = viewscan.UnsupportedColumnTypeError
	KeyError                   = viewscan.KeyError
)

var (
	ErrMalformedPosition     = viewscan.ErrMalformedPosition
	ErrInvalidSearchKey      = viewscan.ErrInvalidSearchKey
	ErrUnsupportedKeyType    = viewscan.ErrUnsupportedKeyType
	ErrBufferCorrupt         = viewscan.ErrBufferCorrupt
	ErrUnsupportedColumnType = viewscan.ErrUnsupportedColumnType
	ErrCollaborator          = viewscan.ErrCollaborator
)

const (
	NavCurrent         = viewscan.NavCurrent
	NavNext            = viewscan.NavNext
	NavPrev            = viewscan.NavPrev
	NavParent          = viewscan.NavParent
	NavChild           = viewscan.NavChild
	NavNextPeer        = viewscan.NavNextPeer
	NavPrevPeer        = viewscan.NavPrevPeer
	NavFirstPeer       = viewscan.NavFirstPeer
	NavLastPeer        = viewscan.NavLastPeer
	NavNextMain        = viewscan.NavNextMain
	NavPrevMain        = viewscan.NavPrevMain
	NavNextCategory    = viewscan.NavNextCategory
	NavPrevCategory    = viewscan.NavPrevCategory
	NavNextNonCategory = viewscan.NavNextNonCategory
	NavPrevNonCategory = viewscan.NavPrevNonCategory
	NavMinLevel        = viewscan.NavMinLevel
	NavMaxLevel        = viewscan.NavMaxLevel
	NavContinue        = viewscan.NavContinue

	FieldNoteID          = viewscan.FieldNoteID
	FieldUNID            = viewscan.FieldUNID
	FieldNoteClass       = viewscan.FieldNoteClass
	FieldSiblings        = viewscan.FieldSiblings
	FieldChildren        = viewscan.FieldChildren
	FieldDescendants     = viewscan.FieldDescendants
	FieldAnyUnread       = viewscan.FieldAnyUnread
	FieldIndentLevels    = viewscan.FieldIndentLevels
	FieldCollectionStats = viewscan.FieldCollectionStats
	FieldScore           = viewscan.FieldScore
	FieldUnread          = viewscan.FieldUnread
	FieldSummaryValues   = viewscan.FieldSummaryValues
	FieldPosition        = viewscan.FieldPosition
	FieldSummary         = viewscan.FieldSummary

	FirstEqual         = viewscan.FirstEqual
	LastEqual          = viewscan.LastEqual
	LessThan           = viewscan.LessThan
	GreaterThan        = viewscan.GreaterThan
	LessThanOrEqual    = viewscan.LessThanOrEqual
	GreaterThanOrEqual = viewscan.GreaterThanOrEqual

	SignalIndexModified = viewscan.SignalIndexModified
	SignalMoreToDo      = viewscan.SignalMoreToDo
	SignalViewModified  = viewscan.SignalViewModified

	ScanUnstarted  = viewscan.ScanUnstarted
	ScanPositioned = viewscan.ScanPositioned
	ScanExhausted  = viewscan.ScanExhausted
)

var (
	Root                   = viewscan.Root
	NewPosition            = viewscan.NewPosition
	ParsePosition          = viewscan.ParsePosition
	UnmarshalPosition      = viewscan.UnmarshalPosition
	ParseFieldMask         = viewscan.ParseFieldMask
	NewColumnFilter        = viewscan.NewColumnFilter
	ParseUNID              = viewscan.ParseUNID
	CanDetermineExactCount = viewscan.CanDetermineExactCount
	IsFatal                = viewscan.IsFatal
	IsNotFound             = viewscan.IsNotFound
	KeyOf                  = viewscan.KeyOf
	TextCodecForCharset    = viewscan.TextCodecForCharset

	TextKey        = viewscan.TextKey
	NumberKey      = viewscan.NumberKey
	NumberRangeKey = viewscan.NumberRangeKey
	TimeKey        = viewscan.TimeKey
	TimeRangeKey   = viewscan.TimeRangeKey
)

// Collection reads one remote index through scanner and searcher. It holds
// no cursor state: every call, or every Scan handed out by NewScan, works on
// its own position.
type Collection struct {
	logger      *zap.Logger
	scanner     Scanner
	searcher    Searcher
	codec       TextCodec
	dtc         func() DateTimeContext
	columnNames []string
	pageSize    uint32
	maxRestarts int
}

// New binds a collection to its collaborators. Without WithLogger, warnings
// and above are logged with the default production config.
func New(scanner Scanner, searcher Searcher, opts ...Option) (*Collection, error) {
	c := &Collection{
		scanner:     scanner,
		searcher:    searcher,
		maxRestarts: defaultMaxRestarts,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		config := logging.DefaultConfig()
		config.Level.SetLevel(zap.WarnLevel)
		logger, err := config.Build()
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		c.logger = logger
	}
	if c.codec == nil {
		c.codec = viewscan.DefaultTextCodec()
	}

	return c, nil
}

// NewScan starts a scan. Scans are not safe for concurrent use; run
// parallel reads on separate scans with separate positions.
func (c *Collection) NewScan() *Scan {
	return viewscan.NewScan(viewscan.Config{
		Logger:          c.logger,
		Codec:           c.codec,
		DateTimeContext: c.dtc,
		ColumnNames:     c.columnNames,
		PageSize:        c.pageSize,
		MaxRestarts:     c.maxRestarts,
	}, c.scanner, c.searcher)
}

// ReadEntries performs a single scan step from pos, which is moved to the
// position the step ended on.
func (c *Collection) ReadEntries(ctx context.Context, pos *Position, req ReadRequest) (*ReadResult, error) {
	return c.NewScan().ReadEntries(ctx, pos, req)
}

// FindByKey searches with one key per leading sorted column. Keys may be
// SearchKey values or plain Go values: string, the numeric types,
// time.Time, NumberPair or TimePair.
func (c *Collection) FindByKey(ctx context.Context, opts FindOptions, keys ...any) (FindResult, error) {
	searchKeys, err := searchKeysOf(keys)
	if err != nil {
		return FindResult{}, err
	}
	return c.NewScan().FindByKey(ctx, opts, searchKeys...)
}

func (c *Collection) FindByName(ctx context.Context, prefix string, opts FindOptions) (FindResult, error) {
	return c.NewScan().FindByName(ctx, prefix, opts)
}

// EntriesByKey finds keys and reads the matching entries, at most limit of
// them when limit is not zero.
func (c *Collection) EntriesByKey(ctx context.Context, opts FindOptions, mask FieldMask, limit uint32, keys ...any) ([]Entry, FindResult, error) {
	searchKeys, err := searchKeysOf(keys)
	if err != nil {
		return nil, FindResult{}, err
	}
	return c.NewScan().EntriesByKey(ctx, opts, searchKeys, mask, limit)
}

// AllIDs returns the note ids of every entry reached by nav, e.g.
// NavNextNonCategory for documents only.
func (c *Collection) AllIDs(ctx context.Context, nav Direction) ([]uint32, error) {
	return c.NewScan().AllIDs(ctx, nav)
}

// AllEntries calls fn for every entry reached by nav. Return io.EOF from fn
// to stop early. Unless WithMaxRestarts(0) is set the read is collected
// before fn is called, so a restart never repeats an entry.
func (c *Collection) AllEntries(ctx context.Context, nav Direction, mask FieldMask, filter ColumnFilter, fn EntryCallback) error {
	return c.NewScan().AllEntries(ctx, nav, mask, filter, fn)
}

func searchKeysOf(keys []any) ([]SearchKey, error) {
	searchKeys := make([]SearchKey, 0, len(keys))
	for i, key := range keys {
		searchKey, err := KeyOf(key)
		if err != nil {
			return nil, &KeyError{Index: i, Err: err}
		}
		searchKeys = append(searchKeys, searchKey)
	}
	return searchKeys, nil
}
