package viewscan

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/RichardKnop/viewscan/pkg/bitwise"
)

// Signals are the flags a scan step reports about the index.
type Signals uint16

const (
	SignalDefinitionModified Signals = 0x0001
	SignalViewModified       Signals = 0x0002
	SignalIndexModified      Signals = 0x0004
	SignalUnreadModified     Signals = 0x0008
	SignalDatabaseModified   Signals = 0x0010
	SignalMoreToDo           Signals = 0x0020
	SignalConfigModified     Signals = 0x0040
	SignalSelectionModified  Signals = 0x0080
)

var signalNames = []struct {
	signal Signals
	name   string
}{
	{SignalDefinitionModified, "DEFN_MODIFIED"},
	{SignalViewModified, "VIEW_MODIFIED"},
	{SignalIndexModified, "INDEX_MODIFIED"},
	{SignalUnreadModified, "UNREAD_MODIFIED"},
	{SignalDatabaseModified, "DATABASE_MODIFIED"},
	{SignalMoreToDo, "MORE_TO_DO"},
	{SignalConfigModified, "CONFIG_MODIFIED"},
	{SignalSelectionModified, "SELECTION_MODIFIED"},
}

func (s Signals) Has(signal Signals) bool {
	return bitwise.HasAll(s, signal)
}

// MoreToDo means the step stopped early because its buffer filled up.
func (s Signals) MoreToDo() bool {
	return s.Has(SignalMoreToDo)
}

// IndexModified means the index changed since the previous step.
func (s Signals) IndexModified() bool {
	return s.Has(SignalIndexModified)
}

func (s Signals) String() string {
	var parts []string
	for _, n := range signalNames {
		if s.Has(n.signal) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ScanState tracks where a scan stands.
type ScanState int

const (
	ScanUnstarted ScanState = iota
	ScanPositioned
	ScanExhausted
)

func (s ScanState) String() string {
	switch s {
	case ScanUnstarted:
		return "unstarted"
	case ScanPositioned:
		return "positioned"
	case ScanExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("ScanState(%d)", int(s))
	}
}

// DefaultPageSize asks the store for as many entries as fit in one buffer.
const DefaultPageSize = math.MaxUint32

// Config binds a Scan to its collaborators.
type Config struct {
	Logger          *zap.Logger
	Codec           TextCodec
	DateTimeContext func() DateTimeContext
	ColumnNames     []string
	PageSize        uint32
	MaxRestarts     int
}

// Scan reads one remote index. A Scan is not safe for concurrent use; run
// independent scans on separate values.
type Scan struct {
	logger      *zap.Logger
	scanner     Scanner
	searcher    Searcher
	codec       TextCodec
	dtc         func() DateTimeContext
	columnNames []string
	pageSize    uint32
	maxRestarts int
	state       ScanState
}

func NewScan(cfg Config, scanner Scanner, searcher Searcher) *Scan {
	s := &Scan{
		logger:      cfg.Logger,
		scanner:     scanner,
		searcher:    searcher,
		codec:       cfg.Codec,
		dtc:         cfg.DateTimeContext,
		columnNames: cfg.ColumnNames,
		pageSize:    cfg.PageSize,
		maxRestarts: cfg.MaxRestarts,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.codec == nil {
		s.codec = DefaultTextCodec()
	}
	if s.dtc == nil {
		s.dtc = func() DateTimeContext { return DateTimeContext{} }
	}
	if s.pageSize == 0 {
		s.pageSize = DefaultPageSize
	}
	if s.maxRestarts < 0 {
		s.maxRestarts = 0
	}
	return s
}

func (s *Scan) State() ScanState {
	return s.state
}

// ReadRequest describes one paginated read relative to a position.
type ReadRequest struct {
	SkipNavigator   []Direction
	SkipCount       uint32
	ReturnNavigator []Direction
	ReturnCount     uint32
	FieldMask       FieldMask
	ColumnFilter    ColumnFilter
}

// ReadResult is a fully decoded scan step.
type ReadResult struct {
	Entries  []Entry
	Stats    *CollectionStats
	Skipped  uint32
	Returned uint32
	Signals  Signals
}

// ReadEntries performs one scan step from pos and decodes its buffer.
//
// pos is a cursor: once the step succeeds it is overwritten with the
// position the store ended on, so passing the same value again continues
// the scan. The step's buffer is released before returning, whether or
// not decoding succeeded.
func (s *Scan) ReadEntries(ctx context.Context, pos *Position, req ReadRequest) (*ReadResult, error) {
	scanReq := ScanRequest{
		Position:        *pos,
		SkipNavigator:   ToBitmask(req.SkipNavigator...),
		SkipCount:       req.SkipCount,
		ReturnNavigator: ToBitmask(req.ReturnNavigator...),
		ReturnCount:     req.ReturnCount,
		FieldMask:       req.FieldMask,
	}

	resp, err := s.scanner.ScanStep(ctx, scanReq)
	if err != nil {
		return nil, fmt.Errorf("scan step from %s: %w", pos, err)
	}
	pos.Set(&resp.Position)

	s.logger.Sugar().With(
		"position", pos.String(),
		"skip_count", req.SkipCount,
		"skipped", resp.Skipped,
		"return_count", req.ReturnCount,
		"returned", resp.Returned,
		"signals", resp.Signals.String(),
	).Debug("scan step")

	decoder := NewDecoder(s.codec, s.dtc(), s.columnNames...)
	stats, entries, err := decoder.Decode(resp.Buffer, resp.Returned, req.FieldMask, req.ColumnFilter)
	if err != nil {
		err = fmt.Errorf("decode %d entries: %w", resp.Returned, err)
	}
	if resp.Handle != 0 {
		if releaseErr := s.scanner.ReleaseBuffer(ctx, resp.Handle); releaseErr != nil {
			err = multierr.Append(err, fmt.Errorf("release buffer %d: %w", resp.Handle, releaseErr))
		}
	}
	if err != nil {
		return nil, err
	}

	if resp.Returned < req.ReturnCount && !resp.Signals.MoreToDo() {
		s.state = ScanExhausted
	} else {
		s.state = ScanPositioned
	}

	return &ReadResult{
		Entries:  entries,
		Stats:    stats,
		Skipped:  resp.Skipped,
		Returned: resp.Returned,
		Signals:  resp.Signals,
	}, nil
}

// SkipEntries moves pos by count entries in direction nav without returning
// any, and reports how many entries were actually skipped.
func (s *Scan) SkipEntries(ctx context.Context, pos *Position, count uint32, nav ...Direction) (uint32, error) {
	result, err := s.ReadEntries(ctx, pos, ReadRequest{
		SkipNavigator: nav,
		SkipCount:     count,
	})
	if err != nil {
		return 0, err
	}
	return result.Skipped, nil
}

// FindByKey looks up the entry matching keys, one key per leading sorted
// column.
func (s *Scan) FindByKey(ctx context.Context, opts FindOptions, keys ...SearchKey) (FindResult, error) {
	buf, err := EncodeSearchKeys(s.codec, keys...)
	if err != nil {
		return FindResult{}, err
	}

	resp, err := s.searcher.PositionalSearch(ctx, buf, opts.Flags())
	if err != nil {
		return FindResult{}, fmt.Errorf("positional search: %w", err)
	}
	return s.findResult("positional search", opts.Mode, resp)
}

// FindByName looks up the first sorted text column by prefix.
func (s *Scan) FindByName(ctx context.Context, prefix string, opts FindOptions) (FindResult, error) {
	native, err := s.codec.Encode(prefix)
	if err != nil {
		return FindResult{}, fmt.Errorf("encode name %q: %w", prefix, err)
	}

	resp, err := s.searcher.NameSearch(ctx, native, opts.Flags())
	if err != nil {
		return FindResult{}, fmt.Errorf("name search: %w", err)
	}
	return s.findResult("name search", opts.Mode, resp)
}

func (s *Scan) findResult(op string, mode MatchMode, resp SearchResponse) (FindResult, error) {
	if IsNotFound(resp.Status) {
		s.logger.Sugar().With(
			"op", op,
			"mode", mode.String(),
			"status", uint16(resp.Status),
		).Debug("no match")
		s.state = ScanUnstarted
		return FindResult{
			Position:      Root(),
			EntriesFound:  0,
			HasExactCount: CanDetermineExactCount(mode),
		}, nil
	}
	if resp.Status != StatusOK {
		return FindResult{}, &StatusError{Op: op, Status: resp.Status}
	}

	pos, err := UnmarshalPosition(resp.Position)
	if err != nil {
		return FindResult{}, fmt.Errorf("%s position: %w", op, err)
	}

	result := FindResult{Position: pos, EntriesFound: resp.MatchCount, HasExactCount: true}
	if !CanDetermineExactCount(mode) {
		result.EntriesFound = 1
		result.HasExactCount = false
	}

	s.logger.Sugar().With(
		"op", op,
		"mode", mode.String(),
		"position", pos.String(),
		"found", result.EntriesFound,
		"exact", result.HasExactCount,
	).Debug("match")

	s.state = ScanPositioned
	return result, nil
}
