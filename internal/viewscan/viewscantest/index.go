package viewscantest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/RichardKnop/viewscan/internal/viewscan"
)

// Node is one entry of an in-memory index. Categories carry children.
type Node struct {
	NoteID   uint32
	Values   []viewscan.ColumnValue
	Unread   bool
	Children []*Node
}

func Document(noteID uint32, values ...viewscan.ColumnValue) *Node {
	return &Node{NoteID: noteID, Values: values}
}

// Category builds a category row from its value and the entries under it.
// Category note ids are assigned by NewIndex.
func Category(value viewscan.ColumnValue, children ...*Node) *Node {
	return &Node{Values: []viewscan.ColumnValue{value}, Children: children}
}

func (n *Node) isCategory() bool {
	return len(n.Children) > 0 || n.NoteID&viewscan.NoteIDCategory != 0
}

type indexEntry struct {
	node        *Node
	pos         *viewscan.Position
	parent      int
	siblings    uint32
	descendants uint32
	anyUnread   bool
}

// Index is a sorted, categorized index held in memory. It implements
// viewscan.Scanner and viewscan.Searcher the way the store answers them:
// scan steps return the entry at the current position first, searches match
// document entries only and expect them in key order.
type Index struct {
	// MaxEntriesPerStep simulates a full buffer. A step that hits it
	// reports SignalMoreToDo when entries are left. Zero means no limit.
	MaxEntriesPerStep int
	// StepSignals adds signals to the n-th scan step, counted from 1.
	StepSignals func(step int) viewscan.Signals
	// SearchStatus, when set, is reported by every search.
	SearchStatus viewscan.Status
	// ColumnNames name the values in named summaries.
	ColumnNames []string

	mu         sync.Mutex
	codec      viewscan.TextCodec
	entries    []*indexEntry
	byPosition map[string]int
	topLevel   uint32
	handles    map[viewscan.BufferHandle]struct{}
	nextHandle viewscan.BufferHandle
	steps      int
}

var (
	_ viewscan.Scanner  = (*Index)(nil)
	_ viewscan.Searcher = (*Index)(nil)
)

func NewIndex(codec viewscan.TextCodec, nodes ...*Node) *Index {
	if codec == nil {
		codec = viewscan.DefaultTextCodec()
	}
	x := &Index{
		codec:      codec,
		byPosition: map[string]int{},
		handles:    map[viewscan.BufferHandle]struct{}{},
		topLevel:   uint32(len(nodes)),
	}
	categoryID := viewscan.NoteIDCategory
	x.add(nodes, nil, -1, &categoryID)
	return x
}

func (x *Index) add(nodes []*Node, parentPos []uint32, parent int, categoryID *uint32) uint32 {
	var descendants uint32
	for i, node := range nodes {
		if len(node.Children) > 0 && node.NoteID == 0 {
			*categoryID++
			node.NoteID = *categoryID
		}
		tumblers := append(append([]uint32{}, parentPos...), uint32(i+1))
		pos, err := viewscan.NewPosition(tumblers...)
		if err != nil {
			panic(err)
		}

		entry := &indexEntry{
			node:     node,
			pos:      pos,
			parent:   parent,
			siblings: uint32(len(nodes)),
		}
		idx := len(x.entries)
		x.entries = append(x.entries, entry)
		x.byPosition[pos.String()] = idx

		entry.descendants = x.add(node.Children, tumblers, idx, categoryID)
		entry.anyUnread = node.Unread
		for _, e := range x.entries[idx+1:] {
			entry.anyUnread = entry.anyUnread || e.node.Unread
		}
		descendants += 1 + entry.descendants
	}
	return descendants
}

// Steps counts the scan steps served so far.
func (x *Index) Steps() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.steps
}

// Outstanding counts buffers handed out and not yet released.
func (x *Index) Outstanding() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.handles)
}

func (x *Index) ScanStep(ctx context.Context, req viewscan.ScanRequest) (viewscan.ScanResponse, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.steps++

	cur, err := x.indexOf(&req.Position)
	if err != nil {
		return viewscan.ScanResponse{}, err
	}
	skipNav, _ := viewscan.SplitNavigator(req.SkipNavigator)
	returnNav, _ := viewscan.SplitNavigator(req.ReturnNavigator)

	var resp viewscan.ScanResponse
	for resp.Skipped < req.SkipCount {
		next, ok, err := x.move(cur, skipNav)
		if err != nil {
			return viewscan.ScanResponse{}, err
		}
		if !ok {
			break
		}
		cur = next
		resp.Skipped++
	}

	var returned []int
	if resp.Skipped == req.SkipCount && req.ReturnCount > 0 {
		returned, resp.Signals, err = x.collect(cur, returnNav, req.ReturnCount)
		if err != nil {
			return viewscan.ScanResponse{}, err
		}
	}
	if len(returned) > 0 {
		cur = returned[len(returned)-1]
	}
	if x.StepSignals != nil {
		resp.Signals |= x.StepSignals(x.steps)
	}

	resp.Position = *x.positionOf(cur)
	resp.Returned = uint32(len(returned))

	b := NewBufferBuilder(x.codec)
	if req.FieldMask.Has(viewscan.FieldCollectionStats) {
		b.Stats(viewscan.CollectionStats{
			TopLevelEntries: x.topLevel,
			LastModified:    viewscan.TimeDateFromTime(time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)),
		})
	}
	for _, idx := range returned {
		b.Entry(x.entry(idx), req.FieldMask)
	}
	resp.Buffer, err = b.Bytes()
	if err != nil {
		return viewscan.ScanResponse{}, err
	}
	if len(resp.Buffer) > 0 {
		x.nextHandle++
		resp.Handle = x.nextHandle
		x.handles[resp.Handle] = struct{}{}
	}

	return resp, nil
}

// collect returns up to count entries starting with cur itself.
func (x *Index) collect(cur int, nav viewscan.Direction, count uint32) ([]int, viewscan.Signals, error) {
	var (
		returned []int
		err      error
	)
	next, ok := cur, cur >= 0
	if !ok {
		next, ok, err = x.move(cur, nav)
		if err != nil {
			return nil, 0, err
		}
	}
	for ok && uint32(len(returned)) < count {
		if x.MaxEntriesPerStep > 0 && len(returned) == x.MaxEntriesPerStep {
			return returned, viewscan.SignalMoreToDo, nil
		}
		returned = append(returned, next)
		if nav == viewscan.NavCurrent {
			break
		}
		next, ok, err = x.move(next, nav)
		if err != nil {
			return nil, 0, err
		}
	}
	return returned, 0, nil
}

func (x *Index) ReleaseBuffer(ctx context.Context, handle viewscan.BufferHandle) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, ok := x.handles[handle]; !ok {
		return fmt.Errorf("viewscantest: buffer %d is not allocated", handle)
	}
	delete(x.handles, handle)
	return nil
}

func (x *Index) indexOf(pos *viewscan.Position) (int, error) {
	if pos.IsRoot() {
		return -1, nil
	}
	idx, ok := x.byPosition[pos.String()]
	if !ok {
		return 0, fmt.Errorf("viewscantest: no entry at %s", pos)
	}
	return idx, nil
}

func (x *Index) positionOf(idx int) *viewscan.Position {
	if idx < 0 {
		return viewscan.Root()
	}
	return x.entries[idx].pos
}

func (x *Index) entry(idx int) viewscan.Entry {
	e := x.entries[idx]
	entry := viewscan.Entry{
		NoteID:          e.node.NoteID,
		UNID:            unidOf(e.node.NoteID),
		SiblingCount:    e.siblings,
		ChildCount:      uint32(len(e.node.Children)),
		DescendantCount: e.descendants,
		AnyUnread:       e.anyUnread,
		IndentLevel:     uint16(e.pos.Level),
		Unread:          e.node.Unread,
		Position:        e.pos,
		Values:          e.node.Values,
	}
	if !e.node.isCategory() {
		entry.NoteClass = viewscan.NoteClassDocument
	}
	for i, name := range x.ColumnNames {
		item := viewscan.Item{Name: name}
		if i < len(e.node.Values) {
			item.Value = e.node.Values[i]
		}
		entry.Summary = append(entry.Summary, item)
	}
	return entry
}

func unidOf(noteID uint32) viewscan.UNID {
	return viewscan.UNID{
		File: viewscan.TimeDate{Innards: [2]uint32{0x00C0FFEE, 0x0BADCAFE}},
		Note: viewscan.TimeDate{Innards: [2]uint32{noteID, ^noteID}},
	}
}

func (x *Index) parentOf(idx int) int {
	if idx < 0 {
		return -1
	}
	return x.entries[idx].parent
}

// move takes one step from idx, -1 being the root. It reports false when
// there is nothing in that direction.
func (x *Index) move(idx int, nav viewscan.Direction) (int, bool, error) {
	n := len(x.entries)
	switch nav {
	case viewscan.NavCurrent:
		return idx, idx >= 0, nil
	case viewscan.NavNext:
		return idx + 1, idx+1 < n, nil
	case viewscan.NavPrev:
		return idx - 1, idx-1 >= 0, nil
	case viewscan.NavChild:
		if idx+1 < n && x.entries[idx+1].parent == idx {
			return idx + 1, true, nil
		}
		return 0, false, nil
	case viewscan.NavParent:
		parent := x.parentOf(idx)
		return parent, parent >= 0, nil
	case viewscan.NavNextPeer:
		if idx < 0 {
			return 0, n > 0, nil
		}
		next := idx + 1 + int(x.entries[idx].descendants)
		return next, next < n && x.entries[next].parent == x.entries[idx].parent, nil
	case viewscan.NavPrevPeer:
		return x.find(idx-1, -1, func(i int) bool { return x.entries[i].parent == x.parentOf(idx) })
	case viewscan.NavFirstPeer:
		first := x.parentOf(idx) + 1
		return first, idx >= 0 && first < n, nil
	case viewscan.NavLastPeer:
		last := -1
		for i := x.parentOf(idx) + 1; i < n && idx >= 0; i++ {
			if x.entries[i].parent == x.parentOf(idx) {
				last = i
			}
		}
		return last, last >= 0, nil
	case viewscan.NavNextMain:
		return x.find(idx+1, 1, func(i int) bool { return x.entries[i].parent == -1 })
	case viewscan.NavPrevMain:
		return x.find(idx-1, -1, func(i int) bool { return x.entries[i].parent == -1 })
	case viewscan.NavNextCategory:
		return x.find(idx+1, 1, func(i int) bool { return x.entries[i].node.isCategory() })
	case viewscan.NavPrevCategory:
		return x.find(idx-1, -1, func(i int) bool { return x.entries[i].node.isCategory() })
	case viewscan.NavNextNonCategory:
		return x.find(idx+1, 1, func(i int) bool { return !x.entries[i].node.isCategory() })
	case viewscan.NavPrevNonCategory:
		return x.find(idx-1, -1, func(i int) bool { return !x.entries[i].node.isCategory() })
	default:
		return 0, false, fmt.Errorf("viewscantest: navigator %s not supported", nav)
	}
}

func (x *Index) find(from, step int, match func(int) bool) (int, bool, error) {
	for i := from; i >= 0 && i < len(x.entries); i += step {
		if match(i) {
			return i, true, nil
		}
	}
	return 0, false, nil
}

func (x *Index) PositionalSearch(ctx context.Context, keys []byte, flags uint16) (viewscan.SearchResponse, error) {
	table, err := viewscan.DecodeItemTable(keys, x.codec, viewscan.DateTimeContext{})
	if err != nil {
		return viewscan.SearchResponse{}, err
	}
	return x.search(table, viewscan.FindOptionsFromFlags(flags)), nil
}

func (x *Index) NameSearch(ctx context.Context, prefix []byte, flags uint16) (viewscan.SearchResponse, error) {
	name, err := x.codec.Decode(prefix)
	if err != nil {
		return viewscan.SearchResponse{}, err
	}
	table := viewscan.ItemTable{{Value: viewscan.TextValue(name)}}
	return x.search(table, viewscan.FindOptionsFromFlags(flags)), nil
}

func (x *Index) search(keys viewscan.ItemTable, opts viewscan.FindOptions) viewscan.SearchResponse {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.SearchStatus != viewscan.StatusOK {
		return viewscan.SearchResponse{Status: x.SearchStatus}
	}

	var docs, cmps []int
	first, last, lastLess, firstGreater := -1, -1, -1, -1
	for i, e := range x.entries {
		if e.node.isCategory() {
			continue
		}
		docs = append(docs, i)
		cmps = append(cmps, compareEntry(e.node.Values, keys, opts))
	}
	for i, c := range cmps {
		switch {
		case c < 0:
			lastLess = docs[i]
		case c == 0:
			if first < 0 {
				first = docs[i]
			}
			last = docs[i]
		case firstGreater < 0:
			firstGreater = docs[i]
		}
	}

	var landing int
	switch opts.Mode {
	case viewscan.LastEqual:
		landing = last
	case viewscan.LessThan:
		landing = lastLess
	case viewscan.GreaterThan:
		landing = firstGreater
	case viewscan.LessThanOrEqual:
		landing = last
		if landing < 0 {
			landing = lastLess
		}
	case viewscan.GreaterThanOrEqual:
		landing = first
		if landing < 0 {
			landing = firstGreater
		}
	default:
		landing = first
	}
	if landing < 0 {
		return viewscan.SearchResponse{Status: viewscan.StatusNotFound}
	}

	resp := viewscan.SearchResponse{Position: x.entries[landing].pos.MarshalWire()}
	if viewscan.CanDetermineExactCount(opts.Mode) && first >= 0 {
		for _, c := range cmps {
			if c == 0 {
				resp.MatchCount++
			}
		}
	}
	return resp
}

// compareEntry compares the leading values of an entry with keys, key by
// key, stopping at the first difference.
func compareEntry(values []viewscan.ColumnValue, keys viewscan.ItemTable, opts viewscan.FindOptions) int {
	for i, key := range keys {
		if i >= len(values) || !values[i].Valid {
			return -1
		}
		if c := compareValue(values[i], key.Value, opts); c != 0 {
			return c
		}
	}
	return 0
}

func compareValue(v, key viewscan.ColumnValue, opts viewscan.FindOptions) int {
	switch key.Type {
	case viewscan.TypeText:
		s, _ := v.Text()
		k, _ := key.Text()
		if opts.CaseInsensitive {
			s, k = strings.ToLower(s), strings.ToLower(k)
		}
		if opts.Partial && strings.HasPrefix(s, k) {
			return 0
		}
		return strings.Compare(s, k)
	case viewscan.TypeNumber:
		n, _ := v.Number()
		k, _ := key.Number()
		return compareFloat(n, k)
	case viewscan.TypeTime:
		t, _ := v.Time()
		k, _ := key.Time()
		return t.Compare(k)
	case viewscan.TypeNumberRange:
		n, _ := v.Number()
		r, _ := key.Range()
		pair := r[0].(viewscan.NumberPair)
		if n < pair.Lower {
			return -1
		}
		if n > pair.Upper {
			return 1
		}
		return 0
	case viewscan.TypeTimeRange:
		t, _ := v.Time()
		r, _ := key.Range()
		pair := r[0].(viewscan.TimePair)
		if t.Before(pair.Lower) {
			return -1
		}
		if t.After(pair.Upper) {
			return 1
		}
		return 0
	default:
		return -1
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
