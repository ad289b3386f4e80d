package viewscan

import (
	"context"
	"errors"
	"io"
)

var errIndexModified = errors.New("viewscan: index modified during read")

// EntryCallback receives entries in scan order. Returning io.EOF stops the
// read without an error.
type EntryCallback func(entry Entry) error

// AllIDs returns the note ids of every entry reached by nav from the start
// of the index, e.g. NavNextNonCategory for documents only.
//
// When the store signals that the index changed mid-read, the read starts
// over from the beginning, at most MaxRestarts times. After that the ids
// are returned as read.
func (s *Scan) AllIDs(ctx context.Context, nav Direction) ([]uint32, error) {
	var ids []uint32
	err := s.readRestarting(ctx, nav, FieldNoteID, nil, func() {
		ids = ids[:0]
	}, func(entries []Entry) error {
		for _, entry := range entries {
			ids = append(ids, entry.NoteID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// AllEntries calls fn for every entry reached by nav from the start of the
// index.
//
// With MaxRestarts at zero entries are streamed page by page as they are
// read. Otherwise the whole read is collected first, restarting like AllIDs
// when the index changes, so fn never sees an entry twice.
func (s *Scan) AllEntries(ctx context.Context, nav Direction, mask FieldMask, filter ColumnFilter, fn EntryCallback) error {
	deliver := func(entries []Entry) error {
		for _, entry := range entries {
			if err := fn(entry); err != nil {
				return err
			}
		}
		return nil
	}

	var err error
	if s.maxRestarts == 0 {
		err = s.readPages(ctx, nav, mask, filter, false, deliver)
	} else {
		var entries []Entry
		err = s.readRestarting(ctx, nav, mask, filter, func() {
			entries = entries[:0]
		}, func(page []Entry) error {
			entries = append(entries, page...)
			return nil
		})
		if err == nil {
			err = deliver(entries)
		}
	}
	if err == io.EOF {
		return nil
	}
	return err
}

// readRestarting runs readPages until it completes without an index change
// or the restarts run out. reset clears whatever onPage collected.
func (s *Scan) readRestarting(ctx context.Context, nav Direction, mask FieldMask, filter ColumnFilter, reset func(), onPage func([]Entry) error) error {
	for restarts := 0; ; restarts++ {
		reset()
		err := s.readPages(ctx, nav, mask, filter, restarts < s.maxRestarts, onPage)
		if !errors.Is(err, errIndexModified) {
			return err
		}
		s.logger.Sugar().With(
			"restart", restarts+1,
			"max_restarts", s.maxRestarts,
		).Warn("index modified, restarting read")
	}
}

// readPages pages forward from the root until a step returns fewer entries
// than requested without reporting more to do. Every page after the first
// skips the entry the previous page ended on.
func (s *Scan) readPages(ctx context.Context, nav Direction, mask FieldMask, filter ColumnFilter, restartable bool, onPage func([]Entry) error) error {
	pos := Root()
	req := ReadRequest{
		SkipNavigator:   []Direction{nav},
		SkipCount:       1,
		ReturnNavigator: []Direction{nav},
		ReturnCount:     s.pageSize,
		FieldMask:       mask,
		ColumnFilter:    filter,
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := s.ReadEntries(ctx, pos, req)
		if err != nil {
			return err
		}
		if restartable && result.Signals.IndexModified() {
			return errIndexModified
		}
		if err := onPage(result.Entries); err != nil {
			return err
		}
		if s.state == ScanExhausted || result.Returned == 0 {
			return nil
		}
	}
}

// EntriesByKey finds the entries matching keys and reads them. With an
// exact match count exactly that many entries are read, capped by limit
// when limit is not zero. Otherwise up to limit entries are read from the
// landing position. A search without match returns no entries.
//
// Equality and greater-than modes read forward from the landing position,
// LastEqual and the less-than modes read backwards.
func (s *Scan) EntriesByKey(ctx context.Context, opts FindOptions, keys []SearchKey, mask FieldMask, limit uint32) ([]Entry, FindResult, error) {
	found, err := s.FindByKey(ctx, opts, keys...)
	if err != nil {
		return nil, FindResult{}, err
	}
	if !found.Found() {
		return []Entry{}, found, nil
	}

	want := limit
	if found.HasExactCount && (limit == 0 || found.EntriesFound < limit) {
		want = found.EntriesFound
	}
	if want == 0 {
		want = s.pageSize
	}

	nav := NavNext
	switch opts.Mode {
	case LastEqual, LessThan, LessThanOrEqual:
		nav = NavPrev
	}
	if opts.NonCategoryOnly {
		nav = nonCategoryNavigator(nav)
	}

	var (
		pos     = found.Position.Clone()
		entries = make([]Entry, 0, min(want, 1024))
		req     = ReadRequest{
			ReturnNavigator: []Direction{nav},
			FieldMask:       mask,
		}
	)
	for uint32(len(entries)) < want {
		req.ReturnCount = want - uint32(len(entries))
		result, err := s.ReadEntries(ctx, pos, req)
		if err != nil {
			return nil, found, err
		}
		entries = append(entries, result.Entries...)
		if !result.Signals.MoreToDo() || result.Returned == 0 {
			break
		}
		// The next page starts after the entry this one ended on.
		req.SkipNavigator = []Direction{nav}
		req.SkipCount = 1
	}

	return entries, found, nil
}

func nonCategoryNavigator(nav Direction) Direction {
	if nav.IsBackward() {
		return NavPrevNonCategory
	}
	return NavNextNonCategory
}
