package e2etests

import (
	"context"
	"io"
	"strconv"

	"github.com/RichardKnop/viewscan"
)

func (s *TestSuite) TestAllDocuments() {
	ctx := context.Background()

	ids, err := s.collection.AllIDs(ctx, viewscan.NavNextNonCategory)
	s.Require().NoError(err)
	s.Equal(s.documentIDs(), ids)

	s.Run("Paged by full buffers", func() {
		s.index.MaxEntriesPerStep = 64
		defer func() { s.index.MaxEntriesPerStep = 0 }()

		stepsBefore := s.index.Steps()
		ids, err := s.collection.AllIDs(ctx, viewscan.NavNextNonCategory)
		s.Require().NoError(err)
		s.Equal(s.documentIDs(), ids)

		expectedSteps := (len(s.orders) + 63) / 64
		s.Equal(expectedSteps, s.index.Steps()-stepsBefore)
	})

	s.Run("Index modified mid-read", func() {
		s.index.MaxEntriesPerStep = 100
		stepsBefore := s.index.Steps()
		s.index.StepSignals = func(step int) viewscan.Signals {
			if step == stepsBefore+2 {
				return viewscan.SignalIndexModified
			}
			return 0
		}
		defer func() {
			s.index.MaxEntriesPerStep = 0
			s.index.StepSignals = nil
		}()

		ids, err := s.collection.AllIDs(ctx, viewscan.NavNextNonCategory)
		s.Require().NoError(err)
		s.Equal(s.documentIDs(), ids)
	})
}

func (s *TestSuite) TestCategories() {
	ctx := context.Background()

	var (
		customers []string
		children  uint32
	)
	err := s.collection.AllEntries(ctx, viewscan.NavNextCategory,
		viewscan.FieldNoteID|viewscan.FieldChildren|viewscan.FieldSummaryValues, nil,
		func(entry viewscan.Entry) error {
			s.True(entry.IsCategory())
			name, ok := entry.Values[0].Text()
			s.Require().True(ok)
			customers = append(customers, name)
			children += entry.ChildCount
			return nil
		})
	s.Require().NoError(err)
	s.Len(customers, numCategories)
	s.IsIncreasing(customers)
	s.Equal(uint32(len(s.orders)), children)
}

func (s *TestSuite) TestWalkFirstCategory() {
	ctx := context.Background()

	aScan := s.collection.NewScan()
	pos := viewscan.Root()

	result, err := aScan.ReadEntries(ctx, pos, viewscan.ReadRequest{
		SkipNavigator:   []viewscan.Direction{viewscan.NavNext},
		SkipCount:       1,
		ReturnNavigator: []viewscan.Direction{viewscan.NavCurrent},
		ReturnCount:     1,
		FieldMask:       viewscan.FieldNoteID | viewscan.FieldCollectionStats | viewscan.FieldDescendants,
	})
	s.Require().NoError(err)
	s.Require().NotNil(result.Stats)
	s.Equal(uint32(numCategories), result.Stats.TopLevelEntries)
	s.Require().Len(result.Entries, 1)
	s.Equal(uint32(docsPerCategory), result.Entries[0].DescendantCount)
	s.Equal("1", pos.String())

	// Down into the category and along its documents.
	result, err = aScan.ReadEntries(ctx, pos, viewscan.ReadRequest{
		SkipNavigator:   []viewscan.Direction{viewscan.NavChild},
		SkipCount:       1,
		ReturnNavigator: []viewscan.Direction{viewscan.NavNextPeer},
		ReturnCount:     docsPerCategory + 1,
		FieldMask:       viewscan.FieldNoteID | viewscan.FieldSummary,
	})
	s.Require().NoError(err)
	s.Require().Len(result.Entries, docsPerCategory)
	s.Equal(viewscan.ScanExhausted, aScan.State())
	s.Equal("1."+strconv.Itoa(docsPerCategory), pos.String())

	for i, entry := range result.Entries {
		s.Equal(s.orders[i].NoteID, entry.NoteID)
		product, ok := entry.ColumnValue("product")
		s.Require().True(ok)
		s.Equal(s.orders[i].Product, product.String())
	}
}

func (s *TestSuite) TestFindEveryKey() {
	ctx := context.Background()

	for _, o := range s.orders {
		expected := s.countMatching(o.Customer, o.Product)

		entries, found, err := s.collection.EntriesByKey(ctx, viewscan.FindOptions{},
			viewscan.FieldNoteID|viewscan.FieldSummaryValues, 0, o.Customer, o.Product)
		s.Require().NoError(err)
		s.Require().True(found.HasExactCount)
		s.Equal(expected, found.EntriesFound)
		s.Require().Len(entries, int(expected))

		for _, entry := range entries {
			product, _ := entry.ColumnValue("product")
			s.Equal(o.Product, product.String())
		}
	}
}

func (s *TestSuite) TestFindRelative() {
	ctx := context.Background()

	first, last := s.orders[0], s.orders[len(s.orders)-1]

	s.Run("Nothing before the first document", func() {
		found, err := s.collection.FindByKey(ctx, viewscan.FindOptions{Mode: viewscan.LessThan}, first.Customer, first.Product)
		s.Require().NoError(err)
		s.False(found.Found())
		s.True(found.Position.IsRoot())
		s.False(found.HasExactCount)
	})

	s.Run("Nothing after the last document", func() {
		found, err := s.collection.FindByKey(ctx, viewscan.FindOptions{Mode: viewscan.GreaterThan}, last.Customer, last.Product)
		s.Require().NoError(err)
		s.False(found.Found())
	})

	s.Run("Greater than lands on the next key", func() {
		entries, found, err := s.collection.EntriesByKey(ctx, viewscan.FindOptions{Mode: viewscan.GreaterThan},
			viewscan.FieldNoteID, 3, first.Customer, first.Product)
		s.Require().NoError(err)
		s.Equal(uint32(1), found.EntriesFound)
		s.False(found.HasExactCount)
		s.Len(entries, 3)
		s.NotEqual(first.NoteID, entries[0].NoteID)
	})

	s.Run("Name prefix", func() {
		prefix := first.Customer[:1]
		found, err := s.collection.FindByName(ctx, prefix, viewscan.FindOptions{Partial: true})
		s.Require().NoError(err)
		s.True(found.Found())
		s.Equal("1.1", found.Position.String())
	})

	s.Run("Stop early", func() {
		var seen int
		err := s.collection.AllEntries(ctx, viewscan.NavNextNonCategory, viewscan.FieldNoteID, nil, func(viewscan.Entry) error {
			seen++
			if seen == 10 {
				return io.EOF
			}
			return nil
		})
		s.Require().NoError(err)
		s.Equal(10, seen)
	})
}
