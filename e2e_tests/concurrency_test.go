package e2etests

import (
	"context"
	"sync"

	"github.com/RichardKnop/viewscan"
)

func (s *TestSuite) TestConcurrency() {
	ctx := context.Background()

	s.Run("Concurrently run independent scans", func() {
		workerPool := make(chan struct{}, 20) // limit concurrency to 20 goroutines
		for range 20 {
			workerPool <- struct{}{}
		}
		numScans := 100

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			results = make([][]uint32, numScans)
			errs    []error
		)

		for i := range numScans {
			<-workerPool

			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				defer func() { workerPool <- struct{}{} }()

				var ids []uint32
				if idx%2 == 0 {
					var err error
					ids, err = s.collection.AllIDs(ctx, viewscan.NavNextNonCategory)
					if err != nil {
						mu.Lock()
						errs = append(errs, err)
						mu.Unlock()
						return
					}
				} else {
					o := s.orders[idx%len(s.orders)]
					entries, _, err := s.collection.EntriesByKey(ctx, viewscan.FindOptions{}, viewscan.FieldNoteID, 0, o.Customer, o.Product)
					if err != nil {
						mu.Lock()
						errs = append(errs, err)
						mu.Unlock()
						return
					}
					for _, entry := range entries {
						ids = append(ids, entry.NoteID)
					}
				}
				results[idx] = ids
			}(i)
		}

		wg.Wait()

		s.Empty(errs)
		for i, ids := range results {
			if i%2 == 0 {
				s.Equal(s.documentIDs(), ids)
				continue
			}
			o := s.orders[i%len(s.orders)]
			s.Len(ids, int(s.countMatching(o.Customer, o.Product)))
			s.Contains(ids, o.NoteID)
		}
	})
}
