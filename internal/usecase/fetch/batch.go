package fetch

import (
	"context"

	"safefetch/internal/domain/entity"

	"golang.org/x/sync/errgroup"
)

// BatchItem is the outcome of one request of a batch. Exactly one of Result
// and Err is set.
type BatchItem struct {
	Request Request
	Result  *entity.FetchResult
	Err     error
}

// FetchAll runs HandleFetch for every request with at most concurrency calls
// in flight and returns the outcomes in request order. A failed fetch does
// not cancel the others; only ctx does.
func (s *Service) FetchAll(ctx context.Context, reqs []Request, concurrency int) []BatchItem {
	if concurrency < 1 {
		concurrency = 1
	}
	items := make([]BatchItem, len(reqs))

	var eg errgroup.Group
	eg.SetLimit(concurrency)
	for i, req := range reqs {
		items[i].Request = req
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}
			items[i].Result, items[i].Err = s.HandleFetch(ctx, req)
			return nil
		})
	}
	_ = eg.Wait()
	return items
}
