package tinkoffinvest

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// forEach calls f for every index in [0, n). With concurrency 1 the calls
// are strictly sequential in index order. f must not fail the batch: it
// records its own outcome at index i.
func (s *session) forEach(ctx context.Context, n int, f func(ctx context.Context, i int)) {
	if s.concurrency <= 1 {
		for i := 0; i < n; i++ {
			f(ctx, i)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			f(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *session) enrichmentFailed(kind string, figi FIGI, err error) {
	enrichmentFailures.WithLabelValues(kind).Inc()
	s.logger.Warn().Err(err).Str("figi", figi.S()).Str("kind", kind).Msg("enrichment failed")
}
