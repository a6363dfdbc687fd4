package build

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vectorshelf/hgraph/internal/core"
)

// AddBatch inserts ids[i]/vecs[i] pairs (already deduplicated and already
// present in the codec stores) using a bounded worker pool of
// threadCount workers, each processing one contiguous range of the input
// (spec §4.6 "Parallel Add"). Cross-point coordination across ranges is
// provided solely by the global R/W lock and PerNodeLocks; AddBatch does
// not grow capacity — callers grow once at the batch boundary (spec §4.8)
// before calling this.
func (b *Builder) AddBatch(ctx context.Context, ids []core.InnerID, vecs [][]float32, threadCount int) error {
	if threadCount < 1 {
		threadCount = 1
	}
	n := len(ids)
	if n == 0 {
		return nil
	}
	if threadCount > n {
		threadCount = n
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(threadCount)

	chunk := (n + threadCount - 1) / threadCount
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		start, end := start, end
		g.Go(func() error {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				b.AddOne(ids[i], vecs[i])
			}
			return nil
		})
	}
	return g.Wait()
}
