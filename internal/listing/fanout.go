package listing

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
)

// maxParallelLoads bounds LoadEach.
const maxParallelLoads = 8

// FanOut runs every load concurrently. The first failure cancels the rest
// and is returned; the caller discards partial results.
func FanOut(ctx context.Context, loads ...func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, load := range loads {
		g.Go(func() error {
			return load(gctx)
		})
	}
	return g.Wait()
}

// LoadEach fetches every id concurrently and returns the entities in id
// order. Ids the backend no longer knows are skipped.
func LoadEach[T any](ctx context.Context, load Loader[T], ids []string) ([]T, error) {
	found := make([]*T, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, id := range ids {
		g.Go(func() error {
			v, err := load(gctx, id)
			if api.IsNotFound(err) {
				return nil
			}
			found[i] = v
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(ids))
	for _, v := range found {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out, nil
}
