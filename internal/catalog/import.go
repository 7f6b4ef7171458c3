package catalog

import (
	"context"
	"fmt"
	"sync"

	"covidsonif/internal/engine"

	"golang.org/x/sync/errgroup"
)

// ImportAll imports every dataset in c concurrently, each into its own
// engine.Dataset built with opts. The first failure cancels the rest.
func ImportAll(ctx context.Context, c *Catalog, opts ...engine.Option) (map[string]*engine.Dataset, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	out := make(map[string]*engine.Dataset, c.Len())

	for _, e := range c.entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ds := engine.New(opts...)
			if err := ds.ImportData(e.Path); err != nil {
				return fmt.Errorf("dataset %q: %w", e.Name, err)
			}
			mu.Lock()
			out[e.Name] = ds
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
