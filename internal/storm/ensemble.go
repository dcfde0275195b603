package storm

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Compare generates one request for each distribution, running at most
// GOMAXPROCS generations at a time. Results are in the order of
// distributions, each with Params.Distribution replaced. Generation is
// fail-soft per distribution; only cancellation is an error.
func (e *Engine) Compare(ctx context.Context, p Params, distributions []string) ([]Result, error) {
	return e.compare(ctx, p, distributions, runtime.GOMAXPROCS(0))
}

func (e *Engine) compare(ctx context.Context, p Params, distributions []string, workers int) ([]Result, error) {
	results := make([]Result, len(distributions))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))
	for i, name := range distributions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pCopy := p
			pCopy.Distribution = name
			results[i] = e.Generate(pCopy)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
