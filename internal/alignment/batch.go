package alignment

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/aria-lang/bioalign-go/internal/bioerr"
)

// Pair is one query/target input to a batch.
type Pair struct {
	Query  []byte
	Target []byte
}

// AlignBatch aligns every pair under one mode and scheme. It fails fast:
// all pairs are checked in order before any alignment runs, and the first
// invalid pair aborts the whole batch. Results are in input order.
func AlignBatch(pairs []Pair, mode Mode, scheme Scheme) ([]*Result, error) {
	if err := checkBatch(pairs, mode, scheme); err != nil {
		return nil, err
	}

	results := make([]*Result, len(pairs))
	for i, p := range pairs {
		res, err := Align(p.Query, p.Target, mode, scheme)
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		results[i] = res
	}
	return results, nil
}

// AlignBatchParallel is AlignBatch with pairs spread over at most workers
// goroutines, or GOMAXPROCS when workers <= 0. Each alignment still runs on
// a single goroutine. Cancelling ctx stops scheduling further pairs and
// returns the context error.
func AlignBatchParallel(ctx context.Context, pairs []Pair, mode Mode, scheme Scheme, workers int) ([]*Result, error) {
	if err := checkBatch(pairs, mode, scheme); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(pairs))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i, p := range pairs {
		if groupCtx.Err() != nil {
			break
		}
		i, p := i, p
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			res, err := Align(p.Query, p.Target, mode, scheme)
			if err != nil {
				return fmt.Errorf("pair %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func checkBatch(pairs []Pair, mode Mode, scheme Scheme) error {
	if len(pairs) == 0 {
		return fmt.Errorf("%w: batch has no pairs", bioerr.ErrEmptyInput)
	}
	for i, p := range pairs {
		if err := checkInputs(p.Query, p.Target, mode, scheme); err != nil {
			return fmt.Errorf("pair %d: %w", i, err)
		}
	}
	return nil
}
