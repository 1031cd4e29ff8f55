package pathfinder

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Evaluation is the caller-supplied verdict for one cycle: whatever the
// solver decided (profit, optimal input, or nothing worth trading).
type Evaluation struct {
	Cycle Cycle
	Value any
}

// Evaluator scores one cycle, returning an error only for conditions that
// should abort the whole scan (context cancellation, an unrecoverable RPC
// failure) — a cycle that is simply unprofitable should return a zero
// Evaluation.Value and a nil error, not an error.
type Evaluator func(ctx context.Context, cycle Cycle) (any, error)

// ScanCycles evaluates every cycle concurrently, bounded by maxConcurrency,
// and returns one Evaluation per cycle in the same order cycles were given.
// It stops and returns the first error any Evaluator call produces,
// cancelling the others in flight — the fail-fast behavior
// golang.org/x/sync/errgroup provides. This is the module's only concurrent
// fan-out.
func ScanCycles(ctx context.Context, cycles []Cycle, maxConcurrency int, eval Evaluator) ([]Evaluation, error) {
	results := make([]Evaluation, len(cycles))
	group, groupCtx := errgroup.WithContext(ctx)
	if maxConcurrency > 0 {
		group.SetLimit(maxConcurrency)
	}

	for i, cycle := range cycles {
		i, cycle := i, cycle
		group.Go(func() error {
			value, err := eval(groupCtx, cycle)
			if err != nil {
				return err
			}
			results[i] = Evaluation{Cycle: cycle, Value: value}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
