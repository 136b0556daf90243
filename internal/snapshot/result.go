package snapshot

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/feral-file/ff-pool-snapshot/internal/logger"
	"github.com/feral-file/ff-pool-snapshot/internal/metrics"
)

// Step names reported in PoolSnapshot.Defaulted
const (
	StepPoolVersion = "pool_version"
	StepToken0Data  = "token0_data"
	StepToken1Data  = "token1_data"
	StepKnownToken  = "known_token"
	StepQuotePrice  = "quote_price"
	StepPoolPrice   = "pool_price"
	StepVolume      = "volume"
	StepLiquidity   = "liquidity"
	StepHistory     = "history"
)

// Result is the outcome of one degradable step: the computed value, or a safe
// default together with the reason it was used
type Result[T any] struct {
	Value T
	Err   error
}

func succeeded[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

func defaulted[T any](fallback T, err error) Result[T] {
	return Result[T]{Value: fallback, Err: err}
}

// Failed reports whether the default value was used
func (r Result[T]) Failed() bool {
	return r.Err != nil
}

// degradations collects the steps that fell back to defaults during one request
type degradations struct {
	mu    sync.Mutex
	steps []string
}

// track logs a failed result and remembers its step, then returns the value either way
func track[T any](ctx context.Context, d *degradations, step string, r Result[T], fields ...zap.Field) T {
	if r.Failed() {
		d.add(ctx, step, r.Err, fields...)
	}
	return r.Value
}

func (d *degradations) add(ctx context.Context, step string, err error, fields ...zap.Field) {
	logger.WarnCtx(ctx, "Snapshot step defaulted",
		append(fields, zap.String("step", step), zap.Error(err))...)
	metrics.IncDefaulted(step)

	d.mu.Lock()
	d.steps = append(d.steps, step)
	d.mu.Unlock()
}

func (d *degradations) list() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	steps := make([]string, len(d.steps))
	copy(steps, d.steps)
	return steps
}
