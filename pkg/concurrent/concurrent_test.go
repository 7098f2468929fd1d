package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/etomica/etomica/pkg/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachVisitsAll(t *testing.T) {
	var sum atomic.Int64
	err := ForEach(context.Background(), sequence.From([]int{1, 2, 3, 4}), 2,
		func(_ context.Context, v int) error {
			sum.Add(int64(v))
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, int64(10), sum.Load())
}

func TestForEachRespectsLimit(t *testing.T) {
	var running, peak atomic.Int32
	err := ForEach(context.Background(), sequence.From(make([]int, 16)), 3,
		func(context.Context, int) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			running.Add(-1)
			return nil
		})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestForEachReturnsFirstError(t *testing.T) {
	failure := errors.New("boom")
	err := ForEach(context.Background(), sequence.From([]int{1, 2, 3}), 0,
		func(_ context.Context, v int) error {
			if v == 2 {
				return failure
			}
			return nil
		})
	assert.ErrorIs(t, err, failure)
}

func TestForEachStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls atomic.Int32
	err := ForEach(ctx, sequence.From([]int{1, 2, 3}), 1,
		func(context.Context, int) error {
			calls.Add(1)
			return nil
		})
	require.NoError(t, err)
	assert.Zero(t, calls.Load())
}
