package memory

import (
	"sync"
	"testing"

	"agentguard/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_Snapshot(t *testing.T) {
	l := NewLedger(decimal.NewFromInt(10000), decimal.NewFromInt(1000))

	snap := l.Snapshot()
	assert.True(t, snap.Ceiling.Equal(decimal.NewFromInt(10000)))
	assert.True(t, snap.Spent.Equal(decimal.NewFromInt(1000)))
	assert.True(t, snap.Remaining.Equal(decimal.NewFromInt(9000)))
}

func TestLedger_Commit(t *testing.T) {
	l := NewLedger(decimal.NewFromInt(10000), decimal.Zero)

	require.NoError(t, l.Commit(decimal.NewFromInt(4000)))
	require.NoError(t, l.Commit(decimal.NewFromInt(6000)))
	assert.True(t, l.Snapshot().Remaining.IsZero())
}

func TestLedger_CommitRejectsOverCeiling(t *testing.T) {
	l := NewLedger(decimal.NewFromInt(10000), decimal.NewFromInt(9500))

	err := l.Commit(decimal.NewFromInt(501))
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "LGR_001", appErr.Code)

	// Failed commit must not mutate spent.
	assert.True(t, l.Snapshot().Spent.Equal(decimal.NewFromInt(9500)))

	// The boundary amount still fits.
	require.NoError(t, l.Commit(decimal.NewFromInt(500)))
}

func TestLedger_FractionalAmountsStayExact(t *testing.T) {
	l := NewLedger(decimal.NewFromInt(1), decimal.Zero)

	// 0.1 + 0.2, ruinous in binary floats, must be exactly 0.3.
	require.NoError(t, l.Commit(decimal.RequireFromString("0.1")))
	require.NoError(t, l.Commit(decimal.RequireFromString("0.2")))
	assert.True(t, l.Snapshot().Spent.Equal(decimal.RequireFromString("0.3")))
}

func TestLedger_Reset(t *testing.T) {
	l := NewLedger(decimal.NewFromInt(10000), decimal.NewFromInt(7000))

	l.Reset()
	snap := l.Snapshot()
	assert.True(t, snap.Spent.IsZero())
	assert.True(t, snap.Remaining.Equal(decimal.NewFromInt(10000)))
}

func TestLedger_ConcurrentCommitsNeverExceedCeiling(t *testing.T) {
	l := NewLedger(decimal.NewFromInt(100), decimal.Zero)

	var wg sync.WaitGroup
	successes := make(chan struct{}, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Commit(decimal.NewFromInt(1)); err == nil {
				successes <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(successes)

	count := 0
	for range successes {
		count++
	}
	assert.Equal(t, 100, count)
	assert.True(t, l.Snapshot().Spent.Equal(decimal.NewFromInt(100)))
}
