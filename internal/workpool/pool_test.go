package workpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSize_IsPositiveAndCapped(t *testing.T) {
	s := Size()
	assert.GreaterOrEqual(t, s, 1)
	assert.LessOrEqual(t, s, 32)
}

func TestRun_InvokesFnForEveryItem(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	var count int64

	err := Run(context.Background(), items, func(_ context.Context, _ int) error {
		atomic.AddInt64(&count, 1)
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, len(items), count)
}

func TestRun_PropagatesFirstError(t *testing.T) {
	items := []int{1, 2, 3}
	boom := errors.New("boom")

	err := Run(context.Background(), items, func(_ context.Context, i int) error {
		if i == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestRun_EmptyItemsIsNoop(t *testing.T) {
	err := Run[int](context.Background(), nil, func(_ context.Context, _ int) error {
		t.Fatal("fn should not be called")
		return nil
	})
	assert.NoError(t, err)
}
