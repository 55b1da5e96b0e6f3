package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeWriter(capacity int, sizes *[]int) *BatchWriter {
	return &BatchWriter{
		cap: capacity,
		commitFn: func(ctx context.Context, ops []op) error {
			*sizes = append(*sizes, len(ops))
			return nil
		},
	}
}

func TestBatchWriterCommitsAtCap(t *testing.T) {
	var sizes []int
	w := fakeWriter(3, &sizes)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		require.NoError(t, w.Set(ctx, nil, map[string]interface{}{"i": i}))
	}
	require.NoError(t, w.Flush(ctx))

	assert.Equal(t, []int{3, 3, 1}, sizes)
	assert.Equal(t, 7, w.Ops())
	assert.Equal(t, 3, w.Commits())
}

func TestBatchWriterExactMultiple(t *testing.T) {
	var sizes []int
	w := fakeWriter(3, &sizes)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		require.NoError(t, w.Delete(ctx, nil))
	}
	require.NoError(t, w.Flush(ctx))

	// No empty trailing commit.
	assert.Equal(t, []int{3, 3}, sizes)
	assert.Equal(t, 2, w.Commits())
}

func TestBatchWriterFlushEmpty(t *testing.T) {
	var sizes []int
	w := fakeWriter(3, &sizes)

	require.NoError(t, w.Flush(context.Background()))
	assert.Empty(t, sizes)
	assert.Equal(t, 0, w.Commits())
}

func TestBatchWriterCommitError(t *testing.T) {
	commitErr := errors.New("deadline exceeded")
	w := &BatchWriter{
		cap: 2,
		commitFn: func(ctx context.Context, ops []op) error {
			return commitErr
		},
	}
	ctx := context.Background()

	require.NoError(t, w.Set(ctx, nil, nil))
	err := w.Set(ctx, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, commitErr)
	assert.Equal(t, 0, w.Commits())
}

func TestNewBatchWriterClampsCap(t *testing.T) {
	c := &Client{}
	assert.Equal(t, MaxBatchOps, NewBatchWriter(c, 0).cap)
	assert.Equal(t, MaxBatchOps, NewBatchWriter(c, 9999).cap)
	assert.Equal(t, 300, NewBatchWriter(c, 300).cap)
}
