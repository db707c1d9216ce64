package docstore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"festreg/internal/domain"
)

func mapReader(docs map[domain.DocRef]string, versions map[domain.DocRef]int64) Reader {
	return func(ref domain.DocRef) ([]byte, int64, bool, error) {
		data, ok := docs[ref]
		if !ok {
			return nil, 0, false, nil
		}
		return []byte(data), versions[ref], true, nil
	}
}

func TestTx_GetRecordsVersions(t *testing.T) {
	counter := domain.UserChestCounterRef()
	user := domain.UserRef("u1")
	tx := NewTx(mapReader(
		map[domain.DocRef]string{counter: `{"count":7}`},
		map[domain.DocRef]int64{counter: 42},
	))

	var c domain.Counter
	found, err := tx.Get(counter, &c)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 7, c.Count)

	found, err = tx.Get(user, &domain.UserProfile{})
	require.NoError(t, err)
	require.False(t, found)

	assert.Equal(t, []ReadEntry{{Ref: counter, Version: 42}, {Ref: user, Version: 0}}, tx.Reads())
	assert.True(t, tx.ObservedAbsent(user))
	assert.False(t, tx.ObservedAbsent(counter))
	assert.False(t, tx.ObservedAbsent(domain.TeamRef("never-read")))
}

func TestTx_ReadAfterWrite(t *testing.T) {
	tx := NewTx(mapReader(nil, nil))
	require.NoError(t, tx.Set(domain.UserRef("u1"), domain.UserProfile{ChestNo: "001"}))
	_, err := tx.Get(domain.UserRef("u2"), &domain.UserProfile{})
	require.ErrorIs(t, err, domain.ErrReadAfterWrite)
}

func TestTx_BuffersWritesInOrder(t *testing.T) {
	tx := NewTx(mapReader(nil, nil))
	require.NoError(t, tx.Set(domain.UserChestCounterRef(), domain.Counter{Count: 1}))
	require.NoError(t, tx.Merge(domain.UserRef("u1"), map[string]any{"chestNo": "001"}))
	require.NoError(t, tx.Delete(domain.TeamRef("t1")))

	ops := tx.Ops()
	require.Len(t, ops, 3)
	assert.Equal(t, OpSet, ops[0].Kind)
	assert.JSONEq(t, `{"count":1}`, string(ops[0].Data))
	assert.Equal(t, OpMerge, ops[1].Kind)
	assert.JSONEq(t, `{"chestNo":"001"}`, string(ops[1].Data))
	assert.Equal(t, OpDelete, ops[2].Kind)
	assert.Equal(t, domain.TeamRef("t1"), ops[2].Ref)
}

func TestTx_ReaderError(t *testing.T) {
	tx := NewTx(func(domain.DocRef) ([]byte, int64, bool, error) {
		return nil, 0, false, errors.New("connection reset")
	})
	_, err := tx.Get(domain.UserRef("u1"), nil)
	require.ErrorContains(t, err, "connection reset")
}

func TestRunWithRetry(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		failures     int
		failWith     error
		maxAttempts  int
		wantAttempts int
		wantErr      error
	}{
		{name: "first attempt succeeds", maxAttempts: 5, wantAttempts: 1},
		{name: "conflicts then succeeds", failures: 2, failWith: domain.ErrTransactionConflict, maxAttempts: 5, wantAttempts: 3},
		{name: "conflicts exhaust budget", failures: 10, failWith: domain.ErrTransactionConflict, maxAttempts: 3, wantAttempts: 3, wantErr: domain.ErrTransactionConflict},
		{name: "other errors are not retried", failures: 10, failWith: domain.ErrNotFound, maxAttempts: 5, wantAttempts: 1, wantErr: domain.ErrNotFound},
		{name: "zero budget uses default", failures: 10, failWith: domain.ErrTransactionConflict, maxAttempts: 0, wantAttempts: DefaultMaxAttempts, wantErr: domain.ErrTransactionConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RunWithRetry(ctx, tt.maxAttempts, nil, func(ctx context.Context, attempt int) error {
				calls++
				require.Equal(t, calls, attempt)
				if calls <= tt.failures {
					return fmt.Errorf("commit: %w", tt.failWith)
				}
				return nil
			})
			assert.Equal(t, tt.wantAttempts, calls)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRunWithRetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := RunWithRetry(ctx, 3, nil, func(context.Context, int) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
