package locks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedLocker_SameKeyContends(t *testing.T) {
	locker := NewKeyedLocker()

	release, err := locker.Acquire(t.Context(), "doc-1")
	require.NoError(t, err)

	_, err = locker.Acquire(t.Context(), "doc-1")
	assert.ErrorIs(t, err, ErrLockHeld)

	release()

	release2, err := locker.Acquire(t.Context(), "doc-1")
	require.NoError(t, err)
	release2()
}

func TestKeyedLocker_DifferentKeysDoNotContend(t *testing.T) {
	locker := NewKeyedLocker()

	release1, err := locker.Acquire(t.Context(), "doc-1")
	require.NoError(t, err)
	defer release1()

	release2, err := locker.Acquire(t.Context(), "doc-2")
	require.NoError(t, err)
	defer release2()
}

func TestKeyedLocker_SlotCleanup(t *testing.T) {
	locker := NewKeyedLocker()

	release, err := locker.Acquire(t.Context(), "doc-1")
	require.NoError(t, err)
	release()

	locker.mu.Lock()
	defer locker.mu.Unlock()
	assert.Empty(t, locker.slots)
}

func TestKeyedLocker_CancelledContext(t *testing.T) {
	locker := NewKeyedLocker()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := locker.Acquire(ctx, "doc-1")
	assert.ErrorIs(t, err, context.Canceled)
}
