// Package locks serializes document mutations. Every engine evaluation must
// hold the lock for its document identity before applying a mutation, so two
// events for the same document never interleave their read-modify-write.
package locks

import (
	"context"
	"errors"
)

// ErrLockHeld is returned by Acquire when another evaluation currently holds
// the document's lock. Callers retry with bounded backoff.
var ErrLockHeld = errors.New("document lock is held")

// DocumentLocker hands out per-document locks. Acquire tries exactly once;
// the returned release function must be called when the mutation is done.
type DocumentLocker interface {
	Acquire(ctx context.Context, documentID string) (release func(), err error)
}
