package locks

import (
	"context"
	"sync"
)

// KeyedLocker is an in-process DocumentLocker backed by one slot per
// document identity. Unrelated documents never contend with each other.
type KeyedLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{slots: make(map[string]*slot)}
}

func (l *KeyedLocker) Acquire(ctx context.Context, documentID string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()

	s, ok := l.slots[documentID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[documentID] = s
	}

	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		return func() { l.release(documentID, s) }, nil
	default:
		l.put(documentID, s)

		return nil, ErrLockHeld
	}
}

func (l *KeyedLocker) release(documentID string, s *slot) {
	<-s.ch
	l.put(documentID, s)
}

// put drops one reference and removes the slot once nobody uses it, so the
// map does not grow with every document ever seen.
func (l *KeyedLocker) put(documentID string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, documentID)
	}
}
