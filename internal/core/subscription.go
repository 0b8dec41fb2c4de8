package core

import (
	"context"
	"sync"
)

// Subscription is a live watch started by one of the Subscribe methods.
// Callbacks run on the subscription's goroutine; the caller must call
// Unsubscribe when it no longer needs updates.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

func startSubscription(parent context.Context, run func(ctx context.Context) error) *Subscription {
	ctx, cancel := context.WithCancel(parent)
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(sub.done)
		err := run(ctx)
		sub.mu.Lock()
		sub.err = err
		sub.mu.Unlock()
	}()
	return sub
}

// Unsubscribe stops the watch and waits until no further callback can run.
func (s *Subscription) Unsubscribe() {
	s.cancel()
	<-s.done
}

// Done is closed once the watch has ended, either through Unsubscribe or
// because the store failed.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err returns the error that ended the watch, or nil after a clean
// Unsubscribe. It is meaningful once Done is closed.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
