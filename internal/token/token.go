// internal/token/token.go

// Package token provides the bus-access token: the single mutual-exclusion
// right required for any transport call. The fast loop, the slow loop and
// the command executor contend for it; waiters are served in FIFO order so
// a user-issued command is bounded behind at most the in-flight calls
// queued before it.
package token

import "context"

// Token is a one-slot handoff. Goroutines blocked receiving on a channel
// are queued and woken in arrival order, which gives the FIFO grant
// ordering a plain mutex does not guarantee.
type Token struct {
	slot chan struct{}
}

// New returns a released token.
func New() *Token {
	t := &Token{slot: make(chan struct{}, 1)}
	t.slot <- struct{}{}
	return t
}

// Acquire blocks until the token is granted or ctx is done. Holders must
// release immediately after the transport call completes; the token is
// never held across an inter-poll sleep.
func (t *Token) Acquire(ctx context.Context) error {
	select {
	case <-t.slot:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns the token. Must pair with a successful Acquire.
func (t *Token) Release() {
	select {
	case t.slot <- struct{}{}:
	default:
		panic("token: release without acquire")
	}
}
