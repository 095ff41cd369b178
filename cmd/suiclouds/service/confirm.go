package service

import (
	"context"
	"errors"
	"sync"

	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/models"
)

// ErrConfirmationPending is returned when a confirmation is requested while
// another is still outstanding. One request at a time per orchestrator.
var ErrConfirmationPending = errors.New("a confirmation request is already outstanding")

// ErrNoPendingConfirmation is returned when a decision arrives with nobody
// waiting for one.
var ErrNoPendingConfirmation = errors.New("no confirmation request is outstanding")

// Decision is the human's answer to a pending quote. Proceed=false is a
// normal terminal outcome for the item, not an error.
type Decision struct {
	Proceed       bool   `json:"proceed"`
	ChosenTierKey string `json:"chosenTierKey,omitempty"`
}

// ConfirmationBridge suspends a batch step until a human decision arrives,
// without blocking unrelated work. Single-slot: the deferred value resolves
// exactly once, and a second Request before that is a usage error.
type ConfirmationBridge struct {
	mu    sync.Mutex
	slot  chan Decision
	quote *models.PriceQuote
}

// NewConfirmationBridge creates an empty bridge
func NewConfirmationBridge() *ConfirmationBridge {
	return &ConfirmationBridge{}
}

// Request presents the quote and blocks until Resolve supplies a decision
// or the context ends.
func (b *ConfirmationBridge) Request(ctx context.Context, quote *models.PriceQuote) (Decision, error) {
	b.mu.Lock()
	if b.slot != nil {
		b.mu.Unlock()
		return Decision{}, ErrConfirmationPending
	}
	ch := make(chan Decision, 1)
	b.slot = ch
	b.quote = quote
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		if b.slot == ch {
			b.slot = nil
			b.quote = nil
		}
		b.mu.Unlock()
	}()

	select {
	case decision := <-ch:
		return decision, nil
	case <-ctx.Done():
		return Decision{}, ctx.Err()
	}
}

// Resolve delivers the human decision to the waiting requester
func (b *ConfirmationBridge) Resolve(decision Decision) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.slot == nil {
		return ErrNoPendingConfirmation
	}

	// Buffered; the waiter may have left on context cancellation
	b.slot <- decision
	b.slot = nil
	b.quote = nil
	return nil
}

// Pending returns the quote currently awaiting a decision, if any
func (b *ConfirmationBridge) Pending() *models.PriceQuote {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.quote
}
