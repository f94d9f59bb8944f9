// Package store holds the per-user dialog state. Implementations serialize
// mutations per user key while allowing full concurrency across distinct
// users; two in-flight turns for the same user never interleave.
package store

import (
	"context"

	"github.com/dataground/geochat/server/internal/dialog/model"
)

// StateStore is the keyed dialog-state store injected into the engine.
type StateStore interface {
	// Mutate loads the state for userID, creating the default idle state on
	// first contact, runs fn under the per-key lock, and persists the
	// mutated state when fn returns nil.
	Mutate(ctx context.Context, userID string, fn func(*model.ConversationState) error) error

	// Get returns a snapshot of the user's state for read-only use. A user
	// that never sent a message yields the default idle state.
	Get(ctx context.Context, userID string) (*model.ConversationState, error)
}
