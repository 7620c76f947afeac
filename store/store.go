// Package store is the boundary to the shared-document substrate. The rest
// of the system assumes nothing about it beyond the operations below: a
// committed write is observed by subscribers in commit order, Transaction is
// an atomic read-modify-write retried on conflicting concurrent writes, and
// Update is a plain unguarded read-then-write kept only for non-critical
// patches. Every state transition that moves chips or the turn goes through
// Transaction.
package store

import (
	"context"

	"github.com/pkg/errors"

	"cardroom.io/server/game"
)

// ErrNotFound is returned when no document exists for the session code.
var ErrNotFound = errors.New("session document not found")

// ErrDeleteDocument, returned by a transaction function, commits the
// transaction by removing the document instead of writing it back.
var ErrDeleteDocument = errors.New("delete session document")

// Store holds the authoritative session documents.
type Store interface {
	// Get reads the current document.
	Get(ctx context.Context, code string) (*game.Session, error)

	// Set replaces the whole document, creating it if absent.
	Set(ctx context.Context, code string, s *game.Session) error

	// Update applies a patch as a plain read-then-write, with no protection
	// against interleaved writers.
	Update(ctx context.Context, code string, patch func(*game.Session)) error

	// Transaction runs fn against the current document and commits the
	// mutated result atomically, retrying fn from a fresh read whenever a
	// concurrent write lands first. fn must be side-effect free since it can
	// run multiple times. Returning ErrDeleteDocument deletes the document.
	// The committed document is returned on success.
	Transaction(ctx context.Context, code string, fn func(*game.Session) error) (*game.Session, error)

	// Delete removes the document.
	Delete(ctx context.Context, code string) error

	// Subscribe registers a callback invoked with every committed document,
	// in commit order. The returned function cancels the subscription.
	Subscribe(code string, onChange func(*game.Session)) (func(), error)
}
