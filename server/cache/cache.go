// Package cache persists built automata keyed by their source formula text
// and display variable order, so the server can skip re-parsing and
// re-building a formula it has already compiled: a narrow Store interface
// with an in-memory implementation and a modernc.org/sqlite-backed
// implementation for state that should survive a server restart.
package cache

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no cached automaton exists for the
// given key.
var ErrNotFound = errors.New("no cached automaton for this key")

// Key identifies one cached automaton build.
type Key struct {
	// FormulaText is the exact (pre-macro-expansion) source text submitted.
	FormulaText string
	// Order is the display variable order the automaton was built/aligned
	// for. Two requests for the same formula with different display orders
	// are cached separately, since alignment changes the automaton.
	Order []string
}

// Store persists and retrieves encoded automata by Key. Implementations
// store the bytes produced by presburger.EncodeCache and return them
// unmodified from Get; callers are responsible for calling
// presburger.DecodeCache on the result.
type Store interface {
	Get(ctx context.Context, key Key) ([]byte, error)
	Put(ctx context.Context, key Key, encoded []byte) error
	Close() error
}
