package domain

import (
	"context"
	"errors"
)

// Contract errors returned by Store implementations. The Logic layer
// classifies store failures with errors.Is against these, never against
// driver types.
var (
	// ErrNoRows indicates a single-row operation (insert/update/toggle)
	// produced no row, e.g. an update whose filter matched nothing.
	ErrNoRows = errors.New("store: no rows returned")

	// ErrConflict indicates the store rejected a write for violating a
	// uniqueness constraint.
	ErrConflict = errors.New("store: uniqueness violation")
)

// Row is a single database row as returned by the data access layer,
// keyed by column name.
type Row map[string]any

// Filter maps column names to required equality values. An empty Filter
// matches every row.
type Filter map[string]any

// Values maps column names to the values written by an insert or update.
type Values map[string]any

// Store defines the generic data-access contract used by the Logic layer.
// The implementation lives in internal/core/dao (Core layer) and builds
// parameterized SQL against a fixed set of known tables and columns.
// The Logic layer depends on this interface only — never on SQL or pgx
// directly.
type Store interface {
	// Select returns every row of table matching filter, in store order.
	// No matches yields an empty slice, not an error.
	Select(ctx context.Context, table string, filter Filter) ([]Row, error)

	// Insert adds one row and returns it as the store computed it,
	// including generated identifiers and column defaults.
	Insert(ctx context.Context, table string, values Values) (Row, error)

	// Update applies values to every row matching filter and returns the
	// updated row.
	Update(ctx context.Context, table string, values Values, filter Filter) (Row, error)

	// Delete removes the rows matching filter and reports whether any
	// row was removed.
	Delete(ctx context.Context, table string, filter Filter) (bool, error)

	// ToggleBool atomically inverts a boolean column on the rows matching
	// filter and returns the updated row. This is the race-free variant of
	// a read-then-write toggle: the negation happens inside the statement.
	ToggleBool(ctx context.Context, table, column string, filter Filter) (Row, error)
}
