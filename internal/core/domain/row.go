package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// String returns the named column as a string. UUID columns come back from
// pgx as raw 16-byte arrays, so those are formatted into their canonical
// text form. A missing or NULL column yields "".
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case [16]byte:
		return uuid.UUID(v).String()
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns the named column as a bool, defaulting to false for
// missing or NULL values.
func (r Row) Bool(col string) bool {
	v, _ := r[col].(bool)
	return v
}

// Time returns the named column as a time.Time, zero when missing or NULL.
func (r Row) Time(col string) time.Time {
	v, _ := r[col].(time.Time)
	return v
}
