package dao

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/task-service/internal/core/domain"
)

// --- fakes ---

// fakeRows implements pgx.Rows over canned field descriptions and values.
type fakeRows struct {
	fields []pgconn.FieldDescription
	values [][]any
	idx    int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }
func (r *fakeRows) Next() bool {
	if r.idx >= len(r.values) {
		return false
	}
	r.idx++
	return true
}
// Scan supports the RowScanner delegation pgx.RowToMap relies on.
func (r *fakeRows) Scan(dest ...any) error {
	if len(dest) == 1 {
		if rs, ok := dest[0].(pgx.RowScanner); ok {
			return rs.ScanRow(r)
		}
	}
	return errors.New("not implemented")
}
func (r *fakeRows) Values() ([]any, error) { return r.values[r.idx-1], nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }

type fakeQuerier struct {
	rows     pgx.Rows
	queryErr error
	execTag  pgconn.CommandTag
	execErr  error

	lastSQL  string
	lastArgs []any
}

func (q *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.lastSQL, q.lastArgs = sql, args
	if q.queryErr != nil {
		return nil, q.queryErr
	}
	return q.rows, nil
}

func (q *fakeQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.lastSQL, q.lastArgs = sql, args
	return q.execTag, q.execErr
}

func emptyRows() *fakeRows { return &fakeRows{} }

// --- builder tests ---

func TestBuildSelect(t *testing.T) {
	t.Run("empty filter omits WHERE", func(t *testing.T) {
		sql, args, err := buildSelect("users", domain.Filter{})
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM users", sql)
		assert.Empty(t, args)
	})

	t.Run("filter columns in sorted order", func(t *testing.T) {
		sql, args, err := buildSelect("tasks", domain.Filter{
			"owner_id":  "u1",
			"completed": true,
		})
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM tasks WHERE completed = $1 AND owner_id = $2", sql)
		assert.Equal(t, []any{true, "u1"}, args)
	})

	t.Run("unknown table rejected", func(t *testing.T) {
		_, _, err := buildSelect("users; DROP TABLE users", domain.Filter{})
		require.ErrorIs(t, err, ErrUnknownTable)
	})

	t.Run("unknown column rejected", func(t *testing.T) {
		_, _, err := buildSelect("users", domain.Filter{"email = '' OR 1=1": "x"})
		require.ErrorIs(t, err, ErrUnknownColumn)
	})
}

func TestBuildInsert(t *testing.T) {
	sql, args, err := buildInsert("users", domain.Values{
		"password_hash": "h",
		"email":         "a@b.c",
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING *", sql)
	assert.Equal(t, []any{"a@b.c", "h"}, args)

	_, _, err = buildInsert("users", domain.Values{})
	require.ErrorIs(t, err, ErrEmptyClause)
}

func TestBuildUpdate(t *testing.T) {
	t.Run("filter params offset past SET params", func(t *testing.T) {
		sql, args, err := buildUpdate("tasks",
			domain.Values{"title": "t", "priority": "3"},
			domain.Filter{"id": "task-1"},
		)
		require.NoError(t, err)
		assert.Equal(t, "UPDATE tasks SET priority = $1, title = $2 WHERE id = $3 RETURNING *", sql)
		assert.Equal(t, []any{"3", "t", "task-1"}, args)
	})

	t.Run("empty values rejected", func(t *testing.T) {
		_, _, err := buildUpdate("tasks", domain.Values{}, domain.Filter{"id": "x"})
		require.ErrorIs(t, err, ErrEmptyClause)
	})

	t.Run("empty filter rejected", func(t *testing.T) {
		_, _, err := buildUpdate("tasks", domain.Values{"title": "t"}, domain.Filter{})
		require.ErrorIs(t, err, ErrEmptyClause)
	})
}

func TestBuildDelete(t *testing.T) {
	sql, args, err := buildDelete("tasks", domain.Filter{"id": "task-1"})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM tasks WHERE id = $1", sql)
	assert.Equal(t, []any{"task-1"}, args)

	_, _, err = buildDelete("tasks", domain.Filter{})
	require.ErrorIs(t, err, ErrEmptyClause)
}

func TestBuildToggle(t *testing.T) {
	sql, args, err := buildToggle("tasks", "completed", domain.Filter{"id": "task-1"})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE tasks SET completed = NOT completed WHERE id = $1 RETURNING *", sql)
	assert.Equal(t, []any{"task-1"}, args)

	_, _, err = buildToggle("tasks", "nope", domain.Filter{"id": "x"})
	require.ErrorIs(t, err, ErrUnknownColumn)
}

// --- executor tests ---

func TestSelect_EmptyResultIsNotAnError(t *testing.T) {
	q := &fakeQuerier{rows: emptyRows()}
	d := New(q)

	rows, err := d.Select(context.Background(), "users", domain.Filter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSelect_PropagatesExecutorError(t *testing.T) {
	boom := errors.New("connection refused")
	q := &fakeQuerier{queryErr: boom}
	d := New(q)

	rows, err := d.Select(context.Background(), "users", domain.Filter{"email": "a@b.c"})
	require.Error(t, err)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, rows)
}

func TestSelect_DecodesRows(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{
		fields: []pgconn.FieldDescription{{Name: "id"}, {Name: "email"}},
		values: [][]any{{"u1", "a@b.c"}},
	}}
	d := New(q)

	rows, err := d.Select(context.Background(), "users", domain.Filter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "u1", rows[0].String("id"))
	assert.Equal(t, "a@b.c", rows[0].String("email"))
}

func TestInsert_MapsUniqueViolationToConflict(t *testing.T) {
	q := &fakeQuerier{queryErr: &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}}
	d := New(q)

	_, err := d.Insert(context.Background(), "users", domain.Values{
		"email":         "a@b.c",
		"password_hash": "h",
	})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdate_NoMatchYieldsErrNoRows(t *testing.T) {
	q := &fakeQuerier{rows: emptyRows()}
	d := New(q)

	_, err := d.Update(context.Background(), "tasks",
		domain.Values{"title": "t"},
		domain.Filter{"id": "missing"},
	)
	require.ErrorIs(t, err, domain.ErrNoRows)
}

func TestDelete_ReportsRowsAffected(t *testing.T) {
	q := &fakeQuerier{execTag: pgconn.NewCommandTag("DELETE 1")}
	d := New(q)

	ok, err := d.Delete(context.Background(), "tasks", domain.Filter{"id": "task-1"})
	require.NoError(t, err)
	assert.True(t, ok)

	q.execTag = pgconn.NewCommandTag("DELETE 0")
	ok, err = d.Delete(context.Background(), "tasks", domain.Filter{"id": "task-1"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete_PropagatesExecutorError(t *testing.T) {
	boom := errors.New("deadlock detected")
	q := &fakeQuerier{execErr: boom}
	d := New(q)

	_, err := d.Delete(context.Background(), "tasks", domain.Filter{"id": "task-1"})
	require.ErrorIs(t, err, boom)
}
