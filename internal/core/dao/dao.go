// Package dao implements the generic data access layer: it translates
// select/insert/update/delete intents into parameterized SQL and executes
// them against a pgx connection pool. Identifiers (tables and columns) are
// restricted to a fixed registry checked before any SQL is assembled; only
// values are ever bound as statement parameters.
package dao

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/duynhne/task-service/internal/core/domain"
)

// Querier is the subset of pgxpool.Pool the DAO needs. Keeping it narrow
// lets tests substitute a fake executor.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var (
	// ErrUnknownTable indicates the table name is not in the registry.
	ErrUnknownTable = errors.New("dao: unknown table")

	// ErrUnknownColumn indicates a column name is not in the registry.
	ErrUnknownColumn = errors.New("dao: unknown column")

	// ErrEmptyClause indicates an operation that requires columns
	// (update values, delete/update/toggle filters) received none.
	ErrEmptyClause = errors.New("dao: empty column set")
)

// registry of known tables and their columns. SQL is only ever assembled
// from identifiers present here, which closes off identifier injection at
// the builder level.
var registry = map[string]map[string]bool{
	"users": columnSet("id", "email", "password_hash"),
	"tasks": columnSet("id", "owner_id", "due_date", "title", "description", "priority", "completed"),
}

func columnSet(cols ...string) map[string]bool {
	s := make(map[string]bool, len(cols))
	for _, c := range cols {
		s[c] = true
	}
	return s
}

// DAO executes generic CRUD over the registered tables.
type DAO struct {
	db Querier
}

// New creates a DAO on top of the given executor (normally *pgxpool.Pool).
func New(db Querier) *DAO {
	return &DAO{db: db}
}

// Select returns every row of table matching filter. An empty filter
// selects the whole table. No matches yields an empty slice: absence is
// not an error, but executor failures always propagate.
func (d *DAO) Select(ctx context.Context, table string, filter domain.Filter) ([]domain.Row, error) {
	sql, args, err := buildSelect(table, filter)
	if err != nil {
		return nil, err
	}
	return d.query(ctx, sql, args)
}

// Insert adds one row and returns it as the store computed it, including
// the generated identifier and column defaults.
func (d *DAO) Insert(ctx context.Context, table string, values domain.Values) (domain.Row, error) {
	sql, args, err := buildInsert(table, values)
	if err != nil {
		return nil, err
	}
	return d.queryOne(ctx, sql, args)
}

// Update applies values to the rows matching filter and returns the
// updated row. A filter matching nothing yields ErrNoRows.
func (d *DAO) Update(ctx context.Context, table string, values domain.Values, filter domain.Filter) (domain.Row, error) {
	sql, args, err := buildUpdate(table, values, filter)
	if err != nil {
		return nil, err
	}
	return d.queryOne(ctx, sql, args)
}

// Delete removes the rows matching filter and reports whether any row was
// removed.
func (d *DAO) Delete(ctx context.Context, table string, filter domain.Filter) (bool, error) {
	sql, args, err := buildDelete(table, filter)
	if err != nil {
		return false, err
	}
	tag, err := d.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("dao: delete from %s: %w", table, classify(err))
	}
	return tag.RowsAffected() > 0, nil
}

// ToggleBool inverts a boolean column inside a single statement, so two
// concurrent toggles on the same row cannot lose an inversion.
func (d *DAO) ToggleBool(ctx context.Context, table, column string, filter domain.Filter) (domain.Row, error) {
	sql, args, err := buildToggle(table, column, filter)
	if err != nil {
		return nil, err
	}
	return d.queryOne(ctx, sql, args)
}

func (d *DAO) query(ctx context.Context, sql string, args []any) ([]domain.Row, error) {
	rows, err := d.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("dao: query: %w", classify(err))
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Row, error) {
		m, err := pgx.RowToMap(row)
		return domain.Row(m), err
	})
	if err != nil {
		return nil, fmt.Errorf("dao: collect rows: %w", classify(err))
	}
	return out, nil
}

func (d *DAO) queryOne(ctx context.Context, sql string, args []any) (domain.Row, error) {
	rows, err := d.query(ctx, sql, args)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrNoRows
	}
	return rows[0], nil
}

// classify maps driver errors onto the Store contract errors so callers
// never depend on pgx types.
func classify(err error) error {
	var pgErr *pgconn.PgError
	// 23505 = unique_violation
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	}
	return err
}

// --- statement builders ---

func buildSelect(table string, filter domain.Filter) (string, []any, error) {
	if err := checkTable(table); err != nil {
		return "", nil, err
	}
	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(table)

	args := make([]any, 0, len(filter))
	if len(filter) > 0 {
		where, whereArgs, err := buildWhere(table, filter, 0)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
		args = append(args, whereArgs...)
	}
	return sb.String(), args, nil
}

func buildInsert(table string, values domain.Values) (string, []any, error) {
	if err := checkTable(table); err != nil {
		return "", nil, err
	}
	cols, args, err := orderedColumns(table, map[string]any(values))
	if err != nil {
		return "", nil, err
	}
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("insert into %s: %w", table, ErrEmptyClause)
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)
	return sql, args, nil
}

func buildUpdate(table string, values domain.Values, filter domain.Filter) (string, []any, error) {
	if err := checkTable(table); err != nil {
		return "", nil, err
	}
	cols, args, err := orderedColumns(table, map[string]any(values))
	if err != nil {
		return "", nil, err
	}
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("update %s: %w", table, ErrEmptyClause)
	}
	if len(filter) == 0 {
		return "", nil, fmt.Errorf("update %s without filter: %w", table, ErrEmptyClause)
	}

	set := make([]string, len(cols))
	for i, c := range cols {
		set[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}

	// Filter parameters are offset past the SET parameters.
	where, whereArgs, err := buildWhere(table, filter, len(cols))
	if err != nil {
		return "", nil, err
	}
	args = append(args, whereArgs...)

	sql := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s RETURNING *",
		table, strings.Join(set, ", "), where,
	)
	return sql, args, nil
}

func buildDelete(table string, filter domain.Filter) (string, []any, error) {
	if err := checkTable(table); err != nil {
		return "", nil, err
	}
	if len(filter) == 0 {
		return "", nil, fmt.Errorf("delete from %s without filter: %w", table, ErrEmptyClause)
	}
	where, args, err := buildWhere(table, filter, 0)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s", table, where), args, nil
}

func buildToggle(table, column string, filter domain.Filter) (string, []any, error) {
	if err := checkTable(table); err != nil {
		return "", nil, err
	}
	if err := checkColumn(table, column); err != nil {
		return "", nil, err
	}
	if len(filter) == 0 {
		return "", nil, fmt.Errorf("toggle %s.%s without filter: %w", table, column, ErrEmptyClause)
	}
	where, args, err := buildWhere(table, filter, 0)
	if err != nil {
		return "", nil, err
	}
	sql := fmt.Sprintf(
		"UPDATE %s SET %s = NOT %s WHERE %s RETURNING *",
		table, column, column, where,
	)
	return sql, args, nil
}

// buildWhere assembles the conjunctive equality clause with parameter
// indices starting after offset.
func buildWhere(table string, filter domain.Filter, offset int) (string, []any, error) {
	cols, args, err := orderedColumns(table, map[string]any(filter))
	if err != nil {
		return "", nil, err
	}
	conds := make([]string, len(cols))
	for i, c := range cols {
		conds[i] = fmt.Sprintf("%s = $%d", c, offset+i+1)
	}
	return strings.Join(conds, " AND "), args, nil
}

// orderedColumns validates every column against the registry and returns
// the columns with their values in sorted key order, which keeps the
// generated SQL deterministic across map iterations.
func orderedColumns(table string, m map[string]any) ([]string, []any, error) {
	cols := make([]string, 0, len(m))
	for c := range m {
		if err := checkColumn(table, c); err != nil {
			return nil, nil, err
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = m[c]
	}
	return cols, args, nil
}

func checkTable(table string) error {
	if _, ok := registry[table]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return nil
}

func checkColumn(table, column string) error {
	if !registry[table][column] {
		return fmt.Errorf("%w: %q.%q", ErrUnknownColumn, table, column)
	}
	return nil
}
