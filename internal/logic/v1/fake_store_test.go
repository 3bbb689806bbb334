package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/duynhne/task-service/internal/core/domain"
)

// fakeStore is an in-memory domain.Store. It mimics the two store-level
// behaviors the services rely on: the unique email constraint and the
// owner cascade on user deletion. Error fields let tests inject failures.
type fakeStore struct {
	tables map[string]map[string]domain.Row

	selectErr error
	insertErr error
	updateErr error
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: map[string]map[string]domain.Row{
		"users": {},
		"tasks": {},
	}}
}

func cloneRow(r domain.Row) domain.Row {
	out := make(domain.Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func matches(row domain.Row, filter domain.Filter) bool {
	for k, v := range filter {
		if row[k] != v {
			return false
		}
	}
	return true
}

func (f *fakeStore) Select(_ context.Context, table string, filter domain.Filter) ([]domain.Row, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	out := []domain.Row{}
	for _, row := range f.tables[table] {
		if matches(row, filter) {
			out = append(out, cloneRow(row))
		}
	}
	return out, nil
}

func (f *fakeStore) Insert(_ context.Context, table string, values domain.Values) (domain.Row, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	if table == "users" {
		for _, row := range f.tables[table] {
			if row["email"] == values["email"] {
				return nil, domain.ErrConflict
			}
		}
	}
	row := cloneRow(domain.Row(values))
	row["id"] = uuid.NewString()
	if table == "tasks" {
		if _, ok := row["completed"]; !ok {
			row["completed"] = false
		}
	}
	f.tables[table][row["id"].(string)] = row
	return cloneRow(row), nil
}

func (f *fakeStore) Update(_ context.Context, table string, values domain.Values, filter domain.Filter) (domain.Row, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for _, row := range f.tables[table] {
		if matches(row, filter) {
			for k, v := range values {
				row[k] = v
			}
			return cloneRow(row), nil
		}
	}
	return nil, domain.ErrNoRows
}

func (f *fakeStore) Delete(_ context.Context, table string, filter domain.Filter) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	removed := false
	for id, row := range f.tables[table] {
		if matches(row, filter) {
			delete(f.tables[table], id)
			removed = true
			if table == "users" {
				// owner cascade, as the FK does in the real store
				for tid, task := range f.tables["tasks"] {
					if task["owner_id"] == id {
						delete(f.tables["tasks"], tid)
					}
				}
			}
		}
	}
	return removed, nil
}

func (f *fakeStore) ToggleBool(_ context.Context, table, column string, filter domain.Filter) (domain.Row, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for _, row := range f.tables[table] {
		if matches(row, filter) {
			row[column] = !row[column].(bool)
			return cloneRow(row), nil
		}
	}
	return nil, domain.ErrNoRows
}
