package domain

import "time"

// Task is a single task record owned by a user. Priority is stored as
// text: the boundary accepts it as a number and the Logic layer coerces it
// to its string form before persisting.
type Task struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	DueDate     time.Time `json:"due_date"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Completed   bool      `json:"completed"`
}

// TaskFromRow decodes a tasks-table row into a Task.
func TaskFromRow(r Row) Task {
	return Task{
		ID:          r.String("id"),
		OwnerID:     r.String("owner_id"),
		DueDate:     r.Time("due_date"),
		Title:       r.String("title"),
		Description: r.String("description"),
		Priority:    r.String("priority"),
		Completed:   r.Bool("completed"),
	}
}

// CreateTaskRequest carries the fields for task creation. DueDate defaults
// to the current time when absent.
type CreateTaskRequest struct {
	OwnerID     string     `json:"owner_id" binding:"required"`
	DueDate     *time.Time `json:"due_date"`
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description"`
	Priority    float64    `json:"priority"`
}

// UpdateTaskRequest is a partial task patch. Nil fields are absent and
// skipped; present fields are applied, including explicit empty values.
type UpdateTaskRequest struct {
	DueDate     *time.Time `json:"due_date"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *float64   `json:"priority"`
	Completed   *bool      `json:"completed"`
}
