package v1

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/task-service/internal/core/domain"
	"github.com/duynhne/task-service/middleware"
)

// TaskService implements task business rules over the generic store
// contract. Tasks are scoped to their owning user only through owner_id;
// the service performs no access control of its own.
type TaskService struct {
	store domain.Store

	// atomicToggle selects the single-statement completion toggle. When
	// false the service reads the current value and writes its negation in
	// a second statement, which can lose one of two concurrent toggles.
	atomicToggle bool
}

// NewTaskService creates a new TaskService.
func NewTaskService(store domain.Store, atomicToggle bool) *TaskService {
	return &TaskService{store: store, atomicToggle: atomicToggle}
}

// CreateTask inserts a new task. Owner and title are mandatory, the due
// date defaults to the current time, and the numeric priority is stored in
// its textual form.
func (s *TaskService) CreateTask(ctx context.Context, req domain.CreateTaskRequest) (*domain.Task, error) {
	ctx, span := middleware.StartSpan(ctx, "task.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("task.owner_id", req.OwnerID),
	))
	defer span.End()

	if req.OwnerID == "" || req.Title == "" {
		return nil, fmt.Errorf("owner_id and title are required: %w", ErrValidation)
	}

	dueDate := time.Now()
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	var description any
	if req.Description != nil {
		description = *req.Description
	}

	row, err := s.store.Insert(ctx, "tasks", domain.Values{
		"owner_id":    req.OwnerID,
		"due_date":    dueDate,
		"title":       req.Title,
		"description": description,
		"priority":    formatPriority(req.Priority),
	})
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Task insert failed")
		return nil, fmt.Errorf("create task: %w", ErrInternal)
	}

	task := domain.TaskFromRow(row)
	span.SetAttributes(attribute.String("task.id", task.ID))
	span.AddEvent("task.created")
	return &task, nil
}

// GetTaskByID returns the task with the given id.
func (s *TaskService) GetTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	ctx, span := middleware.StartSpan(ctx, "task.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("task.id", id),
	))
	defer span.End()

	task, err := s.findTask(ctx, id)
	if err != nil {
		span.RecordError(err)
	}
	return task, err
}

// GetTasksByUser returns every task owned by the given user. No matches
// yields an empty slice.
func (s *TaskService) GetTasksByUser(ctx context.Context, ownerID string) ([]domain.Task, error) {
	ctx, span := middleware.StartSpan(ctx, "task.list_by_user", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("task.owner_id", ownerID),
	))
	defer span.End()

	return s.list(ctx, span, domain.Filter{"owner_id": ownerID})
}

// GetAllTasks returns every task in the store.
func (s *TaskService) GetAllTasks(ctx context.Context) ([]domain.Task, error) {
	ctx, span := middleware.StartSpan(ctx, "task.list_all", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	return s.list(ctx, span, domain.Filter{})
}

// UpdateTask applies a partial patch. Only fields present in the patch are
// written; present-but-empty values are applied as given. A patch with no
// applicable fields fails validation.
func (s *TaskService) UpdateTask(ctx context.Context, id string, patch domain.UpdateTaskRequest) (*domain.Task, error) {
	ctx, span := middleware.StartSpan(ctx, "task.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("task.id", id),
	))
	defer span.End()

	if _, err := s.findTask(ctx, id); err != nil {
		span.RecordError(err)
		return nil, err
	}

	values := domain.Values{}
	if patch.DueDate != nil {
		values["due_date"] = *patch.DueDate
	}
	if patch.Title != nil {
		values["title"] = *patch.Title
	}
	if patch.Description != nil {
		values["description"] = *patch.Description
	}
	if patch.Priority != nil {
		values["priority"] = formatPriority(*patch.Priority)
	}
	if patch.Completed != nil {
		values["completed"] = *patch.Completed
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("nothing to update: %w", ErrValidation)
	}

	row, err := s.store.Update(ctx, "tasks", values, domain.Filter{"id": id})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrNoRows) {
			return nil, fmt.Errorf("update task %q: %w", id, ErrTaskNotFound)
		}
		zerolog.Ctx(ctx).Error().Err(err).Msg("Task update failed")
		return nil, fmt.Errorf("update task: %w", ErrInternal)
	}

	task := domain.TaskFromRow(row)
	return &task, nil
}

// DeleteTask removes the task with the given id.
func (s *TaskService) DeleteTask(ctx context.Context, id string) (*domain.DeleteResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "task.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("task.id", id),
	))
	defer span.End()

	if _, err := s.findTask(ctx, id); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if _, err := s.store.Delete(ctx, "tasks", domain.Filter{"id": id}); err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Task delete failed")
		return nil, fmt.Errorf("delete task: %w", ErrInternal)
	}

	span.AddEvent("task.deleted")
	return &domain.DeleteResponse{Message: "task deleted"}, nil
}

// ToggleTaskComplete flips the task's completed flag and returns the
// updated task.
func (s *TaskService) ToggleTaskComplete(ctx context.Context, id string) (*domain.Task, error) {
	ctx, span := middleware.StartSpan(ctx, "task.toggle", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("task.id", id),
	))
	defer span.End()

	var (
		row domain.Row
		err error
	)
	if s.atomicToggle {
		row, err = s.store.ToggleBool(ctx, "tasks", "completed", domain.Filter{"id": id})
	} else {
		var current *domain.Task
		current, err = s.findTask(ctx, id)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		row, err = s.store.Update(ctx, "tasks",
			domain.Values{"completed": !current.Completed},
			domain.Filter{"id": id},
		)
	}
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrNoRows) {
			return nil, fmt.Errorf("toggle task %q: %w", id, ErrTaskNotFound)
		}
		zerolog.Ctx(ctx).Error().Err(err).Msg("Task toggle failed")
		return nil, fmt.Errorf("toggle task: %w", ErrInternal)
	}

	task := domain.TaskFromRow(row)
	span.SetAttributes(attribute.Bool("task.completed", task.Completed))
	return &task, nil
}

func (s *TaskService) list(ctx context.Context, span trace.Span, filter domain.Filter) ([]domain.Task, error) {
	rows, err := s.store.Select(ctx, "tasks", filter)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Task query failed")
		return nil, fmt.Errorf("list tasks: %w", ErrInternal)
	}
	tasks := make([]domain.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, domain.TaskFromRow(r))
	}
	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks, nil
}

func (s *TaskService) findTask(ctx context.Context, id string) (*domain.Task, error) {
	rows, err := s.store.Select(ctx, "tasks", domain.Filter{"id": id})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Task lookup failed")
		return nil, fmt.Errorf("find task: %w", ErrInternal)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("find task %q: %w", id, ErrTaskNotFound)
	}
	task := domain.TaskFromRow(rows[0])
	return &task, nil
}

// formatPriority renders the boundary's numeric priority in its canonical
// text form: whole numbers without a trailing ".0".
func formatPriority(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
