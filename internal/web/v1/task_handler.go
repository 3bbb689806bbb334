package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/task-service/internal/core/domain"
	"github.com/duynhne/task-service/middleware"
)

// CreateTask handles POST /tasks.
func (h *Handler) CreateTask(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.create_task", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	var req domain.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.CreateTask(ctx, req)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Task creation failed")
		respondError(c, err)
		return
	}

	zerolog.Ctx(ctx).Info().Str("task_id", task.ID).Msg("Task created")
	c.JSON(http.StatusCreated, task)
}

// GetAllTasks handles GET /tasks.
func (h *Handler) GetAllTasks(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.list_tasks", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	tasks, err := h.tasks.GetAllTasks(ctx)
	if err != nil {
		span.RecordError(err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTasksByUser handles GET /tasks/user/:owner_id.
func (h *Handler) GetTasksByUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.list_user_tasks", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	tasks, err := h.tasks.GetTasksByUser(ctx, c.Param("owner_id"))
	if err != nil {
		span.RecordError(err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTask handles GET /tasks/:id.
func (h *Handler) GetTask(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.get_task", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	task, err := h.tasks.GetTaskByID(ctx, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/:id.
func (h *Handler) UpdateTask(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.update_task", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	var req domain.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.UpdateTask(ctx, c.Param("id"), req)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Task update failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ToggleTask handles PATCH /tasks/:id/toggle.
func (h *Handler) ToggleTask(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.toggle_task", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	task, err := h.tasks.ToggleTaskComplete(ctx, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Task toggle failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/:id.
func (h *Handler) DeleteTask(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.delete_task", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	confirmation, err := h.tasks.DeleteTask(ctx, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Task delete failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, confirmation)
}
