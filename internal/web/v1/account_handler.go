// Package v1 exposes the HTTP surface for API version 1. Handlers bind
// and validate request bodies, call the Logic layer, and map sentinel
// errors to HTTP status codes. Dependencies are injected via the
// constructor — no global state.
package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/task-service/internal/core/domain"
	logicv1 "github.com/duynhne/task-service/internal/logic/v1"
	"github.com/duynhne/task-service/middleware"
)

// Handler groups the HTTP handlers for API v1.
type Handler struct {
	accounts *logicv1.AccountService
	tasks    *logicv1.TaskService
}

// NewHandler creates a new Handler with the given services.
func NewHandler(accounts *logicv1.AccountService, tasks *logicv1.TaskService) *Handler {
	return &Handler{accounts: accounts, tasks: tasks}
}

// RegisterRoutes registers all API v1 routes on the given router group.
// authGuard protects every route that requires an authenticated caller.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authGuard gin.HandlerFunc) {
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/register", h.Register)
	rg.GET("/auth/:id", authGuard, h.GetUser)
	rg.PUT("/auth/:id", authGuard, h.UpdateUser)
	rg.DELETE("/auth/:id", authGuard, h.DeleteUser)

	tasks := rg.Group("/tasks", authGuard)
	tasks.POST("", h.CreateTask)
	tasks.GET("", h.GetAllTasks)
	tasks.GET("/user/:owner_id", h.GetTasksByUser)
	tasks.GET("/:id", h.GetTask)
	tasks.PUT("/:id", h.UpdateTask)
	tasks.PATCH("/:id/toggle", h.ToggleTask)
	tasks.DELETE("/:id", h.DeleteTask)
}

// respondError maps a Logic-layer sentinel error to its HTTP status. The
// response carries only the sentinel's message; wrapped detail stays in
// the logs.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, logicv1.ErrValidation):
		status, message = http.StatusBadRequest, logicv1.ErrValidation.Error()
	case errors.Is(err, logicv1.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, logicv1.ErrInvalidToken):
		status, message = http.StatusUnauthorized, "Invalid or expired token"
	case errors.Is(err, logicv1.ErrUserNotFound):
		status, message = http.StatusNotFound, logicv1.ErrUserNotFound.Error()
	case errors.Is(err, logicv1.ErrTaskNotFound):
		status, message = http.StatusNotFound, logicv1.ErrTaskNotFound.Error()
	case errors.Is(err, logicv1.ErrEmailTaken):
		status, message = http.StatusConflict, logicv1.ErrEmailTaken.Error()
	}

	c.JSON(status, gin.H{"error": message})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.login", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	var req domain.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Login failed")
		respondError(c, err)
		return
	}

	zerolog.Ctx(ctx).Info().Str("user_id", response.UserID).Msg("Login successful")
	c.JSON(http.StatusOK, response)
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.register", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	var req domain.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.Register(ctx, req.Email, req.Password)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Registration failed")
		respondError(c, err)
		return
	}

	zerolog.Ctx(ctx).Info().Str("user_id", user.ID).Msg("Registration successful")
	c.JSON(http.StatusCreated, user)
}

// GetUser handles GET /auth/:id.
func (h *Handler) GetUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.get_user", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	user, err := h.accounts.GetUserByID(ctx, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser handles PUT /auth/:id.
func (h *Handler) UpdateUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.update_user", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	var req domain.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.UpdateUser(ctx, c.Param("id"), req)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Warn().Err(err).Msg("User update failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /auth/:id.
func (h *Handler) DeleteUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.delete_user", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	confirmation, err := h.accounts.DeleteUser(ctx, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Warn().Err(err).Msg("User delete failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, confirmation)
}
