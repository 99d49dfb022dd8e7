package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/syncscript/backend/internal/auth"
	"example.com/syncscript/backend/internal/events"
	"example.com/syncscript/backend/internal/models"
	"example.com/syncscript/backend/internal/notifications"
	"example.com/syncscript/backend/internal/repository"
)

type GoalHandler struct {
	Goals  *repository.GoalRepository
	Hub    *notifications.Hub
	Events *events.Publisher
}

// NewGoalHandler создает обработчик целей накоплений.
func NewGoalHandler(goals *repository.GoalRepository, hub *notifications.Hub, publisher *events.Publisher) *GoalHandler {
	return &GoalHandler{Goals: goals, Hub: hub, Events: publisher}
}

type GoalRequest struct {
	Name        string     `json:"name" validate:"required,max=100"`
	Icon        string     `json:"icon" validate:"omitempty,max=20"`
	Color       string     `json:"color" validate:"omitempty,hexcolor"`
	Category    string     `json:"category" validate:"required,oneof=emergency travel purchase other"`
	TargetCents int64      `json:"target_cents" validate:"min=1"`
	Deadline    *time.Time `json:"deadline"`
}

type GoalProgressRequest struct {
	AmountCents int64 `json:"amount_cents" validate:"min=1"`
}

type GoalListResponse struct {
	Goals []models.SavingsGoal `json:"goals"`
}

// List возвращает цели пользователя.
func (h *GoalHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	goals, err := h.Goals.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, GoalListResponse{Goals: goals})
}

// Create создает цель накоплений.
func (h *GoalHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	goal, err := h.Goals.Create(c.Request().Context(), userID, goalInput(req))
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, goal)
}

// Update обновляет параметры цели.
func (h *GoalHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid goal id")
	}

	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	goal, err := h.Goals.Update(c.Request().Context(), userID, goalID, goalInput(req))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "goal not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, goal)
}

// Delete удаляет цель.
func (h *GoalHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid goal id")
	}

	if err := h.Goals.Delete(c.Request().Context(), userID, goalID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "goal not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

// AddProgress пополняет цель; сумма не превышает целевую.
func (h *GoalHandler) AddProgress(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid goal id")
	}

	var req GoalProgressRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	goal, err := h.Goals.AddProgress(c.Request().Context(), userID, goalID, req.AmountCents)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "goal not found")
		case errors.Is(err, repository.ErrGoalCompleted):
			return conflict(c, "goal already completed")
		case errors.Is(err, repository.ErrInvalid):
			return badRequest(c, "amount must be positive")
		}
		return serverError(c)
	}

	if h.Hub != nil {
		h.Hub.Publish(userID, notifications.Event{
			Type: notifications.EventGoalProgress,
			Data: map[string]interface{}{
				"goal_id":       goal.ID.String(),
				"current_cents": goal.CurrentCents,
				"target_cents":  goal.TargetCents,
				"completed":     goal.CurrentCents >= goal.TargetCents,
			},
		})
	}

	h.Events.Publish(c.Request().Context(), events.TypeGoalProgress, userID, map[string]interface{}{
		"goal_id":       goal.ID.String(),
		"current_cents": goal.CurrentCents,
		"target_cents":  goal.TargetCents,
	})

	return c.JSON(http.StatusOK, goal)
}

func goalInput(req GoalRequest) repository.GoalInput {
	icon := req.Icon
	if icon == "" {
		icon = "🎯"
	}

	color := req.Color
	if color == "" {
		color = "#4f46e5"
	}

	return repository.GoalInput{
		Name:        req.Name,
		Icon:        icon,
		Color:       color,
		Category:    models.GoalCategory(req.Category),
		TargetCents: req.TargetCents,
		Deadline:    req.Deadline,
	}
}
