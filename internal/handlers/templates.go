package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/syncscript/backend/internal/auth"
	"example.com/syncscript/backend/internal/models"
	"example.com/syncscript/backend/internal/repository"
	"example.com/syncscript/backend/internal/tags"
)

type TemplateHandler struct {
	Templates *repository.TemplateRepository
}

// NewTemplateHandler создает обработчик шаблонов задач.
func NewTemplateHandler(templates *repository.TemplateRepository) *TemplateHandler {
	return &TemplateHandler{Templates: templates}
}

type TemplateRequest struct {
	Name              string `json:"name" validate:"required,max=100"`
	Title             string `json:"title" validate:"required,max=200"`
	Priority          int    `json:"priority" validate:"min=1,max=5"`
	EnergyRequirement int    `json:"energy_requirement" validate:"min=1,max=5"`
	EstimatedMinutes  *int   `json:"estimated_minutes" validate:"omitempty,min=1"`
	Tags              string `json:"tags" validate:"omitempty,max=500"`
}

type TemplateListResponse struct {
	Templates []models.TaskTemplate `json:"templates"`
}

// List возвращает шаблоны пользователя.
func (h *TemplateHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	templates, err := h.Templates.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, TemplateListResponse{Templates: templates})
}

// Create создает шаблон задачи.
func (h *TemplateHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req TemplateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	tpl, err := h.Templates.Create(c.Request().Context(), userID, templateInput(req))
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return conflict(c, "template already exists")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, tpl)
}

// Update обновляет шаблон.
func (h *TemplateHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid template id")
	}

	var req TemplateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	tpl, err := h.Templates.Update(c.Request().Context(), userID, templateID, templateInput(req))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "template not found")
		case errors.Is(err, repository.ErrConflict):
			return conflict(c, "template already exists")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, tpl)
}

// Delete удаляет шаблон.
func (h *TemplateHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid template id")
	}

	if err := h.Templates.Delete(c.Request().Context(), userID, templateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "template not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

func templateInput(req TemplateRequest) repository.TemplateInput {
	return repository.TemplateInput{
		Name:              req.Name,
		Title:             req.Title,
		Priority:          req.Priority,
		EnergyRequirement: req.EnergyRequirement,
		EstimatedMinutes:  req.EstimatedMinutes,
		Tags:              tags.ParseTags(req.Tags),
	}
}
