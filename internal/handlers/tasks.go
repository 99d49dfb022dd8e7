package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/syncscript/backend/internal/auth"
	"example.com/syncscript/backend/internal/events"
	"example.com/syncscript/backend/internal/metrics"
	"example.com/syncscript/backend/internal/models"
	"example.com/syncscript/backend/internal/notifications"
	"example.com/syncscript/backend/internal/repository"
	"example.com/syncscript/backend/internal/tags"
)

type TaskHandler struct {
	Tasks     *repository.TaskRepository
	Templates *repository.TemplateRepository
	Hub       *notifications.Hub
	Events    *events.Publisher
	Metrics   *metrics.Metrics
}

// NewTaskHandler создает обработчик задач.
func NewTaskHandler(tasks *repository.TaskRepository, templates *repository.TemplateRepository, hub *notifications.Hub, publisher *events.Publisher, m *metrics.Metrics) *TaskHandler {
	return &TaskHandler{
		Tasks:     tasks,
		Templates: templates,
		Hub:       hub,
		Events:    publisher,
		Metrics:   m,
	}
}

type TaskRequest struct {
	ProjectID          *uuid.UUID `json:"project_id"`
	Title              string     `json:"title" validate:"required,max=200"`
	Description        *string    `json:"description" validate:"omitempty,max=2000"`
	Priority           int        `json:"priority" validate:"min=1,max=5"`
	EnergyRequirement  int        `json:"energy_requirement" validate:"min=1,max=5"`
	EstimatedMinutes   *int       `json:"estimated_minutes" validate:"omitempty,min=1"`
	EstimatedCostCents *int64     `json:"estimated_cost_cents" validate:"omitempty,min=0"`
	CostCategory       *string    `json:"cost_category" validate:"omitempty,max=50"`
	Location           *string    `json:"location" validate:"omitempty,max=200"`
	RequiresOutdoor    bool       `json:"requires_outdoor"`
	DueDate            *time.Time `json:"due_date"`
	Tags               string     `json:"tags" validate:"omitempty,max=500"`
}

type CompleteRequest struct {
	Completed bool `json:"completed"`
}

type ReorderRequest struct {
	TaskIDs []uuid.UUID `json:"task_ids" validate:"required,min=1"`
}

type SubtaskRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

type TaskFromTemplateRequest struct {
	DueDate *time.Time `json:"due_date"`
}

// TaskResponse отдает задачу с тегами в строковом виде для форм.
type TaskResponse struct {
	models.Task
	TagsString string `json:"tags_string"`
}

type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

func toTaskResponse(task models.Task) TaskResponse {
	return TaskResponse{Task: task, TagsString: tags.TagsToString(task.Tags)}
}

// List возвращает задачи пользователя с фильтрами по статусу, проекту и тегу.
func (h *TaskHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	filter := repository.TaskFilter{}

	if raw := c.QueryParam("status"); raw != "" {
		status := models.TaskStatus(raw)
		if status != models.TaskStatusOpen && status != models.TaskStatusCompleted {
			return badRequest(c, "invalid status")
		}
		filter.Status = &status
	}

	if raw := c.QueryParam("project_id"); raw != "" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "invalid project id")
		}
		filter.ProjectID = &projectID
	}

	if raw := c.QueryParam("tag"); raw != "" {
		tag := tags.Normalize(raw)
		if tag != "" {
			filter.Tag = &tag
		}
	}

	list, err := h.Tasks.ListByUser(c.Request().Context(), userID, filter)
	if err != nil {
		return serverError(c)
	}

	response := TaskListResponse{Tasks: make([]TaskResponse, 0, len(list))}
	for _, task := range list {
		response.Tasks = append(response.Tasks, toTaskResponse(task))
	}

	return c.JSON(http.StatusOK, response)
}

// Get возвращает задачу вместе с чек-листом.
func (h *TaskHandler) Get(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid task id")
	}

	task, err := h.Tasks.GetByID(c.Request().Context(), userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "task not found")
		}
		return serverError(c)
	}

	subtasks, err := h.Tasks.ListSubtasks(c.Request().Context(), userID, taskID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"task":     toTaskResponse(task),
		"subtasks": subtasks,
	})
}

// Create создает задачу.
func (h *TaskHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	task, err := h.Tasks.Create(c.Request().Context(), userID, taskInput(req))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "project not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// Update обновляет задачу.
func (h *TaskHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid task id")
	}

	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	task, err := h.Tasks.Update(c.Request().Context(), userID, taskID, taskInput(req))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "task not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete удаляет задачу.
func (h *TaskHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid task id")
	}

	if err := h.Tasks.Delete(c.Request().Context(), userID, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "task not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

// Complete переключает статус задачи и рассылает события завершения.
func (h *TaskHandler) Complete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid task id")
	}

	var req CompleteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	task, err := h.Tasks.SetCompleted(c.Request().Context(), userID, taskID, req.Completed)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "task not found")
		}
		return serverError(c)
	}

	if req.Completed {
		h.Metrics.TaskCompleted()
		if h.Hub != nil {
			h.Hub.Publish(userID, notifications.Event{
				Type: notifications.EventTaskCompleted,
				Data: map[string]interface{}{"task_id": task.ID.String(), "title": task.Title},
			})
		}
		h.Events.Publish(c.Request().Context(), events.TypeTaskCompleted, userID, map[string]interface{}{
			"task_id":  task.ID.String(),
			"priority": task.Priority,
		})
	}

	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Reorder сохраняет порядок задач.
func (h *TaskHandler) Reorder(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req ReorderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	if err := h.Tasks.Reorder(c.Request().Context(), userID, req.TaskIDs); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalid):
			return badRequest(c, "task list does not match")
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "task not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

// Duplicate создает копию задачи вместе с чек-листом.
func (h *TaskHandler) Duplicate(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid task id")
	}

	task, err := h.Tasks.Duplicate(c.Request().Context(), userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "task not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// CreateFromTemplate создает задачу по шаблону.
func (h *TaskHandler) CreateFromTemplate(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid template id")
	}

	var req TaskFromTemplateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	tpl, err := h.Templates.GetByID(c.Request().Context(), userID, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "template not found")
		}
		return serverError(c)
	}

	task, err := h.Tasks.Create(c.Request().Context(), userID, repository.TaskInput{
		Title:             tpl.Title,
		Priority:          tpl.Priority,
		EnergyRequirement: tpl.EnergyRequirement,
		EstimatedMinutes:  tpl.EstimatedMinutes,
		DueDate:           req.DueDate,
		Tags:              tpl.Tags,
	})
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// CreateSubtask добавляет пункт чек-листа.
func (h *TaskHandler) CreateSubtask(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid task id")
	}

	var req SubtaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	subtask, err := h.Tasks.CreateSubtask(c.Request().Context(), userID, taskID, req.Title)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "task not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, subtask)
}

// ToggleSubtask переключает готовность пункта чек-листа.
func (h *TaskHandler) ToggleSubtask(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	subtaskID, err := uuid.Parse(c.Param("subtaskId"))
	if err != nil {
		return badRequest(c, "invalid subtask id")
	}

	subtask, err := h.Tasks.ToggleSubtask(c.Request().Context(), userID, subtaskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "subtask not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, subtask)
}

// DeleteSubtask удаляет пункт чек-листа.
func (h *TaskHandler) DeleteSubtask(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	subtaskID, err := uuid.Parse(c.Param("subtaskId"))
	if err != nil {
		return badRequest(c, "invalid subtask id")
	}

	if err := h.Tasks.DeleteSubtask(c.Request().Context(), userID, subtaskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "subtask not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

func taskInput(req TaskRequest) repository.TaskInput {
	return repository.TaskInput{
		ProjectID:          req.ProjectID,
		Title:              req.Title,
		Description:        req.Description,
		Priority:           req.Priority,
		EnergyRequirement:  req.EnergyRequirement,
		EstimatedMinutes:   req.EstimatedMinutes,
		EstimatedCostCents: req.EstimatedCostCents,
		CostCategory:       req.CostCategory,
		Location:           req.Location,
		RequiresOutdoor:    req.RequiresOutdoor,
		DueDate:            req.DueDate,
		Tags:               tags.ParseTags(req.Tags),
	}
}
