package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/syncscript/backend/internal/auth"
	"example.com/syncscript/backend/internal/models"
	"example.com/syncscript/backend/internal/repository"
	"example.com/syncscript/backend/internal/tags"
)

type ProjectHandler struct {
	Projects *repository.ProjectRepository
	Tasks    *repository.TaskRepository
}

// NewProjectHandler создает обработчик проектов.
func NewProjectHandler(projects *repository.ProjectRepository, tasks *repository.TaskRepository) *ProjectHandler {
	return &ProjectHandler{Projects: projects, Tasks: tasks}
}

type ProjectRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
}

type ProjectReorderRequest struct {
	ProjectIDs []uuid.UUID `json:"project_ids" validate:"required,min=1"`
}

type ProjectListResponse struct {
	Projects []models.Project `json:"projects"`
}

// ProjectExport — выгрузка проекта вместе с задачами.
type ProjectExport struct {
	Project models.Project `json:"project"`
	Tasks   []models.Task  `json:"tasks"`
}

// List возвращает проекты пользователя.
func (h *ProjectHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	projects, err := h.Projects.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, ProjectListResponse{Projects: projects})
}

// Create создает проект.
func (h *ProjectHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	project, err := h.Projects.Create(c.Request().Context(), userID, repository.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return conflict(c, "project already exists")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, project)
}

// Update обновляет проект.
func (h *ProjectHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid project id")
	}

	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	project, err := h.Projects.Update(c.Request().Context(), userID, projectID, repository.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "project not found")
		case errors.Is(err, repository.ErrConflict):
			return conflict(c, "project already exists")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, project)
}

// Delete удаляет проект, задачи остаются без проекта.
func (h *ProjectHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid project id")
	}

	if err := h.Projects.Delete(c.Request().Context(), userID, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "project not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

// Reorder сохраняет порядок проектов.
func (h *ProjectHandler) Reorder(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req ProjectReorderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	if err := h.Projects.Reorder(c.Request().Context(), userID, req.ProjectIDs); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalid):
			return badRequest(c, "project list does not match")
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "project not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

// ExportJSON выгружает проект с задачами в JSON-файл.
func (h *ProjectHandler) ExportJSON(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid project id")
	}

	export, err := h.buildExport(c, userID, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "project not found")
		}
		return serverError(c)
	}

	filename := "project-" + export.Project.ID.String() + ".json"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.JSON(http.StatusOK, export)
}

// ExportCSV выгружает задачи проекта в CSV-файл.
func (h *ProjectHandler) ExportCSV(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid project id")
	}

	export, err := h.buildExport(c, userID, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "project not found")
		}
		return serverError(c)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writeTasksCSV(writer, export); err != nil {
		return serverError(c)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	filename := "project-" + export.Project.ID.String() + ".csv"
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ProjectHandler) buildExport(c echo.Context, userID, projectID uuid.UUID) (ProjectExport, error) {
	ctx := c.Request().Context()

	project, err := h.Projects.GetByID(ctx, userID, projectID)
	if err != nil {
		return ProjectExport{}, err
	}

	list, err := h.Tasks.ListByUser(ctx, userID, repository.TaskFilter{ProjectID: &projectID})
	if err != nil {
		return ProjectExport{}, err
	}

	return ProjectExport{Project: project, Tasks: list}, nil
}

func writeTasksCSV(writer *csv.Writer, export ProjectExport) error {
	header := []string{
		"project_id",
		"project_name",
		"task_id",
		"title",
		"status",
		"priority",
		"energy_requirement",
		"estimated_minutes",
		"due_date",
		"tags",
		"completed_at",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, task := range export.Tasks {
		record := []string{
			export.Project.ID.String(),
			export.Project.Name,
			task.ID.String(),
			task.Title,
			string(task.Status),
			strconv.Itoa(task.Priority),
			strconv.Itoa(task.EnergyRequirement),
			formatIntPtr(task.EstimatedMinutes),
			formatTimePtr(task.DueDate),
			tags.TagsToString(task.Tags),
			formatTimePtr(task.CompletedAt),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}

func formatIntPtr(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func formatTimePtr(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format(time.RFC3339)
}
