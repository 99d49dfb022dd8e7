package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/syncscript/backend/internal/auth"
	"example.com/syncscript/backend/internal/events"
	"example.com/syncscript/backend/internal/metrics"
	"example.com/syncscript/backend/internal/models"
	"example.com/syncscript/backend/internal/notifications"
	"example.com/syncscript/backend/internal/repository"
	"example.com/syncscript/backend/internal/streaks"
)

type EnergyHandler struct {
	Energy  *repository.EnergyRepository
	Hub     *notifications.Hub
	Events  *events.Publisher
	Metrics *metrics.Metrics
}

// NewEnergyHandler создает обработчик журнала энергии.
func NewEnergyHandler(energy *repository.EnergyRepository, hub *notifications.Hub, publisher *events.Publisher, m *metrics.Metrics) *EnergyHandler {
	return &EnergyHandler{Energy: energy, Hub: hub, Events: publisher, Metrics: m}
}

type EnergyLogRequest struct {
	Level int     `json:"level" validate:"min=1,max=5"`
	Note  *string `json:"note" validate:"omitempty,max=500"`
}

type EnergyLogResponse struct {
	Log    models.EnergyLog `json:"log"`
	Streak streaks.Streak   `json:"streak"`
}

type EnergyListResponse struct {
	Logs []models.EnergyLog `json:"logs"`
}

type EnergySummaryResponse struct {
	Days []repository.EnergyDaySummary `json:"days"`
}

type StreakResponse struct {
	Streak streaks.Streak `json:"streak"`
}

const defaultEnergyWindowDays = 30

// Create записывает уровень энергии и пересчитывает серию активности.
func (h *EnergyHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req EnergyLogRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	log, err := h.Energy.Create(c.Request().Context(), userID, req.Level, req.Note)
	if err != nil {
		return serverError(c)
	}

	h.Metrics.EnergyLogged()

	activity, err := h.Energy.ActivityTimes(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}
	streak := streaks.Compute(activity, time.Now().UTC())

	if h.Hub != nil {
		h.Hub.Publish(userID, notifications.Event{
			Type: notifications.EventEnergyLogged,
			Data: map[string]interface{}{"level": log.Level},
		})
		h.Hub.Publish(userID, notifications.Event{
			Type: notifications.EventStreakUpdated,
			Data: map[string]interface{}{"current": streak.Current, "longest": streak.Longest},
		})
	}

	h.Events.Publish(c.Request().Context(), events.TypeEnergyLogged, userID, map[string]interface{}{
		"level": log.Level,
	})
	h.Events.Publish(c.Request().Context(), events.TypeStreakUpdated, userID, map[string]interface{}{
		"current": streak.Current,
		"longest": streak.Longest,
	})

	return c.JSON(http.StatusCreated, EnergyLogResponse{Log: log, Streak: streak})
}

// List возвращает записи энергии за окно в днях.
func (h *EnergyHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	days, err := windowDays(c)
	if err != nil {
		return badRequest(c, "invalid days")
	}

	logs, err := h.Energy.ListByUser(c.Request().Context(), userID, days)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, EnergyListResponse{Logs: logs})
}

// Summary возвращает дневные агрегаты энергии.
func (h *EnergyHandler) Summary(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	days, err := windowDays(c)
	if err != nil {
		return badRequest(c, "invalid days")
	}

	summary, err := h.Energy.Summary(c.Request().Context(), userID, days)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, EnergySummaryResponse{Days: summary})
}

// Streak возвращает текущую серию активности пользователя.
func (h *EnergyHandler) Streak(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	activity, err := h.Energy.ActivityTimes(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, StreakResponse{
		Streak: streaks.Compute(activity, time.Now().UTC()),
	})
}

// Latest возвращает последнюю запись энергии.
func (h *EnergyHandler) Latest(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	log, err := h.Energy.Latest(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "no energy logs")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, log)
}

func windowDays(c echo.Context) (int, error) {
	raw := c.QueryParam("days")
	if raw == "" {
		return defaultEnergyWindowDays, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 || days > 365 {
		return 0, errors.New("invalid days")
	}

	return days, nil
}
