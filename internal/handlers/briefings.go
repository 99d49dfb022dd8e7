package handlers

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/syncscript/backend/internal/auth"
	"example.com/syncscript/backend/internal/models"
	"example.com/syncscript/backend/internal/providers"
	"example.com/syncscript/backend/internal/repository"
	"example.com/syncscript/backend/internal/streaks"
)

type BriefingHandler struct {
	Tasks   *repository.TaskRepository
	Energy  *repository.EnergyRepository
	Goals   *repository.GoalRepository
	Weather providers.WeatherProvider
}

// NewBriefingHandler создает обработчик утренних и вечерних сводок.
func NewBriefingHandler(tasks *repository.TaskRepository, energy *repository.EnergyRepository, goals *repository.GoalRepository, weather providers.WeatherProvider) *BriefingHandler {
	return &BriefingHandler{Tasks: tasks, Energy: energy, Goals: goals, Weather: weather}
}

// Окно тренда энергии в вечерней сводке.
const energyTrendDays = 7

// MorningBriefing — план на день: задачи на сегодня, погода, серия.
type MorningBriefing struct {
	Date           time.Time                   `json:"date"`
	DueToday       []TaskResponse              `json:"due_today"`
	Overdue        []TaskResponse              `json:"overdue"`
	Weather        *providers.WeatherCondition `json:"weather,omitempty"`
	LatestEnergy   *int                        `json:"latest_energy,omitempty"`
	NeedsEnergyLog bool                        `json:"needs_energy_log"`
	Streak         streaks.Streak              `json:"streak"`
}

// EveningBriefing — итог дня: завершено, осталось, энергия, цели и план на завтра.
type EveningBriefing struct {
	Date           time.Time                     `json:"date"`
	CompletedToday int                           `json:"completed_today"`
	OpenDueToday   []TaskResponse                `json:"open_due_today"`
	DueTomorrow    []TaskResponse                `json:"due_tomorrow"`
	EnergyTrend    []repository.EnergyDaySummary `json:"energy_trend"`
	Goals          []GoalProgress                `json:"goals"`
	Streak         streaks.Streak                `json:"streak"`
}

// GoalProgress — сводка продвижения к цели накоплений.
type GoalProgress struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	CurrentCents int64   `json:"current_cents"`
	TargetCents  int64   `json:"target_cents"`
	Percent      float64 `json:"percent"`
	Completed    bool    `json:"completed"`
}

// Morning возвращает утреннюю сводку.
func (h *BriefingHandler) Morning(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	ctx := c.Request().Context()
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	briefing := MorningBriefing{Date: today}

	open, err := h.Tasks.ListByUser(ctx, userID, openFilter())
	if err != nil {
		return serverError(c)
	}

	for _, task := range open {
		if task.DueDate == nil {
			continue
		}
		switch {
		case sameDay(*task.DueDate, now):
			briefing.DueToday = append(briefing.DueToday, toTaskResponse(task))
		case task.DueDate.Before(today):
			briefing.Overdue = append(briefing.Overdue, toTaskResponse(task))
		}
	}

	sortByPriority(briefing.DueToday)
	sortByPriority(briefing.Overdue)

	if location := c.QueryParam("location"); location != "" {
		forecast, ferr := h.Weather.Forecast(ctx, now, location)
		if ferr != nil {
			return serverError(c)
		}
		briefing.Weather = &forecast
	}

	latest, err := h.Energy.Latest(ctx, userID)
	switch {
	case err == nil:
		level := latest.Level
		briefing.LatestEnergy = &level
		briefing.NeedsEnergyLog = !sameDay(latest.LoggedAt.In(now.Location()), now)
	case errors.Is(err, repository.ErrNotFound):
		briefing.NeedsEnergyLog = true
	default:
		return serverError(c)
	}

	activity, err := h.Energy.ActivityTimes(ctx, userID)
	if err != nil {
		return serverError(c)
	}
	briefing.Streak = streaks.Compute(activity, now.UTC())

	return c.JSON(http.StatusOK, briefing)
}

// Evening возвращает вечернюю сводку.
func (h *BriefingHandler) Evening(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	ctx := c.Request().Context()
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	briefing := EveningBriefing{Date: today}

	completed, err := h.Tasks.CountCompletedBetween(ctx, userID, today, tomorrow)
	if err != nil {
		return serverError(c)
	}
	briefing.CompletedToday = completed

	open, err := h.Tasks.ListByUser(ctx, userID, openFilter())
	if err != nil {
		return serverError(c)
	}

	for _, task := range open {
		if task.DueDate == nil {
			continue
		}
		switch {
		case sameDay(*task.DueDate, now):
			briefing.OpenDueToday = append(briefing.OpenDueToday, toTaskResponse(task))
		case sameDay(*task.DueDate, tomorrow):
			briefing.DueTomorrow = append(briefing.DueTomorrow, toTaskResponse(task))
		}
	}

	sortByPriority(briefing.OpenDueToday)
	sortByPriority(briefing.DueTomorrow)

	trend, err := h.Energy.Summary(ctx, userID, energyTrendDays)
	if err != nil {
		return serverError(c)
	}
	briefing.EnergyTrend = trend

	goals, err := h.Goals.ListByUser(ctx, userID)
	if err != nil {
		return serverError(c)
	}
	briefing.Goals = make([]GoalProgress, 0, len(goals))
	for _, goal := range goals {
		percent := 0.0
		if goal.TargetCents > 0 {
			percent = float64(goal.CurrentCents) / float64(goal.TargetCents) * 100
		}
		briefing.Goals = append(briefing.Goals, GoalProgress{
			ID:           goal.ID.String(),
			Name:         goal.Name,
			CurrentCents: goal.CurrentCents,
			TargetCents:  goal.TargetCents,
			Percent:      percent,
			Completed:    goal.CurrentCents >= goal.TargetCents,
		})
	}

	activity, err := h.Energy.ActivityTimes(ctx, userID)
	if err != nil {
		return serverError(c)
	}
	briefing.Streak = streaks.Compute(activity, now.UTC())

	return c.JSON(http.StatusOK, briefing)
}

func openFilter() repository.TaskFilter {
	status := models.TaskStatusOpen
	return repository.TaskFilter{Status: &status}
}

func sortByPriority(items []TaskResponse) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority > items[j].Priority
	})
}
