package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/syncscript/backend/internal/auth"
	"example.com/syncscript/backend/internal/metrics"
	"example.com/syncscript/backend/internal/models"
	"example.com/syncscript/backend/internal/providers"
	"example.com/syncscript/backend/internal/repository"
	"example.com/syncscript/backend/internal/scoring"
	"example.com/syncscript/backend/internal/tags"
)

type SuggestionHandler struct {
	Tasks   *repository.TaskRepository
	Energy  *repository.EnergyRepository
	Bands   *repository.BandRepository
	Weather providers.WeatherProvider
	Travel  providers.TravelProvider
	Metrics *metrics.Metrics
}

// NewSuggestionHandler создает обработчик контекстных предложений.
func NewSuggestionHandler(
	tasks *repository.TaskRepository,
	energy *repository.EnergyRepository,
	bands *repository.BandRepository,
	weather providers.WeatherProvider,
	travel providers.TravelProvider,
	m *metrics.Metrics,
) *SuggestionHandler {
	return &SuggestionHandler{
		Tasks:   tasks,
		Energy:  energy,
		Bands:   bands,
		Weather: weather,
		Travel:  travel,
		Metrics: m,
	}
}

// Suggestion — предложенная задача с оценкой и объяснением.
type Suggestion struct {
	Task        TaskResponse              `json:"task"`
	Score       scoring.ContextAwareScore `json:"score"`
	Explanation scoring.TaskExplanation   `json:"explanation"`
	LeaveBy     *providers.LeaveByResult  `json:"leave_by,omitempty"`
}

// RejectedTask — задача, не прошедшая порог, с причиной.
type RejectedTask struct {
	Task   TaskResponse `json:"task"`
	Score  int          `json:"score"`
	Reason string       `json:"reason"`
}

type SuggestionsResponse struct {
	Suggestions []Suggestion              `json:"suggestions"`
	Rejected    []RejectedTask            `json:"rejected"`
	Context     scoring.ContextualFactors `json:"context"`
}

// Энергия по умолчанию для пользователей без единой записи, середина шкалы 1–5.
const fallbackEnergyLevel = 3

// List возвращает открытые задачи, отсортированные по соответствию контексту.
// Контекст собирается из последней записи энергии, параметров запроса и
// провайдеров погоды и дороги; бюджетная поправка считается по диапазонам
// пользователя для каждой задачи отдельно.
func (h *SuggestionHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	ctx := c.Request().Context()
	now := time.Now()

	minScore := scoring.DefaultMinScore
	if raw := c.QueryParam("min_score"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 100 {
			return badRequest(c, "invalid min_score")
		}
		minScore = parsed
	}

	availableMinutes := 0
	if raw := c.QueryParam("available_minutes"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return badRequest(c, "invalid available_minutes")
		}
		availableMinutes = parsed
	}

	fctx := scoring.ContextualFactors{
		CurrentTime:      now,
		CurrentEnergy:    fallbackEnergyLevel,
		AvailableMinutes: availableMinutes,
		Preferences:      tags.ParseTags(c.QueryParam("preferences")),
	}

	latest, err := h.Energy.Latest(ctx, userID)
	switch {
	case err == nil:
		fctx.CurrentEnergy = latest.Level
	case !errors.Is(err, repository.ErrNotFound):
		return serverError(c)
	}

	location := c.QueryParam("location")
	if location != "" {
		started := time.Now()
		forecast, ferr := h.Weather.Forecast(ctx, now, location)
		h.Metrics.ProviderRequest("weather", time.Since(started), ferr)
		if ferr != nil {
			return serverError(c)
		}
		fctx.Weather = &scoring.WeatherFactor{
			Severity:            forecast.Severity,
			PrecipitationChance: forecast.PrecipitationChance,
			Summary:             forecast.Summary,
		}
	}

	if destination := c.QueryParam("destination"); destination != "" && location != "" {
		started := time.Now()
		probe, terr := h.Travel.LeaveBy(ctx, providers.LeaveByInput{
			EventTime:     now.Add(time.Hour),
			EventLocation: destination,
			UserLocation:  location,
			Mode:          travelMode(c),
		})
		h.Metrics.ProviderRequest("travel", time.Since(started), terr)
		if terr != nil {
			return serverError(c)
		}
		fctx.Traffic = &scoring.TrafficFactor{Level: probe.Traffic}
	}

	status := models.TaskStatusOpen
	open, err := h.Tasks.ListByUser(ctx, userID, repository.TaskFilter{Status: &status})
	if err != nil {
		return serverError(c)
	}

	bandRows, err := h.Bands.ListByUser(ctx, userID)
	if err != nil {
		return serverError(c)
	}
	bands := scoring.BandMap{}
	for _, band := range bandRows {
		bands[band.CategoryID] = band
	}

	response := SuggestionsResponse{
		Suggestions: []Suggestion{},
		Rejected:    []RejectedTask{},
		Context:     fctx,
	}

	scored := make([]scoring.ScoredTask, 0, len(open))
	for _, task := range open {
		taskCtx := fctx
		if task.EstimatedCostCents != nil && task.CostCategory != nil {
			fit := scoring.RecommendationBudgetFit(*task.EstimatedCostCents, *task.CostCategory, bands)
			taskCtx.Budget = &fit
		}

		score := scoring.ScoreTaskWithContext(task, taskCtx)
		if score.OverallScore >= minScore {
			scored = append(scored, scoring.ScoredTask{Task: task, Score: score})
			continue
		}

		response.Rejected = append(response.Rejected, RejectedTask{
			Task:   toTaskResponse(task),
			Score:  score.OverallScore,
			Reason: scoring.RejectionReason(score),
		})
	}

	sortScored(scored)

	for _, item := range scored {
		suggestion := Suggestion{
			Task:        toTaskResponse(item.Task),
			Score:       item.Score,
			Explanation: scoring.GenerateExplanation(item.Task, fctx),
		}

		if location != "" && item.Task.Location != nil && item.Task.DueDate != nil && sameDay(*item.Task.DueDate, now) {
			started := time.Now()
			leaveBy, lerr := h.Travel.LeaveBy(ctx, providers.LeaveByInput{
				EventTime:     *item.Task.DueDate,
				EventLocation: *item.Task.Location,
				UserLocation:  location,
				Mode:          travelMode(c),
			})
			h.Metrics.ProviderRequest("travel", time.Since(started), lerr)
			if lerr == nil {
				suggestion.LeaveBy = &leaveBy
			}
		}

		response.Suggestions = append(response.Suggestions, suggestion)
	}

	h.Metrics.SuggestionsServed()

	return c.JSON(http.StatusOK, response)
}

func travelMode(c echo.Context) string {
	mode := c.QueryParam("mode")
	switch mode {
	case "walking", "driving", "transit":
		return mode
	}
	return "driving"
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// sortScored сортирует по убыванию оценки, стабильно к исходному порядку.
func sortScored(items []scoring.ScoredTask) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score.OverallScore > items[j].Score.OverallScore
	})
}
