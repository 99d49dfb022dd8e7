package scoring

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"example.com/syncscript/backend/internal/models"
)

type WeatherSeverity string

type TrafficLevel string

const (
	WeatherNormal  WeatherSeverity = "normal"
	WeatherWarning WeatherSeverity = "warning"
	WeatherSevere  WeatherSeverity = "severe"

	TrafficLight    TrafficLevel = "light"
	TrafficModerate TrafficLevel = "moderate"
	TrafficHeavy    TrafficLevel = "heavy"
)

// Factor tags для позиций списка adjustments.
const (
	FactorEnergy    = "energy_match"
	FactorTime      = "time_fit"
	FactorWeather   = "weather"
	FactorBudget    = "budget"
	FactorTraffic   = "traffic"
	FactorTimeOfDay = "time_of_day"
	FactorPriority  = "priority"
)

const (
	baseScore              = 50
	defaultDurationMinutes = 30

	// DefaultMinScore — порог отбора задач в FilterTasksByContext.
	DefaultMinScore = 40
)

type WeatherFactor struct {
	Severity            WeatherSeverity `json:"severity"`
	PrecipitationChance int             `json:"precipitation_chance"`
	Summary             string          `json:"summary,omitempty"`
}

type TrafficFactor struct {
	Level TrafficLevel `json:"level"`
}

// ContextualFactors — снимок обстановки пользователя на момент запроса.
// Собирается вызывающей стороной, нигде не сохраняется.
type ContextualFactors struct {
	CurrentEnergy    int              `json:"current_energy"`
	CurrentTime      time.Time        `json:"current_time"`
	AvailableMinutes int              `json:"available_minutes"`
	Weather          *WeatherFactor   `json:"weather,omitempty"`
	Budget           *BudgetFitResult `json:"budget,omitempty"`
	Traffic          *TrafficFactor   `json:"traffic,omitempty"`
	Preferences      []string         `json:"preferences,omitempty"`
}

type Adjustment struct {
	Factor string `json:"factor"`
	Impact int    `json:"impact"`
	Reason string `json:"reason"`
}

type ContextAwareScore struct {
	OverallScore int          `json:"overall_score"`
	Reasoning    []string     `json:"reasoning"`
	Warnings     []string     `json:"warnings"`
	Adjustments  []Adjustment `json:"adjustments"`
}

type ScoredTask struct {
	Task  models.Task       `json:"task"`
	Score ContextAwareScore `json:"score"`
}

// ScoreTaskWithContext оценивает задачу для текущего контекста.
// Все поправки аддитивны и независимы, порядок проверок на итог не влияет;
// результат зажимается в [0, 100].
func ScoreTaskWithContext(task models.Task, fctx ContextualFactors) ContextAwareScore {
	score := ContextAwareScore{
		OverallScore: baseScore,
		Reasoning:    []string{},
		Warnings:     []string{},
		Adjustments:  []Adjustment{},
	}

	apply := func(factor string, impact int, reason string) {
		score.OverallScore += impact
		score.Adjustments = append(score.Adjustments, Adjustment{Factor: factor, Impact: impact, Reason: reason})
		score.Reasoning = append(score.Reasoning, reason)
	}

	switch diff := energyDiff(task, fctx); {
	case diff == 0:
		apply(FactorEnergy, 25, "Perfect match for your current energy")
	case diff == 1:
		apply(FactorEnergy, 15, "Close match for your current energy")
	case diff >= 3:
		apply(FactorEnergy, -20, "Poor match for your current energy")
	}

	duration := defaultDurationMinutes
	if task.EstimatedMinutes != nil {
		duration = *task.EstimatedMinutes
	}
	if duration <= fctx.AvailableMinutes {
		apply(FactorTime, 10, "Fits in your available time")
	} else {
		shortfall := duration - fctx.AvailableMinutes
		reason := fmt.Sprintf("Needs %d more minutes than you have", shortfall)
		apply(FactorTime, -25, reason)
		score.Warnings = append(score.Warnings, reason)
	}

	if task.RequiresOutdoor && fctx.Weather != nil {
		switch {
		case fctx.Weather.Severity == WeatherSevere || fctx.Weather.Severity == WeatherWarning:
			reason := "Weather alert for outdoor activity"
			apply(FactorWeather, -30, reason)
			score.Warnings = append(score.Warnings, reason)
		case fctx.Weather.PrecipitationChance > 60:
			apply(FactorWeather, -15, "High chance of precipitation")
		default:
			apply(FactorWeather, 10, "Good weather for outdoor activity")
		}
	}

	if task.EstimatedCostCents != nil && fctx.Budget != nil {
		if fctx.Budget.WithinBudget {
			apply(FactorBudget, 10, "Cost fits your budget")
		} else {
			reason := "Cost exceeds your comfort band"
			apply(FactorBudget, -20, reason)
			score.Warnings = append(score.Warnings, reason)
		}
	}

	if task.Location != nil && fctx.Traffic != nil {
		switch fctx.Traffic.Level {
		case TrafficHeavy:
			reason := "Heavy traffic on the way there"
			apply(FactorTraffic, -15, reason)
			score.Warnings = append(score.Warnings, reason)
		case TrafficLight:
			apply(FactorTraffic, 5, "Light traffic right now")
		}
	}

	title := strings.ToLower(task.Title)
	hour := fctx.CurrentTime.Hour()
	if strings.Contains(title, "gym") && (hour < 5 || hour >= 22) {
		apply(FactorTimeOfDay, -30, "Gym is likely closed at this hour")
	}
	if strings.Contains(title, "morning") && hour >= 12 {
		apply(FactorTimeOfDay, -20, "Morning task scheduled past noon")
	}

	if task.Priority >= 4 {
		apply(FactorPriority, 10, "High priority task")
	}

	if score.OverallScore > 100 {
		score.OverallScore = 100
	}
	if score.OverallScore < 0 {
		score.OverallScore = 0
	}

	return score
}

// FilterTasksByContext оценивает все задачи, отбрасывает набравшие меньше
// minScore и сортирует по убыванию. При minScore <= 0 берется DefaultMinScore.
func FilterTasksByContext(tasks []models.Task, fctx ContextualFactors, minScore int) []ScoredTask {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}

	out := make([]ScoredTask, 0, len(tasks))
	for _, task := range tasks {
		score := ScoreTaskWithContext(task, fctx)
		if score.OverallScore >= minScore {
			out = append(out, ScoredTask{Task: task, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score.OverallScore > out[j].Score.OverallScore
	})

	return out
}

// RejectionReason объясняет, почему задача не прошла отбор: причина самой
// негативной поправки, либо общий ответ при низкой оценке с несколькими
// негативными факторами. Равные по весу поправки разрешаются порядком
// следования в списке.
func RejectionReason(score ContextAwareScore) string {
	worstImpact := 0
	worstReason := ""
	negatives := 0

	for _, adj := range score.Adjustments {
		if adj.Impact >= 0 {
			continue
		}
		negatives++
		if adj.Impact < worstImpact {
			worstImpact = adj.Impact
			worstReason = adj.Reason
		}
	}

	if score.OverallScore < 20 && negatives > 1 {
		return "Not a good fit for your current context"
	}

	return worstReason
}
