package scoring

import (
	"testing"
	"time"

	"example.com/syncscript/backend/internal/models"
)

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func afternoon() time.Time {
	return time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
}

// TestScoreTaskWithContextBaseline проверяет опорный пример:
// база 50 + 25 за энергию + 10 за время = 85.
func TestScoreTaskWithContextBaseline(t *testing.T) {
	task := models.Task{Title: "Write report", EnergyRequirement: 3, Priority: 2}
	fctx := ContextualFactors{CurrentEnergy: 3, CurrentTime: afternoon(), AvailableMinutes: 60}

	score := ScoreTaskWithContext(task, fctx)
	if score.OverallScore != 85 {
		t.Fatalf("expected 85, got %d", score.OverallScore)
	}
	if len(score.Adjustments) != 2 {
		t.Fatalf("expected 2 adjustments, got %d", len(score.Adjustments))
	}
}

// TestScoreTaskEnergyBands проверяет все ступени энергетического соответствия.
func TestScoreTaskEnergyBands(t *testing.T) {
	fctx := ContextualFactors{CurrentEnergy: 3, CurrentTime: afternoon(), AvailableMinutes: 60}

	cases := []struct {
		requirement int
		expected    int
	}{
		{3, 85}, // diff 0: +25
		{4, 75}, // diff 1: +15
		{5, 60}, // diff 2: нейтральная полоса
		{0, 40}, // diff 3: -20 (плюс +10 за время)
	}

	for _, tc := range cases {
		task := models.Task{Title: "Task", EnergyRequirement: tc.requirement}
		score := ScoreTaskWithContext(task, fctx)
		if score.OverallScore != tc.expected {
			t.Fatalf("requirement %d: expected %d, got %d", tc.requirement, tc.expected, score.OverallScore)
		}
	}
}

// TestScoreTaskTimeShortfall проверяет штраф и предупреждение при нехватке времени.
func TestScoreTaskTimeShortfall(t *testing.T) {
	task := models.Task{Title: "Deep work", EnergyRequirement: 3, EstimatedMinutes: intPtr(90)}
	fctx := ContextualFactors{CurrentEnergy: 3, CurrentTime: afternoon(), AvailableMinutes: 30}

	score := ScoreTaskWithContext(task, fctx)
	// 50 + 25 - 25 = 50
	if score.OverallScore != 50 {
		t.Fatalf("expected 50, got %d", score.OverallScore)
	}
	if len(score.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(score.Warnings))
	}
}

// TestScoreTaskWeather проверяет погодные поправки для уличных задач.
func TestScoreTaskWeather(t *testing.T) {
	task := models.Task{Title: "Run in the park", EnergyRequirement: 3, RequiresOutdoor: true}
	base := ContextualFactors{CurrentEnergy: 3, CurrentTime: afternoon(), AvailableMinutes: 60}

	severe := base
	severe.Weather = &WeatherFactor{Severity: WeatherSevere}
	if got := ScoreTaskWithContext(task, severe).OverallScore; got != 55 {
		t.Fatalf("severe: expected 55, got %d", got)
	}

	rainy := base
	rainy.Weather = &WeatherFactor{Severity: WeatherNormal, PrecipitationChance: 80}
	if got := ScoreTaskWithContext(task, rainy).OverallScore; got != 70 {
		t.Fatalf("rainy: expected 70, got %d", got)
	}

	clear := base
	clear.Weather = &WeatherFactor{Severity: WeatherNormal, PrecipitationChance: 10}
	if got := ScoreTaskWithContext(task, clear).OverallScore; got != 95 {
		t.Fatalf("clear: expected 95, got %d", got)
	}

	// Для задач в помещении погода не учитывается.
	indoor := models.Task{Title: "Read", EnergyRequirement: 3}
	if got := ScoreTaskWithContext(indoor, severe).OverallScore; got != 85 {
		t.Fatalf("indoor: expected 85, got %d", got)
	}
}

// TestScoreTaskBudgetAndTraffic проверяет бюджетные и дорожные поправки.
func TestScoreTaskBudgetAndTraffic(t *testing.T) {
	task := models.Task{
		Title:              "Buy groceries",
		EnergyRequirement:  3,
		EstimatedCostCents: int64Ptr(4000),
		Location:           strPtr("Market St"),
	}
	fctx := ContextualFactors{
		CurrentEnergy:    3,
		CurrentTime:      afternoon(),
		AvailableMinutes: 60,
		Budget:           &BudgetFitResult{WithinBudget: true},
		Traffic:          &TrafficFactor{Level: TrafficLight},
	}

	// 50 + 25 + 10 + 10 + 5 = 100 (после зажима).
	if got := ScoreTaskWithContext(task, fctx).OverallScore; got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}

	fctx.Budget = &BudgetFitResult{WithinBudget: false}
	fctx.Traffic = &TrafficFactor{Level: TrafficHeavy}
	score := ScoreTaskWithContext(task, fctx)
	// 50 + 25 + 10 - 20 - 15 = 50
	if score.OverallScore != 50 {
		t.Fatalf("expected 50, got %d", score.OverallScore)
	}
	if len(score.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(score.Warnings))
	}
}

// TestScoreTaskTimeOfDay проверяет эвристики «gym» и «morning».
func TestScoreTaskTimeOfDay(t *testing.T) {
	night := ContextualFactors{CurrentEnergy: 3, CurrentTime: time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC), AvailableMinutes: 60}
	gym := models.Task{Title: "Gym session", EnergyRequirement: 3}
	// 50 + 25 + 10 - 30 = 55
	if got := ScoreTaskWithContext(gym, night).OverallScore; got != 55 {
		t.Fatalf("gym at night: expected 55, got %d", got)
	}

	morningTask := models.Task{Title: "Morning pages", EnergyRequirement: 3}
	// 50 + 25 + 10 - 20 = 65
	if got := ScoreTaskWithContext(morningTask, ContextualFactors{CurrentEnergy: 3, CurrentTime: afternoon(), AvailableMinutes: 60}).OverallScore; got != 65 {
		t.Fatalf("morning after noon: expected 65, got %d", got)
	}
}

// TestScoreTaskClamp проверяет зажим результата в [0, 100].
func TestScoreTaskClamp(t *testing.T) {
	task := models.Task{
		Title:              "Morning gym run",
		EnergyRequirement:  5,
		EstimatedMinutes:   intPtr(120),
		EstimatedCostCents: int64Ptr(10000),
		Location:           strPtr("Downtown"),
		RequiresOutdoor:    true,
	}
	fctx := ContextualFactors{
		CurrentEnergy:    1,
		CurrentTime:      time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC),
		AvailableMinutes: 10,
		Weather:          &WeatherFactor{Severity: WeatherSevere},
		Budget:           &BudgetFitResult{WithinBudget: false},
		Traffic:          &TrafficFactor{Level: TrafficHeavy},
	}

	score := ScoreTaskWithContext(task, fctx)
	if score.OverallScore != 0 {
		t.Fatalf("expected clamp to 0, got %d", score.OverallScore)
	}

	easy := models.Task{Title: "Quick win", EnergyRequirement: 3, Priority: 5, EstimatedCostCents: int64Ptr(100), Location: strPtr("here")}
	good := ContextualFactors{
		CurrentEnergy:    3,
		CurrentTime:      afternoon(),
		AvailableMinutes: 120,
		Budget:           &BudgetFitResult{WithinBudget: true},
		Traffic:          &TrafficFactor{Level: TrafficLight},
	}
	if got := ScoreTaskWithContext(easy, good).OverallScore; got != 100 {
		t.Fatalf("expected clamp to 100, got %d", got)
	}
}

// TestFilterTasksByContext проверяет отбор по порогу и сортировку.
func TestFilterTasksByContext(t *testing.T) {
	fctx := ContextualFactors{CurrentEnergy: 3, CurrentTime: afternoon(), AvailableMinutes: 60}

	tasks := []models.Task{
		{Title: "Far off", EnergyRequirement: 0, EstimatedMinutes: intPtr(240)},         // 50 - 20 - 25 = 5
		{Title: "Good match", EnergyRequirement: 3, Priority: 5},                        // 95
		{Title: "Okay match", EnergyRequirement: 4},                                     // 75
	}

	result := FilterTasksByContext(tasks, fctx, 0)
	if len(result) != 2 {
		t.Fatalf("expected 2 tasks above threshold, got %d", len(result))
	}
	if result[0].Task.Title != "Good match" || result[1].Task.Title != "Okay match" {
		t.Fatalf("unexpected order: %s, %s", result[0].Task.Title, result[1].Task.Title)
	}

	for _, scored := range result {
		independent := ScoreTaskWithContext(scored.Task, fctx)
		if independent.OverallScore != scored.Score.OverallScore {
			t.Fatalf("score mismatch for %s: %d vs %d", scored.Task.Title, independent.OverallScore, scored.Score.OverallScore)
		}
		if scored.Score.OverallScore < DefaultMinScore {
			t.Fatalf("task below threshold returned: %d", scored.Score.OverallScore)
		}
	}
}

// TestRejectionReason проверяет выбор самой негативной поправки и тай-брейк
// по порядку следования.
func TestRejectionReason(t *testing.T) {
	score := ContextAwareScore{
		OverallScore: 35,
		Adjustments: []Adjustment{
			{Factor: FactorEnergy, Impact: 15, Reason: "close energy"},
			{Factor: FactorTime, Impact: -25, Reason: "first shortfall"},
			{Factor: FactorWeather, Impact: -25, Reason: "second shortfall"},
		},
	}

	if got := RejectionReason(score); got != "first shortfall" {
		t.Fatalf("expected encounter-order tie-break, got %q", got)
	}

	score.OverallScore = 10
	if got := RejectionReason(score); got != "Not a good fit for your current context" {
		t.Fatalf("expected generic message for low score, got %q", got)
	}

	positive := ContextAwareScore{OverallScore: 85, Adjustments: []Adjustment{{Impact: 25, Reason: "energy"}}}
	if got := RejectionReason(positive); got != "" {
		t.Fatalf("expected empty reason, got %q", got)
	}
}
