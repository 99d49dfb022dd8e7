package scoring

import (
	"strings"
	"testing"

	"example.com/syncscript/backend/internal/models"
)

func testBand() models.ComfortBand {
	return models.ComfortBand{CategoryID: "food", MinCents: 1500, IdealCents: 3500, MaxCents: 6000}
}

// TestCalculateBudgetFitPerfect проверяет оценку на идеальной цене.
func TestCalculateBudgetFitPerfect(t *testing.T) {
	fit := CalculateBudgetFit(3500, testBand())

	if fit.Rating != RatingPerfect {
		t.Fatalf("expected perfect, got %s", fit.Rating)
	}
	if fit.Score != 5 {
		t.Fatalf("expected score 5, got %v", fit.Score)
	}
}

// TestCalculateBudgetFitBelowMin проверяет цену ниже диапазона.
func TestCalculateBudgetFitBelowMin(t *testing.T) {
	fit := CalculateBudgetFit(1000, testBand())

	if fit.Rating != RatingOK {
		t.Fatalf("expected ok, got %s", fit.Rating)
	}
	if fit.Score != 3 {
		t.Fatalf("expected score 3, got %v", fit.Score)
	}
}

// TestCalculateBudgetFitGreatRange проверяет интерполяцию между min и ideal.
func TestCalculateBudgetFitGreatRange(t *testing.T) {
	atMin := CalculateBudgetFit(1500, testBand())
	if atMin.Rating != RatingGreat {
		t.Fatalf("expected great at min, got %s", atMin.Rating)
	}
	if atMin.Score != 4 {
		t.Fatalf("expected score 4 at min, got %v", atMin.Score)
	}

	between := CalculateBudgetFit(2500, testBand())
	if between.Score <= 4 || between.Score >= 5 {
		t.Fatalf("expected score in (4,5), got %v", between.Score)
	}
	if between.Rating != RatingGreat {
		t.Fatalf("expected great, got %s", between.Rating)
	}
}

// TestCalculateBudgetFitAboveIdeal проверяет убывание оценки к максимуму.
func TestCalculateBudgetFitAboveIdeal(t *testing.T) {
	nearIdeal := CalculateBudgetFit(3600, testBand())
	atMax := CalculateBudgetFit(6000, testBand())

	if nearIdeal.Rating != RatingOK || atMax.Rating != RatingOK {
		t.Fatalf("expected ok ratings, got %s and %s", nearIdeal.Rating, atMax.Rating)
	}
	if nearIdeal.Score <= atMax.Score {
		t.Fatalf("expected score to decrease toward max: %v vs %v", nearIdeal.Score, atMax.Score)
	}
	if atMax.Score != 2 {
		t.Fatalf("expected score 2 at max, got %v", atMax.Score)
	}
	if nearIdeal.Score < 2 || nearIdeal.Score > 3 {
		t.Fatalf("expected score in [2,3], got %v", nearIdeal.Score)
	}
}

// TestCalculateBudgetFitOverMax проверяет перерасход и сумму в сообщении.
func TestCalculateBudgetFitOverMax(t *testing.T) {
	fit := CalculateBudgetFit(6400, testBand())

	if fit.Rating != RatingPoor {
		t.Fatalf("expected poor, got %s", fit.Rating)
	}
	if fit.Score != 1 {
		t.Fatalf("expected score 1, got %v", fit.Score)
	}
	if !strings.Contains(fit.Message, "$4.00") {
		t.Fatalf("expected overage amount in message, got %q", fit.Message)
	}
}

// TestRecommendationBudgetFit проверяет метаданные и фолбэк на дефолтный диапазон.
func TestRecommendationBudgetFit(t *testing.T) {
	bands := BandMap{"food": testBand()}

	result := RecommendationBudgetFit(3500, "food", bands)
	if result.Rating != RatingPerfect {
		t.Fatalf("expected perfect, got %s", result.Rating)
	}
	if result.Stars != 5 {
		t.Fatalf("expected 5 stars, got %d", result.Stars)
	}
	if result.Color != "emerald" || result.Icon != "sparkles" {
		t.Fatalf("unexpected display metadata: %s %s", result.Color, result.Icon)
	}
	if !result.WithinBudget {
		t.Fatal("expected within budget")
	}

	// Категория без пользовательского диапазона использует дефолтный.
	fallback := RecommendationBudgetFit(1500, "transport", bands)
	if fallback.Rating != RatingPerfect {
		t.Fatalf("expected perfect on default transport band, got %s", fallback.Rating)
	}

	unknown := RecommendationBudgetFit(100000, "unknown", bands)
	if unknown.WithinBudget {
		t.Fatal("expected over budget against generic default band")
	}
}

// TestFilterByBudget проверяет фильтрацию по максимуму и по диапазону.
func TestFilterByBudget(t *testing.T) {
	over := RecommendationBudgetFit(9000, "food", BandMap{"food": testBand()})
	within := RecommendationBudgetFit(3000, "food", BandMap{"food": testBand()})

	items := []PricedItem{
		{Title: "expensive", CostCents: 9000, CategoryID: "food", Fit: &over},
		{Title: "fine", CostCents: 3000, CategoryID: "food", Fit: &within},
		{Title: "unknown", CostCents: 2000, CategoryID: "food"},
	}

	byMax := FilterByBudget(items, 5000, false)
	if len(byMax) != 2 {
		t.Fatalf("expected 2 items under max, got %d", len(byMax))
	}

	strict := FilterByBudget(items, 0, true)
	if len(strict) != 1 || strict[0].Title != "fine" {
		t.Fatalf("expected only within-budget item, got %v", strict)
	}
}

// TestSortByBudgetFit проверяет порядок: лучшие первыми, без оценки в конце.
func TestSortByBudgetFit(t *testing.T) {
	bands := BandMap{"food": testBand()}
	low := RecommendationBudgetFit(5800, "food", bands)
	high := RecommendationBudgetFit(3500, "food", bands)

	items := []PricedItem{
		{Title: "no-fit"},
		{Title: "low", Fit: &low},
		{Title: "high", Fit: &high},
	}

	sorted := SortByBudgetFit(items)
	if sorted[0].Title != "high" || sorted[1].Title != "low" || sorted[2].Title != "no-fit" {
		t.Fatalf("unexpected order: %s, %s, %s", sorted[0].Title, sorted[1].Title, sorted[2].Title)
	}
}

// TestTotalBudgetImpact проверяет суммирование по категориям.
func TestTotalBudgetImpact(t *testing.T) {
	bands := BandMap{"food": testBand()}

	items := []PricedItem{
		{CostCents: 2000, CategoryID: "food"},
		{CostCents: 2500, CategoryID: "food"},
	}

	impact := TotalBudgetImpact(items, bands)
	if impact.TotalsByCategory["food"] != 4500 {
		t.Fatalf("expected total 4500, got %d", impact.TotalsByCategory["food"])
	}
	if !impact.AllWithinBudget {
		t.Fatal("expected totals within budget")
	}

	items = append(items, PricedItem{CostCents: 5000, CategoryID: "food"})
	impact = TotalBudgetImpact(items, bands)
	if impact.AllWithinBudget {
		t.Fatal("expected budget exceeded")
	}
}

// TestFormatCents проверяет денежное форматирование.
func TestFormatCents(t *testing.T) {
	if got := formatCents(400); got != "$4.00" {
		t.Fatalf("expected $4.00, got %s", got)
	}
	if got := formatCents(12345); got != "$123.45" {
		t.Fatalf("expected $123.45, got %s", got)
	}
	if got := formatCents(-250); got != "-$2.50" {
		t.Fatalf("expected -$2.50, got %s", got)
	}
}
