package scoring

import (
	"fmt"
	"sort"

	"example.com/syncscript/backend/internal/models"
)

type Rating string

const (
	RatingPoor    Rating = "poor"
	RatingOK      Rating = "ok"
	RatingGood    Rating = "good"
	RatingGreat   Rating = "great"
	RatingPerfect Rating = "perfect"
)

// BudgetFit описывает соответствие цены комфортному диапазону.
type BudgetFit struct {
	Score   float64 `json:"score"`
	Rating  Rating  `json:"rating"`
	Message string  `json:"message"`
}

// BudgetFitResult дополняет BudgetFit отображаемыми метаданными.
type BudgetFitResult struct {
	BudgetFit
	Stars        int    `json:"stars"`
	Color        string `json:"color"`
	Icon         string `json:"icon"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	WithinBudget bool   `json:"within_budget"`
}

// BandSource выдает комфортный диапазон по идентификатору категории.
type BandSource interface {
	Band(categoryID string) (models.ComfortBand, bool)
}

// BandMap реализует BandSource поверх обычной map.
type BandMap map[string]models.ComfortBand

func (m BandMap) Band(categoryID string) (models.ComfortBand, bool) {
	band, ok := m[categoryID]
	return band, ok
}

var ratingColors = map[Rating]string{
	RatingPoor:    "red",
	RatingOK:      "yellow",
	RatingGood:    "lime",
	RatingGreat:   "green",
	RatingPerfect: "emerald",
}

var ratingIcons = map[Rating]string{
	RatingPoor:    "alert-circle",
	RatingOK:      "minus-circle",
	RatingGood:    "thumbs-up",
	RatingGreat:   "check-circle",
	RatingPerfect: "sparkles",
}

var categoryNames = map[string]string{
	"food":          "Food & Dining",
	"transport":     "Transport",
	"entertainment": "Entertainment",
	"shopping":      "Shopping",
	"health":        "Health & Fitness",
	"other":         "Other",
}

// Дефолтные диапазоны на случай, когда пользователь еще не настроил свои.
var defaultBands = map[string]models.ComfortBand{
	"food":          {CategoryID: "food", MinCents: 1000, IdealCents: 2500, MaxCents: 6000},
	"transport":     {CategoryID: "transport", MinCents: 500, IdealCents: 1500, MaxCents: 4000},
	"entertainment": {CategoryID: "entertainment", MinCents: 1000, IdealCents: 3000, MaxCents: 8000},
	"shopping":      {CategoryID: "shopping", MinCents: 1500, IdealCents: 5000, MaxCents: 15000},
	"health":        {CategoryID: "health", MinCents: 1000, IdealCents: 4000, MaxCents: 10000},
	"other":         {CategoryID: "other", MinCents: 500, IdealCents: 2500, MaxCents: 10000},
}

// CalculateBudgetFit классифицирует цену относительно диапазона.
// Диапазон считается уже проверенным (models.ValidateComfortBand);
// при нарушенном инварианте интерполяция не определена.
func CalculateBudgetFit(priceCents int64, band models.ComfortBand) BudgetFit {
	switch {
	case priceCents < band.MinCents:
		return BudgetFit{
			Score:   3,
			Rating:  RatingOK,
			Message: fmt.Sprintf("Below your usual range of %s", formatCents(band.MinCents)),
		}
	case priceCents <= band.IdealCents:
		closeness := float64(priceCents-band.MinCents) / float64(band.IdealCents-band.MinCents)
		score := 4 + closeness
		if priceCents == band.IdealCents {
			return BudgetFit{Score: score, Rating: RatingPerfect, Message: "Right at your sweet spot"}
		}
		return BudgetFit{Score: score, Rating: RatingGreat, Message: "Well within your comfort zone"}
	case priceCents <= band.MaxCents:
		distance := float64(priceCents-band.IdealCents) / float64(band.MaxCents-band.IdealCents)
		return BudgetFit{
			Score:   3 - distance,
			Rating:  RatingOK,
			Message: "Above your sweet spot but still acceptable",
		}
	default:
		overage := priceCents - band.MaxCents
		return BudgetFit{
			Score:   1,
			Rating:  RatingPoor,
			Message: fmt.Sprintf("%s over your maximum", formatCents(overage)),
		}
	}
}

// RecommendationBudgetFit подбирает диапазон пользователя (или дефолтный)
// и добавляет к оценке отображаемые метаданные.
func RecommendationBudgetFit(costCents int64, categoryID string, bands BandSource) BudgetFitResult {
	band, ok := models.ComfortBand{}, false
	if bands != nil {
		band, ok = bands.Band(categoryID)
	}
	if !ok {
		band, ok = defaultBands[categoryID]
		if !ok {
			band = defaultBands["other"]
		}
	}

	fit := CalculateBudgetFit(costCents, band)

	name, ok := categoryNames[categoryID]
	if !ok {
		name = categoryNames["other"]
	}

	return BudgetFitResult{
		BudgetFit:    fit,
		Stars:        int(fit.Score + 0.5),
		Color:        ratingColors[fit.Rating],
		Icon:         ratingIcons[fit.Rating],
		CategoryID:   categoryID,
		CategoryName: name,
		WithinBudget: costCents <= band.MaxCents,
	}
}

// PricedItem — рекомендация с ценой для фильтров и сортировки.
type PricedItem struct {
	Title      string           `json:"title"`
	CostCents  int64            `json:"cost_cents"`
	CategoryID string           `json:"category_id"`
	Fit        *BudgetFitResult `json:"fit,omitempty"`
}

// FilterByBudget оставляет позиции не дороже maxCents и, при
// excludeOverBudget, только укладывающиеся в диапазон.
func FilterByBudget(items []PricedItem, maxCents int64, excludeOverBudget bool) []PricedItem {
	out := make([]PricedItem, 0, len(items))
	for _, item := range items {
		if maxCents > 0 && item.CostCents > maxCents {
			continue
		}
		if excludeOverBudget && (item.Fit == nil || !item.Fit.WithinBudget) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// SortByBudgetFit сортирует по убыванию оценки; позиции без оценки в конце.
func SortByBudgetFit(items []PricedItem) []PricedItem {
	out := make([]PricedItem, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Fit == nil {
			return false
		}
		if out[j].Fit == nil {
			return true
		}
		return out[i].Fit.Score > out[j].Fit.Score
	})

	return out
}

// BudgetImpact — суммарные траты по категориям.
type BudgetImpact struct {
	TotalsByCategory map[string]int64 `json:"totals_by_category"`
	AllWithinBudget  bool             `json:"all_within_budget"`
}

// TotalBudgetImpact суммирует стоимость по категориям и проверяет,
// что каждая категория укладывается в максимум своего диапазона.
func TotalBudgetImpact(items []PricedItem, bands BandSource) BudgetImpact {
	impact := BudgetImpact{
		TotalsByCategory: make(map[string]int64),
		AllWithinBudget:  true,
	}

	for _, item := range items {
		impact.TotalsByCategory[item.CategoryID] += item.CostCents
	}

	for categoryID, total := range impact.TotalsByCategory {
		band, ok := models.ComfortBand{}, false
		if bands != nil {
			band, ok = bands.Band(categoryID)
		}
		if !ok {
			band, ok = defaultBands[categoryID]
			if !ok {
				band = defaultBands["other"]
			}
		}

		if total > band.MaxCents {
			impact.AllWithinBudget = false
		}
	}

	return impact
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
