package handlers

import (
	"testing"
	"time"

	"example.com/syncscript/backend/internal/models"
	"example.com/syncscript/backend/internal/scoring"
)

// TestSortScored проверяет сортировку по убыванию со стабильным порядком.
func TestSortScored(t *testing.T) {
	items := []scoring.ScoredTask{
		{Task: models.Task{Title: "a"}, Score: scoring.ContextAwareScore{OverallScore: 40}},
		{Task: models.Task{Title: "b"}, Score: scoring.ContextAwareScore{OverallScore: 80}},
		{Task: models.Task{Title: "c"}, Score: scoring.ContextAwareScore{OverallScore: 80}},
		{Task: models.Task{Title: "d"}, Score: scoring.ContextAwareScore{OverallScore: 60}},
	}

	sortScored(items)

	got := []string{items[0].Task.Title, items[1].Task.Title, items[2].Task.Title, items[3].Task.Title}
	want := []string{"b", "c", "d", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

// TestSameDay проверяет сравнение календарных дней.
func TestSameDay(t *testing.T) {
	morning := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2025, 3, 11, 0, 1, 0, 0, time.UTC)

	if !sameDay(morning, evening) {
		t.Fatal("expected same day for morning and evening")
	}

	if sameDay(evening, nextDay) {
		t.Fatal("expected different days across midnight")
	}
}
