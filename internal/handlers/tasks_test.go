package handlers

import (
	"reflect"
	"testing"
)

// TestTaskInputParsesTags проверяет нормализацию тегов при создании задачи.
func TestTaskInputParsesTags(t *testing.T) {
	req := TaskRequest{
		Title: "Weekly review",
		Tags:  "#Work, urgent, work",
	}

	input := taskInput(req)

	want := []string{"work", "urgent"}
	if !reflect.DeepEqual(input.Tags, want) {
		t.Fatalf("expected tags %v, got %v", want, input.Tags)
	}
}

// TestNormalizeName проверяет обрезку пробелов и пустые имена.
func TestNormalizeName(t *testing.T) {
	if normalizeName(nil) != nil {
		t.Fatal("expected nil for nil input")
	}

	blank := "   "
	if normalizeName(&blank) != nil {
		t.Fatal("expected nil for blank name")
	}

	padded := "  Alex  "
	got := normalizeName(&padded)
	if got == nil || *got != "Alex" {
		t.Fatalf("expected trimmed name, got %v", got)
	}
}

// TestGoalInputDefaults проверяет значения иконки и цвета по умолчанию.
func TestGoalInputDefaults(t *testing.T) {
	input := goalInput(GoalRequest{Name: "Trip", Category: "travel", TargetCents: 100000})

	if input.Icon == "" {
		t.Fatal("expected default icon")
	}
	if input.Color == "" {
		t.Fatal("expected default color")
	}

	custom := goalInput(GoalRequest{Name: "Trip", Category: "travel", TargetCents: 1, Icon: "✈️", Color: "#112233"})
	if custom.Icon != "✈️" || custom.Color != "#112233" {
		t.Fatalf("expected custom icon and color, got %s %s", custom.Icon, custom.Color)
	}
}
