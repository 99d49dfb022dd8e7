package handlers

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/syncscript/backend/internal/models"
)

// TestWriteTasksCSV проверяет форму CSV-выгрузки проекта.
func TestWriteTasksCSV(t *testing.T) {
	due := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	minutes := 45

	export := ProjectExport{
		Project: models.Project{ID: uuid.New(), Name: "Home"},
		Tasks: []models.Task{
			{
				ID:                uuid.New(),
				Title:             "Fix the shelf",
				Status:            models.TaskStatusOpen,
				Priority:          3,
				EnergyRequirement: 4,
				EstimatedMinutes:  &minutes,
				DueDate:           &due,
				Tags:              []string{"home", "quick"},
			},
		},
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writeTasksCSV(writer, export); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	writer.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one record, got %d lines", len(lines))
	}

	if !strings.Contains(lines[1], "Fix the shelf") {
		t.Fatalf("expected task title in record: %s", lines[1])
	}
	if !strings.Contains(lines[1], "home, quick") {
		t.Fatalf("expected joined tags in record: %s", lines[1])
	}
	if !strings.Contains(lines[1], "2025-05-01T12:00:00Z") {
		t.Fatalf("expected RFC3339 due date in record: %s", lines[1])
	}
}
