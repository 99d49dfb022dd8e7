package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/syncscript/backend/internal/models"
)

// TestGenerateExplanationDueToday проверяет причину срочности для
// сегодняшнего дедлайна.
func TestGenerateExplanationDueToday(t *testing.T) {
	now := afternoon()
	due := now.Add(2 * time.Hour)
	task := models.Task{ID: uuid.New(), Title: "File taxes", EnergyRequirement: 3, DueDate: &due}
	fctx := ContextualFactors{CurrentEnergy: 3, CurrentTime: now, AvailableMinutes: 60}

	explanation := GenerateExplanation(task, fctx)

	var urgency *Reason
	for i := range explanation.Reasons {
		if explanation.Reasons[i].Type == ReasonUrgency {
			urgency = &explanation.Reasons[i]
			break
		}
	}

	if urgency == nil {
		t.Fatal("expected urgency reason")
	}
	if urgency.Description != "Due today" {
		t.Fatalf("expected 'Due today', got %q", urgency.Description)
	}
	if urgency.Score != 0.9 {
		t.Fatalf("expected score 0.9, got %v", urgency.Score)
	}
}

// TestGenerateExplanationWeights проверяет взвешенную сумму и зажим.
func TestGenerateExplanationWeights(t *testing.T) {
	now := afternoon()
	task := models.Task{ID: uuid.New(), Title: "Task", EnergyRequirement: 3, Priority: 2}
	fctx := ContextualFactors{CurrentEnergy: 3, CurrentTime: now, AvailableMinutes: 60}

	explanation := GenerateExplanation(task, fctx)

	// energy 1.0*0.30 + priority 0.2*0.15 + time 0.8*0.10 = 0.41
	expected := 1.0*weightEnergy + 0.2*weightPriority + 0.8*weightTime
	if math.Abs(explanation.OverallScore-expected) > 1e-9 {
		t.Fatalf("expected overall %v, got %v", expected, explanation.OverallScore)
	}

	if explanation.OverallScore > 1.0 {
		t.Fatalf("expected overall capped at 1.0, got %v", explanation.OverallScore)
	}
}

// TestGenerateExplanationConfidence проверяет формулу уверенности.
func TestGenerateExplanationConfidence(t *testing.T) {
	now := afternoon()

	weak := models.Task{ID: uuid.New(), Title: "Task", EnergyRequirement: 1, Priority: 1, EstimatedMinutes: intPtr(300)}
	fctx := ContextualFactors{CurrentEnergy: 5, CurrentTime: now, AvailableMinutes: 30}
	if got := GenerateExplanation(weak, fctx).Confidence; got != 50 {
		t.Fatalf("expected confidence 50 with no strong reasons, got %d", got)
	}

	// Энергия 1.0 и время 0.8 дают две сильные причины: 50 + 2*15 = 80.
	strong := models.Task{ID: uuid.New(), Title: "Task", EnergyRequirement: 3, Priority: 1}
	good := ContextualFactors{CurrentEnergy: 3, CurrentTime: now, AvailableMinutes: 60}
	if got := GenerateExplanation(strong, good).Confidence; got != 80 {
		t.Fatalf("expected confidence 80, got %d", got)
	}

	// Дедлайн-просрочка, энергия, приоритет и время: четыре сильные причины
	// упираются в потолок 95.
	overdue := now.AddDate(0, 0, -2)
	urgent := models.Task{ID: uuid.New(), Title: "Task", EnergyRequirement: 3, Priority: 5, DueDate: &overdue}
	if got := GenerateExplanation(urgent, good).Confidence; got != 95 {
		t.Fatalf("expected confidence capped at 95, got %d", got)
	}
}

// TestGenerateExplanationOrderAndProject проверяет сортировку причин и
// бонусную причину принадлежности к проекту.
func TestGenerateExplanationOrderAndProject(t *testing.T) {
	now := afternoon()
	projectID := uuid.New()
	due := now.AddDate(0, 0, 1)
	task := models.Task{
		ID:                uuid.New(),
		Title:             "Plan sprint",
		EnergyRequirement: 3,
		Priority:          4,
		ProjectID:         &projectID,
		DueDate:           &due,
	}
	fctx := ContextualFactors{CurrentEnergy: 3, CurrentTime: now, AvailableMinutes: 60}

	explanation := GenerateExplanation(task, fctx)

	for i := 1; i < len(explanation.Reasons); i++ {
		if explanation.Reasons[i].Score > explanation.Reasons[i-1].Score {
			t.Fatalf("reasons not sorted descending at %d", i)
		}
	}

	found := false
	for _, reason := range explanation.Reasons {
		if reason.Type == ReasonProject {
			found = true
		}
	}
	if !found {
		t.Fatal("expected project membership reason")
	}

	// Бонус без веса: удаление ProjectID не меняет сумму.
	noProject := task
	noProject.ProjectID = nil
	without := GenerateExplanation(noProject, fctx)
	if math.Abs(without.OverallScore-explanation.OverallScore) > 1e-9 {
		t.Fatalf("project bonus must not affect overall score: %v vs %v", without.OverallScore, explanation.OverallScore)
	}
}

// TestGenerateExplanationHabit проверяет совпадение по тегам-предпочтениям.
func TestGenerateExplanationHabit(t *testing.T) {
	now := afternoon()
	task := models.Task{ID: uuid.New(), Title: "Review PR", EnergyRequirement: 3, Tags: []string{"work", "quick"}}
	fctx := ContextualFactors{CurrentEnergy: 3, CurrentTime: now, AvailableMinutes: 60, Preferences: []string{"quick"}}

	explanation := GenerateExplanation(task, fctx)

	for _, reason := range explanation.Reasons {
		if reason.Type == ReasonHabit {
			if reason.Score != 0.8 {
				t.Fatalf("expected habit score 0.8, got %v", reason.Score)
			}
			return
		}
	}

	t.Fatal("expected habit reason")
}
