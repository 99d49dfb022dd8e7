package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"example.com/syncscript/backend/internal/models"
)

// Веса причин для объяснения. Нормированы так, что сумма взвешенных
// оценок не превышает 1.0 при любых входах (и дополнительно зажимается).
const (
	weightUrgency  = 0.25
	weightEnergy   = 0.30
	weightHabit    = 0.20
	weightPriority = 0.15
	weightTime     = 0.10

	maxConfidence       = 95
	strongReasonCutoff  = 0.7
	confidencePerStrong = 15
)

type ReasonType string

const (
	ReasonUrgency  ReasonType = "urgency"
	ReasonEnergy   ReasonType = "energy"
	ReasonHabit    ReasonType = "habit"
	ReasonPriority ReasonType = "priority"
	ReasonTime     ReasonType = "time"
	ReasonProject  ReasonType = "project"
)

type Reason struct {
	Type        ReasonType `json:"type"`
	Icon        string     `json:"icon"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Score       float64    `json:"score"`
}

type TaskExplanation struct {
	TaskID       uuid.UUID `json:"task_id"`
	TaskTitle    string    `json:"task_title"`
	OverallScore float64   `json:"overall_score"`
	Reasons      []Reason  `json:"reasons"`
	Confidence   int       `json:"confidence"`
}

type weightedReason struct {
	reason Reason
	weight float64
}

// GenerateExplanation строит человекочитаемое объяснение, почему задача
// предложена. Путь скоринга отдельный от ScoreTaskWithContext: другая
// аудитория и другие веса, но сигналы извлекаются общими помощниками.
func GenerateExplanation(task models.Task, fctx ContextualFactors) TaskExplanation {
	collected := make([]weightedReason, 0, 6)

	if task.DueDate != nil {
		collected = append(collected, weightedReason{
			reason: urgencyReason(daysUntilDue(*task.DueDate, fctx.CurrentTime)),
			weight: weightUrgency,
		})
	}

	collected = append(collected, weightedReason{
		reason: energyReason(energyDiff(task, fctx)),
		weight: weightEnergy,
	})

	if habit, ok := habitReason(task, fctx); ok {
		collected = append(collected, weightedReason{reason: habit, weight: weightHabit})
	}

	collected = append(collected, weightedReason{
		reason: priorityReason(task.Priority),
		weight: weightPriority,
	})

	collected = append(collected, weightedReason{
		reason: timeReason(task, fctx),
		weight: weightTime,
	})

	if task.ProjectID != nil {
		// Бонусная причина: показывается, но в сумму не входит.
		collected = append(collected, weightedReason{
			reason: Reason{
				Type:        ReasonProject,
				Icon:        "folder",
				Title:       "Project task",
				Description: "Part of an active project",
				Score:       0.5,
			},
			weight: 0,
		})
	}

	overall := 0.0
	strong := 0
	reasons := make([]Reason, 0, len(collected))
	for _, wr := range collected {
		overall += wr.reason.Score * wr.weight
		if wr.reason.Score > strongReasonCutoff {
			strong++
		}
		reasons = append(reasons, wr.reason)
	}

	if overall > 1.0 {
		overall = 1.0
	}

	confidence := 50 + confidencePerStrong*strong
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	sort.SliceStable(reasons, func(i, j int) bool {
		return reasons[i].Score > reasons[j].Score
	})

	return TaskExplanation{
		TaskID:       task.ID,
		TaskTitle:    task.Title,
		OverallScore: overall,
		Reasons:      reasons,
		Confidence:   confidence,
	}
}

func urgencyReason(days int) Reason {
	reason := Reason{Type: ReasonUrgency, Icon: "clock", Title: "Deadline approaching"}

	switch {
	case days < 0:
		reason.Description = fmt.Sprintf("Overdue by %d days", -days)
		reason.Score = 1.0
	case days == 0:
		reason.Description = "Due today"
		reason.Score = 0.9
	case days == 1:
		reason.Description = "Due tomorrow"
		reason.Score = 0.8
	case days <= 3:
		reason.Description = fmt.Sprintf("Due in %d days", days)
		reason.Score = 0.6
	case days <= 7:
		reason.Description = "Due this week"
		reason.Score = 0.4
	default:
		reason.Description = fmt.Sprintf("Due in %d days", days)
		reason.Score = 0.2
	}

	return reason
}

func energyReason(diff int) Reason {
	reason := Reason{Type: ReasonEnergy, Icon: "zap", Title: "Energy match"}

	switch {
	case diff == 0:
		reason.Description = "Perfect match for your current energy"
		reason.Score = 1.0
	case diff == 1:
		reason.Description = "Close to your current energy"
		reason.Score = 0.7
	case diff == 2:
		reason.Description = "Somewhat off your current energy"
		reason.Score = 0.4
	default:
		reason.Description = "Far from your current energy"
		reason.Score = 0.1
	}

	return reason
}

func habitReason(task models.Task, fctx ContextualFactors) (Reason, bool) {
	for _, tag := range task.Tags {
		for _, preference := range fctx.Preferences {
			if strings.EqualFold(tag, preference) {
				return Reason{
					Type:        ReasonHabit,
					Icon:        "repeat",
					Title:       "Matches your habits",
					Description: fmt.Sprintf("You often pick %q tasks", tag),
					Score:       0.8,
				}, true
			}
		}
	}

	hour := fctx.CurrentTime.Hour()
	title := strings.ToLower(task.Title)
	if (hour < 12 && strings.Contains(title, "morning")) ||
		(hour >= 17 && strings.Contains(title, "evening")) {
		return Reason{
			Type:        ReasonHabit,
			Icon:        "repeat",
			Title:       "Fits this time of day",
			Description: "Usually done around now",
			Score:       0.6,
		}, true
	}

	return Reason{}, false
}

func priorityReason(priority int) Reason {
	reason := Reason{Type: ReasonPriority, Icon: "flag", Title: "Priority"}

	switch {
	case priority >= 4:
		reason.Description = "High priority"
		reason.Score = 0.9
	case priority == 3:
		reason.Description = "Medium priority"
		reason.Score = 0.5
	default:
		reason.Description = "Low priority"
		reason.Score = 0.2
	}

	return reason
}

func timeReason(task models.Task, fctx ContextualFactors) Reason {
	duration := defaultDurationMinutes
	if task.EstimatedMinutes != nil {
		duration = *task.EstimatedMinutes
	}

	if duration <= fctx.AvailableMinutes {
		return Reason{
			Type:        ReasonTime,
			Icon:        "timer",
			Title:       "Time available",
			Description: fmt.Sprintf("Fits in your %d free minutes", fctx.AvailableMinutes),
			Score:       0.8,
		}
	}

	return Reason{
		Type:        ReasonTime,
		Icon:        "timer",
		Title:       "Time available",
		Description: "Longer than your free window",
		Score:       0.2,
	}
}
