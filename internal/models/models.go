package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

type GoalCategory string

const (
	TaskStatusOpen      TaskStatus = "open"
	TaskStatusCompleted TaskStatus = "completed"

	GoalCategoryEmergency GoalCategory = "emergency"
	GoalCategoryTravel    GoalCategory = "travel"
	GoalCategoryPurchase  GoalCategory = "purchase"
	GoalCategoryOther     GoalCategory = "other"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Project struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Color       *string   `json:"color,omitempty"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Task struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             uuid.UUID  `json:"user_id"`
	ProjectID          *uuid.UUID `json:"project_id,omitempty"`
	Title              string     `json:"title"`
	Description        *string    `json:"description,omitempty"`
	Status             TaskStatus `json:"status"`
	Priority           int        `json:"priority"`
	EnergyRequirement  int        `json:"energy_requirement"`
	EstimatedMinutes   *int       `json:"estimated_minutes,omitempty"`
	EstimatedCostCents *int64     `json:"estimated_cost_cents,omitempty"`
	CostCategory       *string    `json:"cost_category,omitempty"`
	Location           *string    `json:"location,omitempty"`
	RequiresOutdoor    bool       `json:"requires_outdoor"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	Tags               []string   `json:"tags"`
	SortOrder          int        `json:"sort_order"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type Subtask struct {
	ID          uuid.UUID `json:"id"`
	TaskID      uuid.UUID `json:"task_id"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"is_completed"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

type EnergyLog struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Level    int       `json:"level"`
	Note     *string   `json:"note,omitempty"`
	LoggedAt time.Time `json:"logged_at"`
}

// ComfortBand задает допустимый диапазон трат по категории.
// Инвариант 0 <= MinCents < IdealCents < MaxCents проверяется
// на границе записи (ValidateComfortBand), а не при чтении.
type ComfortBand struct {
	UserID     uuid.UUID `json:"user_id"`
	CategoryID string    `json:"category_id"`
	MinCents   int64     `json:"min_cents"`
	IdealCents int64     `json:"ideal_cents"`
	MaxCents   int64     `json:"max_cents"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type SavingsGoal struct {
	ID           uuid.UUID    `json:"id"`
	UserID       uuid.UUID    `json:"user_id"`
	Name         string       `json:"name"`
	Icon         string       `json:"icon"`
	Color        string       `json:"color"`
	Category     GoalCategory `json:"category"`
	TargetCents  int64        `json:"target_cents"`
	CurrentCents int64        `json:"current_cents"`
	Deadline     *time.Time   `json:"deadline,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type TaskTemplate struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Name              string    `json:"name"`
	Title             string    `json:"title"`
	Priority          int       `json:"priority"`
	EnergyRequirement int       `json:"energy_requirement"`
	EstimatedMinutes  *int      `json:"estimated_minutes,omitempty"`
	Tags              []string  `json:"tags"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	TokenHash  string     `json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	ReplacedBy *uuid.UUID `json:"replaced_by,omitempty"`
}
