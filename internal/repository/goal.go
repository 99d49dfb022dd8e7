package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/syncscript/backend/internal/models"
)

type GoalRepository struct {
	db *pgxpool.Pool
}

// GoalInput — данные для создания или обновления цели накоплений.
type GoalInput struct {
	Name        string
	Icon        string
	Color       string
	Category    models.GoalCategory
	TargetCents int64
	Deadline    *time.Time
}

const goalColumns = `id, user_id, name, icon, color, category, target_cents, current_cents, deadline, created_at, updated_at`

// NewGoalRepository создает репозиторий целей накоплений.
func NewGoalRepository(db *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{db: db}
}

// Create создает цель накоплений.
func (r *GoalRepository) Create(ctx context.Context, userID uuid.UUID, input GoalInput) (models.SavingsGoal, error) {
	var goal models.SavingsGoal

	err := r.db.QueryRow(ctx,
		`INSERT INTO savings_goals (user_id, name, icon, color, category, target_cents, deadline)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+goalColumns,
		userID, input.Name, input.Icon, input.Color, input.Category, input.TargetCents, input.Deadline,
	).Scan(goalFields(&goal)...)
	if err != nil {
		return goal, err
	}

	return goal, nil
}

// Update обновляет параметры цели, текущая сумма не меняется.
func (r *GoalRepository) Update(ctx context.Context, userID, goalID uuid.UUID, input GoalInput) (models.SavingsGoal, error) {
	var goal models.SavingsGoal

	err := r.db.QueryRow(ctx,
		`UPDATE savings_goals
		 SET name = $3, icon = $4, color = $5, category = $6, target_cents = $7, deadline = $8, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+goalColumns,
		goalID, userID, input.Name, input.Icon, input.Color, input.Category, input.TargetCents, input.Deadline,
	).Scan(goalFields(&goal)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return goal, ErrNotFound
		}
		return goal, err
	}

	return goal, nil
}

// Delete удаляет цель пользователя.
func (r *GoalRepository) Delete(ctx context.Context, userID, goalID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM savings_goals WHERE id = $1 AND user_id = $2`,
		goalID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID возвращает цель пользователя по идентификатору.
func (r *GoalRepository) GetByID(ctx context.Context, userID, goalID uuid.UUID) (models.SavingsGoal, error) {
	var goal models.SavingsGoal

	err := r.db.QueryRow(ctx,
		`SELECT `+goalColumns+` FROM savings_goals WHERE id = $1 AND user_id = $2`,
		goalID, userID,
	).Scan(goalFields(&goal)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return goal, ErrNotFound
		}
		return goal, err
	}

	return goal, nil
}

// ListByUser возвращает цели пользователя, новые первыми.
func (r *GoalRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.SavingsGoal, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+goalColumns+` FROM savings_goals WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make([]models.SavingsGoal, 0)
	for rows.Next() {
		var goal models.SavingsGoal
		if err := rows.Scan(goalFields(&goal)...); err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return goals, nil
}

// AddProgress увеличивает накопленную сумму, не превышая целевую.
// Для уже достигнутой цели возвращает ErrGoalCompleted.
func (r *GoalRepository) AddProgress(ctx context.Context, userID, goalID uuid.UUID, amountCents int64) (models.SavingsGoal, error) {
	var goal models.SavingsGoal

	if amountCents <= 0 {
		return goal, ErrInvalid
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return goal, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = tx.QueryRow(ctx,
		`SELECT `+goalColumns+` FROM savings_goals WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		goalID, userID,
	).Scan(goalFields(&goal)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return goal, ErrNotFound
		}
		return goal, err
	}

	if goal.CurrentCents >= goal.TargetCents {
		return goal, ErrGoalCompleted
	}

	next := goal.CurrentCents + amountCents
	if next > goal.TargetCents {
		next = goal.TargetCents
	}

	err = tx.QueryRow(ctx,
		`UPDATE savings_goals
		 SET current_cents = $3, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+goalColumns,
		goalID, userID, next,
	).Scan(goalFields(&goal)...)
	if err != nil {
		return goal, err
	}

	if err := tx.Commit(ctx); err != nil {
		return goal, err
	}

	return goal, nil
}

func goalFields(goal *models.SavingsGoal) []interface{} {
	return []interface{}{
		&goal.ID, &goal.UserID, &goal.Name, &goal.Icon, &goal.Color, &goal.Category,
		&goal.TargetCents, &goal.CurrentCents, &goal.Deadline, &goal.CreatedAt, &goal.UpdatedAt,
	}
}
