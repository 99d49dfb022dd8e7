package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/syncscript/backend/internal/models"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

// TaskInput — данные для создания или обновления задачи.
type TaskInput struct {
	ProjectID          *uuid.UUID
	Title              string
	Description        *string
	Priority           int
	EnergyRequirement  int
	EstimatedMinutes   *int
	EstimatedCostCents *int64
	CostCategory       *string
	Location           *string
	RequiresOutdoor    bool
	DueDate            *time.Time
	Tags               []string
}

// TaskFilter — фильтры выборки задач.
type TaskFilter struct {
	Status    *models.TaskStatus
	ProjectID *uuid.UUID
	Tag       *string
}

const taskColumns = `id, user_id, project_id, title, description, status, priority, energy_requirement,
	estimated_minutes, estimated_cost_cents, cost_category, location, requires_outdoor,
	due_date, tags, sort_order, completed_at, created_at, updated_at`

// NewTaskRepository создает репозиторий задач.
func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create создает задачу пользователя.
func (r *TaskRepository) Create(ctx context.Context, userID uuid.UUID, input TaskInput) (models.Task, error) {
	var task models.Task

	if input.ProjectID != nil {
		owned, err := r.projectOwned(ctx, userID, *input.ProjectID)
		if err != nil {
			return task, err
		}
		if !owned {
			return task, ErrNotFound
		}
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO tasks (user_id, project_id, title, description, status, priority, energy_requirement,
		                    estimated_minutes, estimated_cost_cents, cost_category, location, requires_outdoor,
		                    due_date, tags, sort_order)
		 VALUES ($1, $2, $3, $4, 'open', $5, $6, $7, $8, $9, $10, $11, $12, $13,
		         COALESCE((SELECT MAX(sort_order) + 1 FROM tasks WHERE user_id = $1), 0))
		 RETURNING `+taskColumns,
		userID, input.ProjectID, input.Title, input.Description, input.Priority, input.EnergyRequirement,
		input.EstimatedMinutes, input.EstimatedCostCents, input.CostCategory, input.Location,
		input.RequiresOutdoor, input.DueDate, tags,
	).Scan(taskFields(&task)...)
	if err != nil {
		return task, err
	}

	return task, nil
}

// Update обновляет задачу пользователя.
func (r *TaskRepository) Update(ctx context.Context, userID, taskID uuid.UUID, input TaskInput) (models.Task, error) {
	var task models.Task

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	err := r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET project_id = $3,
		     title = $4,
		     description = $5,
		     priority = $6,
		     energy_requirement = $7,
		     estimated_minutes = $8,
		     estimated_cost_cents = $9,
		     cost_category = $10,
		     location = $11,
		     requires_outdoor = $12,
		     due_date = $13,
		     tags = $14,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+taskColumns,
		taskID, userID, input.ProjectID, input.Title, input.Description, input.Priority,
		input.EnergyRequirement, input.EstimatedMinutes, input.EstimatedCostCents, input.CostCategory,
		input.Location, input.RequiresOutdoor, input.DueDate, tags,
	).Scan(taskFields(&task)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task, ErrNotFound
		}
		return task, err
	}

	return task, nil
}

// Delete удаляет задачу пользователя.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		taskID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID возвращает задачу пользователя по идентификатору.
func (r *TaskRepository) GetByID(ctx context.Context, userID, taskID uuid.UUID) (models.Task, error) {
	var task models.Task

	err := r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`,
		taskID, userID,
	).Scan(taskFields(&task)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task, ErrNotFound
		}
		return task, err
	}

	return task, nil
}

// ListByUser возвращает задачи пользователя с учетом фильтров.
func (r *TaskRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND status = $2`
	}
	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		query += ` AND project_id = $` + strconv.Itoa(len(args))
	}
	if filter.Tag != nil {
		args = append(args, *filter.Tag)
		query += ` AND $` + strconv.Itoa(len(args)) + ` = ANY(tags)`
	}

	query += ` ORDER BY sort_order, created_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(taskFields(&task)...); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// SetCompleted переключает статус задачи и проставляет completed_at.
func (r *TaskRepository) SetCompleted(ctx context.Context, userID, taskID uuid.UUID, completed bool) (models.Task, error) {
	var task models.Task

	status := models.TaskStatusOpen
	if completed {
		status = models.TaskStatusCompleted
	}

	err := r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET status = $3,
		     completed_at = CASE WHEN $3 = 'completed' THEN NOW() ELSE NULL END,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+taskColumns,
		taskID, userID, status,
	).Scan(taskFields(&task)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task, ErrNotFound
		}
		return task, err
	}

	return task, nil
}

// Reorder задает порядок задач пользователя по переданному списку.
func (r *TaskRepository) Reorder(ctx context.Context, userID uuid.UUID, taskIDs []uuid.UUID) error {
	if len(taskIDs) == 0 {
		return ErrInvalid
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var count int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND id = ANY($2)`,
		userID, taskIDs,
	).Scan(&count)
	if err != nil {
		return err
	}

	if count != len(taskIDs) {
		return ErrInvalid
	}

	cmd, err := tx.Exec(ctx,
		`UPDATE tasks AS t
		 SET sort_order = v.ord - 1
		 FROM unnest($1::uuid[]) WITH ORDINALITY AS v(id, ord)
		 WHERE t.id = v.id AND t.user_id = $2`,
		taskIDs, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() != int64(len(taskIDs)) {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

// Duplicate создает открытую копию задачи вместе с чек-листом.
func (r *TaskRepository) Duplicate(ctx context.Context, userID, taskID uuid.UUID) (models.Task, error) {
	var task models.Task

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return task, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = tx.QueryRow(ctx,
		`INSERT INTO tasks (user_id, project_id, title, description, status, priority, energy_requirement,
		                    estimated_minutes, estimated_cost_cents, cost_category, location, requires_outdoor,
		                    due_date, tags, sort_order)
		 SELECT user_id, project_id, left('Copy of ' || title, 200), description, 'open', priority,
		        energy_requirement, estimated_minutes, estimated_cost_cents, cost_category, location,
		        requires_outdoor, due_date, tags,
		        COALESCE((SELECT MAX(sort_order) + 1 FROM tasks WHERE user_id = $2), 0)
		 FROM tasks WHERE id = $1 AND user_id = $2
		 RETURNING `+taskColumns,
		taskID, userID,
	).Scan(taskFields(&task)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task, ErrNotFound
		}
		return task, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO subtasks (id, task_id, title, sort_order)
		 SELECT gen_random_uuid(), $2, title, sort_order
		 FROM subtasks WHERE task_id = $1`,
		taskID, task.ID,
	)
	if err != nil {
		return task, err
	}

	if err := tx.Commit(ctx); err != nil {
		return task, err
	}

	return task, nil
}

// CountCompletedBetween считает завершенные задачи за период.
func (r *TaskRepository) CountCompletedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error) {
	var count int

	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks
		 WHERE user_id = $1 AND completed_at >= $2 AND completed_at < $3`,
		userID, from, to,
	).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// CreateSubtask добавляет пункт чек-листа к задаче.
func (r *TaskRepository) CreateSubtask(ctx context.Context, userID, taskID uuid.UUID, title string) (models.Subtask, error) {
	var subtask models.Subtask

	owned, err := r.taskOwned(ctx, userID, taskID)
	if err != nil {
		return subtask, err
	}
	if !owned {
		return subtask, ErrNotFound
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO subtasks (id, task_id, title, sort_order)
		 VALUES ($1, $2, $3,
		         COALESCE((SELECT MAX(sort_order) + 1 FROM subtasks WHERE task_id = $2), 0))
		 RETURNING id, task_id, title, is_completed, sort_order, created_at`,
		uuid.New(), taskID, title,
	).Scan(&subtask.ID, &subtask.TaskID, &subtask.Title, &subtask.IsCompleted, &subtask.SortOrder, &subtask.CreatedAt)
	if err != nil {
		return subtask, err
	}

	return subtask, nil
}

// ListSubtasks возвращает пункты чек-листа задачи.
func (r *TaskRepository) ListSubtasks(ctx context.Context, userID, taskID uuid.UUID) ([]models.Subtask, error) {
	owned, err := r.taskOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrNotFound
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, task_id, title, is_completed, sort_order, created_at
		 FROM subtasks
		 WHERE task_id = $1
		 ORDER BY sort_order, created_at`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subtasks := make([]models.Subtask, 0)
	for rows.Next() {
		var subtask models.Subtask
		err := rows.Scan(&subtask.ID, &subtask.TaskID, &subtask.Title, &subtask.IsCompleted, &subtask.SortOrder, &subtask.CreatedAt)
		if err != nil {
			return nil, err
		}
		subtasks = append(subtasks, subtask)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subtasks, nil
}

// ToggleSubtask переключает готовность пункта чек-листа.
func (r *TaskRepository) ToggleSubtask(ctx context.Context, userID, subtaskID uuid.UUID) (models.Subtask, error) {
	var subtask models.Subtask

	err := r.db.QueryRow(ctx,
		`UPDATE subtasks AS s
		 SET is_completed = NOT s.is_completed
		 FROM tasks t
		 WHERE s.id = $1 AND s.task_id = t.id AND t.user_id = $2
		 RETURNING s.id, s.task_id, s.title, s.is_completed, s.sort_order, s.created_at`,
		subtaskID, userID,
	).Scan(&subtask.ID, &subtask.TaskID, &subtask.Title, &subtask.IsCompleted, &subtask.SortOrder, &subtask.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return subtask, ErrNotFound
		}
		return subtask, err
	}

	return subtask, nil
}

// DeleteSubtask удаляет пункт чек-листа.
func (r *TaskRepository) DeleteSubtask(ctx context.Context, userID, subtaskID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM subtasks s
		 USING tasks t
		 WHERE s.id = $1 AND s.task_id = t.id AND t.user_id = $2`,
		subtaskID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *TaskRepository) taskOwned(ctx context.Context, userID, taskID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1 AND user_id = $2)`,
		taskID, userID,
	).Scan(&exists)
	return exists, err
}

func (r *TaskRepository) projectOwned(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1 AND user_id = $2)`,
		projectID, userID,
	).Scan(&exists)
	return exists, err
}

func taskFields(task *models.Task) []interface{} {
	return []interface{}{
		&task.ID, &task.UserID, &task.ProjectID, &task.Title, &task.Description, &task.Status,
		&task.Priority, &task.EnergyRequirement, &task.EstimatedMinutes, &task.EstimatedCostCents,
		&task.CostCategory, &task.Location, &task.RequiresOutdoor, &task.DueDate, &task.Tags,
		&task.SortOrder, &task.CompletedAt, &task.CreatedAt, &task.UpdatedAt,
	}
}

