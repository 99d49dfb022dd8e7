package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/syncscript/backend/internal/models"
)

type TemplateRepository struct {
	db *pgxpool.Pool
}

// TemplateInput — данные для создания или обновления шаблона задачи.
type TemplateInput struct {
	Name              string
	Title             string
	Priority          int
	EnergyRequirement int
	EstimatedMinutes  *int
	Tags              []string
}

const templateColumns = `id, user_id, name, title, priority, energy_requirement, estimated_minutes, tags, created_at, updated_at`

// NewTemplateRepository создает репозиторий шаблонов задач.
func NewTemplateRepository(db *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create создает шаблон задачи.
func (r *TemplateRepository) Create(ctx context.Context, userID uuid.UUID, input TemplateInput) (models.TaskTemplate, error) {
	var tpl models.TaskTemplate

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO task_templates (user_id, name, title, priority, energy_requirement, estimated_minutes, tags)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+templateColumns,
		userID, input.Name, input.Title, input.Priority, input.EnergyRequirement, input.EstimatedMinutes, tags,
	).Scan(templateFields(&tpl)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return tpl, ErrConflict
		}
		return tpl, err
	}

	return tpl, nil
}

// Update обновляет шаблон задачи.
func (r *TemplateRepository) Update(ctx context.Context, userID, templateID uuid.UUID, input TemplateInput) (models.TaskTemplate, error) {
	var tpl models.TaskTemplate

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	err := r.db.QueryRow(ctx,
		`UPDATE task_templates
		 SET name = $3, title = $4, priority = $5, energy_requirement = $6,
		     estimated_minutes = $7, tags = $8, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+templateColumns,
		templateID, userID, input.Name, input.Title, input.Priority,
		input.EnergyRequirement, input.EstimatedMinutes, tags,
	).Scan(templateFields(&tpl)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tpl, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return tpl, ErrConflict
		}
		return tpl, err
	}

	return tpl, nil
}

// Delete удаляет шаблон пользователя.
func (r *TemplateRepository) Delete(ctx context.Context, userID, templateID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM task_templates WHERE id = $1 AND user_id = $2`,
		templateID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID возвращает шаблон пользователя по идентификатору.
func (r *TemplateRepository) GetByID(ctx context.Context, userID, templateID uuid.UUID) (models.TaskTemplate, error) {
	var tpl models.TaskTemplate

	err := r.db.QueryRow(ctx,
		`SELECT `+templateColumns+` FROM task_templates WHERE id = $1 AND user_id = $2`,
		templateID, userID,
	).Scan(templateFields(&tpl)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tpl, ErrNotFound
		}
		return tpl, err
	}

	return tpl, nil
}

// ListByUser возвращает шаблоны пользователя по имени.
func (r *TemplateRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TaskTemplate, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+templateColumns+` FROM task_templates WHERE user_id = $1 ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]models.TaskTemplate, 0)
	for rows.Next() {
		var tpl models.TaskTemplate
		if err := rows.Scan(templateFields(&tpl)...); err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

func templateFields(tpl *models.TaskTemplate) []interface{} {
	return []interface{}{
		&tpl.ID, &tpl.UserID, &tpl.Name, &tpl.Title, &tpl.Priority, &tpl.EnergyRequirement,
		&tpl.EstimatedMinutes, &tpl.Tags, &tpl.CreatedAt, &tpl.UpdatedAt,
	}
}
