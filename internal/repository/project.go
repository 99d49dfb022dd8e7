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

type ProjectRepository struct {
	db *pgxpool.Pool
}

// ProjectInput — данные для создания или обновления проекта.
type ProjectInput struct {
	Name        string
	Description *string
	Color       *string
}

// NewProjectRepository создает репозиторий проектов.
func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create создает проект пользователя.
func (r *ProjectRepository) Create(ctx context.Context, userID uuid.UUID, input ProjectInput) (models.Project, error) {
	var project models.Project

	err := r.db.QueryRow(ctx,
		`INSERT INTO projects (user_id, name, description, color, sort_order)
		 VALUES ($1, $2, $3, $4,
		         COALESCE((SELECT MAX(sort_order) + 1 FROM projects WHERE user_id = $1), 0))
		 RETURNING id, user_id, name, description, color, sort_order, created_at, updated_at`,
		userID, input.Name, input.Description, input.Color,
	).Scan(&project.ID, &project.UserID, &project.Name, &project.Description,
		&project.Color, &project.SortOrder, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return project, ErrConflict
		}
		return project, err
	}

	return project, nil
}

// Update обновляет проект пользователя.
func (r *ProjectRepository) Update(ctx context.Context, userID, projectID uuid.UUID, input ProjectInput) (models.Project, error) {
	var project models.Project

	err := r.db.QueryRow(ctx,
		`UPDATE projects
		 SET name = $3, description = $4, color = $5, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, name, description, color, sort_order, created_at, updated_at`,
		projectID, userID, input.Name, input.Description, input.Color,
	).Scan(&project.ID, &project.UserID, &project.Name, &project.Description,
		&project.Color, &project.SortOrder, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return project, ErrConflict
		}
		return project, err
	}

	return project, nil
}

// Delete удаляет проект; задачи проекта остаются без проекта.
func (r *ProjectRepository) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx,
		`UPDATE tasks SET project_id = NULL, updated_at = NOW()
		 WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	)
	if err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx,
		`DELETE FROM projects WHERE id = $1 AND user_id = $2`,
		projectID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

// GetByID возвращает проект пользователя по идентификатору.
func (r *ProjectRepository) GetByID(ctx context.Context, userID, projectID uuid.UUID) (models.Project, error) {
	var project models.Project

	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, name, description, color, sort_order, created_at, updated_at
		 FROM projects
		 WHERE id = $1 AND user_id = $2`,
		projectID, userID,
	).Scan(&project.ID, &project.UserID, &project.Name, &project.Description,
		&project.Color, &project.SortOrder, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project, ErrNotFound
		}
		return project, err
	}

	return project, nil
}

// ListByUser возвращает проекты пользователя в заданном порядке.
func (r *ProjectRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, description, color, sort_order, created_at, updated_at
		 FROM projects
		 WHERE user_id = $1
		 ORDER BY sort_order, created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		var project models.Project
		err := rows.Scan(&project.ID, &project.UserID, &project.Name, &project.Description,
			&project.Color, &project.SortOrder, &project.CreatedAt, &project.UpdatedAt)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}

// Reorder задает порядок проектов пользователя по переданному списку.
func (r *ProjectRepository) Reorder(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) error {
	if len(projectIDs) == 0 {
		return ErrInvalid
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	cmd, err := tx.Exec(ctx,
		`UPDATE projects AS p
		 SET sort_order = v.ord - 1
		 FROM unnest($1::uuid[]) WITH ORDINALITY AS v(id, ord)
		 WHERE p.id = v.id AND p.user_id = $2`,
		projectIDs, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() != int64(len(projectIDs)) {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}
