package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/syncscript/backend/internal/models"
)

type BandRepository struct {
	db *pgxpool.Pool
}

// NewBandRepository создает репозиторий бюджетных диапазонов.
func NewBandRepository(db *pgxpool.Pool) *BandRepository {
	return &BandRepository{db: db}
}

// Upsert сохраняет диапазон пользователя для категории.
// Инвариант min < ideal < max проверяется до записи.
func (r *BandRepository) Upsert(ctx context.Context, band models.ComfortBand) (models.ComfortBand, error) {
	if err := models.ValidateComfortBand(band); err != nil {
		return band, err
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO comfort_bands (user_id, category_id, min_cents, ideal_cents, max_cents)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, category_id)
		 DO UPDATE SET min_cents = $3, ideal_cents = $4, max_cents = $5, updated_at = NOW()
		 RETURNING user_id, category_id, min_cents, ideal_cents, max_cents, updated_at`,
		band.UserID, band.CategoryID, band.MinCents, band.IdealCents, band.MaxCents,
	).Scan(&band.UserID, &band.CategoryID, &band.MinCents, &band.IdealCents, &band.MaxCents, &band.UpdatedAt)
	if err != nil {
		return band, err
	}

	return band, nil
}

// ListByUser возвращает все диапазоны пользователя.
func (r *BandRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ComfortBand, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, category_id, min_cents, ideal_cents, max_cents, updated_at
		 FROM comfort_bands
		 WHERE user_id = $1
		 ORDER BY category_id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bands := make([]models.ComfortBand, 0)
	for rows.Next() {
		var band models.ComfortBand
		err := rows.Scan(&band.UserID, &band.CategoryID, &band.MinCents, &band.IdealCents, &band.MaxCents, &band.UpdatedAt)
		if err != nil {
			return nil, err
		}
		bands = append(bands, band)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bands, nil
}

// Delete удаляет диапазон категории; скоринг вернется к значениям по умолчанию.
func (r *BandRepository) Delete(ctx context.Context, userID uuid.UUID, categoryID string) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM comfort_bands WHERE user_id = $1 AND category_id = $2`,
		userID, categoryID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
