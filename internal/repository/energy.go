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

type EnergyRepository struct {
	db *pgxpool.Pool
}

// EnergyDaySummary — агрегат уровней энергии за день.
type EnergyDaySummary struct {
	Day      time.Time `json:"day"`
	Average  float64   `json:"average"`
	Min      int       `json:"min"`
	Max      int       `json:"max"`
	LogCount int       `json:"log_count"`
}

// NewEnergyRepository создает репозиторий журнала энергии.
func NewEnergyRepository(db *pgxpool.Pool) *EnergyRepository {
	return &EnergyRepository{db: db}
}

// Create добавляет запись уровня энергии.
func (r *EnergyRepository) Create(ctx context.Context, userID uuid.UUID, level int, note *string) (models.EnergyLog, error) {
	var log models.EnergyLog

	err := r.db.QueryRow(ctx,
		`INSERT INTO energy_logs (id, user_id, level, note)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, level, note, logged_at`,
		uuid.New(), userID, level, note,
	).Scan(&log.ID, &log.UserID, &log.Level, &log.Note, &log.LoggedAt)
	if err != nil {
		return log, err
	}

	return log, nil
}

// ListByUser возвращает записи за последние days дней, новые первыми.
func (r *EnergyRepository) ListByUser(ctx context.Context, userID uuid.UUID, days int) ([]models.EnergyLog, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, level, note, logged_at
		 FROM energy_logs
		 WHERE user_id = $1 AND logged_at >= NOW() - make_interval(days => $2)
		 ORDER BY logged_at DESC`,
		userID, days,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]models.EnergyLog, 0)
	for rows.Next() {
		var log models.EnergyLog
		if err := rows.Scan(&log.ID, &log.UserID, &log.Level, &log.Note, &log.LoggedAt); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}

// Latest возвращает последнюю запись энергии пользователя.
func (r *EnergyRepository) Latest(ctx context.Context, userID uuid.UUID) (models.EnergyLog, error) {
	var log models.EnergyLog

	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, level, note, logged_at
		 FROM energy_logs
		 WHERE user_id = $1
		 ORDER BY logged_at DESC
		 LIMIT 1`,
		userID,
	).Scan(&log.ID, &log.UserID, &log.Level, &log.Note, &log.LoggedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return log, ErrNotFound
		}
		return log, err
	}

	return log, nil
}

// Summary возвращает дневные агрегаты энергии за период.
func (r *EnergyRepository) Summary(ctx context.Context, userID uuid.UUID, days int) ([]EnergyDaySummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT date_trunc('day', logged_at) AS day,
		        AVG(level)::float8, MIN(level), MAX(level), COUNT(*)
		 FROM energy_logs
		 WHERE user_id = $1 AND logged_at >= NOW() - make_interval(days => $2)
		 GROUP BY day
		 ORDER BY day`,
		userID, days,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]EnergyDaySummary, 0)
	for rows.Next() {
		var s EnergyDaySummary
		if err := rows.Scan(&s.Day, &s.Average, &s.Min, &s.Max, &s.LogCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

// ActivityTimes возвращает моменты активности пользователя для расчета серий:
// записи энергии вместе с завершениями задач.
func (r *EnergyRepository) ActivityTimes(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	rows, err := r.db.Query(ctx,
		`SELECT logged_at FROM energy_logs WHERE user_id = $1
		 UNION ALL
		 SELECT completed_at FROM tasks WHERE user_id = $1 AND completed_at IS NOT NULL
		 ORDER BY 1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	times := make([]time.Time, 0)
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return times, nil
}
