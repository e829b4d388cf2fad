package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"horoscope-api/internal/model"
)

type TarotRepository struct {
	pool *pgxpool.Pool
}

func NewTarotRepository(pool *pgxpool.Pool) *TarotRepository {
	return &TarotRepository{pool: pool}
}

func (r *TarotRepository) Create(ctx context.Context, reading model.TarotReading) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tarot_history (id, user_id, card_id, is_reversed, position, reading_date)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		reading.ID, reading.UserID, reading.CardID, reading.IsReversed, reading.Position, reading.ReadingDate)
	if err != nil {
		return fmt.Errorf("create tarot reading: %w", err)
	}
	return nil
}

func (r *TarotRepository) ListByUser(ctx context.Context, userID string, offset int, limit int) ([]model.TarotReading, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, card_id, is_reversed, position, reading_date
		 FROM tarot_history WHERE user_id = $1
		 ORDER BY reading_date DESC OFFSET $2 LIMIT $3`, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list tarot history: %w", err)
	}
	defer rows.Close()

	readings := make([]model.TarotReading, 0)
	for rows.Next() {
		var t model.TarotReading
		if err := rows.Scan(&t.ID, &t.UserID, &t.CardID, &t.IsReversed, &t.Position, &t.ReadingDate); err != nil {
			return nil, fmt.Errorf("scan tarot reading: %w", err)
		}
		readings = append(readings, t)
	}
	return readings, rows.Err()
}

func (r *TarotRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tarot_history WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count tarot history: %w", err)
	}
	return count, nil
}
