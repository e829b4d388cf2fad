package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"horoscope-api/internal/model"
)

type JournalRepository struct {
	pool *pgxpool.Pool
}

func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

func (r *JournalRepository) Create(ctx context.Context, e model.JournalEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO journal_entries (id, user_id, intention, gratitude, status, category, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.UserID, e.Intention, e.Gratitude, e.Status, e.Category, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create journal entry: %w", err)
	}
	return nil
}

// FindByID scopes the lookup to the owner so one user can never read
// another user's entries.
func (r *JournalRepository) FindByID(ctx context.Context, userID string, entryID string) (model.JournalEntry, error) {
	var e model.JournalEntry
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, intention, gratitude, status, category, created_at, updated_at
		 FROM journal_entries WHERE id = $1 AND user_id = $2`, entryID, userID).
		Scan(&e.ID, &e.UserID, &e.Intention, &e.Gratitude, &e.Status, &e.Category, &e.CreatedAt, &e.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.JournalEntry{}, model.ErrJournalEntryNotFound
	}
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("find journal entry: %w", err)
	}
	return e, nil
}

func (r *JournalRepository) ListByUser(ctx context.Context, userID string, offset int, limit int) ([]model.JournalEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, intention, gratitude, status, category, created_at, updated_at
		 FROM journal_entries WHERE user_id = $1
		 ORDER BY created_at DESC OFFSET $2 LIMIT $3`, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.JournalEntry, 0)
	for rows.Next() {
		var e model.JournalEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Intention, &e.Gratitude, &e.Status, &e.Category, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *JournalRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM journal_entries WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count journal entries: %w", err)
	}
	return count, nil
}

func (r *JournalRepository) Update(ctx context.Context, e model.JournalEntry) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE journal_entries SET intention = $3, gratitude = $4, status = $5, category = $6, updated_at = $7
		 WHERE id = $1 AND user_id = $2`,
		e.ID, e.UserID, e.Intention, e.Gratitude, e.Status, e.Category, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update journal entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrJournalEntryNotFound
	}
	return nil
}

func (r *JournalRepository) Delete(ctx context.Context, userID string, entryID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM journal_entries WHERE id = $1 AND user_id = $2`, entryID, userID)
	if err != nil {
		return fmt.Errorf("delete journal entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrJournalEntryNotFound
	}
	return nil
}
