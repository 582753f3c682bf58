package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresProgressRepository хранит прогресс в таблице user_progress (JSONB)
type PostgresProgressRepository struct {
	db *pgxpool.Pool
}

// NewPostgresProgressRepository создает новый экземпляр PostgresProgressRepository
func NewPostgresProgressRepository(db *pgxpool.Pool) *PostgresProgressRepository {
	return &PostgresProgressRepository{db: db}
}

// Get возвращает прогресс пользователя
func (r *PostgresProgressRepository) Get(ctx context.Context, username string) (model.ProgressMap, bool, error) {
	var payload []byte
	err := r.db.QueryRow(ctx, "SELECT payload FROM user_progress WHERE username = $1", username).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get progress for %s: %w", username, err)
	}
	var m model.ProgressMap
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, false, fmt.Errorf("failed to decode progress: %w", err)
	}
	return m, true, nil
}

// Save заменяет прогресс пользователя
func (r *PostgresProgressRepository) Save(ctx context.Context, username string, m model.ProgressMap) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO user_progress (username, payload, updated_at)
		VALUES ($1, $2::jsonb, CURRENT_TIMESTAMP)
		ON CONFLICT (username) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`, username, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save progress for %s: %w", username, err)
	}
	return nil
}

// Delete удаляет прогресс пользователя. Возвращает false, если прогресса не было.
func (r *PostgresProgressRepository) Delete(ctx context.Context, username string) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM user_progress WHERE username = $1", username)
	if err != nil {
		return false, fmt.Errorf("failed to delete progress for %s: %w", username, err)
	}
	return tag.RowsAffected() > 0, nil
}
