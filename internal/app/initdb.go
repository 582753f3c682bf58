package app

import (
	"context"
	"fmt"
	"log"

	"github.com/IT-Nick/compliance-bot/internal/infra/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schema таблицы отчетов и сохраненного прогресса
const schema = `
CREATE TABLE IF NOT EXISTS training_reports (
	id             TEXT PRIMARY KEY,
	username       TEXT NOT NULL,
	overall_result BOOLEAN NOT NULL,
	payload        JSONB NOT NULL,
	received_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS training_reports_username_idx ON training_reports (username);
CREATE TABLE IF NOT EXISTS user_progress (
	username   TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// InitDatabase устанавливает подключение к базе данных
func InitDatabase(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	const op = "app.InitDatabase"

	connConfig, err := pgxpool.ParseConfig(cfg.StorageSource())
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse database config: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, connConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create database pool: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	log.Println("Database connected successfully!")
	return db, nil
}

// MigrateDatabase создает таблицы, если их еще нет
func MigrateDatabase(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("app.MigrateDatabase: %w", err)
	}
	return nil
}
