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

// PostgresReportRepository хранит отчеты в таблице training_reports (JSONB)
type PostgresReportRepository struct {
	db *pgxpool.Pool
}

// NewPostgresReportRepository создает новый экземпляр PostgresReportRepository
func NewPostgresReportRepository(db *pgxpool.Pool) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

// List возвращает отчеты в порядке поступления
func (r *PostgresReportRepository) List(ctx context.Context) ([]model.TrainingReport, error) {
	rows, err := r.db.Query(ctx, "SELECT payload FROM training_reports ORDER BY received_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	reports := []model.TrainingReport{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		var report model.TrainingReport
		if err := json.Unmarshal(payload, &report); err != nil {
			return nil, fmt.Errorf("failed to decode report: %w", err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return reports, nil
}

// Get возвращает отчет по id
func (r *PostgresReportRepository) Get(ctx context.Context, id string) (model.TrainingReport, bool, error) {
	var payload []byte
	err := r.db.QueryRow(ctx, "SELECT payload FROM training_reports WHERE id = $1", id).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TrainingReport{}, false, nil
		}
		return model.TrainingReport{}, false, fmt.Errorf("failed to get report %s: %w", id, err)
	}
	var report model.TrainingReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return model.TrainingReport{}, false, fmt.Errorf("failed to decode report: %w", err)
	}
	return report, true, nil
}

// Add сохраняет отчет. Отчет с уже известным id игнорируется, возвращается false.
func (r *PostgresReportRepository) Add(ctx context.Context, report model.TrainingReport) (bool, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return false, fmt.Errorf("failed to encode report: %w", err)
	}
	username := ""
	if report.User != nil {
		username = report.User.Username
	}
	tag, err := r.db.Exec(ctx, `
		INSERT INTO training_reports (id, username, overall_result, payload, received_at)
		VALUES ($1, $2, $3, $4::jsonb, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO NOTHING
	`, report.ID, username, report.OverallResult, string(payload))
	if err != nil {
		return false, fmt.Errorf("failed to insert report: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Clear удаляет все отчеты
func (r *PostgresReportRepository) Clear(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM training_reports"); err != nil {
		return fmt.Errorf("failed to clear reports: %w", err)
	}
	return nil
}
