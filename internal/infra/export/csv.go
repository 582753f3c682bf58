package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/IT-Nick/compliance-bot/internal/domain/dashboard"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
)

var reportHeaders = []string{"User Name", "Username", "Status"}

// ReportsCSV выгружает отчеты в CSV: имя, логин, Pass/Fail. Строки разделены \r\n.
func ReportsCSV(reports []model.TrainingReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(reportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range reports {
		var user model.ReportUser
		if r.User != nil {
			user = *r.User
		}
		if err := w.Write([]string{user.FullName, user.Username, dashboard.ResultLabel(r.OverallResult)}); err != nil {
			return nil, fmt.Errorf("failed to write csv row %s: %w", r.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\r\n")), nil
}

// ReportsFilename имя файла выгрузки на дату
func ReportsFilename(now time.Time, ext string) string {
	return fmt.Sprintf("user_reports_%s.%s", now.Format("2006-01-02"), ext)
}
