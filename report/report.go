package report

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/IT-Nick/compliance-bot/internal/domain/dashboard"
	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	"github.com/IT-Nick/compliance-bot/internal/domain/progress"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// Options параметры формирования PDF
type Options struct {
	// VerifyURL адрес для QR-кода на сертификате. Пустой - QR-код содержит id отчета.
	VerifyURL string
}

// GeneratePDF формирует PDF по отчету. При успешном итоге первой страницей идет сертификат,
// затем детализация по квизам.
func GeneratePDF(r model.TrainingReport, quizzes []model.Quiz, opts Options) ([]byte, error) {
	if r.User == nil {
		return nil, fmt.Errorf("report %s has no user", r.ID)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if r.OverallResult {
		if err := certificatePage(pdf, tr, r, opts); err != nil {
			return nil, err
		}
	}
	breakdownPage(pdf, tr, r, quizzes)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename имя файла PDF для отчета
func Filename(r model.TrainingReport) string {
	name := "report"
	if r.User != nil && r.User.Username != "" {
		name = strings.ToLower(r.User.Username)
	}
	if r.OverallResult {
		return name + "_certificate.pdf"
	}
	return name + "_report.pdf"
}

func certificatePage(pdf *gofpdf.Fpdf, tr func(string) string, r model.TrainingReport, opts Options) error {
	pdf.AddPageFormat("L", gofpdf.SizeType{Wd: 297, Ht: 210})
	pdf.SetDrawColor(59, 130, 246)
	pdf.SetLineWidth(1.5)
	pdf.Rect(10, 10, 277, 190, "D")

	pdf.SetY(35)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(59, 130, 246)
	pdf.CellFormat(0, 8, "CERTIFICATE OF COMPLETION", "", 1, "C", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Times", "B", 32)
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(0, 14, "IT Security Policy Training", "", 1, "C", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, "This certificate is proudly presented to", "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Times", "B", 28)
	pdf.SetTextColor(30, 64, 175)
	pdf.CellFormat(0, 14, tr(r.User.FullName), "", 1, "C", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(71, 85, 105)
	pdf.CellFormat(0, 8, "for successfully completing the mandatory IT Security Policy training modules.", "", 1, "C", false, 0, "")

	// подписи
	pdf.SetDrawColor(100, 116, 139)
	pdf.SetLineWidth(0.4)
	pdf.Line(60, 160, 120, 160)
	pdf.Line(177, 160, 237, 160)
	pdf.SetTextColor(15, 23, 42)
	pdf.SetFont("Times", "", 14)
	pdf.SetXY(60, 150)
	pdf.CellFormat(60, 8, dashboard.CompletionDate(r), "", 0, "C", false, 0, "")
	pdf.SetXY(177, 150)
	pdf.CellFormat(60, 8, "Authorized Signatory", "", 0, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 116, 139)
	pdf.SetXY(60, 162)
	pdf.CellFormat(60, 6, "DATE OF COMPLETION", "", 0, "C", false, 0, "")
	pdf.SetXY(177, 162)
	pdf.CellFormat(60, 6, "IT DEPARTMENT", "", 0, "C", false, 0, "")

	content := r.ID
	if opts.VerifyURL != "" {
		content = opts.VerifyURL
	}
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	name := "qr_" + r.ID
	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, imgOpts, bytes.NewReader(png))
	pdf.ImageOptions(name, 250, 170, 25, 25, false, imgOpts, 0, "")
	return pdf.Error()
}

func breakdownPage(pdf *gofpdf.Fpdf, tr func(string) string, r model.TrainingReport, quizzes []model.Quiz) {
	pdf.AddPage()
	pdf.SetTextColor(15, 23, 42)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 10, "Training Report", "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 12)
	info := fmt.Sprintf("Name: %s\nUsername: %s\nReport ID: %s\nSubmitted: %s\nOverall result: %s\n",
		r.User.FullName, r.User.Username, r.ID, dashboard.CompletionDate(r), dashboard.ResultLabel(r.OverallResult))
	pdf.MultiCell(0, 7, tr(info), "", "L", false)
	pdf.Ln(4)

	for _, row := range progress.Breakdown(r.QuizProgress, quizzes) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 7, tr(row.Name), "", "L", false)

		pdf.SetFont("Helvetica", "", 11)
		if len(row.Weaknesses) == 1 && row.Weaknesses[0] == progress.QuizNotTaken && row.Total == 0 {
			pdf.MultiCell(0, 6, progress.QuizNotTaken, "", "L", false)
			pdf.Ln(3)
			continue
		}
		pdf.MultiCell(0, 6, fmt.Sprintf("Result: %s (%d/%d - %d%%)", dashboard.ResultLabel(row.Passed), row.Score, row.Total, row.Percentage), "", "L", false)
		if len(row.Weaknesses) > 0 {
			pdf.MultiCell(0, 6, "Areas of Weakness:", "", "L", false)
			for _, w := range row.Weaknesses {
				pdf.MultiCell(0, 6, tr("- "+w), "", "L", false)
			}
		}
		pdf.Ln(3)
	}
}

// CertificateURL адрес сертификата на сервере отчетов. Пустой publicURL - пустой адрес.
func CertificateURL(publicURL, reportID string) string {
	if publicURL == "" {
		return ""
	}
	return strings.TrimRight(publicURL, "/") + "/reports/" + url.PathEscape(reportID) + "/certificate"
}
