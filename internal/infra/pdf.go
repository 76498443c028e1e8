package infra

// pdf.go — close-of-session report generation using go-pdf/fpdf.
// One A4 page per session: register and cashier, opening/closing figures,
// the variance line, and a table of every sale in the session.
// The output file is saved to storagePath/session_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/modulartear/posventa/internal/model"
)

// GenerateSessionReportPDF renders the close report for a closed session.
// Returns the absolute path of the generated file.
func GenerateSessionReportPDF(session *model.CashRegisterSession, sales []model.Sale, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("session_%s.pdf", session.ID.String())
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Cash Register Close Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, session.CashRegisterName, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Session info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	writeRow := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW*0.4, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW*0.6, 6, value, "", 1, "L", false, 0, "")
	}

	writeRow("Cashier", session.EmployeeName)
	writeRow("Opened", session.OpenedAt.Format("02/01/2006 15:04"))
	if session.ClosedAt != nil {
		writeRow("Closed", session.ClosedAt.Format("02/01/2006 15:04"))
	}
	writeRow("Opening balance", formatMoney(session.OpeningBalance))
	writeRow("Cash sales", formatMoney(session.TotalCash))
	writeRow("Card/QR sales", formatMoney(session.TotalCard))
	writeRow("Expected in drawer", formatMoney(session.ExpectedBalance))
	if session.ClosingBalance != nil {
		writeRow("Counted", formatMoney(*session.ClosingBalance))
		variance := session.ClosingBalance.Sub(session.ExpectedBalance)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW*0.4, 6, "Variance", "", 0, "L", false, 0, "")
		if variance.IsNegative() {
			pdf.SetTextColor(180, 0, 0)
		}
		pdf.CellFormat(contentW*0.6, 6, formatMoney(variance), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)

	// ── Sales table ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, fmt.Sprintf("Sales (%d)", len(sales)), "", 1, "L", false, 0, "")

	col1 := contentW * 0.30 // time
	col2 := contentW * 0.25 // payment method
	col3 := contentW * 0.20 // items
	col4 := contentW * 0.25 // total

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 6, "Time", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Payment", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Items", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col4, 6, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, sale := range sales {
		itemCount := 0
		for _, item := range sale.Items {
			itemCount += item.Quantity
		}
		pdf.CellFormat(col1, 5, sale.Date.Format("02/01 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, sale.PaymentMethod, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, fmt.Sprintf("%d", itemCount), "", 0, "C", false, 0, "")
		pdf.CellFormat(col4, 5, formatMoney(sale.Total), "", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

func formatMoney(d decimal.Decimal) string {
	return "$ " + d.StringFixed(2)
}
