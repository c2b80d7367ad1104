// Package export renders saved profit/loss reports as spreadsheets.
package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/staffline/expense-erp/internal/models"
	"github.com/staffline/expense-erp/internal/storage"
)

// ExcelExporter writes a profit/loss snapshot to an .xlsx workbook in
// the managed export directory.
type ExcelExporter struct {
	folders *storage.FolderManager
	logger  *zap.Logger
}

// NewExcelExporter creates an exporter writing through the folder
// manager.
func NewExcelExporter(folders *storage.FolderManager, logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{folders: folders, logger: logger}
}

const sheetName = "Profit & Loss"

// Export writes the report to disk and returns the file path.
func (e *ExcelExporter) Export(report *models.ProfitLossReport) (string, error) {
	dir, err := e.folders.PeriodFolder(report.Year, report.Month)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to remove default sheet: %w", err)
	}

	e.setCell(f, "A1", "Period")
	e.setCell(f, "B1", periodLabel(report))
	e.setCell(f, "A2", "Generated")
	e.setCell(f, "B2", report.CreatedAt.Format(time.RFC3339))

	headers := []string{"Expense ID", "Company", "Candidate", "Invoice #", "Revenue", "Expense", "Profit"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		e.setCell(f, cell, h)
	}

	row := 5
	for _, r := range report.Rows {
		values := []interface{}{
			r.ExpenseID, r.Company, r.CandidateName, r.InvoiceNumber,
			r.Revenue.InexactFloat64(), r.Expense.InexactFloat64(), r.Profit.InexactFloat64(),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			e.setCell(f, cell, v)
		}
		row++
	}

	row++
	e.setCell(f, fmt.Sprintf("D%d", row), "Totals")
	e.setCell(f, fmt.Sprintf("E%d", row), report.Revenue.InexactFloat64())
	e.setCell(f, fmt.Sprintf("F%d", row), report.Expenses.InexactFloat64())
	e.setCell(f, fmt.Sprintf("G%d", row), report.Profit.InexactFloat64())

	name := e.folders.SanitizeFileName(
		fmt.Sprintf("profit_loss_%s_%d", periodLabel(report), report.ID))
	path := filepath.Join(dir, name+".xlsx")

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("Report exported",
		zap.Int64("report_id", report.ID),
		zap.String("path", path))
	return path, nil
}

func (e *ExcelExporter) setCell(f *excelize.File, cell string, value interface{}) {
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		e.logger.Warn("Failed to set cell", zap.String("cell", cell), zap.Error(err))
	}
}

func periodLabel(report *models.ProfitLossReport) string {
	if report.Period == models.PeriodMonthly && report.Month > 0 {
		return fmt.Sprintf("%04d-%02d", report.Year, report.Month)
	}
	return fmt.Sprintf("%04d", report.Year)
}
