// Package export renders invoice listings as spreadsheets.
package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-dashboard/internal/application/port"
	"github.com/garyjia/invoice-dashboard/internal/domain/entity"
)

const (
	sheetName       = "Invoices"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headers = []string{"Invoice ID", "Customer", "Email", "Date", "Amount", "Status"}

// XLSXExporter writes invoice rows to a single-sheet workbook
type XLSXExporter struct {
	logger *zap.Logger
}

// NewXLSXExporter creates a new spreadsheet exporter
func NewXLSXExporter(logger *zap.Logger) *XLSXExporter {
	return &XLSXExporter{logger: logger}
}

// ContentType returns the MIME type of the exported document
func (e *XLSXExporter) ContentType() string {
	return xlsxContentType
}

// FileExtension returns the exported file extension
func (e *XLSXExporter) FileExtension() string {
	return ".xlsx"
}

// Export writes a header row followed by one row per invoice. Amounts are
// written in dollars with a currency number format.
func (e *XLSXExporter) Export(rows []*entity.InvoiceRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	currencyFmt := "$#,##0.00"
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &currencyFmt})
	if err != nil {
		return nil, fmt.Errorf("failed to create amount style: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "F1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header row: %w", err)
	}

	for i, row := range rows {
		line := i + 2
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return nil, err
		}

		amount, _ := decimal.New(row.AmountCents, -2).Float64()
		values := []interface{}{
			row.ID,
			row.Name,
			row.Email,
			row.Date.Format(entity.DateLayout),
			amount,
			row.Status,
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", line, err)
		}

		amountCell, _ := excelize.CoordinatesToCellName(5, line)
		if err := f.SetCellStyle(sheetName, amountCell, amountCell, amountStyle); err != nil {
			return nil, fmt.Errorf("failed to style amount cell: %w", err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "C", 32); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Debug("Invoice workbook rendered", zap.Int("rows", len(rows)), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// Verify interface compliance
var _ port.InvoiceExporter = (*XLSXExporter)(nil)
