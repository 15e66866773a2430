package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"studyhall-backend/internal/domains/payment/model"
)

const exportRowLimit = 1000

// ExportToExcel builds a spreadsheet of the payments in the window, newest
// first, capped at exportRowLimit rows. Reversed payments are included and
// flagged so the export reconciles against the ledger.
func (s *paymentService) ExportToExcel(ctx context.Context, from, to *time.Time) (*excelize.File, error) {
	payments, err := s.payments.List(ctx, model.ListPaymentsFilter{
		From:  from,
		To:    to,
		Limit: exportRowLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for export: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Payments"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"ID",
		"Student ID",
		"Amount",
		"Mode",
		"Receipt Number",
		"Collected By",
		"Collection Date",
		"Reversed",
		"Reverse Reason",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	if style, styleErr := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	}); styleErr == nil {
		f.SetCellStyle(sheet, "A1", "I1", style)
	}

	for i, p := range payments {
		row := i + 2
		set := func(col int, value interface{}) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			f.SetCellValue(sheet, cell, value)
		}
		set(1, p.ID.String())
		set(2, p.StudentID.String())
		set(3, p.Amount.InexactFloat64())
		set(4, string(p.Mode))
		set(5, p.ReceiptNumber)
		set(6, p.CollectedByName)
		set(7, p.CollectionDate.Format(time.RFC3339))
		set(8, p.IsReversed)
		set(9, p.ReverseReason)
	}
	return f, nil
}
