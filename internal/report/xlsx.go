// Package report renders a processed batch into spreadsheet form for
// accountants who want the aggregate outside the terminal.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/rezonia/nfse-processor/internal/model"
)

const (
	invoiceSheet = "Invoices"
	failureSheet = "Failures"
)

var invoiceHeader = []interface{}{
	"File", "Number", "Issue Date",
	"Provider", "Provider Tax ID",
	"Recipient", "Recipient Tax ID",
	"Total Service Value", "Service Description",
}

var failureHeader = []interface{}{"File", "Reason"}

// WriteXLSX renders the batch as a workbook with one sheet for extracted
// invoices and one for failed files. Result order is preserved within
// each sheet.
func WriteXLSX(w io.Writer, batch *model.Batch) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", invoiceSheet); err != nil {
		return fmt.Errorf("failed to prepare workbook: %w", err)
	}
	if _, err := f.NewSheet(failureSheet); err != nil {
		return fmt.Errorf("failed to prepare workbook: %w", err)
	}

	if err := setRow(f, invoiceSheet, 1, invoiceHeader); err != nil {
		return err
	}
	if err := setRow(f, failureSheet, 1, failureHeader); err != nil {
		return err
	}

	invoiceRow, failureRow := 2, 2
	for _, r := range batch.Results {
		if !r.Success() {
			if err := setRow(f, failureSheet, failureRow, []interface{}{r.SourcePath, r.Reason}); err != nil {
				return err
			}
			failureRow++
			continue
		}

		inv := r.Invoice
		row := []interface{}{
			r.SourcePath,
			inv.Number,
			inv.IssueDate.Format("2006-01-02"),
			inv.Provider.LegalName,
			inv.Provider.TaxID.Formatted(),
			inv.Recipient.LegalName,
			inv.Recipient.TaxID.Formatted(),
			inv.TotalServiceValue.InexactFloat64(),
			inv.ServiceDescription,
		}
		if err := setRow(f, invoiceSheet, invoiceRow, row); err != nil {
			return err
		}
		invoiceRow++
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d on %s: %w", row, sheet, err)
	}
	return nil
}
