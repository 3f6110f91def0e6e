package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mmynk/mealsplit/internal/models"
)

// SheetName is the worksheet XLSX writes to.
const SheetName = "Billing"

// XLSXHeader is the first row of the exported sheet.
var XLSXHeader = []string{"User", "Item", "Option", "Quantity", "Unit Price", "Line Total"}

// XLSX writes summary as a spreadsheet: item rows per user followed by that
// user's subtotal, delivery and total rows, and the grand total last.
// Amounts are written unrounded; the cells carry a two-decimal format.
func XLSX(w io.Writer, summary *models.BillingSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	header := make([]any, len(XLSXHeader))
	for i, h := range XLSXHeader {
		header[i] = h
	}

	row := 1
	if err := setRow(f, row, header); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetName, row, row, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for _, u := range summary.Users {
		for _, it := range u.Items {
			row++
			option := ""
			if it.SelectedOption != nil {
				option = *it.SelectedOption
			}
			if err := setRow(f, row, []any{u.Username, it.Name, option, it.Quantity, it.Price, it.LineTotal()}); err != nil {
				return err
			}
		}
		for _, r := range [][]any{
			{u.Username, "Subtotal", "", "", "", u.Subtotal},
			{u.Username, "Delivery", "", "", "", u.DeliveryShare},
			{u.Username, "Total", "", "", "", u.Total},
		} {
			row++
			if err := setRow(f, row, r); err != nil {
				return err
			}
		}
	}

	row++
	if err := setRow(f, row, []any{"Grand Total", "", "", "", "", summary.GrandTotal}); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetName, row, row, bold); err != nil {
		return fmt.Errorf("style grand total: %w", err)
	}

	last, _ := excelize.CoordinatesToCellName(len(XLSXHeader), row)
	if err := f.SetCellStyle(SheetName, "E2", last, amount); err != nil {
		return fmt.Errorf("style amounts: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
