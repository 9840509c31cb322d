package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Inquiries"

var exportHeaders = []string{
	"ID", "Created At", "Status", "Name", "Contact", "Area Input", "Area (㎡)",
	"Unit Price", "Subtotal", "Tax", "Total", "Minimum Applied", "Message",
}

// WriteInquiriesXLSX writes one row per inquiry as an xlsx workbook.
func WriteInquiriesXLSX(w io.Writer, inquiries []Inquiry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(exportSheet, cell, header)
	}

	for row, inq := range inquiries {
		data := []interface{}{
			inq.ID,
			inq.CreatedAt.Format("2006-01-02 15:04"),
			string(inq.Status),
			inq.Name,
			inq.Contact,
			inq.AreaInput,
			inq.Area,
			inq.UnitPrice.IntPart(),
			inq.SubtotalFinal.IntPart(),
			inq.Tax.IntPart(),
			inq.Total.IntPart(),
			inq.MinimumApplied,
			inq.Message,
		}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(exportSheet, cell, value)
		}
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	f.SetCellStyle(exportSheet, "A1", lastHeader, style)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ExportInquiriesToExcel writes every inquiry to path, creating its directory.
func (s *PostgresStorage) ExportInquiriesToExcel(ctx context.Context, path string) error {
	inquiries, err := s.ListInquiries(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteInquiriesXLSX(f, inquiries); err != nil {
		return err
	}
	return f.Close()
}
