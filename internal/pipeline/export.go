package pipeline

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"programcheck/internal"
)

// DaysToExportRows flattens parse output in day then line order.
func DaysToExportRows(days []internal.DayData) []internal.ProgramExportRow {
	rows := []internal.ProgramExportRow{}
	for i, day := range days {
		for j, p := range day.Programs {
			rows = append(rows, internal.ProgramExportRow{
				DayIndex:     i,
				DayHeader:    day.DayHeader,
				Position:     j + 1,
				Code:         p.Code,
				OriginalCode: p.OriginalCode,
				Status:       string(p.Status),
				Reason:       p.Reason,
			})
		}
	}
	return rows
}

func ExportRowsToXLSX(rows []internal.ProgramExportRow, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"day_header", "position", "code", "original_code", "status", "reason"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, row.DayHeader)
		set(2, row.Position)
		set(3, row.Code)
		set(4, derefString(row.OriginalCode))
		set(5, row.Status)
		set(6, derefString(row.Reason))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func WriteJSON(w io.Writer, days []internal.DayData) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(days)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
