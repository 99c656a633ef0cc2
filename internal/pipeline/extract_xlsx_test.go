package pipeline

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"programcheck/internal"
)

func mkXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func TestTextFromXLSX(t *testing.T) {
	blob := mkXLSX([][]any{
		{"Miércoles"},
		{"CLAMO334"},
		{" PENTH12 "},
		{"Jueves"},
		{"NOTIC1"},
	})
	text, err := ExtractText(internal.SourceXLSX, blob)
	if err != nil {
		t.Fatal(err)
	}
	if text != "Miércoles\nCLAMO334\nPENTH12\nJueves\nNOTIC1" {
		t.Fatalf("text=%q", text)
	}

	days := ParseProgramList(text, "CLAMO")
	if len(days) != 2 || len(days[0].Programs) != 2 || len(days[1].Programs) != 1 {
		t.Fatalf("days=%+v", days)
	}
}
