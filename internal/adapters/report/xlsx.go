package report

import (
	"github.com/devbush/audio-transcriber/internal/domain"
	"github.com/xuri/excelize/v2"
)

var columnWidths = map[string]float64{
	"A": 6,
	"B": 30,
	"C": 80,
	"D": 10,
	"E": 40,
	"F": 12,
	"G": 20,
	"H": 20,
	"I": 20,
	"J": 60,
}

func renderXLSX(records []domain.Record, summary domain.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DetailSheet); err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := setRow(f, DetailSheet, 1, toCells(Columns)); err != nil {
		return nil, err
	}
	for i, r := range records {
		cells := []any{
			r.ID,
			r.FileName,
			r.Text,
			yesNo(r.Success),
			r.Error,
			r.SizeMB,
			r.ProcessingTime,
			formatTime(r.TranscribedAt),
			formatTime(r.ModifiedAt),
			r.Path,
		}
		if err := setRow(f, DetailSheet, i+2, cells); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(DetailSheet, "A1", "J1", header); err != nil {
		return nil, err
	}
	for col, width := range columnWidths {
		if err := f.SetColWidth(DetailSheet, col, col, width); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, err
	}
	rows := [][]any{
		{"Metric", "Value"},
		{"Total files", summary.Total},
		{"Successful", summary.Succeeded},
		{"Failed", summary.Failed},
		{"Success rate (%)", summary.SuccessRate},
		{"Total size (MB)", summary.TotalSizeMB},
		{"Total processing time (s)", summary.ProcessingTime},
		{"Generated at", formatTime(summary.GeneratedAt)},
	}
	for i, cells := range rows {
		if err := setRow(f, SummarySheet, i+1, cells); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", header); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SummarySheet, "A", "B", 28); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, rowNum int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
