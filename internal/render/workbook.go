package render

import (
	"fmt"
	"io"

	"mmr-history/internal/chart"

	"github.com/xuri/excelize/v2"
)

var sheetNames = map[chart.Kind]string{
	chart.KindScore:    "Score",
	chart.KindRank:     "Rank",
	chart.KindDivision: "Division",
}

// WriteWorkbook exports one sheet per chart: the label axis in column A and
// one column per series. Shorter series leave their trailing cells empty.
func WriteWorkbook(w io.Writer, c chart.Charts) error {
	f := excelize.NewFile()
	defer f.Close()

	first := -1
	for _, ch := range c.All() {
		name := sheetNames[ch.Kind]
		idx, err := f.NewSheet(name)
		if err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
		if first < 0 {
			first = idx
		}
		if err := writeSheet(f, name, ch); err != nil {
			return err
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	f.SetActiveSheet(first)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, ch chart.Chart) error {
	header := []interface{}{"Label"}
	rows := len(ch.Labels)
	for _, s := range ch.Series {
		header = append(header, s.Label)
		if len(s.Data) > rows {
			rows = len(s.Data)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}

	for i := 0; i < rows; i++ {
		row := make([]interface{}, len(ch.Series)+1)
		if i < len(ch.Labels) {
			row[0] = ch.Labels[i]
		}
		for j, s := range ch.Series {
			if i < len(s.Data) {
				row[j+1] = s.Data[i]
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
