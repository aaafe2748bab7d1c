// Package export writes farming rankings as spreadsheets.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nzvengeance/aces-companion/internal/farming"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Farming"

var headers = []string{"#", "NPC", "Map", "HP", "URI/Kill", "TTK (s)", "Cycle (s)", "URI/min", "Rating"}

// RankingXLSX builds a workbook with a title line followed by the ranking
// table.
func RankingXLSX(title string, rows []farming.Row) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	f.SetCellValue(SheetName, "A1", title)
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(SheetName, "A1", "A1", titleStyle)

	for i, h := range headers {
		f.SetCellValue(SheetName, cell(i, 3), h)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(SheetName, cell(0, 3), cell(len(headers)-1, 3), headerStyle)

	for i, r := range rows {
		row := i + 4
		values := []any{r.Rank, r.Name, r.Map, r.HP, r.RewardPerKill, round(r.TTK, 1), round(r.CycleTime, 1), round(r.RewardPerMinute, 1), r.Rating}
		for col, v := range values {
			f.SetCellValue(SheetName, cell(col, row), v)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 5); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "B", "B", 22); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "C", "I", 12); err != nil {
		return nil, err
	}
	_ = f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 3, TopLeftCell: "A4", ActivePane: "bottomLeft"})

	return f, nil
}

// WriteRanking streams the workbook to w.
func WriteRanking(w io.Writer, title string, rows []farming.Row) error {
	f, err := RankingXLSX(title, rows)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

// SaveRanking writes the workbook to path, creating parent directories.
func SaveRanking(path, title string, rows []farming.Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := RankingXLSX(title, rows)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}

func round(v float64, places int) float64 {
	p := 1.0
	for i := 0; i < places; i++ {
		p *= 10
	}
	if v < 0 {
		return -float64(int64(-v*p+0.5)) / p
	}
	return float64(int64(v*p+0.5)) / p
}
