// Package export writes composed greetings as an XLSX workbook or as
// plain copyable text.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/skufinskiy/itnelep-tools/pkg/greeting"
	"github.com/skufinskiy/itnelep-tools/pkg/pipeline"
)

// SheetName is the worksheet holding the greetings.
const SheetName = "Приветствия"

var headers = func() []string {
	h := []string{"№", "Руководитель", "Статус", "ФИО", "Обращение", "Должность"}
	for i := 1; i <= greeting.Variants; i++ {
		h = append(h, "Вариант "+strconv.Itoa(i))
	}
	return h
}()

// WriteXLSX writes one row per leader to w.
func WriteXLSX(w io.Writer, results []pipeline.Result) error {
	f, err := workbook(results)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// SaveXLSX writes the workbook to path.
func SaveXLSX(path string, results []pipeline.Result) error {
	f, err := workbook(results)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func workbook(results []pipeline.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("cell style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(SheetName, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(SheetName, "A1", last, headerStyle)

	for i, r := range results {
		row := []any{r.Index + 1, r.Label, string(r.Status), r.Title, r.Name, r.Position}
		for _, g := range r.Greetings {
			row = append(row, g)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	if len(results) > 0 {
		end, _ := excelize.CoordinatesToCellName(len(headers), len(results)+1)
		f.SetCellStyle(SheetName, "A2", end, wrapStyle)
	}

	f.SetColWidth(SheetName, "A", "A", 5)
	f.SetColWidth(SheetName, "B", "F", 28)
	first, _ := excelize.ColumnNumberToName(len(headers) - greeting.Variants + 1)
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	f.SetColWidth(SheetName, first, lastCol, 60)
	f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	return f, nil
}

// WriteText writes the copy-all text: each composed leader's title and
// greetings, blocks separated by blank lines.
func WriteText(w io.Writer, results []pipeline.Result) error {
	text := pipeline.CopyAll(results)
	if text == "" {
		return nil
	}
	_, err := io.WriteString(w, text+"\n")
	return err
}
