package client

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportColumns header row of every export.
var ExportColumns = []string{"COP", "NOMBRES", "APELLIDOS", "COLEGIO_REGIONAL", "ESTADO", "HABILITADO", "FECHA_REGISTRO"}

// Peru has no DST.
var limaTZ = time.FixedZone("PET", -5*60*60)

// ExportFilename "agremiados_YYYY-MM-DD.<ext>"
func ExportFilename(now time.Time, ext string) string {
	return fmt.Sprintf("agremiados_%s.%s", now.Format("2006-01-02"), ext)
}

// ExportRows one row per member in ExportColumns order.
func ExportRows(items []Agremiado) [][]string {
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{
			a.Cop,
			a.Nombres,
			a.Apellidos,
			a.Colegio,
			a.Estado,
			a.Habilitado,
			a.FechaRegistro.In(limaTZ).Format("02/01/2006 15:04"),
		})
	}
	return rows
}

// ExportCSV writes items as CSV. An empty list is ErrNoData.
func ExportCSV(w io.Writer, items []Agremiado) error {
	if len(items) == 0 {
		return ErrNoData
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return err
	}
	if err := cw.WriteAll(ExportRows(items)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

const exportSheet = "Agremiados"

// ExportXLSX writes items as a single-sheet workbook with a styled header.
// An empty list is ErrNoData.
func ExportXLSX(w io.Writer, items []Agremiado) error {
	if len(items) == 0 {
		return ErrNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	// column widths
	widths := []float64{10, 28, 28, 20, 14, 14, 18}
	for i, wd := range widths {
		col := colName(i)
		_ = f.SetColWidth(exportSheet, col, col, wd)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6A0032"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// header
	for i, h := range ExportColumns {
		_ = f.SetCellValue(exportSheet, cell(colName(i), 1), h)
	}
	_ = f.SetCellStyle(exportSheet, "A1", cell(colName(len(ExportColumns)-1), 1), headerStyle)

	// rows
	for r, row := range ExportRows(items) {
		for i, v := range row {
			_ = f.SetCellValue(exportSheet, cell(colName(i), r+2), v)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
