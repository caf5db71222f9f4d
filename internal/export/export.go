// Package export writes the collection as CSV or XLSX.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"

	"github.com/brickstore/brickstore/internal/domain"
)

const sheetName = "Sheet1"

// Row is one exported set. Details are rendered as the list-view summary.
type Row struct {
	ID         string `csv:"id"`
	SetNumber  string `csv:"set_number"`
	Name       string `csv:"name"`
	PieceCount int    `csv:"piece_count"`
	AgeGroup   string `csv:"age_group"`
	Price      string `csv:"price"`
	Status     string `csv:"status"`
	Type       string `csv:"type"`
	Details    string `csv:"details"`
	CreatedAt  string `csv:"created_at"`
}

var header = []string{"id", "set_number", "name", "piece_count", "age_group", "price", "status", "type", "details", "created_at"}

func Rows(sets []domain.LegoSet) []*Row {
	rows := make([]*Row, 0, len(sets))
	for _, set := range sets {
		rows = append(rows, &Row{
			ID:         set.ID,
			SetNumber:  set.SetNumber,
			Name:       set.Name,
			PieceCount: set.PieceCount,
			AgeGroup:   set.AgeGroup,
			Price:      fmt.Sprintf("%.2f", set.Price),
			Status:     set.BuiltLabel(),
			Type:       set.Type.String(),
			Details:    set.Summary(),
			CreatedAt:  set.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return rows
}

// WriteCSV writes a header line followed by one line per set.
func WriteCSV(w io.Writer, sets []domain.LegoSet) error {
	rows := Rows(sets)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, strings.Join(header, ","))
		return err
	}
	return gocsv.Marshal(rows, w)
}

// WriteXLSX writes a single-sheet workbook with the same columns as WriteCSV.
func WriteXLSX(w io.Writer, sets []domain.LegoSet) error {
	f := excelize.NewFile()
	for i, h := range header {
		f.SetCellValue(sheetName, cell(i, 1), h)
	}
	for r, row := range Rows(sets) {
		line := r + 2
		values := []interface{}{
			row.ID, row.SetNumber, row.Name, row.PieceCount, row.AgeGroup,
			row.Price, row.Status, row.Type, row.Details, row.CreatedAt,
		}
		for i, v := range values {
			f.SetCellValue(sheetName, cell(i, line), v)
		}
	}
	return f.Write(w)
}

func cell(col, row int) string {
	return fmt.Sprintf("%c%d", 'A'+col, row)
}
