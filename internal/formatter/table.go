// Package formatter renders catalog records as text tables sized by display width.
package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"pricemachine/internal/models"
	"pricemachine/pkg/utils"
)

// Column describes one table column.
type Column struct {
	Title      string
	AlignRight bool
}

// RecordColumns is the column set shared by the report and the search shell.
var RecordColumns = []Column{
	{Title: "Номер", AlignRight: true},
	{Title: "Название"},
	{Title: "Цена", AlignRight: true},
	{Title: "Фасовка", AlignRight: true},
	{Title: "Файл"},
	{Title: "Цена за кг.", AlignRight: true},
}

// FormatAmount prints a price or weight without trailing zeros.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatUnitPrice prints a unit price with two decimals.
func FormatUnitPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// RecordRows converts records to table cells, numbered from 1 in the given
// order. Product names wider than maxNameWidth are truncated; 0 disables it.
func RecordRows(records []models.UnifiedRecord, maxNameWidth int) [][]string {
	helper := utils.NewStringHelper()
	rows := make([][]string, len(records))

	for i, r := range records {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			helper.TruncateWidth(r.ProductName, maxNameWidth),
			FormatAmount(r.Price),
			FormatAmount(r.Weight),
			r.SourceFile,
			FormatUnitPrice(r.UnitPrice),
		}
	}

	return rows
}

// columnWidths returns the display width of each column across titles and cells.
func columnWidths(cols []Column, rows [][]string, minWidth int) []int {
	widths := make([]int, len(cols))

	for i, col := range cols {
		widths[i] = max(minWidth, runewidth.StringWidth(col.Title))
	}

	for _, row := range rows {
		for i := 0; i < len(row) && i < len(cols); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}

	return widths
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}

	return ""
}

// writeRow writes "| a | b |" with each cell padded to its column width.
func writeRow(sb *strings.Builder, cols []Column, widths []int, cells []string) {
	helper := utils.NewStringHelper()

	sb.WriteString("|")

	for i, col := range cols {
		sb.WriteString(" ")

		if col.AlignRight {
			sb.WriteString(helper.PadLeft(cellAt(cells, i), widths[i]))
		} else {
			sb.WriteString(helper.Pad(cellAt(cells, i), widths[i]))
		}

		sb.WriteString(" |")
	}

	sb.WriteString("\n")
}

// headerOf returns left-aligned copies of cols and their titles.
func headerOf(cols []Column) ([]Column, []string) {
	header := make([]Column, len(cols))
	titles := make([]string, len(cols))

	for i, col := range cols {
		header[i] = Column{Title: col.Title}
		titles[i] = col.Title
	}

	return header, titles
}
