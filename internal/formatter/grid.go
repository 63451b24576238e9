package formatter

import "strings"

// RenderGrid draws a boxed table with a rule after every row:
//
//	+-------+--------+
//	| Номер | Товар  |
//	+=======+========+
//	|     1 | Молоко |
//	+-------+--------+
func RenderGrid(cols []Column, rows [][]string) string {
	widths := columnWidths(cols, rows, 0)
	header, titles := headerOf(cols)

	var sb strings.Builder

	rule(&sb, widths, "-")
	writeRow(&sb, header, widths, titles)
	rule(&sb, widths, "=")

	for _, row := range rows {
		writeRow(&sb, cols, widths, row)
		rule(&sb, widths, "-")
	}

	return sb.String()
}

func rule(sb *strings.Builder, widths []int, fill string) {
	sb.WriteString("+")

	for _, w := range widths {
		sb.WriteString(strings.Repeat(fill, w+2))
		sb.WriteString("+")
	}

	sb.WriteString("\n")
}
