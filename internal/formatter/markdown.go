package formatter

import "strings"

// RenderMarkdown builds a pipe table padded by display width so that
// Cyrillic and CJK cells line up in a monospace viewer. Separator cells are
// at least three dashes; right-aligned columns end with a colon.
func RenderMarkdown(cols []Column, rows [][]string) string {
	escaped := make([][]string, len(rows))
	for i, row := range rows {
		escaped[i] = escapePipes(row)
	}

	widths := columnWidths(cols, escaped, 3)
	header, titles := headerOf(cols)

	var sb strings.Builder

	writeRow(&sb, header, widths, titles)
	sb.WriteString("|")

	for i, col := range cols {
		sb.WriteString(" ")

		if col.AlignRight {
			sb.WriteString(strings.Repeat("-", widths[i]-1))
			sb.WriteString(":")
		} else {
			sb.WriteString(strings.Repeat("-", widths[i]))
		}

		sb.WriteString(" |")
	}

	sb.WriteString("\n")

	for _, row := range escaped {
		writeRow(&sb, cols, widths, row)
	}

	return sb.String()
}

func escapePipes(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.ReplaceAll(cell, "|", `\|`)
	}

	return out
}
