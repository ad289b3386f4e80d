package util

import (
	"fmt"
	"io"
	"strings"
)

const (
	truncatedStringEnd = " ..."
	narrowLength       = 12
	maxLength          = 40
)

// Column is one column of a printed table. Wide columns hold free text.
type Column struct {
	Name string
	Wide bool
}

func PrintTableHeader(w io.Writer, columns []Column) {
	columnSize, tableWidth := computeTableSize(columns)

	fmt.Fprintf(w, "+%s+\n", strings.Repeat("-", tableWidth-2))

	for i, aColumn := range columns {
		// left-justify, the padding width is passed as an argument
		fmt.Fprintf(w, "| %-*s ", columnSize[i], truncate(aColumn.Name, columnSize[i]))
		if i == len(columns)-1 {
			fmt.Fprintf(w, "|\n")
		}
	}

	fmt.Fprintf(w, "+%s+\n", strings.Repeat("-", tableWidth-2))
}

func PrintTableRow(w io.Writer, columns []Column, values []any) {
	columnSize, _ := computeTableSize(columns)

	for i, aValue := range values {
		if i >= len(columns) {
			break
		}
		fmt.Fprintf(w, "| %-*s ", columnSize[i], truncate(fmt.Sprint(aValue), columnSize[i]))
	}
	fmt.Fprintf(w, "|\n")
}

func PrintTableEnd(w io.Writer, columns []Column) {
	_, tableWidth := computeTableSize(columns)

	fmt.Fprintf(w, "+%s+\n", strings.Repeat("-", tableWidth-2))
}

func truncate(s string, size int) string {
	r := []rune(s)
	if len(r) <= size {
		return s
	}
	return string(r[0:size-len(truncatedStringEnd)]) + truncatedStringEnd
}

func computeTableSize(columns []Column) ([]int, int) {
	columnSize := make([]int, len(columns))
	for i, aColumn := range columns {
		if aColumn.Wide {
			columnSize[i] = maxLength
		} else {
			columnSize[i] = narrowLength
		}
	}

	// left border is | followed by a space, right border is space followed by | (2+2=4)
	// then between each column we have space, |, space (3)
	tableWidth := 4 + (len(columnSize)-1)*3
	for _, columnWidth := range columnSize {
		tableWidth += columnWidth
	}

	return columnSize, tableWidth
}
