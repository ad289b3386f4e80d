package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintTable(t *testing.T) {
	t.Parallel()

	columns := []Column{{Name: "noteid"}, {Name: "customer", Wide: true}}

	var buf bytes.Buffer
	PrintTableHeader(&buf, columns)
	PrintTableRow(&buf, columns, []any{uint32(42), "Acme"})
	PrintTableRow(&buf, columns, []any{7, strings.Repeat("x", 50)})
	PrintTableEnd(&buf, columns)

	border := "+" + strings.Repeat("-", 57) + "+\n"
	pad := func(s string, n int) string { return s + strings.Repeat(" ", n-len(s)) }
	expected := border +
		"| " + pad("noteid", 12) + " | " + pad("customer", 40) + " |\n" +
		border +
		"| " + pad("42", 12) + " | " + pad("Acme", 40) + " |\n" +
		"| " + pad("7", 12) + " | " + strings.Repeat("x", 36) + " ... |\n" +
		border

	assert.Equal(t, expected, buf.String())
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncate("short", 12))
	assert.Equal(t, "exactly12chr", truncate("exactly12chr", 12))
	assert.Equal(t, "café cr ...", truncate("café crème brûlée", 11))
}
