package main

import (
	"fmt"
	"strings"

	"github.com/RichardKnop/viewscan/internal/pkg/util"
	"github.com/RichardKnop/viewscan/internal/viewscan"
)

type entryField struct {
	field viewscan.FieldMask
	name  string
	wide  bool
	value func(viewscan.Entry) any
}

// entryFields are the fixed per-entry fields in wire order.
var entryFields = []entryField{
	{viewscan.FieldNoteID, "noteid", false, func(e viewscan.Entry) any { return noteID(e) }},
	{viewscan.FieldUNID, "unid", true, func(e viewscan.Entry) any { return e.UNID }},
	{viewscan.FieldNoteClass, "class", false, func(e viewscan.Entry) any { return fmt.Sprintf("0x%04x", e.NoteClass) }},
	{viewscan.FieldSiblings, "siblings", false, func(e viewscan.Entry) any { return e.SiblingCount }},
	{viewscan.FieldChildren, "children", false, func(e viewscan.Entry) any { return e.ChildCount }},
	{viewscan.FieldDescendants, "descendants", false, func(e viewscan.Entry) any { return e.DescendantCount }},
	{viewscan.FieldAnyUnread, "anyunread", false, func(e viewscan.Entry) any { return e.AnyUnread }},
	{viewscan.FieldIndentLevels, "indent", false, func(e viewscan.Entry) any { return e.IndentLevel }},
	{viewscan.FieldScore, "score", false, func(e viewscan.Entry) any { return e.FTScore }},
	{viewscan.FieldUnread, "unread", false, func(e viewscan.Entry) any { return e.Unread }},
	{viewscan.FieldPosition, "position", false, func(e viewscan.Entry) any { return e.Position }},
}

func noteID(e viewscan.Entry) string {
	if e.IsCategory() {
		return fmt.Sprintf("cat:%d", e.NoteID&^viewscan.NoteIDCategory)
	}
	return fmt.Sprint(e.NoteID)
}

// valueColumns is the widest value table among entries.
func valueColumns(entries []viewscan.Entry) int {
	n := 0
	for _, entry := range entries {
		n = max(n, len(entry.Values))
	}
	return n
}

func entryColumns(cfg dumpConfig, entries []viewscan.Entry) []util.Column {
	var columns []util.Column
	for _, f := range entryFields {
		if cfg.Mask.Has(f.field) {
			columns = append(columns, util.Column{Name: f.name, Wide: f.wide})
		}
	}
	if cfg.Mask.Has(viewscan.FieldSummaryValues) {
		for i := range valueColumns(entries) {
			name := fmt.Sprintf("$%d", i)
			if i < len(cfg.Columns) {
				name = cfg.Columns[i]
			}
			columns = append(columns, util.Column{Name: name, Wide: true})
		}
	}
	if cfg.Mask.Has(viewscan.FieldSummary) {
		columns = append(columns, util.Column{Name: "summary", Wide: true})
	}
	return columns
}

func entryRow(cfg dumpConfig, entry viewscan.Entry, width int) []any {
	row := make([]any, 0, width)
	for _, f := range entryFields {
		if cfg.Mask.Has(f.field) {
			row = append(row, f.value(entry))
		}
	}
	if cfg.Mask.Has(viewscan.FieldSummaryValues) {
		for _, v := range entry.Values {
			row = append(row, formatValue(v))
		}
	}
	if cfg.Mask.Has(viewscan.FieldSummary) {
		for len(row) < width-1 {
			row = append(row, "")
		}
		items := make([]string, 0, len(entry.Summary))
		for _, item := range entry.Summary {
			items = append(items, item.Name+"="+formatValue(item.Value))
		}
		row = append(row, strings.Join(items, " "))
	}
	for len(row) < width {
		row = append(row, "")
	}
	return row
}

func formatValue(v viewscan.ColumnValue) string {
	if !v.Valid {
		switch v.Type {
		case viewscan.TypeError:
			return "#error"
		case viewscan.TypeUnavailable:
			return "#n/a"
		default:
			return ""
		}
	}
	return v.String()
}
