// Package viewscantest mirrors the remote side of the scan protocol for
// tests: it builds summary buffers and serves an in-memory categorized
// index through the collaborator interfaces.
package viewscantest

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/RichardKnop/viewscan/internal/viewscan"
)

type DataGen struct {
	*gofakeit.Faker
}

func NewDataGen(seed uint64) *DataGen {
	g := DataGen{
		Faker: gofakeit.New(seed),
	}

	return &g
}

// Text returns a random value for a text column.
func (g *DataGen) Text() viewscan.ColumnValue {
	return viewscan.TextValue(g.Company())
}

func (g *DataGen) Number() viewscan.ColumnValue {
	return viewscan.NumberValue(float64(g.IntRange(-100000, 100000)) / 100)
}

// Time returns a random time truncated to the hundredths of a second the
// store keeps.
func (g *DataGen) Time() viewscan.ColumnValue {
	return viewscan.TimeValue(g.PastDate().UTC().Truncate(10 * time.Millisecond))
}

func (g *DataGen) TextList() viewscan.ColumnValue {
	list := make([]string, 0, 3)
	for range g.IntRange(1, 3) {
		list = append(list, g.Word())
	}
	return viewscan.TextListValue(list...)
}

// Row returns one value per column kind: text, number, time and text list.
func (g *DataGen) Row() []viewscan.ColumnValue {
	return []viewscan.ColumnValue{
		g.Text(),
		g.Number(),
		g.Time(),
		g.TextList(),
	}
}

func (g *DataGen) UNID() viewscan.UNID {
	return viewscan.UNID{
		File: viewscan.TimeDate{Innards: [2]uint32{g.Uint32(), g.Uint32()}},
		Note: viewscan.TimeDate{Innards: [2]uint32{g.Uint32(), g.Uint32()}},
	}
}
