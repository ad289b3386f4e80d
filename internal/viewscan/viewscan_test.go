package viewscan

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/RichardKnop/viewscan/internal/pkg/logging"
)

var (
	gen        = newDataGen(uint64(time.Now().Unix()))
	testLogger *zap.Logger
	testCodec  = DefaultTextCodec()
)

func init() {
	var err error
	testLogger, err = logging.FromEnv("debug")
	if err != nil {
		panic(err)
	}
}

type dataGen struct {
	*gofakeit.Faker
}

func newDataGen(seed uint64) *dataGen {
	g := dataGen{
		Faker: gofakeit.New(seed),
	}

	return &g
}

// Time returns a past time at the precision the store keeps.
func (g *dataGen) Time() time.Time {
	return g.PastDate().UTC().Truncate(10 * time.Millisecond)
}

func (g *dataGen) Position() *Position {
	tumblers := make([]uint32, g.IntRange(1, 6))
	for i := range tumblers {
		tumblers[i] = uint32(g.IntRange(1, 5000))
	}
	p, err := NewPosition(tumblers...)
	if err != nil {
		panic(err)
	}
	return p
}

func (g *dataGen) SearchKeys(n int) []SearchKey {
	keys := make([]SearchKey, 0, n)
	for range n {
		switch g.IntRange(0, 4) {
		case 0:
			keys = append(keys, TextKey(g.Company()))
		case 1:
			keys = append(keys, NumberKey(g.Float64Range(-1e6, 1e6)))
		case 2:
			lower := g.Float64Range(0, 100)
			keys = append(keys, NumberRangeKey(lower, lower+g.Float64Range(0, 100)))
		case 3:
			keys = append(keys, TimeKey(g.Time()))
		default:
			lower := g.Time()
			keys = append(keys, TimeRangeKey(lower, lower.Add(time.Duration(g.IntRange(1, 1000))*time.Hour)))
		}
	}
	return keys
}

func resetMock(aMock *mock.Mock) {
	aMock.ExpectedCalls = nil
	aMock.Calls = nil
}
