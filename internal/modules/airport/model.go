// README: Airport coordinate table built once at startup and shared read-only.
package airport

import (
	"strings"

	"ontime/internal/types"
)

// Record is one row of an airport source.
type Record struct {
	Code  string
	Point types.Point
}

// Table maps uppercased airport codes to coordinates. It is never mutated after
// NewTable returns, so concurrent readers need no locking.
type Table struct {
	coords map[string]types.Point
}

func NewTable(records []Record) *Table {
	coords := make(map[string]types.Point, len(records))
	for _, r := range records {
		coords[strings.ToUpper(strings.TrimSpace(r.Code))] = r.Point
	}
	return &Table{coords: coords}
}

func (t *Table) Lookup(code string) (types.Point, bool) {
	p, ok := t.coords[strings.ToUpper(strings.TrimSpace(code))]
	return p, ok
}

func (t *Table) Len() int {
	return len(t.coords)
}
