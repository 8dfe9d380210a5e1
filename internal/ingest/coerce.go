package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/AngelCh415/adreport/internal/models"
)

// Coerced holds numeric columns keyed by canonical name.
type Coerced struct {
	Columns     map[string][]float64
	Synthesized []string // requested columns absent from the table
	Defaulted   int      // non-empty cells that failed to parse
}

// CoerceNumeric parses the named columns of t as numbers. Unparseable cells
// become 0 and absent columns come back as all-zero.
func CoerceNumeric(t models.RawTable, cols []string) Coerced {
	out := Coerced{Columns: make(map[string][]float64, len(cols))}
	for _, c := range cols {
		vals := make([]float64, len(t.Records))
		idx := t.Index(c)
		if idx < 0 {
			out.Synthesized = append(out.Synthesized, c)
			out.Columns[c] = vals
			continue
		}
		for r := range t.Records {
			cell := t.Cell(r, idx)
			f, ok := ParseNumber(cell)
			if !ok && strings.TrimSpace(cell) != "" {
				out.Defaulted++
			}
			vals[r] = f
		}
		out.Columns[c] = vals
	}
	return out
}

// ParseNumber reads a metric cell. Thousands separators are accepted;
// anything else that is not a finite number yields (0, false).
func ParseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
