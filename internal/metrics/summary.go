package metrics

import "github.com/AngelCh415/adreport/internal/models"

// Summary is the KPI strip of a filtered view. Empty marks the empty state;
// all numbers are then 0.
type Summary struct {
	models.Totals
	ROAS  float64 `json:"roas"`
	ACOS  float64 `json:"acos"`
	Rows  int     `json:"rows"`
	Empty bool    `json:"empty"`
}

func Summarize(t models.Table) Summary {
	tot := Sum(t.Rows)
	r := RatiosOf(tot)
	return Summary{
		Totals: tot,
		ROAS:   r.ROAS,
		ACOS:   r.ACOS,
		Rows:   len(t.Rows),
		Empty:  len(t.Rows) == 0,
	}
}

// Trend is the per-day aggregate in date order.
func Trend(t models.Table) []models.Group {
	out, _ := SortGroups(Aggregate(t, ByDate), "date", true)
	return out
}
