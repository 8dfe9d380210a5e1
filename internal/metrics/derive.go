package metrics

import (
	"math"

	"github.com/AngelCh415/adreport/internal/models"
)

// RatiosOf derives the five standard ratios. A ratio whose denominator is
// not positive is 0.
func RatiosOf(t models.Totals) models.Ratios {
	return models.Ratios{
		CTR:  safeDivF(t.Clicks, t.Impressions),
		CPC:  safeDivF(t.Spend, t.Clicks),
		CVR:  safeDivF(t.Orders, t.Clicks),
		ROAS: safeDivF(t.Revenue, t.Spend),
		ACOS: safeDivF(t.Spend, t.Revenue),
	}
}

// Derive returns a copy of rows with ratios recomputed from their totals.
func Derive(rows []models.Row) []models.Row {
	out := make([]models.Row, len(rows))
	for i, r := range rows {
		r.Ratios = RatiosOf(r.Totals)
		out[i] = r
	}
	return out
}

// DeriveGroups is Derive for aggregated rows.
func DeriveGroups(groups []models.Group) []models.Group {
	out := make([]models.Group, len(groups))
	for i, g := range groups {
		g.Ratios = RatiosOf(g.Totals)
		out[i] = g
	}
	return out
}

// Sum adds up the base metrics of rows.
func Sum(rows []models.Row) models.Totals {
	var t models.Totals
	for _, r := range rows {
		t = t.Add(r.Totals)
	}
	return t
}

func safeDivF(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	v := a / b
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
