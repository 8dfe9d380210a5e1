package metrics

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/AngelCh415/adreport/internal/models"
)

// Filter selects rows by inclusive date range and campaign set. Zero dates
// leave that side open; an empty campaign list keeps every campaign.
type Filter struct {
	From      time.Time
	To        time.Time
	Campaigns []string
}

func (f Filter) Apply(t models.Table) models.Table {
	set := lo.Associate(f.Campaigns, func(c string) (string, struct{}) { return c, struct{}{} })
	rows := lo.Filter(t.Rows, func(r models.Row, _ int) bool {
		if !f.From.IsZero() && r.Date.Before(f.From) {
			return false
		}
		if !f.To.IsZero() && r.Date.After(f.To) {
			return false
		}
		if len(set) > 0 {
			if _, ok := set[r.Campaign]; !ok {
				return false
			}
		}
		return true
	})
	return models.Table{Columns: t.Columns, Rows: rows}
}

// Campaigns returns the sorted distinct non-empty campaign names.
func Campaigns(t models.Table) []string {
	names := lo.Uniq(lo.FilterMap(t.Rows, func(r models.Row, _ int) (string, bool) {
		return r.Campaign, r.Campaign != ""
	}))
	sort.Strings(names)
	return names
}

// DateBounds returns the earliest and latest row date. ok is false for an
// empty table.
func DateBounds(t models.Table) (first, last time.Time, ok bool) {
	for i, r := range t.Rows {
		if i == 0 || r.Date.Before(first) {
			first = r.Date
		}
		if i == 0 || r.Date.After(last) {
			last = r.Date
		}
	}
	return first, last, len(t.Rows) > 0
}
