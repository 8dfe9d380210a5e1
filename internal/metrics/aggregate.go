package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/AngelCh415/adreport/internal/models"
)

type Dimension string

const (
	ByDate        Dimension = "date"
	ByCampaign    Dimension = "campaign"
	ByKeyword     Dimension = "keyword"      // keyword + match_type, or + ad_group
	ByKeywordOnly Dimension = "keyword_only" // keyword alone
	ByProduct     Dimension = "product"      // product_id + product_name
)

func ParseDimension(s string) (Dimension, error) {
	switch d := Dimension(s); d {
	case ByDate, ByCampaign, ByKeyword, ByKeywordOnly, ByProduct:
		return d, nil
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

type groupKey struct {
	date time.Time
	a, b string
}

// Aggregate sums base metrics per group and derives ratios on the sums.
// Groups come back in first-seen order.
func Aggregate(t models.Table, dim Dimension) []models.Group {
	keyword2nd := models.ColAdGroup
	if t.Has(models.ColMatchType) {
		keyword2nd = models.ColMatchType
	}

	index := map[groupKey]int{}
	var out []models.Group
	for _, r := range t.Rows {
		g := models.Group{Dimension: string(dim)}
		var k groupKey
		switch dim {
		case ByDate:
			d := r.Date
			g.Date, k.date = &d, r.Date
		case ByCampaign:
			g.Campaign, k.a = r.Campaign, r.Campaign
		case ByKeywordOnly:
			g.Keyword, k.a = r.Keyword, r.Keyword
		case ByKeyword:
			g.Keyword, k.a = r.Keyword, r.Keyword
			if keyword2nd == models.ColMatchType {
				g.MatchType, k.b = r.MatchType, r.MatchType
			} else {
				g.AdGroup, k.b = r.AdGroup, r.AdGroup
			}
		case ByProduct:
			g.ProductID, k.a = r.ProductID, r.ProductID
			g.ProductName, k.b = r.ProductName, r.ProductName
		}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, g)
		}
		out[i].Totals = out[i].Totals.Add(r.Totals)
	}
	return DeriveGroups(out)
}

// SortKeys are the metrics a view can be ordered by.
var SortKeys = []string{
	"revenue", "roas", "acos", "spend", "orders", "clicks", "impressions", "ctr", "cpc", "cvr", "date",
}

func sortValue(g models.Group, key string) float64 {
	switch key {
	case "revenue":
		return g.Revenue
	case "roas":
		return g.ROAS
	case "acos":
		return g.ACOS
	case "spend":
		return g.Spend
	case "orders":
		return g.Orders
	case "clicks":
		return g.Clicks
	case "impressions":
		return g.Impressions
	case "ctr":
		return g.CTR
	case "cpc":
		return g.CPC
	case "cvr":
		return g.CVR
	case "date":
		if g.Date == nil {
			return 0
		}
		return float64(g.Date.Unix())
	}
	return 0
}

// SortGroups returns a sorted copy, never nil. Ties keep the input order.
func SortGroups(groups []models.Group, key string, ascending bool) ([]models.Group, error) {
	valid := false
	for _, k := range SortKeys {
		if k == key {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("unknown sort key %q", key)
	}
	out := make([]models.Group, 0, len(groups))
	out = append(out, groups...)
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return sortValue(out[i], key) < sortValue(out[j], key)
		}
		return sortValue(out[i], key) > sortValue(out[j], key)
	})
	return out, nil
}
