package metrics

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AngelCh415/adreport/internal/models"
)

// built per request, never stored
type Params struct {
	Filter     Filter
	Detail     string // single campaign scope for keyword/product views
	Sort       string
	Ascending  bool
	Thresholds Thresholds
	Margin     models.MarginInput
	Limit      int
	Offset     int
}

type Defaults struct {
	Thresholds Thresholds
	FeePct     float64
}

type Service struct{ def Defaults }

func NewService(def Defaults) *Service { return &Service{def: def} }

func norm(s string) string { return strings.TrimSpace(s) }

func csvList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = norm(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Params reads query values. Dates use YYYY-MM-DD; fee_pct is a percentage.
func (s *Service) Params(v url.Values) (Params, error) {
	p := Params{
		Detail:     norm(v.Get("detail")),
		Sort:       norm(v.Get("sort")),
		Ascending:  v.Get("asc") == "true" || v.Get("asc") == "1",
		Thresholds: s.def.Thresholds,
		Margin:     models.MarginInput{FeePct: s.def.FeePct},
		Limit:      atoiDef(v.Get("limit"), 0),
		Offset:     atoiDef(v.Get("offset"), 0),
	}
	p.Filter.Campaigns = csvList(v.Get("campaign"))

	var err error
	if p.Filter.From, err = dateParam(v, "from"); err != nil {
		return Params{}, err
	}
	if p.Filter.To, err = dateParam(v, "to"); err != nil {
		return Params{}, err
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"target_acos", &p.Thresholds.TargetACOS},
		{"min_clicks", &p.Thresholds.MinClicks},
		{"min_orders", &p.Thresholds.MinOrders},
		{"price_adj", &p.Margin.PriceAdj},
		{"cost", &p.Margin.Cost},
		{"shipping", &p.Margin.Shipping},
		{"other", &p.Margin.Other},
	}
	for _, f := range floats {
		if err := floatParam(v, f.key, f.dst); err != nil {
			return Params{}, err
		}
	}
	if v.Get("fee_pct") != "" {
		var pct float64
		if err := floatParam(v, "fee_pct", &pct); err != nil {
			return Params{}, err
		}
		p.Margin.FeePct = pct / 100
	}
	return p, nil
}

func dateParam(v url.Values, key string) (time.Time, error) {
	raw := norm(v.Get(key))
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad %s %q (YYYY-MM-DD)", key, raw)
	}
	return t, nil
}

func floatParam(v url.Values, key string, dst *float64) error {
	raw := norm(v.Get(key))
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("bad %s %q", key, raw)
	}
	*dst = f
	return nil
}

// keyword/product views honor Detail
func (s *Service) View(t models.Table, dim Dimension, p Params) ([]models.Group, error) {
	view := p.Filter.Apply(t)
	if dim == ByKeyword || dim == ByKeywordOnly || dim == ByProduct {
		view = scope(view, p.Detail)
	}
	key := p.Sort
	if key == "" {
		key = defaultSort(dim)
	}
	rows, err := SortGroups(Aggregate(view, dim), key, p.Ascending)
	if err != nil {
		return nil, err
	}
	limit, offset := clampLimitOffset(p.Limit, p.Offset, len(rows))
	return paginate(rows, limit, offset), nil
}

func (s *Service) Summary(t models.Table, p Params) Summary {
	return Summarize(p.Filter.Apply(t))
}

func (s *Service) Trend(t models.Table, p Params) []models.Group {
	return Trend(p.Filter.Apply(t))
}

func (s *Service) Segments(t models.Table, p Params) Segments {
	view := scope(p.Filter.Apply(t), p.Detail)
	return Classify(Aggregate(view, ByKeyword), p.Thresholds)
}

func (s *Service) Actions(t models.Table, p Params) []models.Action {
	return Actions(s.Segments(t, p))
}

// Margin runs the calculator on revenue and spend of the filtered view.
func (s *Service) Margin(t models.Table, p Params) models.MarginResult {
	tot := Sum(p.Filter.Apply(t).Rows)
	in := p.Margin
	in.Revenue, in.Spend = tot.Revenue, tot.Spend
	return Margin(in)
}

func scope(t models.Table, campaign string) models.Table {
	if campaign == "" {
		return t
	}
	return Filter{Campaigns: []string{campaign}}.Apply(t)
}

func defaultSort(dim Dimension) string {
	switch dim {
	case ByDate:
		return "date"
	case ByCampaign:
		return "roas"
	}
	return "revenue"
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if offset > n {
		offset = n
	}
	return limit, offset
}
