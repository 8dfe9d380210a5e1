package metrics

import (
	"encoding/json"
	"net/url"
	"testing"
)

func testService() *Service {
	return NewService(Defaults{Thresholds: DefaultThresholds(), FeePct: 0.12})
}

func TestParamsDefaultsAndOverrides(t *testing.T) {
	svc := testService()
	p, err := svc.Params(url.Values{})
	if err != nil {
		t.Fatal(err)
	}
	if p.Thresholds != DefaultThresholds() || p.Margin.FeePct != 0.12 || !p.Filter.From.IsZero() {
		t.Fatalf("unexpected defaults %+v", p)
	}

	v := url.Values{
		"from":        {"2024-05-02"},
		"to":          {"2024-05-03"},
		"campaign":    {"A, B,,"},
		"target_acos": {"0.3"},
		"fee_pct":     {"10"},
		"asc":         {"true"},
	}
	p, err = svc.Params(v)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Filter.From.Equal(day(2)) || !p.Filter.To.Equal(day(3)) {
		t.Fatalf("unexpected range %v..%v", p.Filter.From, p.Filter.To)
	}
	if len(p.Filter.Campaigns) != 2 || p.Filter.Campaigns[1] != "B" {
		t.Fatalf("unexpected campaigns %v", p.Filter.Campaigns)
	}
	if p.Thresholds.TargetACOS != 0.3 || p.Thresholds.MinClicks != 50 || p.Margin.FeePct != 0.1 || !p.Ascending {
		t.Fatalf("unexpected overrides %+v", p)
	}
}

func TestParamsRejectsBadValues(t *testing.T) {
	for _, v := range []url.Values{
		{"from": {"05/01/2024"}},
		{"min_clicks": {"lots"}},
		{"fee_pct": {"%"}},
	} {
		if _, err := testService().Params(v); err == nil {
			t.Fatalf("expected error for %v", v)
		}
	}
}

func TestFilterInclusiveRange(t *testing.T) {
	tbl := sampleTable(false)
	got := Filter{From: day(2), To: day(2)}.Apply(tbl)
	if len(got.Rows) != 2 {
		t.Fatalf("expected both day-2 rows, got %d", len(got.Rows))
	}
	got = Filter{Campaigns: []string{"B"}}.Apply(tbl)
	if len(got.Rows) != 2 || got.Rows[0].Campaign != "B" {
		t.Fatalf("expected campaign B rows, got %+v", got.Rows)
	}
	if len(tbl.Rows) != 4 {
		t.Fatal("filter modified its input")
	}
}

func TestEmptyViewIsVacuous(t *testing.T) {
	svc := testService()
	p, _ := svc.Params(url.Values{"from": {"2030-01-01"}})
	tbl := sampleTable(false)

	s := svc.Summary(tbl, p)
	if !s.Empty || s.Rows != 0 || s.Spend != 0 || s.ROAS != 0 || s.ACOS != 0 {
		t.Fatalf("expected empty summary, got %+v", s)
	}
	rows, err := svc.View(tbl, ByCampaign, p)
	if err != nil || len(rows) != 0 {
		t.Fatalf("expected empty view, got %v %v", rows, err)
	}
	m := svc.Margin(tbl, p)
	if m.Margin != 0 || m.Fee != 0 {
		t.Fatalf("expected vacuous margin, got %+v", m)
	}
	if acts := svc.Actions(tbl, p); len(acts) != 0 {
		t.Fatalf("expected no actions, got %v", acts)
	}
}

func TestViewDetailScopeAndPaging(t *testing.T) {
	svc := testService()
	p, _ := svc.Params(url.Values{"detail": {"B"}})
	rows, err := svc.View(sampleTable(false), ByKeyword, p)
	if err != nil {
		t.Fatal(err)
	}
	// jam (revenue 1500) before berry (revenue 0)
	if len(rows) != 2 || rows[0].Keyword != "jam" {
		t.Fatalf("unexpected rows %+v", rows)
	}

	p, _ = svc.Params(url.Values{"limit": {"1"}, "offset": {"1"}, "sort": {"spend"}})
	rows, err = svc.View(sampleTable(false), ByCampaign, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Campaign != "B" {
		t.Fatalf("expected second campaign by spend to be B, got %+v", rows)
	}
}

func TestSummaryAndTrend(t *testing.T) {
	svc := testService()
	p, _ := svc.Params(url.Values{})
	tbl := sampleTable(false)
	s := svc.Summary(tbl, p)
	if s.Spend != 1940 || s.Revenue != 21500 || s.Rows != 4 || s.Empty {
		t.Fatalf("unexpected summary %+v", s)
	}
	trend := svc.Trend(tbl, p)
	if len(trend) != 3 || !trend[0].Date.Equal(day(1)) || !trend[2].Date.Equal(day(3)) {
		t.Fatalf("unexpected trend %+v", trend)
	}
	if got := Campaigns(tbl); len(got) != 2 || got[0] != "A" {
		t.Fatalf("unexpected campaigns %v", got)
	}
	first, last, ok := DateBounds(tbl)
	if !ok || !first.Equal(day(1)) || !last.Equal(day(3)) {
		t.Fatalf("unexpected bounds %v %v", first, last)
	}
}

func TestEmptyViewsEncodeAsArrays(t *testing.T) {
	svc := testService()
	p, _ := svc.Params(url.Values{"from": {"2030-01-01"}})
	tbl := sampleTable(false)

	b, err := json.Marshal(svc.Trend(tbl, p))
	if err != nil || string(b) != "[]" {
		t.Fatalf("expected empty trend array, got %s %v", b, err)
	}
	b, err = json.Marshal(svc.Segments(tbl, p))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"winners":[],"pause_candidates":[],"inefficient":[]}`
	if string(b) != want {
		t.Fatalf("expected %s, got %s", want, b)
	}
}
