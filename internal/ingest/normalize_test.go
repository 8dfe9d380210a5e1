package ingest

import (
	"errors"
	"reflect"
	"testing"

	"github.com/AngelCh415/adreport/internal/models"
)

func coupangHeader() []string {
	return []string{"날짜", "캠페인명", "광고그룹", "키워드", "광고집행 옵션ID", "광고집행 상품명", "노출수", "클릭수", "광고비", "총 주문수(1일)", "총 전환매출액(1일)"}
}

func TestNormalizeAliasesKoreanHeaders(t *testing.T) {
	raw := models.RawTable{Columns: coupangHeader(), Records: [][]string{{"20240501", "A", "G", "k", "1", "p", "10", "1", "100", "0", "0"}}}
	n, err := Normalize(raw, nil, NormalizeOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(n.Table.Columns, models.RequiredColumns) {
		t.Fatalf("expected canonical columns, got %v", n.Table.Columns)
	}
	if n.Aliased["광고비"] != models.ColSpend {
		t.Fatalf("expected 광고비 -> spend, got %q", n.Aliased["광고비"])
	}
	if raw.Columns[0] != "날짜" {
		t.Fatal("raw table was modified")
	}
}

func TestNormalizeHeaderIgnoresCaseAndSpaces(t *testing.T) {
	for _, h := range []string{"Campaign Name", " campaign  name ", "CAMPAIGNNAME", "캠페인 명"} {
		c, ok := AliasFor(h)
		if !ok || c != models.ColCampaign {
			t.Fatalf("%q: expected campaign, got %q ok=%v", h, c, ok)
		}
	}
	if _, ok := AliasFor("campaign_id"); ok {
		t.Fatal("campaign_id should not alias")
	}
}

func TestNormalizeMissingRequiredReportsColumns(t *testing.T) {
	raw := models.RawTable{Columns: []string{"date", "campaign", "keyword", "clicks"}}
	n, err := Normalize(raw, nil, NormalizeOptions{})
	var se *models.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	want := []string{"ad_group", "product_id", "product_name", "impressions", "spend", "orders", "revenue"}
	if !reflect.DeepEqual(se.Missing, want) {
		t.Fatalf("expected missing %v, got %v", want, se.Missing)
	}
	wantFields := append(append([]string{}, want...), models.OptionalColumns...)
	if !reflect.DeepEqual(n.Prompt.Fields, wantFields) {
		t.Fatalf("expected prompt %v, got %v", wantFields, n.Prompt.Fields)
	}
	if !reflect.DeepEqual(n.Prompt.Choices, raw.Columns) {
		t.Fatalf("expected choices %v, got %v", raw.Columns, n.Prompt.Choices)
	}
}

func TestNormalizeLenientMetrics(t *testing.T) {
	raw := models.RawTable{Columns: []string{"date", "campaign", "ad_group", "keyword", "product_id", "product_name", "clicks"}}
	if _, err := Normalize(raw, nil, NormalizeOptions{LenientMetrics: true}); err != nil {
		t.Fatalf("expected missing metrics to be tolerated, got %v", err)
	}
	raw.Columns = raw.Columns[1:]
	_, err := Normalize(raw, nil, NormalizeOptions{LenientMetrics: true})
	var se *models.SchemaError
	if !errors.As(err, &se) || !reflect.DeepEqual(se.Missing, []string{"date"}) {
		t.Fatalf("expected date still required, got %v", err)
	}
}

func TestNormalizeManualMapping(t *testing.T) {
	raw := models.RawTable{
		Columns: []string{"Day", "Camp", "Grp", "Term", "SKU", "Item", "Impr", "Clk", "Cost", "Ord", "Rev", "Kind"},
		Records: [][]string{{"2024-05-01", "A", "G", "k", "1", "p", "10", "1", "100", "0", "0", "exact"}},
	}
	_, err := Normalize(raw, nil, NormalizeOptions{})
	var se *models.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError before mapping, got %v", err)
	}
	manual := Mapping{
		"campaign": "Camp", "ad_group": "Grp", "keyword": "Term", "product_id": "SKU",
		"product_name": "Item", "clicks": "Clk", "orders": "Ord", "revenue": "Rev",
		"match_type": "Kind", "device": "",
	}
	n, err := Normalize(raw, manual, NormalizeOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"date", "campaign", "ad_group", "keyword", "product_id", "product_name", "impressions", "clicks", "spend", "orders", "revenue", "match_type"}
	if !reflect.DeepEqual(n.Table.Columns, want) {
		t.Fatalf("expected %v, got %v", want, n.Table.Columns)
	}
	if got := n.Table.Records[0][11]; got != "exact" {
		t.Fatalf("expected match_type cell carried over, got %q", got)
	}
}

func TestNormalizeUnknownManualColumn(t *testing.T) {
	raw := models.RawTable{Columns: []string{"date"}}
	_, err := Normalize(raw, Mapping{"campaign": "nope"}, NormalizeOptions{})
	var me *models.MappingError
	if !errors.As(err, &me) || me.Field != "campaign" || me.Column != "nope" {
		t.Fatalf("expected MappingError for campaign, got %v", err)
	}
}

func TestNormalizeRejectsUnknownMappingField(t *testing.T) {
	raw := models.RawTable{Columns: coupangHeader()}
	n, err := Normalize(raw, Mapping{"dat": "날짜"}, NormalizeOptions{})
	var me *models.MappingError
	if !errors.As(err, &me) || !me.UnknownField || me.Field != "dat" {
		t.Fatalf("expected unknown-field MappingError for dat, got %v", err)
	}
	if len(n.Prompt.Choices) != len(raw.Columns) {
		t.Fatalf("expected prompt with the raw columns, got %+v", n.Prompt)
	}
}

func TestNormalizeDuplicateKeepsFirst(t *testing.T) {
	raw := models.RawTable{
		Columns: append(coupangHeader(), "매출액"),
		Records: [][]string{{"20240501", "A", "G", "k", "1", "p", "10", "1", "100", "2", "5000", "9999"}},
	}
	n, err := Normalize(raw, nil, NormalizeOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(n.Table.Columns) != len(models.RequiredColumns) {
		t.Fatalf("expected duplicate revenue dropped, got %v", n.Table.Columns)
	}
	if got := n.Table.Records[0][n.Table.Index("revenue")]; got != "5000" {
		t.Fatalf("expected first revenue column kept, got %q", got)
	}
}
