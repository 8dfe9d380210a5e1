package ingest

import (
	"sort"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/AngelCh415/adreport/internal/models"
)

// canonical column -> known export headers (Coupang included)
var aliasTable = map[string][]string{
	models.ColDate:        {"date", "day", "report date", "날짜", "일자", "일별", "기간", "집행일", "집행일자"},
	models.ColCampaign:    {"campaign", "campaign name", "캠페인", "캠페인명", "캠페인 이름"},
	models.ColAdGroup:     {"ad_group", "ad group", "ad group name", "광고그룹", "광고그룹명"},
	models.ColKeyword:     {"keyword", "search term", "키워드", "검색어", "검색 키워드"},
	models.ColProductID:   {"product_id", "product id", "상품ID", "상품번호", "옵션ID", "광고집행 옵션ID", "광고전환매출발생 옵션ID"},
	models.ColProductName: {"product_name", "product name", "상품명", "광고집행 상품명", "광고전환매출발생 상품명"},
	models.ColImpressions: {"impressions", "impr", "노출", "노출수"},
	models.ColClicks:      {"clicks", "클릭", "클릭수"},
	models.ColSpend:       {"spend", "cost", "ad spend", "광고비", "광고비용", "집행 광고비", "광고비(원)"},
	models.ColOrders:      {"orders", "주문수", "판매수량", "총 주문수(1일)", "총 주문수(14일)", "총 판매수량(1일)", "총 판매수량(14일)"},
	models.ColRevenue:     {"revenue", "sales", "매출", "매출액", "전환매출액", "총 전환매출액(1일)", "총 전환매출액(14일)"},
	models.ColChannel:     {"channel", "채널", "광고유형"},
	models.ColDevice:      {"device", "디바이스", "기기"},
	models.ColPlacement:   {"placement", "광고 노출 지면", "노출지면", "지면"},
	models.ColMatchType:   {"match_type", "match type", "매치유형", "매칭유형", "키워드 매치 유형"},
}

var columnAliases = buildAliasIndex(aliasTable)

func buildAliasIndex(table map[string][]string) map[string]string {
	idx := make(map[string]string)
	for canon, aliases := range table {
		for _, a := range aliases {
			idx[NormalizeHeader(a)] = canon
		}
	}
	return idx
}

func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, h)
}

func AliasFor(header string) (string, bool) {
	c, ok := columnAliases[NormalizeHeader(header)]
	return c, ok
}

// canonical column -> raw column; "" means unmapped
type Mapping map[string]string

type Prompt struct {
	Fields  []string `json:"fields"`
	Choices []string `json:"choices"`
}

type Normalized struct {
	Table   models.RawTable
	Aliased map[string]string // raw header -> canonical
	Prompt  Prompt
}

// LenientMetrics leaves missing metric columns to the coercer.
type NormalizeOptions struct {
	LenientMetrics bool
}

// aliases first, then the manual mapping; duplicates keep the first one
func Normalize(raw models.RawTable, manual Mapping, opts NormalizeOptions) (Normalized, error) {
	names := make([]string, len(raw.Columns))
	aliased := map[string]string{}
	for i, h := range raw.Columns {
		names[i] = h
		if c, ok := AliasFor(h); ok {
			names[i] = c
			aliased[h] = c
		}
	}

	prompt := Prompt{
		Fields:  PromptFields(names),
		Choices: append([]string(nil), raw.Columns...),
	}

	canonical := CanonicalColumns()
	keys := lo.Keys(manual)
	sort.Strings(keys)
	for _, k := range keys {
		if !lo.Contains(canonical, k) {
			return Normalized{Prompt: prompt}, &models.MappingError{Field: k, Column: manual[k], UnknownField: true}
		}
	}
	for _, canon := range canonical {
		src := strings.TrimSpace(manual[canon])
		if src == "" {
			continue
		}
		found := false
		for i, h := range raw.Columns {
			if h == src {
				names[i] = canon
				found = true
			}
		}
		if !found {
			return Normalized{Prompt: prompt}, &models.MappingError{Field: canon, Column: src}
		}
	}

	keep := make([]int, 0, len(names))
	seen := map[string]struct{}{}
	for i, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		keep = append(keep, i)
	}

	out := models.RawTable{
		Name:    raw.Name,
		Columns: make([]string, len(keep)),
		Records: make([][]string, len(raw.Records)),
	}
	for j, i := range keep {
		out.Columns[j] = names[i]
	}
	for r := range raw.Records {
		rec := make([]string, len(keep))
		for j, i := range keep {
			rec[j] = raw.Cell(r, i)
		}
		out.Records[r] = rec
	}

	var missing []string
	for _, c := range models.RequiredColumns {
		if _, ok := seen[c]; ok {
			continue
		}
		if opts.LenientMetrics && lo.Contains(models.MetricColumns, c) {
			continue
		}
		missing = append(missing, c)
	}
	n := Normalized{Table: out, Aliased: aliased, Prompt: prompt}
	if len(missing) > 0 {
		return n, &models.SchemaError{Missing: missing}
	}
	return n, nil
}

func CanonicalColumns() []string {
	return append(append([]string{}, models.RequiredColumns...), models.OptionalColumns...)
}

// missing required columns, then every optional one
func PromptFields(names []string) []string {
	fields := lo.Filter(models.RequiredColumns, func(c string, _ int) bool {
		return !lo.Contains(names, c)
	})
	return append(fields, models.OptionalColumns...)
}
