package models

import "time"

// Canonical column names.
const (
	ColDate        = "date"
	ColCampaign    = "campaign"
	ColAdGroup     = "ad_group"
	ColKeyword     = "keyword"
	ColProductID   = "product_id"
	ColProductName = "product_name"
	ColImpressions = "impressions"
	ColClicks      = "clicks"
	ColSpend       = "spend"
	ColOrders      = "orders"
	ColRevenue     = "revenue"

	ColChannel   = "channel"
	ColDevice    = "device"
	ColPlacement = "placement"
	ColMatchType = "match_type"
)

var (
	RequiredColumns = []string{
		ColDate, ColCampaign, ColAdGroup, ColKeyword, ColProductID, ColProductName,
		ColImpressions, ColClicks, ColSpend, ColOrders, ColRevenue,
	}
	OptionalColumns = []string{ColChannel, ColDevice, ColPlacement, ColMatchType}
	MetricColumns   = []string{ColImpressions, ColClicks, ColSpend, ColOrders, ColRevenue}
)

// RawTable is an uploaded sheet as text cells. It is never modified after load.
type RawTable struct {
	Name    string
	Columns []string
	Records [][]string
}

func (t RawTable) Index(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Cell returns "" for short records.
func (t RawTable) Cell(row, col int) string {
	if col < 0 || col >= len(t.Records[row]) {
		return ""
	}
	return t.Records[row][col]
}

type Totals struct {
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	Spend       float64 `json:"spend"`
	Orders      float64 `json:"orders"`
	Revenue     float64 `json:"revenue"`
}

func (t Totals) Add(o Totals) Totals {
	return Totals{
		Impressions: t.Impressions + o.Impressions,
		Clicks:      t.Clicks + o.Clicks,
		Spend:       t.Spend + o.Spend,
		Orders:      t.Orders + o.Orders,
		Revenue:     t.Revenue + o.Revenue,
	}
}

type Ratios struct {
	CTR  float64 `json:"ctr"`
	CPC  float64 `json:"cpc"`
	CVR  float64 `json:"cvr"`
	ROAS float64 `json:"roas"`
	ACOS float64 `json:"acos"`
}

type Row struct {
	Date        time.Time `json:"date"`
	Campaign    string    `json:"campaign"`
	AdGroup     string    `json:"ad_group"`
	Keyword     string    `json:"keyword"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Channel     string    `json:"channel,omitempty"`
	Device      string    `json:"device,omitempty"`
	Placement   string    `json:"placement,omitempty"`
	MatchType   string    `json:"match_type,omitempty"`
	Totals
	Ratios
}

// Columns includes synthesized metric columns.
type Table struct {
	Columns []string
	Rows    []Row
}

func (t Table) Has(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Group is one aggregated row. Key fields not used by the dimension stay
// empty; Date is nil outside the date view.
type Group struct {
	Dimension   string     `json:"dimension"`
	Date        *time.Time `json:"date,omitempty"`
	Campaign    string     `json:"campaign,omitempty"`
	Keyword     string     `json:"keyword,omitempty"`
	MatchType   string     `json:"match_type,omitempty"`
	AdGroup     string     `json:"ad_group,omitempty"`
	ProductID   string     `json:"product_id,omitempty"`
	ProductName string     `json:"product_name,omitempty"`
	Totals
	Ratios
}

type Action struct {
	Level     string   `json:"level"`
	Name      string   `json:"name"`
	Action    string   `json:"action"`
	ChangePct *float64 `json:"change_pct,omitempty"`
	Reason    string   `json:"reason"`
}

type MarginInput struct {
	Revenue  float64 `json:"revenue"`
	Spend    float64 `json:"spend"`
	PriceAdj float64 `json:"price_adj"`
	Cost     float64 `json:"cost"`
	FeePct   float64 `json:"fee_pct"`
	Shipping float64 `json:"shipping"`
	Other    float64 `json:"other"`
}

type MarginResult struct {
	EffectiveRevenue float64 `json:"effective_revenue"`
	Spend            float64 `json:"spend"`
	Fee              float64 `json:"fee"`
	Profit           float64 `json:"profit"`
	Margin           float64 `json:"margin"`
}

type IngestReport struct {
	RowsIn             int               `json:"rows_in"`
	RowsOut            int               `json:"rows_out"`
	DroppedDates       int               `json:"dropped_dates"`
	CoercedCells       int               `json:"coerced_cells"`
	SynthesizedColumns []string          `json:"synthesized_columns"`
	Aliased            map[string]string `json:"aliased"`
}
