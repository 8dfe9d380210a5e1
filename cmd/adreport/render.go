package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/AngelCh415/adreport/internal/metrics"
	"github.com/AngelCh415/adreport/internal/models"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func num(f float64) string   { return strconv.FormatFloat(f, 'f', 0, 64) }
func ratio(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }
func pct(f float64) string   { return strconv.FormatFloat(f*100, 'f', 2, 64) + "%" }

func renderSummary(w io.Writer, s metrics.Summary) {
	t := newTable("spend", "revenue", "roas", "acos", "clicks", "impressions", "orders", "rows").
		Row(num(s.Spend), num(s.Revenue), ratio(s.ROAS), ratio(s.ACOS), num(s.Clicks), num(s.Impressions), num(s.Orders), strconv.Itoa(s.Rows))
	fmt.Fprintln(w, t.Render())
}

func groupLabels(dim metrics.Dimension) []string {
	switch dim {
	case metrics.ByDate:
		return []string{"date"}
	case metrics.ByCampaign:
		return []string{"campaign"}
	case metrics.ByKeywordOnly:
		return []string{"keyword"}
	case metrics.ByKeyword:
		return []string{"keyword", "match_type/ad_group"}
	case metrics.ByProduct:
		return []string{"product_id", "product_name"}
	}
	return nil
}

func groupKey(dim metrics.Dimension, g models.Group) []string {
	switch dim {
	case metrics.ByDate:
		return []string{g.Date.Format("2006-01-02")}
	case metrics.ByCampaign:
		return []string{g.Campaign}
	case metrics.ByKeywordOnly:
		return []string{g.Keyword}
	case metrics.ByKeyword:
		second := g.MatchType
		if second == "" {
			second = g.AdGroup
		}
		return []string{g.Keyword, second}
	case metrics.ByProduct:
		return []string{g.ProductID, g.ProductName}
	}
	return nil
}

func renderGroups(w io.Writer, dim metrics.Dimension, groups []models.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "(none)")
		return
	}
	headers := append(groupLabels(dim), "impr", "clicks", "spend", "orders", "revenue", "ctr", "cpc", "cvr", "roas", "acos")
	t := newTable(headers...)
	for _, g := range groups {
		row := append(groupKey(dim, g),
			num(g.Impressions), num(g.Clicks), num(g.Spend), num(g.Orders), num(g.Revenue),
			pct(g.CTR), ratio(g.CPC), pct(g.CVR), ratio(g.ROAS), ratio(g.ACOS))
		t.Row(row...)
	}
	fmt.Fprintln(w, t.Render())
}

func renderActions(w io.Writer, actions []models.Action) {
	t := newTable("level", "name", "action", "change_pct", "reason")
	for _, a := range actions {
		change := ""
		if a.ChangePct != nil {
			change = strconv.FormatFloat(*a.ChangePct, 'f', -1, 64)
		}
		t.Row(a.Level, a.Name, a.Action, change, a.Reason)
	}
	fmt.Fprintln(w, t.Render())
}

func renderMargin(w io.Writer, m models.MarginResult) {
	t := newTable("revenue", "ad spend", "fee", "profit", "margin").
		Row(num(m.EffectiveRevenue), num(m.Spend), num(m.Fee), num(m.Profit), pct(m.Margin))
	fmt.Fprintln(w, t.Render())
}
