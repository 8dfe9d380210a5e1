package ingest

import (
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/AngelCh415/adreport/internal/metrics"
	"github.com/AngelCh415/adreport/internal/models"
	"github.com/AngelCh415/adreport/internal/utils"
)

// Pipeline turns a raw upload into the normalized working table.
type Pipeline struct {
	log  *slog.Logger
	opts NormalizeOptions
}

func NewPipeline(log *slog.Logger, opts NormalizeOptions) *Pipeline {
	return &Pipeline{log: log, opts: opts}
}

type Result struct {
	Table  models.Table
	Report models.IngestReport
	Prompt Prompt
}

// Build normalizes columns, resolves dates (dropping unresolved rows),
// coerces metrics and derives ratios. Only structural problems return an
// error; the prompt is filled in either way.
func (p *Pipeline) Build(raw models.RawTable, manual Mapping) (Result, error) {
	norm, err := Normalize(raw, manual, p.opts)
	if err != nil {
		p.log.Warn("normalize failed", slog.String("file", raw.Name), slog.String("err", err.Error()))
		return Result{Prompt: norm.Prompt}, err
	}
	for h, c := range norm.Aliased {
		p.log.Debug("column aliased", slog.String("header", h), slog.String("column", c))
	}
	t := norm.Table

	dateIdx := t.Index(models.ColDate)
	rawDates := make([]string, len(t.Records))
	for r := range t.Records {
		rawDates[r] = t.Cell(r, dateIdx)
	}
	dates := ParseDates(rawDates)
	nums := CoerceNumeric(t, models.MetricColumns)

	col := func(name string) func(r int) string {
		idx := t.Index(name)
		return func(r int) string { return strings.TrimSpace(t.Cell(r, idx)) }
	}
	campaign, adGroup, keyword := col(models.ColCampaign), col(models.ColAdGroup), col(models.ColKeyword)
	productID, productName := col(models.ColProductID), col(models.ColProductName)
	channel, device := col(models.ColChannel), col(models.ColDevice)
	placement, matchType := col(models.ColPlacement), col(models.ColMatchType)

	rows := make([]models.Row, 0, len(t.Records))
	for r := range t.Records {
		if !dates[r].Resolved {
			continue
		}
		rows = append(rows, models.Row{
			Date:        dates[r].Day,
			Campaign:    campaign(r),
			AdGroup:     adGroup(r),
			Keyword:     keyword(r),
			ProductID:   productID(r),
			ProductName: productName(r),
			Channel:     channel(r),
			Device:      device(r),
			Placement:   placement(r),
			MatchType:   matchType(r),
			Totals: models.Totals{
				Impressions: nums.Columns[models.ColImpressions][r],
				Clicks:      nums.Columns[models.ColClicks][r],
				Spend:       nums.Columns[models.ColSpend][r],
				Orders:      nums.Columns[models.ColOrders][r],
				Revenue:     nums.Columns[models.ColRevenue][r],
			},
		})
	}

	columns := lo.Filter(CanonicalColumns(), func(c string, _ int) bool {
		return lo.Contains(t.Columns, c) || lo.Contains(nums.Synthesized, c)
	})

	report := models.IngestReport{
		RowsIn:             len(t.Records),
		RowsOut:            len(rows),
		DroppedDates:       len(t.Records) - len(rows),
		CoercedCells:       nums.Defaulted,
		SynthesizedColumns: nums.Synthesized,
		Aliased:            norm.Aliased,
	}
	utils.PipelineRows.WithLabelValues("kept").Add(float64(report.RowsOut))
	utils.PipelineRows.WithLabelValues("dropped_date").Add(float64(report.DroppedDates))
	utils.PipelineCells.Add(float64(report.CoercedCells))

	p.log.Info("ingest complete",
		slog.String("file", raw.Name),
		slog.Int("rows_in", report.RowsIn),
		slog.Int("rows_out", report.RowsOut),
		slog.Int("dropped_dates", report.DroppedDates),
		slog.Int("coerced_cells", report.CoercedCells),
		slog.Any("synthesized", report.SynthesizedColumns),
	)

	return Result{
		Table:  models.Table{Columns: columns, Rows: metrics.Derive(rows)},
		Report: report,
		Prompt: norm.Prompt,
	}, nil
}
