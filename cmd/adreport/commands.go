package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/AngelCh415/adreport/internal/config"
	"github.com/AngelCh415/adreport/internal/ingest"
	"github.com/AngelCh415/adreport/internal/metrics"
	"github.com/AngelCh415/adreport/internal/models"
)

type options struct {
	cfg       config.Config
	mappings  []string
	from, to  string
	campaigns []string
	detail    string
	sortBy    string
	asc       bool
	lenient   bool
	asJSON    bool
	verbose   bool

	targetACOS, minClicks, minOrders        float64
	priceAdj, cost, feePct, shipping, other float64
}

func bindFlags(root *cobra.Command, cfg config.Config) *options {
	o := &options{cfg: cfg}
	f := root.PersistentFlags()
	f.StringArrayVar(&o.mappings, "map", nil, "manual column mapping canonical=raw (repeatable)")
	f.StringVar(&o.from, "from", "", "first day to include (YYYY-MM-DD)")
	f.StringVar(&o.to, "to", "", "last day to include (YYYY-MM-DD)")
	f.StringSliceVar(&o.campaigns, "campaign", nil, "campaigns to include (default all)")
	f.StringVar(&o.detail, "detail", "", "single campaign scope for keyword/product views")
	f.StringVar(&o.sortBy, "sort", "", "sort key: "+strings.Join(metrics.SortKeys, ", "))
	f.BoolVar(&o.asc, "asc", false, "sort ascending")
	f.BoolVar(&o.lenient, "lenient", cfg.LenientMetrics, "treat missing metric columns as zero instead of failing")
	f.BoolVar(&o.asJSON, "json", false, "print JSON instead of tables")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "log pipeline details to stderr")
	f.Float64Var(&o.targetACOS, "target-acos", cfg.TargetACOS, "target ACoS for keyword segments")
	f.Float64Var(&o.minClicks, "min-clicks", cfg.MinClicks, "minimum clicks for the inefficient segment")
	f.Float64Var(&o.minOrders, "min-orders", cfg.MinOrders, "minimum orders for winners")
	f.Float64Var(&o.priceAdj, "price-adj", 0, "margin: revenue adjustment")
	f.Float64Var(&o.cost, "cost", 0, "margin: total unit cost")
	f.Float64Var(&o.feePct, "fee-pct", math.Round(cfg.FeePct*1e4)/100, "margin: channel fee in percent")
	f.Float64Var(&o.shipping, "shipping", 0, "margin: shipping total")
	f.Float64Var(&o.other, "other", 0, "margin: other costs")
	return o
}

// query renders the flags as the query values the HTTP API takes, so both
// surfaces share one parser.
func (o *options) query() url.Values {
	v := url.Values{}
	set := func(k, s string) {
		if s != "" {
			v.Set(k, s)
		}
	}
	ftoa := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	set("from", o.from)
	set("to", o.to)
	set("campaign", strings.Join(o.campaigns, ","))
	set("detail", o.detail)
	set("sort", o.sortBy)
	if o.asc {
		v.Set("asc", "true")
	}
	v.Set("target_acos", ftoa(o.targetACOS))
	v.Set("min_clicks", ftoa(o.minClicks))
	v.Set("min_orders", ftoa(o.minOrders))
	v.Set("price_adj", ftoa(o.priceAdj))
	v.Set("cost", ftoa(o.cost))
	v.Set("fee_pct", ftoa(o.feePct))
	v.Set("shipping", ftoa(o.shipping))
	v.Set("other", ftoa(o.other))
	return v
}

func (o *options) mapping() (ingest.Mapping, error) {
	m := ingest.Mapping{}
	for _, kv := range o.mappings {
		canon, raw, ok := strings.Cut(kv, "=")
		canon = strings.TrimSpace(canon)
		if !ok || canon == "" {
			return nil, fmt.Errorf("bad --map %q, want canonical=raw", kv)
		}
		if !lo.Contains(ingest.CanonicalColumns(), canon) {
			return nil, fmt.Errorf("bad --map %q: %q is not one of %s", kv, canon, strings.Join(ingest.CanonicalColumns(), ", "))
		}
		m[canon] = strings.TrimSpace(raw)
	}
	return m, nil
}

// prepare loads and normalizes path and parses the view parameters.
func (o *options) prepare(cmd *cobra.Command, path string) (models.Table, metrics.Params, *metrics.Service, error) {
	lvl := slog.LevelWarn
	if o.verbose {
		lvl = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))

	manual, err := o.mapping()
	if err != nil {
		return models.Table{}, metrics.Params{}, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return models.Table{}, metrics.Params{}, nil, err
	}
	defer f.Close()

	raw, err := ingest.Load(path, f)
	if err != nil {
		return models.Table{}, metrics.Params{}, nil, err
	}
	res, err := ingest.NewPipeline(log, ingest.NormalizeOptions{LenientMetrics: o.lenient}).Build(raw, manual)
	if err != nil {
		var se *models.SchemaError
		if errors.As(err, &se) || errors.As(err, new(*models.MappingError)) {
			printPrompt(cmd.ErrOrStderr(), res.Prompt)
		}
		return models.Table{}, metrics.Params{}, nil, err
	}
	if res.Report.DroppedDates > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "note: %d rows dropped for unreadable dates\n", res.Report.DroppedDates)
	}

	svc := metrics.NewService(metrics.Defaults{
		Thresholds: metrics.Thresholds{TargetACOS: o.cfg.TargetACOS, MinClicks: o.cfg.MinClicks, MinOrders: o.cfg.MinOrders},
		FeePct:     o.cfg.FeePct,
	})
	p, err := svc.Params(o.query())
	if err != nil {
		return models.Table{}, metrics.Params{}, nil, err
	}
	return res.Table, p, svc, nil
}

func printPrompt(w io.Writer, p ingest.Prompt) {
	fmt.Fprintln(w, "map columns with --map canonical=raw")
	fmt.Fprintln(w, "  fields: ", strings.Join(p.Fields, ", "))
	fmt.Fprintln(w, "  columns:", strings.Join(p.Choices, ", "))
}

func (o *options) emit(w io.Writer, v any, render func()) error {
	if o.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", " ")
		return enc.Encode(v)
	}
	render()
	return nil
}

func newSummaryCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary FILE",
		Short: "KPIs of the filtered report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, p, svc, err := o.prepare(cmd, args[0])
			if err != nil {
				return err
			}
			s := svc.Summary(t, p)
			return o.emit(cmd.OutOrStdout(), s, func() {
				if s.Empty {
					fmt.Fprintln(cmd.OutOrStdout(), "no rows match the selected filters")
					return
				}
				renderSummary(cmd.OutOrStdout(), s)
			})
		},
	}
}

func newViewCommand(o *options) *cobra.Command {
	var by string
	var limit int
	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Aggregate by date, campaign, keyword, keyword_only or product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dim, err := metrics.ParseDimension(by)
			if err != nil {
				return err
			}
			t, p, svc, err := o.prepare(cmd, args[0])
			if err != nil {
				return err
			}
			p.Limit = limit
			groups, err := svc.View(t, dim, p)
			if err != nil {
				return err
			}
			return o.emit(cmd.OutOrStdout(), groups, func() { renderGroups(cmd.OutOrStdout(), dim, groups) })
		},
	}
	cmd.Flags().StringVar(&by, "by", string(metrics.ByCampaign), "dimension")
	cmd.Flags().IntVar(&limit, "limit", 0, "max rows (0 = all)")
	return cmd
}

func newSegmentsCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "segments FILE",
		Short: "Winner, pause and inefficient keyword sets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, p, svc, err := o.prepare(cmd, args[0])
			if err != nil {
				return err
			}
			seg := svc.Segments(t, p)
			return o.emit(cmd.OutOrStdout(), seg, func() {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Winners")
				renderGroups(out, metrics.ByKeyword, seg.Winners)
				fmt.Fprintf(out, "Pause candidates (clicks>=%d, orders=0)\n", metrics.PauseMinClicks)
				renderGroups(out, metrics.ByKeyword, seg.PauseCandidates)
				fmt.Fprintln(out, "Inefficient (ACoS above target)")
				renderGroups(out, metrics.ByKeyword, seg.Inefficient)
			})
		},
	}
}

func newActionsCommand(o *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "actions FILE",
		Short: "Keyword actions derived from the segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, p, svc, err := o.prepare(cmd, args[0])
			if err != nil {
				return err
			}
			actions := svc.Actions(t, p)
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				if err := metrics.WriteActionsCSV(f, actions); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d actions to %s\n", len(actions), output)
				return nil
			}
			return o.emit(cmd.OutOrStdout(), actions, func() {
				if len(actions) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no actions match; adjust the thresholds")
					return
				}
				renderActions(cmd.OutOrStdout(), actions)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write CSV here (e.g. "+metrics.ActionsFilename+")")
	return cmd
}

func newMarginCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "margin FILE",
		Short: "Profit and margin of the filtered report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, p, svc, err := o.prepare(cmd, args[0])
			if err != nil {
				return err
			}
			m := svc.Margin(t, p)
			return o.emit(cmd.OutOrStdout(), m, func() { renderMargin(cmd.OutOrStdout(), m) })
		},
	}
}
