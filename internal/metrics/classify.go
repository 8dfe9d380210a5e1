package metrics

import (
	"github.com/AngelCh415/adreport/internal/models"
)

// fixed, independent of Thresholds.MinClicks
const PauseMinClicks = 100

const (
	ActionPause   = "pause"
	ActionBidDown = "bid_down"
	ActionBidUp   = "bid_up"

	BidDownPct = -15.0
	BidUpPct   = 10.0
)

type Thresholds struct {
	TargetACOS float64 `json:"target_acos"`
	MinClicks  float64 `json:"min_clicks"`
	MinOrders  float64 `json:"min_orders"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{TargetACOS: 0.25, MinClicks: 50, MinOrders: 3}
}

// a keyword may sit in more than one set
type Segments struct {
	Winners         []models.Group `json:"winners"`
	PauseCandidates []models.Group `json:"pause_candidates"`
	Inefficient     []models.Group `json:"inefficient"`
}

func IsWinner(g models.Group, th Thresholds) bool {
	return g.Orders >= th.MinOrders && g.ACOS <= th.TargetACOS
}

func IsPauseCandidate(g models.Group) bool {
	return g.Clicks >= PauseMinClicks && g.Orders == 0
}

func IsInefficient(g models.Group, th Thresholds) bool {
	return g.ACOS > th.TargetACOS && g.Clicks >= th.MinClicks
}

// winners by roas, pauses by clicks, inefficient by acos; all desc
func Classify(groups []models.Group, th Thresholds) Segments {
	var s Segments
	for _, g := range groups {
		if IsWinner(g, th) {
			s.Winners = append(s.Winners, g)
		}
		if IsPauseCandidate(g) {
			s.PauseCandidates = append(s.PauseCandidates, g)
		}
		if IsInefficient(g, th) {
			s.Inefficient = append(s.Inefficient, g)
		}
	}
	s.Winners, _ = SortGroups(s.Winners, "roas", false)
	s.PauseCandidates, _ = SortGroups(s.PauseCandidates, "clicks", false)
	s.Inefficient, _ = SortGroups(s.Inefficient, "acos", false)
	return s
}

// pause, then bid_down, then bid_up
func Actions(s Segments) []models.Action {
	out := make([]models.Action, 0, len(s.PauseCandidates)+len(s.Inefficient)+len(s.Winners))
	for _, g := range s.PauseCandidates {
		out = append(out, models.Action{Level: "keyword", Name: g.Keyword, Action: ActionPause, Reason: "Clicks>=100 & Orders=0"})
	}
	for _, g := range s.Inefficient {
		out = append(out, models.Action{Level: "keyword", Name: g.Keyword, Action: ActionBidDown, ChangePct: pct(BidDownPct), Reason: "ACoS>target"})
	}
	for _, g := range s.Winners {
		out = append(out, models.Action{Level: "keyword", Name: g.Keyword, Action: ActionBidUp, ChangePct: pct(BidUpPct), Reason: "Good ROAS"})
	}
	return out
}

func pct(v float64) *float64 { return &v }
