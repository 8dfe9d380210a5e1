package metrics

import (
	"math"
	"testing"

	"github.com/AngelCh415/adreport/internal/models"
)

func TestMargin(t *testing.T) {
	got := Margin(models.MarginInput{
		Revenue: 20000, Spend: 1000, PriceAdj: 1000, Cost: 5000, FeePct: 0.1, Shipping: 500, Other: 400,
	})
	// effective 21000, fee 2100, profit 21000-1000-2100-500-400-5000
	want := models.MarginResult{EffectiveRevenue: 21000, Spend: 1000, Fee: 2100, Profit: 12000, Margin: 12000.0 / 21000}
	if math.Abs(got.Fee-want.Fee) > 1e-9 || math.Abs(got.Profit-want.Profit) > 1e-9 || math.Abs(got.Margin-want.Margin) > 1e-12 {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if got.EffectiveRevenue != want.EffectiveRevenue {
		t.Fatalf("expected effective revenue %v, got %v", want.EffectiveRevenue, got.EffectiveRevenue)
	}
}

func TestMarginNoRevenue(t *testing.T) {
	got := Margin(models.MarginInput{Spend: 300, FeePct: 0.12, Shipping: 20})
	if got.Margin != 0 || got.Profit != -320 || got.Fee != 0 {
		t.Fatalf("unexpected result %+v", got)
	}
	neg := Margin(models.MarginInput{Revenue: 100, PriceAdj: -200})
	if neg.Margin != 0 {
		t.Fatalf("expected zero margin for non-positive effective revenue, got %v", neg.Margin)
	}
}
