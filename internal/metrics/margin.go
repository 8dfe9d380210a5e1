package metrics

import "github.com/AngelCh415/adreport/internal/models"

// Margin combines revenue and spend with cost inputs. FeePct is a
// fraction (0.12 for 12%).
func Margin(in models.MarginInput) models.MarginResult {
	eff := in.Revenue + in.PriceAdj
	fee := eff * in.FeePct
	profit := eff - in.Spend - fee - in.Shipping - in.Other - in.Cost
	res := models.MarginResult{
		EffectiveRevenue: eff,
		Spend:            in.Spend,
		Fee:              fee,
		Profit:           profit,
	}
	if eff > 0 {
		res.Margin = profit / eff
	}
	return res
}
