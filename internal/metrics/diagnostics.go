package metrics

import (
	"fmt"
	"math"

	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

const (
	fatigueFrequency   = 3.5
	lowCTR             = 0.8
	lowCTRImpressions  = 10000
	cartDropOffPct     = 60.0
	attributionGapPct  = 15.0
	strongCountryROAS  = 3.0
	improvingROASPct   = 5.0
	healthyMarginalPct = 10.0
)

// Diagnose scans the current window for rule violations and positive
// signals. Campaign findings come first, then the cross-source attribution
// check, then the positive signals taken from rep.
func Diagnose(cur Aggregation, rep models.EfficiencyReport) []models.Diagnostic {
	out := make([]models.Diagnostic, 0)

	for _, c := range cur.Campaigns {
		out = append(out, campaignFindings(c)...)
	}

	metaConv := sum(cur.Campaigns, func(c models.CampaignMetric) float64 { return float64(c.Conversions) })
	storeOrders := float64(cur.Overview.ChannelAOrders)
	if metaConv > 0 && storeOrders > 0 {
		gap := math.Abs(metaConv-storeOrders) / metaConv * 100
		if gap > attributionGapPct {
			out = append(out, models.Diagnostic{
				Severity: models.SeverityWarning,
				Title:    fmt.Sprintf("Attribution Mismatch: %.0f%%", gap),
				Detail:   fmt.Sprintf("Meta reports %.0f conversions, Salla shows %.0f orders.", metaConv, storeOrders),
				Action:   "Check pixel setup and order confirmation page",
			})
		}
	}

	for _, c := range rep.Countries {
		if c.Status == models.StatusGreen && c.ROAS > strongCountryROAS {
			out = append(out, models.Diagnostic{
				Severity: models.SeveritySuccess,
				Title:    fmt.Sprintf("%s: Strong Performance (%.2fx ROAS)", c.Name, c.ROAS),
				Detail:   fmt.Sprintf("Efficient CAC at $%.2f. Market is performing well.", c.CAC),
				Action:   fmt.Sprintf("Consider scaling %s budget +30%%", c.Name),
			})
		}
	}

	if rep.ROASChangePct > improvingROASPct {
		out = append(out, models.Diagnostic{
			Severity: models.SeveritySuccess,
			Title:    fmt.Sprintf("ROAS improved %.1f%% vs last period", rep.ROASChangePct),
			Detail:   "Overall acquisition efficiency is improving.",
			Action:   "Continue current strategy",
		})
	}

	if rep.MarginalPremiumPct < healthyMarginalPct {
		out = append(out, models.Diagnostic{
			Severity: models.SeveritySuccess,
			Title:    "Marginal CAC is healthy",
			Detail:   fmt.Sprintf("New spending is only %.0f%% less efficient than average.", rep.MarginalPremiumPct),
			Action:   "Room to scale if needed",
		})
	}

	return out
}

func campaignFindings(c models.CampaignMetric) []models.Diagnostic {
	var out []models.Diagnostic
	if c.Frequency > fatigueFrequency {
		out = append(out, models.Diagnostic{
			Severity: models.SeverityWarning,
			Title:    fmt.Sprintf("%s: High Frequency (%.1f)", c.CampaignName, c.Frequency),
			Detail:   "Audience seeing ads 3.5+ times per week. Creative fatigue likely.",
			Action:   "Reduce budget 20% and refresh creatives",
		})
	}
	if c.CTR < lowCTR && c.Impressions > lowCTRImpressions {
		out = append(out, models.Diagnostic{
			Severity: models.SeverityWarning,
			Title:    fmt.Sprintf("%s: Low CTR (%.2f%%)", c.CampaignName, c.CTR),
			Detail:   "Below average click-through rate indicates creative or targeting issues.",
			Action:   "Test new creatives or refine audience targeting",
		})
	}
	if c.AddToCart > 0 && c.CheckoutsInitiated > 0 {
		dropOff := float64(c.AddToCart-c.CheckoutsInitiated) / float64(c.AddToCart) * 100
		if dropOff > cartDropOffPct {
			out = append(out, models.Diagnostic{
				Severity: models.SeverityWarning,
				Title:    fmt.Sprintf("%s: High Cart Abandonment (%.0f%%)", c.CampaignName, dropOff),
				Detail:   fmt.Sprintf("%d added to cart but only %d started checkout.", c.AddToCart, c.CheckoutsInitiated),
				Action:   "Check cart page UX, shipping costs, payment options",
			})
		}
	}
	return out
}
