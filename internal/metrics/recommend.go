package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

const (
	cutShare        = 0.25
	scaleShare      = 0.25
	scaleCACFactor  = 1.1
	shiftShare      = 0.2
	maxShiftAmount  = 1000.0
	refreshCTRDelta = -10.0
)

// Recommend turns an efficiency report into budget actions, highest
// priority first. Ties keep report order. windowDays scales the per-day
// savings estimate of budget cuts.
func Recommend(rep models.EfficiencyReport, windowDays int) []models.Recommendation {
	out := make([]models.Recommendation, 0)

	for _, c := range rep.Campaigns {
		switch {
		case c.Status == models.StatusRed:
			out = append(out, models.Recommendation{
				Priority: 1,
				Kind:     models.KindUrgent,
				Title:    fmt.Sprintf("Reduce %s budget by 25%%", c.CampaignName),
				Detail:   fmt.Sprintf("Frequency at %.1f means audience is oversaturated. Reduce spend and let audience recover.", c.Frequency),
				Impact:   fmt.Sprintf("Expected: Save ~$%.0f/day, improve efficiency by 15%%", safeDiv(c.Spend*cutShare, float64(windowDays))),
			})
		case c.Status == models.StatusYellow && c.CTRChangePct < refreshCTRDelta:
			out = append(out, models.Recommendation{
				Priority: 2,
				Kind:     models.KindStandard,
				Title:    fmt.Sprintf("Refresh %s creatives", c.CampaignName),
				Detail:   fmt.Sprintf("CTR dropped %.0f%% while frequency rising. Creative fatigue setting in.", math.Abs(c.CTRChangePct)),
				Impact:   "Expected: Restore CTR, reduce CPC by ~15%",
			})
		case c.Status == models.StatusGreen && c.MarginalCAC < c.MetaCAC*scaleCACFactor:
			out = append(out, models.Recommendation{
				Priority: 3,
				Kind:     models.KindPositive,
				Title:    fmt.Sprintf("Scale %s by 25%%", c.CampaignName),
				Detail:   fmt.Sprintf("Low frequency (%.1f), stable metrics, efficient marginal CAC. Room to grow.", c.Frequency),
				Impact:   fmt.Sprintf("Expected: +%d additional conversions at current efficiency", int(math.Floor(float64(c.Conversions)*scaleShare))),
			})
		}
	}

	var green, red []models.CountryScaling
	for _, c := range rep.Countries {
		switch c.Status {
		case models.StatusGreen:
			green = append(green, c)
		case models.StatusRed:
			red = append(red, c)
		}
	}
	if len(green) > 0 && len(red) > 0 {
		shift := math.Min(sum(red, func(c models.CountryScaling) float64 { return c.Spend * shiftShare }), maxShiftAmount)
		out = append(out, models.Recommendation{
			Priority: 2,
			Kind:     models.KindStandard,
			Title:    fmt.Sprintf("Shift $%.0f from %s to %s", shift, countryNames(red, ", "), countryNames(green, ", ")),
			Detail:   fmt.Sprintf("%s showing saturation. %s still efficient with room to grow.", countryNames(red, " and "), countryNames(green, " and ")),
			Impact:   "Expected: Better overall ROAS with same spend",
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

func countryNames(cs []models.CountryScaling, sep string) string {
	names := make([]string, 0, len(cs))
	for _, c := range cs {
		names = append(names, c.Name)
	}
	return strings.Join(names, sep)
}
