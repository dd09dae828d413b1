package metrics

import "github.com/AngelCh415/adspend-efficiency/internal/models"

const rollingDays = 3

// EfficiencyTrends adds a trailing rolling CAC/ROAS and a day-over-day
// marginal CAC to an ascending daily series. The first days use whatever
// history they have, so day one's rolling values equal its own.
func EfficiencyTrends(days []models.DailyMetric) []models.EfficiencyTrend {
	out := make([]models.EfficiencyTrend, 0, len(days))
	for i, d := range days {
		start := i - rollingDays + 1
		if start < 0 {
			start = 0
		}
		var spend, revenue float64
		var orders int
		for _, w := range days[start : i+1] {
			spend += w.Spend
			revenue += w.Revenue
			orders += w.Orders
		}

		marginal := d.CAC
		if i > 0 {
			if dOrders := d.Orders - days[i-1].Orders; dOrders > 0 {
				marginal = (d.Spend - days[i-1].Spend) / float64(dOrders)
			}
		}

		out = append(out, models.EfficiencyTrend{
			DailyMetric: d,
			RollingCAC:  safeDiv(spend, float64(orders)),
			RollingROAS: safeDiv(revenue, spend),
			MarginalCAC: marginal,
		})
	}
	return out
}
