package metrics

import (
	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

const (
	overallYellowRatio = 0.85
	overallRedRatio    = 0.70
	cacYellowFactor    = 1.3
	cacRedFactor       = 1.5

	freqYellow   = 3.0
	freqRed      = 4.0
	cpmYellowPct = 15.0
	cpmRedPct    = 25.0
	ctrYellowPct = -10.0
	ctrRedPct    = -20.0

	cacCountryHold = 15.0
	cacCountryCut  = 30.0
	headroomScale  = "Can scale +40%"
	headroomHold   = "Hold budget"
	headroomReduce = "Reduce -20%"
)

// Compare builds the efficiency report of cur against prev, the window of
// equal length that ends the day before cur starts.
func Compare(cur, prev Aggregation) models.EfficiencyReport {
	c, p := cur.Overview, prev.Overview

	spendChange := pctChange(c.Spend, p.Spend)
	roasChange := pctChange(c.ROAS, p.ROAS)

	// Con uno de los dos cambios en cero el ratio queda fijo en 1.
	ratio := 1.0
	if spendChange != 0 && roasChange != 0 {
		ratio = safeDiv(1+roasChange/100, 1+spendChange/100)
	}

	incSpend := c.Spend - p.Spend
	incOrders := c.Orders - p.Orders
	marginal := c.CAC
	if incOrders > 0 {
		marginal = incSpend / float64(incOrders)
	}

	return models.EfficiencyReport{
		Status:             classifyOverall(ratio, marginal, c.CAC),
		Current:            c,
		Previous:           p,
		PreviousWindow:     prev.Window,
		SpendChangePct:     spendChange,
		ROASChangePct:      roasChange,
		EfficiencyRatio:    ratio,
		AverageCAC:         c.CAC,
		MarginalCAC:        marginal,
		MarginalPremiumPct: pctChange(marginal, c.CAC),
		Campaigns:          campaignEfficiency(cur.Campaigns, prev.Campaigns),
		Countries:          countryScaling(cur.Countries, prev.Countries),
	}
}

func classifyOverall(ratio, marginalCAC, cac float64) models.Status {
	switch {
	case ratio < overallRedRatio || marginalCAC > cac*cacRedFactor:
		return models.StatusRed
	case ratio < overallYellowRatio || marginalCAC > cac*cacYellowFactor:
		return models.StatusYellow
	default:
		return models.StatusGreen
	}
}

func campaignEfficiency(cur, prev []models.CampaignMetric) []models.CampaignEfficiency {
	byID := make(map[string]models.CampaignMetric, len(prev))
	for _, p := range prev {
		// prev llega ordenado por gasto; gana la primera aparición
		if _, ok := byID[p.CampaignID]; !ok {
			byID[p.CampaignID] = p
		}
	}

	out := make([]models.CampaignEfficiency, 0, len(cur))
	for _, c := range cur {
		e := models.CampaignEfficiency{CampaignMetric: c, Status: models.StatusGreen, MarginalCAC: c.MetaCAC}
		if p, ok := byID[c.CampaignID]; ok {
			e.CPMChangePct = pctChange(c.CPM, p.CPM)
			e.CTRChangePct = pctChange(c.CTR, p.CTR)
			incSpend := c.Spend - p.Spend
			incConv := c.Conversions - p.Conversions
			if incConv > 0 {
				e.MarginalCAC = incSpend / float64(incConv)
			}
			e.Status = classifyCampaign(c.Frequency, e.CPMChangePct, e.CTRChangePct, e.MarginalCAC, c.MetaCAC)
		}
		out = append(out, e)
	}
	return out
}

func classifyCampaign(freq, cpmChange, ctrChange, marginalCAC, metaCAC float64) models.Status {
	switch {
	case freq > freqRed || cpmChange > cpmRedPct || ctrChange < ctrRedPct || marginalCAC > metaCAC*cacRedFactor:
		return models.StatusRed
	case freq > freqYellow || cpmChange > cpmYellowPct || ctrChange < ctrYellowPct || marginalCAC > metaCAC*cacYellowFactor:
		return models.StatusYellow
	default:
		return models.StatusGreen
	}
}

func countryScaling(cur, prev []models.CountryMetric) []models.CountryScaling {
	byCode := make(map[string]models.CountryMetric, len(prev))
	for _, p := range prev {
		byCode[p.Code] = p
	}

	out := make([]models.CountryScaling, 0, len(cur))
	for _, c := range cur {
		s := models.CountryScaling{CountryMetric: c, Status: models.StatusGreen, Headroom: headroomScale}
		if p, ok := byCode[c.Code]; ok && p.CAC > 0 {
			s.Status, s.Headroom = classifyCountry(pctChange(c.CAC, p.CAC))
		}
		out = append(out, s)
	}
	return out
}

func classifyCountry(cacChange float64) (models.Status, string) {
	switch {
	case cacChange > cacCountryCut:
		return models.StatusRed, headroomReduce
	case cacChange > cacCountryHold:
		return models.StatusYellow, headroomHold
	default:
		return models.StatusGreen, headroomScale
	}
}
