package metrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

// quietReport no dispara ninguna señal positiva.
func quietReport() models.EfficiencyReport {
	return models.EfficiencyReport{MarginalPremiumPct: 50}
}

func titles(ds []models.Diagnostic) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Title)
	}
	return out
}

func TestCartAbandonmentThreshold(t *testing.T) {
	c := models.CampaignMetric{CampaignName: "Gift Giver", AddToCart: 100, CheckoutsInitiated: 30}
	got := Diagnose(Aggregation{Campaigns: []models.CampaignMetric{c}}, quietReport())
	require.Len(t, got, 1)
	assert.Equal(t, models.SeverityWarning, got[0].Severity)
	assert.Equal(t, "Gift Giver: High Cart Abandonment (70%)", got[0].Title)
	assert.Contains(t, got[0].Detail, "100 added to cart")
	assert.Contains(t, got[0].Detail, "only 30 started checkout")

	c.CheckoutsInitiated = 50
	got = Diagnose(Aggregation{Campaigns: []models.CampaignMetric{c}}, quietReport())
	assert.Empty(t, got)

	// sin checkouts no se evalúa
	c.CheckoutsInitiated = 0
	got = Diagnose(Aggregation{Campaigns: []models.CampaignMetric{c}}, quietReport())
	assert.Empty(t, got)
}

func TestFatigueAndLowCTR(t *testing.T) {
	tired := models.CampaignMetric{CampaignName: "Modern", Frequency: 3.6, CTR: 1.2, Impressions: 50000}
	dull := models.CampaignMetric{CampaignName: "Heritage", Frequency: 1.2, CTR: 0.5, Impressions: 20000}
	small := models.CampaignMetric{CampaignName: "Tiny", Frequency: 1.2, CTR: 0.5, Impressions: 9000}

	got := Diagnose(Aggregation{Campaigns: []models.CampaignMetric{tired, dull, small}}, quietReport())
	assert.Equal(t, []string{
		"Modern: High Frequency (3.6)",
		"Heritage: Low CTR (0.50%)",
	}, titles(got))
}

func TestAttributionMismatch(t *testing.T) {
	camps := []models.CampaignMetric{{CampaignName: "a", Conversions: 60}, {CampaignName: "b", Conversions: 40}}

	got := Diagnose(Aggregation{Campaigns: camps, Overview: models.OverviewKPI{ChannelAOrders: 80}}, quietReport())
	require.Len(t, got, 1)
	assert.Equal(t, "Attribution Mismatch: 20%", got[0].Title)
	assert.Equal(t, "Meta reports 100 conversions, Salla shows 80 orders.", got[0].Detail)

	got = Diagnose(Aggregation{Campaigns: camps, Overview: models.OverviewKPI{ChannelAOrders: 90}}, quietReport())
	assert.Empty(t, got)

	// sin órdenes de tienda no hay comparación
	got = Diagnose(Aggregation{Campaigns: camps}, quietReport())
	assert.Empty(t, got)
}

func TestPositiveSignals(t *testing.T) {
	rep := models.EfficiencyReport{
		ROASChangePct:      12.5,
		MarginalPremiumPct: 4,
		Countries: []models.CountryScaling{
			{CountryMetric: models.CountryMetric{Name: "Kuwait", ROAS: 4.2, CAC: 35}, Status: models.StatusGreen},
			{CountryMetric: models.CountryMetric{Name: "Qatar", ROAS: 5}, Status: models.StatusYellow},
			{CountryMetric: models.CountryMetric{Name: "Oman", ROAS: 2}, Status: models.StatusGreen},
		},
	}
	got := Diagnose(Aggregation{}, rep)
	require.Len(t, got, 3)
	for _, d := range got {
		assert.Equal(t, models.SeveritySuccess, d.Severity)
	}
	assert.Equal(t, "Kuwait: Strong Performance (4.20x ROAS)", got[0].Title)
	assert.Equal(t, "Consider scaling Kuwait budget +30%", got[0].Action)
	assert.Equal(t, "ROAS improved 12.5% vs last period", got[1].Title)
	assert.Equal(t, "Marginal CAC is healthy", got[2].Title)
}

func TestMarginalPremiumTwentyIsNotHealthy(t *testing.T) {
	rep := models.EfficiencyReport{MarginalPremiumPct: 20}
	for _, d := range Diagnose(Aggregation{}, rep) {
		assert.NotEqual(t, "Marginal CAC is healthy", d.Title)
	}
}

func TestDiagnosticsOrder(t *testing.T) {
	cur := Aggregation{
		Campaigns: []models.CampaignMetric{
			{CampaignName: "first", Frequency: 4, Conversions: 100},
			{CampaignName: "second", AddToCart: 10, CheckoutsInitiated: 1},
		},
		Overview: models.OverviewKPI{ChannelAOrders: 10},
	}
	rep := models.EfficiencyReport{ROASChangePct: 6, MarginalPremiumPct: 50}
	got := titles(Diagnose(cur, rep))
	require.Len(t, got, 4)
	assert.True(t, strings.HasPrefix(got[0], "first:"))
	assert.True(t, strings.HasPrefix(got[1], "second:"))
	assert.True(t, strings.HasPrefix(got[2], "Attribution Mismatch"))
	assert.True(t, strings.HasPrefix(got[3], "ROAS improved"))
}
