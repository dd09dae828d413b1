package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

type fakeSource struct {
	rows    Rows
	err     error
	windows []models.Window
}

func (f *fakeSource) SpendRows(_ context.Context, w models.Window) ([]models.SpendRow, error) {
	f.windows = append(f.windows, w)
	if f.err != nil {
		return nil, f.err
	}
	return f.rows.Spend, nil
}

func (f *fakeSource) ChannelAOrders(context.Context, models.Window) ([]models.ChannelAOrder, error) {
	return f.rows.ChannelA, nil
}

func (f *fakeSource) ChannelBOrders(context.Context, models.Window) ([]models.ChannelBOrder, error) {
	return f.rows.ChannelB, nil
}

func sampleRows(t *testing.T) Rows {
	var rows Rows
	for i, d := range []string{"2025-08-01", "2025-08-03", "2025-08-05", "2025-08-09", "2025-08-10", "2025-08-12"} {
		dt := day(t, d)
		rows.Spend = append(rows.Spend,
			models.SpendRow{Date: dt, CampaignID: "c1", CampaignName: "Modern", Country: models.AllCountries,
				Spend: 100 + float64(i*10), Impressions: 30000, Clicks: 400, AddToCart: 40, CheckoutsInitiated: 10,
				Conversions: 5, ConversionValue: 900, Frequency: 1.3},
			models.SpendRow{Date: dt, CampaignID: "c1", CampaignName: "Modern", Country: "SA", Spend: 60 + float64(i*5)},
			models.SpendRow{Date: dt, CampaignID: "c1", CampaignName: "Modern", Country: "AE", Spend: 40},
		)
		rows.ChannelA = append(rows.ChannelA,
			models.ChannelAOrder{OrderID: d + "-1", Date: dt, Country: "SA", OrderTotal: 300},
			models.ChannelAOrder{OrderID: d + "-2", Date: dt, Country: "AE", OrderTotal: 200 + float64(i)},
		)
		rows.ChannelB = append(rows.ChannelB, models.ChannelBOrder{Date: dt, Country: "KW", OrdersCount: 1, Revenue: 250})
	}
	return rows
}

func TestServiceIsIdempotent(t *testing.T) {
	src := &fakeSource{rows: sampleRows(t)}
	svc := NewService(src)
	w := window(t, "2025-08-08", "2025-08-14")
	ctx := context.Background()

	r1, err := svc.EfficiencyReport(ctx, w)
	require.NoError(t, err)
	r2, err := svc.EfficiencyReport(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	d1, err := svc.Diagnostics(ctx, w)
	require.NoError(t, err)
	d2, err := svc.Diagnostics(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	rec1, err := svc.Recommendations(ctx, w)
	require.NoError(t, err)
	rec2, err := svc.Recommendations(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, rec1, rec2)
}

func TestServiceReportUsesPreviousWindow(t *testing.T) {
	src := &fakeSource{rows: sampleRows(t)}
	svc := NewService(src)
	w := window(t, "2025-08-08", "2025-08-14")

	rep, err := svc.EfficiencyReport(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, w.Days(), rep.PreviousWindow.Days())
	assert.Equal(t, w.Start.AddDate(0, 0, -1), rep.PreviousWindow.End)

	// una sola consulta cubre ambos períodos
	require.Len(t, src.windows, 1)
	assert.Equal(t, "2025-08-01", src.windows[0].StartDate())
	assert.Equal(t, "2025-08-14", src.windows[0].EndDate())

	// 3 días con datos en cada período
	assert.Equal(t, 6, rep.Current.Orders-rep.Current.ChannelBOrders)
	assert.Equal(t, 6, rep.Previous.Orders-rep.Previous.ChannelBOrders)
	require.Len(t, rep.Campaigns, 1)
	require.Len(t, rep.Countries, 3)
}

func TestServicePropagatesSourceError(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(&fakeSource{err: boom})
	w := window(t, "2025-08-08", "2025-08-14")
	ctx := context.Background()

	_, err := svc.Overview(ctx, w)
	assert.Same(t, boom, err)
	_, err = svc.DailyTrends(ctx, w)
	assert.Same(t, boom, err)
	_, err = svc.EfficiencyReport(ctx, w)
	assert.Same(t, boom, err)
	_, err = svc.Diagnostics(ctx, w)
	assert.Same(t, boom, err)
	_, err = svc.Recommendations(ctx, w)
	assert.Same(t, boom, err)
	_, err = svc.Dashboard(ctx, w)
	assert.Same(t, boom, err)
}

func TestServiceViews(t *testing.T) {
	svc := NewService(&fakeSource{rows: sampleRows(t)})
	w := window(t, "2025-08-08", "2025-08-14")
	ctx := context.Background()

	trends, err := svc.DailyTrends(ctx, w)
	require.NoError(t, err)
	require.Len(t, trends, 3)
	assert.Equal(t, "2025-08-09", trends[0].Date)

	eff, err := svc.EfficiencyTrends(ctx, w)
	require.NoError(t, err)
	require.Len(t, eff, 3)
	assert.Equal(t, eff[0].CAC, eff[0].RollingCAC)
	assert.Equal(t, eff[0].ROAS, eff[0].RollingROAS)

	byCountry, err := svc.CampaignsByCountry(ctx, w)
	require.NoError(t, err)
	require.Len(t, byCountry, 2)
	assert.Equal(t, "SA", byCountry[0].Country)

	countries, err := svc.CountryMetrics(ctx, w)
	require.NoError(t, err)
	require.Len(t, countries, 3)
	assert.Equal(t, "SA", countries[0].Code)
	assert.Equal(t, "KW", countries[2].Code)

	dash, err := svc.Dashboard(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, trends, dash.Trends)
	assert.Equal(t, countries, dash.Countries)
	camps, err := svc.CampaignMetrics(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, camps, dash.Campaigns)
}

func TestEfficiencyTrendsRolling(t *testing.T) {
	days := []models.DailyMetric{
		{Date: "2025-08-01", Spend: 100, Orders: 10, Revenue: 300, CAC: 10, ROAS: 3},
		{Date: "2025-08-02", Spend: 200, Orders: 10, Revenue: 300, CAC: 20, ROAS: 1.5},
		{Date: "2025-08-03", Spend: 300, Orders: 20, Revenue: 600, CAC: 15, ROAS: 2},
		{Date: "2025-08-04", Spend: 0, Orders: 0, Revenue: 0},
	}
	got := EfficiencyTrends(days)
	require.Len(t, got, 4)

	assert.Equal(t, 10.0, got[0].RollingCAC)
	assert.Equal(t, 3.0, got[0].RollingROAS)
	assert.Equal(t, 10.0, got[0].MarginalCAC)

	assert.InDelta(t, 15.0, got[1].RollingCAC, 1e-9)
	// sin órdenes incrementales se usa el cac del día
	assert.Equal(t, 20.0, got[1].MarginalCAC)

	assert.InDelta(t, 15.0, got[2].RollingCAC, 1e-9)
	assert.InDelta(t, 2.0, got[2].RollingROAS, 1e-9)
	assert.InDelta(t, 10.0, got[2].MarginalCAC, 1e-9)

	// ventana de 3: días 2..4
	assert.InDelta(t, 500.0/30, got[3].RollingCAC, 1e-9)
	assert.Zero(t, got[3].MarginalCAC)
}
