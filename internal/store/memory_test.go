package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

func mustWindow(t *testing.T, start, end string) models.Window {
	t.Helper()
	w, err := models.ParseWindow(start, end)
	require.NoError(t, err)
	return w
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestMemoryUpsertSpendReplaces(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	d := mustDay(t, "2025-08-10")

	_, err := st.UpsertSpend(ctx, []models.SpendRow{
		{Date: d.Add(15 * time.Hour), CampaignID: "c1", CampaignName: "Modern", Spend: 100},
		{Date: d, CampaignID: "c1", CampaignName: "Modern", Country: " sa ", Spend: 60},
	})
	require.NoError(t, err)
	// misma clave (fecha, campaña, país): reemplaza
	_, err = st.UpsertSpend(ctx, []models.SpendRow{{Date: d, CampaignID: "c1", CampaignName: "Modern v2", Spend: 120, Clicks: -3}})
	require.NoError(t, err)

	rows, err := st.SpendRows(ctx, mustWindow(t, "2025-08-10", "2025-08-10"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.AllCountries, rows[0].Country)
	assert.Equal(t, "Modern v2", rows[0].CampaignName)
	assert.Equal(t, 120.0, rows[0].Spend)
	assert.Zero(t, rows[0].Clicks)
	assert.Equal(t, "SA", rows[1].Country)

	rows, err = st.SpendRows(ctx, mustWindow(t, "2025-08-11", "2025-08-17"))
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestMemoryChannelAOrders(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	_, err := st.UpsertChannelAOrders(ctx, []models.ChannelAOrder{
		{OrderID: "2", Date: mustDay(t, "2025-08-02"), Country: "ae", OrderTotal: 200},
		{OrderID: "1", Date: mustDay(t, "2025-08-02"), Country: "SA", OrderTotal: 300},
		{OrderID: "3", Date: mustDay(t, "2025-08-09"), Country: "SA", OrderTotal: 100},
	})
	require.NoError(t, err)
	_, err = st.UpsertChannelAOrders(ctx, []models.ChannelAOrder{{OrderID: "1", Date: mustDay(t, "2025-08-02"), Country: "SA", OrderTotal: 350}})
	require.NoError(t, err)

	got, err := st.ChannelAOrders(ctx, mustWindow(t, "2025-08-01", "2025-08-07"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].OrderID)
	assert.Equal(t, 350.0, got[0].OrderTotal)
	assert.Equal(t, "AE", got[1].Country)
}

func TestMemoryManualOrderCRUD(t *testing.T) {
	st := NewMemoryStore()
	now := time.Date(2025, 8, 12, 9, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }
	ctx := context.Background()

	o, err := st.CreateManualOrder(ctx, models.ManualOrder{Date: "2025-08-10", Country: "kw", OrdersCount: 2, Revenue: 500})
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "KW", o.Country)
	assert.Equal(t, "whatsapp", o.Source)
	assert.Equal(t, now, o.CreatedAt)

	got, err := st.GetManualOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o, got)

	now = now.Add(time.Hour)
	o.Revenue = 650
	o.Source = "instagram"
	upd, err := st.UpdateManualOrder(ctx, o)
	require.NoError(t, err)
	assert.Equal(t, 650.0, upd.Revenue)
	assert.Equal(t, o.CreatedAt, upd.CreatedAt)

	_, err = st.UpdateManualOrder(ctx, models.ManualOrder{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.GetManualOrder(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.DeleteManualOrder(ctx, o.ID))
	assert.ErrorIs(t, st.DeleteManualOrder(ctx, o.ID), ErrNotFound)
}

func TestMemoryManualOrdersWindowAndBulkDelete(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	for _, d := range []string{"2025-08-01", "2025-08-05", "2025-08-05", "2025-08-20"} {
		_, err := st.CreateManualOrder(ctx, models.ManualOrder{Date: d, Country: "SA", OrdersCount: 1, Revenue: 100})
		require.NoError(t, err)
	}

	all, err := st.ListManualOrders(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "2025-08-20", all[0].Date)
	assert.Equal(t, "2025-08-01", all[3].Date)

	w := mustWindow(t, "2025-08-01", "2025-08-07")
	rows, err := st.ChannelBOrders(ctx, w)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, mustDay(t, "2025-08-01"), rows[0].Date)

	n, err := st.DeleteManualOrders(ctx, &w)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = st.DeleteManualOrders(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	all, err = st.ListManualOrders(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryRecentSyncs(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, st.LogSync(ctx, models.SyncLog{Source: "meta", Status: "success", Records: 10}))
	require.NoError(t, st.LogSync(ctx, models.SyncLog{Source: "salla", Status: "error", Error: "boom"}))

	got, err := st.RecentSyncs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "salla", got[0].Source)
	assert.False(t, got[0].SyncedAt.IsZero())

	got, err = st.RecentSyncs(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
