package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

func TestSummarizeChannelA(t *testing.T) {
	w := window(t, "2025-08-01", "2025-08-07")
	orders := []models.ChannelAOrder{
		{OrderID: "1", Date: day(t, "2025-08-02"), Country: "SA", OrderTotal: 300},
		{OrderID: "2", Date: day(t, "2025-08-01"), Country: "AE", OrderTotal: 500},
		{OrderID: "3", Date: day(t, "2025-08-02"), Country: "SA", OrderTotal: 100},
		{OrderID: "4", Date: day(t, "2025-08-09"), Country: "SA", OrderTotal: 999},
	}
	got := SummarizeChannelA(w, orders)
	assert.Equal(t, models.OrderTotals{Orders: 3, Revenue: 900, AOV: 300, Entries: 3}, got.Summary)
	assert.Equal(t, []models.GroupTotal{{Key: "AE", Orders: 1, Revenue: 500}, {Key: "SA", Orders: 2, Revenue: 400}}, got.ByCountry)
	require.Len(t, got.ByDay, 2)
	assert.Equal(t, "2025-08-01", got.ByDay[0].Key)
	assert.Equal(t, 2, got.ByDay[1].Orders)
}

func TestSummarizeChannelAEmpty(t *testing.T) {
	got := SummarizeChannelA(window(t, "2025-08-01", "2025-08-07"), nil)
	assert.Zero(t, got.Summary.AOV)
	assert.NotNil(t, got.ByCountry)
	assert.NotNil(t, got.ByDay)
}

func TestSummarizeManual(t *testing.T) {
	w := window(t, "2025-08-01", "2025-08-07")
	orders := []models.ManualOrder{
		{Date: "2025-08-03", Country: "KW", OrdersCount: 2, Revenue: 400, Source: "whatsapp"},
		{Date: "2025-08-04", Country: "SA", OrdersCount: 1, Revenue: 250, Source: "instagram"},
		{Date: "2025-08-05", Country: "KW", OrdersCount: 1, Revenue: 150, Source: "whatsapp"},
		{Date: "not-a-date", Country: "KW", OrdersCount: 9, Revenue: 9},
	}
	got := SummarizeManual(w, orders)
	assert.Equal(t, models.OrderTotals{Orders: 4, Revenue: 800, AOV: 200, Entries: 3}, got.Summary)
	assert.Equal(t, []models.GroupTotal{{Key: "KW", Orders: 3, Revenue: 550}, {Key: "SA", Orders: 1, Revenue: 250}}, got.ByCountry)
	assert.Equal(t, []models.GroupTotal{{Key: "whatsapp", Orders: 3, Revenue: 550}, {Key: "instagram", Orders: 1, Revenue: 250}}, got.BySource)
}
