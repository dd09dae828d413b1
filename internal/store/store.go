package store

import (
	"context"
	"errors"
	"strings"

	"github.com/AngelCh415/adspend-efficiency/internal/metrics"
	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

var ErrNotFound = errors.New("not found")

const defaultSyncLimit = 10

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*Postgres)(nil)
)

// Store is the persistence surface shared by the memory and Postgres
// backends. It is the RowSource of the analytics service and the sink of
// the upstream syncs.
type Store interface {
	metrics.RowSource

	UpsertSpend(ctx context.Context, rows []models.SpendRow) (int, error)
	UpsertChannelAOrders(ctx context.Context, orders []models.ChannelAOrder) (int, error)

	// ListManualOrders devuelve todo cuando w es nil.
	ListManualOrders(ctx context.Context, w *models.Window) ([]models.ManualOrder, error)
	GetManualOrder(ctx context.Context, id string) (models.ManualOrder, error)
	CreateManualOrder(ctx context.Context, o models.ManualOrder) (models.ManualOrder, error)
	UpdateManualOrder(ctx context.Context, o models.ManualOrder) (models.ManualOrder, error)
	DeleteManualOrder(ctx context.Context, id string) error
	// DeleteManualOrders borra el rango dado, o todo cuando w es nil.
	DeleteManualOrders(ctx context.Context, w *models.Window) (int, error)

	LogSync(ctx context.Context, l models.SyncLog) error
	RecentSyncs(ctx context.Context, limit int) ([]models.SyncLog, error)

	Ping(ctx context.Context) error
	Close() error
}

// normalización compartida por ambos backends
func normCountry(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func coalesce(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

func max0(i int) int {
	if i < 0 {
		return 0
	}
	return i
}

func maxf(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

func cleanSpend(r models.SpendRow) models.SpendRow {
	r.Date = models.Day(r.Date)
	r.CampaignID = strings.TrimSpace(r.CampaignID)
	r.Country = coalesce(normCountry(r.Country), models.AllCountries)
	r.Spend = maxf(r.Spend)
	r.Impressions = max0(r.Impressions)
	r.Reach = max0(r.Reach)
	r.Clicks = max0(r.Clicks)
	r.LandingPageViews = max0(r.LandingPageViews)
	r.AddToCart = max0(r.AddToCart)
	r.CheckoutsInitiated = max0(r.CheckoutsInitiated)
	r.Conversions = max0(r.Conversions)
	r.ConversionValue = maxf(r.ConversionValue)
	r.Frequency = maxf(r.Frequency)
	return r
}

func cleanManual(o models.ManualOrder) models.ManualOrder {
	o.Country = normCountry(o.Country)
	o.Source = coalesce(o.Source, "whatsapp")
	o.OrdersCount = max0(o.OrdersCount)
	o.Revenue = maxf(o.Revenue)
	return o
}
