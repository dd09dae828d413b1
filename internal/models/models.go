package models

import "time"

// AllCountries marca las filas de gasto agregadas (sin desglose por país).
const AllCountries = "ALL"

type SpendRow struct {
	Date               time.Time
	CampaignID         string
	CampaignName       string
	Country            string
	Spend              float64
	Impressions        int
	Reach              int
	Clicks             int
	LandingPageViews   int
	AddToCart          int
	CheckoutsInitiated int
	Conversions        int
	ConversionValue    float64
	Frequency          float64
}

// ChannelAOrder is one store order; each row counts as a single order.
type ChannelAOrder struct {
	OrderID    string
	Date       time.Time
	Country    string
	OrderTotal float64
}

type ChannelBOrder struct {
	Date        time.Time
	Country     string
	OrdersCount int
	Revenue     float64
}

type ManualOrder struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Country     string    `json:"country"`
	Campaign    string    `json:"campaign"`
	OrdersCount int       `json:"orders_count"`
	Revenue     float64   `json:"revenue"`
	Source      string    `json:"source"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Row proyecta la orden manual a la fila que consume el motor.
func (m ManualOrder) Row() (ChannelBOrder, error) {
	d, err := ParseDate(m.Date)
	if err != nil {
		return ChannelBOrder{}, err
	}
	return ChannelBOrder{Date: d, Country: m.Country, OrdersCount: m.OrdersCount, Revenue: m.Revenue}, nil
}

type SyncLog struct {
	Source   string    `json:"source"`
	Status   string    `json:"status"`
	Records  int       `json:"records"`
	Error    string    `json:"error,omitempty"`
	SyncedAt time.Time `json:"synced_at"`
}

type OverviewKPI struct {
	Spend          float64 `json:"spend"`
	Orders         int     `json:"orders"`
	ChannelAOrders int     `json:"channel_a_orders"`
	ChannelBOrders int     `json:"channel_b_orders"`
	Revenue        float64 `json:"revenue"`
	AOV            float64 `json:"aov"`
	CAC            float64 `json:"cac"`
	ROAS           float64 `json:"roas"`
}

type DailyMetric struct {
	Date    string  `json:"date"`
	Spend   float64 `json:"spend"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
	AOV     float64 `json:"aov"`
	CAC     float64 `json:"cac"`
	ROAS    float64 `json:"roas"`
}

type EfficiencyTrend struct {
	DailyMetric
	RollingCAC  float64 `json:"rolling_cac"`
	RollingROAS float64 `json:"rolling_roas"`
	MarginalCAC float64 `json:"marginal_cac"`
}

type CampaignMetric struct {
	CampaignID         string  `json:"campaign_id"`
	CampaignName       string  `json:"campaign_name"`
	Spend              float64 `json:"spend"`
	Impressions        int     `json:"impressions"`
	Reach              int     `json:"reach"`
	Clicks             int     `json:"clicks"`
	LandingPageViews   int     `json:"landing_page_views"`
	AddToCart          int     `json:"add_to_cart"`
	CheckoutsInitiated int     `json:"checkouts_initiated"`
	Conversions        int     `json:"conversions"`
	ConversionValue    float64 `json:"conversion_value"`
	Frequency          float64 `json:"frequency"`
	CPM                float64 `json:"cpm"`
	CPC                float64 `json:"cpc"`
	CTR                float64 `json:"ctr"`
	CR                 float64 `json:"cr"`
	MetaROAS           float64 `json:"meta_roas"`
	MetaAOV            float64 `json:"meta_aov"`
	MetaCAC            float64 `json:"meta_cac"`
}

type CampaignCountryMetric struct {
	CampaignID      string  `json:"campaign_id"`
	CampaignName    string  `json:"campaign_name"`
	Country         string  `json:"country"`
	Spend           float64 `json:"spend"`
	Impressions     int     `json:"impressions"`
	Reach           int     `json:"reach"`
	Clicks          int     `json:"clicks"`
	Conversions     int     `json:"conversions"`
	ConversionValue float64 `json:"conversion_value"`
	Frequency       float64 `json:"frequency"`
}

type CountryMetric struct {
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	Flag            string  `json:"flag"`
	Spend           float64 `json:"spend"`
	ChannelAOrders  int     `json:"channel_a_orders"`
	ChannelBOrders  int     `json:"channel_b_orders"`
	ChannelARevenue float64 `json:"channel_a_revenue"`
	ChannelBRevenue float64 `json:"channel_b_revenue"`
	TotalOrders     int     `json:"total_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
	AOV             float64 `json:"aov"`
	CAC             float64 `json:"cac"`
	ROAS            float64 `json:"roas"`
}

type Status string

const (
	StatusGreen  Status = "green"
	StatusYellow Status = "yellow"
	StatusRed    Status = "red"
)

type CampaignEfficiency struct {
	CampaignMetric
	Status       Status  `json:"status"`
	CPMChangePct float64 `json:"cpm_change_pct"`
	CTRChangePct float64 `json:"ctr_change_pct"`
	MarginalCAC  float64 `json:"marginal_cac"`
}

type CountryScaling struct {
	CountryMetric
	Status   Status `json:"status"`
	Headroom string `json:"headroom"`
}

type EfficiencyReport struct {
	Status             Status               `json:"status"`
	Current            OverviewKPI          `json:"current"`
	Previous           OverviewKPI          `json:"previous"`
	PreviousWindow     Window               `json:"previous_window"`
	SpendChangePct     float64              `json:"spend_change_pct"`
	ROASChangePct      float64              `json:"roas_change_pct"`
	EfficiencyRatio    float64              `json:"efficiency_ratio"`
	AverageCAC         float64              `json:"average_cac"`
	MarginalCAC        float64              `json:"marginal_cac"`
	MarginalPremiumPct float64              `json:"marginal_premium_pct"`
	Campaigns          []CampaignEfficiency `json:"campaigns"`
	Countries          []CountryScaling     `json:"countries"`
}

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
)

type Diagnostic struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Detail   string   `json:"detail"`
	Action   string   `json:"action"`
}

type RecommendationKind string

const (
	KindUrgent   RecommendationKind = "urgent"
	KindStandard RecommendationKind = "standard"
	KindPositive RecommendationKind = "positive"
)

type Recommendation struct {
	Priority int                `json:"priority"`
	Kind     RecommendationKind `json:"kind"`
	Title    string             `json:"title"`
	Detail   string             `json:"detail"`
	Impact   string             `json:"impact"`
}

type Dashboard struct {
	Window      Window           `json:"window"`
	Overview    OverviewKPI      `json:"overview"`
	Trends      []DailyMetric    `json:"trends"`
	Campaigns   []CampaignMetric `json:"campaigns"`
	Countries   []CountryMetric  `json:"countries"`
	Diagnostics []Diagnostic     `json:"diagnostics"`
}

type OrderTotals struct {
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
	AOV     float64 `json:"aov"`
	Entries int     `json:"entries"`
}

// GroupTotal es un subtotal por país, día o fuente según el resumen.
type GroupTotal struct {
	Key     string  `json:"key"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type ChannelASummary struct {
	Window    Window       `json:"window"`
	Summary   OrderTotals  `json:"summary"`
	ByCountry []GroupTotal `json:"by_country"`
	ByDay     []GroupTotal `json:"by_day"`
}

type ManualSummary struct {
	Window    Window       `json:"window"`
	Summary   OrderTotals  `json:"summary"`
	ByCountry []GroupTotal `json:"by_country"`
	BySource  []GroupTotal `json:"by_source"`
}
