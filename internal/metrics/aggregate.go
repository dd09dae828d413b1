package metrics

import (
	"sort"
	"time"

	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

// Rows are the three raw collections a RowSource returns for a window.
type Rows struct {
	Spend    []models.SpendRow
	ChannelA []models.ChannelAOrder
	ChannelB []models.ChannelBOrder
}

// within drops every row dated outside w.
func (r Rows) within(w models.Window) Rows {
	out := Rows{
		Spend:    make([]models.SpendRow, 0, len(r.Spend)),
		ChannelA: make([]models.ChannelAOrder, 0, len(r.ChannelA)),
		ChannelB: make([]models.ChannelBOrder, 0, len(r.ChannelB)),
	}
	for _, s := range r.Spend {
		if w.Contains(s.Date) {
			out.Spend = append(out.Spend, s)
		}
	}
	for _, o := range r.ChannelA {
		if w.Contains(o.Date) {
			out.ChannelA = append(out.ChannelA, o)
		}
	}
	for _, o := range r.ChannelB {
		if w.Contains(o.Date) {
			out.ChannelB = append(out.ChannelB, o)
		}
	}
	return out
}

// Aggregation is everything derived from a single window of rows.
type Aggregation struct {
	Window             models.Window
	Overview           models.OverviewKPI
	Daily              []models.DailyMetric
	Campaigns          []models.CampaignMetric
	CampaignsByCountry []models.CampaignCountryMetric
	Countries          []models.CountryMetric
}

// Aggregate reduces rows into overview, daily, campaign and country records.
// Rows outside w are ignored, so a caller may pass a wider row set.
func Aggregate(w models.Window, rows Rows) Aggregation {
	in := rows.within(w)
	return Aggregation{
		Window:             w,
		Overview:           overview(in),
		Daily:              daily(in),
		Campaigns:          campaigns(in.Spend),
		CampaignsByCountry: campaignsByCountry(in.Spend),
		Countries:          countries(in),
	}
}

func overview(rows Rows) models.OverviewKPI {
	var o models.OverviewKPI
	for _, s := range rows.Spend {
		if s.Country == models.AllCountries {
			o.Spend += s.Spend
		}
	}
	for _, a := range rows.ChannelA {
		o.ChannelAOrders++
		o.Revenue += a.OrderTotal
	}
	for _, b := range rows.ChannelB {
		o.ChannelBOrders += b.OrdersCount
		o.Revenue += b.Revenue
	}
	o.Orders = o.ChannelAOrders + o.ChannelBOrders
	o.AOV = safeDiv(o.Revenue, float64(o.Orders))
	o.CAC = safeDiv(o.Spend, float64(o.Orders))
	o.ROAS = safeDiv(o.Revenue, o.Spend)
	return o
}

func daily(rows Rows) []models.DailyMetric {
	byDate := map[string]*models.DailyMetric{}
	get := func(d string) *models.DailyMetric {
		m, ok := byDate[d]
		if !ok {
			m = &models.DailyMetric{Date: d}
			byDate[d] = m
		}
		return m
	}
	for _, s := range rows.Spend {
		if s.Country != models.AllCountries {
			continue
		}
		get(dateKey(s.Date)).Spend += s.Spend
	}
	for _, a := range rows.ChannelA {
		m := get(dateKey(a.Date))
		m.Orders++
		m.Revenue += a.OrderTotal
	}
	for _, b := range rows.ChannelB {
		m := get(dateKey(b.Date))
		m.Orders += b.OrdersCount
		m.Revenue += b.Revenue
	}

	out := make([]models.DailyMetric, 0, len(byDate))
	for _, m := range byDate {
		m.AOV = safeDiv(m.Revenue, float64(m.Orders))
		m.CAC = safeDiv(m.Spend, float64(m.Orders))
		m.ROAS = safeDiv(m.Revenue, m.Spend)
		out = append(out, *m)
	}
	// ISO dates ordenan lexicográficamente
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

type campaignKey struct{ id, name string }

type campaignAcc struct {
	m       models.CampaignMetric
	freqSum float64
	n       int
}

func campaigns(spend []models.SpendRow) []models.CampaignMetric {
	acc := map[campaignKey]*campaignAcc{}
	for _, s := range spend {
		if s.Country != models.AllCountries {
			continue
		}
		k := campaignKey{s.CampaignID, s.CampaignName}
		a, ok := acc[k]
		if !ok {
			a = &campaignAcc{m: models.CampaignMetric{CampaignID: s.CampaignID, CampaignName: s.CampaignName}}
			acc[k] = a
		}
		a.m.Spend += s.Spend
		a.m.Impressions += s.Impressions
		a.m.Reach += s.Reach
		a.m.Clicks += s.Clicks
		a.m.LandingPageViews += s.LandingPageViews
		a.m.AddToCart += s.AddToCart
		a.m.CheckoutsInitiated += s.CheckoutsInitiated
		a.m.Conversions += s.Conversions
		a.m.ConversionValue += s.ConversionValue
		a.freqSum += s.Frequency
		a.n++
	}

	out := make([]models.CampaignMetric, 0, len(acc))
	for _, a := range acc {
		c := a.m
		c.Frequency = safeDiv(a.freqSum, float64(a.n))
		c.CPM = safeDiv(c.Spend, float64(c.Impressions)) * 1000
		c.CPC = safeDiv(c.Spend, float64(c.Clicks))
		c.CTR = safeDiv(float64(c.Clicks), float64(c.Impressions)) * 100
		c.CR = safeDiv(float64(c.Conversions), float64(c.Clicks)) * 100
		c.MetaROAS = safeDiv(c.ConversionValue, c.Spend)
		c.MetaAOV = safeDiv(c.ConversionValue, float64(c.Conversions))
		c.MetaCAC = safeDiv(c.Spend, float64(c.Conversions))
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Spend != out[j].Spend {
			return out[i].Spend > out[j].Spend
		}
		if out[i].CampaignID != out[j].CampaignID {
			return out[i].CampaignID < out[j].CampaignID
		}
		return out[i].CampaignName < out[j].CampaignName
	})
	return out
}

type campaignCountryKey struct{ id, name, country string }

func campaignsByCountry(spend []models.SpendRow) []models.CampaignCountryMetric {
	type acc struct {
		m       models.CampaignCountryMetric
		freqSum float64
		n       int
	}
	groups := map[campaignCountryKey]*acc{}
	for _, s := range spend {
		if s.Country == models.AllCountries {
			continue
		}
		k := campaignCountryKey{s.CampaignID, s.CampaignName, s.Country}
		a, ok := groups[k]
		if !ok {
			a = &acc{m: models.CampaignCountryMetric{CampaignID: s.CampaignID, CampaignName: s.CampaignName, Country: s.Country}}
			groups[k] = a
		}
		a.m.Spend += s.Spend
		a.m.Impressions += s.Impressions
		a.m.Reach += s.Reach
		a.m.Clicks += s.Clicks
		a.m.Conversions += s.Conversions
		a.m.ConversionValue += s.ConversionValue
		a.freqSum += s.Frequency
		a.n++
	}

	out := make([]models.CampaignCountryMetric, 0, len(groups))
	for _, a := range groups {
		m := a.m
		m.Frequency = safeDiv(a.freqSum, float64(a.n))
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CampaignName != out[j].CampaignName {
			return out[i].CampaignName < out[j].CampaignName
		}
		if out[i].Spend != out[j].Spend {
			return out[i].Spend > out[j].Spend
		}
		if out[i].CampaignID != out[j].CampaignID {
			return out[i].CampaignID < out[j].CampaignID
		}
		return out[i].Country < out[j].Country
	})
	return out
}

func countries(rows Rows) []models.CountryMetric {
	byCode := map[string]*models.CountryMetric{}
	get := func(code string) *models.CountryMetric {
		c, ok := byCode[code]
		if !ok {
			info := lookupCountry(code)
			c = &models.CountryMetric{Code: code, Name: info.Name, Flag: info.Icon}
			byCode[code] = c
		}
		return c
	}
	for _, s := range rows.Spend {
		if s.Country == models.AllCountries {
			continue
		}
		get(s.Country).Spend += s.Spend
	}
	for _, a := range rows.ChannelA {
		c := get(a.Country)
		c.ChannelAOrders++
		c.ChannelARevenue += a.OrderTotal
	}
	for _, b := range rows.ChannelB {
		c := get(b.Country)
		c.ChannelBOrders += b.OrdersCount
		c.ChannelBRevenue += b.Revenue
	}

	out := make([]models.CountryMetric, 0, len(byCode))
	for _, c := range byCode {
		m := *c
		m.TotalOrders = m.ChannelAOrders + m.ChannelBOrders
		m.TotalRevenue = m.ChannelARevenue + m.ChannelBRevenue
		m.AOV = safeDiv(m.TotalRevenue, float64(m.TotalOrders))
		m.CAC = safeDiv(m.Spend, float64(m.TotalOrders))
		m.ROAS = safeDiv(m.TotalRevenue, m.Spend)
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Spend != out[j].Spend {
			return out[i].Spend > out[j].Spend
		}
		return out[i].Code < out[j].Code
	})
	return out
}

func dateKey(t time.Time) string { return models.Day(t).Format(models.DateLayout) }
