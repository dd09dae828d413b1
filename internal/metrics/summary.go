package metrics

import (
	"sort"

	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

type grouper struct {
	idx map[string]int
	out []models.GroupTotal
}

func newGrouper() *grouper { return &grouper{idx: map[string]int{}, out: make([]models.GroupTotal, 0)} }

func (g *grouper) add(key string, orders int, revenue float64) {
	i, ok := g.idx[key]
	if !ok {
		i = len(g.out)
		g.idx[key] = i
		g.out = append(g.out, models.GroupTotal{Key: key})
	}
	g.out[i].Orders += orders
	g.out[i].Revenue += revenue
}

// byRevenue: ingreso desc, luego clave.
func (g *grouper) byRevenue() []models.GroupTotal {
	sort.SliceStable(g.out, func(i, j int) bool {
		if g.out[i].Revenue != g.out[j].Revenue {
			return g.out[i].Revenue > g.out[j].Revenue
		}
		return g.out[i].Key < g.out[j].Key
	})
	return g.out
}

func (g *grouper) byKey() []models.GroupTotal {
	sort.SliceStable(g.out, func(i, j int) bool { return g.out[i].Key < g.out[j].Key })
	return g.out
}

// SummarizeChannelA resume las órdenes de tienda de la ventana.
func SummarizeChannelA(w models.Window, orders []models.ChannelAOrder) models.ChannelASummary {
	countries, days := newGrouper(), newGrouper()
	var tot models.OrderTotals
	for _, o := range orders {
		if !w.Contains(o.Date) {
			continue
		}
		tot.Orders++
		tot.Entries++
		tot.Revenue += o.OrderTotal
		countries.add(o.Country, 1, o.OrderTotal)
		days.add(dateKey(o.Date), 1, o.OrderTotal)
	}
	tot.AOV = safeDiv(tot.Revenue, float64(tot.Orders))
	return models.ChannelASummary{Window: w, Summary: tot, ByCountry: countries.byRevenue(), ByDay: days.byKey()}
}

func SummarizeManual(w models.Window, orders []models.ManualOrder) models.ManualSummary {
	countries, sources := newGrouper(), newGrouper()
	var tot models.OrderTotals
	for _, o := range orders {
		r, err := o.Row()
		if err != nil || !w.Contains(r.Date) {
			continue
		}
		tot.Orders += o.OrdersCount
		tot.Revenue += o.Revenue
		tot.Entries++
		countries.add(o.Country, o.OrdersCount, o.Revenue)
		sources.add(o.Source, o.OrdersCount, o.Revenue)
	}
	tot.AOV = safeDiv(tot.Revenue, float64(tot.Orders))
	return models.ManualSummary{Window: w, Summary: tot, ByCountry: countries.byRevenue(), BySource: sources.byRevenue()}
}
