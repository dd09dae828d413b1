package httpx

import (
	"context"
	"net/http"

	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

// windowed resuelve la ventana del query string y responde fn(ctx, w).
func windowed[T any](a *api, fn func(context.Context, models.Window) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		win, err := parseRange(r.URL.Query(), a.now())
		if err != nil {
			a.fail(w, r, err)
			return
		}
		v, err := fn(r.Context(), win)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		a.writeJSON(w, r, http.StatusOK, v)
	}
}

func (a *api) overview(w http.ResponseWriter, r *http.Request) {
	windowed(a, a.svc.Overview)(w, r)
}

func (a *api) trends(w http.ResponseWriter, r *http.Request) {
	windowed(a, a.svc.DailyTrends)(w, r)
}

func (a *api) dashboard(w http.ResponseWriter, r *http.Request) {
	windowed(a, a.svc.Dashboard)(w, r)
}

func (a *api) countries(w http.ResponseWriter, r *http.Request) {
	windowed(a, a.svc.CountryMetrics)(w, r)
}

func (a *api) efficiency(w http.ResponseWriter, r *http.Request) {
	windowed(a, func(ctx context.Context, win models.Window) (models.EfficiencyReport, error) {
		rep, err := a.svc.EfficiencyReport(ctx, win)
		if err == nil {
			a.ins.SetEfficiency(string(rep.Status))
		}
		return rep, err
	})(w, r)
}

func (a *api) efficiencyTrends(w http.ResponseWriter, r *http.Request) {
	windowed(a, a.svc.EfficiencyTrends)(w, r)
}

func (a *api) diagnostics(w http.ResponseWriter, r *http.Request) {
	windowed(a, a.svc.Diagnostics)(w, r)
}

func (a *api) recommendations(w http.ResponseWriter, r *http.Request) {
	windowed(a, a.svc.Recommendations)(w, r)
}

func (a *api) campaigns(w http.ResponseWriter, r *http.Request) {
	windowed(a, a.svc.CampaignMetrics)(w, r)
}

func (a *api) campaignsByCountry(w http.ResponseWriter, r *http.Request) {
	windowed(a, a.svc.CampaignsByCountry)(w, r)
}
