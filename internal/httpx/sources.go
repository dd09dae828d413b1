package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AngelCh415/adspend-efficiency/internal/ingest"
	"github.com/AngelCh415/adspend-efficiency/internal/metrics"
	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

func (a *api) sallaOrders(w http.ResponseWriter, r *http.Request) {
	windowed(a, func(ctx context.Context, win models.Window) (models.ChannelASummary, error) {
		orders, err := a.st.ChannelAOrders(ctx, win)
		if err != nil {
			return models.ChannelASummary{}, err
		}
		return metrics.SummarizeChannelA(win, orders), nil
	})(w, r)
}

// syncOne: 200 con el conteo, 503 sin credenciales, 502 si falla el upstream.
func (a *api) syncOne(source string, fn func(context.Context) (int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := fn(r.Context())
		switch {
		case err == nil:
			a.writeJSON(w, r, http.StatusOK, ingest.SyncResult{Source: source, Status: ingest.StatusSuccess, Records: n})
		case errors.Is(err, ingest.ErrNotConfigured):
			a.fail(w, r, err)
		default:
			a.log.Error("sync failed", slog.String("source", source), slog.String("err", err.Error()))
			a.writeError(w, r, http.StatusBadGateway, err.Error())
		}
	}
}

func (a *api) syncAll(w http.ResponseWriter, r *http.Request) {
	res, err := a.syn.Run(r.Context())
	if err != nil {
		a.writeJSON(w, r, http.StatusBadGateway, map[string]any{"error": err.Error(), "results": res})
		return
	}
	a.writeJSON(w, r, http.StatusOK, map[string]any{"results": res})
}

func (a *api) syncLog(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 500 {
			a.writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}
	logs, err := a.st.RecentSyncs(r.Context(), limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.writeJSON(w, r, http.StatusOK, logs)
}
