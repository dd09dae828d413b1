package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/AngelCh415/adspend-efficiency/internal/ingest"
	"github.com/AngelCh415/adspend-efficiency/internal/metrics"
	"github.com/AngelCh415/adspend-efficiency/internal/store"
	"github.com/AngelCh415/adspend-efficiency/internal/utils"
)

// Syncer lo implementa *ingest.ETL.
type Syncer interface {
	SyncMeta(ctx context.Context) (int, error)
	SyncSalla(ctx context.Context) (int, error)
	Run(ctx context.Context) ([]ingest.SyncResult, error)
}

type Deps struct {
	Log         *slog.Logger
	Service     *metrics.Service
	Store       store.Store
	Syncer      Syncer
	Instruments *utils.Instruments
	CORSOrigins []string
	Now         func() time.Time
}

type api struct {
	log *slog.Logger
	svc *metrics.Service
	st  store.Store
	syn Syncer
	ins *utils.Instruments
	now func() time.Time
}

func NewRouter(d Deps) http.Handler {
	a := &api{log: d.Log, svc: d.Service, st: d.Store, syn: d.Syncer, ins: d.Instruments, now: d.Now}
	if a.now == nil {
		a.now = time.Now
	}
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RealIP)
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(d.Log))
	mux.Use(middleware.Recoverer)
	mux.Use(d.Instruments.Middleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", utils.RequestIDHeader},
		ExposedHeaders: []string{utils.RequestIDHeader},
		MaxAge:         300,
	}))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", a.ready)
	mux.Handle("/metrics", d.Instruments.Handler())

	mux.Route("/api", func(r chi.Router) {
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/overview", a.overview)
			r.Get("/trends", a.trends)
			r.Get("/dashboard", a.dashboard)
			r.Get("/countries", a.countries)
			r.Get("/efficiency", a.efficiency)
			r.Get("/efficiency/trends", a.efficiencyTrends)
			r.Get("/diagnostics", a.diagnostics)
			r.Get("/recommendations", a.recommendations)
		})
		r.Route("/meta", func(r chi.Router) {
			r.Get("/campaigns", a.campaigns)
			r.Get("/campaigns/by-country", a.campaignsByCountry)
			r.Post("/sync", a.syncOne(ingest.SourceMeta, a.syn.SyncMeta))
		})
		r.Route("/salla", func(r chi.Router) {
			r.Get("/orders", a.sallaOrders)
			r.Post("/sync", a.syncOne(ingest.SourceSalla, a.syn.SyncSalla))
		})
		r.Route("/manual", func(r chi.Router) {
			r.Get("/", a.listManual)
			r.Post("/", a.createManual)
			r.Get("/summary", a.manualSummary)
			r.Post("/delete-bulk", a.deleteManualBulk)
			r.Put("/{id}", a.updateManual)
			r.Delete("/{id}", a.deleteManual)
		})
		r.Post("/sync", a.syncAll)
		r.Get("/sync/log", a.syncLog)
	})

	return mux
}

func (a *api) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.st.Ping(ctx); err != nil {
		a.log.Warn("readiness check failed", slog.String("err", err.Error()))
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(200)
	w.Write([]byte("ready"))
}
