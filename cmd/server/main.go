package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/AngelCh415/adspend-efficiency/internal/config"
	"github.com/AngelCh415/adspend-efficiency/internal/httpx"
	"github.com/AngelCh415/adspend-efficiency/internal/ingest"
	"github.com/AngelCh415/adspend-efficiency/internal/metrics"
	"github.com/AngelCh415/adspend-efficiency/internal/store"
	"github.com/AngelCh415/adspend-efficiency/internal/utils"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("store init failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer st.Close()

	ins := utils.NewInstruments("adspend", utils.NewRegistry())
	etl := ingest.NewETL(ingest.NewHTTPClient(cfg.HTTPTimeout), st, logger, cfg, ins)
	mSvc := metrics.NewService(st)

	var bg sync.WaitGroup
	if cfg.SyncEnabled {
		bg.Add(1)
		go func() {
			defer bg.Done()
			etl.Schedule(ctx, cfg.SyncInitialDelay, cfg.SyncInterval)
		}()
	}

	r := httpx.NewRouter(httpx.Deps{
		Log:         logger,
		Service:     mSvc,
		Store:       st,
		Syncer:      etl,
		Instruments: ins,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		logger.Error("listen failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger.Info("starting server",
		slog.String("port", cfg.Port),
		slog.Bool("sync_enabled", cfg.SyncEnabled),
		slog.Bool("meta_configured", cfg.MetaConfigured()),
		slog.Bool("salla_configured", cfg.SallaConfigured()))
	if err := serve(ctx, srv, ln, logger, 10*time.Second); err != nil {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
	// la sync en curso termina antes de cerrar el store
	bg.Wait()
	logger.Info("server stopped")
}

// serve atiende en ln hasta que ctx se cancela y sólo vuelve cuando
// Shutdown terminó de drenar las conexiones abiertas.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, log *slog.Logger, timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", slog.String("err", err.Error()))
		}
	}()
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}

// openStore usa Postgres si hay DATABASE_URL y memoria si no.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory store")
		return store.NewMemoryStore(), nil
	}
	return store.OpenPostgres(ctx, cfg.DatabaseURL)
}
