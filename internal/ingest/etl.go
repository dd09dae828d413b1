package ingest

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/AngelCh415/adspend-efficiency/internal/config"
	"github.com/AngelCh415/adspend-efficiency/internal/models"
	"github.com/AngelCh415/adspend-efficiency/internal/store"
	"github.com/AngelCh415/adspend-efficiency/internal/utils"
)

const (
	SourceMeta  = "meta"
	SourceSalla = "salla"

	StatusSuccess = "success"
	StatusFailed  = "error"
	StatusSkipped = "skipped"
)

var ErrNotConfigured = errors.New("source not configured")

// ETL baja Meta y Salla y los deja en el store.
type ETL struct {
	c     HTTPClient
	st    store.Store
	log   *slog.Logger
	cfg   config.Config
	ins   *utils.Instruments
	retry utils.Backoff
	now   func() time.Time
}

func NewETL(c HTTPClient, st store.Store, log *slog.Logger, cfg config.Config, ins *utils.Instruments) *ETL {
	return &ETL{
		c:     c,
		st:    st,
		log:   log,
		cfg:   cfg,
		ins:   ins,
		retry: utils.NewBackoff(100*time.Millisecond, 2),
		now:   time.Now,
	}
}

type SyncResult struct {
	Source  string `json:"source"`
	Status  string `json:"status"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

// lookback devuelve [hoy-N, hoy].
func (e *ETL) lookback() (time.Time, time.Time) {
	until := models.Day(e.now())
	return until.AddDate(0, 0, -e.cfg.SyncLookbackDays), until
}

func (e *ETL) SyncMeta(ctx context.Context) (int, error) {
	if !e.cfg.MetaConfigured() {
		return 0, e.finish(ctx, SourceMeta, 0, ErrNotConfigured)
	}
	since, until := e.lookback()
	totals, err := e.fetchMeta(ctx, since, until, false)
	if err != nil {
		return 0, e.finish(ctx, SourceMeta, 0, err)
	}
	byCountry, err := e.fetchMeta(ctx, since, until, true)
	if err != nil {
		return 0, e.finish(ctx, SourceMeta, 0, err)
	}
	n, err := e.st.UpsertSpend(ctx, append(totals, byCountry...))
	return n, e.finish(ctx, SourceMeta, n, err)
}

func (e *ETL) SyncSalla(ctx context.Context) (int, error) {
	if !e.cfg.SallaConfigured() {
		return 0, e.finish(ctx, SourceSalla, 0, ErrNotConfigured)
	}
	since, until := e.lookback()
	orders, err := e.fetchSalla(ctx, since, until)
	if err != nil {
		return 0, e.finish(ctx, SourceSalla, 0, err)
	}
	n, err := e.st.UpsertChannelAOrders(ctx, orders)
	return n, e.finish(ctx, SourceSalla, n, err)
}

// Run sincroniza ambas fuentes; una fuente sin credenciales se omite y no
// cuenta como error.
func (e *ETL) Run(ctx context.Context) ([]SyncResult, error) {
	var errs []error
	out := make([]SyncResult, 0, 2)
	for _, s := range []struct {
		name string
		fn   func(context.Context) (int, error)
	}{
		{SourceMeta, e.SyncMeta},
		{SourceSalla, e.SyncSalla},
	} {
		n, err := s.fn(ctx)
		res := SyncResult{Source: s.name, Status: StatusSuccess, Records: n}
		switch {
		case errors.Is(err, ErrNotConfigured):
			res.Status, res.Error = StatusSkipped, err.Error()
		case err != nil:
			res.Status, res.Error = StatusFailed, err.Error()
			errs = append(errs, err)
		}
		out = append(out, res)
	}
	return out, errors.Join(errs...)
}

// finish deja el SyncLog, las métricas y el log de la corrida.
func (e *ETL) finish(ctx context.Context, source string, n int, err error) error {
	entry := models.SyncLog{Source: source, Status: StatusSuccess, Records: n, SyncedAt: e.now().UTC()}
	switch {
	case errors.Is(err, ErrNotConfigured):
		entry.Status, entry.Error = StatusSkipped, err.Error()
		e.log.Warn("sync skipped", slog.String("source", source), slog.String("reason", err.Error()))
	case err != nil:
		entry.Status, entry.Error = StatusFailed, err.Error()
		e.ins.RecordSync(source, 0, err)
		e.log.Error("sync failed", slog.String("source", source), slog.String("err", err.Error()))
	default:
		e.ins.RecordSync(source, n, nil)
		e.log.Info("sync complete", slog.String("source", source), slog.Int("records", n))
	}
	// un fallo al escribir el log no reemplaza err
	if lerr := e.st.LogSync(context.WithoutCancel(ctx), entry); lerr != nil {
		e.log.Error("sync log write failed", slog.String("source", source), slog.String("err", lerr.Error()))
	}
	return err
}

func coalesce(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}
