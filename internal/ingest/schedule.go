package ingest

import (
	"context"
	"log/slog"
	"time"
)

// Schedule corre e.Run tras initialDelay y luego cada interval hasta que ctx
// se cancele.
func (e *ETL) Schedule(ctx context.Context, initialDelay, interval time.Duration) {
	t := time.NewTimer(initialDelay)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		start := time.Now()
		res, err := e.Run(ctx)
		attrs := []any{slog.Duration("took", time.Since(start)), slog.Any("results", res)}
		if err != nil {
			e.log.Error("scheduled sync finished with errors", append(attrs, slog.String("err", err.Error()))...)
		} else {
			e.log.Info("scheduled sync finished", attrs...)
		}
		t.Reset(interval)
	}
}
