package utils

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

type Backoff struct {
	base       time.Duration
	maxRetries int
	sleep      func(context.Context, time.Duration) error
}

func NewBackoff(base time.Duration, maxRetries int) Backoff {
	return Backoff{base: base, maxRetries: maxRetries, sleep: sleepCtx}
}

// permanentError corta los reintentos.
type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marca un error que no debe reintentarse (p.ej. un 4xx).
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do ejecuta fn hasta maxRetries+1 veces con backoff exponencial + jitter.
func (b Backoff) Do(ctx context.Context, fn func(i int) error) error {
	var err error
	for i := 0; i <= b.maxRetries; i++ {
		err = fn(i)
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if i == b.maxRetries {
			break
		}
		if serr := b.sleep(ctx, b.delay(i)); serr != nil {
			return serr
		}
	}
	return err
}

func (b Backoff) delay(i int) time.Duration {
	d := time.Duration(1<<i) * b.base
	if b.base > 0 {
		d += time.Duration(rand.Int63n(int64(b.base)/2 + 1))
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
