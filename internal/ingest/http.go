package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AngelCh415/adspend-efficiency/internal/utils"
)

// GetJSONWithRetry reintenta fallas de transporte, 5xx y 429 con backoff
// exponencial + jitter. Otros 4xx y errores de decodificación no se reintentan.
func GetJSONWithRetry(ctx context.Context, c HTTPClient, b utils.Backoff, url string, hdr http.Header, dst any) error {
	return b.Do(ctx, func(int) error {
		err := getJSON(ctx, c, url, hdr, dst)
		if err == nil {
			return nil
		}
		var se *StatusError
		if errors.As(err, &se) && !se.retryable() {
			return utils.Permanent(err)
		}
		if ctx.Err() != nil || isDecodeError(err) {
			return utils.Permanent(err)
		}
		return err
	})
}

func isDecodeError(err error) bool {
	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	return errors.As(err, &syn) || errors.As(err, &typ)
}
