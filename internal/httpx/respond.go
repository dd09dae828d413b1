package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/AngelCh415/adspend-efficiency/internal/ingest"
	"github.com/AngelCh415/adspend-efficiency/internal/store"
	"github.com/AngelCh415/adspend-efficiency/internal/utils"
)

// writeJSON codifica antes de escribir el status; si v no es serializable
// responde 500 en vez de un 200 vacío.
func (a *api) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", " ")
	if err := enc.Encode(v); err != nil {
		a.log.Error("response encode failed",
			slog.String("path", r.URL.Path),
			slog.String("rid", utils.RID(r.Context())),
			slog.String("err", err.Error()))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "failed to encode response"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (a *api) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	a.writeJSON(w, r, status, map[string]string{"error": msg})
}

// fail traduce errores a status: rango inválido 400, orden inexistente 404,
// fuente sin credenciales 503, el resto 500.
func (a *api) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBadRange), errors.Is(err, errBadInput):
		a.writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		a.writeError(w, r, http.StatusNotFound, "order not found")
	case errors.Is(err, ingest.ErrNotConfigured):
		a.writeError(w, r, http.StatusServiceUnavailable, err.Error())
	default:
		a.log.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("rid", utils.RID(r.Context())),
			slog.String("err", err.Error()))
		a.writeError(w, r, http.StatusInternalServerError, err.Error())
	}
}
