package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AngelCh415/adspend-efficiency/internal/metrics"
	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

var errBadInput = errors.New("bad input")

type manualInput struct {
	Date        string  `json:"date"`
	Country     string  `json:"country"`
	Campaign    string  `json:"campaign"`
	OrdersCount int     `json:"orders_count"`
	Revenue     float64 `json:"revenue"`
	Source      string  `json:"source"`
	Notes       string  `json:"notes"`
}

func (in manualInput) validate() error {
	var missing []string
	if strings.TrimSpace(in.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(in.Country) == "" {
		missing = append(missing, "country")
	}
	if in.OrdersCount <= 0 {
		missing = append(missing, "orders_count")
	}
	if in.Revenue <= 0 {
		missing = append(missing, "revenue")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", errBadInput, strings.Join(missing, ", "))
	}
	if _, err := models.ParseDate(in.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", errBadInput)
	}
	return nil
}

func (in manualInput) order(id string) models.ManualOrder {
	return models.ManualOrder{
		ID:          id,
		Date:        strings.TrimSpace(in.Date),
		Country:     in.Country,
		Campaign:    strings.TrimSpace(in.Campaign),
		OrdersCount: in.OrdersCount,
		Revenue:     in.Revenue,
		Source:      in.Source,
		Notes:       strings.TrimSpace(in.Notes),
	}
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadInput, err)
	}
	return nil
}

// listManual filtra por start/end sólo cuando vienen ambos.
func (a *api) listManual(w http.ResponseWriter, r *http.Request) {
	var win *models.Window
	q := r.URL.Query()
	if q.Get("start") != "" && q.Get("end") != "" {
		wv, err := models.ParseWindow(q.Get("start"), q.Get("end"))
		if err != nil {
			a.fail(w, r, fmt.Errorf("%w: %v", errBadRange, err))
			return
		}
		win = &wv
	}
	list, err := a.st.ListManualOrders(r.Context(), win)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.writeJSON(w, r, http.StatusOK, list)
}

func (a *api) createManual(w http.ResponseWriter, r *http.Request) {
	var in manualInput
	if err := decode(r, &in); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := in.validate(); err != nil {
		a.fail(w, r, err)
		return
	}
	o, err := a.st.CreateManualOrder(r.Context(), in.order(""))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.writeJSON(w, r, http.StatusCreated, o)
}

func (a *api) updateManual(w http.ResponseWriter, r *http.Request) {
	var in manualInput
	if err := decode(r, &in); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := in.validate(); err != nil {
		a.fail(w, r, err)
		return
	}
	o, err := a.st.UpdateManualOrder(r.Context(), in.order(chi.URLParam(r, "id")))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.writeJSON(w, r, http.StatusOK, o)
}

func (a *api) deleteManual(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.st.DeleteManualOrder(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	a.writeJSON(w, r, http.StatusOK, map[string]any{"success": true, "deleted": id})
}

type bulkDelete struct {
	Scope     string `json:"scope"`
	Date      string `json:"date"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	// clientes del dashboard envían startDate/endDate
	StartDateCamel string `json:"startDate"`
	EndDateCamel   string `json:"endDate"`
}

// window devuelve nil para scope=all.
func (b bulkDelete) window() (*models.Window, error) {
	if b.Scope == "all" {
		return nil, nil
	}
	if b.Scope == "custom" {
		start, end := b.StartDate, b.EndDate
		if start == "" {
			start = b.StartDateCamel
		}
		if end == "" {
			end = b.EndDateCamel
		}
		w, err := models.ParseWindow(start, end)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errBadInput, err)
		}
		return &w, nil
	}
	switch b.Scope {
	case "day", "week", "month", "year":
	default:
		return nil, fmt.Errorf("%w: invalid scope %q", errBadInput, b.Scope)
	}
	d, err := models.ParseDate(b.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", errBadInput)
	}
	var start, end time.Time
	switch b.Scope {
	case "day":
		start, end = d, d
	case "week":
		// semana domingo a sábado que contiene la fecha
		start = d.AddDate(0, 0, -int(d.Weekday()))
		end = start.AddDate(0, 0, 6)
	case "month":
		start = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	case "year":
		start = time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(d.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	w, err := models.NewWindow(start, end)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (a *api) deleteManualBulk(w http.ResponseWriter, r *http.Request) {
	var in bulkDelete
	if err := decode(r, &in); err != nil {
		a.fail(w, r, err)
		return
	}
	win, err := in.window()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	n, err := a.st.DeleteManualOrders(r.Context(), win)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.writeJSON(w, r, http.StatusOK, map[string]any{"success": true, "deleted": n})
}

func (a *api) manualSummary(w http.ResponseWriter, r *http.Request) {
	win, err := parseRange(r.URL.Query(), a.now())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	list, err := a.st.ListManualOrders(r.Context(), &win)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.writeJSON(w, r, http.StatusOK, metrics.SummarizeManual(win, list))
}
