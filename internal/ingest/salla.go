package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

const sallaPerPage = 50

type sallaCountry struct {
	Country struct {
		Code string `json:"code"`
	} `json:"country"`
}

type sallaOrder struct {
	ID        json.RawMessage `json:"id"`
	Date      json.RawMessage `json:"date"` // {"date": "2025-08-01 12:00:00"} o string
	CreatedAt string          `json:"created_at"`
	Shipping  sallaCountry    `json:"shipping"`
	Customer  sallaCountry    `json:"customer"`
	Total     json.RawMessage `json:"total"`
}

type sallaPage struct {
	Data       []sallaOrder `json:"data"`
	Pagination struct {
		CurrentPage int `json:"currentPage"`
		TotalPages  int `json:"totalPages"`
	} `json:"pagination"`
}

func sallaDate(b json.RawMessage) string {
	var obj struct {
		Date string `json:"date"`
	}
	if err := json.Unmarshal(b, &obj); err == nil {
		return obj.Date
	}
	var s string
	_ = json.Unmarshal(b, &s)
	return s
}

func rawString(b json.RawMessage) string {
	return strings.Trim(strings.TrimSpace(string(b)), `"`)
}

// total puede venir como {"amount": ...} o como escalar.
func sallaTotal(b json.RawMessage) float64 {
	var obj struct {
		Amount num `json:"amount"`
	}
	if err := json.Unmarshal(b, &obj); err == nil {
		return float64(obj.Amount)
	}
	var n num
	_ = n.UnmarshalJSON(b)
	return float64(n)
}

func (o sallaOrder) order(today time.Time) (models.ChannelAOrder, bool) {
	id := rawString(o.ID)
	if id == "" || id == "null" {
		return models.ChannelAOrder{}, false
	}
	d := today
	if f := strings.Fields(sallaDate(o.Date)); len(f) > 0 {
		if t, err := models.ParseDate(f[0]); err == nil {
			d = t
		}
	} else if o.CreatedAt != "" {
		if t, err := models.ParseDate(strings.SplitN(o.CreatedAt, "T", 2)[0]); err == nil {
			d = t
		}
	}
	country := coalesce(o.Shipping.Country.Code, coalesce(o.Customer.Country.Code, "SA"))
	return models.ChannelAOrder{
		OrderID:    id,
		Date:       d,
		Country:    strings.ToUpper(country),
		OrderTotal: sallaTotal(o.Total),
	}, true
}

func sallaOrdersURL(base string, page int, since, until time.Time) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(sallaPerPage))
	q.Set("from_date", since.Format(models.DateLayout))
	q.Set("to_date", until.Format(models.DateLayout))
	return fmt.Sprintf("%s/orders?%s", base, q.Encode())
}

// fetchSalla recorre las páginas mientras currentPage < totalPages.
func (e *ETL) fetchSalla(ctx context.Context, since, until time.Time) ([]models.ChannelAOrder, error) {
	hdr := http.Header{}
	hdr.Set("Authorization", "Bearer "+e.cfg.SallaAccessToken)
	today := models.Day(e.now())

	out := make([]models.ChannelAOrder, 0)
	for page := 1; page <= maxPages; page++ {
		var p sallaPage
		if err := GetJSONWithRetry(ctx, e.c, e.retry, sallaOrdersURL(e.cfg.SallaAPIURL, page, since, until), hdr, &p); err != nil {
			return nil, fmt.Errorf("salla orders: %w", err)
		}
		for _, o := range p.Data {
			if ord, ok := o.order(today); ok {
				out = append(out, ord)
			}
		}
		if p.Pagination.CurrentPage >= p.Pagination.TotalPages {
			break
		}
	}
	return out, nil
}
