package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

const metaFields = "campaign_id,campaign_name,spend,impressions,reach,clicks,actions,action_values,cpm,cpc,ctr,frequency"

// maxPages acota el seguimiento de paginación de cualquier upstream.
const maxPages = 500

// num acepta números JSON o strings numéricos ("12.34"); vacío o inválido => 0.
type num float64

func (n *num) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = num(f)
	return nil
}

type metaAction struct {
	ActionType string `json:"action_type"`
	Value      num    `json:"value"`
}

type metaInsight struct {
	DateStart    string       `json:"date_start"`
	CampaignID   string       `json:"campaign_id"`
	CampaignName string       `json:"campaign_name"`
	Country      string       `json:"country"`
	Spend        num          `json:"spend"`
	Impressions  num          `json:"impressions"`
	Reach        num          `json:"reach"`
	Clicks       num          `json:"clicks"`
	Frequency    num          `json:"frequency"`
	Actions      []metaAction `json:"actions"`
	ActionValues []metaAction `json:"action_values"`
}

type metaPage struct {
	Data   []metaInsight `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

type funnel struct {
	landingPageViews int
	addToCart        int
	checkouts        int
	purchases        int
	purchaseValue    float64
}

func parseActions(actions, values []metaAction) funnel {
	var f funnel
	for _, a := range actions {
		switch a.ActionType {
		case "landing_page_view":
			f.landingPageViews = int(a.Value)
		case "add_to_cart":
			f.addToCart = int(a.Value)
		case "initiate_checkout":
			f.checkouts = int(a.Value)
		case "purchase", "omni_purchase":
			f.purchases = int(a.Value)
		}
	}
	for _, v := range values {
		if v.ActionType == "purchase" || v.ActionType == "omni_purchase" {
			f.purchaseValue = float64(v.Value)
		}
	}
	return f
}

// row convierte un insight a fila de gasto; country vacío => ALL o UNKNOWN.
func (in metaInsight) row(byCountry bool) (models.SpendRow, bool) {
	d, err := models.ParseDate(strings.TrimSpace(in.DateStart))
	if err != nil || strings.TrimSpace(in.CampaignID) == "" {
		return models.SpendRow{}, false
	}
	country := models.AllCountries
	if byCountry {
		country = coalesce(strings.ToUpper(in.Country), "UNKNOWN")
	}
	f := parseActions(in.Actions, in.ActionValues)
	return models.SpendRow{
		Date:               d,
		CampaignID:         strings.TrimSpace(in.CampaignID),
		CampaignName:       strings.TrimSpace(in.CampaignName),
		Country:            country,
		Spend:              float64(in.Spend),
		Impressions:        int(in.Impressions),
		Reach:              int(in.Reach),
		Clicks:             int(in.Clicks),
		LandingPageViews:   f.landingPageViews,
		AddToCart:          f.addToCart,
		CheckoutsInitiated: f.checkouts,
		Conversions:        f.purchases,
		ConversionValue:    f.purchaseValue,
		Frequency:          float64(in.Frequency),
	}, true
}

func metaInsightsURL(base, account, token string, since, until time.Time, byCountry bool) string {
	tr, _ := json.Marshal(map[string]string{
		"since": since.Format(models.DateLayout),
		"until": until.Format(models.DateLayout),
	})
	q := url.Values{}
	q.Set("fields", metaFields)
	q.Set("time_range", string(tr))
	q.Set("level", "campaign")
	q.Set("time_increment", "1")
	q.Set("limit", "500")
	q.Set("access_token", token)
	if byCountry {
		q.Set("breakdowns", "country")
	}
	return fmt.Sprintf("%s/act_%s/insights?%s", base, account, q.Encode())
}

// fetchMeta baja los insights diarios por campaña siguiendo paging.next.
func (e *ETL) fetchMeta(ctx context.Context, since, until time.Time, byCountry bool) ([]models.SpendRow, error) {
	next := metaInsightsURL(e.cfg.MetaAPIURL, e.cfg.MetaAdAccountID, e.cfg.MetaAccessToken, since, until, byCountry)
	out := make([]models.SpendRow, 0)
	for page := 0; next != "" && page < maxPages; page++ {
		var p metaPage
		if err := GetJSONWithRetry(ctx, e.c, e.retry, next, nil, &p); err != nil {
			return nil, fmt.Errorf("meta insights: %w", err)
		}
		for _, in := range p.Data {
			if r, ok := in.row(byCountry); ok {
				out = append(out, r)
			}
		}
		next = p.Paging.Next
	}
	return out, nil
}
