package metrics

import (
	"context"

	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

// RowSource supplies the raw rows for a window. Implementations own all I/O;
// the Service never caches what they return.
type RowSource interface {
	SpendRows(ctx context.Context, w models.Window) ([]models.SpendRow, error)
	ChannelAOrders(ctx context.Context, w models.Window) ([]models.ChannelAOrder, error)
	ChannelBOrders(ctx context.Context, w models.Window) ([]models.ChannelBOrder, error)
}

type Service struct{ src RowSource }

func NewService(src RowSource) *Service { return &Service{src: src} }

// load trae las tres colecciones; los errores del origen se devuelven tal cual.
func (s *Service) load(ctx context.Context, w models.Window) (Rows, error) {
	spend, err := s.src.SpendRows(ctx, w)
	if err != nil {
		return Rows{}, err
	}
	a, err := s.src.ChannelAOrders(ctx, w)
	if err != nil {
		return Rows{}, err
	}
	b, err := s.src.ChannelBOrders(ctx, w)
	if err != nil {
		return Rows{}, err
	}
	return Rows{Spend: spend, ChannelA: a, ChannelB: b}, nil
}

func (s *Service) aggregate(ctx context.Context, w models.Window) (Aggregation, error) {
	rows, err := s.load(ctx, w)
	if err != nil {
		return Aggregation{}, err
	}
	return Aggregate(w, rows), nil
}

// analyze loads the current and previous windows in one pass and
// aggregates each separately.
func (s *Service) analyze(ctx context.Context, w models.Window) (Aggregation, models.EfficiencyReport, error) {
	prevW := w.Previous()
	rows, err := s.load(ctx, models.Window{Start: prevW.Start, End: w.End})
	if err != nil {
		return Aggregation{}, models.EfficiencyReport{}, err
	}
	cur := Aggregate(w, rows)
	prev := Aggregate(prevW, rows)
	return cur, Compare(cur, prev), nil
}

func (s *Service) Overview(ctx context.Context, w models.Window) (models.OverviewKPI, error) {
	a, err := s.aggregate(ctx, w)
	if err != nil {
		return models.OverviewKPI{}, err
	}
	return a.Overview, nil
}

func (s *Service) DailyTrends(ctx context.Context, w models.Window) ([]models.DailyMetric, error) {
	a, err := s.aggregate(ctx, w)
	if err != nil {
		return nil, err
	}
	return a.Daily, nil
}

func (s *Service) CampaignMetrics(ctx context.Context, w models.Window) ([]models.CampaignMetric, error) {
	a, err := s.aggregate(ctx, w)
	if err != nil {
		return nil, err
	}
	return a.Campaigns, nil
}

func (s *Service) CampaignsByCountry(ctx context.Context, w models.Window) ([]models.CampaignCountryMetric, error) {
	a, err := s.aggregate(ctx, w)
	if err != nil {
		return nil, err
	}
	return a.CampaignsByCountry, nil
}

func (s *Service) CountryMetrics(ctx context.Context, w models.Window) ([]models.CountryMetric, error) {
	a, err := s.aggregate(ctx, w)
	if err != nil {
		return nil, err
	}
	return a.Countries, nil
}

func (s *Service) EfficiencyReport(ctx context.Context, w models.Window) (models.EfficiencyReport, error) {
	_, rep, err := s.analyze(ctx, w)
	return rep, err
}

func (s *Service) EfficiencyTrends(ctx context.Context, w models.Window) ([]models.EfficiencyTrend, error) {
	a, err := s.aggregate(ctx, w)
	if err != nil {
		return nil, err
	}
	return EfficiencyTrends(a.Daily), nil
}

func (s *Service) Diagnostics(ctx context.Context, w models.Window) ([]models.Diagnostic, error) {
	cur, rep, err := s.analyze(ctx, w)
	if err != nil {
		return nil, err
	}
	return Diagnose(cur, rep), nil
}

func (s *Service) Recommendations(ctx context.Context, w models.Window) ([]models.Recommendation, error) {
	_, rep, err := s.analyze(ctx, w)
	if err != nil {
		return nil, err
	}
	return Recommend(rep, w.Days()), nil
}

// Dashboard bundles the main views of one window in a single response.
func (s *Service) Dashboard(ctx context.Context, w models.Window) (models.Dashboard, error) {
	cur, rep, err := s.analyze(ctx, w)
	if err != nil {
		return models.Dashboard{}, err
	}
	return models.Dashboard{
		Window:      w,
		Overview:    cur.Overview,
		Trends:      cur.Daily,
		Campaigns:   cur.Campaigns,
		Countries:   cur.Countries,
		Diagnostics: Diagnose(cur, rep),
	}, nil
}
