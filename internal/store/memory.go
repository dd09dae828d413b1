package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

type spendKey struct {
	Date       time.Time
	CampaignID string
	Country    string
}

type MemoryStore struct {
	mu     sync.RWMutex
	spend  map[spendKey]models.SpendRow
	orders map[string]models.ChannelAOrder // por order_id
	manual map[string]models.ManualOrder
	syncs  []models.SyncLog
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		spend:  make(map[spendKey]models.SpendRow),
		orders: make(map[string]models.ChannelAOrder),
		manual: make(map[string]models.ManualOrder),
		now:    time.Now,
	}
}

func (s *MemoryStore) UpsertSpend(_ context.Context, rows []models.SpendRow) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		r = cleanSpend(r)
		s.spend[spendKey{r.Date, r.CampaignID, r.Country}] = r
	}
	return len(rows), nil
}

func (s *MemoryStore) UpsertChannelAOrders(_ context.Context, orders []models.ChannelAOrder) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range orders {
		o.Date = models.Day(o.Date)
		o.Country = normCountry(o.Country)
		o.OrderTotal = maxf(o.OrderTotal)
		s.orders[o.OrderID] = o
	}
	return len(orders), nil
}

func (s *MemoryStore) SpendRows(_ context.Context, w models.Window) ([]models.SpendRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SpendRow, 0)
	for _, r := range s.spend {
		if w.Contains(r.Date) {
			out = append(out, r)
		}
	}
	// orden determinista
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].CampaignID != out[j].CampaignID {
			return out[i].CampaignID < out[j].CampaignID
		}
		return out[i].Country < out[j].Country
	})
	return out, nil
}

func (s *MemoryStore) ChannelAOrders(_ context.Context, w models.Window) ([]models.ChannelAOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ChannelAOrder, 0)
	for _, o := range s.orders {
		if w.Contains(o.Date) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].OrderID < out[j].OrderID
	})
	return out, nil
}

func (s *MemoryStore) ChannelBOrders(ctx context.Context, w models.Window) ([]models.ChannelBOrder, error) {
	list, err := s.ListManualOrders(ctx, &w)
	if err != nil {
		return nil, err
	}
	out := make([]models.ChannelBOrder, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		r, err := list[i].Row()
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *MemoryStore) ListManualOrders(_ context.Context, w *models.Window) ([]models.ManualOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ManualOrder, 0)
	for _, o := range s.manual {
		if w != nil && !manualInWindow(o, *w) {
			continue
		}
		out = append(out, o)
	}
	sortManual(out)
	return out, nil
}

func (s *MemoryStore) GetManualOrder(_ context.Context, id string) (models.ManualOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.manual[id]
	if !ok {
		return models.ManualOrder{}, ErrNotFound
	}
	return o, nil
}

func (s *MemoryStore) CreateManualOrder(_ context.Context, o models.ManualOrder) (models.ManualOrder, error) {
	o = cleanManual(o)
	o.ID = uuid.NewString()
	o.CreatedAt = s.now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manual[o.ID] = o
	return o, nil
}

func (s *MemoryStore) UpdateManualOrder(_ context.Context, o models.ManualOrder) (models.ManualOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.manual[o.ID]
	if !ok {
		return models.ManualOrder{}, ErrNotFound
	}
	o = cleanManual(o)
	o.CreatedAt = cur.CreatedAt
	s.manual[o.ID] = o
	return o, nil
}

func (s *MemoryStore) DeleteManualOrder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.manual[id]; !ok {
		return ErrNotFound
	}
	delete(s.manual, id)
	return nil
}

func (s *MemoryStore) DeleteManualOrders(_ context.Context, w *models.Window) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, o := range s.manual {
		if w == nil || manualInWindow(o, *w) {
			delete(s.manual, id)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) LogSync(_ context.Context, l models.SyncLog) error {
	if l.SyncedAt.IsZero() {
		l.SyncedAt = s.now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncs = append(s.syncs, l)
	return nil
}

func (s *MemoryStore) RecentSyncs(_ context.Context, limit int) ([]models.SyncLog, error) {
	if limit <= 0 {
		limit = defaultSyncLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SyncLog, 0, limit)
	for i := len(s.syncs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.syncs[i])
	}
	return out, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
func (s *MemoryStore) Close() error               { return nil }

func manualInWindow(o models.ManualOrder, w models.Window) bool {
	d, err := models.ParseDate(o.Date)
	return err == nil && w.Contains(d)
}

// más recientes primero, como el listado de la UI
func sortManual(out []models.ManualOrder) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
}
