package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS meta_daily_metrics (
	date                DATE NOT NULL,
	campaign_id         TEXT NOT NULL,
	campaign_name       TEXT NOT NULL DEFAULT '',
	country             TEXT NOT NULL DEFAULT 'ALL',
	spend               DOUBLE PRECISION NOT NULL DEFAULT 0,
	impressions         BIGINT NOT NULL DEFAULT 0,
	reach               BIGINT NOT NULL DEFAULT 0,
	clicks              BIGINT NOT NULL DEFAULT 0,
	landing_page_views  BIGINT NOT NULL DEFAULT 0,
	add_to_cart         BIGINT NOT NULL DEFAULT 0,
	checkouts_initiated BIGINT NOT NULL DEFAULT 0,
	conversions         BIGINT NOT NULL DEFAULT 0,
	conversion_value    DOUBLE PRECISION NOT NULL DEFAULT 0,
	frequency           DOUBLE PRECISION NOT NULL DEFAULT 0,
	PRIMARY KEY (date, campaign_id, country)
);
CREATE TABLE IF NOT EXISTS salla_orders (
	order_id    TEXT PRIMARY KEY,
	date        DATE NOT NULL,
	country     TEXT NOT NULL DEFAULT '',
	order_total DOUBLE PRECISION NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS manual_orders (
	id           TEXT PRIMARY KEY,
	date         DATE NOT NULL,
	country      TEXT NOT NULL,
	campaign     TEXT NOT NULL DEFAULT '',
	orders_count INTEGER NOT NULL DEFAULT 1,
	revenue      DOUBLE PRECISION NOT NULL DEFAULT 0,
	source       TEXT NOT NULL DEFAULT 'whatsapp',
	notes        TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS sync_log (
	id            BIGSERIAL PRIMARY KEY,
	source        TEXT NOT NULL,
	status        TEXT NOT NULL,
	records       INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT '',
	synced_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_meta_date ON meta_daily_metrics(date);
CREATE INDEX IF NOT EXISTS idx_salla_date ON salla_orders(date);
CREATE INDEX IF NOT EXISTS idx_manual_date ON manual_orders(date);
`

const (
	upsertSpendSQL = `INSERT INTO meta_daily_metrics
	(date, campaign_id, campaign_name, country, spend, impressions, reach, clicks,
	 landing_page_views, add_to_cart, checkouts_initiated, conversions, conversion_value, frequency)
VALUES ($1::date, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (date, campaign_id, country) DO UPDATE SET
	campaign_name = EXCLUDED.campaign_name, spend = EXCLUDED.spend,
	impressions = EXCLUDED.impressions, reach = EXCLUDED.reach, clicks = EXCLUDED.clicks,
	landing_page_views = EXCLUDED.landing_page_views, add_to_cart = EXCLUDED.add_to_cart,
	checkouts_initiated = EXCLUDED.checkouts_initiated, conversions = EXCLUDED.conversions,
	conversion_value = EXCLUDED.conversion_value, frequency = EXCLUDED.frequency`

	upsertOrderSQL = `INSERT INTO salla_orders (order_id, date, country, order_total)
VALUES ($1, $2::date, $3, $4)
ON CONFLICT (order_id) DO UPDATE SET
	date = EXCLUDED.date, country = EXCLUDED.country, order_total = EXCLUDED.order_total`

	selectSpendSQL = `SELECT date, campaign_id, campaign_name, country, spend, impressions, reach, clicks,
	landing_page_views, add_to_cart, checkouts_initiated, conversions, conversion_value, frequency
FROM meta_daily_metrics WHERE date BETWEEN $1::date AND $2::date
ORDER BY date, campaign_id, country`

	selectOrdersSQL = `SELECT order_id, date, country, order_total
FROM salla_orders WHERE date BETWEEN $1::date AND $2::date
ORDER BY date, order_id`

	selectChannelBSQL = `SELECT date, country, orders_count, revenue
FROM manual_orders WHERE date BETWEEN $1::date AND $2::date
ORDER BY date, created_at`

	manualColumns = `id, date, country, campaign, orders_count, revenue, source, notes, created_at`
)

// Postgres implementa Store sobre database/sql con el driver lib/pq.
type Postgres struct {
	db  *sql.DB
	now func() time.Time
}

// OpenPostgres abre el pool, verifica la conexión y aplica el esquema.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	p := NewPostgres(db)
	if err := p.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, now: time.Now}
}

func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }
func (p *Postgres) Close() error                   { return p.db.Close() }

func (p *Postgres) UpsertSpend(ctx context.Context, rows []models.SpendRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	err := p.inTx(ctx, upsertSpendSQL, func(stmt *sql.Stmt) error {
		for _, r := range rows {
			r = cleanSpend(r)
			if _, err := stmt.ExecContext(ctx,
				r.Date.Format(models.DateLayout), r.CampaignID, r.CampaignName, r.Country, r.Spend,
				r.Impressions, r.Reach, r.Clicks, r.LandingPageViews, r.AddToCart,
				r.CheckoutsInitiated, r.Conversions, r.ConversionValue, r.Frequency,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("upsert spend: %w", err)
	}
	return len(rows), nil
}

func (p *Postgres) UpsertChannelAOrders(ctx context.Context, orders []models.ChannelAOrder) (int, error) {
	if len(orders) == 0 {
		return 0, nil
	}
	err := p.inTx(ctx, upsertOrderSQL, func(stmt *sql.Stmt) error {
		for _, o := range orders {
			if _, err := stmt.ExecContext(ctx,
				o.OrderID, models.Day(o.Date).Format(models.DateLayout), normCountry(o.Country), maxf(o.OrderTotal),
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("upsert orders: %w", err)
	}
	return len(orders), nil
}

func (p *Postgres) inTx(ctx context.Context, query string, fn func(*sql.Stmt) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	if err := fn(stmt); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (p *Postgres) SpendRows(ctx context.Context, w models.Window) ([]models.SpendRow, error) {
	rows, err := p.db.QueryContext(ctx, selectSpendSQL, w.StartDate(), w.EndDate())
	if err != nil {
		return nil, fmt.Errorf("query spend: %w", err)
	}
	defer rows.Close()
	out := make([]models.SpendRow, 0)
	for rows.Next() {
		var r models.SpendRow
		if err := rows.Scan(&r.Date, &r.CampaignID, &r.CampaignName, &r.Country, &r.Spend,
			&r.Impressions, &r.Reach, &r.Clicks, &r.LandingPageViews, &r.AddToCart,
			&r.CheckoutsInitiated, &r.Conversions, &r.ConversionValue, &r.Frequency); err != nil {
			return nil, fmt.Errorf("scan spend: %w", err)
		}
		r.Date = models.Day(r.Date)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query spend: %w", err)
	}
	return out, nil
}

func (p *Postgres) ChannelAOrders(ctx context.Context, w models.Window) ([]models.ChannelAOrder, error) {
	rows, err := p.db.QueryContext(ctx, selectOrdersSQL, w.StartDate(), w.EndDate())
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()
	out := make([]models.ChannelAOrder, 0)
	for rows.Next() {
		var o models.ChannelAOrder
		if err := rows.Scan(&o.OrderID, &o.Date, &o.Country, &o.OrderTotal); err != nil {
			return nil, fmt.Errorf("scan orders: %w", err)
		}
		o.Date = models.Day(o.Date)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	return out, nil
}

func (p *Postgres) ChannelBOrders(ctx context.Context, w models.Window) ([]models.ChannelBOrder, error) {
	rows, err := p.db.QueryContext(ctx, selectChannelBSQL, w.StartDate(), w.EndDate())
	if err != nil {
		return nil, fmt.Errorf("query manual orders: %w", err)
	}
	defer rows.Close()
	out := make([]models.ChannelBOrder, 0)
	for rows.Next() {
		var o models.ChannelBOrder
		if err := rows.Scan(&o.Date, &o.Country, &o.OrdersCount, &o.Revenue); err != nil {
			return nil, fmt.Errorf("scan manual orders: %w", err)
		}
		o.Date = models.Day(o.Date)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query manual orders: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanManual(s scanner) (models.ManualOrder, error) {
	var (
		o models.ManualOrder
		d time.Time
	)
	if err := s.Scan(&o.ID, &d, &o.Country, &o.Campaign, &o.OrdersCount, &o.Revenue, &o.Source, &o.Notes, &o.CreatedAt); err != nil {
		return o, err
	}
	o.Date = models.Day(d).Format(models.DateLayout)
	o.CreatedAt = o.CreatedAt.UTC()
	return o, nil
}

func (p *Postgres) ListManualOrders(ctx context.Context, w *models.Window) ([]models.ManualOrder, error) {
	q := `SELECT ` + manualColumns + ` FROM manual_orders`
	var args []any
	if w != nil {
		q += ` WHERE date BETWEEN $1::date AND $2::date`
		args = append(args, w.StartDate(), w.EndDate())
	}
	q += ` ORDER BY date DESC, created_at DESC, id DESC`

	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list manual orders: %w", err)
	}
	defer rows.Close()
	out := make([]models.ManualOrder, 0)
	for rows.Next() {
		o, err := scanManual(rows)
		if err != nil {
			return nil, fmt.Errorf("scan manual order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list manual orders: %w", err)
	}
	return out, nil
}

func (p *Postgres) GetManualOrder(ctx context.Context, id string) (models.ManualOrder, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+manualColumns+` FROM manual_orders WHERE id = $1`, id)
	o, err := scanManual(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ManualOrder{}, ErrNotFound
	}
	if err != nil {
		return models.ManualOrder{}, fmt.Errorf("get manual order: %w", err)
	}
	return o, nil
}

func (p *Postgres) CreateManualOrder(ctx context.Context, o models.ManualOrder) (models.ManualOrder, error) {
	o = cleanManual(o)
	o.ID = uuid.NewString()
	o.CreatedAt = p.now().UTC()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO manual_orders (`+manualColumns+`) VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID, o.Date, o.Country, o.Campaign, o.OrdersCount, o.Revenue, o.Source, o.Notes, o.CreatedAt,
	)
	if err != nil {
		return models.ManualOrder{}, fmt.Errorf("create manual order: %w", err)
	}
	return o, nil
}

func (p *Postgres) UpdateManualOrder(ctx context.Context, o models.ManualOrder) (models.ManualOrder, error) {
	o = cleanManual(o)
	row := p.db.QueryRowContext(ctx,
		`UPDATE manual_orders SET date = $2::date, country = $3, campaign = $4, orders_count = $5,
	revenue = $6, source = $7, notes = $8
WHERE id = $1 RETURNING created_at`,
		o.ID, o.Date, o.Country, o.Campaign, o.OrdersCount, o.Revenue, o.Source, o.Notes,
	)
	err := row.Scan(&o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ManualOrder{}, ErrNotFound
	}
	if err != nil {
		return models.ManualOrder{}, fmt.Errorf("update manual order: %w", err)
	}
	o.CreatedAt = o.CreatedAt.UTC()
	return o, nil
}

func (p *Postgres) DeleteManualOrder(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM manual_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete manual order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteManualOrders(ctx context.Context, w *models.Window) (int, error) {
	var (
		res sql.Result
		err error
	)
	if w == nil {
		res, err = p.db.ExecContext(ctx, `DELETE FROM manual_orders`)
	} else {
		res, err = p.db.ExecContext(ctx, `DELETE FROM manual_orders WHERE date BETWEEN $1::date AND $2::date`,
			w.StartDate(), w.EndDate())
	}
	if err != nil {
		return 0, fmt.Errorf("delete manual orders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete manual orders: %w", err)
	}
	return int(n), nil
}

func (p *Postgres) LogSync(ctx context.Context, l models.SyncLog) error {
	if l.SyncedAt.IsZero() {
		l.SyncedAt = p.now().UTC()
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO sync_log (source, status, records, error_message, synced_at) VALUES ($1, $2, $3, $4, $5)`,
		l.Source, l.Status, l.Records, l.Error, l.SyncedAt,
	)
	if err != nil {
		return fmt.Errorf("log sync: %w", err)
	}
	return nil
}

func (p *Postgres) RecentSyncs(ctx context.Context, limit int) ([]models.SyncLog, error) {
	if limit <= 0 {
		limit = defaultSyncLimit
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT source, status, records, error_message, synced_at FROM sync_log ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent syncs: %w", err)
	}
	defer rows.Close()
	out := make([]models.SyncLog, 0, limit)
	for rows.Next() {
		var l models.SyncLog
		if err := rows.Scan(&l.Source, &l.Status, &l.Records, &l.Error, &l.SyncedAt); err != nil {
			return nil, fmt.Errorf("scan sync log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
