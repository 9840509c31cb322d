package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rollerstone-site/internal/config"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("inquiry not found")

const statsCacheKey = "inquiry_stats"

type InquiryStatus string

const (
	StatusNew       InquiryStatus = "new"
	StatusContacted InquiryStatus = "contacted"
	StatusClosed    InquiryStatus = "closed"
	StatusCancelled InquiryStatus = "cancelled"
)

func (s InquiryStatus) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusClosed, StatusCancelled:
		return true
	}
	return false
}

type Inquiry struct {
	ID             int64           `db:"id" json:"id"`
	AreaInput      string          `db:"area_input" json:"area_input"`
	Area           float64         `db:"area" json:"area"`
	UnitPrice      decimal.Decimal `db:"unit_price" json:"unit_price"`
	SubtotalFinal  decimal.Decimal `db:"subtotal_final" json:"subtotal_final"`
	Tax            decimal.Decimal `db:"tax" json:"tax"`
	Total          decimal.Decimal `db:"total" json:"total"`
	MinimumApplied bool            `db:"minimum_applied" json:"minimum_applied"`
	Name           string          `db:"name" json:"name"`
	Contact        string          `db:"contact" json:"contact"`
	Message        string          `db:"message" json:"message"`
	Status         InquiryStatus   `db:"status" json:"status"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// Cache is the subset of the Redis client used for statistics. Entries
// expire after the cache's default TTL (REDIS_TTL).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetDefault(ctx context.Context, key string, data []byte) error
	Del(ctx context.Context, key string) error
}

type PostgresStorage struct {
	db     *sqlx.DB
	cache  Cache
	logger *zap.Logger
}

// NewPostgresStorage connects with exponential backoff. cache may be nil.
func NewPostgresStorage(ctx context.Context, cfg config.DatabaseConfig, cache Cache, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	var db *sqlx.DB
	var err error

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...", zap.String("host", cfg.Host), zap.Int("port", cfg.Port))

	err = backoff.RetryNotify(
		func() error {
			db, err = sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}

			if err = db.PingContext(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)

	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return &PostgresStorage{
		db:     db,
		cache:  cache,
		logger: logger,
	}, nil
}

// DB exposes the underlying handle for migrations.
func (s *PostgresStorage) DB() *sql.DB {
	return s.db.DB
}

func (s *PostgresStorage) SaveInquiry(ctx context.Context, inq Inquiry) (int64, error) {
	const query = `
        INSERT INTO inquiries (
            area_input, area, unit_price, subtotal_final, tax, total,
            minimum_applied, name, contact, message, status, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id
    `

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		inq.AreaInput,
		inq.Area,
		inq.UnitPrice,
		inq.SubtotalFinal,
		inq.Tax,
		inq.Total,
		inq.MinimumApplied,
		inq.Name,
		inq.Contact,
		inq.Message,
		inq.Status,
		inq.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save inquiry: %w", err)
	}

	s.invalidateStats(ctx)
	return id, nil
}

func (s *PostgresStorage) GetInquiry(ctx context.Context, id int64) (*Inquiry, error) {
	const query = `SELECT * FROM inquiries WHERE id = $1`

	var inq Inquiry
	if err := s.db.GetContext(ctx, &inq, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}
	return &inq, nil
}

func (s *PostgresStorage) ListInquiries(ctx context.Context) ([]Inquiry, error) {
	const query = `SELECT * FROM inquiries ORDER BY created_at DESC`

	var inquiries []Inquiry
	if err := s.db.SelectContext(ctx, &inquiries, query); err != nil {
		return nil, fmt.Errorf("failed to fetch inquiries: %w", err)
	}
	return inquiries, nil
}

func (s *PostgresStorage) UpdateInquiryStatus(ctx context.Context, id int64, status InquiryStatus) error {
	const query = `UPDATE inquiries SET status = $1 WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update inquiry status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update inquiry status: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	s.invalidateStats(ctx)
	return nil
}

type PeriodStatistics struct {
	Count  int             `db:"count" json:"count"`
	Amount decimal.Decimal `db:"amount" json:"amount"`
}

type InquiryStatistics struct {
	Total        PeriodStatistics `json:"total"`
	Today        PeriodStatistics `json:"today"`
	Week         PeriodStatistics `json:"week"`
	Month        PeriodStatistics `json:"month"`
	StatusCounts map[string]int   `json:"status_counts"`
}

// GetInquiryStatistics aggregates inquiries, cached until the cache TTL
// expires or an inquiry changes.
func (s *PostgresStorage) GetInquiryStatistics(ctx context.Context) (*InquiryStatistics, error) {
	if stats, ok := s.cachedStats(ctx); ok {
		return stats, nil
	}

	stats := &InquiryStatistics{StatusCounts: make(map[string]int)}

	periods := []struct {
		dst   *PeriodStatistics
		where string
	}{
		{&stats.Total, "TRUE"},
		{&stats.Today, "created_at >= CURRENT_DATE"},
		{&stats.Week, "created_at >= CURRENT_DATE - INTERVAL '7 days'"},
		{&stats.Month, "created_at >= CURRENT_DATE - INTERVAL '30 days'"},
	}
	for _, p := range periods {
		query := `SELECT COUNT(*) AS count, COALESCE(SUM(total), 0) AS amount FROM inquiries WHERE ` + p.where
		if err := s.db.GetContext(ctx, p.dst, query); err != nil {
			return nil, fmt.Errorf("failed to get inquiry totals: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) AS count FROM inquiries GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to get status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.StatusCounts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read status counts: %w", err)
	}

	s.storeStats(ctx, stats)
	return stats, nil
}

func (s *PostgresStorage) cachedStats(ctx context.Context) (*InquiryStatistics, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, statsCacheKey)
	if err != nil {
		return nil, false
	}
	var stats InquiryStatistics
	if err := sonic.Unmarshal(data, &stats); err != nil {
		s.logger.Warn("Discarding unreadable cached statistics", zap.Error(err))
		return nil, false
	}
	return &stats, true
}

func (s *PostgresStorage) storeStats(ctx context.Context, stats *InquiryStatistics) {
	if s.cache == nil {
		return
	}
	data, err := sonic.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.SetDefault(ctx, statsCacheKey, data); err != nil {
		s.logger.Warn("Failed to cache statistics", zap.Error(err))
	}
}

func (s *PostgresStorage) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate statistics cache", zap.Error(err))
	}
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
