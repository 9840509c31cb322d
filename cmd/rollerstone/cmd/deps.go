package cmd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"rollerstone-site/internal/inquiry"
	"rollerstone-site/internal/notify"
	"rollerstone-site/internal/pricing"
	"rollerstone-site/internal/storage"
	"rollerstone-site/pkg/redis"
)

const pingTimeout = 5 * time.Second

// backends holds the optional services. Any of them may be nil.
type backends struct {
	redis    *redis.Client
	storage  *storage.PostgresStorage
	notifier notify.Notifier
}

func openRedis(ctx context.Context) (*redis.Client, error) {
	if !cfg.Redis.Enabled() {
		log.Info("Redis disabled, rate limiting and statistics cache are off")
		return nil, nil
	}

	client := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
	}

	log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	return client, nil
}

func openStorage(ctx context.Context, cache *redis.Client) (*storage.PostgresStorage, error) {
	if !cfg.Database.Enabled() {
		log.Info("Database disabled, inquiries will be rejected")
		return nil, nil
	}

	var c storage.Cache
	if cache != nil {
		c = cache
	}
	return storage.NewPostgresStorage(ctx, cfg.Database, c, log)
}

// requireStorage opens the database for commands that cannot run without it.
func requireStorage(ctx context.Context) (*storage.PostgresStorage, func(), error) {
	if !cfg.Database.Enabled() {
		return nil, nil, fmt.Errorf("DB_HOST is not set")
	}

	cache, err := openRedis(ctx)
	if err != nil {
		log.Warn("Continuing without statistics cache", zap.Error(err))
		cache = nil
	}

	store, err := openStorage(ctx, cache)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		return nil, nil, err
	}

	cleanup := func() {
		store.Close()
		if cache != nil {
			cache.Close()
		}
	}
	return store, cleanup, nil
}

func newNotifier() (notify.Notifier, error) {
	if !cfg.Telegram.Enabled() {
		return notify.Nop{}, nil
	}
	return notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.Recipients(), log)
}

func openBackends(ctx context.Context) (*backends, error) {
	b := &backends{}

	var err error
	b.redis, err = openRedis(ctx)
	if err != nil {
		return nil, err
	}

	b.storage, err = openStorage(ctx, b.redis)
	if err != nil {
		b.close()
		return nil, err
	}

	b.notifier, err = newNotifier()
	if err != nil {
		b.close()
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return b, nil
}

// inquiryService wires the intake over whichever backends are present.
func (b *backends) inquiryService(quoter *pricing.Quoter) *inquiry.Service {
	var repo inquiry.Repository
	if b.storage != nil {
		repo = b.storage
	}
	var limiter inquiry.RateLimiter
	if b.redis != nil {
		limiter = b.redis
	}
	return inquiry.NewService(repo, limiter, b.notifier, quoter, cfg.Inquiry, log)
}

func (b *backends) checks() map[string]func(ctx context.Context) error {
	checks := make(map[string]func(ctx context.Context) error)
	if b.redis != nil {
		checks["redis"] = b.redis.Ping
	}
	if b.storage != nil {
		checks["postgres"] = func(ctx context.Context) error {
			return b.storage.DB().PingContext(ctx)
		}
	}
	return checks
}

func (b *backends) close() {
	if b.storage != nil {
		if err := b.storage.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}
	if b.redis != nil {
		b.redis.Close()
	}
}
