package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	HTTP     HTTPConfig
	Site     SiteConfig
	Log      LogConfig
	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Telegram TelegramConfig
	Inquiry  InquiryConfig `envPrefix:"INQUIRY_"`
}

type HTTPConfig struct {
	Addr         string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
}

type SiteConfig struct {
	Dir             string `env:"SITE_DIR" envDefault:"site"`
	CasesDir        string `env:"CASES_DIR" envDefault:"cases"`
	CTAURL          string `env:"CTA_URL" envDefault:"#"`
	GalleryIndexURL string `env:"GALLERY_INDEX_URL" envDefault:"../gallery_works.html"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// DatabaseConfig is disabled when Host is empty.
type DatabaseConfig struct {
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER" envDefault:"postgres"`
	Password        string        `env:"PASSWORD"`
	Name            string        `env:"NAME" envDefault:"rollerstone"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"2m"`
}

func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

// DSN is the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name,
	)
}

// RedisConfig is disabled when Addr is empty.
type RedisConfig struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	TTL      time.Duration `env:"TTL" envDefault:"1h"`
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// TelegramConfig is disabled when Token is empty.
type TelegramConfig struct {
	Token       string  `env:"TELEGRAM_TOKEN"`
	AdminChatID int64   `env:"ADMIN_CHAT_ID"`
	AdminIDs    []int64 `env:"ADMIN_IDS" envSeparator:","`
}

func (c TelegramConfig) Enabled() bool { return c.Token != "" }

// Recipients is the admin chat followed by every admin ID, deduplicated.
func (c TelegramConfig) Recipients() []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, id := range append([]int64{c.AdminChatID}, c.AdminIDs...) {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

type InquiryConfig struct {
	RateLimit  int64         `env:"RATE_LIMIT" envDefault:"5"`
	RateWindow time.Duration `env:"RATE_WINDOW" envDefault:"1h"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Telegram.Enabled() && len(cfg.Telegram.Recipients()) == 0 {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is set but no ADMIN_CHAT_ID or ADMIN_IDS")
	}
	if cfg.Inquiry.RateLimit <= 0 {
		return nil, fmt.Errorf("INQUIRY_RATE_LIMIT must be positive, got %d", cfg.Inquiry.RateLimit)
	}

	return &cfg, nil
}
