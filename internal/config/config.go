package config

import (
	e "apptreminder/internal/core/domain/errors"
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v6"
)

const (
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageSqlite   = "sqlite"
)

const (
	BackendRabbitmq = "rabbitmq"
	BackendLocal    = "local"
)

const (
	DelivererSSE      = "sse"
	DelivererDbus     = "dbus"
	DelivererTelegram = "telegram"
	DelivererEmail    = "email"
)

type Config struct {
	IsTestMode     bool   `env:"TEST_MODE" envDefault:"false"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`

	HTTPAddr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	EventsAddr          string        `env:"EVENTS_ADDR" envDefault:":8081"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CorsAllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	APITokenHash        string        `env:"API_TOKEN_HASH"`
	Timezone            string        `env:"TIMEZONE" envDefault:"UTC"`

	Storage       string `env:"STORAGE" envDefault:"sqlite"`
	PostgresqlURL string `env:"POSTGRESQL_URL"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	SqlitePath    string `env:"SQLITE_PATH" envDefault:"apptreminder.db"`
	RedisURL      string `env:"REDIS_URL"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"apptreminder:"`

	NotificationBackend       string `env:"NOTIFICATION_BACKEND" envDefault:"local"`
	RabbitmqURL               string `env:"RABBITMQ_URL"`
	RabbitmqDelayedExchange   string `env:"RABBITMQ_DELAYED_EXCHANGE" envDefault:"delayed"`
	RabbitmqNotificationQueue string `env:"RABBITMQ_NOTIFICATION_QUEUE" envDefault:"notification_due"`

	DisplayShowAlert  bool `env:"DISPLAY_SHOW_ALERT" envDefault:"true"`
	DisplayPlaySound  bool `env:"DISPLAY_PLAY_SOUND" envDefault:"true"`
	DisplaySetBadge   bool `env:"DISPLAY_SET_BADGE" envDefault:"false"`
	DisplayShowBanner bool `env:"DISPLAY_SHOW_BANNER" envDefault:"true"`
	DisplayShowList   bool `env:"DISPLAY_SHOW_LIST" envDefault:"true"`

	Deliverers     []string `env:"DELIVERERS" envSeparator:"," envDefault:"sse"`
	DbusAppName    string   `env:"DBUS_APP_NAME" envDefault:"apptreminder"`
	TelegramToken  string   `env:"TELEGRAM_TOKEN"`
	TelegramChatID int64    `env:"TELEGRAM_CHAT_ID"`
	AwsRegion      string   `env:"AWS_REGION" envDefault:"eu-central-1"`
	AwsAccessKey   string   `env:"AWS_ACCESS_KEY"`
	AwsSecretKey   string   `env:"AWS_SECRET_KEY"`
	EmailSender    string   `env:"EMAIL_SENDER"`
	EmailRecipient string   `env:"EMAIL_RECIPIENT"`
}

func Load() (*Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg, opts); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location returns the timezone appointment times without an offset are
// interpreted in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// HasDeliverer reports whether the named deliverer is enabled.
func (c *Config) HasDeliverer(name string) bool {
	for _, d := range c.Deliverers {
		if d == name {
			return true
		}
	}
	return false
}

func (c *Config) validate() error {
	var errs []error

	switch c.Storage {
	case StorageRedis:
		if c.RedisURL == "" {
			errs = append(errs, fmt.Errorf("REDIS_URL must be set for %s storage", c.Storage))
		}
	case StoragePostgres:
		if c.PostgresqlURL == "" {
			errs = append(errs, fmt.Errorf("POSTGRESQL_URL must be set for %s storage", c.Storage))
		}
	case StorageSqlite:
		if c.SqlitePath == "" {
			errs = append(errs, fmt.Errorf("SQLITE_PATH must be set for %s storage", c.Storage))
		}
	default:
		errs = append(errs, e.NewUnknownKindError("STORAGE", c.Storage))
	}

	switch c.NotificationBackend {
	case BackendRabbitmq:
		if c.RabbitmqURL == "" {
			errs = append(errs, errors.New("RABBITMQ_URL must be set for rabbitmq backend"))
		}
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL must be set for rabbitmq backend"))
		}
	case BackendLocal:
	default:
		errs = append(errs, e.NewUnknownKindError("NOTIFICATION_BACKEND", c.NotificationBackend))
	}

	for _, d := range c.Deliverers {
		switch d {
		case DelivererSSE, DelivererDbus:
		case DelivererTelegram:
			if c.TelegramToken == "" || c.TelegramChatID == 0 {
				errs = append(errs, errors.New("TELEGRAM_TOKEN and TELEGRAM_CHAT_ID must be set for telegram deliverer"))
			}
		case DelivererEmail:
			if c.EmailSender == "" || c.EmailRecipient == "" {
				errs = append(errs, errors.New("EMAIL_SENDER and EMAIL_RECIPIENT must be set for email deliverer"))
			}
		default:
			errs = append(errs, e.NewUnknownKindError("DELIVERERS", d))
		}
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid TIMEZONE value: %w", err))
	}

	if !c.IsTestMode && c.APITokenHash == "" {
		errs = append(errs, errors.New("API_TOKEN_HASH must be set"))
	}

	return errors.Join(errs...)
}
