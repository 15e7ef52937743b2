package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFrom(environment map[string]string) (*Config, error) {
	return load(env.Options{Environment: environment})
}

func TestDefaults(t *testing.T) {
	cfg, err := loadFrom(map[string]string{"API_TOKEN_HASH": "hash"})

	require.Nil(t, err)
	assert.Equal(t, StorageSqlite, cfg.Storage)
	assert.Equal(t, BackendLocal, cfg.NotificationBackend)
	assert.Equal(t, []string{DelivererSSE}, cfg.Deliverers)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.HTTPShutdownTimeout)
	assert.True(t, cfg.DisplayShowAlert)
	assert.True(t, cfg.DisplayPlaySound)
	assert.False(t, cfg.DisplaySetBadge)
	assert.True(t, cfg.DisplayShowBanner)
	assert.True(t, cfg.DisplayShowList)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.True(t, cfg.HasDeliverer(DelivererSSE))
	assert.False(t, cfg.HasDeliverer(DelivererDbus))
}

func TestRabbitmqBackend(t *testing.T) {
	cfg, err := loadFrom(map[string]string{
		"API_TOKEN_HASH":       "hash",
		"STORAGE":              "postgres",
		"POSTGRESQL_URL":       "postgres://localhost/db",
		"NOTIFICATION_BACKEND": "rabbitmq",
		"RABBITMQ_URL":         "amqp://localhost",
		"REDIS_URL":            "redis://localhost",
		"DELIVERERS":           "sse,dbus",
		"TIMEZONE":             "Europe/Berlin",
	})

	require.Nil(t, err)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, []string{DelivererSSE, DelivererDbus}, cfg.Deliverers)
	assert.Equal(t, "Europe/Berlin", cfg.Location().String())
}

func TestInvalid(t *testing.T) {
	cases := []struct {
		id          string
		environment map[string]string
		message     string
	}{
		{
			id:          "unknown storage",
			environment: map[string]string{"API_TOKEN_HASH": "hash", "STORAGE": "mongo"},
			message:     "unknown STORAGE 'mongo'",
		},
		{
			id:          "unknown backend",
			environment: map[string]string{"API_TOKEN_HASH": "hash", "NOTIFICATION_BACKEND": "fcm"},
			message:     "unknown NOTIFICATION_BACKEND 'fcm'",
		},
		{
			id:          "redis without url",
			environment: map[string]string{"API_TOKEN_HASH": "hash", "STORAGE": "redis"},
			message:     "REDIS_URL must be set for redis storage",
		},
		{
			id:          "rabbitmq without url",
			environment: map[string]string{"API_TOKEN_HASH": "hash", "NOTIFICATION_BACKEND": "rabbitmq", "REDIS_URL": "redis://localhost"},
			message:     "RABBITMQ_URL must be set for rabbitmq backend",
		},
		{
			id:          "telegram without token",
			environment: map[string]string{"API_TOKEN_HASH": "hash", "DELIVERERS": "telegram"},
			message:     "TELEGRAM_TOKEN and TELEGRAM_CHAT_ID must be set for telegram deliverer",
		},
		{
			id:          "unknown deliverer",
			environment: map[string]string{"API_TOKEN_HASH": "hash", "DELIVERERS": "pager"},
			message:     "unknown DELIVERERS 'pager'",
		},
		{
			id:          "missing token hash",
			environment: map[string]string{},
			message:     "API_TOKEN_HASH must be set",
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			_, err := loadFrom(testcase.environment)
			assert.EqualError(t, err, testcase.message)
		})
	}
}

func TestTestModeAllowsMissingTokenHash(t *testing.T) {
	_, err := loadFrom(map[string]string{"TEST_MODE": "true"})
	assert.Nil(t, err)
}
