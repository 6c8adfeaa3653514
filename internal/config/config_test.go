package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "mongo:\n  database: diner\n"))
	require.NoError(t, err)

	assert.Equal(t, "diner", cfg.Mongo.Database)
	assert.Equal(t, "UTC", cfg.Reports.Timezone)
	assert.Equal(t, 64, cfg.Notifications.QueueDepth)
	assert.Equal(t, 5*time.Second, cfg.Notifications.LowStockTimeout)
	assert.Equal(t, "notifications_fanout", cfg.RabbitMQ.Exchange)
	assert.Equal(t, "notifications.q", cfg.RabbitMQ.Queue)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.RabbitMQ.Enabled())
	assert.False(t, cfg.Notifications.WatchOrders)
}

func TestLoadConfig_FileValues(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  port: 6432
  user: restaurant
  database: audit
rabbitmq:
  host: broker
email:
  sender: kitchen@example.com
  timeout: 3s
reports:
  timezone: Asia/Almaty
notifications:
  watch_orders: true
  queue_depth: 8
  low_stock_timeout: 2s
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.True(t, cfg.RabbitMQ.Enabled())
	assert.Equal(t, 5672, cfg.RabbitMQ.Port)
	assert.Equal(t, 3*time.Second, cfg.Email.Timeout)
	assert.Equal(t, "Asia/Almaty", cfg.Reports.Timezone)
	assert.True(t, cfg.Notifications.WatchOrders)
	assert.Equal(t, 8, cfg.Notifications.QueueDepth)
	assert.Equal(t, 2*time.Second, cfg.Notifications.LowStockTimeout)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://replica:27017")
	t.Setenv("BREVO_API_KEY", "xkeysib-test")
	t.Setenv("EMAIL_USER", "alerts@example.com")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := LoadConfig(writeConfig(t, "email:\n  sender: file@example.com\n"))
	require.NoError(t, err)

	assert.Equal(t, "mongodb://replica:27017", cfg.Mongo.URI)
	assert.Equal(t, "xkeysib-test", cfg.Email.APIKey)
	assert.Equal(t, "alerts@example.com", cfg.Email.Sender)
	assert.Equal(t, "secret", cfg.Database.Password)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown timezone", "reports:\n  timezone: Mars/Olympus\n"},
		{"local timezone", "reports:\n  timezone: Local\n"},
		{"negative queue depth", "notifications:\n  queue_depth: -1\n"},
		{"negative parallelism", "notifications:\n  max_parallel: -2\n"},
		{"database without name", "database:\n  host: localhost\n"},
		{"malformed yaml", "mongo: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
