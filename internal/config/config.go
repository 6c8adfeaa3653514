package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config хранит все параметры приложения
type Config struct {
	Mongo         MongoConfig         `yaml:"mongo"`
	Database      DatabaseConfig      `yaml:"database"`
	RabbitMQ      RabbitMQConfig      `yaml:"rabbitmq"`
	Email         EmailConfig         `yaml:"email"`
	HTTP          HTTPConfig          `yaml:"http"`
	Log           LogConfig           `yaml:"log"`
	Reports       ReportsConfig       `yaml:"reports"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// DatabaseConfig describes the Postgres delivery log. Empty Host disables it.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

// RabbitMQConfig describes the notification fan-out broker. Empty Host disables it.
type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
	UseTLS   bool   `yaml:"tls"`
	Exchange string `yaml:"exchange"`
	Queue    string `yaml:"queue"`
}

func (c RabbitMQConfig) Enabled() bool { return c.Host != "" }

type EmailConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Sender  string        `yaml:"sender"`
	Timeout time.Duration `yaml:"timeout"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type ReportsConfig struct {
	// Timezone is an IANA name used for report windows and day grouping.
	Timezone string `yaml:"timezone"`
}

type NotificationsConfig struct {
	WatchOrders     bool          `yaml:"watch_orders"`
	WatchTables     bool          `yaml:"watch_tables"`
	QueueDepth      int           `yaml:"queue_depth"`
	LowStockTimeout time.Duration `yaml:"low_stock_timeout"`
	MaxParallel     int           `yaml:"max_parallel"`
}

// LoadConfig reads .env (if present), the YAML file at path (if non-empty),
// applies defaults and environment overrides, then validates.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Mongo.URI, "mongodb://localhost:27017/?directConnection=true")
	setDefault(&c.Mongo.Database, "restaurant")
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.RabbitMQ.Port == 0 {
		c.RabbitMQ.Port = 5672
	}
	setDefault(&c.RabbitMQ.VHost, "/")
	setDefault(&c.RabbitMQ.Exchange, "notifications_fanout")
	setDefault(&c.RabbitMQ.Queue, "notifications.q")
	setDefault(&c.Email.BaseURL, "https://api.brevo.com")
	if c.Email.Timeout == 0 {
		c.Email.Timeout = 10 * time.Second
	}
	setDefault(&c.HTTP.Addr, ":3000")
	setDefault(&c.Log.Level, "info")
	setDefault(&c.Reports.Timezone, "UTC")
	if c.Notifications.QueueDepth == 0 {
		c.Notifications.QueueDepth = 64
	}
	if c.Notifications.LowStockTimeout == 0 {
		c.Notifications.LowStockTimeout = 5 * time.Second
	}
}

func (c *Config) applyEnv() {
	overrideFromEnv(&c.Mongo.URI, "MONGO_URI")
	overrideFromEnv(&c.Email.APIKey, "BREVO_API_KEY")
	overrideFromEnv(&c.Email.Sender, "EMAIL_USER")
	overrideFromEnv(&c.Database.Password, "DB_PASSWORD")
	overrideFromEnv(&c.RabbitMQ.Password, "RABBITMQ_PASSWORD")
}

func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Reports.Timezone); err != nil || c.Reports.Timezone == "Local" {
		return fmt.Errorf("reports.timezone %q is not an IANA zone name", c.Reports.Timezone)
	}
	if c.Notifications.QueueDepth < 1 {
		return fmt.Errorf("notifications.queue_depth must be positive, got %d", c.Notifications.QueueDepth)
	}
	if c.Notifications.MaxParallel < 0 {
		return fmt.Errorf("notifications.max_parallel must not be negative, got %d", c.Notifications.MaxParallel)
	}
	if c.Database.Enabled() && c.Database.Database == "" {
		return errors.New("database.database is required when database.host is set")
	}
	return nil
}

func setDefault(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

func overrideFromEnv(v *string, key string) {
	if s, ok := os.LookupEnv(key); ok && s != "" {
		*v = s
	}
}
