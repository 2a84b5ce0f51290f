package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all the configuration for the application.
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"production"`
	HTTPServer `yaml:"http_server"`
	Database   `yaml:"database"`
	Tracking   `yaml:"tracking"`
}

// HTTPServer holds HTTP listener configuration.
type HTTPServer struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":5000"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

// Database holds connection settings for the relational store.
type Database struct {
	Driver          string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"` // postgres | sqlite
	Host            string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password        string `yaml:"password" env:"DB_PASSWORD"`
	DBName          string `yaml:"dbname" env:"DB_NAME" env-default:"equisplit"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	Timezone        string `yaml:"timezone" env:"DB_TIMEZONE" env-default:"UTC"`
	SQLitePath      string `yaml:"sqlite_path" env:"DB_SQLITE_PATH" env-default:"equisplit.db"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"20"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	AutoMigrate     bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
}

// Tracking holds ingestion and reporting settings.
type Tracking struct {
	APIPrefix          string        `yaml:"api_prefix" env:"TRACKING_API_PREFIX" env-default:"/api/"`
	SessionHeader      string        `yaml:"session_header" env:"TRACKING_SESSION_HEADER" env-default:"X-Session-ID"`
	DefaultWindowDays  int           `yaml:"default_window_days" env:"TRACKING_DEFAULT_WINDOW_DAYS" env-default:"30"`
	DefaultLimit       int           `yaml:"default_limit" env:"TRACKING_DEFAULT_LIMIT" env-default:"10"`
	ActiveWindow       time.Duration `yaml:"active_window" env:"TRACKING_ACTIVE_WINDOW" env-default:"5m"`
	RecentEventsWindow time.Duration `yaml:"recent_events_window" env:"TRACKING_RECENT_EVENTS_WINDOW" env-default:"1h"`
	RecentEventsLimit  int           `yaml:"recent_events_limit" env:"TRACKING_RECENT_EVENTS_LIMIT" env-default:"5"`
	UARegexesPath      string        `yaml:"ua_regexes_path" env:"TRACKING_UA_REGEXES_PATH"`

	// Async page-view processing
	AsyncPageViews  bool          `yaml:"async_page_views" env:"TRACKING_ASYNC_PAGE_VIEWS" env-default:"false"`
	Workers         int           `yaml:"workers" env:"TRACKING_WORKERS" env-default:"3"`
	BufferSize      int           `yaml:"buffer_size" env:"TRACKING_BUFFER_SIZE" env-default:"1000"`
	JobTimeout      time.Duration `yaml:"job_timeout" env:"TRACKING_JOB_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"TRACKING_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

// Load reads the configuration from CONFIG_PATH (if the file exists) or from the environment.
func Load() (*Config, error) {
	// Try to load .env file (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/local.yml" // default path
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config %s: %w", configPath, err)
		}
	} else {
		log.Println("Config file not found, using environment variables only")
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad loads the application configuration or exits.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot load config: %s", err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Tracking.DefaultWindowDays <= 0 {
		return fmt.Errorf("tracking.default_window_days must be positive, got %d", c.Tracking.DefaultWindowDays)
	}
	if c.Tracking.DefaultLimit <= 0 {
		return fmt.Errorf("tracking.default_limit must be positive, got %d", c.Tracking.DefaultLimit)
	}
	if c.Tracking.SessionHeader == "" {
		return fmt.Errorf("tracking.session_header must not be empty")
	}
	return nil
}
