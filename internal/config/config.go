package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

type S3Config struct {
	Bucket    string `env:"BUCKET"`
	Region    string `env:"REGION"`
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Prefix    string `env:"PREFIX"`
}

// Config holds runtime settings for the blogkeeper CLI.
type Config struct {
	Backend     string   `env:"BLOGKEEPER_BACKEND"`
	SQLitePath  string   `env:"BLOGKEEPER_SQLITE_PATH"`
	PostgresDSN string   `env:"BLOGKEEPER_POSTGRES_DSN"`
	S3          S3Config `envPrefix:"BLOGKEEPER_S3_"`

	APIBaseURL  string        `env:"BLOGKEEPER_API_BASE_URL"`
	HTTPTimeout time.Duration `env:"BLOGKEEPER_HTTP_TIMEOUT"`

	LogLevel  string `env:"BLOGKEEPER_LOG_LEVEL"`
	LogFormat string `env:"BLOGKEEPER_LOG_FORMAT"`

	// RetentionDays bounds how long history and encounter records are kept.
	RetentionDays int `env:"BLOGKEEPER_RETENTION_DAYS"`
	// MinReadingTime is the shortest visit that is recorded in history.
	MinReadingTime time.Duration `env:"BLOGKEEPER_MIN_READING_TIME"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Backend = BackendSQLite
	c.SQLitePath = defaultSQLitePath()
	c.APIBaseURL = "http://localhost:3000/api/miniprogram"
	c.HTTPTimeout = 15 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.RetentionDays = 90
	c.MinReadingTime = 5 * time.Second
}

func defaultSQLitePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "blogkeeper.db"
	}
	return filepath.Join(dir, "blogkeeper", "blogkeeper.db")
}

// LoadConfig constructs a Config from defaults, the config file, the
// environment and finally command-line flags. Later sources take precedence.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
