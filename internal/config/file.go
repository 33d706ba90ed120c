package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/blogkeeper/internal/flagx"
	"github.com/dmitrijs2005/blogkeeper/internal/timex"
)

// FileConfig is the on-disk shape of the configuration. Zero values mean
// "not set" and keep whatever the previous stage produced.
type FileConfig struct {
	Backend     string `json:"backend" yaml:"backend"`
	SQLitePath  string `json:"sqlite_path" yaml:"sqlite_path"`
	PostgresDSN string `json:"postgres_dsn" yaml:"postgres_dsn"`
	S3          struct {
		Bucket    string `json:"bucket" yaml:"bucket"`
		Region    string `json:"region" yaml:"region"`
		Endpoint  string `json:"endpoint" yaml:"endpoint"`
		AccessKey string `json:"access_key" yaml:"access_key"`
		SecretKey string `json:"secret_key" yaml:"secret_key"`
		Prefix    string `json:"prefix" yaml:"prefix"`
	} `json:"s3" yaml:"s3"`
	APIBaseURL     string         `json:"api_base_url" yaml:"api_base_url"`
	HTTPTimeout    timex.Duration `json:"http_timeout" yaml:"http_timeout"`
	LogLevel       string         `json:"log_level" yaml:"log_level"`
	LogFormat      string         `json:"log_format" yaml:"log_format"`
	RetentionDays  int            `json:"retention_days" yaml:"retention_days"`
	MinReadingTime timex.Duration `json:"min_reading_time" yaml:"min_reading_time"`
}

// parseFile overlays cfg with the file named by -c / -config, if any.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.Backend, fc.Backend)
	setString(&cfg.SQLitePath, fc.SQLitePath)
	setString(&cfg.PostgresDSN, fc.PostgresDSN)
	setString(&cfg.S3.Bucket, fc.S3.Bucket)
	setString(&cfg.S3.Region, fc.S3.Region)
	setString(&cfg.S3.Endpoint, fc.S3.Endpoint)
	setString(&cfg.S3.AccessKey, fc.S3.AccessKey)
	setString(&cfg.S3.SecretKey, fc.S3.SecretKey)
	setString(&cfg.S3.Prefix, fc.S3.Prefix)
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)

	if fc.HTTPTimeout.Duration > 0 {
		cfg.HTTPTimeout = fc.HTTPTimeout.Duration
	}
	if fc.RetentionDays > 0 {
		cfg.RetentionDays = fc.RetentionDays
	}
	if fc.MinReadingTime.Duration > 0 {
		cfg.MinReadingTime = fc.MinReadingTime.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
