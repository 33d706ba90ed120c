// Package config loads runtime configuration for the blogkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. Environment variables prefixed with BLOGKEEPER_.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-b string   storage backend: memory, sqlite, postgres or s3
//	-d string   SQLite database path
//	-u string   blog API base URL
//	-l string   log level
//
// # File schema
//
// Durations use timex.Duration, so they may be strings like "15s" or
// integer nanoseconds:
//
//	backend: sqlite
//	sqlite_path: ~/.blogkeeper/blogkeeper.db
//	api_base_url: https://blog.example.com/api/miniprogram
//	http_timeout: 15s
//	retention_days: 90
//	min_reading_time: 5s
//	s3:
//	  bucket: my-bucket
//	  prefix: blogkeeper/
package config
