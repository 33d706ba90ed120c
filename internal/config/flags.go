package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/blogkeeper/internal/flagx"
)

var knownFlags = []string{"-b", "-d", "-u", "-l", "-r"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-b string   storage backend
//	-d string   SQLite database path
//	-u string   blog API base URL
//	-l string   log level
//	-r int      retention in days
//
// args are filtered with flagx.FilterArgs first so the -c flag handled by
// parseFile does not trip the parser.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("blogkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "storage backend (memory, sqlite, postgres, s3)")
	fs.StringVar(&cfg.SQLitePath, "d", cfg.SQLitePath, "sqlite database path")
	fs.StringVar(&cfg.APIBaseURL, "u", cfg.APIBaseURL, "blog API base URL")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.IntVar(&cfg.RetentionDays, "r", cfg.RetentionDays, "days of history to keep")

	return fs.Parse(flagx.FilterArgs(args, knownFlags))
}
