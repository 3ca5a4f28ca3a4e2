// Package config loads application settings from flags and environment.
package config

import (
	"flag"
	"os"
	"runtime"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Addr      string
	Workers   int
	PublicDir string
	Env       string
}

// New loads configuration from flags, then lets environment variables
// override: ADDR, WORKERS, PUBLIC_DIR, APP_ENV.
func New() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.Addr, "addr", ":8080", "listen address")
	flag.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "worker pool size")
	flag.StringVar(&cfg.PublicDir, "public", "", "directory of static files to mount at /")
	flag.StringVar(&cfg.Env, "env", "development", "environment (development/production)")

	flag.Parse()

	cfg.applyEnv()
	return cfg
}

// applyEnv overrides the flag values from the environment. Empty variables
// are ignored, as are worker counts that do not parse to a positive integer.
func (c *Config) applyEnv() {
	if addr := os.Getenv("ADDR"); addr != "" {
		c.Addr = addr
	}
	if workers := os.Getenv("WORKERS"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil && n > 0 {
			c.Workers = n
		}
	}
	if dir := os.Getenv("PUBLIC_DIR"); dir != "" {
		c.PublicDir = dir
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		c.Env = env
	}
}
