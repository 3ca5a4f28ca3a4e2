// Package app boots a configured server and owns process-level concerns.
package app

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/searchktools/pool-server/config"
	"github.com/searchktools/pool-server/core"
	"github.com/searchktools/pool-server/core/pools"
)

// App ties configuration to a server instance.
type App struct {
	cfg    *config.Config
	server *core.Server
}

// New creates an application instance: logger, GC profile, worker pool, and
// the static mount when one is configured. Setup failures are fatal here,
// before the server ever binds.
func New(cfg *config.Config) *App {
	setupLogger(cfg.Env)

	if cfg.Env == "production" {
		pools.OptimizeForHighThroughput()
	}

	server := core.New(cfg.Workers)

	if cfg.PublicDir != "" {
		if err := server.Public(cfg.PublicDir); err != nil {
			log.Fatal().Err(err).Str("dir", cfg.PublicDir).Msg("static mount failed")
		}
	}

	return &App{cfg: cfg, server: server}
}

// NewWithServer wires a pre-configured server instead of building one.
func NewWithServer(cfg *config.Config, server *core.Server) *App {
	setupLogger(cfg.Env)
	return &App{cfg: cfg, server: server}
}

// Server returns the underlying server for route registration.
func (a *App) Server() *core.Server {
	return a.server
}

// Run starts the application and blocks for the server's lifetime.
func (a *App) Run() {
	go a.awaitSignal()

	log.Info().Msgf("Starting on %s [%s], %d workers", a.cfg.Addr, a.cfg.Env, a.cfg.Workers)

	if err := a.server.Bind(a.cfg.Addr); err != nil {
		log.Fatal().Msgf("Server startup failed: %v", err)
	}
}

func setupLogger(env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func (a *App) awaitSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info().Msgf("Signal received: %v. Shutting down...", sig)

	// TODO: drain the worker pool before exiting.
	os.Exit(0)
}
