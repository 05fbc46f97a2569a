package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/authflow"
	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Dependencies left nil are built from the loaded config before any command runs.
type Runner struct {
	config  *shared.Config
	api     *services.APIService
	auth    *authflow.Controller
	catalog services.Catalog
	db      *sql.DB
	ownsDB  bool
	logger  *log.Logger
	output  io.Writer
	browser func(url string) error

	// injected configs are only replaced by an explicit --config
	injected bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	API     *services.APIService
	Auth    *authflow.Controller
	Catalog services.Catalog
	DB      *sql.DB
	Logger  *log.Logger
	Output  io.Writer
	Browser func(url string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	injected := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Browser == nil {
		opts.Browser = shared.OpenBrowser
	}

	return &Runner{
		config:   opts.Config,
		api:      opts.API,
		auth:     opts.Auth,
		catalog:  opts.Catalog,
		db:       opts.DB,
		logger:   opts.Logger,
		output:   opts.Output,
		browser:  opts.Browser,
		injected: injected,
	}
}

// configure loads the config named by --config, applies flag overrides and builds missing services.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if !r.injected || cmd.IsSet("config") {
		load := shared.LoadConfigOrDefault
		if cmd.IsSet("config") {
			load = shared.LoadConfig
		}
		config, err := load(cmd.String("config"))
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	if cmd.IsSet("api-url") {
		r.config.Backend.URL = cmd.String("api-url")
	}

	level := r.config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	if err := shared.SetLogLevelString(r.logger, level); err != nil {
		return ctx, err
	}

	if err := r.config.Validate(); err != nil {
		return ctx, err
	}

	if r.api == nil {
		r.api = services.NewAPIServiceFromConfig(r.config.Backend)
	}
	if r.auth == nil {
		r.auth = authflow.NewController(services.NewAuthService(r.api), r.logger, r.config.Server.LandingPath)
	}
	if r.catalog == nil {
		r.catalog = services.NewSongService(r.api)
	}

	r.logger.Debug("configured", "backend", r.config.Backend.URL)
	return ctx, nil
}

// close releases the cache database when the runner opened it.
func (r *Runner) close(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil || !r.ownsDB {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.ownsDB = false
	return err
}

// cache returns the cache database, opening it on first use.
func (r *Runner) cache() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenCache(r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db = db
	r.ownsDB = true
	return db, nil
}

// optionalCache is [Runner.cache] for commands where caching is a side effect.
//
// It returns nil when caching is disabled or unavailable.
func (r *Runner) optionalCache() *sql.DB {
	db, err := r.cache()
	switch {
	case errors.Is(err, shared.ErrNoDatabase):
		r.logger.Debug("cache disabled")
		return nil
	case err != nil:
		r.logger.Warn("cache unavailable", "error", err)
		return nil
	}
	return db
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
