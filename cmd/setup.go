package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the default config to --output, or to the --config
// default when no output is given.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if path == "" {
		path = cmd.String("config")
	}
	if path == "" {
		return fmt.Errorf("%w: --output", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Wrote %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Point backend.url at the playlist API\n")
	r.writePlain("2. Register http://%s/callback as the Spotify redirect URI on the backend\n", r.config.Server.Addr())
	r.writePlain("3. Run 'mixtape export <track-id>' or 'mixtape tui', which sign in as needed\n")
	return nil
}

// SetupDatabase initializes the cache database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := r.cache()
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	pending, err := shared.PendingMigrations(db)
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		return fmt.Errorf("migrations still pending: %v", pending)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("✓ Cache ready at %s\n", r.config.Database.Path)
}
