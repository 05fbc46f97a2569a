package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/mixtape/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the login, callback and landing pages until interrupted.
//
// The server shares the runner's backend session, so it serves one user.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, r.auth, r.logger, server.Options{})
	ln, err := srv.Listen()
	if err != nil {
		return err
	}

	landing := "http://" + ln.Addr().String() + r.auth.Landing()
	r.writePlain("Serving on %s (ctrl+c to stop)\n", landing)
	if cmd.Bool("open") {
		if err := r.browser(landing); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	return srv.Serve(ctx, ln)
}
