package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/ecoleta/internal/server"
	"github.com/desertthunder/ecoleta/internal/shared"
	"github.com/desertthunder/ecoleta/internal/storage"
)

// Serve runs the HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}

	if addr := cmd.String("addr"); addr != "" {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return fmt.Errorf("%w: addr %q: %v", shared.ErrInvalidFlag, addr, err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("%w: port %q", shared.ErrInvalidFlag, port)
		}
		config.Server.Host, config.Server.Port = host, p
	}

	if err := config.Validate(); err != nil {
		return err
	}

	reg, store, db, err := r.openRegistry(config)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := server.Options{
		Config:   config.Server,
		Registry: reg,
		Geo:      r.geo(config),
		DB:       db,
		Logger:   shared.WithLogger(r.logger, "component", "http"),
	}
	if disk, ok := store.(*storage.DiskStore); ok {
		opts.UploadsDir = disk.Dir()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd.Bool("open") {
		go func() {
			time.Sleep(250 * time.Millisecond)
			if err := shared.OpenBrowser(config.Server.PublicURL + "/items"); err != nil {
				r.logger.Warn("failed to open browser", "error", err)
			}
		}()
	}

	r.logger.Info("starting server", "addr", config.Server.Addr(), "storage", config.Storage.Driver)
	return server.New(opts).Run(ctx)
}
