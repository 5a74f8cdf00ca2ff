package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/ecoleta/internal/models"
	"github.com/desertthunder/ecoleta/internal/shared"
)

// GeoStates lists the Brazilian state codes.
func (r *Runner) GeoStates(ctx context.Context, cmd *cli.Command) error {
	config, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}

	states, err := r.geo(config).States(ctx)
	return r.writeOptions(cmd, "States", states, err)
}

// GeoCities lists the cities of the state given as the first argument.
func (r *Runner) GeoCities(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return fmt.Errorf("%w: uf", shared.ErrMissingArgument)
	}
	uf := cmd.Args().First()

	config, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}

	cities, err := r.geo(config).Cities(ctx, uf)
	return r.writeOptions(cmd, "Cities in "+uf, cities, err)
}

// writeOptions prints a location list. An unreachable directory degrades to an empty list.
func (r *Runner) writeOptions(cmd *cli.Command, title string, options []models.Option, err error) error {
	if errors.Is(err, shared.ErrUpstream) {
		r.logger.Warn("locality directory unavailable", "error", err)
		options = []models.Option{}
	} else if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(options, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s: %d", title, len(options)))
	for _, o := range options {
		r.writePlain("%s\n", o.Label)
	}
	return nil
}
