package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/ecoleta/internal/formatter"
	"github.com/desertthunder/ecoleta/internal/models"
	"github.com/desertthunder/ecoleta/internal/registry"
	"github.com/desertthunder/ecoleta/internal/shared"
)

// Items lists the item catalog.
func (r *Runner) Items(ctx context.Context, cmd *cli.Command) error {
	config, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}

	reg, _, db, err := r.openRegistry(config)
	if err != nil {
		return err
	}
	defer db.Close()

	items, err := reg.ListItems(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Items: %d", len(items)))
	for _, item := range items {
		r.writePlain("%d. %s\n", item.ID, item.Title)
	}
	return nil
}

// PointsList prints or exports the points in a location accepting every given item.
func (r *Runner) PointsList(ctx context.Context, cmd *cli.Command) error {
	ids, err := models.ParseItemIDs(cmd.String("items"))
	if err != nil {
		return fmt.Errorf("%w: --items: %v", shared.ErrInvalidFlag, err)
	}

	config, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}

	reg, _, db, err := r.openRegistry(config)
	if err != nil {
		return err
	}
	defer db.Close()

	filter := models.PointFilter{
		UF:      cmd.String("uf"),
		City:    cmd.String("city"),
		ItemIDs: ids,
	}
	points, err := reg.ListPoints(ctx, filter)
	if err != nil {
		return err
	}

	format := cmd.String("format")
	if out := cmd.String("output"); out != "" {
		if err := formatter.WriteExport(out, format, points, filter); err != nil {
			return err
		}
		r.logger.Info("exported points", "path", out, "count", len(points))
		return nil
	}

	data, err := formatter.Render(format, points, filter)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		return r.writePlain("\n")
	}
	return nil
}

// PointsShow prints a point and the titles of its items.
func (r *Runner) PointsShow(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return fmt.Errorf("%w: point id", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(cmd.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: point id %q", shared.ErrInvalidArgument, cmd.Args().First())
	}

	config, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}

	reg, _, db, err := r.openRegistry(config)
	if err != nil {
		return err
	}
	defer db.Close()

	detail, err := reg.GetPoint(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(detail, cmd.Bool("pretty"))
	}

	text, err := formatter.PointDetailToText(detail)
	if err != nil {
		return err
	}
	_, err = r.output.Write(text)
	return err
}

// PointsCreate registers a point from flags, optionally uploading an image file.
func (r *Runner) PointsCreate(ctx context.Context, cmd *cli.Command) error {
	config, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}

	in := models.PointInput{
		Name:      cmd.String("name"),
		Email:     cmd.String("email"),
		Whatsapp:  cmd.String("whatsapp"),
		Latitude:  cmd.String("latitude"),
		Longitude: cmd.String("longitude"),
		City:      cmd.String("city"),
		UF:        cmd.String("uf"),
		Items:     cmd.String("items"),
	}

	var img *registry.Image
	if path := cmd.String("image"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("%w: image: %v", shared.ErrInvalidFlag, err)
		}
		defer f.Close()

		img = &registry.Image{
			Filename:    filepath.Base(path),
			ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
			Body:        f,
		}
	}

	reg, _, db, err := r.openRegistry(config)
	if err != nil {
		return err
	}
	defer db.Close()

	point, err := reg.CreatePoint(ctx, in, img)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(point, true)
	}
	return r.writePlain("✓ Created point %d: %s (%s/%s)\n", point.ID, point.Name, point.City, point.UF)
}
