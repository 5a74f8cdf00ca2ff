package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/ecoleta/internal/models"
	"github.com/desertthunder/ecoleta/internal/registry"
	"github.com/desertthunder/ecoleta/internal/services"
	"github.com/desertthunder/ecoleta/internal/shared"
	"github.com/desertthunder/ecoleta/internal/ui"
)

// registryBrowser joins the registry and the locality directory for the TUI.
type registryBrowser struct {
	registry *registry.Registry
	geo      services.GeoService
}

func (b registryBrowser) States(ctx context.Context) ([]models.Option, error) {
	return b.geo.States(ctx)
}

func (b registryBrowser) Cities(ctx context.Context, uf string) ([]models.Option, error) {
	return b.geo.Cities(ctx, uf)
}

func (b registryBrowser) Items(ctx context.Context) ([]models.Item, error) {
	return b.registry.ListItems(ctx)
}

func (b registryBrowser) Points(ctx context.Context, filter models.PointFilter) ([]models.Point, error) {
	return b.registry.ListPoints(ctx, filter)
}

func (b registryBrowser) Point(ctx context.Context, id int64) (*models.PointDetail, error) {
	return b.registry.GetPoint(ctx, id)
}

// TUI launches the interactive collection point browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	uf, city := cmd.String("uf"), cmd.String("city")
	if city != "" && uf == "" {
		return fmt.Errorf("%w: --city requires --uf", shared.ErrInvalidFlag)
	}

	config, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/ecoleta-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	reg, _, db, err := r.openRegistry(config)
	if err != nil {
		return err
	}
	defer db.Close()

	model := ui.NewModel(ctx, registryBrowser{registry: reg, geo: r.geo(config)}, uf, city)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
