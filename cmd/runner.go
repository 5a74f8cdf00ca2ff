package main

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/ecoleta/internal/registry"
	"github.com/desertthunder/ecoleta/internal/repositories"
	"github.com/desertthunder/ecoleta/internal/services"
	"github.com/desertthunder/ecoleta/internal/shared"
	"github.com/desertthunder/ecoleta/internal/storage"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	configFixed bool
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A non-nil Config is used as-is unless a command is given an explicit --config.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client // nil lets the geo client build one from the configured timeout
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	fixed := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		configFixed: fixed,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:     "ecoleta",
		Usage:    "Register and find waste collection points",
		Version:  "1.0.0",
		Writer:   r.output,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, itemsCommand, pointsCommand, geoCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// resolveConfig loads the configuration for a command.
//
// An explicit --config must exist; the default path falls back to built-in defaults plus ECOLETA_* overrides.
func (r *Runner) resolveConfig(cmd *cli.Command) (*shared.Config, error) {
	explicit := cmd.IsSet("config")
	if r.configFixed && !explicit {
		return r.config, nil
	}

	path := cmd.String("config")
	if explicit {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}
	}

	config, err := shared.ResolveConfig(path)
	if err != nil {
		return nil, err
	}

	r.config = config
	r.configPath = path
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(config.Log.Level))
	return config, nil
}

// openRegistry opens the migrated database and builds the registry over it. Callers close the returned DB.
func (r *Runner) openRegistry(config *shared.Config) (*registry.Registry, storage.ImageStore, *sql.DB, error) {
	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	store, err := storage.New(config.Storage, config.Server.PublicURL)
	if err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("failed to open image store: %w", err)
	}

	reg := registry.New(
		repositories.NewItemRepository(db),
		repositories.NewPointRepository(db),
		store,
		shared.WithLogger(r.logger, "component", "registry"),
	)
	return reg, store, db, nil
}

func (r *Runner) geo(config *shared.Config) services.GeoService {
	return services.NewIBGEService(config.Geo, r.httpClient)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return err
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
