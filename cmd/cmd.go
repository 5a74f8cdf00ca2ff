// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the collection point HTTP API",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Listen address (host:port), overrides server.host and server.port",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the item catalog in a browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles database setup
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Database and configuration setup",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create config, run migrations and seed the item catalog",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupRollback,
			},
			{
				Name:   "status",
				Usage:  "Show applied and pending migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupStatus,
			},
		},
	}
}

// itemsCommand lists the item catalog
func itemsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "items",
		Usage:  "List collectible item categories",
		Flags:  append([]cli.Flag{configFlag()}, jsonFlags()...),
		Action: r.Items,
	}
}

// pointsCommand handles collection point operations
func pointsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "points",
		Aliases: []string{"p"},
		Usage:   "Collection point operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Find points accepting every given item",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "uf",
						Usage: "Two-letter state code",
					},
					&cli.StringFlag{
						Name:  "city",
						Usage: "City name",
					},
					&cli.StringFlag{
						Name:     "items",
						Aliases:  []string{"i"},
						Usage:    "Comma-separated item ids",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: json, csv, md, text",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the result to a file instead of stdout",
					},
				},
				Action: r.PointsList,
			},
			{
				Name:      "show",
				Usage:     "Show a point and its items",
				ArgsUsage: "<id>",
				Flags:     append([]cli.Flag{configFlag()}, jsonFlags()...),
				Action:    r.PointsShow,
			},
			{
				Name:  "create",
				Usage: "Register a collection point",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{Name: "name", Usage: "Point name", Required: true},
					&cli.StringFlag{Name: "email", Usage: "Contact email", Required: true},
					&cli.StringFlag{Name: "whatsapp", Usage: "Contact phone digits", Required: true},
					&cli.StringFlag{Name: "latitude", Aliases: []string{"lat"}, Usage: "Latitude in degrees", Required: true},
					&cli.StringFlag{Name: "longitude", Aliases: []string{"lng"}, Usage: "Longitude in degrees", Required: true},
					&cli.StringFlag{Name: "city", Usage: "City name", Required: true},
					&cli.StringFlag{Name: "uf", Usage: "Two-letter state code", Required: true},
					&cli.StringFlag{Name: "items", Aliases: []string{"i"}, Usage: "Comma-separated item ids", Required: true},
					&cli.StringFlag{Name: "image", Usage: "Path to an image of the point"},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.PointsCreate,
			},
		},
	}
}

// geoCommand queries the IBGE locality directory
func geoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "geo",
		Usage: "Brazilian states and cities",
		Commands: []*cli.Command{
			{
				Name:   "ufs",
				Usage:  "List state codes",
				Flags:  append([]cli.Flag{configFlag()}, jsonFlags()...),
				Action: r.GeoStates,
			},
			{
				Name:      "cities",
				Usage:     "List the cities of a state",
				ArgsUsage: "<uf>",
				Flags:     append([]cli.Flag{configFlag()}, jsonFlags()...),
				Action:    r.GeoCities,
			},
		},
	}
}

// tuiCommand launches the interactive browser
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse collection points interactively",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{Name: "uf", Usage: "Start with this state selected"},
			&cli.StringFlag{Name: "city", Usage: "Start with this city selected (requires --uf)"},
		},
		Action: r.TUI,
	}
}
