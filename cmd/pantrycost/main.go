// PantryCost prices recipes from grocery price sets.
//
// Usage:
//
//	pantrycost [--data FILE] [--verbose | --quiet]     interactive mode
//	pantrycost cost <recipe>                           print one recipe's cost
//	pantrycost export                                  print the saved document
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/hammamikhairi/pantrycost/internal/config"
	"github.com/hammamikhairi/pantrycost/internal/domain"
	"github.com/hammamikhairi/pantrycost/internal/engine"
	"github.com/hammamikhairi/pantrycost/internal/logger"
	"github.com/hammamikhairi/pantrycost/internal/persistence"
	"github.com/hammamikhairi/pantrycost/internal/store"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "pantrycost",
		Usage: "work out what your recipes cost from your grocery prices",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data", Usage: "state file (default from PANTRY_DATA_FILE)"},
			&cli.StringFlag{Name: "log-file", Usage: "file to write logs to, \"stderr\" for the console"},
			&cli.BoolFlag{Name: "verbose", Usage: "enable debug logging"},
			&cli.BoolFlag{Name: "quiet", Usage: "disable all logging"},
		},
		Action: runInteractive,
		Commands: []*cli.Command{
			{
				Name:      "cost",
				Usage:     "print the cost breakdown of a recipe",
				ArgsUsage: "<recipe>",
				Action:    runCost,
			},
			{
				Name:   "export",
				Usage:  "print the saved state as JSON",
				Action: runExport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// deps is everything the commands share.
type deps struct {
	cfg   *config.Config
	log   *logger.Logger
	hub   *store.Hub
	store *store.Store
	repo  *persistence.FileRepository
	eng   *engine.Engine
	close func()
}

func setup(c *cli.Context) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v := c.String("data"); v != "" {
		cfg.DataFile = v
	}
	if v := c.String("log-file"); v != "" {
		cfg.LogFile = v
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if c.Bool("verbose") {
		level = logger.LevelVerbose
	}
	if c.Bool("quiet") {
		level = logger.LevelOff
	}

	logOut, closeLog := openLogOutput(cfg.LogFile)
	log := logger.New(level, logOut)

	hub := store.NewHub()
	hub.Subscribe(func(ev domain.Event) {
		log.Debug("event: %s %+v", ev.Type(), ev)
	})

	opts := []store.Option{store.WithDispatcher(hub)}
	if !cfg.Seed {
		opts = append(opts, store.WithEmptyState())
	}
	st := store.New(log, opts...)

	return &deps{
		cfg:   cfg,
		log:   log,
		hub:   hub,
		store: st,
		repo:  persistence.NewFileRepository(cfg.DataFile, log),
		eng:   engine.New(st, log, engine.WithDefaultIcon(cfg.DefaultIcon)),
		close: closeLog,
	}, nil
}

// openLogOutput sends logs to a file by default so the terminal UI stays
// clean. It falls back to stderr when the file can't be opened.
func openLogOutput(path string) (io.Writer, func()) {
	if path == "" || path == "stderr" {
		return os.Stderr, func() {}
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr, func() {}
	}
	return f, func() { f.Close() }
}

func runCost(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("usage: pantrycost cost <recipe>", 2)
	}
	d, err := setup(c)
	if err != nil {
		return err
	}
	defer d.close()

	persistence.Restore(c.Context, d.repo, d.store, d.log)
	return printCost(c.Context, d, os.Stdout, c.Args().First())
}

func runExport(c *cli.Context) error {
	d, err := setup(c)
	if err != nil {
		return err
	}
	defer d.close()

	persistence.Restore(c.Context, d.repo, d.store, d.log)
	data, err := persistence.Encode(d.store.Snapshot())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}
