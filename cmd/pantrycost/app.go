package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/pantrycost/internal/command"
	"github.com/hammamikhairi/pantrycost/internal/display"
	"github.com/hammamikhairi/pantrycost/internal/domain"
	"github.com/hammamikhairi/pantrycost/internal/persistence"
)

func runInteractive(c *cli.Context) error {
	d, err := setup(c)
	if err != nil {
		return err
	}
	defer d.close()

	// Cancelled on Ctrl-C, SIGTERM, or when the UI quits.
	sigCtx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	var (
		handler *command.Handler
		saver   *persistence.Autosaver
	)

	ui := display.NewUI(func() display.Status {
		return statusOf(d, handler, saver)
	})
	notifier := command.NewPrinterNotifier(d.log, ui)
	saver = persistence.NewAutosaver(d.store, d.repo, d.log,
		persistence.WithInterval(d.cfg.AutosaveInterval),
		persistence.WithNotifier(notifier),
	)
	handler = command.NewHandler(d.eng, ui, d.log, command.WithSaver(saver))
	parser := command.NewKeywordParser(d.log)

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	g, gctx := errgroup.WithContext(ctx)

	// Loading runs beside the UI so the prompt appears at once. Anything it
	// prints waits for the event loop.
	g.Go(func() error {
		ui.WaitReady()
		if persistence.Restore(gctx, d.repo, d.store, d.log) {
			ui.PrintHint(fmt.Sprintf("Loaded %s.", d.repo.Path()))
		}
		if d.cfg.AutosaveInterval > 0 {
			saver.Start(gctx)
		}
		return nil
	})

	g.Go(func() error {
		ui.WaitReady()
		defer ui.Quit()
		return loop(gctx, parser, handler, ui)
	})

	// Bubble Tea owns the terminal and blocks until quit.
	if err := ui.Run(); err != nil {
		d.log.Error("display: %v", err)
	}
	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		d.log.Error("session: %v", err)
	}
	saver.Stop()

	if err := saver.Flush(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "could not save %s: %v\n", d.repo.Path(), err)
		return cli.Exit("", 1)
	}
	return nil
}

// loop reads input lines until the user quits or ctx ends.
func loop(ctx context.Context, parser domain.CommandParser, handler *command.Handler, ui *display.UI) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ui.QuitChan():
			return nil
		case line, ok := <-ui.InputChan():
			if !ok {
				return nil
			}
			cmd, err := parser.Parse(ctx, line)
			if err != nil {
				ui.PrintUrgent(err.Error())
				continue
			}
			if err := handler.Execute(ctx, cmd); err != nil {
				if errors.Is(err, command.ErrQuit) {
					return nil
				}
				ui.PrintUrgent(err.Error())
			}
		}
	}
}

// statusOf assembles the status bar. The handler and saver are nil until
// wiring finishes.
func statusOf(d *deps, handler *command.Handler, saver *persistence.Autosaver) display.Status {
	s := display.Status{
		Products:  len(d.store.Products()),
		PriceSets: len(d.store.PriceSets()),
		Recipes:   len(d.store.Recipes()),
	}
	if cur := d.store.CurrentCurrency(); cur != nil {
		s.Currency = cur.String()
	}
	if handler != nil {
		f := handler.Focus()
		if f.PriceSet != "" {
			if ps, err := d.store.PriceSet(f.PriceSet); err == nil {
				s.OpenSet = ps.Name
			}
		}
		if f.Recipe != "" {
			if r, err := d.store.Recipe(f.Recipe); err == nil {
				s.OpenRecipe = r.Name
			}
		}
	}
	if saver != nil {
		st := saver.Status()
		s.Dirty = st.Dirty
		s.LastSaved = st.LastSaved
		s.SaveFailed = st.LastErr != nil
	}
	return s
}

// printCost renders one recipe's breakdown to w.
func printCost(ctx context.Context, d *deps, w io.Writer, ref string) error {
	h := command.NewHandler(d.eng, display.NewWriterPrinter(w), d.log)
	return h.Execute(ctx, &domain.Command{Type: domain.CmdCost, Text: ref})
}
