package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okoreev/arenacore/internal/catalog"
	"github.com/okoreev/arenacore/internal/config"
	"github.com/okoreev/arenacore/internal/db"
	"github.com/okoreev/arenacore/internal/engine"
	"github.com/okoreev/arenacore/internal/journal"
)

const defaultConfigPath = "config/simulation.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := defaultConfigPath
	if p := os.Getenv("ARENACORE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("arenasim starting", "log_level", cfg.LogLevel, "tick_seconds", cfg.TickSeconds)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("loading ability catalog: %w", err)
	}
	slog.Info("catalog loaded", "abilities", cat.Len())

	var rec journal.Recorder = journal.Nop{}
	var store *db.JournalStore
	if cfg.Journal.Enabled {
		dsn := cfg.Journal.Database.DSN()
		if err := db.RunMigrations(ctx, dsn); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		database, err := db.New(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		matchID := time.Now().UTC().Format("20060102-150405")
		store = db.NewJournalStore(database.Pool(), matchID)
		rec = store
		slog.Info("journal store connected", "match_id", matchID)
	}

	world := newDemoWorld()
	eng, err := engine.New(cat, engine.Collaborators{
		Applier: world,
		Targets: world,
		Notify:  world,
		Journal: rec,
	})
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	if err := world.seed(eng, cat); err != nil {
		return fmt.Errorf("seeding demo world: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(time.Duration(cfg.TickSeconds * float64(time.Second)))
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				slog.Info("simulation loop stopped", "sim_time", eng.SimTime())
				return nil
			case <-ticker.C:
				world.step(cfg.TickSeconds)
				eng.Tick(cfg.TickSeconds)
				// Combat credit is fed back between ticks, never
				// from inside an applier call.
				for actor, dmg := range world.drainDamageCredits() {
					eng.OnDamageDealt(actor, dmg)
				}
				world.act(eng)
			}
		}
	})

	if store != nil {
		g.Go(func() error {
			interval := time.Duration(cfg.Journal.FlushIntervalSeconds * float64(time.Second))
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := store.Flush(flushCtx); err != nil {
						return fmt.Errorf("final journal flush: %w", err)
					}
					return nil
				case <-ticker.C:
					if err := store.Flush(gctx); err != nil {
						slog.Warn("journal flush failed, retrying next interval", "err", err)
					}
				}
			}
		})
	}

	return g.Wait()
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
