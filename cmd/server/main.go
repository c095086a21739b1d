package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"terragrow/db"
	staticcatalog "terragrow/internal/adapter/catalog/static"
	httpadapter "terragrow/internal/adapter/http"
	metricsinmem "terragrow/internal/adapter/metrics/inmemory"
	"terragrow/internal/adapter/random"
	gormrepo "terragrow/internal/adapter/repo/gorm"
	"terragrow/internal/adapter/repo/memory"
	scoresqlite "terragrow/internal/adapter/scoreboard/sqlite"
	"terragrow/internal/adapter/weather/nasapower"
	"terragrow/internal/adapter/weather/scenario"
	"terragrow/internal/adapter/weather/synthetic"
	"terragrow/internal/app/catalog"
	"terragrow/internal/app/harvest"
	"terragrow/internal/app/loan"
	"terragrow/internal/app/newgame"
	"terragrow/internal/app/ports"
	"terragrow/internal/app/replay"
	"terragrow/internal/app/status"
	"terragrow/internal/app/step"
	"terragrow/internal/config"
	"terragrow/internal/domain/season"

	"github.com/cloudwego/hertz/pkg/app/server"
	"gorm.io/gorm"
)

const janitorInterval = 10 * time.Minute

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h, closers, err := buildHandler(ctx, cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer closeAll(closers)

	s := server.Default(server.WithHostPorts(cfg.Addr))
	h.RegisterRoutes(s)

	slog.Info("terragrow server listening", "config", cfg)
	s.Spin()
}

// buildHandler wires every adapter selected by cfg. The returned closers
// release files and pools opened along the way.
func buildHandler(ctx context.Context, cfg config.Config) (httpadapter.Handler, []io.Closer, error) {
	var closers []io.Closer

	cat := staticcatalog.New()
	if cfg.CatalogSheet != "" {
		if err := cat.LoadFile(cfg.CatalogSheet); err != nil {
			return httpadapter.Handler{}, nil, fmt.Errorf("catalog sheet: %w", err)
		}
	}
	slog.Info("catalog loaded", "catalog", cat.String())

	repo, txManager, pool, err := buildStore(ctx, cfg)
	if err != nil {
		return httpadapter.Handler{}, nil, err
	}
	if pool != nil {
		closers = append(closers, pool)
	}

	var archive ports.ScoreArchive
	if cfg.ScoreboardPath != "" {
		a, err := scoresqlite.Open(cfg.ScoreboardPath)
		if err != nil {
			closeAll(closers)
			return httpadapter.Handler{}, nil, fmt.Errorf("open scoreboard: %w", err)
		}
		archive = a
		closers = append(closers, a)
	}

	kpiRecorder := metricsinmem.NewRecorder()
	return httpadapter.Handler{
		NewGameUC: newgame.UseCase{
			Repo:      repo,
			Catalog:   cat,
			Weather:   buildWeather(cfg),
			Economics: cfg.Economics,
			Now:       time.Now,
		},
		StepUC: step.UseCase{
			TxManager: txManager,
			Repo:      repo,
			RNG:       buildRandom(cfg),
			Metrics:   kpiRecorder,
			Now:       time.Now,
		},
		LoanUC:      loan.UseCase{TxManager: txManager, Repo: repo, Metrics: kpiRecorder, Now: time.Now},
		StatusUC:    status.UseCase{Repo: repo},
		HarvestUC:   harvest.UseCase{Repo: repo, Archive: archive, Now: time.Now},
		ReplayUC:    replay.UseCase{Repo: repo},
		CatalogUC:   catalog.UseCase{Catalog: cat, Archive: archive, Scenarios: scenario.Provider{Root: cfg.ScenarioDir}},
		KPI:         kpiRecorder,
		AllowOrigin: cfg.CORSOrigin,
	}, closers, nil
}

// buildStore returns the session store. The closer is nil for the memory
// store and the database pool otherwise.
func buildStore(ctx context.Context, cfg config.Config) (ports.SessionRepository, ports.TxManager, io.Closer, error) {
	var (
		gdb *gorm.DB
		err error
	)
	switch cfg.Store {
	case config.StorePostgres:
		gdb, err = gormrepo.OpenPostgres(cfg.DBDSN)
	case config.StoreSQLite:
		gdb, err = gormrepo.OpenSQLite(cfg.SQLitePath)
	default:
		store := memory.NewStoreWithTTL(cfg.SessionTTL)
		go store.RunJanitor(ctx, janitorInterval)
		return memory.NewSessionRepo(store), memory.NewTxManager(store), nil, nil
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	pool, err := gdb.DB()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s pool: %w", cfg.Store, err)
	}

	var applied []string
	if cfg.MigrationsDir != "" {
		applied, err = gormrepo.ApplyMigrations(ctx, gdb, cfg.MigrationsDir)
	} else {
		applied, err = gormrepo.ApplyMigrationsFS(ctx, gdb, db.Migrations())
	}
	if err != nil {
		_ = pool.Close()
		return nil, nil, nil, fmt.Errorf("apply migrations: %w", err)
	}
	slog.Info("schema ready", "store", cfg.Store, "applied", len(applied))
	return gormrepo.NewSessionRepo(gdb), gormrepo.NewTxManager(gdb), pool, nil
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			slog.Warn("close", "err", err)
		}
	}
}

func buildWeather(cfg config.Config) ports.WeatherProvider {
	fallback := synthetic.Provider{Seed: int64(cfg.RandomSeed)}
	switch cfg.Weather {
	case config.WeatherNASA:
		return nasapower.NewClient(fallback)
	case config.WeatherScenario:
		return scenario.Provider{Root: cfg.ScenarioDir, Fallback: fallback}
	default:
		return fallback
	}
}

func buildRandom(cfg config.Config) season.RandomSource {
	if cfg.SeedSet {
		return random.NewSeeded(cfg.RandomSeed)
	}
	return random.Crypto{}
}
