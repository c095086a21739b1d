package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"terragrow/internal/domain/season"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"

	WeatherSynthetic = "synthetic"
	WeatherNASA      = "nasapower"
	WeatherScenario  = "scenario"
)

type Config struct {
	Addr           string
	Store          string
	DBDSN          string
	SQLitePath     string
	MigrationsDir  string
	SessionTTL     time.Duration
	Weather        string
	ScenarioDir    string
	CatalogSheet   string
	ScoreboardPath string
	CORSOrigin     string
	RandomSeed     uint64
	// SeedSet is false when no seed was configured and events should use
	// crypto randomness.
	SeedSet   bool
	Economics season.Economics
}

// Load reads an optional .env file in the working directory and then the
// process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("load .env", "err", err)
	}
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (Config, error) {
	e := env{get: getenv}
	econ := season.DefaultEconomics()
	cfg := Config{
		Addr:           e.str("TERRAGROW_ADDR", ":8080"),
		Store:          strings.ToLower(e.str("TERRAGROW_STORE", StoreMemory)),
		DBDSN:          e.str("TERRAGROW_DB_DSN", ""),
		SQLitePath:     e.str("TERRAGROW_SQLITE_PATH", "terragrow.db"),
		MigrationsDir:  e.str("TERRAGROW_MIGRATIONS_DIR", ""),
		SessionTTL:     e.duration("TERRAGROW_SESSION_TTL", 24*time.Hour),
		Weather:        strings.ToLower(e.str("TERRAGROW_WEATHER", WeatherSynthetic)),
		ScenarioDir:    e.str("TERRAGROW_SCENARIO_DIR", "./scenarios"),
		CatalogSheet:   e.str("TERRAGROW_CATALOG_SHEET", ""),
		ScoreboardPath: e.str("TERRAGROW_SCOREBOARD_PATH", ""),
		CORSOrigin:     e.str("TERRAGROW_CORS_ORIGIN", ""),
		Economics: season.Economics{
			IrrigationCostPerMM: e.float("TERRAGROW_IRRIGATION_COST", econ.IrrigationCostPerMM),
			FertilizerCostPerKg: e.float("TERRAGROW_FERTILIZER_COST", econ.FertilizerCostPerKg),
			InitialBudget:       e.float("TERRAGROW_INITIAL_BUDGET", econ.InitialBudget),
			SeasonWeeks:         e.int("TERRAGROW_SEASON_WEEKS", econ.SeasonWeeks),
			LoanAmount:          e.float("TERRAGROW_LOAN_AMOUNT", econ.LoanAmount),
			LoanInterestRate:    e.float("TERRAGROW_LOAN_INTEREST", econ.LoanInterestRate),
			LoanEligibleWeek:    e.int("TERRAGROW_LOAN_WEEK", econ.LoanEligibleWeek),
			EventProbability:    e.float("TERRAGROW_EVENT_PROBABILITY", econ.EventProbability),
		},
	}
	if raw := e.str("TERRAGROW_RANDOM_SEED", ""); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			e.errs = append(e.errs, fmt.Errorf("TERRAGROW_RANDOM_SEED: %w", err))
		} else {
			cfg.RandomSeed, cfg.SeedSet = seed, true
		}
	}

	switch cfg.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if cfg.DBDSN == "" {
			e.errs = append(e.errs, errors.New("TERRAGROW_DB_DSN is required for the postgres store"))
		}
	default:
		e.errs = append(e.errs, fmt.Errorf("TERRAGROW_STORE: unknown store %q", cfg.Store))
	}
	switch cfg.Weather {
	case WeatherSynthetic, WeatherNASA, WeatherScenario:
	default:
		e.errs = append(e.errs, fmt.Errorf("TERRAGROW_WEATHER: unknown provider %q", cfg.Weather))
	}
	if err := cfg.Economics.Validate(); err != nil {
		e.errs = append(e.errs, err)
	}

	if len(e.errs) > 0 {
		return Config{}, errors.Join(append([]error{ErrInvalidConfig}, e.errs...)...)
	}
	return cfg, nil
}

// LogValue keeps the DSN out of logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", c.Addr),
		slog.String("store", c.Store),
		slog.String("weather", c.Weather),
		slog.Duration("session_ttl", c.SessionTTL),
		slog.Bool("catalog_sheet", c.CatalogSheet != ""),
		slog.Bool("scoreboard", c.ScoreboardPath != ""),
		slog.Int("season_weeks", c.Economics.SeasonWeeks),
		slog.Float64("initial_budget", c.Economics.InitialBudget),
	)
}

type env struct {
	get  func(string) string
	errs []error
}

func (e *env) str(key, fallback string) string {
	if v := strings.TrimSpace(e.get(key)); v != "" {
		return v
	}
	return fallback
}

func (e *env) int(key string, fallback int) int {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func (e *env) float(key string, fallback float64) float64 {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return f
}

func (e *env) duration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}
