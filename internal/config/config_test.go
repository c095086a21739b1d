package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"terragrow/internal/domain/season"
)

func lookup(vals map[string]string) func(string) string {
	return func(k string) string { return vals[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(lookup(nil))
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.Store != StoreMemory || cfg.Weather != WeatherSynthetic {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("ttl got=%v want=24h", cfg.SessionTTL)
	}
	if cfg.SeedSet {
		t.Fatalf("seed must be unset by default")
	}
	if cfg.Economics != season.DefaultEconomics() {
		t.Fatalf("economics got=%+v want defaults", cfg.Economics)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{
		"TERRAGROW_ADDR":           ":9090",
		"TERRAGROW_STORE":          "SQLite",
		"TERRAGROW_SQLITE_PATH":    "/tmp/tg.db",
		"TERRAGROW_SESSION_TTL":    "90m",
		"TERRAGROW_WEATHER":        "scenario",
		"TERRAGROW_RANDOM_SEED":    "42",
		"TERRAGROW_INITIAL_BUDGET": "3500",
		"TERRAGROW_SEASON_WEEKS":   "16",
		"TERRAGROW_LOAN_WEEK":      "10",
	}))
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.Store != StoreSQLite || cfg.SQLitePath != "/tmp/tg.db" {
		t.Fatalf("unexpected transport/store: %+v", cfg)
	}
	if cfg.SessionTTL != 90*time.Minute || cfg.Weather != WeatherScenario {
		t.Fatalf("ttl=%v weather=%s", cfg.SessionTTL, cfg.Weather)
	}
	if !cfg.SeedSet || cfg.RandomSeed != 42 {
		t.Fatalf("seed got=%d set=%v want=42", cfg.RandomSeed, cfg.SeedSet)
	}
	if cfg.Economics.InitialBudget != 3500 || cfg.Economics.SeasonWeeks != 16 || cfg.Economics.LoanEligibleWeek != 10 {
		t.Fatalf("economics got=%+v", cfg.Economics)
	}
}

func TestFromEnv_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown store":   {"TERRAGROW_STORE": "redis"},
		"postgres no dsn": {"TERRAGROW_STORE": "postgres"},
		"unknown weather": {"TERRAGROW_WEATHER": "radar"},
		"bad int":         {"TERRAGROW_SEASON_WEEKS": "twelve"},
		"bad duration":    {"TERRAGROW_SESSION_TTL": "1 day"},
		"bad seed":        {"TERRAGROW_RANDOM_SEED": "-1"},
		"bad probability": {"TERRAGROW_EVENT_PROBABILITY": "2"},
		"negative budget": {"TERRAGROW_INITIAL_BUDGET": "-5"},
	}
	for name, vals := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := FromEnv(lookup(vals)); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TERRAGROW_ADDR=:7070\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	prevWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	defer func() {
		_ = os.Chdir(prevWD)
	}()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Setenv("TERRAGROW_ADDR", "")
	_ = os.Unsetenv("TERRAGROW_ADDR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("addr got=%q want=:7070", cfg.Addr)
	}
}
