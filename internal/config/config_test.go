package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "POPULATIONS", "TOTAL_SEATS", "BASE_SEATS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if len(cfg.InitialPopulations) == 0 {
		t.Fatalf("expected default populations, got none")
	}
	if cfg.TotalSeats != defaultTotalSeats {
		t.Fatalf("expected %d total seats, got %d", defaultTotalSeats, cfg.TotalSeats)
	}
	if cfg.BaseSeats != defaultBaseSeats {
		t.Fatalf("expected %d base seats, got %d", defaultBaseSeats, cfg.BaseSeats)
	}
	if cfg.ShutdownGracePeriod != 10*time.Second {
		t.Fatalf("unexpected shutdown grace period: %s", cfg.ShutdownGracePeriod)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("POPULATIONS", "100, 200 , 300")
	t.Setenv("TOTAL_SEATS", "120")
	t.Setenv("BASE_SEATS", "0")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Fatalf("expected overridden port, got %s", cfg.Port)
	}
	if want := []int64{100, 200, 300}; !slices.Equal(cfg.InitialPopulations, want) {
		t.Fatalf("unexpected populations: %v", cfg.InitialPopulations)
	}
	if cfg.TotalSeats != 120 {
		t.Fatalf("expected 120 total seats, got %d", cfg.TotalSeats)
	}
	if cfg.BaseSeats != 0 {
		t.Fatalf("expected 0 base seats, got %d", cfg.BaseSeats)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("port: \"7070\"\npopulations: [50, 60, 70]\ntotal_seats: 99\nbase_seats: 1\nshutdown_grace_period: 2s\nenable_request_logging: true\nrate_limit:\n  rps: 5\n  burst: 10\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(&CLIOverrides{ConfigFile: path})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "7070" {
		t.Fatalf("expected port 7070, got %s", cfg.Port)
	}
	if want := []int64{50, 60, 70}; !slices.Equal(cfg.InitialPopulations, want) {
		t.Fatalf("unexpected populations: %v", cfg.InitialPopulations)
	}
	if cfg.TotalSeats != 99 || cfg.BaseSeats != 1 {
		t.Fatalf("unexpected seat settings: total %d base %d", cfg.TotalSeats, cfg.BaseSeats)
	}
	if cfg.ShutdownGracePeriod != 2*time.Second {
		t.Fatalf("unexpected shutdown grace period: %s", cfg.ShutdownGracePeriod)
	}
	if cfg.RateLimitRPS != 5 || cfg.RateLimitBurst != 10 {
		t.Fatalf("unexpected rate limit: %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestCLIOverridesWinOverEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOTAL_SEATS", "200")

	totalSeats := 300
	baseSeats := 0
	populationsStr := "10,20,30"
	cfg, err := Load(&CLIOverrides{
		TotalSeats:     &totalSeats,
		BaseSeats:      &baseSeats,
		PopulationsStr: &populationsStr,
	})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.TotalSeats != 300 {
		t.Fatalf("expected CLI total seats to win, got %d", cfg.TotalSeats)
	}
	if cfg.BaseSeats != 0 {
		t.Fatalf("expected CLI base seats to win, got %d", cfg.BaseSeats)
	}
	if want := []int64{10, 20, 30}; !slices.Equal(cfg.InitialPopulations, want) {
		t.Fatalf("unexpected populations: %v", cfg.InitialPopulations)
	}
}

func TestLoadRejectsInsufficientSeats(t *testing.T) {
	clearEnv(t)
	t.Setenv("POPULATIONS", "1,2,3,4")
	t.Setenv("TOTAL_SEATS", "5")
	t.Setenv("BASE_SEATS", "2")

	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error when total seats cannot cover base seats")
	}
}

func TestParsePopulations(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := parsePopulations("1,2,3")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := []int64{1, 2, 3}; !slices.Equal(got, want) {
			t.Fatalf("unexpected populations: %v", got)
		}
	})

	t.Run("zero allowed", func(t *testing.T) {
		got, err := parsePopulations("0,5")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := []int64{0, 5}; !slices.Equal(got, want) {
			t.Fatalf("unexpected populations: %v", got)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := parsePopulations(" , "); err == nil {
			t.Fatalf("expected error for empty string")
		}
		if _, err := parsePopulations("1,a"); err == nil {
			t.Fatalf("expected error for invalid integer")
		}
		if _, err := parsePopulations("1,-2"); err == nil {
			t.Fatalf("expected error for negative population")
		}
	})
}
