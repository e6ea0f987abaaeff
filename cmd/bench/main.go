// README: Smoke and load runner for a deployed ontime API; checks backing stores, endpoints and throughput.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	bench := NewRunner(cfg)
	results := bench.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	counts := map[Status]int{}
	for _, r := range results {
		counts[r.Status]++
	}
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", counts[StatusPass], counts[StatusFail], counts[StatusSkip])

	if counts[StatusFail] > 0 || (cfg.Strict && counts[StatusSkip] > 0) {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL        string
	DSN            string
	RedisAddr      string
	MigrationDir   string
	ApplyMigration bool
	Strict         bool
	Timeout        time.Duration
	Concurrency    int
	Duration       time.Duration
	KnownOrigin    string
}

func loadConfig() Config {
	var (
		cfg  Config
		errs []error
	)
	concurrency, err := envOrDefaultInt("ONTIME_BENCH_CONCURRENCY", 20)
	errs = append(errs, err)
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("ONTIME_BENCH_BASE_URL", "http://localhost:8080"), "API base URL")
	flag.StringVar(&cfg.DSN, "dsn", envOrDefault("ONTIME_BENCH_DSN", ""), "Postgres DSN; empty skips DB checks")
	flag.StringVar(&cfg.RedisAddr, "redis", envOrDefault("ONTIME_BENCH_REDIS_ADDR", ""), "Redis address; empty skips cache checks")
	flag.StringVar(&cfg.MigrationDir, "migrations", envOrDefault("ONTIME_BENCH_MIGRATIONS", "migrations"), "Migration SQL directory")
	flag.BoolVar(&cfg.ApplyMigration, "apply-migration", envOrDefaultBool("ONTIME_BENCH_APPLY_MIGRATION", false), "Apply migrations before checks")
	flag.BoolVar(&cfg.Strict, "strict", envOrDefaultBool("ONTIME_BENCH_STRICT", false), "Fail on skipped checks")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("ONTIME_BENCH_TIMEOUT", 60*time.Second), "Total timeout")
	flag.IntVar(&cfg.Concurrency, "concurrency", concurrency, "Concurrent clients for load checks")
	flag.DurationVar(&cfg.Duration, "duration", envOrDefaultDuration("ONTIME_BENCH_DURATION", 10*time.Second), "Duration of the load check")
	flag.StringVar(&cfg.KnownOrigin, "origin", envOrDefault("ONTIME_BENCH_ORIGIN", "SBGL"), "Origin airport present in the reference table")
	flag.Parse()
	if cfg.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("concurrency must be positive, got %d", cfg.Concurrency))
	}
	if err := errors.Join(errs...); err != nil {
		fmt.Fprintf(os.Stderr, "invalid bench configuration: %v\n", err)
		os.Exit(2)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.KnownOrigin = strings.ToUpper(cfg.KnownOrigin)
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "1" || v == "true" || v == "yes"
	}
	return def
}

// envOrDefaultInt returns def when key is unset and an error when it is not a positive integer.
func envOrDefaultInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
