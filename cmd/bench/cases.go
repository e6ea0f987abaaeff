// README: Bench cases: store connectivity, migration, prediction endpoint contract and load.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"ontime/internal/infra"
	"ontime/internal/modules/weather"
)

type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	StatusSkip Status = "SKIP"
)

type Runner struct {
	cfg      Config
	httpc    *http.Client
	db       *pgxpool.Pool
	redis    *redis.Client
	redisErr error
}

type Result struct {
	Status  Status
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := infra.NewDB(ctx, r.cfg.DSN); err == nil {
			r.db = db
		} else {
			fmt.Printf("postgres unavailable: %v\n", err)
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis, r.redisErr = infra.NewRedis(ctx, r.cfg.RedisAddr)
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

func (r *Runner) flight(origin, departure string) map[string]string {
	return map[string]string{
		"companhia":    "AZ",
		"origem":       origin,
		"destino":      "SBGR",
		"data_partida": departure,
	}
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	predict := base + "/api/predict"
	valid := r.flight(r.cfg.KnownOrigin, "2024-01-01T07:00:00Z")

	return []TestCase{
		{
			Name: "Env: Postgres reference tables",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "dsn not set"}
				}
				if r.cfg.ApplyMigration {
					if err := infra.ApplyMigrations(ctx, r.db, r.cfg.MigrationDir); err != nil {
						return Result{Status: StatusFail, Note: err.Error()}
					}
				}
				tables, err := extractTables(r.cfg.MigrationDir)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)", t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: StatusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: StatusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: StatusPass, Note: fmt.Sprintf("tables=%d", len(tables))}
			},
		},
		{
			Name: "Env: Redis weather cache",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redisErr != nil {
					return Result{Status: StatusFail, Note: r.redisErr.Error()}
				}
				if r.redis == nil {
					return Result{Status: StatusSkip, Note: "redis not set"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				n, err := countKeys(ctx, r.redis, weather.RedisKeyPattern)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass, Note: fmt.Sprintf("cached_windows=%d", n)}
			},
		},
		httpCaseMethod("API: health", http.MethodGet, base+"/health", nil, http.StatusOK),
		httpCase("API: predict known origin -> 201", predict, valid, http.StatusCreated),
		httpCase("API: predict trailing slash -> 201", predict+"/", valid, http.StatusCreated),
		httpCase("API: predict lower-case codes -> 201", predict, r.flight(strings.ToLower(r.cfg.KnownOrigin), "2024-12-25T09:30:00-03:00"), http.StatusCreated),
		httpCase("API: unknown origin -> 404", predict, r.flight("ZZZZ", "2024-01-01T07:00:00Z"), http.StatusNotFound),
		httpCase("API: missing fields -> 422", predict, map[string]any{"companhia": "AZ"}, http.StatusUnprocessableEntity),
		httpCase("API: bad departure -> 422", predict, r.flight(r.cfg.KnownOrigin, "tomorrow"), http.StatusUnprocessableEntity),
		{
			Name: "API: response shape",
			Run: func(ctx context.Context, r *Runner) Result {
				return responseShape(ctx, r, predict, valid)
			},
		},
		{
			Name: "Perf: concurrent predictions",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, predict, valid)
			},
		},
	}
}

func httpCase(name, url string, body any, okStatuses ...int) TestCase {
	return httpCaseMethod(name, http.MethodPost, url, body, okStatuses...)
}

func httpCaseMethod(name, method, url string, body any, okStatuses ...int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			start := time.Now()
			status, _, err := r.do(ctx, method, url, body)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			latency := time.Since(start)
			if contains(okStatuses, status) {
				return Result{Status: StatusPass, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
			}
			return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
		},
	}
}

func (r *Runner) do(ctx context.Context, method, url string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	return resp.StatusCode, data, err
}

func responseShape(ctx context.Context, r *Runner, url string, payload any) Result {
	status, data, err := r.do(ctx, http.MethodPost, url, payload)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if status != http.StatusCreated {
		return Result{Status: StatusFail, Note: fmt.Sprintf("status=%d", status)}
	}
	var body struct {
		Previsao      string   `json:"previsao"`
		Probabilidade *float64 `json:"probabilidade"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if body.Previsao != "Atrasado" && body.Previsao != "Pontual" {
		return Result{Status: StatusFail, Note: "previsao=" + body.Previsao}
	}
	if body.Probabilidade == nil || *body.Probabilidade < 0 || *body.Probabilidade > 1 {
		return Result{Status: StatusFail, Note: "probabilidade out of range"}
	}
	return Result{Status: StatusPass, Note: fmt.Sprintf("%s %.3f", body.Previsao, *body.Probabilidade)}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var (
		mu       sync.Mutex
		count    int
		errCount int
		non201   int
	)
	wg := sync.WaitGroup{}
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				status, _, err := r.do(ctx, http.MethodPost, url, payload)
				mu.Lock()
				switch {
				case err != nil:
					errCount++
				case status != http.StatusCreated:
					non201++
				default:
					count++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	note := fmt.Sprintf("rps=%.1f errors=%d non201=%d", rps, errCount, non201)
	if non201 > 0 {
		return Result{Status: StatusFail, Note: note}
	}
	return Result{Status: StatusPass, Note: note}
}

// countKeys walks the keyspace with SCAN so a large cache never blocks the server.
func countKeys(ctx context.Context, client *redis.Client, pattern string) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return 0, fmt.Errorf("scan %s: %w", pattern, err)
		}
		total += len(keys)
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}

var createTable = regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)

func extractTables(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	var tables []string
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		for _, m := range createTable.FindAllStringSubmatch(string(b), -1) {
			tables = append(tables, m[1])
		}
	}
	return tables, nil
}
