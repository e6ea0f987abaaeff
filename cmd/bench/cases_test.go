package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"ontime/internal/infra"
)

func TestExtractTables_ShippedMigrations(t *testing.T) {
	tables, err := extractTables(filepath.Join("..", "..", "migrations"))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{"airports": true, "cancel_rate_airline": true, "cancel_rate_origin": true, "cancel_rate_route": true}
	if len(tables) != len(want) {
		t.Fatalf("tables = %v", tables)
	}
	for _, tb := range tables {
		if !want[tb] {
			t.Errorf("unexpected table %q", tb)
		}
	}
}

func TestResponseShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"previsao": "Pontual", "probabilidade": 0.58})
	}))
	defer srv.Close()

	r := NewRunner(Config{BaseURL: srv.URL, Concurrency: 2, Duration: 50 * time.Millisecond})
	if res := responseShape(context.Background(), r, srv.URL, r.flight("SBGL", "2024-01-01T07:00:00Z")); res.Status != StatusPass {
		t.Errorf("responseShape = %+v", res)
	}
	if res := perfLoad(context.Background(), r, srv.URL, nil); res.Status != StatusPass {
		t.Errorf("perfLoad = %+v", res)
	}
}

func TestEnvOrDefaultInt(t *testing.T) {
	t.Setenv("ONTIME_BENCH_CONCURRENCY", "")
	if n, err := envOrDefaultInt("ONTIME_BENCH_CONCURRENCY", 20); err != nil || n != 20 {
		t.Errorf("unset: got %d, %v", n, err)
	}

	t.Setenv("ONTIME_BENCH_CONCURRENCY", " 8 ")
	if n, err := envOrDefaultInt("ONTIME_BENCH_CONCURRENCY", 20); err != nil || n != 8 {
		t.Errorf("valid: got %d, %v", n, err)
	}

	for _, bad := range []string{"abc", "0", "-3", "4x", "1.5"} {
		t.Setenv("ONTIME_BENCH_CONCURRENCY", bad)
		if _, err := envOrDefaultInt("ONTIME_BENCH_CONCURRENCY", 20); err == nil {
			t.Errorf("%q: expected an error", bad)
		}
	}
}

func TestCountKeys_UsesScan(t *testing.T) {
	addr := os.Getenv("ONTIME_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("ONTIME_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := infra.NewRedis(ctx, addr)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	const pattern = "ontime:bench-test:*"
	for i := 0; i < 250; i++ {
		key := "ontime:bench-test:" + strconv.Itoa(i)
		if err := client.Set(ctx, key, "1", time.Minute).Err(); err != nil {
			t.Fatal(err)
		}
		defer client.Del(ctx, key)
	}

	n, err := countKeys(ctx, client, pattern)
	if err != nil {
		t.Fatal(err)
	}
	if n != 250 {
		t.Errorf("countKeys = %d, want 250", n)
	}
}
