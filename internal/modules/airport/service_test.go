package airport

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ontime/internal/types"
)

type stubGeocoder struct {
	point types.Point
	err   error
	calls int
}

func (g *stubGeocoder) Geocode(_ context.Context, _ string) (types.Point, error) {
	g.calls++
	return g.point, g.err
}

func testTable() *Table {
	return NewTable([]Record{
		{Code: "sbgl", Point: types.Point{Lat: -22.81, Lng: -43.25}},
		{Code: "SBGR", Point: types.Point{Lat: -23.43, Lng: -46.47}},
	})
}

func TestCoordinatesFor_CaseInsensitive(t *testing.T) {
	svc := NewService(testTable(), nil, false)
	ctx := context.Background()

	want := types.Point{Lat: -22.81, Lng: -43.25}
	for _, code := range []string{"SBGL", "sbgl", "SbGl", " sbgl "} {
		got, err := svc.CoordinatesFor(ctx, code)
		if err != nil {
			t.Fatalf("CoordinatesFor(%q) error = %v", code, err)
		}
		if got != want {
			t.Errorf("CoordinatesFor(%q) = %+v, want %+v", code, got, want)
		}
	}
}

func TestCoordinatesFor_NotFound(t *testing.T) {
	svc := NewService(testTable(), nil, false)
	_, err := svc.CoordinatesFor(context.Background(), "XXXX")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCoordinatesFor_FallbackDisabledSkipsGeocoder(t *testing.T) {
	geo := &stubGeocoder{point: types.Point{Lat: 1, Lng: 2}}
	svc := NewService(testTable(), geo, false)

	if _, err := svc.CoordinatesFor(context.Background(), "KJFK"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if geo.calls != 0 {
		t.Errorf("geocoder called %d times with fallback disabled", geo.calls)
	}
}

func TestCoordinatesFor_FallbackEnabled(t *testing.T) {
	geo := &stubGeocoder{point: types.Point{Lat: 40.64, Lng: -73.78}}
	svc := NewService(testTable(), geo, true)

	got, err := svc.CoordinatesFor(context.Background(), "kjfk")
	if err != nil {
		t.Fatalf("CoordinatesFor() error = %v", err)
	}
	if got != geo.point {
		t.Errorf("got %+v, want %+v", got, geo.point)
	}

	// Table hits never reach the geocoder.
	if _, err := svc.CoordinatesFor(context.Background(), "SBGR"); err != nil {
		t.Fatal(err)
	}
	if geo.calls != 1 {
		t.Errorf("geocoder calls = %d, want 1", geo.calls)
	}
}

func TestCoordinatesFor_FallbackFailureIsNotFound(t *testing.T) {
	geo := &stubGeocoder{err: errors.New("quota exceeded")}
	svc := NewService(testTable(), geo, true)

	if _, err := svc.CoordinatesFor(context.Background(), "KJFK"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoad_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airports.csv")
	content := "airport_code,latitude,longitude\nsbgl,-22.81,-43.25\nSBGR,-23.43,-46.47\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := Load(context.Background(), NewCSVSource(path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
	if p, ok := table.Lookup("SBGL"); !ok || p.Lat != -22.81 {
		t.Errorf("Lookup(SBGL) = %+v, %v", p, ok)
	}
}

func TestLoad_Failures(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	if _, err := Load(ctx, NewCSVSource(filepath.Join(dir, "missing.csv"))); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.csv")
	_ = os.WriteFile(bad, []byte("airport_code,latitude,longitude\nSBGL,north,-43.25\n"), 0o644)
	if _, err := Load(ctx, NewCSVSource(bad)); err == nil {
		t.Error("expected error for malformed latitude")
	}

	empty := filepath.Join(dir, "empty.csv")
	_ = os.WriteFile(empty, []byte("airport_code,latitude,longitude\n"), 0o644)
	if _, err := Load(ctx, NewCSVSource(empty)); !errors.Is(err, ErrEmptySource) {
		t.Errorf("expected ErrEmptySource, got %v", err)
	}
}
