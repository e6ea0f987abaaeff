// README: Airport sources: a static CSV file or the airports table in Postgres.
package airport

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"ontime/internal/infra"
	"ontime/internal/types"
)

var ErrEmptySource = errors.New("airport source has no rows")

type Source interface {
	Airports(ctx context.Context) ([]Record, error)
}

// CSVSource reads airport_code, latitude and longitude columns.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Airports(_ context.Context) ([]Record, error) {
	rows, err := infra.ReadColumns(s.Path, "airport_code", "latitude", "longitude")
	if err != nil {
		return nil, fmt.Errorf("airports csv %s: %w", s.Path, err)
	}
	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		lat, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("airports csv %s row %d: latitude %q: %w", s.Path, i+2, row[1], err)
		}
		lng, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("airports csv %s row %d: longitude %q: %w", s.Path, i+2, row[2], err)
		}
		records = append(records, Record{Code: row[0], Point: types.Point{Lat: lat, Lng: lng}})
	}
	return records, nil
}

type PGSource struct {
	db *pgxpool.Pool
}

func NewPGSource(db *pgxpool.Pool) *PGSource {
	return &PGSource{db: db}
}

func (s *PGSource) Airports(ctx context.Context) ([]Record, error) {
	rows, err := s.db.Query(ctx, `SELECT airport_code, latitude, longitude FROM airports`)
	if err != nil {
		return nil, fmt.Errorf("querying airports: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Code, &r.Point.Lat, &r.Point.Lng); err != nil {
			return nil, fmt.Errorf("scanning airport row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Load builds the table from src. The pipeline cannot run without coordinates, so
// any source failure, including an empty source, is returned to the caller.
func Load(ctx context.Context, src Source) (*Table, error) {
	records, err := src.Airports(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptySource
	}
	return NewTable(records), nil
}
