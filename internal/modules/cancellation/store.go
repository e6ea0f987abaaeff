// README: Cancellation-rate sources: static CSV files or Postgres tables.
package cancellation

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"ontime/internal/infra"
)

type Source interface {
	Rates(ctx context.Context, kind Kind) (map[string]float64, error)
}

// CSVSource holds one file path per table kind.
type CSVSource struct {
	Paths map[Kind]string
}

func NewCSVSource(airline, origin, route string) *CSVSource {
	return &CSVSource{Paths: map[Kind]string{
		KindAirline: airline,
		KindOrigin:  origin,
		KindRoute:   route,
	}}
}

func (s *CSVSource) Rates(_ context.Context, kind Kind) (map[string]float64, error) {
	path, ok := s.Paths[kind]
	if !ok || path == "" {
		return nil, fmt.Errorf("no csv configured for %s rates", kind)
	}
	keyCol, rateCol := kind.Columns()
	rows, err := infra.ReadColumns(path, keyCol, rateCol)
	if err != nil {
		return nil, fmt.Errorf("%s rates csv %s: %w", kind, path, err)
	}
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row[0]] = parseRate(row[1])
	}
	return out, nil
}

// parseRate treats empty or unparsable cells as 0.0, the same as a missing key.
func parseRate(v string) float64 {
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

type PGSource struct {
	db *pgxpool.Pool
}

func NewPGSource(db *pgxpool.Pool) *PGSource {
	return &PGSource{db: db}
}

func (s *PGSource) Rates(ctx context.Context, kind Kind) (map[string]float64, error) {
	// kind is one of three constants, never user input.
	rows, err := s.db.Query(ctx, fmt.Sprintf(`SELECT code, COALESCE(rate, 0) FROM cancel_rate_%s`, kind))
	if err != nil {
		return nil, fmt.Errorf("querying %s rates: %w", kind, err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var code string
		var rate float64
		if err := rows.Scan(&code, &rate); err != nil {
			return nil, fmt.Errorf("scanning %s rate: %w", kind, err)
		}
		out[code] = rate
	}
	return out, rows.Err()
}
