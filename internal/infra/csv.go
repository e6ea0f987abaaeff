// README: Static tabular sources (CSV with a header row) for the reference tables.
package infra

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrMissingColumn = errors.New("missing column")

// ReadColumns opens a CSV file and returns, for every data row, the values of the
// requested columns in the order given. Header matching is case-insensitive.
func ReadColumns(path string, columns ...string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readColumns(f, columns...)
}

func readColumns(r io.Reader, columns ...string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	positions := make([]int, len(columns))
	for i, c := range columns {
		pos, ok := index[strings.ToLower(c)]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, c)
		}
		positions[i] = pos
	}

	var rows [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(rows)+2, err)
		}
		row := make([]string, len(positions))
		for i, pos := range positions {
			if pos < len(rec) {
				row[i] = strings.TrimSpace(rec[pos])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
