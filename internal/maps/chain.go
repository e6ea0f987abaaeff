package maps

import (
	"context"
	"errors"
	"fmt"

	"ontime/internal/types"
)

// Lookup is one online coordinate provider.
type Lookup interface {
	Geocode(ctx context.Context, code string) (types.Point, error)
}

// Chain asks each provider in order and returns the first answer.
type Chain []Lookup

func (c Chain) Geocode(ctx context.Context, code string) (types.Point, error) {
	if len(c) == 0 {
		return types.Point{}, errors.New("no online airport provider configured")
	}
	var errs []error
	for _, l := range c {
		p, err := l.Geocode(ctx, code)
		if err == nil {
			return p, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return types.Point{}, fmt.Errorf("online lookup for %s: %w", code, errors.Join(errs...))
}
