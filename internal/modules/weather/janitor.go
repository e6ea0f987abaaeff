package weather

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Janitor periodically sweeps expired entries out of a MemoryCache.
type Janitor struct {
	cache *MemoryCache
	cron  *cron.Cron
}

func NewJanitor(cache *MemoryCache, schedule string) (*Janitor, error) {
	j := &Janitor{
		cache: cache,
		cron:  cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
	if _, err := j.cron.AddFunc(schedule, j.sweep); err != nil {
		return nil, fmt.Errorf("invalid cache sweep schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Run blocks until ctx is done, then waits for a running sweep to finish.
func (j *Janitor) Run(ctx context.Context) {
	j.cron.Start()
	<-ctx.Done()
	<-j.cron.Stop().Done()
}

func (j *Janitor) sweep() {
	removed := j.cache.Sweep()
	slog.Debug("weather cache swept", "removed", removed, "remaining", j.cache.Len())
}
