package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/wattadvisor/wattadvisor/internal/events"
	"github.com/wattadvisor/wattadvisor/internal/modules/recommendation"
)

// CacheSweepJob drops expired recommendation cache entries
type CacheSweepJob struct {
	log    zerolog.Logger
	cache  *recommendation.Cache
	events *events.Manager
}

// NewCacheSweepJob creates a new cache sweep job
func NewCacheSweepJob(cache *recommendation.Cache, eventManager *events.Manager, log zerolog.Logger) *CacheSweepJob {
	return &CacheSweepJob{
		log:    log.With().Str("job", "cache_sweep").Logger(),
		cache:  cache,
		events: eventManager,
	}
}

// Name returns the job name
func (j *CacheSweepJob) Name() string {
	return "cache_sweep"
}

// Run removes expired entries
func (j *CacheSweepJob) Run() error {
	removed, err := j.cache.Sweep()
	if err != nil {
		j.events.EmitError("recommendation", err, nil)
		return err
	}

	if removed > 0 {
		j.events.Emit(events.CacheSwept, "recommendation", map[string]interface{}{
			"removed": removed,
		})
	}
	return nil
}
