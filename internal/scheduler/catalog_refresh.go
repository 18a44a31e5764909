package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/wattadvisor/wattadvisor/internal/events"
	"github.com/wattadvisor/wattadvisor/internal/modules/catalog"
)

// CatalogRefreshJob reloads the plan catalog from its seed file so
// supplier updates reach the recommender without a restart.
type CatalogRefreshJob struct {
	log      zerolog.Logger
	catalog  *catalog.Service
	events   *events.Manager
	seedPath string
}

// NewCatalogRefreshJob creates a new catalog refresh job
func NewCatalogRefreshJob(catalogSvc *catalog.Service, eventManager *events.Manager, seedPath string, log zerolog.Logger) *CatalogRefreshJob {
	return &CatalogRefreshJob{
		log:      log.With().Str("job", "catalog_refresh").Logger(),
		catalog:  catalogSvc,
		events:   eventManager,
		seedPath: seedPath,
	}
}

// Name returns the job name
func (j *CatalogRefreshJob) Name() string {
	return "catalog_refresh"
}

// Run reloads the seed file
func (j *CatalogRefreshJob) Run() error {
	count, err := j.catalog.RefreshFromSeed(j.seedPath)
	if err != nil {
		j.events.EmitError("catalog", err, map[string]interface{}{"seed_path": j.seedPath})
		return err
	}

	j.log.Info().Int("plans", count).Msg("Plan catalog refreshed")
	j.events.Emit(events.CatalogRefreshed, "catalog", map[string]interface{}{
		"plans":     count,
		"seed_path": j.seedPath,
	})
	return nil
}
