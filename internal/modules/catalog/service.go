package catalog

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wattadvisor/wattadvisor/internal/events"
)

// Service coordinates catalog loading and queries
type Service struct {
	repo   *Repository
	loader *Loader
	events *events.Manager
	log    zerolog.Logger
}

// NewService creates a new catalog service
func NewService(repo *Repository, loader *Loader, eventManager *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		loader: loader,
		events: eventManager,
		log:    log.With().Str("module", "catalog").Logger(),
	}
}

// RefreshFromSeed loads a YAML seed file and upserts every plan in it.
// Returns the number of plans applied.
func (s *Service) RefreshFromSeed(path string) (int, error) {
	seed, err := s.loader.LoadFromFile(path)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, plan := range seed.Plans {
		if err := s.repo.Upsert(plan); err != nil {
			s.log.Warn().Err(err).Str("plan_id", plan.ID).Msg("Failed to upsert seed plan")
			s.events.Emit(events.PlanSkipped, "catalog", map[string]interface{}{
				"plan_id": plan.ID,
				"reason":  err.Error(),
			})
			continue
		}
		applied++
	}

	s.log.Info().Int("applied", applied).Str("path", path).Msg("Catalog refreshed from seed")
	return applied, nil
}

// ActivePlans returns eligible plans for a region
func (s *Service) ActivePlans(region string) ([]Plan, error) {
	plans, err := s.repo.ListActive(region)
	if err != nil {
		return nil, fmt.Errorf("failed to load active plans: %w", err)
	}
	return plans, nil
}

// GetPlan returns a single plan by id, or nil when unknown
func (s *Service) GetPlan(id string) (*Plan, error) {
	return s.repo.GetByID(id)
}

// UpsertPlan validates and stores one plan
func (s *Service) UpsertPlan(plan Plan) error {
	return s.repo.Upsert(plan)
}
