package recommendation

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wattadvisor/wattadvisor/internal/clients/explainer"
	"github.com/wattadvisor/wattadvisor/internal/domain"
	"github.com/wattadvisor/wattadvisor/internal/events"
	"github.com/wattadvisor/wattadvisor/internal/modules/advisor"
	"github.com/wattadvisor/wattadvisor/internal/modules/catalog"
	"github.com/wattadvisor/wattadvisor/internal/modules/pricing"
	"github.com/wattadvisor/wattadvisor/internal/modules/risk"
	"github.com/wattadvisor/wattadvisor/internal/modules/savings"
	"github.com/wattadvisor/wattadvisor/internal/modules/scoring"
	"github.com/wattadvisor/wattadvisor/internal/modules/usage"
)

const (
	// defaultCacheTTL is how long a generated result stays servable
	defaultCacheTTL = 1 * time.Hour

	// pricingWorkers bounds the per-request pricing concurrency
	pricingWorkers = 4
)

// Explainer generates prose for a ranked plan. Optional collaborator;
// nil disables explanations entirely.
type Explainer interface {
	Explain(req explainer.ExplainRequest) (*explainer.Explanation, error)
}

// Service runs the full analysis pipeline for one request: profile the
// usage, price and score every candidate, rank, then analyze savings
// and risks per plan and the stay verdict for the winner.
type Service struct {
	profiler  *usage.Profiler
	pricer    *pricing.Pricer
	scorer    *scoring.Scorer
	ranker    *scoring.Ranker
	analyzer  *savings.Analyzer
	detector  *risk.Detector
	advisor   *advisor.Advisor
	catalog   *catalog.Service
	usageRepo *usage.Repository
	repo      *Repository
	cache     *Cache
	explainer Explainer
	events    *events.Manager
	cacheTTL  time.Duration
	log       zerolog.Logger
}

// NewService wires the pipeline components together.
// The explainer may be nil; everything else is required.
func NewService(
	profiler *usage.Profiler,
	pricer *pricing.Pricer,
	scorer *scoring.Scorer,
	ranker *scoring.Ranker,
	analyzer *savings.Analyzer,
	detector *risk.Detector,
	stayAdvisor *advisor.Advisor,
	catalogSvc *catalog.Service,
	usageRepo *usage.Repository,
	repo *Repository,
	cache *Cache,
	explainerClient Explainer,
	eventManager *events.Manager,
	log zerolog.Logger,
) *Service {
	return &Service{
		profiler:  profiler,
		pricer:    pricer,
		scorer:    scorer,
		ranker:    ranker,
		analyzer:  analyzer,
		detector:  detector,
		advisor:   stayAdvisor,
		catalog:   catalogSvc,
		usageRepo: usageRepo,
		repo:      repo,
		cache:     cache,
		explainer: explainerClient,
		events:    eventManager,
		cacheTTL:  defaultCacheTTL,
		log:       log.With().Str("module", "recommendation").Logger(),
	}
}

// Recommend runs the pipeline for one request. Preference weights must
// be valid; everything else degrades with warnings instead of failing.
func (s *Service) Recommend(req Request) (*Result, error) {
	// Invariant violations are rejected before the pipeline runs
	if err := req.Preferences.Validate(); err != nil {
		return nil, fmt.Errorf("invalid preferences: %w", err)
	}
	if req.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	var warnings []string

	history, err := s.usageRepo.History(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load usage history: %w", err)
	}

	profile := s.profiler.Profile(history, req.RegionalAvgKWh)
	warnings = append(warnings, profile.Warnings...)

	plans, err := s.catalog.ActivePlans(req.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan catalog: %w", err)
	}

	planIDs := make([]string, len(plans))
	for i, p := range plans {
		planIDs[i] = p.ID
	}
	fingerprint := Fingerprint(req.UserID, planIDs, profile.ProfileType, req.Preferences)

	if !req.ForceRegenerate {
		if cached := s.fromCache(fingerprint); cached != nil {
			s.log.Debug().Str("fingerprint", fingerprint).Msg("Serving cached recommendation")
			return cached, nil
		}
	}

	result := &Result{
		UserID:      req.UserID,
		Fingerprint: fingerprint,
		Profile:     profile,
		Plans:       []PlanRecommendation{},
		GeneratedAt: time.Now().UTC(),
	}

	if len(plans) == 0 {
		warnings = append(warnings, "no active plans available for this region")
		result.Warnings = warnings
		if _, err := s.repo.Save(result); err != nil {
			return nil, err
		}
		return result, nil
	}

	candidates, priceWarnings := s.priceAll(plans, profile.Projection.Values())
	warnings = append(warnings, priceWarnings...)

	scored := s.scorer.ScoreBatch(candidates, req.Preferences)
	ranked := s.ranker.Rank(scored, req.TopN)

	for _, rp := range ranked {
		analysis, savingsWarnings := s.analyzer.Analyze(rp.Plan, rp.Cost, req.CurrentPlan)
		warnings = append(warnings, savingsWarnings...)

		result.Plans = append(result.Plans, PlanRecommendation{
			RankedPlan: rp,
			Savings:    analysis,
			Risks:      s.detector.Detect(rp, analysis, profile, req.Preferences),
		})
	}

	if len(result.Plans) > 0 {
		top := &result.Plans[0]
		stay := s.advisor.Advise(top.RankedPlan, top.Savings, top.Risks, req.CurrentPlan)
		result.Stay = &stay

		s.explain(top, profile, req.Preferences, &warnings)
	}

	result.Warnings = warnings

	if _, err := s.repo.Save(result); err != nil {
		return nil, err
	}
	s.toCache(fingerprint, result)

	s.events.Emit(events.AnalysisCompleted, "recommendation", map[string]interface{}{
		"user_id":     req.UserID,
		"fingerprint": fingerprint,
		"plans":       len(result.Plans),
		"should_stay": result.Stay != nil && result.Stay.ShouldStay,
	})

	return result, nil
}

// Get returns a stored result by UUID, or nil when unknown
func (s *Service) Get(id string) (*Result, error) {
	return s.repo.GetByUUID(id)
}

// Invalidate drops the cached result for a fingerprint
func (s *Service) Invalidate(fingerprint string) error {
	if err := s.cache.Invalidate(fingerprint); err != nil {
		return err
	}
	s.events.Emit(events.CacheInvalidated, "recommendation", map[string]interface{}{
		"fingerprint": fingerprint,
	})
	return nil
}

// priceAll prices every plan against the projection using a bounded
// worker pool. Pricing is independent per plan; order is preserved so
// the result set stays deterministic.
func (s *Service) priceAll(plans []catalog.Plan, projection []float64) ([]scoring.Candidate, []string) {
	candidates := make([]scoring.Candidate, len(plans))
	warningSets := make([][]string, len(plans))

	var wg sync.WaitGroup
	sem := make(chan struct{}, pricingWorkers)

	for i := range plans {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			cost, planWarnings := s.pricer.Price(plans[i], projection)
			candidates[i] = scoring.Candidate{Plan: plans[i], Cost: cost}
			warningSets[i] = planWarnings
		}(i)
	}
	wg.Wait()

	var warnings []string
	for _, set := range warningSets {
		warnings = append(warnings, set...)
	}
	return candidates, warnings
}

// explain asks the external generator for prose about the top plan.
// Failures downgrade to a warning; the recommendation stands on its own.
func (s *Service) explain(top *PlanRecommendation, profile usage.UsageProfile, prefs domain.UserPreferences, warnings *[]string) {
	if s.explainer == nil {
		return
	}

	explanation, err := s.explainer.Explain(explainer.ExplainRequest{
		Plan:           top.Plan,
		Rank:           top.Rank,
		CompositeScore: top.Composite,
		AnnualSavings:  top.Savings.AnnualSavings,
		Profile:        profile,
		Preferences:    prefs,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("Explanation service unavailable")
		*warnings = append(*warnings, "plan explanation unavailable")
		return
	}
	top.Explanation = explanation
}

func (s *Service) fromCache(fingerprint string) *Result {
	payload, hit, err := s.cache.Get(fingerprint)
	if err != nil {
		s.log.Warn().Err(err).Msg("Cache read failed")
		return nil
	}
	if !hit {
		return nil
	}

	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		s.log.Warn().Err(err).Msg("Discarding unreadable cache entry")
		return nil
	}
	return &result
}

func (s *Service) toCache(fingerprint string, result *Result) {
	payload, err := json.Marshal(result)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to marshal result for cache")
		return
	}
	if err := s.cache.Set(fingerprint, payload, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Msg("Cache write failed")
	}
}
