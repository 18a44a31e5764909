package recommendation

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

type stubExplainer struct {
	explanation *explainer.Explanation
	err         error
}

func (s *stubExplainer) Explain(explainer.ExplainRequest) (*explainer.Explanation, error) {
	return s.explanation, s.err
}

func newTestService(t *testing.T, explainerClient Explainer) (*Service, *sql.DB) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, catalog.InitSchema(db))
	require.NoError(t, usage.InitSchema(db))
	require.NoError(t, InitSchema(db))

	log := zerolog.Nop()
	catalogRepo := catalog.NewRepository(db, log)
	catalogSvc := catalog.NewService(catalogRepo, catalog.NewLoader(log), events.NewManager(log), log)

	svc := NewService(
		usage.NewProfiler(usage.DefaultConfig(), log),
		pricing.NewPricer(pricing.DefaultAssumptions(), log),
		scoring.NewScorer(log),
		scoring.NewRanker(log),
		savings.NewAnalyzer(log),
		risk.NewDetector(risk.DefaultThresholds(), log),
		advisor.NewAdvisor(advisor.DefaultThresholds(), log),
		catalogSvc,
		usage.NewRepository(db, log),
		NewRepository(db, log),
		NewCache(db, log),
		explainerClient,
		events.NewManager(log),
		log,
	)

	seedPlans(t, catalogRepo)
	return svc, db
}

func seedPlans(t *testing.T, repo *catalog.Repository) {
	plans := []catalog.Plan{
		{
			ID: "fix-cheap", Name: "Fixed Saver", Supplier: "Acme Energy",
			Rate: catalog.RateStructure{
				Type:  catalog.RateTypeFixed,
				Fixed: &catalog.FixedRate{RatePerKWh: 0.12},
			},
			RenewablePercentage: 40, Active: true,
		},
		{
			ID: "fix-exp", Name: "Fixed Premium", Supplier: "Bolt Power",
			Rate: catalog.RateStructure{
				Type:  catalog.RateTypeFixed,
				Fixed: &catalog.FixedRate{RatePerKWh: 0.18},
			},
			MonthlyFee: 10, RenewablePercentage: 100, Active: true,
		},
		{
			ID: "var-1", Name: "Market Tracker", Supplier: "Current Co",
			Rate: catalog.RateStructure{
				Type:     catalog.RateTypeVariable,
				Variable: &catalog.VariableRate{BaseRate: 0.10, HistoricalAvgRate: 0.13},
			},
			Active: true,
		},
	}
	for _, p := range plans {
		require.NoError(t, repo.Upsert(p))
	}
}

func recordFlatYear(t *testing.T, db *sql.DB, userID string, kwh float64) {
	repo := usage.NewRepository(db, zerolog.Nop())
	var points []domain.MonthlyUsagePoint
	for m := 0; m < 12; m++ {
		points = append(points, domain.NewMonthlyUsagePoint(2025, time.Month(m+1), kwh))
	}
	require.NoError(t, repo.RecordBatch(userID, points))
}

func baseRequest() Request {
	return Request{
		UserID:      "user-1",
		Preferences: domain.DefaultPreferences(),
		CurrentPlan: savings.CurrentPlan{AnnualCost: 2000},
	}
}

func TestRecommend_FullPipeline(t *testing.T) {
	svc, db := newTestService(t, nil)
	recordFlatYear(t, db, "user-1", 1000)

	result, err := svc.Recommend(baseRequest())
	require.NoError(t, err)

	require.Len(t, result.Plans, 3)
	assert.NotEmpty(t, result.UUID)
	assert.Equal(t, "user-1", result.UserID)
	assert.Len(t, result.Fingerprint, 8)

	// Cheapest fixed plan wins under cost-weighted defaults
	assert.Equal(t, "fix-cheap", result.Plans[0].Plan.ID)

	// Composite non-increasing, dense ranks from 1
	for i, p := range result.Plans {
		assert.Equal(t, i+1, p.Rank)
		if i > 0 {
			assert.LessOrEqual(t, p.Composite, result.Plans[i-1].Composite)
		}
	}

	// Savings and risks attached per plan
	top := result.Plans[0]
	assert.InDelta(t, 2000-1440, top.Savings.AnnualSavings, 0.01)
	assert.NotNil(t, top.Risks)

	// Variable plan carries the volatility warning
	var variable *PlanRecommendation
	for i := range result.Plans {
		if result.Plans[i].Plan.ID == "var-1" {
			variable = &result.Plans[i]
		}
	}
	require.NotNil(t, variable)
	found := false
	for _, w := range variable.Risks {
		if w.Type == risk.RiskVariableVolatility {
			found = true
		}
	}
	assert.True(t, found)

	// Clear savings case: the verdict is to switch
	require.NotNil(t, result.Stay)
	assert.False(t, result.Stay.ShouldStay)

	// Result is retrievable by UUID
	stored, err := svc.Get(result.UUID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, result.UUID, stored.UUID)
}

func TestRecommend_RejectsInvalidPreferences(t *testing.T) {
	svc, _ := newTestService(t, nil)

	req := baseRequest()
	req.Preferences = domain.UserPreferences{CostWeight: 50, FlexibilityWeight: 50, RenewableWeight: 50, RatingWeight: 50}

	_, err := svc.Recommend(req)
	assert.Error(t, err)
}

func TestRecommend_EmptyCatalogDegrades(t *testing.T) {
	svc, db := newTestService(t, nil)
	recordFlatYear(t, db, "user-1", 1000)

	catalogRepo := catalog.NewRepository(db, zerolog.Nop())
	for _, id := range []string{"fix-cheap", "fix-exp", "var-1"} {
		require.NoError(t, catalogRepo.Deactivate(id))
	}

	result, err := svc.Recommend(baseRequest())
	require.NoError(t, err)
	assert.Empty(t, result.Plans)
	assert.Nil(t, result.Stay)
	assert.Contains(t, result.Warnings, "no active plans available for this region")
}

func TestRecommend_NoUsageHistoryStillAnswers(t *testing.T) {
	svc, _ := newTestService(t, nil)

	req := baseRequest()
	req.RegionalAvgKWh = 900

	result, err := svc.Recommend(req)
	require.NoError(t, err)

	assert.Equal(t, usage.ProfileInsufficientData, result.Profile.ProfileType)
	assert.Len(t, result.Plans, 3)
	assert.NotEmpty(t, result.Warnings)
}

func TestRecommend_CachedSecondRun(t *testing.T) {
	svc, db := newTestService(t, nil)
	recordFlatYear(t, db, "user-1", 1000)

	first, err := svc.Recommend(baseRequest())
	require.NoError(t, err)

	second, err := svc.Recommend(baseRequest())
	require.NoError(t, err)

	// Same fingerprint serves the stored result
	assert.Equal(t, first.UUID, second.UUID)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
}

func TestRecommend_ForceRegenerateIsIdempotent(t *testing.T) {
	svc, db := newTestService(t, nil)
	recordFlatYear(t, db, "user-1", 1000)

	req := baseRequest()
	req.ForceRegenerate = true

	first, err := svc.Recommend(req)
	require.NoError(t, err)
	second, err := svc.Recommend(req)
	require.NoError(t, err)

	// Fresh UUID each run, identical analysis
	assert.NotEqual(t, first.UUID, second.UUID)
	require.Len(t, second.Plans, len(first.Plans))
	for i := range first.Plans {
		assert.Equal(t, first.Plans[i].Plan.ID, second.Plans[i].Plan.ID)
		assert.Equal(t, first.Plans[i].Composite, second.Plans[i].Composite)
		assert.Equal(t, first.Plans[i].Savings.AnnualSavings, second.Plans[i].Savings.AnnualSavings)
	}
}

func TestRecommend_ExplanationAttached(t *testing.T) {
	stub := &stubExplainer{explanation: &explainer.Explanation{Summary: "Cheapest fixed option."}}
	svc, db := newTestService(t, stub)
	recordFlatYear(t, db, "user-1", 1000)

	result, err := svc.Recommend(baseRequest())
	require.NoError(t, err)

	require.NotNil(t, result.Plans[0].Explanation)
	assert.Equal(t, "Cheapest fixed option.", result.Plans[0].Explanation.Summary)
}

func TestRecommend_ExplainerFailureIsNonFatal(t *testing.T) {
	stub := &stubExplainer{err: errors.New("service down")}
	svc, db := newTestService(t, stub)
	recordFlatYear(t, db, "user-1", 1000)

	result, err := svc.Recommend(baseRequest())
	require.NoError(t, err)

	assert.Nil(t, result.Plans[0].Explanation)
	assert.Contains(t, result.Warnings, "plan explanation unavailable")
}
