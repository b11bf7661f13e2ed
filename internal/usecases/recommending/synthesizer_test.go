package recommending

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-auditor-api/internal/domain"
)

func metricsOf(spend float64, impressions, clicks, conversions int) domain.MetricSet {
	return domain.NewMetricSet(spend, impressions, clicks, conversions)
}

func TestSynthesize_RulesPerLevel(t *testing.T) {
	snapshot := &domain.AccountSnapshot{
		AccountID: "act_1",
		Campaigns: []*domain.Campaign{
			{
				// Gasto alto, conversão baixa → high
				ID: "c1", Name: "Campanha Fria", Status: "ACTIVE",
				Metrics: metricsOf(500, 100000, 2000, 5),
				AdSets: []*domain.AdSet{
					{
						// CTR 0.2% com gasto 80 → medium
						ID: "s1", Name: "Conjunto Frio", Status: "ACTIVE",
						Metrics: metricsOf(80, 50000, 100, 3),
						Ads: []*domain.Ad{
							// CPC 4.0 com gasto 40 → low
							{ID: "a1", Name: "Anuncio Caro", Status: "ACTIVE", Metrics: metricsOf(40, 1000, 10, 1)},
						},
					},
				},
			},
			{
				// Saudável: nada a recomendar
				ID: "c2", Name: "Campanha Boa", Status: "ACTIVE",
				Metrics: metricsOf(500, 100000, 2000, 100),
			},
		},
	}

	recs := NewSynthesizer().Synthesize(snapshot)
	require.Len(t, recs, 3)

	// Ordenadas por severidade decrescente
	assert.Equal(t, domain.SeverityHigh, recs[0].Severity)
	assert.Equal(t, "c1", recs[0].TargetID)
	assert.Equal(t, "conversion_efficiency", recs[0].Category)
	assert.Equal(t, 75.0, recs[0].EstimatedSavings)

	assert.Equal(t, domain.SeverityMedium, recs[1].Severity)
	assert.Equal(t, "s1", recs[1].TargetID)
	assert.Equal(t, "engagement", recs[1].Category)
	assert.Equal(t, 8.0, recs[1].EstimatedSavings)

	assert.Equal(t, domain.SeverityLow, recs[2].Severity)
	assert.Equal(t, "a1", recs[2].TargetID)
	assert.Equal(t, "cost_per_click", recs[2].Category)
	assert.Equal(t, 2.0, recs[2].EstimatedSavings)

	assert.Equal(t, 85.0, TotalEstimatedSavings(recs))
}

func TestSynthesize_IgnoresInactiveNodes(t *testing.T) {
	snapshot := &domain.AccountSnapshot{
		Campaigns: []*domain.Campaign{
			{ID: "c1", Name: "Pausada", Status: "PAUSED", Metrics: metricsOf(500, 100000, 2000, 5)},
		},
	}

	recs := NewSynthesizer().Synthesize(snapshot)
	assert.Empty(t, recs)
}

func TestSynthesize_SameSeverityOrderedBySavings(t *testing.T) {
	snapshot := &domain.AccountSnapshot{
		Campaigns: []*domain.Campaign{
			{ID: "c1", Name: "Menor", Status: "ACTIVE", Metrics: metricsOf(200, 100000, 2000, 5)},
			{ID: "c2", Name: "Maior", Status: "ACTIVE", Metrics: metricsOf(900, 100000, 2000, 5)},
		},
	}

	recs := NewSynthesizer().Synthesize(snapshot)
	require.Len(t, recs, 2)
	assert.Equal(t, "c2", recs[0].TargetID)
	assert.Equal(t, "c1", recs[1].TargetID)
}

func TestSynthesize_NilOrEmptySnapshot(t *testing.T) {
	synth := NewSynthesizer()

	assert.NotNil(t, synth.Synthesize(nil))
	assert.Empty(t, synth.Synthesize(nil))
	assert.Empty(t, synth.Synthesize(&domain.AccountSnapshot{}))
}

func TestResolve_ExternalWinsEvenWhenEmpty(t *testing.T) {
	snapshot := &domain.AccountSnapshot{
		Campaigns: []*domain.Campaign{
			{ID: "c1", Name: "Fria", Status: "ACTIVE", Metrics: metricsOf(500, 100000, 2000, 5)},
		},
	}

	recs, source := Resolve([]domain.Recommendation{}, true, snapshot, NewSynthesizer())
	assert.Equal(t, domain.SourceExternal, source)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestResolve_FallbackWhenNothingRegistered(t *testing.T) {
	snapshot := &domain.AccountSnapshot{
		Campaigns: []*domain.Campaign{
			{ID: "c1", Name: "Fria", Status: "ACTIVE", Metrics: metricsOf(500, 100000, 2000, 5)},
		},
	}

	recs, source := Resolve(nil, false, snapshot, NewSynthesizer())
	assert.Equal(t, domain.SourceFallback, source)
	require.Len(t, recs, 1)
	assert.Equal(t, "c1", recs[0].TargetID)
}
