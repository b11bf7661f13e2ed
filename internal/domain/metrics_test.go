package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMetricSet_DerivedRatios(t *testing.T) {
	m := NewMetricSet(1245.50, 125000, 3750, 75)

	assert.InDelta(t, 3.00, m.CTR, 0.001)
	assert.InDelta(t, 0.3321, m.CPC, 0.0001)
	assert.InDelta(t, 9.964, m.CPM, 0.001)
	assert.InDelta(t, 2.00, m.ConversionRate, 0.001)
	assert.InDelta(t, 16.607, m.CPA, 0.001)
}

func TestNewMetricSet_ZeroDenominators(t *testing.T) {
	tests := []struct {
		name        string
		spend       float64
		impressions int
		clicks      int
		conversions int
	}{
		{name: "tudo zerado"},
		{name: "gasto sem tráfego", spend: 150.0},
		{name: "impressões sem cliques", spend: 80.0, impressions: 10000},
		{name: "cliques sem conversões", spend: 80.0, impressions: 10000, clicks: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMetricSet(tt.spend, tt.impressions, tt.clicks, tt.conversions)

			// Nenhuma razão pode ser não finita ou negativa
			for _, ratio := range []float64{m.CTR, m.CPC, m.CPM, m.ConversionRate, m.CPA} {
				assert.False(t, math.IsNaN(ratio))
				assert.False(t, math.IsInf(ratio, 0))
				assert.GreaterOrEqual(t, ratio, 0.0)
			}

			if tt.clicks == 0 {
				assert.Zero(t, m.CPC)
				assert.Zero(t, m.ConversionRate)
			}
			if tt.conversions == 0 {
				assert.Zero(t, m.CPA)
			}
		})
	}
}

func TestAggregateMetrics_SumThenDerive(t *testing.T) {
	// Um nó de alto tráfego e um de baixo tráfego: a média das razões daria
	// um CTR distorcido; o contrato exige somar contadores e rederivar
	big := NewMetricSet(1000, 100000, 1000, 50) // CTR 1%
	small := NewMetricSet(10, 100, 9, 1)        // CTR 9%
	agg := AggregateMetrics([]MetricSet{big, small})

	assert.Equal(t, 1010.0, agg.Spend)
	assert.Equal(t, 100100, agg.Impressions)
	assert.Equal(t, 1009, agg.Clicks)
	assert.Equal(t, 51, agg.Conversions)

	expectedCTR := float64(1009) / float64(100100) * 100
	assert.InDelta(t, expectedCTR, agg.CTR, 0.0001)

	// Garantir que não foi média de razões (seria ~5%)
	assert.Less(t, agg.CTR, 1.5)
}

func TestAggregateMetrics_Empty(t *testing.T) {
	agg := AggregateMetrics(nil)

	assert.Zero(t, agg.Spend)
	assert.Zero(t, agg.CTR)
	assert.Zero(t, agg.CPA)
}

func TestIsActive(t *testing.T) {
	assert.True(t, IsActive("ACTIVE"))
	assert.True(t, IsActive("active"))
	assert.True(t, IsActive("Active"))
	assert.False(t, IsActive("PAUSED"))
	assert.False(t, IsActive(""))
}
