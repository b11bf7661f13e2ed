package domain

// MetricSet agrupa os contadores brutos de um nó da hierarquia e as métricas
// derivadas deles. As derivadas nunca são armazenadas de forma independente:
// sempre podem ser recalculadas a partir dos contadores via DeriveRatios.
type MetricSet struct {
	Spend       float64 `json:"spend"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	Conversions int     `json:"conversions"`

	CTR            float64 `json:"ctr"`
	CPC            float64 `json:"cpc"`
	CPM            float64 `json:"cpm"`
	ConversionRate float64 `json:"conversion_rate"`
	CPA            float64 `json:"cpa"`
}

// DeriveRatios recalcula as métricas derivadas a partir dos contadores.
// Denominador zero resulta em zero, nunca em valor não finito.
func (m *MetricSet) DeriveRatios() {
	m.CTR = 0
	m.CPC = 0
	m.CPM = 0
	m.ConversionRate = 0
	m.CPA = 0

	if m.Impressions > 0 {
		m.CTR = float64(m.Clicks) / float64(m.Impressions) * 100
		m.CPM = m.Spend / float64(m.Impressions) * 1000
	}

	if m.Clicks > 0 {
		m.CPC = m.Spend / float64(m.Clicks)
		m.ConversionRate = float64(m.Conversions) / float64(m.Clicks) * 100
	}

	if m.Conversions > 0 {
		m.CPA = m.Spend / float64(m.Conversions)
	}
}

// NewMetricSet monta um MetricSet a partir dos contadores brutos já coagidos
func NewMetricSet(spend float64, impressions, clicks, conversions int) MetricSet {
	m := MetricSet{
		Spend:       spend,
		Impressions: impressions,
		Clicks:      clicks,
		Conversions: conversions,
	}
	m.DeriveRatios()
	return m
}

// AggregateMetrics soma os contadores brutos dos filhos e só então deriva as
// razões do total. Nunca tirar média das razões dos filhos: isso enviesa o
// resultado para nós de pouco tráfego.
func AggregateMetrics(children []MetricSet) MetricSet {
	agg := MetricSet{}

	for _, child := range children {
		agg.Spend += child.Spend
		agg.Impressions += child.Impressions
		agg.Clicks += child.Clicks
		agg.Conversions += child.Conversions
	}

	agg.DeriveRatios()
	return agg
}

// HasCounters indica se algum contador bruto foi resolvido para o nó
func (m MetricSet) HasCounters() bool {
	return m.Spend != 0 || m.Impressions != 0 || m.Clicks != 0 || m.Conversions != 0
}
