package normalizing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-auditor-api/internal/domain"
)

func TestNormalize_WellFormedCampaign(t *testing.T) {
	payload := []byte(`{"data":[
		{"id":"1","name":"C1","status":"ACTIVE","spend":"1245.50","impressions":125000,"clicks":3750,"conversions":75}
	]}`)

	snapshot, err := NewNormalizer().Normalize(payload, "act_1")
	require.NoError(t, err)
	require.Len(t, snapshot.Campaigns, 1)

	c := snapshot.Campaigns[0]
	assert.Equal(t, "1", c.ID)
	assert.Equal(t, "C1", c.Name)
	assert.Equal(t, 1245.50, c.Metrics.Spend)
	assert.InDelta(t, 3.00, c.Metrics.CTR, 0.001)
	assert.InDelta(t, 0.3321, c.Metrics.CPC, 0.0001)
	assert.InDelta(t, 2.00, c.Metrics.ConversionRate, 0.001)
	assert.InDelta(t, 16.607, c.Metrics.CPA, 0.001)

	assert.Equal(t, 1, snapshot.ActiveCampaignCount)
	assert.Equal(t, 1245.50, snapshot.Metrics.Spend)
}

func TestNormalize_MissingConversionsYieldZeroRatios(t *testing.T) {
	payload := []byte(`{"data":[
		{"id":"1","name":"C1","status":"ACTIVE","spend":"1245.50","impressions":125000,"clicks":3750}
	]}`)

	snapshot, err := NewNormalizer().Normalize(payload, "act_1")
	require.NoError(t, err)

	m := snapshot.Campaigns[0].Metrics
	assert.Zero(t, m.Conversions)
	assert.Zero(t, m.ConversionRate)
	assert.Zero(t, m.CPA)
	assert.False(t, math.IsNaN(m.CPA))
}

func TestNormalize_FieldPriorityDrift(t *testing.T) {
	tests := []struct {
		name     string
		record   string
		expected float64
	}{
		{
			name:     "campo direto vence",
			record:   `{"id":"1","spend":"10.5","amount_spent":"99"}`,
			expected: 10.5,
		},
		{
			name:     "amount_spent como segunda opção",
			record:   `{"id":"1","amount_spent":"42.0"}`,
			expected: 42.0,
		},
		{
			name:     "lifetime_spend depois de amount_spent",
			record:   `{"id":"1","lifetime_spend":17}`,
			expected: 17,
		},
		{
			name:     "budget aninhado antes dos insights",
			record:   `{"id":"1","budget":{"amount":"30"},"insights":{"data":[{"spend":"99"}]}}`,
			expected: 30,
		},
		{
			name:     "insights como último recurso",
			record:   `{"id":"1","insights":{"data":[{"spend":"77.7"}]}}`,
			expected: 77.7,
		},
		{
			name:     "candidato não numérico é pulado",
			record:   `{"id":"1","spend":"n/a","amount_spent":"5"}`,
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot, err := NewNormalizer().Normalize([]byte(`{"data":[`+tt.record+`]}`), "act_1")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, snapshot.Campaigns[0].Metrics.Spend)
		})
	}
}

func TestNormalize_SafeCoercion(t *testing.T) {
	// Contadores ausentes, não numéricos ou negativos nunca produzem razão
	// não finita ou negativa
	payload := []byte(`{"data":[
		{"id":"1","name":"C1","status":"ACTIVE","spend":"abc","impressions":-500,"clicks":null}
	]}`)

	snapshot, err := NewNormalizer().Normalize(payload, "act_1")
	require.NoError(t, err)

	m := snapshot.Campaigns[0].Metrics
	assert.Zero(t, m.Spend)
	assert.Zero(t, m.Impressions)
	assert.Zero(t, m.Clicks)

	for _, ratio := range []float64{m.CTR, m.CPC, m.CPM, m.ConversionRate, m.CPA} {
		assert.False(t, math.IsNaN(ratio))
		assert.False(t, math.IsInf(ratio, 0))
		assert.GreaterOrEqual(t, ratio, 0.0)
	}
}

func TestNormalize_MalformedRoot(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "objeto único no lugar da coleção", payload: `{"data":{"id":"1"}}`},
		{name: "raiz escalar", payload: `42`},
		{name: "JSON inválido", payload: `{invalid`},
		{name: "sem coleção de campanhas", payload: `{"foo":"bar"}`},
		{name: "success falso", payload: `{"success":false,"campaigns":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot, err := NewNormalizer().Normalize([]byte(tt.payload), "act_1")
			assert.Nil(t, snapshot)
			assert.ErrorIs(t, err, ErrMalformedRoot)
		})
	}
}

func TestNormalize_MalformedChildIsDefaulted(t *testing.T) {
	payload := []byte(`{"data":[
		"registro quebrado",
		{"id":"2","name":"C2","status":"PAUSED","spend":50,"impressions":1000,"clicks":10}
	]}`)

	snapshot, err := NewNormalizer().Normalize(payload, "act_1")
	require.NoError(t, err)

	// As duas campanhas aparecem; a malformada com defaults
	require.Len(t, snapshot.Campaigns, 2)
	assert.Empty(t, snapshot.Campaigns[0].ID)
	assert.Zero(t, snapshot.Campaigns[0].Metrics.Spend)
	assert.Equal(t, "2", snapshot.Campaigns[1].ID)
	assert.Equal(t, 50.0, snapshot.Metrics.Spend)
}

func TestNormalize_BackReferencesFromTreePosition(t *testing.T) {
	// As referências brutas mentem de propósito: a posição na árvore manda
	payload := []byte(`{"data":[
		{"id":"c1","name":"Campanha","status":"ACTIVE","adsets":{"data":[
			{"id":"s1","name":"Conjunto","status":"ACTIVE","campaign_id":"OUTRA","ads":{"data":[
				{"id":"a1","name":"Anuncio","status":"ACTIVE","adset_id":"ERRADO","campaign_id":"ERRADO"}
			]}}
		]}}
	]}`)

	snapshot, err := NewNormalizer().Normalize(payload, "act_1")
	require.NoError(t, err)

	adset := snapshot.Campaigns[0].AdSets[0]
	assert.Equal(t, "c1", adset.CampaignID)
	assert.Equal(t, "Campanha", adset.CampaignName)

	ad := adset.Ads[0]
	assert.Equal(t, "s1", ad.AdSetID)
	assert.Equal(t, "c1", ad.CampaignID)
}

func TestNormalize_BottomUpBackfill(t *testing.T) {
	// Campanha sem contadores próprios herda a soma dos conjuntos
	payload := []byte(`{"data":[
		{"id":"c1","name":"C","status":"ACTIVE","adsets":[
			{"id":"s1","name":"S1","status":"ACTIVE","spend":30,"impressions":3000,"clicks":60},
			{"id":"s2","name":"S2","status":"ACTIVE","spend":20,"impressions":1000,"clicks":40}
		]}
	]}`)

	snapshot, err := NewNormalizer().Normalize(payload, "act_1")
	require.NoError(t, err)

	c := snapshot.Campaigns[0]
	assert.Equal(t, 50.0, c.Metrics.Spend)
	assert.Equal(t, 4000, c.Metrics.Impressions)
	assert.Equal(t, 100, c.Metrics.Clicks)

	// Soma-e-deriva, não média das razões (2% e 4% dariam 3%)
	assert.InDelta(t, 2.5, c.Metrics.CTR, 0.0001)
}

func TestNormalize_AccountSummaryIsSumOfCampaigns(t *testing.T) {
	payload := []byte(`{"data":[
		{"id":"1","name":"A","status":"ACTIVE","spend":100,"impressions":10000,"clicks":200,"conversions":10},
		{"id":"2","name":"B","status":"paused","spend":50,"impressions":5000,"clicks":50,"conversions":2},
		{"id":"3","name":"C","status":"Active","spend":25,"impressions":1000,"clicks":10}
	]}`)

	snapshot, err := NewNormalizer().Normalize(payload, "act_1")
	require.NoError(t, err)

	assert.Equal(t, 175.0, snapshot.Metrics.Spend)
	assert.Equal(t, 16000, snapshot.Metrics.Impressions)
	assert.Equal(t, 260, snapshot.Metrics.Clicks)
	assert.Equal(t, 12, snapshot.Metrics.Conversions)
	assert.Equal(t, 2, snapshot.ActiveCampaignCount)
}

func TestNormalize_ConversionsFromInsightActions(t *testing.T) {
	payload := []byte(`{"data":[
		{"id":"1","name":"C1","status":"ACTIVE","spend":10,"insights":{"data":[
			{"impressions":"1000","clicks":"100","actions":[
				{"action_type":"purchase","value":"3"},
				{"action_type":"link_click","value":"90"},
				{"action_type":"offsite_conversion","value":"2"}
			]}
		]}}
	]}`)

	snapshot, err := NewNormalizer().Normalize(payload, "act_1")
	require.NoError(t, err)

	m := snapshot.Campaigns[0].Metrics
	assert.Equal(t, 1000, m.Impressions)
	assert.Equal(t, 100, m.Clicks)
	assert.Equal(t, 5, m.Conversions)
}

func TestFlatNodes_LevelTagging(t *testing.T) {
	payload := []byte(`{"data":[
		{"id":"c1","name":"C","status":"ACTIVE","adsets":[
			{"id":"s1","name":"S","status":"ACTIVE","ads":[
				{"id":"a1","name":"A","status":"ACTIVE"}
			]}
		]}
	]}`)

	snapshot, err := NewNormalizer().Normalize(payload, "act_1")
	require.NoError(t, err)

	nodes := snapshot.FlatNodes()
	require.Len(t, nodes, 3)

	assert.Equal(t, domain.LevelCampaign, nodes[0].Level)
	assert.Equal(t, domain.LevelAdSet, nodes[1].Level)
	assert.Equal(t, "c1", nodes[1].CampaignID)
	assert.Equal(t, domain.LevelAd, nodes[2].Level)
	assert.Equal(t, "s1", nodes[2].AdSetID)
}
