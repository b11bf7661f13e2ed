package navigating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-auditor-api/internal/domain"
)

func buildSnapshot() *domain.AccountSnapshot {
	return &domain.AccountSnapshot{
		AccountID: "act_1",
		Campaigns: []*domain.Campaign{
			{
				ID: "c1", Name: "Campanha 1", Status: "ACTIVE",
				AdSets: []*domain.AdSet{
					{
						ID: "s1", Name: "Conjunto 1", Status: "ACTIVE", CampaignID: "c1",
						Ads: []*domain.Ad{
							{ID: "a1", Name: "Anuncio 1", Status: "ACTIVE", AdSetID: "s1", CampaignID: "c1"},
							{ID: "a2", Name: "Anuncio 2", Status: "PAUSED", AdSetID: "s1", CampaignID: "c1"},
						},
					},
				},
			},
			{ID: "c2", Name: "Campanha 2", Status: "PAUSED"},
		},
	}
}

func TestSession_DrillDownAndBreadcrumbRoundTrip(t *testing.T) {
	session := NewSession("sess1", "act_1", buildSnapshot())

	// Raiz: duas campanhas, trilha vazia
	assert.Equal(t, 0, session.Depth())
	assert.Len(t, session.CurrentLevelItems(), 2)

	require.NoError(t, session.DrillDown("c1"))
	assert.Equal(t, 1, session.Depth())
	assert.Equal(t, []domain.Breadcrumb{{ID: "c1", Name: "Campanha 1"}}, session.Breadcrumbs())

	items := session.CurrentLevelItems()
	require.Len(t, items, 1)
	assert.Equal(t, domain.LevelAdSet, items[0].Level)
	assert.Equal(t, "c1", items[0].CampaignID)

	require.NoError(t, session.DrillDown("s1"))
	assert.Equal(t, 2, session.Depth())

	ads := session.CurrentLevelItems()
	require.Len(t, ads, 2)
	assert.Equal(t, domain.LevelAd, ads[0].Level)
	assert.Equal(t, "s1", ads[0].AdSetID)

	// Anúncio é folha: descer de novo não muda nada e não é erro
	require.NoError(t, session.DrillDown("a1"))
	assert.Equal(t, 2, session.Depth())
	assert.Len(t, session.CurrentLevelItems(), 2)

	// Clicar no breadcrumb da campanha volta para os conjuntos
	require.NoError(t, session.NavigateToBreadcrumb(1, "c1"))
	assert.Equal(t, 1, session.Depth())

	// Profundidade zero é a raiz, sem exigir id
	require.NoError(t, session.NavigateToBreadcrumb(0, ""))
	assert.Equal(t, 0, session.Depth())
	assert.Empty(t, session.Breadcrumbs())
}

func TestSession_DrillDownUnknownNode(t *testing.T) {
	session := NewSession("sess1", "act_1", buildSnapshot())

	assert.ErrorIs(t, session.DrillDown("nope"), ErrNodeNotFound)
	assert.Equal(t, 0, session.Depth())
}

func TestSession_NavigateToInvalidBreadcrumb(t *testing.T) {
	session := NewSession("sess1", "act_1", buildSnapshot())
	require.NoError(t, session.DrillDown("c1"))

	tests := []struct {
		name   string
		depth  int
		nodeID string
	}{
		{name: "profundidade além da trilha", depth: 2, nodeID: "s1"},
		{name: "profundidade negativa", depth: -1, nodeID: ""},
		{name: "id não bate com a trilha", depth: 1, nodeID: "c2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, session.NavigateToBreadcrumb(tt.depth, tt.nodeID), ErrInvalidCrumb)
			assert.Equal(t, 1, session.Depth())
		})
	}
}

func TestSession_RefreshResetsToRoot(t *testing.T) {
	session := NewSession("sess1", "act_1", buildSnapshot())
	require.NoError(t, session.DrillDown("c1"))
	require.NoError(t, session.DrillDown("s1"))
	session.SetExternalRecommendations([]domain.Recommendation{{TargetID: "c1"}})

	fresh := buildSnapshot()
	seq := session.BeginRefresh()
	assert.True(t, session.ApplyRefresh(seq, fresh))

	assert.Equal(t, 0, session.Depth())
	assert.Empty(t, session.Breadcrumbs())
	assert.Same(t, fresh, session.Snapshot())

	// Recomendações externas pertenciam ao snapshot anterior
	_, registered := session.ExternalRecommendations()
	assert.False(t, registered)
}

func TestSession_StaleRefreshIsDiscarded(t *testing.T) {
	session := NewSession("sess1", "act_1", buildSnapshot())

	first := session.BeginRefresh()
	second := session.BeginRefresh()

	stale := buildSnapshot()
	current := buildSnapshot()

	// A resposta atrasada da primeira emissão não pode vencer a segunda
	assert.False(t, session.ApplyRefresh(first, stale))
	assert.True(t, session.ApplyRefresh(second, current))
	assert.Same(t, current, session.Snapshot())

	// Reaplicar a mesma sequência também é descartado
	assert.False(t, session.ApplyRefresh(second, stale))
	assert.Same(t, current, session.Snapshot())
}

func TestSession_UnresolvableTrailYieldsEmptyItems(t *testing.T) {
	session := NewSession("sess1", "act_1", buildSnapshot())
	require.NoError(t, session.DrillDown("c1"))

	// O novo snapshot não tem mais a campanha da trilha
	seq := session.BeginRefresh()
	pruned := &domain.AccountSnapshot{AccountID: "act_1"}
	require.True(t, session.ApplyRefresh(seq, pruned))
	assert.ErrorIs(t, session.DrillDown("c1"), ErrNodeNotFound)
}

func TestSession_EmptyTrailAfterPrunedSnapshot(t *testing.T) {
	session := NewSession("sess1", "act_1", buildSnapshot())
	require.NoError(t, session.DrillDown("c1"))

	// Simula trilha órfã: snapshot trocado por baixo sem reset (uso direto)
	session.mu.Lock()
	session.snapshot = &domain.AccountSnapshot{AccountID: "act_1"}
	session.mu.Unlock()

	items := session.CurrentLevelItems()
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSession_ExternalRecommendationsEmptyListCounts(t *testing.T) {
	session := NewSession("sess1", "act_1", buildSnapshot())

	session.SetExternalRecommendations([]domain.Recommendation{})

	recs, registered := session.ExternalRecommendations()
	assert.True(t, registered)
	assert.Empty(t, recs)
}

func TestStore_PutGetDeleteAndTTL(t *testing.T) {
	store := NewStore(50 * time.Millisecond)

	session := NewSession("sess1", "act_1", buildSnapshot())
	store.Put(session)

	got, err := store.Get("sess1")
	require.NoError(t, err)
	assert.Same(t, session, got)

	store.Delete("sess1")
	_, err = store.Get("sess1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	store.Put(session)
	time.Sleep(80 * time.Millisecond)
	_, err = store.Get("sess1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
