package auditing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-auditor-api/infrastructure/integrator/meta"
	"github.com/vfg2006/ad-auditor-api/infrastructure/integrator/meta/metaclient"
	metamocks "github.com/vfg2006/ad-auditor-api/infrastructure/integrator/meta/metaclient/mocks"
	"github.com/vfg2006/ad-auditor-api/infrastructure/repository/mocks"
	"github.com/vfg2006/ad-auditor-api/internal/config"
	"github.com/vfg2006/ad-auditor-api/internal/domain"
	"github.com/vfg2006/ad-auditor-api/internal/usecases/navigating"
	"go.uber.org/mock/gomock"
)

const validPayload = `{"data":[
	{"id":"c1","name":"Campanha","status":"ACTIVE","spend":"500","impressions":100000,"clicks":2000,"conversions":5}
]}`

func newTestConfig() *config.Config {
	return &config.Config{
		Meta: config.Meta{
			MaxFetchAttempts:      3,
			RateLimitFallbackSecs: 300,
		},
	}
}

func newTestService(t *testing.T) (*Service, *metamocks.MockClient, *mocks.MockAuditRepository) {
	ctrl := gomock.NewController(t)

	cfg := newTestConfig()
	mockClient := metamocks.NewMockClient(ctrl)
	mockAuditRepo := mocks.NewMockAuditRepository(ctrl)

	integrator := meta.New(cfg, mockClient)
	store := navigating.NewStore(time.Minute)

	return NewService(cfg, integrator, store, mockAuditRepo), mockClient, mockAuditRepo
}

func TestStartSession_Success(t *testing.T) {
	service, mockClient, mockAuditRepo := newTestService(t)

	mockClient.EXPECT().
		FetchHierarchy(gomock.Any(), "act_1").
		Return(&metaclient.FetchResult{Kind: metaclient.FetchOK, Payload: []byte(validPayload)}, nil)

	mockAuditRepo.EXPECT().
		Save(gomock.Any()).
		Return(nil)

	session, err := service.StartSession(context.Background(), "act_1", nil, false)
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "act_1", session.AccountID)
	assert.Equal(t, 0, session.Depth())
	assert.Len(t, session.CurrentLevelItems(), 1)

	// A sessão fica recuperável pelo id
	got, err := service.GetSession(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)
}

func TestStartSession_RateLimitedSurfacesWait(t *testing.T) {
	service, mockClient, _ := newTestService(t)

	// Uma única chamada: rate limit nunca dispara retry automático
	mockClient.EXPECT().
		FetchHierarchy(gomock.Any(), "act_1").
		Return(&metaclient.FetchResult{
			Kind:       metaclient.FetchRateLimited,
			RetryAfter: 120 * time.Second,
		}, nil)

	_, err := service.StartSession(context.Background(), "act_1", nil, false)
	require.Error(t, err)

	rateLimited, ok := IsRateLimited(err)
	require.True(t, ok)
	assert.Equal(t, 120*time.Second, rateLimited.RetryAfter)
}

func TestStartSession_TransportFailureFallsBackToCachedAudit(t *testing.T) {
	service, mockClient, mockAuditRepo := newTestService(t)

	mockClient.EXPECT().
		FetchHierarchy(gomock.Any(), "act_1").
		Return(&metaclient.FetchResult{Kind: metaclient.FetchFailure, Reason: "network down"}, nil).
		Times(3)

	cachedSnapshot := &domain.AccountSnapshot{
		AccountID: "act_1",
		Campaigns: []*domain.Campaign{{ID: "old", Name: "Antiga", Status: "ACTIVE"}},
		FetchedAt: time.Now().Add(-24 * time.Hour),
	}
	mockAuditRepo.EXPECT().
		LatestByAccountID("act_1").
		Return(&domain.AuditEntry{ID: "aud1", AccountID: "act_1", Snapshot: cachedSnapshot}, nil)

	session, err := service.StartSession(context.Background(), "act_1", nil, false)
	require.NoError(t, err)
	assert.Same(t, cachedSnapshot, session.Snapshot())
}

func TestStartSession_TransportFailureWithoutCache(t *testing.T) {
	service, mockClient, mockAuditRepo := newTestService(t)

	mockClient.EXPECT().
		FetchHierarchy(gomock.Any(), "act_1").
		Return(&metaclient.FetchResult{Kind: metaclient.FetchFailure, Reason: "network down"}, nil).
		Times(3)

	mockAuditRepo.EXPECT().
		LatestByAccountID("act_1").
		Return(nil, nil)

	_, err := service.StartSession(context.Background(), "act_1", nil, false)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestStartSession_MissingCredentialsIsImmediatelyFatal(t *testing.T) {
	service, mockClient, _ := newTestService(t)

	// Sem credencial não há retry: uma chamada e o erro sobe intacto
	mockClient.EXPECT().
		FetchHierarchy(gomock.Any(), "act_1").
		Return(nil, metaclient.ErrCredentialsMissing)

	_, err := service.StartSession(context.Background(), "act_1", nil, false)
	assert.ErrorIs(t, err, metaclient.ErrCredentialsMissing)
}

func TestStartSession_DemoFallsBackToSampleAfterExhaustedRetries(t *testing.T) {
	service, mockClient, mockAuditRepo := newTestService(t)

	mockClient.EXPECT().
		FetchHierarchy(gomock.Any(), "act_1").
		Return(&metaclient.FetchResult{Kind: metaclient.FetchFailure, Reason: "network down"}, nil).
		Times(3)

	mockAuditRepo.EXPECT().
		LatestByAccountID("act_1").
		Return(nil, nil)

	session, err := service.StartSession(context.Background(), "act_1", nil, true)
	require.NoError(t, err)
	assert.True(t, session.Demo)

	// Dados de exemplo sinalizados e nunca persistidos
	snapshot := session.Snapshot()
	assert.True(t, snapshot.Sample)
	assert.NotEmpty(t, snapshot.Campaigns)
}

func TestStartSession_DemoStillSurfacesRateLimit(t *testing.T) {
	service, mockClient, _ := newTestService(t)

	mockClient.EXPECT().
		FetchHierarchy(gomock.Any(), "act_1").
		Return(&metaclient.FetchResult{Kind: metaclient.FetchRateLimited, RetryAfter: 60 * time.Second}, nil)

	// Demo só cobre falhas definitivas de transporte; rate limit continua
	// chegando ao chamador com a contagem
	_, err := service.StartSession(context.Background(), "act_1", nil, true)
	rateLimited, ok := IsRateLimited(err)
	require.True(t, ok)
	assert.Equal(t, 60*time.Second, rateLimited.RetryAfter)
}

func TestStartSession_MalformedRootIsTerminal(t *testing.T) {
	service, mockClient, _ := newTestService(t)

	// Só uma chamada: repetir devolveria o mesmo payload quebrado
	mockClient.EXPECT().
		FetchHierarchy(gomock.Any(), "act_1").
		Return(&metaclient.FetchResult{Kind: metaclient.FetchOK, Payload: []byte(`{"data":{"id":"1"}}`)}, nil)

	_, err := service.StartSession(context.Background(), "act_1", nil, false)
	require.Error(t, err)
}

func TestStartSession_SampleAccountSkipsUpstream(t *testing.T) {
	service, _, _ := newTestService(t)

	// Nenhuma expectativa no client: conta demo não toca o upstream
	session, err := service.StartSession(context.Background(), "demo", nil, false)
	require.NoError(t, err)

	snapshot := session.Snapshot()
	assert.True(t, snapshot.Sample)
	require.Len(t, snapshot.Campaigns, 2)
	assert.Equal(t, "Summer Sale", snapshot.Campaigns[0].Name)
	assert.Equal(t, "Brand Awareness", snapshot.Campaigns[1].Name)

	// O payload de demonstração passa pelo normalizador real
	assert.Greater(t, snapshot.Metrics.Spend, 0.0)
	assert.Greater(t, snapshot.Metrics.Conversions, 0)
}

func TestRefresh_ResetsNavigationToRoot(t *testing.T) {
	service, mockClient, mockAuditRepo := newTestService(t)

	mockClient.EXPECT().
		FetchHierarchy(gomock.Any(), "act_1").
		Return(&metaclient.FetchResult{Kind: metaclient.FetchOK, Payload: []byte(validPayload)}, nil).
		Times(2)

	mockAuditRepo.EXPECT().
		Save(gomock.Any()).
		Return(nil).
		Times(2)

	session, err := service.StartSession(context.Background(), "act_1", nil, false)
	require.NoError(t, err)
	require.NoError(t, session.DrillDown("c1"))
	require.Equal(t, 1, session.Depth())

	refreshed, err := service.Refresh(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, refreshed.Depth())
}

func TestRefresh_FailureKeepsPreviousSnapshot(t *testing.T) {
	service, mockClient, mockAuditRepo := newTestService(t)

	mockClient.EXPECT().
		FetchHierarchy(gomock.Any(), "act_1").
		Return(&metaclient.FetchResult{Kind: metaclient.FetchOK, Payload: []byte(validPayload)}, nil)

	mockAuditRepo.EXPECT().
		Save(gomock.Any()).
		Return(nil)

	session, err := service.StartSession(context.Background(), "act_1", nil, false)
	require.NoError(t, err)
	previous := session.Snapshot()
	require.NoError(t, session.DrillDown("c1"))

	mockClient.EXPECT().
		FetchHierarchy(gomock.Any(), "act_1").
		Return(&metaclient.FetchResult{
			Kind:       metaclient.FetchRateLimited,
			RetryAfter: 60 * time.Second,
		}, nil)

	_, err = service.Refresh(context.Background(), session.ID)
	require.Error(t, err)

	// Snapshot e trilha seguem intactos
	assert.Same(t, previous, session.Snapshot())
	assert.Equal(t, 1, session.Depth())
}

func TestRecommendations_FallbackThenExternal(t *testing.T) {
	service, mockClient, mockAuditRepo := newTestService(t)

	mockClient.EXPECT().
		FetchHierarchy(gomock.Any(), "act_1").
		Return(&metaclient.FetchResult{Kind: metaclient.FetchOK, Payload: []byte(validPayload)}, nil)

	mockAuditRepo.EXPECT().
		Save(gomock.Any()).
		Return(nil)

	session, err := service.StartSession(context.Background(), "act_1", nil, false)
	require.NoError(t, err)

	// Sem registro externo a síntese entra: gasto 500 com conversão 0.25%
	recs, source, err := service.Recommendations(session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceFallback, source)
	require.Len(t, recs, 1)
	assert.Equal(t, "c1", recs[0].TargetID)

	// Registro externo vazio passa a valer, sem mistura com a síntese
	require.NoError(t, service.RegisterExternalRecommendations(session.ID, []domain.Recommendation{}))

	recs, source, err = service.Recommendations(session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceExternal, source)
	assert.Empty(t, recs)
}

func TestOverview_AggregatesSessionSnapshot(t *testing.T) {
	service, mockClient, mockAuditRepo := newTestService(t)

	mockClient.EXPECT().
		FetchHierarchy(gomock.Any(), "act_1").
		Return(&metaclient.FetchResult{Kind: metaclient.FetchOK, Payload: []byte(validPayload)}, nil)

	mockAuditRepo.EXPECT().
		Save(gomock.Any()).
		Return(nil)

	session, err := service.StartSession(context.Background(), "act_1", nil, false)
	require.NoError(t, err)

	overview, err := service.Overview(session.ID)
	require.NoError(t, err)

	assert.Equal(t, "act_1", overview.AccountID)
	assert.Equal(t, 500.0, overview.Metrics.Spend)
	assert.Equal(t, 1, overview.ActiveCampaignCount)
	// 15% do gasto da campanha sinalizada
	assert.Equal(t, 75.0, overview.EstimatedSavings)
}

func TestRunAudit_PersistsEntry(t *testing.T) {
	service, mockClient, mockAuditRepo := newTestService(t)

	mockClient.EXPECT().
		FetchHierarchy(gomock.Any(), "act_1").
		Return(&metaclient.FetchResult{Kind: metaclient.FetchOK, Payload: []byte(validPayload)}, nil)

	clientID := "cli1"
	var saved *domain.AuditEntry
	mockAuditRepo.EXPECT().
		Save(gomock.Any()).
		DoAndReturn(func(entry *domain.AuditEntry) error {
			saved = entry
			return nil
		})

	entry, err := service.RunAudit(context.Background(), "act_1", &clientID)
	require.NoError(t, err)

	assert.Same(t, saved, entry)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "act_1", entry.AccountID)
	assert.Equal(t, &clientID, entry.ClientID)
	assert.Equal(t, domain.SourceFallback, entry.Source)
	require.Len(t, entry.Recommendations, 1)
	assert.Equal(t, 75.0, entry.EstimatedSavings)
}

func TestGetAudit_NotFound(t *testing.T) {
	service, _, mockAuditRepo := newTestService(t)

	mockAuditRepo.EXPECT().
		GetByID("missing").
		Return(nil, nil)

	_, err := service.GetAudit("missing")
	assert.ErrorIs(t, err, ErrAuditNotFound)
}
