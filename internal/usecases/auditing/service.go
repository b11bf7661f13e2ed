package auditing

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-auditor-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ad-auditor-api/infrastructure/repository"
	"github.com/vfg2006/ad-auditor-api/internal/config"
	"github.com/vfg2006/ad-auditor-api/internal/domain"
	"github.com/vfg2006/ad-auditor-api/internal/usecases/navigating"
	"github.com/vfg2006/ad-auditor-api/internal/usecases/normalizing"
	"github.com/vfg2006/ad-auditor-api/internal/usecases/recommending"
	"github.com/vfg2006/ad-auditor-api/pkg/utils"
)

// HierarchyFetcher é a fatia do integrador Meta que a auditoria consome
type HierarchyFetcher interface {
	FetchHierarchy(ctx context.Context, accountID string) (*metaclient.FetchResult, error)
	NewRetryPolicy() *metaclient.RetryPolicy
}

// Auditor orquestra o ciclo completo de uma auditoria: busca, normalização,
// sessão de navegação, recomendações e persistência
type Auditor interface {
	// StartSession audita a conta e abre uma sessão de navegação na raiz.
	// Com demo ativo, uma falha definitiva do upstream sem auditoria em
	// cache cai para o snapshot de exemplo em vez de erro.
	StartSession(ctx context.Context, accountID string, clientID *string, demo bool) (*navigating.Session, error)

	// GetSession recupera uma sessão viva pelo id
	GetSession(sessionID string) (*navigating.Session, error)

	// Refresh rebusca a conta da sessão. Em caso de falha o snapshot
	// anterior permanece intacto.
	Refresh(ctx context.Context, sessionID string) (*navigating.Session, error)

	// Overview monta o resumo agregado da conta da sessão
	Overview(sessionID string) (*domain.AccountOverview, error)

	// Recommendations resolve a lista final de recomendações da sessão
	Recommendations(sessionID string) ([]domain.Recommendation, domain.RecommendationSource, error)

	// RegisterExternalRecommendations registra a lista vinda da plataforma
	RegisterExternalRecommendations(sessionID string, recs []domain.Recommendation) error

	// GetAudit recupera uma auditoria persistida
	GetAudit(id string) (*domain.AuditEntry, error)

	// RunAudit executa uma auditoria completa sem abrir sessão. É o caminho
	// usado pela sincronização agendada.
	RunAudit(ctx context.Context, accountID string, clientID *string) (*domain.AuditEntry, error)
}

type Service struct {
	cfg         *config.Config
	hierarchy   HierarchyFetcher
	normalizer  *normalizing.Normalizer
	synthesizer recommending.Synthesizer
	sessions    navigating.Store
	auditRepo   repository.AuditRepository
}

func NewService(
	cfg *config.Config,
	hierarchy HierarchyFetcher,
	sessions navigating.Store,
	auditRepo repository.AuditRepository,
) *Service {
	return &Service{
		cfg:         cfg,
		hierarchy:   hierarchy,
		normalizer:  normalizing.NewNormalizer(),
		synthesizer: recommending.NewSynthesizer(),
		sessions:    sessions,
		auditRepo:   auditRepo,
	}
}

func (s *Service) StartSession(ctx context.Context, accountID string, clientID *string, demo bool) (*navigating.Session, error) {
	snapshot, cached, err := s.fetchSnapshot(ctx, accountID, demo)
	if err != nil {
		return nil, err
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar o id da sessão")
	}

	session := navigating.NewSession(id, accountID, snapshot)
	session.Demo = demo
	s.sessions.Put(session)

	if !cached {
		s.persistAudit(snapshot, clientID)
	}

	logrus.WithFields(logrus.Fields{
		"session_id": session.ID,
		"account_id": accountID,
		"sample":     snapshot.Sample,
	}).Info("audit: session started")

	return session, nil
}

func (s *Service) GetSession(sessionID string) (*navigating.Session, error) {
	return s.sessions.Get(sessionID)
}

func (s *Service) Refresh(ctx context.Context, sessionID string) (*navigating.Session, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	seq := session.BeginRefresh()

	snapshot, cached, err := s.fetchSnapshot(ctx, session.AccountID, session.Demo)
	if err != nil {
		// O snapshot vigente continua válido para navegação
		logrus.WithFields(logrus.Fields{
			"session_id": sessionID,
			"account_id": session.AccountID,
			"error":      err.Error(),
		}).Warn("audit: refresh failed, keeping previous snapshot")
		return nil, err
	}

	if !session.ApplyRefresh(seq, snapshot) {
		logrus.WithFields(logrus.Fields{
			"session_id": sessionID,
			"seq":        seq,
		}).Warn("audit: stale refresh response discarded")
		return session, nil
	}

	if !cached {
		s.persistAudit(snapshot, nil)
	}

	return session, nil
}

func (s *Service) Overview(sessionID string) (*domain.AccountOverview, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	snapshot := session.Snapshot()
	recs, _, err := s.Recommendations(sessionID)
	if err != nil {
		return nil, err
	}

	return &domain.AccountOverview{
		AccountID:           snapshot.AccountID,
		Metrics:             snapshot.Metrics,
		ActiveCampaignCount: snapshot.ActiveCampaignCount,
		EstimatedSavings:    recommending.TotalEstimatedSavings(recs),
		Sample:              snapshot.Sample,
		FetchedAt:           snapshot.FetchedAt,
	}, nil
}

func (s *Service) Recommendations(sessionID string) ([]domain.Recommendation, domain.RecommendationSource, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, "", err
	}

	external, registered := session.ExternalRecommendations()
	recs, source := recommending.Resolve(external, registered, session.Snapshot(), s.synthesizer)
	return recs, source, nil
}

func (s *Service) RegisterExternalRecommendations(sessionID string, recs []domain.Recommendation) error {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}

	session.SetExternalRecommendations(recs)
	return nil
}

func (s *Service) GetAudit(id string) (*domain.AuditEntry, error) {
	if s.auditRepo == nil {
		return nil, ErrAuditNotFound
	}

	entry, err := s.auditRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if entry == nil {
		return nil, errors.Wrap(ErrAuditNotFound, id)
	}

	return entry, nil
}

func (s *Service) RunAudit(ctx context.Context, accountID string, clientID *string) (*domain.AuditEntry, error) {
	snapshot, cached, err := s.fetchSnapshot(ctx, accountID, false)
	if err != nil {
		return nil, err
	}

	if cached {
		// Já existe no repositório; repersistir só duplicaria a entrada
		return s.auditRepo.LatestByAccountID(accountID)
	}

	entry, err := s.buildAuditEntry(snapshot, clientID)
	if err != nil {
		return nil, err
	}

	if s.auditRepo != nil {
		if err := s.auditRepo.Save(entry); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

// fetchSnapshot executa o ciclo completo do controlador de busca: dispara
// tentativas limitadas pela política, classifica cada resposta e, com as
// tentativas esgotadas, cai para a última auditoria persistida da conta —
// ou, em modo demo, para o snapshot de exemplo.
func (s *Service) fetchSnapshot(ctx context.Context, accountID string, demo bool) (*domain.AccountSnapshot, bool, error) {
	if isSampleAccount(accountID) {
		snapshot, err := s.sampleSnapshot(accountID)
		return snapshot, false, err
	}

	policy := s.hierarchy.NewRetryPolicy()
	var lastReason string

	for policy.Begin() {
		result, err := s.hierarchy.FetchHierarchy(ctx, accountID)
		if err != nil {
			return nil, false, err
		}

		switch result.Kind {
		case metaclient.FetchOK:
			snapshot, err := s.normalizer.Normalize(result.Payload, accountID)
			if err != nil {
				// Raiz malformada é terminal: repetir a chamada devolveria
				// o mesmo payload
				return nil, false, err
			}
			return snapshot, false, nil

		case metaclient.FetchRateLimited:
			policy.NoteRateLimited(result.RetryAfter)
			return nil, false, &RateLimitedError{RetryAfter: result.RetryAfter}

		default:
			lastReason = result.Reason
			logrus.WithFields(logrus.Fields{
				"account_id": accountID,
				"attempt":    policy.Attempts(),
				"reason":     result.Reason,
			}).Warn("audit: hierarchy fetch attempt failed")
		}
	}

	return s.cachedSnapshot(accountID, lastReason, demo)
}

// cachedSnapshot serve a última auditoria persistida quando o upstream
// falhou de forma definitiva. Sem auditoria em cache, o modo demo ainda
// entrega o snapshot de exemplo no lugar do erro.
func (s *Service) cachedSnapshot(accountID, lastReason string, demo bool) (*domain.AccountSnapshot, bool, error) {
	if s.auditRepo != nil {
		entry, err := s.auditRepo.LatestByAccountID(accountID)
		if err == nil && entry != nil && entry.Snapshot != nil {
			logrus.WithFields(logrus.Fields{
				"account_id": accountID,
				"audit_id":   entry.ID,
				"audited_at": entry.CreatedAt,
			}).Warn("audit: serving cached audit after upstream failure")
			return entry.Snapshot, true, nil
		}
	}

	if demo {
		logrus.WithField("account_id", accountID).
			Warn("audit: serving sample data after upstream failure (demo mode)")
		snapshot, err := s.sampleSnapshot(accountID)
		return snapshot, false, err
	}

	if lastReason != "" {
		return nil, false, errors.Wrap(ErrUpstreamUnavailable, lastReason)
	}

	return nil, false, ErrUpstreamUnavailable
}

func (s *Service) sampleSnapshot(accountID string) (*domain.AccountSnapshot, error) {
	snapshot, err := s.normalizer.Normalize([]byte(samplePayload), accountID)
	if err != nil {
		return nil, err
	}

	snapshot.Sample = true
	return snapshot, nil
}

func (s *Service) buildAuditEntry(snapshot *domain.AccountSnapshot, clientID *string) (*domain.AuditEntry, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar o id da auditoria")
	}

	recs := s.synthesizer.Synthesize(snapshot)

	return &domain.AuditEntry{
		ID:               id,
		AccountID:        snapshot.AccountID,
		ClientID:         clientID,
		Snapshot:         snapshot,
		Recommendations:  recs,
		Source:           domain.SourceFallback,
		EstimatedSavings: recommending.TotalEstimatedSavings(recs),
		CreatedAt:        time.Now(),
	}, nil
}

// persistAudit guarda a auditoria sem bloquear o fluxo principal: falha de
// persistência não derruba uma sessão que já tem snapshot em mãos
func (s *Service) persistAudit(snapshot *domain.AccountSnapshot, clientID *string) {
	if s.auditRepo == nil || snapshot.Sample {
		return
	}

	entry, err := s.buildAuditEntry(snapshot, clientID)
	if err != nil {
		logrus.WithError(err).Warn("audit: failed to build audit entry for persistence")
		return
	}

	if err := s.auditRepo.Save(entry); err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": snapshot.AccountID,
			"error":      err.Error(),
		}).Warn("audit: failed to persist audit entry")
	}
}
