package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-auditor-api/infrastructure/repository"
	"github.com/vfg2006/ad-auditor-api/internal/config"
	"github.com/vfg2006/ad-auditor-api/internal/domain"
	"github.com/vfg2006/ad-auditor-api/internal/usecases/auditing"
)

// AuditSyncConfig representa a configuração do agendador de auditorias
type AuditSyncConfig struct {
	CronSchedule        string
	RequestDelaySeconds int
	SyncEnabled         bool
	RetentionDays       int
}

// AuditSyncService agenda e executa auditorias automáticas para os clientes
// com sincronização habilitada
type AuditSyncService struct {
	scheduler           *gocron.Scheduler
	config              AuditSyncConfig
	clientRepo          repository.ClientRepository
	auditRepo           repository.AuditRepository
	auditor             auditing.Auditor
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

// NewAuditSyncService cria uma nova instância do serviço de sincronização de auditorias
func NewAuditSyncService(
	clientRepo repository.ClientRepository,
	auditRepo repository.AuditRepository,
	auditor auditing.Auditor,
	appConfig *config.Config,
) *AuditSyncService {
	syncConfig := AuditSyncConfig{
		CronSchedule:        appConfig.AuditSync.CronSchedule,
		RequestDelaySeconds: appConfig.AuditSync.RequestDelaySeconds,
		SyncEnabled:         appConfig.AuditSync.Enabled,
		RetentionDays:       appConfig.AuditSync.RetentionDays,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":         syncConfig.CronSchedule,
		"request_delay_seconds": syncConfig.RequestDelaySeconds,
		"sync_enabled":          syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de auditorias carregada")

	return &AuditSyncService{
		scheduler:  scheduler,
		config:     syncConfig,
		clientRepo: clientRepo,
		auditRepo:  auditRepo,
		auditor:    auditor,
	}
}

// Start inicia o agendador
func (s *AuditSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de auditorias desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de auditorias")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllClientAudits(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de auditorias: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de auditorias")
		s.scheduler.Stop()
	}()

	return nil
}

// syncAllClientAudits audita todas as contas de clientes com auto_sync ativo
func (s *AuditSyncService) syncAllClientAudits(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de auditorias já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando sincronização de auditorias para clientes com auto_sync")

	clients, err := s.clientRepo.ListAutoSync()
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar clientes para sincronização de auditorias")
		return
	}

	if len(clients) == 0 {
		logrus.Info("Nenhum cliente com auto_sync para auditar")
		return
	}

	audited := s.processClients(ctx, clients)

	s.pruneOldAudits()

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"duration": duration.String(),
		"clients":  len(clients),
		"audited":  audited,
	}).Info("Sincronização de auditorias concluída")

	s.lastSyncCompletedAt = time.Now()
}

// processClients audita os clientes em sequência, com pausa entre contas para
// não sobrecarregar o upstream
func (s *AuditSyncService) processClients(ctx context.Context, clients []*domain.ClientRecord) int {
	audited := 0

	for _, client := range clients {
		if client.AccountID == nil || *client.AccountID == "" {
			logrus.WithField("client_id", client.ID).Warn("Cliente sem conta vinculada. Pulando.")
			continue
		}

		if s.auditClient(ctx, client) {
			audited++
		}

		time.Sleep(time.Duration(s.config.RequestDelaySeconds) * time.Second)
	}

	return audited
}

func (s *AuditSyncService) auditClient(ctx context.Context, client *domain.ClientRecord) bool {
	logrus.WithFields(logrus.Fields{
		"client_id":   client.ID,
		"client_name": client.Name,
		"account_id":  *client.AccountID,
	}).Info("Auditando conta do cliente")

	entry, err := s.auditor.RunAudit(ctx, *client.AccountID, &client.ID)
	if err != nil {
		// Rate limit adia a conta inteira para a próxima rodada
		if rateLimited, ok := auditing.IsRateLimited(err); ok {
			logrus.WithFields(logrus.Fields{
				"client_id":   client.ID,
				"account_id":  *client.AccountID,
				"retry_after": rateLimited.RetryAfter.String(),
			}).Warn("Auditoria adiada por rate limit do upstream")
			return false
		}

		logrus.WithFields(logrus.Fields{
			"client_id":  client.ID,
			"account_id": *client.AccountID,
			"error":      err.Error(),
		}).Error("Erro ao auditar conta do cliente")
		return false
	}

	logrus.WithFields(logrus.Fields{
		"client_id":         client.ID,
		"audit_id":          entry.ID,
		"recommendations":   len(entry.Recommendations),
		"estimated_savings": entry.EstimatedSavings,
	}).Info("Auditoria do cliente concluída")

	return true
}

// pruneOldAudits remove auditorias além da janela de retenção configurada
func (s *AuditSyncService) pruneOldAudits() {
	if s.auditRepo == nil || s.config.RetentionDays <= 0 {
		return
	}

	removed, err := s.auditRepo.DeleteOlderThan(s.config.RetentionDays)
	if err != nil {
		logrus.WithError(err).Error("Erro ao remover auditorias antigas")
		return
	}

	if removed > 0 {
		logrus.WithFields(logrus.Fields{
			"removed":        removed,
			"retention_days": s.config.RetentionDays,
		}).Info("Auditorias antigas removidas")
	}
}

// TriggerManualSync inicia manualmente uma rodada de auditorias
func (s *AuditSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de auditorias já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando sincronização manual de auditorias")
	go s.syncAllClientAudits(context.Background())
}

// GetStatus retorna o status atual do agendador
func (s *AuditSyncService) GetStatus() map[string]any {
	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_request_delay_s":   s.config.RequestDelaySeconds,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
