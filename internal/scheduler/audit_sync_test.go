package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ad-auditor-api/infrastructure/repository/mocks"
	"github.com/vfg2006/ad-auditor-api/internal/domain"
	auditingmocks "github.com/vfg2006/ad-auditor-api/internal/usecases/auditing/mocks"
	"go.uber.org/mock/gomock"
)

func stringPtr(s string) *string { return &s }

func TestAuditSyncService_processClients(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	mockAuditor := auditingmocks.NewMockAuditor(ctrl)

	service := &AuditSyncService{
		config:     AuditSyncConfig{RequestDelaySeconds: 0},
		clientRepo: mockClientRepo,
		auditor:    mockAuditor,
	}

	tests := []struct {
		name     string
		clients  []*domain.ClientRecord
		setup    func()
		expected int
	}{
		{
			name: "Cliente com conta vinculada é auditado",
			clients: []*domain.ClientRecord{
				{ID: "cli1", Name: "Loja A", AccountID: stringPtr("act_1"), AutoSync: true},
			},
			setup: func() {
				mockAuditor.EXPECT().
					RunAudit(gomock.Any(), "act_1", gomock.Any()).
					Return(&domain.AuditEntry{ID: "aud1", AccountID: "act_1"}, nil)
			},
			expected: 1,
		},
		{
			name: "Cliente sem conta vinculada é pulado",
			clients: []*domain.ClientRecord{
				{ID: "cli2", Name: "Loja B", AutoSync: true},
			},
			setup:    func() {},
			expected: 0,
		},
		{
			name: "Erro em um cliente não interrompe os demais",
			clients: []*domain.ClientRecord{
				{ID: "cli3", Name: "Loja C", AccountID: stringPtr("act_3"), AutoSync: true},
				{ID: "cli4", Name: "Loja D", AccountID: stringPtr("act_4"), AutoSync: true},
			},
			setup: func() {
				mockAuditor.EXPECT().
					RunAudit(gomock.Any(), "act_3", gomock.Any()).
					Return(nil, assert.AnError)
				mockAuditor.EXPECT().
					RunAudit(gomock.Any(), "act_4", gomock.Any()).
					Return(&domain.AuditEntry{ID: "aud4", AccountID: "act_4"}, nil)
			},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			audited := service.processClients(context.Background(), tt.clients)
			assert.Equal(t, tt.expected, audited)
		})
	}
}

func TestAuditSyncService_pruneOldAudits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuditRepo := mocks.NewMockAuditRepository(ctrl)
	mockAuditRepo.EXPECT().DeleteOlderThan(90).Return(int64(3), nil)

	service := &AuditSyncService{
		config:    AuditSyncConfig{RetentionDays: 90},
		auditRepo: mockAuditRepo,
	}

	service.pruneOldAudits()
}

func TestAuditSyncService_pruneSkippedWithoutRetention(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Sem janela configurada o repositório nem é consultado
	mockAuditRepo := mocks.NewMockAuditRepository(ctrl)

	service := &AuditSyncService{
		config:    AuditSyncConfig{RetentionDays: 0},
		auditRepo: mockAuditRepo,
	}

	service.pruneOldAudits()
}

func TestAuditSyncService_StartDisabled(t *testing.T) {
	service := &AuditSyncService{
		config: AuditSyncConfig{SyncEnabled: false},
	}

	// Desabilitado: Start não agenda nada e não falha
	assert.NoError(t, service.Start(context.Background()))
}

func TestAuditSyncService_GetStatus(t *testing.T) {
	now := time.Now()
	service := &AuditSyncService{
		config: AuditSyncConfig{
			SyncEnabled:         true,
			CronSchedule:        "0 3 * * *",
			RequestDelaySeconds: 2,
		},
		lastSyncStartedAt: now,
	}

	status := service.GetStatus()
	assert.Equal(t, true, status["sync_enabled"])
	assert.Equal(t, "0 3 * * *", status["sync_cron"])
	assert.Equal(t, now, status["last_sync_started_at"])
}
