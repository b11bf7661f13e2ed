package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-auditor-api/infrastructure/repository/mocks"
	"github.com/vfg2006/ad-auditor-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func stringPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestCreate_GeneratesIDAndPersists(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	mockAuditRepo := mocks.NewMockAuditRepository(ctrl)

	service := NewService(mockClientRepo, mockAuditRepo)

	var saved *domain.ClientRecord
	mockClientRepo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(client *domain.ClientRecord) error {
			saved = client
			return nil
		})

	client, err := service.Create(&domain.ClientRecord{Name: "Loja Azul", UserID: 7})
	require.NoError(t, err)

	assert.NotEmpty(t, client.ID)
	assert.Same(t, saved, client)
}

func TestCreate_RequiresName(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewService(mocks.NewMockClientRepository(ctrl), mocks.NewMockAuditRepository(ctrl))

	_, err := service.Create(&domain.ClientRecord{UserID: 7})
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestUpdate_AppliesOnlyProvidedFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	service := NewService(mockClientRepo, mocks.NewMockAuditRepository(ctrl))

	existing := &domain.ClientRecord{
		ID:     "cli1",
		Name:   "Loja Azul",
		Email:  stringPtr("contato@azul.com"),
		UserID: 7,
	}

	mockClientRepo.EXPECT().GetByID("cli1").Return(existing, nil)
	mockClientRepo.EXPECT().Update(gomock.Any()).Return(nil)

	updated, err := service.Update(&domain.UpdateClientRequest{
		ID:        "cli1",
		Name:      stringPtr("Loja Verde"),
		AccountID: stringPtr("act_99"),
		AutoSync:  boolPtr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, "Loja Verde", updated.Name)
	assert.Equal(t, "act_99", *updated.AccountID)
	assert.True(t, updated.AutoSync)
	// Campos não informados permanecem
	assert.Equal(t, "contato@azul.com", *updated.Email)
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	service := NewService(mockClientRepo, mocks.NewMockAuditRepository(ctrl))

	mockClientRepo.EXPECT().GetByID("missing").Return(nil, nil)

	_, err := service.Get("missing")
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestListAudits_ChecksClientExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	mockAuditRepo := mocks.NewMockAuditRepository(ctrl)
	service := NewService(mockClientRepo, mockAuditRepo)

	mockClientRepo.EXPECT().GetByID("cli1").Return(&domain.ClientRecord{ID: "cli1", Name: "Loja"}, nil)
	mockAuditRepo.EXPECT().ListByClientID("cli1", 10).Return([]*domain.AuditEntry{{ID: "aud1"}}, nil)

	audits, err := service.ListAudits("cli1", 10)
	require.NoError(t, err)
	assert.Len(t, audits, 1)
}
