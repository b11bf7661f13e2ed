package clients

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-auditor-api/infrastructure/repository"
	"github.com/vfg2006/ad-auditor-api/internal/domain"
	"github.com/vfg2006/ad-auditor-api/pkg/utils"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrMissingName    = errors.New("client name is required")
)

// Manager administra o cadastro de clientes da agência e o histórico de
// auditorias de cada um
type Manager interface {
	Create(client *domain.ClientRecord) (*domain.ClientRecord, error)
	Get(id string) (*domain.ClientRecord, error)
	ListByUser(userID int) ([]*domain.ClientRecord, error)
	Update(req *domain.UpdateClientRequest) (*domain.ClientRecord, error)
	Delete(id string) error
	ListAudits(clientID string, limit int) ([]*domain.AuditEntry, error)
}

type Service struct {
	clientRepo repository.ClientRepository
	auditRepo  repository.AuditRepository
}

func NewService(clientRepo repository.ClientRepository, auditRepo repository.AuditRepository) Manager {
	return &Service{
		clientRepo: clientRepo,
		auditRepo:  auditRepo,
	}
}

func (s *Service) Create(client *domain.ClientRecord) (*domain.ClientRecord, error) {
	if client.Name == "" {
		return nil, ErrMissingName
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar o id do cliente")
	}
	client.ID = id

	if err := s.clientRepo.Create(client); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"client_id": client.ID,
		"user_id":   client.UserID,
	}).Info("clients: client created")

	return client, nil
}

func (s *Service) Get(id string) (*domain.ClientRecord, error) {
	client, err := s.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if client == nil {
		return nil, errors.Wrap(ErrClientNotFound, id)
	}

	return client, nil
}

func (s *Service) ListByUser(userID int) ([]*domain.ClientRecord, error) {
	return s.clientRepo.ListByUserID(userID)
}

func (s *Service) Update(req *domain.UpdateClientRequest) (*domain.ClientRecord, error) {
	client, err := s.Get(req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}

	if req.Email != nil {
		client.Email = req.Email
	}

	if req.Website != nil {
		client.Website = req.Website
	}

	if req.Notes != nil {
		client.Notes = req.Notes
	}

	if req.AccountID != nil {
		client.AccountID = req.AccountID
	}

	if req.AutoSync != nil {
		client.AutoSync = *req.AutoSync
	}

	if err := s.clientRepo.Update(client); err != nil {
		return nil, err
	}

	return client, nil
}

func (s *Service) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	return s.clientRepo.Delete(id)
}

func (s *Service) ListAudits(clientID string, limit int) ([]*domain.AuditEntry, error) {
	if _, err := s.Get(clientID); err != nil {
		return nil, err
	}

	return s.auditRepo.ListByClientID(clientID, limit)
}
