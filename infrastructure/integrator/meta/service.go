package meta

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-auditor-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ad-auditor-api/internal/config"
)

// MetaIntegrator expõe o controlador de busca da hierarquia para os usecases
type MetaIntegrator struct {
	cfg    *config.Config
	Client metaclient.Client
}

func New(cfg *config.Config, client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// FetchHierarchy dispara uma única busca classificada da hierarquia da conta
func (s *MetaIntegrator) FetchHierarchy(ctx context.Context, accountID string) (*metaclient.FetchResult, error) {
	result, err := s.Client.FetchHierarchy(ctx, accountID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Error("hierarchy: failed to issue hierarchy request")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"kind":       string(result.Kind),
	}).Debug("hierarchy: upstream response classified")

	return result, nil
}

// NewRetryPolicy cria a política de retry limitada configurada para a conta
func (s *MetaIntegrator) NewRetryPolicy() *metaclient.RetryPolicy {
	return metaclient.NewRetryPolicy(s.cfg.Meta.MaxFetchAttempts)
}
