package normalizing

import (
	"math"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-auditor-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrMalformedRoot indica que a estrutura raiz do payload não é uma coleção
// de campanhas. Falha estrutural na raiz é terminal: nenhuma árvore parcial
// é exposta.
var ErrMalformedRoot = errors.New("payload com raiz malformada")

// Normalizer converte o payload bruto do upstream na árvore canônica
// Conta → Campanha → Conjunto → Anúncio. Toda a tolerância a nomes de campo
// inconsistentes vive aqui: nada abaixo volta a decidir sobre formato bruto.
type Normalizer struct {
	now func() time.Time
}

func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// Normalize valida a raiz do payload e monta um AccountSnapshot imutável.
// Registro filho malformado é tolerado (vira nó default e os irmãos seguem);
// raiz malformada aborta com ErrMalformedRoot.
func (n *Normalizer) Normalize(payload []byte, accountID string) (*domain.AccountSnapshot, error) {
	records, err := rootRecords(payload)
	if err != nil {
		return nil, err
	}

	campaigns := make([]*domain.Campaign, 0, len(records))
	activeCount := 0
	defaulted := 0

	for i, raw := range records {
		record, ok := raw.(map[string]any)
		if !ok {
			// Campanha malformada: coagida a default, irmãs continuam
			logrus.WithFields(logrus.Fields{
				"account_id": accountID,
				"index":      i,
			}).Warn("normalize: malformed campaign record defaulted")

			campaigns = append(campaigns, defaultCampaign())
			defaulted++
			continue
		}

		campaigns = append(campaigns, n.normalizeCampaign(record, &defaulted))
	}

	for _, c := range campaigns {
		if domain.IsActive(c.Status) {
			activeCount++
		}
	}

	summaries := make([]domain.MetricSet, 0, len(campaigns))
	for _, c := range campaigns {
		summaries = append(summaries, c.Metrics)
	}

	snapshot := &domain.AccountSnapshot{
		AccountID:           accountID,
		Campaigns:           campaigns,
		Metrics:             domain.AggregateMetrics(summaries),
		ActiveCampaignCount: activeCount,
		FetchedAt:           n.now(),
	}

	logrus.WithFields(logrus.Fields{
		"account_id":        accountID,
		"campaigns":         len(campaigns),
		"defaulted_records": defaulted,
	}).Info("normalize: snapshot built")

	return snapshot, nil
}

// rootRecords valida o formato de sucesso da raiz e extrai a coleção de
// campanhas. Aceita a forma paginada do Graph ({"data": [...]}), o envelope
// {"success": true, "campaigns": [...]} e a lista direta.
func rootRecords(payload []byte) ([]any, error) {
	var root any
	if err := json.Unmarshal(payload, &root); err != nil {
		return nil, errors.Wrap(ErrMalformedRoot, "payload não é JSON válido")
	}

	switch value := root.(type) {
	case []any:
		return value, nil

	case map[string]any:
		if success, present := value["success"].(bool); present && !success {
			return nil, errors.Wrap(ErrMalformedRoot, "upstream indicou falha no payload")
		}

		for _, key := range []string{"data", "campaigns"} {
			raw, present := value[key]
			if !present {
				continue
			}

			list, ok := raw.([]any)
			if !ok {
				return nil, errors.Wrapf(ErrMalformedRoot, "campo %q não é uma coleção", key)
			}

			return list, nil
		}

		return nil, errors.Wrap(ErrMalformedRoot, "nenhuma coleção de campanhas encontrada")

	default:
		return nil, errors.Wrap(ErrMalformedRoot, "raiz não é objeto nem coleção")
	}
}

func (n *Normalizer) normalizeCampaign(record map[string]any, defaulted *int) *domain.Campaign {
	campaign := &domain.Campaign{
		ID:        stringField(record, "id", "campaign_id"),
		Name:      stringField(record, "name", "campaign_name"),
		Status:    stringField(record, "status", "effective_status"),
		Objective: stringField(record, "objective"),
		Metrics:   resolveMetrics(record),
	}

	for _, raw := range childRecords(record, "adsets", "ad_sets", "adSets") {
		child, ok := raw.(map[string]any)
		if !ok {
			logrus.WithField("campaign_id", campaign.ID).Warn("normalize: malformed ad set record defaulted")
			campaign.AdSets = append(campaign.AdSets, defaultAdSet(campaign))
			*defaulted++
			continue
		}

		campaign.AdSets = append(campaign.AdSets, n.normalizeAdSet(child, campaign, defaulted))
	}

	// Preenchimento de baixo para cima: campanha sem contadores próprios
	// herda a soma dos conjuntos
	if !campaign.Metrics.HasCounters() && len(campaign.AdSets) > 0 {
		children := make([]domain.MetricSet, 0, len(campaign.AdSets))
		for _, as := range campaign.AdSets {
			children = append(children, as.Metrics)
		}
		campaign.Metrics = domain.AggregateMetrics(children)
	}

	return campaign
}

func (n *Normalizer) normalizeAdSet(record map[string]any, parent *domain.Campaign, defaulted *int) *domain.AdSet {
	adset := &domain.AdSet{
		ID:     stringField(record, "id", "adset_id"),
		Name:   stringField(record, "name", "adset_name"),
		Status: stringField(record, "status", "effective_status"),

		// Referências ao pai vêm da posição na árvore, nunca do registro
		// bruto: os campos brutos faltam ou mentem com frequência
		CampaignID:   parent.ID,
		CampaignName: parent.Name,

		Metrics: resolveMetrics(record),
	}

	for _, raw := range childRecords(record, "ads") {
		child, ok := raw.(map[string]any)
		if !ok {
			logrus.WithField("adset_id", adset.ID).Warn("normalize: malformed ad record defaulted")
			adset.Ads = append(adset.Ads, defaultAd(adset))
			*defaulted++
			continue
		}

		adset.Ads = append(adset.Ads, normalizeAd(child, adset))
	}

	if !adset.Metrics.HasCounters() && len(adset.Ads) > 0 {
		children := make([]domain.MetricSet, 0, len(adset.Ads))
		for _, ad := range adset.Ads {
			children = append(children, ad.Metrics)
		}
		adset.Metrics = domain.AggregateMetrics(children)
	}

	return adset
}

func normalizeAd(record map[string]any, parent *domain.AdSet) *domain.Ad {
	return &domain.Ad{
		ID:     stringField(record, "id", "ad_id"),
		Name:   stringField(record, "name", "ad_name"),
		Status: stringField(record, "status", "effective_status"),

		AdSetID:    parent.ID,
		CampaignID: parent.CampaignID,

		Metrics: resolveMetrics(record),
	}
}

// resolveMetrics aplica a tabela de prioridade a cada contador e deriva as
// razões com coerção numérica segura
func resolveMetrics(record map[string]any) domain.MetricSet {
	return domain.NewMetricSet(
		resolveCounter(record, "spend"),
		roundCount(resolveCounter(record, "impressions")),
		roundCount(resolveCounter(record, "clicks")),
		roundCount(resolveCounter(record, "conversions")),
	)
}

func roundCount(n float64) int {
	return int(math.Round(n))
}

// childRecords extrai a coleção de filhos, aceitando lista direta ou a forma
// paginada {"data": [...]}
func childRecords(record map[string]any, candidates ...string) []any {
	for _, key := range candidates {
		raw, present := record[key]
		if !present {
			continue
		}

		switch value := raw.(type) {
		case []any:
			return value
		case map[string]any:
			if data, ok := value["data"].([]any); ok {
				return data
			}
		}
	}

	return nil
}

func defaultCampaign() *domain.Campaign {
	return &domain.Campaign{Metrics: domain.NewMetricSet(0, 0, 0, 0)}
}

func defaultAdSet(parent *domain.Campaign) *domain.AdSet {
	return &domain.AdSet{
		CampaignID:   parent.ID,
		CampaignName: parent.Name,
		Metrics:      domain.NewMetricSet(0, 0, 0, 0),
	}
}

func defaultAd(parent *domain.AdSet) *domain.Ad {
	return &domain.Ad{
		AdSetID:    parent.ID,
		CampaignID: parent.CampaignID,
		Metrics:    domain.NewMetricSet(0, 0, 0, 0),
	}
}
