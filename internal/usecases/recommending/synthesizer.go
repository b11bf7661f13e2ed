package recommending

import (
	"fmt"
	"sort"

	"github.com/vfg2006/ad-auditor-api/internal/domain"
	"github.com/vfg2006/ad-auditor-api/pkg/utils"
)

// Frações de economia estimada por severidade, aplicadas sobre o gasto do
// nó sinalizado. São heurísticas de triagem, não promessas.
const (
	savingsShareHigh   = 0.15
	savingsShareMedium = 0.10
	savingsShareLow    = 0.05
)

// Limiares das regras de fallback. Cada regra olha um nível da hierarquia e
// só considera nós ativos: nó pausado não gasta, não gera recomendação.
const (
	campaignMinSpend    = 100.0
	campaignMaxConvRate = 1.0
	adsetMinSpend       = 50.0
	adsetMaxCTR         = 0.5
	adMinSpend          = 20.0
	adMaxCPC            = 2.0
)

type Synthesizer interface {
	Synthesize(snapshot *domain.AccountSnapshot) []domain.Recommendation
}

type service struct{}

func NewSynthesizer() Synthesizer {
	return &service{}
}

// Synthesize percorre o snapshot inteiro e aplica as regras de fallback por
// nível. O resultado sai ordenado por severidade e, dentro da mesma
// severidade, por economia estimada decrescente.
func (s *service) Synthesize(snapshot *domain.AccountSnapshot) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0)

	if snapshot == nil {
		return recs
	}

	for _, node := range snapshot.FlatNodes() {
		if !domain.IsActive(node.Status) {
			continue
		}

		if rec := evaluateNode(node); rec != nil {
			recs = append(recs, *rec)
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Severity.Rank() != recs[j].Severity.Rank() {
			return recs[i].Severity.Rank() > recs[j].Severity.Rank()
		}
		return recs[i].EstimatedSavings > recs[j].EstimatedSavings
	})

	return recs
}

func evaluateNode(node domain.FlatNode) *domain.Recommendation {
	m := node.Metrics

	switch node.Level {
	case domain.LevelCampaign:
		if m.Spend > campaignMinSpend && m.ConversionRate < campaignMaxConvRate {
			return &domain.Recommendation{
				TargetID:   node.ID,
				TargetName: node.Name,
				Category:   "conversion_efficiency",
				Severity:   domain.SeverityHigh,
				Message: fmt.Sprintf(
					"Campanha %q gastou %.2f com taxa de conversão de %.2f%%. Revise o funil antes de continuar investindo.",
					node.Name, m.Spend, m.ConversionRate,
				),
				ActionItems: []string{
					"Revisar a segmentação de público da campanha",
					"Conferir o rastreamento de conversões da página de destino",
					"Reduzir o orçamento até a taxa de conversão melhorar",
				},
				EstimatedSavings: utils.RoundWithTwoDecimalPlace(m.Spend * savingsShareHigh),
			}
		}
	case domain.LevelAdSet:
		if m.Spend > adsetMinSpend && m.CTR < adsetMaxCTR {
			return &domain.Recommendation{
				TargetID:   node.ID,
				TargetName: node.Name,
				Category:   "engagement",
				Severity:   domain.SeverityMedium,
				Message: fmt.Sprintf(
					"Conjunto %q tem CTR de %.2f%% com gasto de %.2f. O público não está respondendo aos criativos.",
					node.Name, m.CTR, m.Spend,
				),
				ActionItems: []string{
					"Testar novos criativos no conjunto",
					"Restringir o público para aumentar a relevância",
				},
				EstimatedSavings: utils.RoundWithTwoDecimalPlace(m.Spend * savingsShareMedium),
			}
		}
	case domain.LevelAd:
		if m.Spend > adMinSpend && m.CPC > adMaxCPC {
			return &domain.Recommendation{
				TargetID:   node.ID,
				TargetName: node.Name,
				Category:   "cost_per_click",
				Severity:   domain.SeverityLow,
				Message: fmt.Sprintf(
					"Anúncio %q está pagando %.2f por clique. Há espaço para baratear o tráfego.",
					node.Name, m.CPC,
				),
				ActionItems: []string{
					"Pausar o anúncio e redirecionar o orçamento para variações mais baratas",
				},
				EstimatedSavings: utils.RoundWithTwoDecimalPlace(m.Spend * savingsShareLow),
			}
		}
	}

	return nil
}

// TotalEstimatedSavings soma a economia estimada de uma lista de
// recomendações
func TotalEstimatedSavings(recs []domain.Recommendation) float64 {
	var total float64
	for _, rec := range recs {
		total += rec.EstimatedSavings
	}
	return utils.RoundWithTwoDecimalPlace(total)
}
