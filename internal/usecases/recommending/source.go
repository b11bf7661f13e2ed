package recommending

import (
	"github.com/vfg2006/ad-auditor-api/internal/domain"
)

// Resolve decide a lista final de recomendações de uma auditoria. Se a
// plataforma registrou recomendações externas, elas saem como estão, mesmo
// vazias; só na ausência de registro a síntese de fallback entra em cena.
func Resolve(
	external []domain.Recommendation,
	registered bool,
	snapshot *domain.AccountSnapshot,
	synthesizer Synthesizer,
) ([]domain.Recommendation, domain.RecommendationSource) {
	if registered {
		if external == nil {
			external = make([]domain.Recommendation, 0)
		}
		return external, domain.SourceExternal
	}

	return synthesizer.Synthesize(snapshot), domain.SourceFallback
}
