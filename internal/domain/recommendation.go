package domain

// Severity classifica a urgência de uma recomendação
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank devolve o peso da severidade para ordenação (maior = mais urgente)
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// RecommendationSource identifica a origem de uma lista de recomendações.
// As duas origens são mutuamente exclusivas: nunca misturar itens externos
// com itens sintetizados na mesma lista.
type RecommendationSource string

const (
	SourceExternal RecommendationSource = "external"
	SourceFallback RecommendationSource = "fallback"
)

type Recommendation struct {
	TargetID   string `json:"target_id"`
	TargetName string `json:"target_name"`
	Category   string `json:"category"`

	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	ActionItems []string `json:"action_items"`

	// Fração heurística do gasto do nó, nunca uma economia garantida
	EstimatedSavings float64 `json:"estimated_savings"`
}
