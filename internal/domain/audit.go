package domain

import "time"

// AuditEntry é o resultado persistido de uma auditoria concluída. Guarda o
// snapshot completo para permitir reexibição e o fallback quando a API
// upstream está indisponível.
type AuditEntry struct {
	ID        string  `json:"id"`
	AccountID string  `json:"account_id"`
	ClientID  *string `json:"client_id"`

	Snapshot        *AccountSnapshot     `json:"snapshot"`
	Recommendations []Recommendation     `json:"recommendations"`
	Source          RecommendationSource `json:"recommendation_source"`

	// Soma das economias estimadas da lista de recomendações
	EstimatedSavings float64 `json:"estimated_savings"`

	CreatedAt time.Time `json:"created_at"`
}

// AccountOverview é o resumo agregado consumido pelos widgets de sumário
type AccountOverview struct {
	AccountID           string    `json:"account_id"`
	Metrics             MetricSet `json:"metrics"`
	ActiveCampaignCount int       `json:"active_campaign_count"`
	EstimatedSavings    float64   `json:"estimated_savings"`
	Sample              bool      `json:"sample"`
	FetchedAt           time.Time `json:"fetched_at"`
}
