package domain

import (
	"strings"
	"time"
)

// Level identifica a profundidade de um nó na hierarquia da conta
type Level string

const (
	LevelCampaign Level = "campaign"
	LevelAdSet    Level = "adset"
	LevelAd       Level = "ad"
)

// ActiveStatus é o status de plataforma que marca um nó como ativo. A
// comparação nunca diferencia maiúsculas: a API devolve "ACTIVE", "active"
// e variações conforme a versão.
const ActiveStatus = "active"

type Ad struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`

	// Referências ao pai: sempre injetadas a partir da posição na árvore,
	// nunca confiadas do payload bruto
	AdSetID    string `json:"adset_id"`
	CampaignID string `json:"campaign_id"`

	Metrics MetricSet `json:"metrics"`
}

type AdSet struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`

	CampaignID   string `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`

	Metrics MetricSet `json:"metrics"`
	Ads     []*Ad     `json:"ads"`
}

type Campaign struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Objective string `json:"objective,omitempty"`

	Metrics MetricSet `json:"metrics"`
	AdSets  []*AdSet  `json:"adsets"`
}

// AccountSnapshot é a raiz imutável de uma busca normalizada. Um refresh
// produz um snapshot inteiramente novo, nunca um patch do anterior.
type AccountSnapshot struct {
	AccountID           string      `json:"account_id"`
	Campaigns           []*Campaign `json:"campaigns"`
	Metrics             MetricSet   `json:"metrics"`
	ActiveCampaignCount int         `json:"active_campaign_count"`
	Sample              bool        `json:"sample"`
	FetchedAt           time.Time   `json:"fetched_at"`
}

// FlatNode é a visão achatada de um nó, etiquetada por nível, para
// consumidores de análise entre níveis
type FlatNode struct {
	Level      Level     `json:"level"`
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	CampaignID string    `json:"campaign_id,omitempty"`
	AdSetID    string    `json:"adset_id,omitempty"`
	Metrics    MetricSet `json:"metrics"`
}

// Breadcrumb é uma entrada da trilha de navegação
type Breadcrumb struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IsActive compara o status livre da plataforma com "active" sem
// diferenciar maiúsculas
func IsActive(status string) bool {
	return strings.EqualFold(status, ActiveStatus)
}

func (s *AccountSnapshot) CampaignByID(id string) *Campaign {
	for _, c := range s.Campaigns {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (c *Campaign) AdSetByID(id string) *AdSet {
	for _, as := range c.AdSets {
		if as.ID == id {
			return as
		}
	}
	return nil
}

// FlatNodes devolve todos os nós do snapshot em uma lista única etiquetada
// por nível, na ordem campanha → conjuntos → anúncios
func (s *AccountSnapshot) FlatNodes() []FlatNode {
	nodes := make([]FlatNode, 0)

	for _, c := range s.Campaigns {
		nodes = append(nodes, FlatNode{
			Level:   LevelCampaign,
			ID:      c.ID,
			Name:    c.Name,
			Status:  c.Status,
			Metrics: c.Metrics,
		})

		for _, as := range c.AdSets {
			nodes = append(nodes, FlatNode{
				Level:      LevelAdSet,
				ID:         as.ID,
				Name:       as.Name,
				Status:     as.Status,
				CampaignID: c.ID,
				Metrics:    as.Metrics,
			})

			for _, ad := range as.Ads {
				nodes = append(nodes, FlatNode{
					Level:      LevelAd,
					ID:         ad.ID,
					Name:       ad.Name,
					Status:     ad.Status,
					CampaignID: c.ID,
					AdSetID:    as.ID,
					Metrics:    ad.Metrics,
				})
			}
		}
	}

	return nodes
}
