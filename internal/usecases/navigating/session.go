package navigating

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/ad-auditor-api/internal/domain"
)

var (
	ErrNodeNotFound = errors.New("node not found at current level")
	ErrInvalidCrumb = errors.New("breadcrumb does not match the navigation trail")
	ErrNoSnapshot   = errors.New("session has no snapshot loaded")
)

// Session é o estado de navegação de uma auditoria em andamento. A trilha de
// breadcrumbs determina o nível corrente: vazia → campanhas, um item →
// conjuntos da campanha, dois itens → anúncios do conjunto.
//
// Invariante: len(breadcrumbs) == profundidade corrente, sempre.
type Session struct {
	mu sync.RWMutex

	ID        string
	AccountID string
	CreatedAt time.Time

	// Demo marca sessões em que o chamador aceitou dados de exemplo
	// quando o upstream falha de forma definitiva
	Demo bool

	snapshot    *domain.AccountSnapshot
	breadcrumbs []domain.Breadcrumb

	// Sequência de refresh: só a resposta da emissão mais recente é
	// aplicada, respostas atrasadas são descartadas
	issuedSeq  uint64
	appliedSeq uint64

	externalRecs []domain.Recommendation
	hasExternal  bool
}

func NewSession(id, accountID string, snapshot *domain.AccountSnapshot) *Session {
	return &Session{
		ID:          id,
		AccountID:   accountID,
		CreatedAt:   time.Now(),
		snapshot:    snapshot,
		breadcrumbs: make([]domain.Breadcrumb, 0),
	}
}

func (s *Session) Snapshot() *domain.AccountSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Depth devolve a profundidade corrente, que é por definição o tamanho da
// trilha de breadcrumbs
func (s *Session) Depth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.breadcrumbs)
}

func (s *Session) Breadcrumbs() []domain.Breadcrumb {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trail := make([]domain.Breadcrumb, len(s.breadcrumbs))
	copy(trail, s.breadcrumbs)
	return trail
}

// DrillDown desce um nível a partir do nó informado. O nó precisa existir no
// nível corrente do snapshot vigente. No nível de anúncios não há para onde
// descer e a chamada não altera nada.
func (s *Session) DrillDown(nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot == nil {
		return ErrNoSnapshot
	}

	switch len(s.breadcrumbs) {
	case 0:
		campaign := s.snapshot.CampaignByID(nodeID)
		if campaign == nil {
			return errors.Wrapf(ErrNodeNotFound, "campaign %s", nodeID)
		}
		s.breadcrumbs = append(s.breadcrumbs, domain.Breadcrumb{ID: campaign.ID, Name: campaign.Name})
	case 1:
		campaign := s.snapshot.CampaignByID(s.breadcrumbs[0].ID)
		if campaign == nil {
			return errors.Wrapf(ErrNodeNotFound, "campaign %s", s.breadcrumbs[0].ID)
		}
		adset := campaign.AdSetByID(nodeID)
		if adset == nil {
			return errors.Wrapf(ErrNodeNotFound, "adset %s", nodeID)
		}
		s.breadcrumbs = append(s.breadcrumbs, domain.Breadcrumb{ID: adset.ID, Name: adset.Name})
	default:
		// Anúncios são folhas
		return nil
	}

	return nil
}

// NavigateToBreadcrumb volta para a profundidade indicada, truncando a
// trilha. Profundidade 0 é a raiz (lista de campanhas). O id precisa bater
// com o breadcrumb registrado naquela posição, exceto na raiz.
func (s *Session) NavigateToBreadcrumb(depth int, nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if depth < 0 || depth > len(s.breadcrumbs) {
		return errors.Wrapf(ErrInvalidCrumb, "depth %d with trail of %d", depth, len(s.breadcrumbs))
	}

	if depth > 0 && s.breadcrumbs[depth-1].ID != nodeID {
		return errors.Wrapf(ErrInvalidCrumb, "expected %s at depth %d", s.breadcrumbs[depth-1].ID, depth)
	}

	s.breadcrumbs = s.breadcrumbs[:depth]
	return nil
}

// CurrentLevelItems devolve os nós do nível corrente. Se a trilha não puder
// ser resolvida no snapshot vigente (um refresh removeu a campanha, por
// exemplo), devolve uma lista vazia, nunca erro.
func (s *Session) CurrentLevelItems() []domain.FlatNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.FlatNode, 0)

	if s.snapshot == nil {
		return items
	}

	switch len(s.breadcrumbs) {
	case 0:
		for _, c := range s.snapshot.Campaigns {
			items = append(items, domain.FlatNode{
				Level:   domain.LevelCampaign,
				ID:      c.ID,
				Name:    c.Name,
				Status:  c.Status,
				Metrics: c.Metrics,
			})
		}
	case 1:
		campaign := s.snapshot.CampaignByID(s.breadcrumbs[0].ID)
		if campaign == nil {
			return items
		}
		for _, as := range campaign.AdSets {
			items = append(items, domain.FlatNode{
				Level:      domain.LevelAdSet,
				ID:         as.ID,
				Name:       as.Name,
				Status:     as.Status,
				CampaignID: campaign.ID,
				Metrics:    as.Metrics,
			})
		}
	default:
		campaign := s.snapshot.CampaignByID(s.breadcrumbs[0].ID)
		if campaign == nil {
			return items
		}
		adset := campaign.AdSetByID(s.breadcrumbs[1].ID)
		if adset == nil {
			return items
		}
		for _, ad := range adset.Ads {
			items = append(items, domain.FlatNode{
				Level:      domain.LevelAd,
				ID:         ad.ID,
				Name:       ad.Name,
				Status:     ad.Status,
				CampaignID: campaign.ID,
				AdSetID:    adset.ID,
				Metrics:    ad.Metrics,
			})
		}
	}

	return items
}

// BeginRefresh emite um novo número de sequência. Respostas de emissões
// anteriores passam a ser descartadas.
func (s *Session) BeginRefresh() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issuedSeq++
	return s.issuedSeq
}

// ApplyRefresh troca o snapshot se e somente se a sequência informada for a
// emissão mais recente. Um refresh aplicado volta a navegação para a raiz e
// descarta recomendações externas, que se referiam ao snapshot anterior.
func (s *Session) ApplyRefresh(seq uint64, snapshot *domain.AccountSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.issuedSeq || seq <= s.appliedSeq {
		return false
	}

	s.appliedSeq = seq
	s.snapshot = snapshot
	s.breadcrumbs = s.breadcrumbs[:0]
	s.externalRecs = nil
	s.hasExternal = false
	return true
}

// SetExternalRecommendations registra recomendações vindas da plataforma.
// Uma lista vazia também conta como registro: externo e fallback nunca se
// misturam.
func (s *Session) SetExternalRecommendations(recs []domain.Recommendation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.externalRecs = make([]domain.Recommendation, len(recs))
	copy(s.externalRecs, recs)
	s.hasExternal = true
}

func (s *Session) ExternalRecommendations() ([]domain.Recommendation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasExternal {
		return nil, false
	}

	recs := make([]domain.Recommendation, len(s.externalRecs))
	copy(recs, s.externalRecs)
	return recs, true
}
