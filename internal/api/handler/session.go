package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-auditor-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ad-auditor-api/internal/domain"
	"github.com/vfg2006/ad-auditor-api/internal/usecases/auditing"
	"github.com/vfg2006/ad-auditor-api/internal/usecases/navigating"
	"github.com/vfg2006/ad-auditor-api/internal/usecases/normalizing"
	"github.com/vfg2006/ad-auditor-api/pkg/apiErrors"
)

type StartSessionRequest struct {
	AccountID string  `json:"account_id"`
	ClientID  *string `json:"client_id"`
	Demo      bool    `json:"demo"`
}

type DrillDownRequest struct {
	NodeID string `json:"node_id"`
}

type BreadcrumbRequest struct {
	NodeID string `json:"node_id"`
}

type RegisterRecommendationsRequest struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
}

// SessionResponse é a visão serializada de uma sessão de navegação
type SessionResponse struct {
	SessionID   string              `json:"session_id"`
	AccountID   string              `json:"account_id"`
	Sample      bool                `json:"sample"`
	Depth       int                 `json:"depth"`
	Breadcrumbs []domain.Breadcrumb `json:"breadcrumbs"`
	Items       []domain.FlatNode   `json:"items"`
}

type RecommendationsResponse struct {
	Source          domain.RecommendationSource `json:"source"`
	Recommendations []domain.Recommendation     `json:"recommendations"`
}

func newSessionResponse(session *navigating.Session) SessionResponse {
	sample := false
	if snapshot := session.Snapshot(); snapshot != nil {
		sample = snapshot.Sample
	}

	return SessionResponse{
		SessionID:   session.ID,
		AccountID:   session.AccountID,
		Sample:      sample,
		Depth:       session.Depth(),
		Breadcrumbs: session.Breadcrumbs(),
		Items:       session.CurrentLevelItems(),
	}
}

// StartSession audita a conta informada e abre uma sessão de navegação na raiz
func StartSession(service auditing.Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - StartSession")

		var req StartSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if req.AccountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da conta não fornecido", nil)
			return
		}

		session, err := service.StartSession(r.Context(), req.AccountID, req.ClientID, req.Demo)
		if err != nil {
			handleAuditError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(newSessionResponse(session))
	}
}

// GetSessionItems retorna o nível corrente da sessão
func GetSessionItems(service auditing.Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, service)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(newSessionResponse(session))
	}
}

// DrillDown desce um nível na hierarquia a partir do nó informado
func DrillDown(service auditing.Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, service)
		if !ok {
			return
		}

		var req DrillDownRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if req.NodeID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do nó não fornecido", nil)
			return
		}

		if err := session.DrillDown(req.NodeID); err != nil {
			handleAuditError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(newSessionResponse(session))
	}
}

// NavigateBreadcrumb volta a navegação para a profundidade indicada na URL
func NavigateBreadcrumb(service auditing.Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromRequest(w, r, service)
		if !ok {
			return
		}

		depthStr := httprouter.ParamsFromContext(r.Context()).ByName("depth")
		depth, err := strconv.Atoi(depthStr)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Profundidade inválida", nil)
			return
		}

		// Na raiz (profundidade 0) o corpo é opcional
		var req BreadcrumbRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		if err := session.NavigateToBreadcrumb(depth, req.NodeID); err != nil {
			handleAuditError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(newSessionResponse(session))
	}
}

// RefreshSession rebusca a conta da sessão. Se a busca falhar o snapshot
// anterior permanece navegável e o erro é retornado ao chamador.
func RefreshSession(service auditing.Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RefreshSession")

		sessionID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if sessionID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da sessão não fornecido", nil)
			return
		}

		session, err := service.Refresh(r.Context(), sessionID)
		if err != nil {
			handleAuditError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(newSessionResponse(session))
	}
}

// GetOverview retorna o resumo agregado da conta da sessão
func GetOverview(service auditing.Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		overview, err := service.Overview(sessionID)
		if err != nil {
			handleAuditError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(overview)
	}
}

// GetRecommendations retorna a lista final de recomendações da sessão,
// informando a origem (plataforma ou fallback local)
func GetRecommendations(service auditing.Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		recs, source, err := service.Recommendations(sessionID)
		if err != nil {
			handleAuditError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(RecommendationsResponse{
			Source:          source,
			Recommendations: recs,
		})
	}
}

// RegisterRecommendations registra as recomendações vindas da plataforma
// para a sessão. Uma lista vazia também é um registro válido.
func RegisterRecommendations(service auditing.Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RegisterRecommendations")

		sessionID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if sessionID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da sessão não fornecido", nil)
			return
		}

		var req RegisterRecommendationsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if err := service.RegisterExternalRecommendations(sessionID, req.Recommendations); err != nil {
			handleAuditError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNoContent)
	}
}

func sessionFromRequest(w http.ResponseWriter, r *http.Request, service auditing.Auditor) (*navigating.Session, bool) {
	sessionID := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if sessionID == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da sessão não fornecido", nil)
		return nil, false
	}

	session, err := service.GetSession(sessionID)
	if err != nil {
		handleAuditError(w, err)
		return nil, false
	}

	return session, true
}

// handleAuditError traduz os erros do domínio de auditoria para os códigos
// padronizados da API
func handleAuditError(w http.ResponseWriter, err error) {
	if rateLimited, ok := auditing.IsRateLimited(err); ok {
		apiErrors.WriteError(w, apiErrors.ErrRateLimited, "Upstream pediu espera antes de nova tentativa", map[string]any{
			"retry_after_seconds": int(rateLimited.RetryAfter.Seconds()),
		})
		return
	}

	switch {
	case errors.Is(err, metaclient.ErrCredentialsMissing):
		apiErrors.WriteError(w, apiErrors.ErrCredentialsMissing, "Credencial de acesso ao upstream não configurada", nil)

	case errors.Is(err, auditing.ErrUpstreamUnavailable):
		apiErrors.WriteError(w, apiErrors.ErrUpstreamUnavailable, "Upstream indisponível e sem auditoria anterior da conta", nil)

	case errors.Is(err, normalizing.ErrMalformedRoot):
		apiErrors.WriteError(w, apiErrors.ErrMalformedHierarchy, "Resposta da hierarquia malformada na raiz", nil)

	case errors.Is(err, navigating.ErrSessionNotFound):
		apiErrors.WriteError(w, apiErrors.ErrSessionNotFound, "Sessão não encontrada ou expirada", nil)

	case errors.Is(err, navigating.ErrNodeNotFound),
		errors.Is(err, navigating.ErrInvalidCrumb),
		errors.Is(err, navigating.ErrNoSnapshot):
		apiErrors.WriteError(w, apiErrors.ErrInvalidNavigation, err.Error(), nil)

	case errors.Is(err, auditing.ErrAuditNotFound):
		apiErrors.WriteError(w, apiErrors.ErrAuditNotFound, "Auditoria não encontrada", nil)

	default:
		logrus.Error(err)
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno ao processar auditoria", nil)
	}
}
