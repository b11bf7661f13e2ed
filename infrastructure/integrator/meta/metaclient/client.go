package metaclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/ad-auditor-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ad-auditor-api/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FetchKind classifica a resposta do upstream
type FetchKind string

const (
	FetchOK          FetchKind = "ok"
	FetchRateLimited FetchKind = "rate_limited"
	FetchFailure     FetchKind = "failure"
)

// FetchResult é o resultado classificado de uma busca da hierarquia. No caso
// de sucesso o payload é repassado sem interpretação: o parse pertence ao
// normalizador.
type FetchResult struct {
	Kind       FetchKind
	Payload    []byte
	RetryAfter time.Duration
	Reason     string
}

type Client interface {
	FetchHierarchy(ctx context.Context, accountID string) (*FetchResult, error)
}

type MetaClient struct {
	Cfg         *config.Config
	Credentials CredentialProvider
	httpClient  *http.Client
}

func NewClient(cfg *config.Config, credentials CredentialProvider) Client {
	timeout := time.Duration(cfg.Meta.RequestTimeoutSeconds) * time.Second

	return &MetaClient{
		Cfg:         cfg,
		Credentials: credentials,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// hierarchyFields é a projeção aninhada campanha → conjunto → anúncio pedida
// em uma única chamada ao Graph
func (c *MetaClient) hierarchyFields() string {
	limit := c.Cfg.Meta.HierarchyChildPageLimit

	insightFields := "insights{spend,impressions,clicks,actions}"
	adFields := fmt.Sprintf("ads.limit(%d){id,name,status,%s}", limit, insightFields)
	adsetFields := fmt.Sprintf("adsets.limit(%d){id,name,status,daily_budget,%s,%s}", limit, insightFields, adFields)

	return fmt.Sprintf("id,name,status,objective,daily_budget,lifetime_budget,%s,%s", insightFields, adsetFields)
}

// FetchHierarchy busca o snapshot hierárquico da conta e classifica a
// resposta. Não há retry automático aqui: a política de retry é dirigida
// pelo chamador via RetryPolicy.
func (c *MetaClient) FetchHierarchy(ctx context.Context, accountID string) (*FetchResult, error) {
	token, err := c.Credentials.Get()
	if err != nil {
		return nil, err
	}

	baseURL := fmt.Sprintf("%s/act_%s/campaigns", c.Cfg.Meta.URL, accountID)

	params := url.Values{}
	params.Add("fields", c.hierarchyFields())
	params.Add("limit", strconv.Itoa(c.Cfg.Meta.HierarchyChildPageLimit))
	params.Add("access_token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição")
		return &FetchResult{
			Kind:   FetchFailure,
			Reason: fmt.Sprintf("falha de rede ao consultar a hierarquia: %v", err),
		}, nil
	}
	defer resp.Body.Close()

	return c.classifyResponse(resp, accountID), nil
}

// classifyResponse converte a resposta HTTP na taxonomia do controlador:
// 2xx repassa o payload, 429 vira RateLimited com o tempo de espera e
// qualquer outro status vira Failure com motivo legível.
func (c *MetaClient) classifyResponse(resp *http.Response, accountID string) *FetchResult {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchResult{
			Kind:   FetchFailure,
			Reason: fmt.Sprintf("falha ao ler resposta do upstream: %v", err),
		}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return &FetchResult{Kind: FetchOK, Payload: body}

	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := c.retryAfterFrom(resp, body)

		logrus.WithFields(logrus.Fields{
			"account_id":  accountID,
			"retry_after": retryAfter.String(),
		}).Warn("hierarchy: rate limited by upstream API")

		return &FetchResult{Kind: FetchRateLimited, RetryAfter: retryAfter}

	default:
		reason := upstreamErrorReason(body)
		if reason == "" {
			reason = fmt.Sprintf("upstream respondeu status %d", resp.StatusCode)
		}

		logrus.WithFields(logrus.Fields{
			"account_id":  accountID,
			"status_code": resp.StatusCode,
			"reason":      reason,
		}).Error("hierarchy: upstream request failed")

		return &FetchResult{Kind: FetchFailure, Reason: reason}
	}
}

// retryAfterFrom extrai o tempo de espera de um 429. O header Retry-After em
// segundos tem prioridade sobre o campo do corpo; sem nenhum dos dois vale o
// fallback fixo da configuração.
func (c *MetaClient) retryAfterFrom(resp *http.Response, body []byte) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}

	var payload struct {
		RetryAfter int `json:"retry_after"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.RetryAfter > 0 {
		return time.Duration(payload.RetryAfter) * time.Second
	}

	return time.Duration(c.Cfg.Meta.RateLimitFallbackSecs) * time.Second
}

// upstreamErrorReason tenta extrair a mensagem de erro estruturada do Meta
func upstreamErrorReason(body []byte) string {
	var errResp metadomain.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}

	if errResp.Error.Message == "" {
		return ""
	}

	if errResp.Error.Type != "" {
		return fmt.Sprintf("%s: %s", errResp.Error.Type, errResp.Error.Message)
	}

	return errResp.Error.Message
}
