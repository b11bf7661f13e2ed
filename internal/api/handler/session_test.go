package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-auditor-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ad-auditor-api/internal/usecases/auditing"
	"github.com/vfg2006/ad-auditor-api/internal/usecases/navigating"
	"github.com/vfg2006/ad-auditor-api/pkg/apiErrors"
)

func TestHandleAuditError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Credencial ausente tem código próprio",
			err:            metaclient.ErrCredentialsMissing,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   apiErrors.ErrCredentialsMissing,
		},
		{
			name:           "Credencial ausente encadeada também é reconhecida",
			err:            errors.Wrap(metaclient.ErrCredentialsMissing, "conta act_1"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   apiErrors.ErrCredentialsMissing,
		},
		{
			name:           "Upstream indisponível",
			err:            auditing.ErrUpstreamUnavailable,
			expectedStatus: http.StatusBadGateway,
			expectedCode:   apiErrors.ErrUpstreamUnavailable,
		},
		{
			name:           "Sessão inexistente",
			err:            navigating.ErrSessionNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   apiErrors.ErrSessionNotFound,
		},
		{
			name:           "Nó inexistente é navegação inválida",
			err:            navigating.ErrNodeNotFound,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apiErrors.ErrInvalidNavigation,
		},
		{
			name:           "Erro desconhecido cai no genérico",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   apiErrors.ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleAuditError(rec, tt.err)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var body apiErrors.APIError
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.expectedCode, body.Code)
		})
	}
}

func TestHandleAuditError_RateLimitCarriesWait(t *testing.T) {
	rec := httptest.NewRecorder()
	handleAuditError(rec, &auditing.RateLimitedError{RetryAfter: 120 * time.Second})

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body apiErrors.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, apiErrors.ErrRateLimited, body.Code)

	details, ok := body.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(120), details["retry_after_seconds"])
}
