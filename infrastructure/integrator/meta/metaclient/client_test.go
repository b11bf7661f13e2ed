package metaclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-auditor-api/internal/config"
)

func newTestClient(t *testing.T, upstream *httptest.Server, token string) Client {
	t.Helper()

	cfg := &config.Config{}
	cfg.Meta.URL = upstream.URL
	cfg.Meta.MaxFetchAttempts = 3
	cfg.Meta.RateLimitFallbackSecs = 300
	cfg.Meta.RequestTimeoutSeconds = 5
	cfg.Meta.HierarchyChildPageLimit = 100

	return NewClient(cfg, NewCredentialProvider(token))
}

func TestFetchHierarchy_SuccessPassesPayloadThroughUnparsed(t *testing.T) {
	raw := `{"data":[{"id":"1","name":"C1","status":"ACTIVE"}]}`

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("access_token"))
		assert.Contains(t, r.URL.Query().Get("fields"), "adsets")
		w.Write([]byte(raw))
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream, "token")

	result, err := client.FetchHierarchy(context.Background(), "123")
	require.NoError(t, err)

	assert.Equal(t, FetchOK, result.Kind)
	assert.Equal(t, raw, string(result.Payload))
}

func TestFetchHierarchy_RateLimitedWithHeader(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream, "token")

	result, err := client.FetchHierarchy(context.Background(), "123")
	require.NoError(t, err)

	assert.Equal(t, FetchRateLimited, result.Kind)
	assert.Equal(t, 120*time.Second, result.RetryAfter)
}

func TestFetchHierarchy_RateLimitedWithoutHeaderUsesFallback(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream, "token")

	result, err := client.FetchHierarchy(context.Background(), "123")
	require.NoError(t, err)

	assert.Equal(t, FetchRateLimited, result.Kind)
	assert.Equal(t, 300*time.Second, result.RetryAfter)
}

func TestFetchHierarchy_FailureCarriesUpstreamReason(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Unsupported get request","type":"GraphMethodException","code":100}}`))
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream, "token")

	result, err := client.FetchHierarchy(context.Background(), "123")
	require.NoError(t, err)

	assert.Equal(t, FetchFailure, result.Kind)
	assert.Contains(t, result.Reason, "Unsupported get request")
}

func TestFetchHierarchy_MissingCredentialIsFatal(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("nenhuma requisição deveria ser feita sem credencial")
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream, "")

	result, err := client.FetchHierarchy(context.Background(), "123")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrCredentialsMissing)
}

func TestCredentialProvider_SetAndClear(t *testing.T) {
	provider := NewCredentialProvider("")

	_, err := provider.Get()
	assert.ErrorIs(t, err, ErrCredentialsMissing)

	provider.Set("abc")
	token, err := provider.Get()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	provider.Clear()
	_, err = provider.Get()
	assert.ErrorIs(t, err, ErrCredentialsMissing)
}
