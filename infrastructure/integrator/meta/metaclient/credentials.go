package metaclient

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrCredentialsMissing indica que nenhuma credencial foi configurada para a
// sessão. É fatal: sem credencial não há requisição possível.
var ErrCredentialsMissing = errors.New("credencial de acesso ausente")

// CredentialProvider concentra o acesso à credencial do upstream. Todos os
// pontos de chamada passam por aqui em vez de ler configuração ad hoc.
type CredentialProvider interface {
	Get() (string, error)
	Set(token string)
	Clear()
}

type memoryCredentials struct {
	mu    sync.RWMutex
	token string
}

// NewCredentialProvider cria um provider em memória, opcionalmente semeado
// com o token da configuração
func NewCredentialProvider(seed string) CredentialProvider {
	return &memoryCredentials{token: seed}
}

func (m *memoryCredentials) Get() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.token == "" {
		return "", ErrCredentialsMissing
	}

	return m.token, nil
}

func (m *memoryCredentials) Set(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func (m *memoryCredentials) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
}
