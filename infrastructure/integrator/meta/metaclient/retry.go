package metaclient

import (
	"sync"
	"time"
)

// RetryState descreve em que ponto da política de retry o chamador está
type RetryState string

const (
	// RetryIdle: nenhuma tentativa em andamento, uma nova pode começar
	RetryIdle RetryState = "idle"
	// RetryWaiting: rate limit ativo, aguardando a contagem regressiva
	RetryWaiting RetryState = "waiting"
	// RetryRetryable: a espera terminou, o chamador pode disparar nova tentativa
	RetryRetryable RetryState = "retryable"
	// RetryExhausted: o número máximo de tentativas foi atingido
	RetryExhausted RetryState = "exhausted"
)

// RetryPolicy é a máquina de estados pura que limita as tentativas de busca.
// Ela nunca dispara requisições sozinha: um rate limit vira uma espera
// visível que o chamador resolve, em vez de martelar o upstream.
type RetryPolicy struct {
	mu          sync.Mutex
	maxAttempts int
	attempts    int
	waitUntil   time.Time

	// injetável nos testes
	now func() time.Time
}

func NewRetryPolicy(maxAttempts int) *RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	return &RetryPolicy{
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Begin registra o início de uma tentativa. Retorna falso se a política não
// permite tentar agora (espera em curso ou tentativas esgotadas).
func (p *RetryPolicy) Begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.attempts >= p.maxAttempts {
		return false
	}

	if p.now().Before(p.waitUntil) {
		return false
	}

	p.attempts++
	return true
}

// NoteRateLimited registra um 429 e arma a contagem regressiva
func (p *RetryPolicy) NoteRateLimited(retryAfter time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waitUntil = p.now().Add(retryAfter)
}

// State devolve o estado corrente da política
func (p *RetryPolicy) State() RetryState {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.now().Before(p.waitUntil) {
		return RetryWaiting
	}

	if p.attempts >= p.maxAttempts {
		return RetryExhausted
	}

	if p.attempts > 0 {
		return RetryRetryable
	}

	return RetryIdle
}

// RemainingWait devolve quanto falta da contagem regressiva do rate limit
func (p *RetryPolicy) RemainingWait() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	remaining := p.waitUntil.Sub(p.now())
	if remaining < 0 {
		return 0
	}

	return remaining
}

// Attempts devolve quantas tentativas já foram iniciadas
func (p *RetryPolicy) Attempts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts
}

// Exhausted indica se o limite de tentativas foi atingido
func (p *RetryPolicy) Exhausted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts >= p.maxAttempts
}
