package auditing

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrUpstreamUnavailable: tentativas esgotadas e nenhuma auditoria
	// anterior da conta para servir no lugar
	ErrUpstreamUnavailable = errors.New("upstream unavailable and no cached audit for the account")

	// ErrAuditNotFound: a auditoria pedida não existe no repositório
	ErrAuditNotFound = errors.New("audit not found")
)

// RateLimitedError sinaliza ao chamador que o upstream pediu espera. O
// controlador nunca espera sozinho: quem decide aguardar a contagem é quem
// chamou.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("upstream rate limited, retry in %s", e.RetryAfter)
}

// IsRateLimited extrai o RateLimitedError de uma cadeia de erros
func IsRateLimited(err error) (*RateLimitedError, bool) {
	var rateLimited *RateLimitedError
	if errors.As(err, &rateLimited) {
		return rateLimited, true
	}
	return nil, false
}
