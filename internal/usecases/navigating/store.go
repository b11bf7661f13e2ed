package navigating

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

var ErrSessionNotFound = errors.New("session not found or expired")

// Store guarda sessões de navegação em memória com TTL. Sessões expiradas
// somem sozinhas; o chamador recebe ErrSessionNotFound e abre uma nova.
type Store interface {
	Put(session *Session)
	Get(id string) (*Session, error)
	Delete(id string)
}

type memoryStore struct {
	cache *gocache.Cache
}

func NewStore(ttl time.Duration) Store {
	return &memoryStore{
		cache: gocache.New(ttl, ttl/2),
	}
}

func (s *memoryStore) Put(session *Session) {
	s.cache.SetDefault(session.ID, session)
}

func (s *memoryStore) Get(id string) (*Session, error) {
	value, found := s.cache.Get(id)
	if !found {
		return nil, errors.Wrap(ErrSessionNotFound, id)
	}

	session, ok := value.(*Session)
	if !ok {
		return nil, errors.Wrap(ErrSessionNotFound, id)
	}

	return session, nil
}

func (s *memoryStore) Delete(id string) {
	s.cache.Delete(id)
}
