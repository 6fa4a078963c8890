package memory

import (
	"context"
	"time"

	chatmem "cloess-chatbot-be/pkg/assistant/memory"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps conversation memory in process. Sessions expire
// after ttl of inactivity; ttl <= 0 keeps them for the process lifetime.
type SessionRepository struct {
	cache *cache.Cache
}

var _ chatmem.Store = &SessionRepository{}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &SessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *SessionRepository) Load(_ context.Context, sessionID string) (*chatmem.Session, error) {
	x, found := r.cache.Get(sessionID)
	if !found {
		return nil, nil
	}
	s := x.(chatmem.Session)
	s.Turns = append([]chatmem.Turn(nil), s.Turns...)
	return &s, nil
}

// Save stores a copy and refreshes the idle expiry.
func (r *SessionRepository) Save(_ context.Context, session *chatmem.Session) error {
	s := *session
	s.Turns = append([]chatmem.Turn(nil), session.Turns...)
	r.cache.Set(session.ID, s, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
