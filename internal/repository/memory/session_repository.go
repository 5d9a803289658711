package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"trulearn-be/pkg/quiz"
)

// StudySession is the ephemeral per-document state kept between calls so
// the full source text is not re-sent on every request. Entries expire
// with the cache TTL; nothing survives a restart.
type StudySession struct {
	Filename   string      `json:"filename"`
	Concept    string      `json:"concept"`
	Summary    string      `json:"summary"`
	Items      []quiz.Item `json:"items,omitempty"`
	UploadedAt time.Time   `json:"uploaded_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository creates the store with the given TTL; expired
// entries are purged every 10 minutes.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

// Save stores a snapshot of the session under both its filename and its
// concept, so later calls can resolve the summary from either identifier.
// The stored copy is never mutated after insertion; concurrent writers for
// the same key race only on which snapshot wins, never on struct fields.
func (r *SessionRepository) Save(session *StudySession) {
	session.UpdatedAt = time.Now()
	stored := session.clone()
	if stored.Filename != "" {
		r.cache.Set(stored.Filename, stored, cache.DefaultExpiration)
	}
	if stored.Concept != "" {
		r.cache.Set(stored.Concept, stored, cache.DefaultExpiration)
	}
}

// Get resolves a session by filename or concept key. The caller receives a
// private copy; mutating it does not touch the store until Save.
func (r *SessionRepository) Get(key string) (*StudySession, bool) {
	if x, found := r.cache.Get(key); found {
		return x.(*StudySession).clone(), true
	}
	return nil, false
}

func (s *StudySession) clone() *StudySession {
	c := *s
	if s.Items != nil {
		c.Items = make([]quiz.Item, len(s.Items))
		copy(c.Items, s.Items)
	}
	return &c
}

func (r *SessionRepository) Delete(key string) {
	if session, found := r.Get(key); found {
		r.cache.Delete(session.Filename)
		r.cache.Delete(session.Concept)
		return
	}
	r.cache.Delete(key)
}

// Clear drops every session.
func (r *SessionRepository) Clear() {
	r.cache.Flush()
}
