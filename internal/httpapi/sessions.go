package httpapi

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luiso2/betbridge/internal/play23"
)

// Session binds an opaque API session id to the upstream client that holds
// the actual cookie session. One client per login; never shared across ids.
type Session struct {
	ID        string
	Client    *play23.Client
	Username  string
	LoginTime time.Time
}

// Registry is the in-memory session store keyed by the id handed to the
// frontend in the X-Session-Id header.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[string]*Session{}}
}

func (r *Registry) Add(client *play23.Client, username string) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Client:    client,
		Username:  username,
		LoginTime: time.Now(),
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
